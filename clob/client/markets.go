package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/betbot/volarb/clob/types"
)

// GetPrice 查询指定方向的最优价（side=BUY 返回 best ask，side=SELL 返回 best bid 口径与 API 一致）。
func (c *Client) GetPrice(ctx context.Context, tokenID string, side types.Side) (float64, error) {
	var mp types.MarketPrice
	params := map[string]string{
		"token_id": tokenID,
		"side":     string(side),
	}
	if err := c.httpClient.get(ctx, EndpointGetPrice, nil, params, &mp); err != nil {
		return 0, fmt.Errorf("查询价格失败: %w", err)
	}
	price, err := strconv.ParseFloat(mp.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("解析价格失败: %w", err)
	}
	return price, nil
}

// GetBestPrice 返回 (bestBid, bestAsk)。
func (c *Client) GetBestPrice(ctx context.Context, tokenID string) (bestBid, bestAsk float64, err error) {
	var book types.OrderBookSummary
	params := map[string]string{"token_id": tokenID}
	if err = c.httpClient.get(ctx, EndpointGetOrderBook, nil, params, &book); err != nil {
		return 0, 0, fmt.Errorf("查询订单簿失败: %w", err)
	}

	for _, lvl := range book.Bids {
		p, perr := strconv.ParseFloat(lvl.Price, 64)
		if perr != nil {
			continue
		}
		if p > bestBid {
			bestBid = p
		}
	}
	for _, lvl := range book.Asks {
		p, perr := strconv.ParseFloat(lvl.Price, 64)
		if perr != nil {
			continue
		}
		if bestAsk == 0 || p < bestAsk {
			bestAsk = p
		}
	}
	return bestBid, bestAsk, nil
}
