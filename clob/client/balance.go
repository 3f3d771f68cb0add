package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/betbot/volarb/clob/signing"
	"github.com/betbot/volarb/clob/types"
)

// GetBalanceAllowance 查询余额/授权（L2 鉴权）。
func (c *Client) GetBalanceAllowance(ctx context.Context, params *types.BalanceAllowanceParams) (*types.BalanceAllowanceResponse, error) {
	if err := c.canL2Auth(); err != nil {
		return nil, err
	}

	headers, err := signing.CreateL2Headers(c.privateKey, c.creds, &types.L2HeaderArgs{
		Method:      "GET",
		RequestPath: EndpointGetBalanceAllowance,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 L2 认证头失败: %w", err)
	}

	query := map[string]string{
		"asset_type":     params.AssetType,
		"signature_type": strconv.Itoa(int(c.signatureType)),
	}
	if params.TokenID != "" {
		query["token_id"] = params.TokenID
	}

	var resp types.BalanceAllowanceResponse
	if err := c.httpClient.get(ctx, EndpointGetBalanceAllowance, headers.Map(), query, &resp); err != nil {
		return nil, fmt.Errorf("查询余额失败: %w", err)
	}
	return &resp, nil
}

// GetCollateralBalance 查询可用 USDC 余额（小数）。
func (c *Client) GetCollateralBalance(ctx context.Context) (float64, error) {
	resp, err := c.GetBalanceAllowance(ctx, &types.BalanceAllowanceParams{AssetType: "COLLATERAL"})
	if err != nil {
		return 0, err
	}
	raw, err := strconv.ParseFloat(resp.Balance, 64)
	if err != nil {
		return 0, fmt.Errorf("解析余额失败: %w", err)
	}
	// 余额以 USDC 最小单位（1e-6）返回
	return raw / 1e6, nil
}
