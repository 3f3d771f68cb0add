package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/betbot/volarb/clob/types"
)

// GetPositions 从 Data API 查询当前账户的全部持仓。
// Data API 数据可能滞后，调用方应按最终一致处理。
func (c *Client) GetPositions(ctx context.Context) ([]types.DataPosition, error) {
	user := strings.TrimSpace(c.funderAddress)
	if user == "" {
		return nil, fmt.Errorf("未配置充值地址，无法查询持仓")
	}

	// sizeThreshold=0 避免漏掉小额持仓（尘埃判定在策略层）
	params := map[string]string{
		"user":          user,
		"sizeThreshold": "0",
		"limit":         "500",
	}

	var positions []types.DataPosition
	if err := c.dataClient.get(ctx, "/positions", nil, params, &positions); err != nil {
		return nil, fmt.Errorf("查询持仓失败: %w", err)
	}
	return positions, nil
}

// GetPositionSize 返回指定 token 的持仓数量与均价（无持仓时返回 0）。
func (c *Client) GetPositionSize(ctx context.Context, tokenID string) (size, avgPrice float64, err error) {
	positions, err := c.GetPositions(ctx)
	if err != nil {
		return 0, 0, err
	}
	for _, pos := range positions {
		if pos.Asset == tokenID {
			return pos.Size, pos.AvgPrice, nil
		}
	}
	return 0, 0, nil
}
