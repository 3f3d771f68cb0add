package client

import (
	"context"
	"fmt"

	"github.com/betbot/volarb/clob/signing"
	"github.com/betbot/volarb/clob/types"
)

// DeriveAPICreds 基于私钥派生（或创建）L2 API 凭证，并缓存在客户端上。
func (c *Client) DeriveAPICreds(ctx context.Context) (*types.ApiKeyCreds, error) {
	headers, err := signing.CreateL1Headers(c.privateKey, c.chainID, 0)
	if err != nil {
		return nil, fmt.Errorf("创建 L1 认证头失败: %w", err)
	}

	var creds types.ApiKeyCreds
	if err := c.httpClient.get(ctx, EndpointDeriveAPIKey, headers.Map(), nil, &creds); err != nil {
		// 首次使用时凭证不存在，回退到创建
		if createErr := c.createAPIKey(ctx, &creds); createErr != nil {
			return nil, fmt.Errorf("派生 API 凭证失败: %w", err)
		}
	}
	if creds.Key == "" || creds.Secret == "" {
		return nil, fmt.Errorf("派生的 API 凭证不完整")
	}

	c.creds = &creds
	return &creds, nil
}

func (c *Client) createAPIKey(ctx context.Context, out *types.ApiKeyCreds) error {
	headers, err := signing.CreateL1Headers(c.privateKey, c.chainID, 0)
	if err != nil {
		return fmt.Errorf("创建 L1 认证头失败: %w", err)
	}
	return c.httpClient.post(ctx, EndpointCreateAPIKey, headers.Map(), "", out)
}

// SetAPICreds 注入已有凭证（测试或持久化恢复时使用）。
func (c *Client) SetAPICreds(creds *types.ApiKeyCreds) {
	c.creds = creds
}
