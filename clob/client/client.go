// Package client Polymarket CLOB REST 客户端（显式构造，不使用模块级单例）。
package client

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/betbot/volarb/clob/signing"
	"github.com/betbot/volarb/clob/types"
	"github.com/betbot/volarb/pkg/retry"
)

// DefaultHost CLOB 默认主机
const DefaultHost = "https://clob.polymarket.com"

// Client CLOB 客户端。构造时完成所有参数校验，凭证通过 DeriveAPICreds 显式派生。
type Client struct {
	host          string
	chainID       types.Chain
	signatureType types.SignatureType
	funderAddress string

	privateKey *ecdsa.PrivateKey
	creds      *types.ApiKeyCreds

	httpClient *httpClient
	dataClient *httpClient
}

// Options 客户端构造参数
type Options struct {
	// Host CLOB 主机，空则使用 DefaultHost
	Host string
	// ChainID 链 ID，0 则使用 Polygon
	ChainID types.Chain
	// PrivateKeyHex 私钥（hex，0x 前缀可选），必填
	PrivateKeyHex string
	// FunderAddress 充值地址（Proxy Wallet），必填
	FunderAddress string
	// SignatureType 签名类型，默认 Gnosis Safe（2）
	SignatureType types.SignatureType
}

// NewClient 创建客户端并完成构造期校验（等价于原脚本的环境变量检查）。
func NewClient(opts Options) (*Client, error) {
	host := strings.TrimSuffix(opts.Host, "/")
	if host == "" {
		host = DefaultHost
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + strings.TrimPrefix(host, "/")
	}

	chainID := opts.ChainID
	if chainID == 0 {
		chainID = types.ChainPolygon
	}

	if strings.TrimSpace(opts.PrivateKeyHex) == "" {
		return nil, fmt.Errorf("缺少私钥（POLY_KEY）")
	}
	if strings.TrimSpace(opts.FunderAddress) == "" {
		return nil, fmt.Errorf("缺少充值地址（POLY_FUNDER）")
	}

	privateKey, err := signing.PrivateKeyFromHex(opts.PrivateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("解析私钥失败: %w", err)
	}

	return &Client{
		host:          host,
		chainID:       chainID,
		signatureType: opts.SignatureType,
		funderAddress: opts.FunderAddress,
		privateKey:    privateKey,
		httpClient:    newHTTPClient(host),
		dataClient:    newHTTPClient(DataAPIHost),
	}, nil
}

// GetHost 主机地址
func (c *Client) GetHost() string {
	return c.host
}

// GetChainID 链 ID
func (c *Client) GetChainID() types.Chain {
	return c.chainID
}

// FunderAddress 充值地址（库存归属方）
func (c *Client) FunderAddress() string {
	return c.funderAddress
}

// canL2Auth 是否具备 L2 凭证
func (c *Client) canL2Auth() error {
	if c.creds == nil {
		return fmt.Errorf("未派生 API 凭证，请先调用 DeriveAPICreds")
	}
	return nil
}

// VerifyConnectivity 按重试策略确认 REST 主机可达（GET /time）。
func (c *Client) VerifyConnectivity(ctx context.Context, policy retry.Policy) error {
	return policy.Do(ctx, func(ctx context.Context) error {
		return c.httpClient.get(ctx, EndpointTime, nil, nil, nil)
	})
}
