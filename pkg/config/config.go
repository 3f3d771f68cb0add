// Package config 应用配置：YAML 文件 + 环境变量覆盖。
// 钱包凭据只从环境变量读取（POLY_KEY / POLY_FUNDER 等），不落盘；
// 其余参数走 YAML，缺省值在 Load 时补齐，非法组合在 Load 时报错。
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/betbot/volarb/clob/types"
	"github.com/betbot/volarb/internal/markets"
	"github.com/betbot/volarb/internal/strategy"
	"github.com/betbot/volarb/pkg/duration"
	"github.com/betbot/volarb/pkg/logger"
	"github.com/betbot/volarb/pkg/retry"
)

// 钱包与接入点环境变量
const (
	EnvPrivateKey    = "POLY_KEY"
	EnvFunderAddress = "POLY_FUNDER"
	EnvHost          = "POLY_HOST"
	EnvChainID       = "POLY_CHAIN_ID"
	EnvSignatureType = "POLY_SIGNATURE"
)

// WalletConfig 钱包配置（仅环境变量来源）
type WalletConfig struct {
	PrivateKey    string `yaml:"-"`
	FunderAddress string `yaml:"-"`
}

// ClobConfig CLOB 接入配置
type ClobConfig struct {
	// Host CLOB REST 地址；空用官方默认
	Host string `yaml:"host"`
	// ChainID 链 ID；默认 Polygon 主网 137
	ChainID int64 `yaml:"chain_id"`
	// SignatureType 签名类型；默认 2（Gnosis Safe 代理钱包）
	SignatureType int `yaml:"signature_type"`
}

// TradeConfig 交易节奏与资金阈值
type TradeConfig struct {
	// OrderSize 每次买入的目标份数
	OrderSize float64 `yaml:"order_size"`
	// MinUSDCBalance 余额低于该值时暂停新买入
	MinUSDCBalance float64 `yaml:"min_usdc_balance"`
	// TickInterval 行情槽轮询间隔
	TickInterval duration.Duration `yaml:"tick_interval"`
	// SyncInterval 外部持仓对账间隔
	SyncInterval duration.Duration `yaml:"sync_interval"`
	// QuoteMaxAge 行情槽报价的最大可用年龄；0 不校验
	QuoteMaxAge duration.Duration `yaml:"quote_max_age"`
	// DryRun 纸交易模式：不下真实订单，只打印
	DryRun bool `yaml:"dry_run"`
}

// Config 应用配置
type Config struct {
	Wallet     WalletConfig         `yaml:"-"`
	Clob       ClobConfig           `yaml:"clob"`
	Trade      TradeConfig          `yaml:"trade"`
	Strategies []strategy.Config    `yaml:"strategies"`
	Filter     markets.FilterConfig `yaml:"filter"`
	GammaHost  string               `yaml:"gamma_host"`
	FeedURL    string               `yaml:"feed_url"`
	Retry      retry.Policy         `yaml:"retry"`
	Log        logger.Config        `yaml:"log"`
}

// Defaults 补齐缺省值
func (c *Config) Defaults() {
	if c.Clob.ChainID == 0 {
		c.Clob.ChainID = int64(types.ChainPolygon)
	}
	if c.Clob.SignatureType == 0 {
		c.Clob.SignatureType = int(types.SignatureTypePolyGnosisSafe)
	}
	if c.Trade.OrderSize == 0 {
		c.Trade.OrderSize = 5
	}
	if c.Trade.MinUSDCBalance == 0 {
		c.Trade.MinUSDCBalance = 5
	}
	if c.Trade.TickInterval.Duration == 0 {
		c.Trade.TickInterval = duration.New(time.Second)
	}
	if c.Trade.SyncInterval.Duration == 0 {
		c.Trade.SyncInterval = duration.New(10 * time.Minute)
	}
	if c.Trade.QuoteMaxAge.Duration == 0 {
		c.Trade.QuoteMaxAge = duration.New(time.Minute)
	}
	if c.Filter.RequestLimit == 0 {
		c.Filter = markets.DefaultFilterConfig()
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry = retry.DefaultPolicy()
	}
	if c.Log.Level == "" {
		c.Log = logger.DefaultConfig()
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.Wallet.PrivateKey == "" {
		return fmt.Errorf("缺少私钥（环境变量 %s）", EnvPrivateKey)
	}
	if c.Wallet.FunderAddress == "" {
		return fmt.Errorf("缺少充值地址（环境变量 %s）", EnvFunderAddress)
	}
	if c.Trade.OrderSize <= 0 {
		return fmt.Errorf("order_size 必须为正: %v", c.Trade.OrderSize)
	}
	if c.Trade.MinUSDCBalance < 0 {
		return fmt.Errorf("min_usdc_balance 不能为负: %v", c.Trade.MinUSDCBalance)
	}
	for i := range c.Strategies {
		if err := c.Strategies[i].Validate(); err != nil {
			return fmt.Errorf("strategies[%d]: %w", i, err)
		}
	}
	return nil
}

// Load 从 YAML 文件加载配置并套用环境变量覆盖。
// filePath 为空时跳过文件，只用缺省值 + 环境变量（适合纯 CLI 场景）。
func Load(filePath string) (*Config, error) {
	cfg := &Config{}

	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.Defaults()
	for i := range cfg.Strategies {
		cfg.Strategies[i].Defaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv 环境变量覆盖（凭据只有这一个来源）
func (c *Config) applyEnv() {
	c.Wallet.PrivateKey = os.Getenv(EnvPrivateKey)
	c.Wallet.FunderAddress = os.Getenv(EnvFunderAddress)

	if host := os.Getenv(EnvHost); host != "" {
		c.Clob.Host = host
	}
	if raw := os.Getenv(EnvChainID); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			c.Clob.ChainID = v
		}
	}
	if raw := os.Getenv(EnvSignatureType); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			c.Clob.SignatureType = v
		}
	}
}
