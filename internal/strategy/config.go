package strategy

import "fmt"

// Config 单 token 策略配置（构造后不可变，UpdateParams 只调整阈值类参数）
type Config struct {
	// TokenID 条件代币资产 ID
	TokenID string `yaml:"tokenID" json:"tokenID"`
	// BuyPriceThreshold 触发买入的目标价格（对标 best_ask）
	BuyPriceThreshold float64 `yaml:"buyPriceThreshold" json:"buyPriceThreshold"`
	// ProfitRatio 卖出目标的收益比例（对标 best_bid），默认 0.05
	ProfitRatio float64 `yaml:"profitRatio" json:"profitRatio"`
	// DisableDuplicateSignal 同方向待确认时不重复发信号（轻量防抖）
	DisableDuplicateSignal bool `yaml:"disableDuplicateSignal" json:"disableDuplicateSignal"`
	// MinPrice / MaxPrice 可选价域守门（nil 表示不限制），默认 [0, 1]
	MinPrice *float64 `yaml:"minPrice" json:"minPrice"`
	// MaxPrice 见 MinPrice
	MaxPrice *float64 `yaml:"maxPrice" json:"maxPrice"`
	// MinMarketOrderSize 最小可交易份数；低于该值按尘埃（dust）处理
	MinMarketOrderSize float64 `yaml:"minMarketOrderSize" json:"minMarketOrderSize"`
	// MaxPriceHistory 持仓期间价格历史缓冲上限，默认 512
	MaxPriceHistory int `yaml:"maxPriceHistory" json:"maxPriceHistory"`
}

// Defaults 填充默认值
func (c *Config) Defaults() {
	if c.ProfitRatio == 0 {
		c.ProfitRatio = 0.05
	}
	if c.MinPrice == nil {
		zero := 0.0
		c.MinPrice = &zero
	}
	if c.MaxPrice == nil {
		one := 1.0
		c.MaxPrice = &one
	}
	if c.MaxPriceHistory <= 0 {
		c.MaxPriceHistory = 512
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.TokenID == "" {
		return fmt.Errorf("tokenID 不能为空")
	}
	if c.BuyPriceThreshold <= 0 || c.BuyPriceThreshold >= 1 {
		return fmt.Errorf("buyPriceThreshold 必须在 0 到 1 之间，当前值: %.4f", c.BuyPriceThreshold)
	}
	if c.ProfitRatio <= 0 {
		return fmt.Errorf("profitRatio 必须大于 0，当前值: %.4f", c.ProfitRatio)
	}
	if c.MinMarketOrderSize < 0 {
		return fmt.Errorf("minMarketOrderSize 不能为负数，当前值: %.4f", c.MinMarketOrderSize)
	}
	if c.MinPrice != nil && c.MaxPrice != nil && *c.MinPrice > *c.MaxPrice {
		return fmt.Errorf("价域无效: min=%.4f > max=%.4f", *c.MinPrice, *c.MaxPrice)
	}
	return nil
}
