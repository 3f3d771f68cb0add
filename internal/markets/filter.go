package markets

import (
	"strings"
	"time"

	"github.com/betbot/volarb/pkg/duration"
)

// defaultBlacklist 关键词黑名单（区分大小写的子串匹配）。
// 加密货币与体育盘口的波动结构不适合本策略，统一排除。
var defaultBlacklist = []string{
	"Bitcoin", "BTC", "ETH", "Ethereum", "Sol", "Solana",
	"Doge", "Dogecoin", "BNB", "Binance", "Cardano", "ADA",
	"XRP", "Ripple", "Matic", "Polygon", "Crypto", "Cryptocurrency",
	"Blockchain", "Token", "NFT", "DeFi",
	"vs", "odds", "score", "spread", "moneyline",
	"Esports", "CS2", "Cup", "Arsenal", "Liverpool", "Chelsea", "EPL",
	"PGA", "Tour Championship", "Scottie Scheffler",
	"Vitality", "MOUZ", "Falcons", "The MongolZ",
	"AL", "Houston", "Chicago", "New York",
}

// FilterConfig 市场筛选参数
type FilterConfig struct {
	// MinimumVolume 最低成交量（严格大于）
	MinimumVolume float64 `yaml:"minimum_volume"`
	// MinTimeToEnd 距截止的最短剩余时间，排除即将到期的市场
	MinTimeToEnd duration.Duration `yaml:"min_time_to_end"`
	// MaxTimeToEnd 距截止的最长剩余时间（含边界）
	MaxTimeToEnd duration.Duration `yaml:"max_time_to_end"`
	// MinYesPrice / MaxYesPrice YES 价格允许区间（开区间，不含边界）
	MinYesPrice float64 `yaml:"min_yes_price"`
	MaxYesPrice float64 `yaml:"max_yes_price"`
	// BlacklistKeywords 关键词黑名单；nil 使用内置默认值
	BlacklistKeywords []string `yaml:"blacklist_keywords"`
	// WindowDays 分窗拉取的初始窗口天数
	WindowDays int `yaml:"window_days"`
	// RequestLimit 单页拉取条数上限
	RequestLimit int `yaml:"request_limit"`
}

// DefaultFilterConfig 波动套利筛选的默认参数
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		MinimumVolume: 10_000,
		MinTimeToEnd:  duration.New(5 * time.Minute),
		MaxTimeToEnd:  duration.New(7 * 24 * time.Hour),
		MinYesPrice:   0.95,
		MaxYesPrice:   0.99,
		WindowDays:    3,
		RequestLimit:  500,
	}
}

func (c FilterConfig) blacklist() []string {
	if c.BlacklistKeywords != nil {
		return c.BlacklistKeywords
	}
	return defaultBlacklist
}

// Eligible 判断一个市场是否可交易：
// 未关闭且接单、成交量达标、截止时间落在 (now+MinTimeToEnd, now+MaxTimeToEnd]、
// YES 价格在开区间内、文案不含黑名单关键词。
func (c FilterConfig) Eligible(m Market, now time.Time) bool {
	if m.Closed {
		return false
	}
	if m.AcceptingOrders != nil && !*m.AcceptingOrders {
		return false
	}
	if float64(m.Volume) <= c.MinimumVolume {
		return false
	}

	end, err := time.Parse(time.RFC3339, m.EndDate)
	if err != nil {
		return false
	}
	if !end.After(now.Add(c.MinTimeToEnd.Duration)) {
		return false
	}
	if end.After(now.Add(c.MaxTimeToEnd.Duration)) {
		return false
	}

	yes, ok := m.YesPrice()
	if !ok {
		return false
	}
	if yes <= c.MinYesPrice || yes >= c.MaxYesPrice {
		return false
	}

	return !c.blacklisted(m)
}

func (c FilterConfig) blacklisted(m Market) bool {
	parts := []string{m.Question, m.GroupItemTitle, m.Slug, m.Description}
	if len(m.Events) > 0 {
		parts = append(parts, m.Events[0].Title, m.Events[0].Description)
	}
	haystack := strings.Join(parts, " ")
	for _, keyword := range c.blacklist() {
		if strings.Contains(haystack, keyword) {
			return true
		}
	}
	return false
}
