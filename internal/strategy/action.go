package strategy

// ActionKind 信号类型
type ActionKind string

const (
	ActionBuy  ActionKind = "BUY"
	ActionSell ActionKind = "SELL"
	// ActionHold 保留类型，状态查询时使用
	ActionHold ActionKind = "HOLD"
)

// Action 策略发出的交易意图。只产出信号，不负责 size/精度/下单执行。
type Action struct {
	// Kind 信号类型（BUY/SELL）
	Kind ActionKind `json:"action"`
	// TokenID 目标资产
	TokenID string `json:"token_id"`
	// Reason 触发原因（人类可读）
	Reason string `json:"reason"`
	// RefPrice 触发时参考的行情价：BUY 用 best_ask，SELL 用 best_bid
	RefPrice float64 `json:"ref_price"`
	// TargetPrice SELL 时为 entry * (1 + profitRatio)
	TargetPrice *float64 `json:"target_price,omitempty"`
	// Extra 辅助数据扩展袋
	Extra map[string]any `json:"extra,omitempty"`
}
