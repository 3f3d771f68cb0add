package strategy

// ConfigEcho 配置回显（随状态快照导出）
type ConfigEcho struct {
	TokenID                string      `json:"token_id"`
	BuyPriceThreshold      float64     `json:"buy_price_threshold"`
	ProfitRatio            float64     `json:"profit_ratio"`
	PriceBand              [2]*float64 `json:"price_band"`
	DisableDuplicateSignal bool        `json:"disable_duplicate_signal"`
	MinMarketOrderSize     float64     `json:"min_market_order_size"`
}

// Snapshot 完整、可序列化的状态快照
type Snapshot struct {
	State        State       `json:"state"`
	Awaiting     *ActionKind `json:"awaiting"`
	EntryPrice   *float64    `json:"entry_price"`
	SellTrigger  *float64    `json:"sell_trigger"`
	PositionSize *float64    `json:"position_size"`
	LastSignal   *ActionKind `json:"last_signal"`
	HistoryLen   int         `json:"history_len"`
	Drop         *DropStats  `json:"drop_stats"`
	Config       ConfigEcho  `json:"config"`
}

// Status 导出当前状态快照（所有指针值均为拷贝，调用方可安全持有）。
func (e *Engine) Status() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		State: e.state,
		Config: ConfigEcho{
			TokenID:                e.cfg.TokenID,
			BuyPriceThreshold:      e.cfg.BuyPriceThreshold,
			ProfitRatio:            e.cfg.ProfitRatio,
			PriceBand:              [2]*float64{copyFloat(e.cfg.MinPrice), copyFloat(e.cfg.MaxPrice)},
			DisableDuplicateSignal: e.cfg.DisableDuplicateSignal,
			MinMarketOrderSize:     e.cfg.MinMarketOrderSize,
		},
	}

	if e.awaiting != nil {
		aw := *e.awaiting
		snap.Awaiting = &aw
	}
	if e.lastSignal != nil {
		ls := *e.lastSignal
		snap.LastSignal = &ls
	}
	snap.EntryPrice = copyFloat(e.entryPrice)
	snap.PositionSize = copyFloat(e.positionSize)
	if trigger, ok := e.sellTriggerLocked(); ok {
		snap.SellTrigger = &trigger
	}
	if e.drops != nil {
		snap.HistoryLen = e.drops.Len()
		snap.Drop = e.drops.Stats()
	}
	return snap
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
