package strategy

// DropStats 持仓期间的回撤统计（派生只读视图；FLAT 时整体为 nil）
type DropStats struct {
	// WindowHigh 入场以来的最高价
	WindowHigh float64 `json:"window_high"`
	// DropRatio 当前相对最高价的回撤比例 (high - cur) / high
	DropRatio float64 `json:"drop_ratio"`
	// MaxDropRatio 入场以来观察到的最大回撤比例
	MaxDropRatio float64 `json:"max_drop_ratio"`
	// Samples 参与统计的样本数
	Samples int `json:"samples"`
}

// dropTracker 有界价格历史 + 回撤统计。
// high/maxDrop 为入场以来的单调量，不随缓冲裁剪回退。
type dropTracker struct {
	maxSize int
	prices  []float64

	high    float64
	current float64
	maxDrop float64
	samples int
}

func newDropTracker(maxSize int) *dropTracker {
	if maxSize <= 0 {
		maxSize = 512
	}
	return &dropTracker{maxSize: maxSize}
}

// Observe 追加一个价格样本并更新统计
func (d *dropTracker) Observe(price float64) {
	if price <= 0 {
		return
	}
	d.prices = append(d.prices, price)
	if len(d.prices) > d.maxSize {
		d.prices = d.prices[len(d.prices)-d.maxSize:]
	}
	d.samples++
	d.current = price
	if price > d.high {
		d.high = price
	}
	if drop := d.dropRatio(); drop > d.maxDrop {
		d.maxDrop = drop
	}
}

func (d *dropTracker) dropRatio() float64 {
	if d.high <= 0 {
		return 0
	}
	return (d.high - d.current) / d.high
}

// Len 当前缓冲长度
func (d *dropTracker) Len() int {
	return len(d.prices)
}

// Stats 导出统计快照；无样本时返回 nil
func (d *dropTracker) Stats() *DropStats {
	if d == nil || d.samples == 0 {
		return nil
	}
	return &DropStats{
		WindowHigh:   d.high,
		DropRatio:    d.dropRatio(),
		MaxDropRatio: d.maxDrop,
		Samples:      d.samples,
	}
}
