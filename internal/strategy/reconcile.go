package strategy

// Reconciler 把理想化状态机与真实持仓之间的偏差折算回状态：
// 部分成交、外部手续费调整、带外交易都可能让两者发散。
//
// 规则：
//   - 任何低于 minOrderSize 的持仓视为尘埃（dust），状态机坍缩为 FLAT；
//   - 卖出成交留下非尘埃余量时保持 LONG，余量立即可再次触发 SELL（无冷却）。
type Reconciler struct {
	minOrderSize float64
}

// NewReconciler 创建对账器
func NewReconciler(minOrderSize float64) Reconciler {
	return Reconciler{minOrderSize: minOrderSize}
}

// IsDust 判断 size 是否低于最小可交易份数
func (r Reconciler) IsDust(size float64) bool {
	return size < r.minOrderSize
}

// ApplySellFill 折算一次卖出成交。remaining 为尘埃时视为全部退出。
func (r Reconciler) ApplySellFill(remaining float64) (newSize float64, flat bool) {
	if r.IsDust(remaining) {
		return 0, true
	}
	return remaining, false
}

// ApplySync 折算一次外部持仓纠偏。
func (r Reconciler) ApplySync(total float64) (newSize float64, flat bool) {
	if total < 0 {
		total = 0
	}
	if r.IsDust(total) {
		return 0, true
	}
	return total, false
}
