package strategy

import (
	"testing"
	"time"
)

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	if cfg.TokenID == "" {
		cfg.TokenID = "token-1"
	}
	cfg.DisableDuplicateSignal = true
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("创建引擎失败: %v", err)
	}
	return e
}

func TestEngine_BuyLowSellHighCycle(t *testing.T) {
	e := newTestEngine(t, Config{
		BuyPriceThreshold:  0.52,
		ProfitRatio:        0.05,
		MinMarketOrderSize: 1.0,
	})
	now := time.Now()

	// ask 跌破阈值 → BUY
	act := e.OnTick(0.50, 0.48, now)
	if act == nil || act.Kind != ActionBuy {
		t.Fatalf("期望 BUY 信号，得到 %+v", act)
	}
	if act.RefPrice != 0.50 {
		t.Fatalf("BUY ref_price 期望 0.50，得到 %.5f", act.RefPrice)
	}
	if snap := e.Status(); snap.Awaiting == nil || *snap.Awaiting != ActionBuy {
		t.Fatalf("发出 BUY 后应处于待确认状态，快照: %+v", snap)
	}

	// 成交确认 → LONG
	e.OnBuyFilled(0.50, 10)
	snap := e.Status()
	if snap.State != StateLong {
		t.Fatalf("买入成交后状态应为 LONG，得到 %s", snap.State)
	}
	if snap.EntryPrice == nil || *snap.EntryPrice != 0.50 {
		t.Fatalf("入场价应为 0.50，得到 %v", snap.EntryPrice)
	}
	if snap.Awaiting != nil {
		t.Fatalf("成交后待确认标记应清除，得到 %v", *snap.Awaiting)
	}

	// bid 0.52 尚未到目标价 0.525
	if act := e.OnTick(0.60, 0.52, now); act != nil {
		t.Fatalf("bid 0.52 < 0.525 不应触发 SELL，得到 %+v", act)
	}

	// bid 到达目标价 → SELL，目标价 = 0.50 * 1.05
	act = e.OnTick(0.62, 0.60, now)
	if act == nil || act.Kind != ActionSell {
		t.Fatalf("期望 SELL 信号，得到 %+v", act)
	}
	if act.TargetPrice == nil || *act.TargetPrice != 0.525 {
		t.Fatalf("SELL target_price 期望 0.525，得到 %v", act.TargetPrice)
	}
	if act.RefPrice != 0.60 {
		t.Fatalf("SELL ref_price 期望 0.60，得到 %.5f", act.RefPrice)
	}

	// 全部卖出 → FLAT，历史清空
	e.OnSellFilled(0.58, 10, 0)
	snap = e.Status()
	if snap.State != StateFlat {
		t.Fatalf("全部卖出后状态应为 FLAT，得到 %s", snap.State)
	}
	if snap.EntryPrice != nil || snap.PositionSize != nil {
		t.Fatalf("FLAT 后入场价/持仓应清空: %+v", snap)
	}
	if snap.HistoryLen != 0 || snap.Drop != nil {
		t.Fatalf("FLAT 后价格历史与回撤统计应清空: %+v", snap)
	}
}

func TestEngine_SellJustBelowTargetNotTriggered(t *testing.T) {
	e := newTestEngine(t, Config{
		BuyPriceThreshold:  0.52,
		ProfitRatio:        0.05,
		MinMarketOrderSize: 1.0,
	})
	now := time.Now()

	if act := e.OnTick(0.50, 0.48, now); act == nil {
		t.Fatal("应发出 BUY")
	}
	e.OnBuyFilled(0.50, 10)

	// 用 0.5249/0.525 验证目标价的闭边界：严格低于不触发，等于即触发
	if act := e.OnTick(0.60, 0.5249, now); act != nil {
		t.Fatalf("bid 低于目标价不应触发 SELL: %+v", act)
	}
	if act := e.OnTick(0.60, 0.525, now); act == nil || act.Kind != ActionSell {
		t.Fatalf("bid 等于目标价应触发 SELL，得到 %+v", act)
	}
}

func TestEngine_DuplicateSignalSuppressed(t *testing.T) {
	e := newTestEngine(t, Config{
		BuyPriceThreshold:  0.52,
		ProfitRatio:        0.05,
		MinMarketOrderSize: 1.0,
	})
	now := time.Now()

	if act := e.OnTick(0.50, 0.48, now); act == nil {
		t.Fatal("应发出 BUY")
	}
	// 待确认期间不重复发 BUY
	if act := e.OnTick(0.49, 0.47, now); act != nil {
		t.Fatalf("待确认期间不应重复发 BUY: %+v", act)
	}
	// 被拒后解除待确认，可重新发
	e.OnReject("insufficient balance")
	if act := e.OnTick(0.49, 0.47, now); act == nil || act.Kind != ActionBuy {
		t.Fatalf("被拒后应可重新发 BUY，得到 %+v", act)
	}
}

func TestEngine_TickOutsidePriceBandIgnored(t *testing.T) {
	minP, maxP := 0.05, 0.95
	e := newTestEngine(t, Config{
		BuyPriceThreshold:  0.52,
		ProfitRatio:        0.05,
		MinPrice:           &minP,
		MaxPrice:           &maxP,
		MinMarketOrderSize: 1.0,
	})
	now := time.Now()

	if act := e.OnTick(0.96, 0.50, now); act != nil {
		t.Fatalf("ask 越上界的 tick 应被忽略: %+v", act)
	}
	if act := e.OnTick(0.50, 0.04, now); act != nil {
		t.Fatalf("bid 越下界的 tick 应被忽略: %+v", act)
	}
	if snap := e.Status(); snap.Awaiting != nil || snap.LastSignal != nil {
		t.Fatalf("被忽略的 tick 不应产生任何状态变更: %+v", snap)
	}
	// 边界值本身（含）不被忽略
	if act := e.OnTick(0.50, 0.05, now); act == nil {
		t.Fatal("价域边界内的 tick 应正常处理")
	}
}

func TestEngine_PartialSellKeepsLongAndRearms(t *testing.T) {
	e := newTestEngine(t, Config{
		BuyPriceThreshold:  0.52,
		ProfitRatio:        0.05,
		MinMarketOrderSize: 1.0,
	})
	now := time.Now()

	e.OnTick(0.50, 0.48, now)
	e.OnBuyFilled(0.50, 10)
	if act := e.OnTick(0.62, 0.60, now); act == nil {
		t.Fatal("应发出 SELL")
	}

	// 部分成交：余量 4 份（非尘埃）→ 保持 LONG 并立即可再次触发
	e.OnSellFilled(0.60, 6, 4)
	snap := e.Status()
	if snap.State != StateLong {
		t.Fatalf("非尘埃余量应保持 LONG，得到 %s", snap.State)
	}
	if snap.PositionSize == nil || *snap.PositionSize != 4 {
		t.Fatalf("持仓应更新为余量 4，得到 %v", snap.PositionSize)
	}
	if snap.Awaiting != nil {
		t.Fatal("部分成交后应重新武装（清除待确认）")
	}
	if act := e.OnTick(0.62, 0.60, now); act == nil || act.Kind != ActionSell {
		t.Fatalf("余量应立即可再次触发 SELL，得到 %+v", act)
	}

	// 余量为尘埃 → 全部退出
	e.OnSellFilled(0.60, 3.5, 0.5)
	if snap := e.Status(); snap.State != StateFlat || snap.Drop != nil {
		t.Fatalf("尘埃余量应视为全部退出: %+v", snap)
	}
}

func TestEngine_DustPositionCollapsesOnTick(t *testing.T) {
	e := newTestEngine(t, Config{
		BuyPriceThreshold:  0.52,
		ProfitRatio:        0.05,
		MinMarketOrderSize: 5.0,
	})
	now := time.Now()

	e.OnTick(0.50, 0.48, now)
	e.OnBuyFilled(0.50, 0.2) // 低于最小可交易份数的持仓
	if snap := e.Status(); snap.State != StateLong {
		t.Fatalf("成交后应先进入 LONG: %+v", snap)
	}

	// 下一个有效 tick 触发尘埃清理（对账副作用，不是信号）
	if act := e.OnTick(0.55, 0.54, now); act != nil {
		t.Fatalf("尘埃清理不应产生信号: %+v", act)
	}
	snap := e.Status()
	if snap.State != StateFlat {
		t.Fatalf("尘埃持仓应强制 FLAT，得到 %s", snap.State)
	}
	if snap.Awaiting != nil || snap.PositionSize != nil {
		t.Fatalf("尘埃清理后 awaiting/position 应为空: %+v", snap)
	}
}

func TestEngine_SyncPosition(t *testing.T) {
	e := newTestEngine(t, Config{
		BuyPriceThreshold:  0.52,
		ProfitRatio:        0.05,
		MinMarketOrderSize: 1.0,
	})
	now := time.Now()

	e.OnTick(0.50, 0.48, now)
	e.OnBuyFilled(0.50, 10)
	e.OnTick(0.55, 0.54, now) // 产生一些价格历史

	// 非尘埃纠偏：只更新数量
	e.SyncPosition(8)
	snap := e.Status()
	if snap.State != StateLong || snap.PositionSize == nil || *snap.PositionSize != 8 {
		t.Fatalf("非尘埃纠偏应保持 LONG 并更新数量: %+v", snap)
	}

	// 清零纠偏：无论先前状态，强制 FLAT 并清空统计
	e.SyncPosition(0)
	snap = e.Status()
	if snap.State != StateFlat {
		t.Fatalf("sync(0) 后应为 FLAT，得到 %s", snap.State)
	}
	if snap.Drop != nil || snap.HistoryLen != 0 {
		t.Fatalf("sync(0) 后回撤统计应清空: %+v", snap)
	}

	// FLAT 态下再次 sync(0) 为幂等
	e.SyncPosition(0)
	if snap := e.Status(); snap.State != StateFlat {
		t.Fatalf("FLAT 态 sync(0) 应保持 FLAT: %+v", snap)
	}
}

func TestEngine_UpdateParamsAndSellTrigger(t *testing.T) {
	e := newTestEngine(t, Config{
		BuyPriceThreshold:  0.52,
		ProfitRatio:        0.05,
		MinMarketOrderSize: 1.0,
	})
	now := time.Now()

	if _, ok := e.SellTriggerPrice(); ok {
		t.Fatal("FLAT 时不应有卖出触发价")
	}

	e.OnTick(0.50, 0.48, now)
	e.OnBuyFilled(0.50, 10)

	trigger, ok := e.SellTriggerPrice()
	if !ok || trigger != 0.525 {
		t.Fatalf("卖出触发价期望 0.525，得到 %v (ok=%v)", trigger, ok)
	}

	ratio := 0.10
	e.UpdateParams(ParamUpdate{ProfitRatio: &ratio})
	if trigger, _ := e.SellTriggerPrice(); trigger != 0.55 {
		t.Fatalf("调整收益比例后触发价应为 0.55，得到 %.5f", trigger)
	}
}

func TestEngine_StaleFillCallbacksAreNoOps(t *testing.T) {
	e := newTestEngine(t, Config{
		BuyPriceThreshold:  0.52,
		ProfitRatio:        0.05,
		MinMarketOrderSize: 1.0,
	})

	// 未发信号时的回调不应改变生命周期状态
	e.OnBuyFilled(0.50, 10)
	if snap := e.Status(); snap.State != StateFlat {
		t.Fatalf("未等待 BUY 的成交回调不应进入 LONG: %+v", snap)
	}
	e.OnSellFilled(0.60, 10, 0)
	if snap := e.Status(); snap.State != StateFlat {
		t.Fatalf("未等待 SELL 的成交回调不应改变状态: %+v", snap)
	}
}
