// Package strategy 极简买低卖高策略状态机（单 token）——严格“确认后换态”版：
//   - FLAT → 当 best_ask <= buyPriceThreshold 时，发出 BUY；
//   - LONG → 当 best_bid >= entry * (1 + profitRatio) 时，发出 SELL。
//
// 发出 BUY/SELL 信号后进入“待确认”状态，必须由上游在成交后调用
// OnBuyFilled / OnSellFilled 才会推进状态机；OnReject 解除待确认。
// 本包不处理精度/下单，执行在 internal/execution。
package strategy

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "strategy")

// State 生命周期状态
type State string

const (
	StateFlat State = "FLAT"
	StateLong State = "LONG"
)

// Engine 单 token 策略状态机。
// 所有公开方法在同一把锁内完成（单写者临界区），每个方法都不挂起、不做网络 I/O。
type Engine struct {
	mu  sync.Mutex
	cfg Config

	reconciler Reconciler

	state        State
	entryPrice   *float64
	positionSize *float64
	awaiting     *ActionKind
	lastSignal   *ActionKind
	drops        *dropTracker // 仅 LONG 期间非 nil
}

// New 创建策略引擎（每个 token 一个实例，会话期间常驻）。
func New(cfg Config) (*Engine, error) {
	cfg.Defaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("策略配置无效: %w", err)
	}
	return &Engine{
		cfg:        cfg,
		reconciler: NewReconciler(cfg.MinMarketOrderSize),
		state:      StateFlat,
	}, nil
}

// OnTick 上游每次行情推送调用。返回 Action（BUY/SELL）或 nil（无动作）。
// 任一价格越出价域时整个 tick 被忽略（无状态变更）。
func (e *Engine) OnTick(bestAsk, bestBid float64, ts time.Time) *Action {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cfg.MinPrice != nil && (bestAsk < *e.cfg.MinPrice || bestBid < *e.cfg.MinPrice) {
		return nil
	}
	if e.cfg.MaxPrice != nil && (bestAsk > *e.cfg.MaxPrice || bestBid > *e.cfg.MaxPrice) {
		return nil
	}

	switch e.state {
	case StateFlat:
		return e.maybeBuy(bestAsk)
	case StateLong:
		// 对账副作用：持仓已是尘埃时强制回到 FLAT（不是信号）
		if e.positionSize == nil || e.reconciler.IsDust(*e.positionSize) {
			log.Warnf("持仓低于最小可交易份数，强制回到 FLAT: token=%s size=%v", e.cfg.TokenID, e.positionSize)
			e.forceFlat()
			return nil
		}
		if e.drops != nil {
			e.drops.Observe(bestBid)
		}
		return e.maybeSell(bestBid)
	}
	return nil
}

func (e *Engine) maybeBuy(bestAsk float64) *Action {
	if e.awaiting != nil && *e.awaiting == ActionBuy && e.cfg.DisableDuplicateSignal {
		return nil // 等待上游确认，不重复发 BUY
	}
	if bestAsk > e.cfg.BuyPriceThreshold {
		return nil
	}

	act := &Action{
		Kind:     ActionBuy,
		TokenID:  e.cfg.TokenID,
		Reason:   fmt.Sprintf("best_ask(%.5f) <= buy_threshold(%.5f)", bestAsk, e.cfg.BuyPriceThreshold),
		RefPrice: bestAsk,
	}
	e.setSignal(ActionBuy)
	return act
}

func (e *Engine) maybeSell(bestBid float64) *Action {
	if e.entryPrice == nil {
		return nil // 防守式检查
	}
	if e.awaiting != nil && *e.awaiting == ActionSell && e.cfg.DisableDuplicateSignal {
		return nil // 等待上游确认，不重复发 SELL
	}

	target := *e.entryPrice * (1.0 + e.cfg.ProfitRatio)
	if bestBid < target {
		return nil
	}

	act := &Action{
		Kind:        ActionSell,
		TokenID:     e.cfg.TokenID,
		Reason:      fmt.Sprintf("best_bid(%.5f) >= target(%.5f) = entry(%.5f) * (1+%.4f)", bestBid, target, *e.entryPrice, e.cfg.ProfitRatio),
		RefPrice:    bestBid,
		TargetPrice: &target,
	}
	e.setSignal(ActionSell)
	return act
}

func (e *Engine) setSignal(kind ActionKind) {
	k := kind
	e.lastSignal = &k
	aw := kind
	e.awaiting = &aw // 必须等待上游成交/拒绝回调
}

// OnBuyFilled 上游在实际买入成交后回调。
// 仅在等待 BUY 确认时推进 FLAT → LONG；无论如何清除待确认标记。
func (e *Engine) OnBuyFilled(avgPrice, size float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.awaiting != nil && *e.awaiting == ActionBuy {
		e.state = StateLong
		e.entryPrice = &avgPrice
		e.positionSize = &size
		e.drops = newDropTracker(e.cfg.MaxPriceHistory)
		log.Infof("买入成交: token=%s entry=%.5f size=%.4f", e.cfg.TokenID, avgPrice, size)
	}
	e.awaiting = nil
}

// OnSellFilled 上游在实际卖出成交后回调。
// remaining 为尘埃时视为全部退出（清空入场价/持仓/价格历史）；
// 否则保持 LONG 并以余量重新武装，等待下一个 SELL 信号（无冷却）。
func (e *Engine) OnSellFilled(avgPrice, size, remaining float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.awaiting != nil && *e.awaiting == ActionSell {
		newSize, flat := e.reconciler.ApplySellFill(remaining)
		if flat {
			log.Infof("卖出成交（全部退出）: token=%s avg=%.5f size=%.4f", e.cfg.TokenID, avgPrice, size)
			e.forceFlat()
			return
		}
		log.Infof("卖出成交（部分）: token=%s avg=%.5f size=%.4f remaining=%.4f", e.cfg.TokenID, avgPrice, size, newSize)
		e.positionSize = &newSize
	}
	e.awaiting = nil
}

// OnReject 上游在下单失败/被拒时回调，解除待确认以便重新发信号。
func (e *Engine) OnReject(reason string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.awaiting != nil {
		log.Warnf("订单被拒，解除待确认: token=%s awaiting=%s reason=%s", e.cfg.TokenID, *e.awaiting, reason)
	}
	e.awaiting = nil
}

// SyncPosition 外部持仓纠偏（对账持仓查询结果）。
// 尘埃/零持仓时无条件强制 FLAT；否则只更新持仓数量，不改变生命周期状态。
func (e *Engine) SyncPosition(totalPosition float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	newSize, flat := e.reconciler.ApplySync(totalPosition)
	if flat {
		if e.state == StateLong {
			log.Warnf("外部持仓为尘埃，强制回到 FLAT: token=%s total=%.4f", e.cfg.TokenID, totalPosition)
		}
		e.forceFlat()
		return
	}
	e.positionSize = &newSize
}

// forceFlat 原子清空 LONG 态的全部痕迹（调用方持锁）
func (e *Engine) forceFlat() {
	e.state = StateFlat
	e.entryPrice = nil
	e.positionSize = nil
	e.awaiting = nil
	e.drops = nil
}

// ParamUpdate 可在线调整的参数（nil 表示保持不变）
type ParamUpdate struct {
	BuyPriceThreshold *float64
	ProfitRatio       *float64
}

// UpdateParams 在线调整阈值类参数
func (e *Engine) UpdateParams(p ParamUpdate) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if p.BuyPriceThreshold != nil {
		e.cfg.BuyPriceThreshold = *p.BuyPriceThreshold
	}
	if p.ProfitRatio != nil {
		e.cfg.ProfitRatio = *p.ProfitRatio
	}
}

// SellTriggerPrice 当前卖出触发价；FLAT 时 ok=false。
func (e *Engine) SellTriggerPrice() (price float64, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sellTriggerLocked()
}

func (e *Engine) sellTriggerLocked() (float64, bool) {
	if e.entryPrice == nil {
		return 0, false
	}
	return *e.entryPrice * (1.0 + e.cfg.ProfitRatio), true
}
