package runner

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/betbot/volarb/clob/types"
	"github.com/betbot/volarb/internal/execution"
	"github.com/betbot/volarb/internal/ports"
	"github.com/betbot/volarb/internal/strategy"
	"github.com/betbot/volarb/pkg/feed"
)

var log = logrus.WithField("component", "runner")

// OrderExecutor 会话依赖的执行能力（internal/execution.Executor 的窄接口）
type OrderExecutor interface {
	ExecuteBuy(ctx context.Context, tokenID string, refPrice, size float64) (*types.OrderResponse, error)
	ExecuteSell(ctx context.Context, tokenID string, refPrice, size float64) (*types.OrderResponse, error)
}

// Options 会话参数
type Options struct {
	// OrderSize 每次买入的目标份数
	OrderSize float64
	// MinUSDCBalance 余额低于该值时跳过新买入
	MinUSDCBalance float64
	// TickInterval 行情槽轮询间隔
	TickInterval time.Duration
	// SyncInterval 外部持仓对账间隔
	SyncInterval time.Duration
	// QuoteMaxAge 报价最大可用年龄；0 不校验
	QuoteMaxAge time.Duration
	// DryRun 纸交易：打印订单意图但不触达交易所
	DryRun bool
}

// Session 一次交易会话：每个 token 一个策略引擎，共享执行器与行情槽。
// 引擎内部自带锁且不做 I/O；所有网络调用都发生在引擎锁之外。
type Session struct {
	id        string
	opts      Options
	store     *feed.Store
	executor  OrderExecutor
	balance   ports.BalanceGetter
	positions ports.PositionQuerier
	engines   map[string]*strategy.Engine
}

// NewSession 按策略配置逐 token 创建引擎
func NewSession(opts Options, store *feed.Store, executor OrderExecutor, balance ports.BalanceGetter, positions ports.PositionQuerier, configs []strategy.Config) (*Session, error) {
	if len(configs) == 0 {
		return nil, errors.New("至少需要一个策略配置")
	}
	engines := make(map[string]*strategy.Engine, len(configs))
	for _, cfg := range configs {
		if _, ok := engines[cfg.TokenID]; ok {
			return nil, errors.Errorf("重复的 tokenID: %s", cfg.TokenID)
		}
		eng, err := strategy.New(cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "创建策略引擎失败: token=%s", cfg.TokenID)
		}
		engines[cfg.TokenID] = eng
	}
	return &Session{
		id:        uuid.NewString(),
		opts:      opts,
		store:     store,
		executor:  executor,
		balance:   balance,
		positions: positions,
		engines:   engines,
	}, nil
}

// ID 会话标识（日志关联用）
func (s *Session) ID() string {
	return s.id
}

// Engine 按 token 取引擎；不存在返回 nil
func (s *Session) Engine(tokenID string) *strategy.Engine {
	return s.engines[tokenID]
}

// Run 主循环：按 TickInterval 泵行情、按 SyncInterval 对账持仓，直到 ctx 取消。
func (s *Session) Run(ctx context.Context) error {
	log.Infof("会话启动: id=%s tokens=%d dry_run=%v", s.id, len(s.engines), s.opts.DryRun)

	// 启动即对账一次，避免带着陈旧状态进入主循环
	s.syncPositions(ctx)

	tick := time.NewTicker(s.opts.TickInterval)
	defer tick.Stop()
	sync := time.NewTicker(s.opts.SyncInterval)
	defer sync.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Infof("会话结束: id=%s", s.id)
			return ctx.Err()
		case <-sync.C:
			s.syncPositions(ctx)
		case <-tick.C:
			s.pump(ctx, time.Now())
		}
	}
}

// pump 读一轮行情槽并驱动各引擎
func (s *Session) pump(ctx context.Context, now time.Time) {
	for tokenID, eng := range s.engines {
		quote, ok := s.store.Fresh(tokenID, s.opts.QuoteMaxAge)
		if !ok || !quote.HasBook() {
			continue
		}
		act := eng.OnTick(quote.BestAsk, quote.BestBid, now)
		if act == nil {
			continue
		}
		s.execute(ctx, eng, act)
	}
}

// execute 在引擎锁之外落地一个信号
func (s *Session) execute(ctx context.Context, eng *strategy.Engine, act *strategy.Action) {
	log.Infof("执行信号: session=%s token=%s action=%s reason=%s", s.id, act.TokenID, act.Kind, act.Reason)

	if s.opts.DryRun {
		log.Infof("[纸交易] 跳过真实下单: token=%s action=%s ref=%.5f", act.TokenID, act.Kind, act.RefPrice)
		eng.OnReject("dry_run")
		return
	}

	switch act.Kind {
	case strategy.ActionBuy:
		s.executeBuy(ctx, eng, act)
	case strategy.ActionSell:
		s.executeSell(ctx, eng, act)
	}
}

func (s *Session) executeBuy(ctx context.Context, eng *strategy.Engine, act *strategy.Action) {
	// 余额闸门：低于下限不再开新仓
	bal, err := s.balance.GetCollateralBalance(ctx)
	if err != nil {
		log.Warnf("查询余额失败，放弃本次买入: token=%s err=%v", act.TokenID, err)
		eng.OnReject("balance_check_failed")
		return
	}
	if bal < s.opts.MinUSDCBalance {
		log.Warnf("余额低于下限，跳过买入: token=%s balance=%.2f min=%.2f", act.TokenID, bal, s.opts.MinUSDCBalance)
		eng.OnReject("insufficient_balance")
		return
	}

	resp, err := s.executor.ExecuteBuy(ctx, act.TokenID, act.RefPrice, s.opts.OrderSize)
	if err != nil {
		log.Warnf("买入执行失败: token=%s err=%v", act.TokenID, err)
		eng.OnReject(err.Error())
		return
	}
	if !resp.Filled() {
		eng.OnReject("buy_not_filled")
		return
	}

	avg, size := buyFillAmounts(resp, act.RefPrice, s.opts.OrderSize)
	eng.OnBuyFilled(avg, size)
}

func (s *Session) executeSell(ctx context.Context, eng *strategy.Engine, act *strategy.Action) {
	snap := eng.Status()
	if snap.PositionSize == nil || *snap.PositionSize <= 0 {
		eng.OnReject("no_position")
		return
	}
	position := *snap.PositionSize

	resp, err := s.executor.ExecuteSell(ctx, act.TokenID, act.RefPrice, position)
	if err != nil {
		if errors.Is(err, execution.ErrDustSize) {
			// 尘埃仓位卖不动，交给外部对账收敛
			eng.SyncPosition(0)
			return
		}
		log.Warnf("卖出执行失败: token=%s err=%v", act.TokenID, err)
		eng.OnReject(err.Error())
		return
	}
	if !resp.Filled() {
		eng.OnReject("sell_ladder_unfilled")
		return
	}

	avg, sold := sellFillAmounts(resp, act.RefPrice, position)
	remaining := position - sold
	if remaining < 0 {
		remaining = 0
	}
	eng.OnSellFilled(avg, sold, remaining)
}

// syncPositions 周期性持仓对账：外部数据源是持仓的唯一真相
func (s *Session) syncPositions(ctx context.Context) {
	for tokenID, eng := range s.engines {
		size, _, err := s.positions.GetPositionSize(ctx, tokenID)
		if err != nil {
			log.Warnf("持仓查询失败，保留本地状态: token=%s err=%v", tokenID, err)
			continue
		}
		eng.SyncPosition(size)
	}
}

// buyFillAmounts 从交易所应答解出买入均价与份数。
// FAK 买单：makingAmount 为付出的 USDC，takingAmount 为得到的份数；
// 应答缺失时回退到参考价与目标份数。
func buyFillAmounts(resp *types.OrderResponse, refPrice, orderSize float64) (avg, size float64) {
	making := parseAmount(resp.MakingAmount)
	taking := parseAmount(resp.TakingAmount)
	if taking > 0 && making > 0 {
		return making / taking, taking
	}
	return refPrice, orderSize
}

// sellFillAmounts 从交易所应答解出卖出均价与份数。
// FOK 卖单：makingAmount 为卖出的份数，takingAmount 为收到的 USDC。
func sellFillAmounts(resp *types.OrderResponse, refPrice, position float64) (avg, sold float64) {
	making := parseAmount(resp.MakingAmount)
	taking := parseAmount(resp.TakingAmount)
	if making > 0 && taking > 0 {
		return taking / making, making
	}
	// FOK 全成或全撤，成交即视为整仓卖出
	return refPrice, position
}

func parseAmount(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
