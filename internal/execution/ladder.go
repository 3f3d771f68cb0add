package execution

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/betbot/volarb/clob/types"
	"github.com/betbot/volarb/internal/ports"
)

var log = logrus.WithField("component", "execution")

// sellLadderBps 卖出阶梯的逐档折价（基点）。
// 第 0 档按参考价原价尝试，之后每档让利 1%，换取 FOK 在薄簿上的成交概率。
var sellLadderBps = []int64{0, 100, 200, 300, 400}

// Executor 订单执行器：策略信号 → 量化 → 签名下单。
// 卖出走 5 档 FOK 阶梯，买入走单笔 FAK 市价单。
type Executor struct {
	submitter ports.OrderSubmitter
	quantizer Quantizer
}

// NewExecutor 创建执行器
func NewExecutor(submitter ports.OrderSubmitter) *Executor {
	return &Executor{submitter: submitter}
}

// ExecuteBuy 按参考卖一价买入 size 份。
// 单笔 FAK：能吃多少吃多少，剩余立即撤销，绝不留挂单。
func (x *Executor) ExecuteBuy(ctx context.Context, tokenID string, refPrice, size float64) (*types.OrderResponse, error) {
	price, qty, err := x.quantizer.NormalizeBuy(refPrice, size)
	if err != nil {
		return nil, errors.Wrap(err, "买入量化失败")
	}

	order, err := x.submitter.CreateOrder(ctx, types.OrderArgs{
		TokenID: tokenID,
		Price:   price,
		Size:    qty,
		Side:    types.SideBuy,
	}, types.TickSize001)
	if err != nil {
		return nil, errors.Wrap(err, "构造买单失败")
	}

	resp, err := x.submitter.PostOrder(ctx, order, types.OrderTypeFAK)
	if err != nil {
		return nil, errors.Wrap(err, "提交买单失败")
	}
	log.Infof("买单已提交: token=%s price=%.2f size=%.4f status=%s", tokenID, price, qty, resp.Status)
	return resp, nil
}

// ExecuteSell 按参考买一价卖出 size 份，逐档让利重试。
// 每档价格 = refPrice * (1 - bps/10000)，FOK 全成或全撤；
// 任一档完全成交立即返回，单档错误记录后继续下一档。
// 全部档位都未成交时返回最后一次交易所应答（可能为 nil，表示全部请求失败）。
func (x *Executor) ExecuteSell(ctx context.Context, tokenID string, refPrice, size float64) (*types.OrderResponse, error) {
	ref := decimal.NewFromFloat(refPrice)
	tenThousand := decimal.NewFromInt(10000)

	var last *types.OrderResponse
	for _, bps := range sellLadderBps {
		discount := decimal.NewFromInt(1).Sub(decimal.NewFromInt(bps).Div(tenThousand))
		rungRef, _ := ref.Mul(discount).Float64()

		price, qty, err := x.quantizer.NormalizeSell(rungRef, size)
		if err != nil {
			if errors.Is(err, ErrDustSize) {
				return nil, err
			}
			log.Warnf("卖出量化失败，跳过该档: token=%s bps=%d err=%v", tokenID, bps, err)
			continue
		}

		order, err := x.submitter.CreateOrder(ctx, types.OrderArgs{
			TokenID: tokenID,
			Price:   price,
			Size:    qty,
			Side:    types.SideSell,
		}, types.TickSize00001)
		if err != nil {
			log.Warnf("构造卖单失败，跳过该档: token=%s bps=%d err=%v", tokenID, bps, err)
			continue
		}

		resp, err := x.submitter.PostOrder(ctx, order, types.OrderTypeFOK)
		if err != nil {
			log.Warnf("提交卖单失败，继续下一档: token=%s bps=%d price=%.4f err=%v", tokenID, bps, price, err)
			continue
		}
		last = resp
		if resp.Filled() {
			log.Infof("卖单成交: token=%s bps=%d price=%.4f size=%.2f", tokenID, bps, price, qty)
			return resp, nil
		}
		log.Infof("卖单未成交，降档重试: token=%s bps=%d price=%.4f status=%s err=%s", tokenID, bps, price, resp.Status, resp.ErrorMsg)
	}
	log.Warnf("卖出阶梯全部未成交: token=%s ref=%.5f size=%.4f", tokenID, refPrice, size)
	return last, nil
}
