// Package execution 把策略信号落成交易所可接受的订单：
// 精度对齐（Quantizer）+ 阶梯报价执行（Ladder）。
// 本包只依赖 ports 中的窄接口，不直接耦合具体客户端。
package execution

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrDustSize 卖出数量经向下取整后低于交易所最小可表示份数
var ErrDustSize = errors.New("卖出数量过小（不足 0.01 份）")

// 精度常量：买卖两侧方向性取整，永远朝不利于自己的方向取，
// 保证量化后的订单不会因为超出余额/持仓而被交易所拒绝。
const (
	buyPriceDecimals  = 2 // 买价向上取整位数
	buySizeDecimals   = 4 // 买量向上取整位数
	sellPriceDecimals = 4 // 卖价向下取整位数
	sellSizeDecimals  = 2 // 卖量向下取整位数

	// minSellSize 卖出侧最小可表示份数（2 位小数下的最小正数）
	minSellSize = 0.01
	// minBuyNotional 交易所最小买入名义金额（美元）
	minBuyNotional = 1.0
)

// Quantizer 订单精度对齐器。
// 所有运算走十进制定点数；输入先在 9 位小数处吸收二进制浮点噪声
// （0.1+0.2 应视作 0.3 而不是 0.30000000000000004），再做方向性取整。
type Quantizer struct{}

const floatNoiseDecimals = 9

func fromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(floatNoiseDecimals)
}

// NormalizeBuy 对齐一笔买入：
//   - 价格向上取整到 2 位小数（多付半个 tick 换取成交确定性）；
//   - 数量向上取整到 4 位小数；
//   - 名义金额不足 $1 时，回退为 ceil(1/price) 的整数份数。
func (Quantizer) NormalizeBuy(price, size float64) (outPrice, outSize float64, err error) {
	if price <= 0 {
		return 0, 0, errors.Errorf("买入价格必须为正: %v", price)
	}
	if size <= 0 {
		return 0, 0, errors.Errorf("买入数量必须为正: %v", size)
	}

	p := fromFloat(price).RoundCeil(buyPriceDecimals)
	s := fromFloat(size).RoundCeil(buySizeDecimals)

	notional := decimal.NewFromFloat(minBuyNotional)
	if p.Mul(s).LessThan(notional) {
		// 最小整数份数使 price*size >= $1
		s = notional.DivRound(p, 8).RoundCeil(0)
	}

	outPrice, _ = p.Float64()
	outSize, _ = s.Float64()
	return outPrice, outSize, nil
}

// NormalizeSell 对齐一笔卖出：
//   - 价格向下取整到 4 位小数（不抬价，保证 FOK 可成交性）；
//   - 数量向下取整到 2 位小数（永不超卖持仓）；
//   - 取整后不足 0.01 份时返回 ErrDustSize，调用方应跳过该笔。
func (Quantizer) NormalizeSell(price, size float64) (outPrice, outSize float64, err error) {
	if price <= 0 {
		return 0, 0, errors.Errorf("卖出价格必须为正: %v", price)
	}

	p := fromFloat(price).RoundFloor(sellPriceDecimals)
	s := fromFloat(size).RoundFloor(sellSizeDecimals)

	if s.LessThan(decimal.NewFromFloat(minSellSize)) {
		return 0, 0, errors.Wrapf(ErrDustSize, "size=%v", size)
	}

	outPrice, _ = p.Float64()
	outSize, _ = s.Float64()
	return outPrice, outSize, nil
}
