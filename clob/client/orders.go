package client

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/betbot/volarb/clob/signing"
	"github.com/betbot/volarb/clob/types"
)

// RoundConfig 各字段的小数位数
type RoundConfig struct {
	Price  int
	Size   int
	Amount int
}

// RoundingConfig 按 tick size 的舍入配置
var RoundingConfig = map[types.TickSize]RoundConfig{
	types.TickSize01:    {Price: 1, Size: 2, Amount: 3},
	types.TickSize001:   {Price: 2, Size: 2, Amount: 4},
	types.TickSize0001:  {Price: 3, Size: 2, Amount: 5},
	types.TickSize00001: {Price: 4, Size: 2, Amount: 6},
}

// CreateOrder 构建并签名限价订单。
// 价格/份数应已由上游（execution.Quantizer）规范化；这里只做交易所侧的金额换算与签名。
func (c *Client) CreateOrder(ctx context.Context, args types.OrderArgs, tick types.TickSize) (*types.SignedOrder, error) {
	contractConfig, err := GetContractConfig(c.chainID)
	if err != nil {
		return nil, fmt.Errorf("获取合约配置失败: %w", err)
	}

	roundConfig, ok := RoundingConfig[tick]
	if !ok {
		return nil, fmt.Errorf("不支持的 tick size: %s", tick)
	}

	rawMakerAmt, rawTakerAmt := orderRawAmounts(args.Side, args.Size, args.Price, roundConfig)

	tokenID := new(big.Int)
	if _, ok := tokenID.SetString(args.TokenID, 10); !ok {
		return nil, fmt.Errorf("无效的 tokenID: %s", args.TokenID)
	}

	signerAddress := signing.GetAddressFromPrivateKey(c.privateKey)
	maker := signerAddress.Hex()
	if c.funderAddress != "" {
		maker = c.funderAddress
	}

	orderData := &signing.OrderData{
		Salt:          time.Now().UnixNano(),
		Maker:         maker,
		Signer:        signerAddress.Hex(),
		Taker:         "0x0000000000000000000000000000000000000000",
		TokenID:       tokenID,
		MakerAmount:   parseUnits(rawMakerAmt, CollateralTokenDecimals),
		TakerAmount:   parseUnits(rawTakerAmt, CollateralTokenDecimals),
		Expiration:    big.NewInt(args.Expiration),
		Nonce:         big.NewInt(args.Nonce),
		FeeRateBps:    big.NewInt(int64(args.FeeRateBps)),
		Side:          args.Side,
		SignatureType: c.signatureType,
	}

	signature, err := signing.BuildOrderSignature(c.privateKey, c.chainID, contractConfig.Exchange, orderData)
	if err != nil {
		return nil, fmt.Errorf("签名订单失败: %w", err)
	}

	return &types.SignedOrder{
		Salt:          orderData.Salt,
		Maker:         orderData.Maker,
		Signer:        orderData.Signer,
		Taker:         orderData.Taker,
		TokenID:       args.TokenID,
		MakerAmount:   orderData.MakerAmount.String(),
		TakerAmount:   orderData.TakerAmount.String(),
		Expiration:    orderData.Expiration.String(),
		Nonce:         orderData.Nonce.String(),
		FeeRateBps:    orderData.FeeRateBps.String(),
		Side:          args.Side,
		SignatureType: int(c.signatureType),
		Signature:     signature,
	}, nil
}

// PostOrder 提交已签名订单
func (c *Client) PostOrder(ctx context.Context, order *types.SignedOrder, orderType types.OrderType) (*types.OrderResponse, error) {
	if err := c.canL2Auth(); err != nil {
		return nil, err
	}

	payload := types.NewOrder{
		Order:     *order,
		Owner:     c.creds.Key,
		OrderType: orderType,
	}
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("序列化订单载荷失败: %w", err)
	}
	bodyStr := string(bodyBytes)

	headers, err := signing.CreateL2Headers(c.privateKey, c.creds, &types.L2HeaderArgs{
		Method:      "POST",
		RequestPath: EndpointPostOrder,
		Body:        &bodyStr,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 L2 认证头失败: %w", err)
	}

	var orderResp types.OrderResponse
	if err := c.httpClient.post(ctx, EndpointPostOrder, headers.Map(), bodyStr, &orderResp); err != nil {
		return nil, fmt.Errorf("提交订单失败: %w", err)
	}
	return &orderResp, nil
}

// orderRawAmounts 计算 maker/taker 金额（USDC 口径，wei 换算前）。
// 买入：taker 收 tokens，maker 付 USDC；卖出：maker 给 tokens（2dp），taker 付 USDC（4dp）。
func orderRawAmounts(side types.Side, size, price float64, rc RoundConfig) (rawMakerAmt, rawTakerAmt float64) {
	rawPrice := roundNormal(price, rc.Price)

	if side == types.SideBuy {
		rawTakerAmt = roundDown(size, rc.Size)
		rawMakerAmt = rawTakerAmt * rawPrice
		if decimalPlaces(rawMakerAmt) > rc.Amount {
			rawMakerAmt = roundUp(rawMakerAmt, rc.Amount+4)
			if decimalPlaces(rawMakerAmt) > rc.Amount {
				rawMakerAmt = roundDown(rawMakerAmt, rc.Amount)
			}
		}
		return rawMakerAmt, rawTakerAmt
	}

	rawMakerAmt = roundDown(size, rc.Size)
	rawTakerAmt = rawMakerAmt * rawPrice
	if decimalPlaces(rawTakerAmt) > 4 {
		rawTakerAmt = roundDown(rawTakerAmt, 4)
	}
	return rawMakerAmt, rawTakerAmt
}

func decimalPlaces(num float64) int {
	if num == math.Trunc(num) {
		return 0
	}
	str := strconv.FormatFloat(num, 'f', -1, 64)
	parts := strings.Split(str, ".")
	if len(parts) < 2 {
		return 0
	}
	return len(parts[1])
}

func roundNormal(num float64, decimals int) float64 {
	if decimalPlaces(num) <= decimals {
		return num
	}
	multiplier := math.Pow(10, float64(decimals))
	return math.Round(num*multiplier) / multiplier
}

func roundDown(num float64, decimals int) float64 {
	if decimalPlaces(num) <= decimals {
		return num
	}
	multiplier := math.Pow(10, float64(decimals))
	return math.Floor(num*multiplier) / multiplier
}

func roundUp(num float64, decimals int) float64 {
	if decimalPlaces(num) <= decimals {
		return num
	}
	multiplier := math.Pow(10, float64(decimals))
	return math.Ceil(num*multiplier) / multiplier
}

// parseUnits 金额转 wei（USDC 6 位精度），向下取整。
func parseUnits(value float64, decimals int) *big.Int {
	multiplier := new(big.Float).SetFloat64(math.Pow(10, float64(decimals)))
	result := new(big.Float).Mul(new(big.Float).SetFloat64(value), multiplier)
	resultInt, _ := result.Int(nil)
	return resultInt
}
