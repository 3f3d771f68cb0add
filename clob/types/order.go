package types

import "strings"

// Side 订单方向
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// OrderType 订单执行类型
type OrderType string

const (
	// OrderTypeGTC 挂单直到取消
	OrderTypeGTC OrderType = "GTC"
	// OrderTypeFOK 全部立即成交，否则整单撤销
	OrderTypeFOK OrderType = "FOK"
	// OrderTypeFAK 立即成交可成交部分，剩余撤销（≈ IOC）
	OrderTypeFAK OrderType = "FAK"
)

// OrderArgs 下单参数（未签名）
type OrderArgs struct {
	// TokenID 条件代币资产 ID
	TokenID string
	// Price 限价（USDC）
	Price float64
	// Size 份数（shares）
	Size float64
	// Side 订单方向
	Side Side
	// FeeRateBps 手续费率（基点），可选
	FeeRateBps int
	// Nonce 链上取消用 nonce，可选
	Nonce int64
	// Expiration 过期时间戳（秒），0 表示不过期
	Expiration int64
}

// SignedOrder 已签名订单（提交给 /order 的格式）
type SignedOrder struct {
	Salt          int64  `json:"salt"`
	Maker         string `json:"maker"`
	Signer        string `json:"signer"`
	Taker         string `json:"taker"`
	TokenID       string `json:"tokenId"`
	MakerAmount   string `json:"makerAmount"`
	TakerAmount   string `json:"takerAmount"`
	Expiration    string `json:"expiration"`
	Nonce         string `json:"nonce"`
	FeeRateBps    string `json:"feeRateBps"`
	Side          Side   `json:"side"`
	SignatureType int    `json:"signatureType"`
	Signature     string `json:"signature"`
}

// NewOrder 订单提交载荷
type NewOrder struct {
	Order     SignedOrder `json:"order"`
	Owner     string      `json:"owner"`
	OrderType OrderType   `json:"orderType"`
}

// OrderResponse 订单提交响应
type OrderResponse struct {
	Success           bool     `json:"success"`
	ErrorMsg          string   `json:"errorMsg"`
	OrderID           string   `json:"orderID"`
	TransactionHashes []string `json:"transactionsHashes"`
	Status            string   `json:"status"`
	TakingAmount      string   `json:"takingAmount"`
	MakingAmount      string   `json:"makingAmount"`
}

// Filled 响应是否表示订单已全部成交/撮合
func (r *OrderResponse) Filled() bool {
	if r == nil {
		return false
	}
	switch strings.ToLower(r.Status) {
	case "success", "matched":
		return true
	}
	return false
}
