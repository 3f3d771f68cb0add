package types

// Chain 链 ID
type Chain int

const (
	// ChainPolygon Polygon 主网
	ChainPolygon Chain = 137
	// ChainAmoy Amoy 测试网
	ChainAmoy Chain = 80002
)

// SignatureType 签名类型
type SignatureType int

const (
	// SignatureTypeEOA 直接 EOA 签名
	SignatureTypeEOA SignatureType = 0
	// SignatureTypePolyProxy Polymarket 代理钱包签名
	SignatureTypePolyProxy SignatureType = 1
	// SignatureTypePolyGnosisSafe Gnosis Safe 签名
	SignatureTypePolyGnosisSafe SignatureType = 2
)

// TickSize 最小价格单位（字符串形式，与 API 一致）
type TickSize string

const (
	TickSize01    TickSize = "0.1"
	TickSize001   TickSize = "0.01"
	TickSize0001  TickSize = "0.001"
	TickSize00001 TickSize = "0.0001"
)

// ApiKeyCreds L2 API 凭证（由私钥派生）
type ApiKeyCreds struct {
	Key        string `json:"apiKey"`
	Secret     string `json:"secret"`
	Passphrase string `json:"passphrase"`
}
