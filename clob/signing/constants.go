package signing

const (
	// ClobDomainName CLOB 鉴权 EIP712 域名称
	ClobDomainName = "ClobAuthDomain"

	// ClobVersion CLOB 鉴权 EIP712 版本
	ClobVersion = "1"

	// MsgToSign L1 鉴权固定签名消息
	MsgToSign = "This message attests that I control the given wallet"

	// ExchangeDomainName 交易所订单 EIP712 域名称
	ExchangeDomainName = "Polymarket CTF Exchange"

	// ExchangeVersion 交易所订单 EIP712 版本
	ExchangeVersion = "1"
)
