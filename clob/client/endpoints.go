package client

// API 端点常量
const (
	// Server time
	EndpointTime = "/time"

	// API key
	EndpointCreateAPIKey = "/auth/api-key"
	EndpointDeriveAPIKey = "/auth/derive-api-key"

	// Markets
	EndpointGetOrderBook = "/book"
	EndpointGetPrice     = "/price"

	// Orders
	EndpointPostOrder   = "/order"
	EndpointCancelOrder = "/order"

	// Balance
	EndpointGetBalanceAllowance = "/balance-allowance"
)

// DataAPIHost Data API 主机（持仓事实源）
const DataAPIHost = "https://data-api.polymarket.com"
