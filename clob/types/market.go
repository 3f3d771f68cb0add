package types

// MarketPrice /price 响应
type MarketPrice struct {
	Price string `json:"price"`
}

// BookLevel 订单簿一档
type BookLevel struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}

// OrderBookSummary /book 响应（只保留决策需要的字段）
type OrderBookSummary struct {
	Market    string      `json:"market"`
	AssetID   string      `json:"asset_id"`
	Timestamp string      `json:"timestamp"`
	Bids      []BookLevel `json:"bids"`
	Asks      []BookLevel `json:"asks"`
}

// BalanceAllowanceParams 余额查询参数
type BalanceAllowanceParams struct {
	// AssetType COLLATERAL（USDC）或 CONDITIONAL（条件代币）
	AssetType string
	// TokenID 条件代币查询时必填
	TokenID string
}

// BalanceAllowanceResponse 余额查询响应（USDC 以 6 位精度整数字符串返回）
type BalanceAllowanceResponse struct {
	Balance   string `json:"balance"`
	Allowance string `json:"allowance"`
}

// DataPosition Data API /positions 条目（外部持仓事实源）
type DataPosition struct {
	Asset    string  `json:"asset"`
	Size     float64 `json:"size"`
	AvgPrice float64 `json:"avgPrice"`
	CurPrice float64 `json:"curPrice"`
	Title    string  `json:"title"`
}
