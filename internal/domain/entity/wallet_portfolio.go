package entity

// SummaryRow is one line of the portfolio summary.
type SummaryRow struct {
	Wallet    string  `json:"wallet"`
	Chain     string  `json:"chain"`
	Symbol    string  `json:"symbol"`
	Quantity  float64 `json:"quantity"`
	Rewards   float64 `json:"rewards"`
	Price     float64 `json:"price"`
	Value     float64 `json:"value"`
	Invested  float64 `json:"invested"`
	PNL       float64 `json:"pnl"`
	ROI       float64 `json:"roi"`
	Precision int     `json:"precision"`
}

// PortfolioSummary aggregates the resolved balances of a ledger.
type PortfolioSummary struct {
	Currency QuoteCurrency `json:"currency"`
	Rows     []SummaryRow  `json:"rows"`
	Total    float64       `json:"total"`
	Invested float64       `json:"invested"`
	PNL      float64       `json:"pnl"`
	ROI      float64       `json:"roi"`
}
