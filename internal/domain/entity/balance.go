package entity

import "github.com/shopspring/decimal"

// Valuation is the on-chain and market side of a holding.
type Valuation struct {
	CurrentBalance decimal.Decimal
	CurrentPrice   decimal.Decimal
	NotionalValue  decimal.Decimal
}

// Balance is the resolved state of one holding of one wallet.
type Balance struct {
	Wallet          string  `json:"wallet"`
	Chain           string  `json:"chain"`
	TokenAddress    string  `json:"tokenAddress"`
	Symbol          string  `json:"symbol"`
	Cost            float64 `json:"cost"`
	InitialBalance  float64 `json:"initialBalance"`
	CurrentBalance  float64 `json:"currentBalance"`
	RewardedBalance float64 `json:"rewardedBalance"`
	CurrentPrice    float64 `json:"currentPrice"`
	NotionalValue   float64 `json:"notionalValue"`
	Precision       int     `json:"precision"`
}

// NewBalance assembles a Balance record, deriving the rewarded balance from the current and initial ones.
func NewBalance(wallet string, h Holding, cost, initial decimal.Decimal, v Valuation) Balance {
	return Balance{
		Wallet:          wallet,
		Chain:           h.Chain,
		TokenAddress:    h.TokenAddress,
		Symbol:          h.Symbol,
		Cost:            cost.InexactFloat64(),
		InitialBalance:  initial.InexactFloat64(),
		CurrentBalance:  v.CurrentBalance.InexactFloat64(),
		RewardedBalance: v.CurrentBalance.Sub(initial).InexactFloat64(),
		CurrentPrice:    v.CurrentPrice.InexactFloat64(),
		NotionalValue:   v.NotionalValue.InexactFloat64(),
		Precision:       h.EffectivePrecision(),
	}
}
