package service

import (
	"portfolio_tracker/internal/domain/entity"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Summarize computes P&L and ROI per balance and the portfolio totals.
// ROI is 0 when nothing was invested.
func Summarize(balances []entity.Balance, quote entity.QuoteCurrency) entity.PortfolioSummary {
	summary := entity.PortfolioSummary{Currency: quote, Rows: make([]entity.SummaryRow, 0, len(balances))}

	totalValue, totalInvested := decimal.Zero, decimal.Zero
	for _, b := range balances {
		value := decimal.NewFromFloat(b.NotionalValue)
		invested := decimal.NewFromFloat(b.Cost)
		pnl := value.Sub(invested)

		summary.Rows = append(summary.Rows, entity.SummaryRow{
			Wallet:    b.Wallet,
			Chain:     b.Chain,
			Symbol:    b.Symbol,
			Quantity:  b.CurrentBalance,
			Rewards:   b.RewardedBalance,
			Price:     b.CurrentPrice,
			Value:     b.NotionalValue,
			Invested:  b.Cost,
			PNL:       pnl.InexactFloat64(),
			ROI:       roi(pnl, invested).InexactFloat64(),
			Precision: b.Precision,
		})

		totalValue = totalValue.Add(value)
		totalInvested = totalInvested.Add(invested)
	}

	totalPNL := totalValue.Sub(totalInvested)
	summary.Total = totalValue.InexactFloat64()
	summary.Invested = totalInvested.InexactFloat64()
	summary.PNL = totalPNL.InexactFloat64()
	summary.ROI = roi(totalPNL, totalInvested).InexactFloat64()
	return summary
}

func roi(pnl, invested decimal.Decimal) decimal.Decimal {
	if invested.IsZero() {
		return decimal.Zero
	}
	return pnl.Mul(hundred).Div(invested)
}
