package main

import (
	"fmt"
	"strings"

	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/pkg/utils"
)

// summaryMarkdown renders one table per wallet followed by the portfolio totals.
func summaryMarkdown(summary entity.PortfolioSummary, failures []entity.PortfolioError) string {
	var b strings.Builder
	quote := string(summary.Currency)

	b.WriteString("# Portfolio\n\n")
	wallet := ""
	for _, row := range summary.Rows {
		if row.Wallet != wallet {
			wallet = row.Wallet
			fmt.Fprintf(&b, "\n## %s\n\n", wallet)
			b.WriteString("| Symbol | Chain | Quantity | Rewards | Price | Value | Invested | PNL | ROI |\n")
			b.WriteString("|:---|:---|---:|---:|---:|---:|---:|---:|---:|\n")
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			row.Symbol,
			row.Chain,
			utils.FormatQuantity(row.Quantity, row.Precision),
			utils.FormatQuantity(row.Rewards, row.Precision),
			utils.FormatMoney(row.Price, quote),
			utils.FormatMoney(row.Value, quote),
			utils.FormatMoney(row.Invested, quote),
			utils.FormatMoney(row.PNL, quote),
			utils.FormatPercent(row.ROI),
		)
	}

	b.WriteString("\n## Total\n\n")
	b.WriteString("| Value | Invested | PNL | ROI |\n")
	b.WriteString("|---:|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
		utils.FormatMoney(summary.Total, quote),
		utils.FormatMoney(summary.Invested, quote),
		utils.FormatMoney(summary.PNL, quote),
		utils.FormatPercent(summary.ROI),
	)

	if len(failures) > 0 {
		b.WriteString("\n## Failed holdings\n\n")
		for _, f := range failures {
			fmt.Fprintf(&b, "- %s %s on %s: %s\n", f.WalletAddress, f.TokenSymbol, f.Chain, f.Message)
		}
	}
	return b.String()
}
