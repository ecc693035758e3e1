package utils

import (
	"math/big"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatUnits converts a raw token amount to a human-readable string.
// Example: amount=1234500000000000000, decimals=18 => "1.2345"
func FormatUnits(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount, -int32(decimals)).String()
}

// FormatQuantity rounds v to precision fractional digits.
func FormatQuantity(v float64, precision int) string {
	if precision < 0 {
		precision = 0
	}
	return decimal.NewFromFloat(v).StringFixed(int32(precision))
}

// FormatPercent renders v with two fractional digits and a percent sign.
func FormatPercent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2) + "%"
}

// cryptoQuoteDigits is used for quote currencies go-money does not know.
const cryptoQuoteDigits = 8

// FormatMoney renders a value in the quote currency. Fiat codes use the
// go-money currency template; btc and eth fall back to a fixed number of
// digits followed by the upper-cased code.
func FormatMoney(v float64, quote string) string {
	code := strings.ToUpper(quote)
	amount := decimal.NewFromFloat(v)

	cur := money.GetCurrency(code)
	if cur == nil {
		return amount.StringFixed(cryptoQuoteDigits) + " " + code
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), code).Display()
}
