package service

import (
	"context"
	"fmt"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// CostResolverService implements port.CostResolver. Every leg is priced at
// request time, so the result is a current-price cost basis rather than a
// historical one.
type CostResolverService struct {
	prices port.TokenPriceService
}

// NewCostResolver creates a new CostResolverService.
func NewCostResolver(prices port.TokenPriceService) *CostResolverService {
	return &CostResolverService{prices: prices}
}

// ResolveCost sums amountOut.value * price(amountOut.token) + fee * price(native).
func (r *CostResolverService) ResolveCost(ctx context.Context, chain string, txs []entity.Transaction, quote entity.QuoteCurrency) (decimal.Decimal, error) {
	total := decimal.Zero
	if len(txs) == 0 {
		return total, nil
	}

	nativePrice, err := r.prices.GetPrice(ctx, chain, entity.NativeToken, quote)
	if err != nil {
		return decimal.Zero, fmt.Errorf("native price on %s: %w", chain, err)
	}
	native := decimal.NewFromFloat(nativePrice)

	for i, tx := range txs {
		price, err := r.prices.GetPrice(ctx, chain, tx.AmountOut.TokenAddress, quote)
		if err != nil {
			return decimal.Zero, fmt.Errorf("transaction %d: price of %s: %w", i, tx.AmountOut.Symbol, err)
		}
		total = total.
			Add(decimal.NewFromFloat(tx.AmountOut.Value).Mul(decimal.NewFromFloat(price))).
			Add(decimal.NewFromFloat(tx.Fee).Mul(native))
	}
	return total, nil
}

// InitialBalance sums amountIn over the transactions.
func InitialBalance(txs []entity.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(decimal.NewFromFloat(tx.AmountIn))
	}
	return total
}

var _ port.CostResolver = (*CostResolverService)(nil)
