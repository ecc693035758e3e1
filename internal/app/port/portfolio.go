package port

import (
	"context"

	"portfolio_tracker/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// BalanceResolver computes the current balance, price and value of one holding.
type BalanceResolver interface {
	ResolveBalance(ctx context.Context, owner string, holding entity.Holding, quote entity.QuoteCurrency) (entity.Valuation, error)
}

// CostResolver prices the transaction history of a holding.
type CostResolver interface {
	ResolveCost(ctx context.Context, chain string, txs []entity.Transaction, quote entity.QuoteCurrency) (decimal.Decimal, error)
}

// PortfolioService resolves a whole ledger.
type PortfolioService interface {
	// ResolvePortfolio returns one Balance per (wallet, holding) in ledger order.
	// With partial results enabled, failed holdings are left out and reported
	// in the second return value instead of failing the call.
	ResolvePortfolio(ctx context.Context, ledger entity.Ledger, quote entity.QuoteCurrency) ([]entity.Balance, []entity.PortfolioError, error)
}

// LedgerProvider supplies the ledger to resolve.
type LedgerProvider interface {
	GetLedger() (entity.Ledger, error)
}
