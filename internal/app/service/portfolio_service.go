package service

import (
	"context"
	"fmt"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/infrastructure/configloader"
	"portfolio_tracker/internal/pkg/metrics"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// PortfolioServiceImpl implements port.PortfolioService.
//
// By default the first failing holding fails the whole call and cancels the
// remaining work. With PartialResults the failed holdings are logged, left
// out of the balances and returned as PortfolioError entries.
type PortfolioServiceImpl struct {
	balances              port.BalanceResolver
	costs                 port.CostResolver
	logger                port.Logger
	maxConcurrentRoutines int
	partialResults        bool
}

// NewPortfolioService creates a new instance of PortfolioServiceImpl.
func NewPortfolioService(
	balances port.BalanceResolver,
	costs port.CostResolver,
	l port.Logger,
	cfg configloader.PortfolioServiceConfig,
) *PortfolioServiceImpl {
	maxRoutines := cfg.MaxConcurrentRequests
	if maxRoutines <= 0 {
		maxRoutines = 1
	}
	return &PortfolioServiceImpl{
		balances:              balances,
		costs:                 costs,
		logger:                l,
		maxConcurrentRoutines: maxRoutines,
		partialResults:        cfg.PartialResults,
	}
}

type holdingJob struct {
	wallet  string
	holding entity.Holding
}

// ResolvePortfolio validates the ledger and resolves every (wallet, holding)
// pair concurrently. Balances come back in ledger order.
func (s *PortfolioServiceImpl) ResolvePortfolio(ctx context.Context, ledger entity.Ledger, quote entity.QuoteCurrency) ([]entity.Balance, []entity.PortfolioError, error) {
	if err := ledger.Validate(); err != nil {
		return nil, nil, err
	}

	jobs := make([]holdingJob, 0, ledger.HoldingCount())
	for _, w := range ledger.Wallets {
		for _, h := range w.Holdings {
			jobs = append(jobs, holdingJob{wallet: w.Wallet, holding: h})
		}
	}
	s.logger.Info("Resolving portfolio", "wallets", len(ledger.Wallets), "holdings", len(jobs), "quote", quote)

	results := make([]entity.Balance, len(jobs))
	failures := make([]error, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrentRoutines)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			balance, err := s.resolveHolding(gctx, job, quote)
			if err != nil {
				metrics.ResolvedHoldings.WithLabelValues("failed").Inc()
				s.logger.Error("Failed to resolve holding",
					"wallet", job.wallet,
					"chain", job.holding.Chain,
					"symbol", job.holding.Symbol,
					"error", err)
				if s.partialResults {
					failures[i] = err
					return nil
				}
				return fmt.Errorf("wallet %s, %s on %s: %w", job.wallet, job.holding.Symbol, job.holding.Chain, err)
			}
			metrics.ResolvedHoldings.WithLabelValues("ok").Inc()
			results[i] = balance
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	balances := make([]entity.Balance, 0, len(jobs))
	var portfolioErrors []entity.PortfolioError
	for i, job := range jobs {
		if failures[i] != nil {
			portfolioErrors = append(portfolioErrors, entity.PortfolioError{
				WalletAddress: job.wallet,
				Chain:         job.holding.Chain,
				TokenSymbol:   job.holding.Symbol,
				TokenAddress:  job.holding.TokenAddress,
				Message:       failures[i].Error(),
			})
			continue
		}
		balances = append(balances, results[i])
	}

	s.logger.Info("Portfolio resolved", "balances", len(balances), "failed", len(portfolioErrors))
	return balances, portfolioErrors, nil
}

func (s *PortfolioServiceImpl) resolveHolding(ctx context.Context, job holdingJob, quote entity.QuoteCurrency) (entity.Balance, error) {
	var (
		valuation entity.Valuation
		cost      decimal.Decimal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		valuation, err = s.balances.ResolveBalance(gctx, job.wallet, job.holding, quote)
		return err
	})
	g.Go(func() error {
		var err error
		cost, err = s.costs.ResolveCost(gctx, job.holding.Chain, job.holding.Transactions, quote)
		return err
	})
	if err := g.Wait(); err != nil {
		return entity.Balance{}, err
	}

	return entity.NewBalance(job.wallet, job.holding, cost, InitialBalance(job.holding.Transactions), valuation), nil
}

var _ port.PortfolioService = (*PortfolioServiceImpl)(nil)
