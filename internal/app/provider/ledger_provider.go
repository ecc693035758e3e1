package provider

import (
	"sync"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/infrastructure/ledgerloader"
)

type ledgerProviderImpl struct {
	ledgerPath string
	logger     port.Logger

	mu     sync.Mutex
	cached *entity.Ledger
}

// NewLedgerProvider creates a LedgerProvider reading the ledger file at path.
// The file is read once and then served from memory.
func NewLedgerProvider(path string, logger port.Logger) port.LedgerProvider {
	return &ledgerProviderImpl{ledgerPath: path, logger: logger}
}

// GetLedger loads and validates the ledger file on first use.
func (p *ledgerProviderImpl) GetLedger() (entity.Ledger, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil {
		p.logger.Debug("Returning cached ledger", "path", p.ledgerPath)
		return *p.cached, nil
	}

	p.logger.Debug("Loading ledger from file", "path", p.ledgerPath)
	ledger, err := ledgerloader.Load(p.ledgerPath)
	if err != nil {
		p.logger.Error("Failed to load ledger", "path", p.ledgerPath, "error", err)
		return entity.Ledger{}, err
	}

	p.cached = &ledger
	p.logger.Info("Ledger loaded successfully", "wallets", len(ledger.Wallets), "holdings", ledger.HoldingCount(), "path", p.ledgerPath)
	return ledger, nil
}
