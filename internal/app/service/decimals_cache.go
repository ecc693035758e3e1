package service

import (
	"context"
	"fmt"
	"strings"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/pkg/metrics"
)

// DecimalsCacheService implements port.DecimalsCache on top of a DecimalsStore.
// Entries are never refreshed: decimals and symbol are treated as immutable.
type DecimalsCacheService struct {
	store   port.DecimalsStore
	gateway port.ChainGateway
	logger  port.Logger
}

// NewDecimalsCache creates a new DecimalsCacheService.
func NewDecimalsCache(store port.DecimalsStore, gateway port.ChainGateway, logger port.Logger) *DecimalsCacheService {
	return &DecimalsCacheService{store: store, gateway: gateway, logger: logger}
}

// Get returns the decimals of a token.
func (s *DecimalsCacheService) Get(ctx context.Context, chain, tokenAddress string) (uint8, error) {
	entry, err := s.Entry(ctx, chain, tokenAddress)
	if err != nil {
		return 0, err
	}
	return entry.Decimals, nil
}

// Entry returns the cached metadata of a token, reading it from the chain on a miss.
// Concurrent misses for the same key both read the chain; the store keeps the first row.
func (s *DecimalsCacheService) Entry(ctx context.Context, chain, tokenAddress string) (entity.DecimalsEntry, error) {
	token := strings.ToLower(tokenAddress)

	entry, found, err := s.store.Lookup(ctx, chain, token)
	if err != nil {
		return entity.DecimalsEntry{}, fmt.Errorf("decimals cache lookup failed: %w", err)
	}
	if found {
		metrics.DecimalsCacheLookups.WithLabelValues("hit").Inc()
		return entry, nil
	}
	metrics.DecimalsCacheLookups.WithLabelValues("miss").Inc()

	reader, err := s.gateway.Reader(ctx, chain)
	if err != nil {
		return entity.DecimalsEntry{}, err
	}

	values, err := reader.ReadContractMethod(ctx, token, "decimals")
	if err != nil {
		return entity.DecimalsEntry{}, err
	}
	decimals, ok := values[0].(uint8)
	if !ok {
		return entity.DecimalsEntry{}, entity.NewRemoteCallError(chain, token, "decimals",
			fmt.Errorf("unexpected result type %T", values[0]))
	}

	entry = entity.DecimalsEntry{Chain: chain, Token: token, Decimals: decimals}
	if values, err := reader.ReadContractMethod(ctx, token, "symbol"); err != nil {
		s.logger.Warn("Failed to read token symbol, caching without it", "chain", chain, "token", token, "error", err)
	} else if symbol, ok := values[0].(string); ok {
		entry.Symbol = symbol
	}

	inserted, err := s.store.Insert(ctx, entry)
	switch {
	case err != nil:
		s.logger.Error("Failed to persist token decimals", "chain", chain, "token", token, "error", err)
	case !inserted:
		s.logger.Debug("Token decimals already cached by a concurrent lookup", "chain", chain, "token", token)
	default:
		s.logger.Debug("Cached token decimals", "chain", chain, "token", token, "decimals", decimals, "symbol", entry.Symbol)
	}
	return entry, nil
}

var _ port.DecimalsCache = (*DecimalsCacheService)(nil)
