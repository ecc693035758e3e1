package port

import (
	"context"

	"portfolio_tracker/internal/domain/entity"
)

// PriceOracle fetches spot prices from an upstream price API.
type PriceOracle interface {
	GetNativePrice(ctx context.Context, chain string, quote entity.QuoteCurrency) (float64, error)
	GetTokenPrice(ctx context.Context, chain string, tokenAddress string, quote entity.QuoteCurrency) (float64, error)
}

// TokenPriceService dispatches price lookups between native and token prices.
type TokenPriceService interface {
	// GetPrice treats an empty token address and entity.NativeToken as the native asset.
	GetPrice(ctx context.Context, chain string, tokenAddress string, quote entity.QuoteCurrency) (float64, error)
}

// DecimalsStore persists token metadata keyed by (chain, token).
type DecimalsStore interface {
	// Lookup returns the entry and true, or false when the key is absent.
	Lookup(ctx context.Context, chain, token string) (entity.DecimalsEntry, bool, error)
	// Insert adds the entry unless the key already exists. inserted is false for a duplicate.
	Insert(ctx context.Context, entry entity.DecimalsEntry) (inserted bool, err error)
	Close() error
}

// DecimalsCache returns token decimals, populating its store on first use.
type DecimalsCache interface {
	Get(ctx context.Context, chain, tokenAddress string) (uint8, error)
	Entry(ctx context.Context, chain, tokenAddress string) (entity.DecimalsEntry, error)
}
