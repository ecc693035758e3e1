package service

import (
	"context"
	"strings"
	"time"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/infrastructure/configloader"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// TokenPriceServiceImpl implements port.TokenPriceService.
// Identical lookups in flight at the same time share one upstream request,
// and results are memoized for the configured TTL.
type TokenPriceServiceImpl struct {
	oracle      port.PriceOracle
	pricesCache *cache.Cache // nil when memoization is disabled
	group       singleflight.Group
	logger      port.Logger
}

// NewTokenPriceService creates a new instance of TokenPriceServiceImpl.
func NewTokenPriceService(oracle port.PriceOracle, cfg configloader.TokenPriceServiceConfig, logger port.Logger) *TokenPriceServiceImpl {
	s := &TokenPriceServiceImpl{oracle: oracle, logger: logger}
	if cfg.CacheTTLSeconds > 0 {
		ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
		s.pricesCache = cache.New(ttl, 2*ttl)
	}
	return s
}

// GetPrice returns the price of tokenAddress on chain. An empty address and
// entity.NativeToken both select the chain's native asset.
//
// The shared upstream lookup is detached from the cancellation of the caller
// that started it; each caller stops waiting only when its own ctx is done.
func (s *TokenPriceServiceImpl) GetPrice(ctx context.Context, chain string, tokenAddress string, quote entity.QuoteCurrency) (float64, error) {
	quote, err := entity.ParseQuoteCurrency(string(quote))
	if err != nil {
		return 0, err
	}

	native := entity.IsNativeToken(tokenAddress)
	asset := entity.NativeToken
	if !native {
		asset = strings.ToLower(tokenAddress)
	}
	key := chain + "_" + asset + "_" + string(quote)

	if price, ok := s.cached(key); ok {
		return price, nil
	}

	ch := s.group.DoChan(key, func() (any, error) {
		// a lookup that finished while this one was queued already filled the cache
		if price, ok := s.cached(key); ok {
			return price, nil
		}

		lookupCtx := context.WithoutCancel(ctx)
		var (
			price float64
			err   error
		)
		if native {
			price, err = s.oracle.GetNativePrice(lookupCtx, chain, quote)
		} else {
			price, err = s.oracle.GetTokenPrice(lookupCtx, chain, asset, quote)
		}
		if err == nil && s.pricesCache != nil {
			s.pricesCache.SetDefault(key, price)
		}
		return price, err
	})

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			s.logger.Warn("Failed to fetch price", "chain", chain, "asset", asset, "quote", quote, "error", res.Err)
			return 0, res.Err
		}
		price := res.Val.(float64)
		s.logger.Debug("Fetched price", "chain", chain, "asset", asset, "quote", quote, "price", price, "shared", res.Shared)
		return price, nil
	}
}

func (s *TokenPriceServiceImpl) cached(key string) (float64, bool) {
	if s.pricesCache == nil {
		return 0, false
	}
	if v, ok := s.pricesCache.Get(key); ok {
		return v.(float64), true
	}
	return 0, false
}

var _ port.TokenPriceService = (*TokenPriceServiceImpl)(nil)
