package service

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// GOHMAddress is the gOHM wrapper on ethereum. Its balance is reported in
// OHM by dividing the raw balance by balanceTo(1 OHM).
const GOHMAddress = "0x0ab87046fBb341D058F17CBC4c1133F25a20a52f"

// 1 OHM, OHM has 9 decimals
var ohmUnit = big.NewInt(1_000_000_000)

const rebaseDivisionPrecision = 18

// BalanceResolverService implements port.BalanceResolver.
type BalanceResolverService struct {
	gateway  port.ChainGateway
	decimals port.DecimalsCache
	prices   port.TokenPriceService
	logger   port.Logger
}

// NewBalanceResolver creates a new BalanceResolverService.
func NewBalanceResolver(gateway port.ChainGateway, decimals port.DecimalsCache, prices port.TokenPriceService, logger port.Logger) *BalanceResolverService {
	return &BalanceResolverService{gateway: gateway, decimals: decimals, prices: prices, logger: logger}
}

// ResolveBalance returns the normalized balance of the holding (staked leg
// included), its current price and notional value. A failed balanceOf read
// counts as zero; decimals and price failures are returned.
func (r *BalanceResolverService) ResolveBalance(ctx context.Context, owner string, holding entity.Holding, quote entity.QuoteCurrency) (entity.Valuation, error) {
	reader, err := r.gateway.Reader(ctx, holding.Chain)
	if err != nil {
		return entity.Valuation{}, err
	}

	balance, err := r.normalizedBalance(ctx, reader, holding.Chain, owner, holding.TokenAddress)
	if err != nil {
		return entity.Valuation{}, err
	}
	if holding.StakedAddress != "" {
		staked, err := r.normalizedBalance(ctx, reader, holding.Chain, owner, holding.StakedAddress)
		if err != nil {
			return entity.Valuation{}, err
		}
		balance = balance.Add(staked)
	}

	price, err := r.prices.GetPrice(ctx, holding.Chain, holding.TokenAddress, quote)
	if err != nil {
		return entity.Valuation{}, fmt.Errorf("price of %s on %s: %w", holding.Symbol, holding.Chain, err)
	}
	currentPrice := decimal.NewFromFloat(price)

	return entity.Valuation{
		CurrentBalance: balance,
		CurrentPrice:   currentPrice,
		NotionalValue:  balance.Mul(currentPrice),
	}, nil
}

func (r *BalanceResolverService) normalizedBalance(ctx context.Context, reader port.ContractReader, chain, owner, token string) (decimal.Decimal, error) {
	if chain == entity.ChainEthereum && strings.EqualFold(token, GOHMAddress) {
		return r.rebasedBalance(ctx, reader, owner, token), nil
	}

	decimals, err := r.decimals.Get(ctx, chain, token)
	if err != nil {
		return decimal.Zero, fmt.Errorf("decimals of %s on %s: %w", token, chain, err)
	}
	raw := reader.ReadUint(ctx, token, "balanceOf", big.NewInt(0), owner)
	return decimal.NewFromBigInt(raw, -int32(decimals)), nil
}

func (r *BalanceResolverService) rebasedBalance(ctx context.Context, reader port.ContractReader, owner, token string) decimal.Decimal {
	raw := reader.ReadUint(ctx, token, "balanceOf", big.NewInt(0), owner)
	ratio := reader.ReadUint(ctx, token, "balanceTo", big.NewInt(0), ohmUnit)
	if ratio.Sign() == 0 {
		if raw.Sign() != 0 {
			r.logger.Warn("Rebasing ratio unavailable, counting balance as zero", "token", token, "owner", owner)
		}
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, 0).DivRound(decimal.NewFromBigInt(ratio, 0), rebaseDivisionPrecision)
}

var _ port.BalanceResolver = (*BalanceResolverService)(nil)
