package provider

import (
	"context"
	"fmt"
	"io"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/app/service"
	"portfolio_tracker/internal/infrastructure/configloader"
	"portfolio_tracker/internal/infrastructure/httpclient"
	"portfolio_tracker/internal/infrastructure/network/client"
	networkdefinition "portfolio_tracker/internal/infrastructure/network/definition"
	"portfolio_tracker/internal/infrastructure/store"

	"go.uber.org/zap"
)

const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Services is the wired object graph shared by the server and the CLI.
type Services struct {
	Networks  port.NetworkDefinitionProvider
	Gateway   port.ChainGateway
	Oracle    port.PriceOracle
	Prices    port.TokenPriceService
	Decimals  port.DecimalsCache
	Portfolio port.PortfolioService

	closers []io.Closer
}

// OpenDecimalsStore opens the store selected by cfg.Driver.
func OpenDecimalsStore(ctx context.Context, cfg configloader.DecimalsCacheConfig) (port.DecimalsStore, error) {
	switch cfg.Driver {
	case DriverSQLite, "":
		return store.OpenSQLite(ctx, cfg.Path)
	case DriverMemory:
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown decimals cache driver %q", cfg.Driver)
	}
}

// NewServices builds every service from the configuration. Close releases
// the decimals store and the RPC connections.
func NewServices(ctx context.Context, cfg *configloader.Config, logger port.Logger, zapLogger *zap.Logger) (*Services, error) {
	decimalsStore, err := OpenDecimalsStore(ctx, cfg.DecimalsCache)
	if err != nil {
		return nil, fmt.Errorf("failed to open decimals store: %w", err)
	}

	networks := networkdefinition.NewNetworkDefinitionProvider(logger, cfg.Web3.InfuraProjectID, cfg.Web3.Endpoints)
	gateway := client.NewEVMClientProvider(networks, cfg.Web3, logger)
	oracle := httpclient.NewCoinGeckoClient(cfg.CoinGecko, networks, zapLogger)

	prices := service.NewTokenPriceService(oracle, cfg.TokenPriceSvc, logger)
	decimals := service.NewDecimalsCache(decimalsStore, gateway, logger)
	portfolio := service.NewPortfolioService(
		service.NewBalanceResolver(gateway, decimals, prices, logger),
		service.NewCostResolver(prices),
		logger,
		cfg.PortfolioService,
	)

	return &Services{
		Networks:  networks,
		Gateway:   gateway,
		Oracle:    oracle,
		Prices:    prices,
		Decimals:  decimals,
		Portfolio: portfolio,
		closers:   []io.Closer{decimalsStore, gatewayCloser{gateway}},
	}, nil
}

// Close releases the resources opened by NewServices.
func (s *Services) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type gatewayCloser struct {
	p *client.EVMClientProvider
}

func (g gatewayCloser) Close() error {
	g.p.Close()
	return nil
}
