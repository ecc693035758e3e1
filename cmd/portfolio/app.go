package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"portfolio_tracker/internal/app/provider"
	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/infrastructure/configloader"
	"portfolio_tracker/internal/infrastructure/ledgerloader"
	"portfolio_tracker/internal/pkg/logger"

	"github.com/charmbracelet/glamour"
)

var (
	configPath = flag.String("config", configloader.GetEnv(os.LookupEnv, "CONFIG_PATH", "config/config.yml"), "Path to the YAML configuration file")
	logLevel   = flag.String("log-level", "", "Log level, overrides the configuration (debug, info, warn, error)")
)

// openServices loads the configuration, lets override adjust it and wires
// the services for one command run.
func openServices(ctx context.Context, override func(*configloader.Config)) (*configloader.Config, *provider.Services, error) {
	configloader.LoadDotEnv()
	cfg, err := configloader.Load(*configPath)
	if err != nil {
		return nil, nil, err
	}
	if override != nil {
		override(cfg)
	}
	level := cfg.Logging.Level
	if *logLevel != "" {
		level = *logLevel
	}
	zapLogger, err := logger.Init(level)
	if err != nil {
		return nil, nil, err
	}

	services, err := provider.NewServices(ctx, cfg, logger.NewSlogAdapter(), zapLogger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, services, nil
}

// portfolioFlags are shared by the commands valuing a ledger.
type portfolioFlags struct {
	ledgerFile string
	currency   string
	partial    bool
}

func (p *portfolioFlags) register(f *flag.FlagSet) {
	f.StringVar(&p.ledgerFile, "l", "", "Ledger file. Defaults to portfolioService.ledgerPath from the configuration")
	f.StringVar(&p.currency, "currency", "", "Quote currency (usd, btc, eth). Defaults to the configured one")
	f.BoolVar(&p.partial, "partial", false, "Report failed holdings instead of failing the whole run")
}

type portfolioRun struct {
	quote    entity.QuoteCurrency
	balances []entity.Balance
	failures []entity.PortfolioError
}

func (p *portfolioFlags) resolve(ctx context.Context) (*portfolioRun, error) {
	cfg, services, err := openServices(ctx, func(cfg *configloader.Config) {
		if p.partial {
			cfg.PortfolioService.PartialResults = true
		}
	})
	if err != nil {
		return nil, err
	}
	defer services.Close()

	currency := p.currency
	if currency == "" {
		currency = cfg.PortfolioService.QuoteCurrency
	}
	quote, err := entity.ParseQuoteCurrency(currency)
	if err != nil {
		return nil, err
	}

	ledgerFile := p.ledgerFile
	if ledgerFile == "" {
		ledgerFile = cfg.PortfolioService.LedgerPath
	}
	ledger, err := ledgerloader.Load(ledgerFile)
	if err != nil {
		return nil, err
	}

	balances, failures, err := services.Portfolio.ResolvePortfolio(ctx, ledger, quote)
	if err != nil {
		return nil, err
	}
	return &portfolioRun{quote: quote, balances: balances, failures: failures}, nil
}

func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(160))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
