package configloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Web3Config holds the chain gateway settings.
type Web3Config struct {
	InfuraProjectID     string `yaml:"infuraProjectID"`
	RPCCallTimeoutMs    int64  `yaml:"rpcCallTimeoutMs"`
	ConnectionTimeoutMs int64  `yaml:"connectionTimeoutMs"`
	// Endpoints overrides the built-in RPC endpoint of a chain, keyed by chain identifier.
	Endpoints map[string]string `yaml:"endpoints"`
}

// CoinGeckoConfig holds CoinGecko API specific configurations.
type CoinGeckoConfig struct {
	BaseURL              string  `yaml:"baseURL"`
	APIKey               string  `yaml:"apiKey"`
	RequestTimeoutMillis int64   `yaml:"requestTimeoutMillis"`
	RequestsPerSecond    float64 `yaml:"requestsPerSecond"`
	Burst                int     `yaml:"burst"`
}

// TokenPriceServiceConfig holds configuration for the TokenPriceService.
type TokenPriceServiceConfig struct {
	// CacheTTLSeconds of 0 or less disables price memoization.
	CacheTTLSeconds int `yaml:"cacheTTLSeconds"`
}

// DecimalsCacheConfig selects the store backing the decimals cache.
type DecimalsCacheConfig struct {
	Driver string `yaml:"driver"` // sqlite or memory
	Path   string `yaml:"path"`
}

// PortfolioServiceConfig holds configuration for the PortfolioService.
type PortfolioServiceConfig struct {
	MaxConcurrentRequests int    `yaml:"maxConcurrentRequests"`
	PartialResults        bool   `yaml:"partialResults"`
	QuoteCurrency         string `yaml:"quoteCurrency"`
	LedgerPath            string `yaml:"ledgerPath"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server           ServerConfig            `yaml:"server"`
	Logging          LoggingConfig           `yaml:"logging"`
	Web3             Web3Config              `yaml:"web3"`
	CoinGecko        CoinGeckoConfig         `yaml:"coinGecko"`
	TokenPriceSvc    TokenPriceServiceConfig `yaml:"tokenPriceService"`
	DecimalsCache    DecimalsCacheConfig     `yaml:"decimalsCache"`
	PortfolioService PortfolioServiceConfig  `yaml:"portfolioService"`
}

// Load reads the YAML configuration file from the given path, applies
// environment overrides and fills in defaults. A missing file is not an
// error: the defaults and the environment are used instead.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logrus.Warnf("Config file %s not found, using defaults and environment", path)
	case err != nil:
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
			return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
		}
	}

	applyEnv(&cfg, os.LookupEnv)
	applyDefaults(&cfg)

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":3334"
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 60
	}
	if cfg.Server.IdleTimeout <= 0 {
		cfg.Server.IdleTimeout = 60
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.Web3.RPCCallTimeoutMs <= 0 {
		cfg.Web3.RPCCallTimeoutMs = 10000
		logrus.Infof("Web3.RPCCallTimeoutMs not set, defaulting to %d ms", cfg.Web3.RPCCallTimeoutMs)
	}
	if cfg.Web3.ConnectionTimeoutMs <= 0 {
		cfg.Web3.ConnectionTimeoutMs = 10000
	}
	if cfg.Web3.InfuraProjectID == "" {
		logrus.Warn("Web3.InfuraProjectID not set, chains served through Infura will be unavailable")
	}

	if cfg.CoinGecko.BaseURL == "" {
		cfg.CoinGecko.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if cfg.CoinGecko.RequestTimeoutMillis <= 0 {
		cfg.CoinGecko.RequestTimeoutMillis = 10000
	}
	if cfg.CoinGecko.RequestsPerSecond <= 0 {
		// public API allows roughly 30 calls per minute
		cfg.CoinGecko.RequestsPerSecond = 0.5
		logrus.Infof("CoinGecko.RequestsPerSecond not set, defaulting to %v", cfg.CoinGecko.RequestsPerSecond)
	}
	if cfg.CoinGecko.Burst <= 0 {
		cfg.CoinGecko.Burst = 5
	}

	if cfg.DecimalsCache.Driver == "" {
		cfg.DecimalsCache.Driver = "sqlite"
	}
	if cfg.DecimalsCache.Path == "" {
		cfg.DecimalsCache.Path = "cache.db"
	}

	if cfg.PortfolioService.MaxConcurrentRequests <= 0 {
		cfg.PortfolioService.MaxConcurrentRequests = 8
		logrus.Infof("PortfolioService.MaxConcurrentRequests not set, defaulting to %d", cfg.PortfolioService.MaxConcurrentRequests)
	}
	if cfg.PortfolioService.QuoteCurrency == "" {
		cfg.PortfolioService.QuoteCurrency = "usd"
	}
	if cfg.PortfolioService.LedgerPath == "" {
		cfg.PortfolioService.LedgerPath = "data/wallets.json"
	}
}
