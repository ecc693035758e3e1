package configloader

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// LoadDotEnv loads variables from the given .env files (".env" when none are
// given) into the process environment. Missing files are ignored.
func LoadDotEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		logrus.Debugf("No .env file loaded: %v", err)
	}
}

// GetEnv returns the value of an environment variable or a default value.
func GetEnv(lookup func(string) (string, bool), key, defaultValue string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v := GetEnv(lookup, "WEB3_INFURA_PROJECT_ID", ""); v != "" {
		cfg.Web3.InfuraProjectID = v
	}
	if v := GetEnv(lookup, "PORT", ""); v != "" {
		if !strings.Contains(v, ":") {
			v = ":" + v
		}
		cfg.Server.Port = v
	}
	if v := GetEnv(lookup, "COINGECKO_API_KEY", ""); v != "" {
		cfg.CoinGecko.APIKey = v
	}
	if v := GetEnv(lookup, "DECIMALS_DB", ""); v != "" {
		cfg.DecimalsCache.Path = v
	}
	if v := GetEnv(lookup, "LOG_LEVEL", ""); v != "" {
		cfg.Logging.Level = v
	}
}
