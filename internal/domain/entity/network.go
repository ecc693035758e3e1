package entity

import (
	"fmt"
	"strings"
)

// Supported chain identifiers. They double as CoinGecko asset platform ids.
const (
	ChainEthereum          = "ethereum"
	ChainAvalanche         = "avalanche"
	ChainBinanceSmartChain = "binance-smart-chain"
	ChainPolygon           = "polygon-pos"
	ChainFantom            = "fantom"
)

// NetworkDefinition holds the static description of a supported chain.
type NetworkDefinition struct {
	ChainID      uint64 `json:"chainId" yaml:"chainId"`
	Name         string `json:"name" yaml:"name"`
	Identifier   string `json:"identifier" yaml:"identifier"`
	NativeSymbol string `json:"nativeSymbol" yaml:"nativeSymbol"`
	// NativeAssetID is the price oracle id of the native asset.
	NativeAssetID string `json:"nativeAssetId" yaml:"nativeAssetId"`
	// EndpointTemplate may contain {projectID}, replaced with the Infura project id.
	EndpointTemplate string `json:"endpointTemplate" yaml:"endpointTemplate"`
	BlockExplorerURL string `json:"blockExplorerUrl,omitempty" yaml:"blockExplorerUrl,omitempty"`
}

// NeedsProjectID reports whether the endpoint template requires an Infura project id.
func (d NetworkDefinition) NeedsProjectID() bool {
	return strings.Contains(d.EndpointTemplate, "{projectID}")
}

// QuoteCurrency is the currency a price is expressed in.
type QuoteCurrency string

const (
	QuoteBTC QuoteCurrency = "btc"
	QuoteETH QuoteCurrency = "eth"
	QuoteUSD QuoteCurrency = "usd"
)

// ParseQuoteCurrency validates a quote currency code. An empty code means usd.
func ParseQuoteCurrency(code string) (QuoteCurrency, error) {
	switch q := QuoteCurrency(strings.ToLower(strings.TrimSpace(code))); q {
	case "":
		return QuoteUSD, nil
	case QuoteBTC, QuoteETH, QuoteUSD:
		return q, nil
	default:
		return "", &ValidationError{Problems: []string{fmt.Sprintf("currency: %q is not one of btc, eth, usd", code)}}
	}
}
