package networkdefinition

import (
	"fmt"
	"sort"
	"strings"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"
)

// Predefined network definitions
var ( //nolint:gochecknoglobals // Global for definitions
	Ethereum = entity.NetworkDefinition{
		ChainID:          1,
		Name:             "Ethereum Mainnet",
		Identifier:       entity.ChainEthereum,
		NativeSymbol:     "ETH",
		NativeAssetID:    "ethereum",
		EndpointTemplate: "https://mainnet.infura.io/v3/{projectID}",
		BlockExplorerURL: "https://etherscan.io",
	}
	Avalanche = entity.NetworkDefinition{
		ChainID:          43114,
		Name:             "Avalanche C-Chain",
		Identifier:       entity.ChainAvalanche,
		NativeSymbol:     "AVAX",
		NativeAssetID:    "avalanche-2",
		EndpointTemplate: "https://api.avax.network/ext/bc/C/rpc",
		BlockExplorerURL: "https://snowtrace.io",
	}
	BSC = entity.NetworkDefinition{
		ChainID:          56,
		Name:             "BNB Smart Chain",
		Identifier:       entity.ChainBinanceSmartChain,
		NativeSymbol:     "BNB",
		NativeAssetID:    "binancecoin",
		EndpointTemplate: "https://bsc-dataseed.binance.org",
		BlockExplorerURL: "https://bscscan.com",
	}
	Polygon = entity.NetworkDefinition{
		ChainID:          137,
		Name:             "Polygon PoS",
		Identifier:       entity.ChainPolygon,
		NativeSymbol:     "MATIC",
		NativeAssetID:    "matic-network",
		EndpointTemplate: "https://polygon-mainnet.infura.io/v3/{projectID}",
		BlockExplorerURL: "https://polygonscan.com",
	}
	Fantom = entity.NetworkDefinition{
		ChainID:          250,
		Name:             "Fantom Opera",
		Identifier:       entity.ChainFantom,
		NativeSymbol:     "FTM",
		NativeAssetID:    "fantom",
		EndpointTemplate: "https://rpc.ftm.tools",
		BlockExplorerURL: "https://ftmscan.com",
	}

	allKnownDefinitions = map[string]entity.NetworkDefinition{
		Ethereum.Identifier:  Ethereum,
		Avalanche.Identifier: Avalanche,
		BSC.Identifier:       BSC,
		Polygon.Identifier:   Polygon,
		Fantom.Identifier:    Fantom,
	}
)

// NetworkDefinitionProvider provides network definitions and their RPC endpoints.
type NetworkDefinitionProvider struct {
	logger          port.Logger
	allNetworkDefs  map[string]entity.NetworkDefinition
	infuraProjectID string
	overrides       map[string]string
}

// NewNetworkDefinitionProvider creates a provider over the built-in chains.
// overrides replaces the endpoint of a chain, keyed by chain identifier.
func NewNetworkDefinitionProvider(log port.Logger, infuraProjectID string, overrides map[string]string) *NetworkDefinitionProvider {
	p := &NetworkDefinitionProvider{
		logger:          log,
		allNetworkDefs:  allKnownDefinitions,
		infuraProjectID: infuraProjectID,
		overrides:       make(map[string]string, len(overrides)),
	}
	for chain, url := range overrides {
		chain = strings.ToLower(strings.TrimSpace(chain))
		if _, ok := p.allNetworkDefs[chain]; !ok {
			p.logger.Warn("Ignoring endpoint override for unknown chain", "chain", chain)
			continue
		}
		p.overrides[chain] = url
	}
	return p
}

// GetAllNetworkDefinitions returns the known network definitions sorted by identifier.
func (p *NetworkDefinitionProvider) GetAllNetworkDefinitions() []entity.NetworkDefinition {
	defs := make([]entity.NetworkDefinition, 0, len(p.allNetworkDefs))
	for _, def := range p.allNetworkDefs {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Identifier < defs[j].Identifier })
	return defs
}

// GetNetworkDefinitionByName returns a specific network definition by its identifier.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByName(identifier string) (entity.NetworkDefinition, bool) {
	def, ok := p.allNetworkDefs[identifier]
	return def, ok
}

// ResolveEndpoint returns the RPC endpoint of a chain.
func (p *NetworkDefinitionProvider) ResolveEndpoint(chain string) (string, error) {
	def, ok := p.allNetworkDefs[chain]
	if !ok {
		return "", &entity.UnsupportedChainError{Chain: chain}
	}
	if url, ok := p.overrides[chain]; ok {
		return url, nil
	}
	if def.NeedsProjectID() {
		if p.infuraProjectID == "" {
			return "", fmt.Errorf("endpoint for %s requires an Infura project id (WEB3_INFURA_PROJECT_ID)", chain)
		}
		return strings.ReplaceAll(def.EndpointTemplate, "{projectID}", p.infuraProjectID), nil
	}
	return def.EndpointTemplate, nil
}

var _ port.NetworkDefinitionProvider = (*NetworkDefinitionProvider)(nil)
