package port

import (
	"context"
	"math/big"

	"portfolio_tracker/internal/domain/entity"
)

// ContractReader performs read-only calls against ERC20-like contracts on one chain.
type ContractReader interface {
	// ReadContractMethod calls a view method and returns its unpacked outputs.
	// Failures are returned as *entity.RemoteCallError.
	ReadContractMethod(ctx context.Context, contractAddress string, method string, args ...any) ([]any, error)

	// ReadUint calls a view method returning a single uint256. On failure it logs
	// and returns fallback.
	ReadUint(ctx context.Context, contractAddress string, method string, fallback *big.Int, args ...any) *big.Int

	// Definition returns the network definition associated with this reader.
	Definition() entity.NetworkDefinition
}

// NetworkDefinitionProvider resolves chain identifiers to network definitions and endpoints.
type NetworkDefinitionProvider interface {
	GetAllNetworkDefinitions() []entity.NetworkDefinition

	// GetNetworkDefinitionByName returns the definition and true when the chain is known.
	GetNetworkDefinitionByName(identifier string) (entity.NetworkDefinition, bool)

	// ResolveEndpoint returns the RPC URL of a chain or *entity.UnsupportedChainError.
	ResolveEndpoint(chain string) (string, error)
}

// ChainGateway hands out contract readers, one per chain.
type ChainGateway interface {
	Reader(ctx context.Context, chain string) (ContractReader, error)
}
