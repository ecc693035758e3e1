package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/infrastructure/configloader"
)

// EVMClientProvider implements port.ChainGateway. It dials one client per
// chain on first use and reuses it afterwards.
type EVMClientProvider struct {
	clients           map[string]*EVMClient
	mu                sync.Mutex
	networks          port.NetworkDefinitionProvider
	logger            port.Logger
	connectionTimeout time.Duration
	rpcCallTimeout    time.Duration
}

// NewEVMClientProvider creates a new EVMClientProvider.
func NewEVMClientProvider(networks port.NetworkDefinitionProvider, cfg configloader.Web3Config, logger port.Logger) *EVMClientProvider {
	return &EVMClientProvider{
		clients:           make(map[string]*EVMClient),
		networks:          networks,
		logger:            logger,
		connectionTimeout: time.Duration(cfg.ConnectionTimeoutMs) * time.Millisecond,
		rpcCallTimeout:    time.Duration(cfg.RPCCallTimeoutMs) * time.Millisecond,
	}
}

// Reader returns the contract reader of a chain.
func (p *EVMClientProvider) Reader(ctx context.Context, chain string) (port.ContractReader, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if client, exists := p.clients[chain]; exists {
		return client, nil
	}

	netDef, ok := p.networks.GetNetworkDefinitionByName(chain)
	if !ok {
		return nil, &entity.UnsupportedChainError{Chain: chain}
	}
	rpcURL, err := p.networks.ResolveEndpoint(chain)
	if err != nil {
		return nil, err
	}

	p.logger.Info("Creating new EVM client", "network", chain)
	newClient, err := NewEVMClient(ctx, netDef, rpcURL, p.connectionTimeout, p.rpcCallTimeout, p.logger)
	if err != nil {
		p.logger.Error("Failed to create EVM client", "network", chain, "error", err)
		return nil, fmt.Errorf("failed to create EVM client for %s: %w", chain, err)
	}

	p.clients[chain] = newClient
	return newClient, nil
}

// Close closes every cached client.
func (p *EVMClientProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for chain, c := range p.clients {
		c.Close()
		delete(p.clients, chain)
	}
}

var _ port.ChainGateway = (*EVMClientProvider)(nil)
