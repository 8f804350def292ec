package client

import (
	"fmt"
	"sync"
	"time"

	"position_tracker/internal/app/port"
	"position_tracker/internal/domain/entity"
	"position_tracker/internal/infrastructure/configloader"
)

const defaultProviderConnectionTimeout = 10 * time.Second

// evmClientProvider implements the port.BlockchainClientProvider interface.
type evmClientProvider struct {
	clients           map[uint64]port.BlockchainClient
	mu                sync.Mutex
	logger            port.Logger
	connectionTimeout time.Duration
	rpcCallTimeout    time.Duration
}

// NewEVMClientProvider creates a new EVMClientProvider.
func NewEVMClientProvider(cfg *configloader.Config, l port.Logger) port.BlockchainClientProvider {
	return &evmClientProvider{
		clients:           make(map[uint64]port.BlockchainClient),
		logger:            l,
		connectionTimeout: defaultProviderConnectionTimeout,
		rpcCallTimeout:    time.Duration(cfg.Performance.RPCCallTimeoutSeconds) * time.Second,
	}
}

// GetClient retrieves a blockchain client for the given network definition.
// It caches clients to avoid reconnecting repeatedly.
func (p *evmClientProvider) GetClient(netDef entity.NetworkDefinition) (port.BlockchainClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if existing, exists := p.clients[netDef.ChainID]; exists {
		return existing, nil
	}

	p.logger.Info("Creating new EVM client", "network", netDef.Name, "rpc_primary", netDef.PrimaryRPCURL)
	newClient, err := NewEVMClient(netDef, p.connectionTimeout, p.rpcCallTimeout)
	if err != nil {
		p.logger.Error("Failed to create EVM client", "network", netDef.Name, "error", err)
		return nil, fmt.Errorf("failed to create EVM client for %s: %w", netDef.Name, err)
	}

	p.clients[netDef.ChainID] = newClient
	p.logger.Info("Successfully created and cached new EVM client", "network", netDef.Name)
	return newClient, nil
}
