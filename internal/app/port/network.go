package port

import (
	"context"

	"position_tracker/internal/domain/entity"
)

// BlockchainClient defines the interface for interacting with a blockchain network.
// Implementations will be specific to network types (e.g., EVM).
type BlockchainClient interface {
	// GetTokenMetadata resolves ERC-20 symbol and decimals for the given token
	// addresses in one batched call. Tokens that fail to resolve are simply
	// absent from the returned map.
	GetTokenMetadata(ctx context.Context, tokenAddresses []string) (map[string]entity.TokenMetadata, error)

	// Definition returns the network definition associated with this client.
	Definition() entity.NetworkDefinition
}

// NetworkDefinitionProvider defines the interface for providing network definitions.
type NetworkDefinitionProvider interface {
	// GetAllNetworkDefinitions returns all supported network definitions as a slice.
	GetAllNetworkDefinitions() []entity.NetworkDefinition

	// GetNetworkDefinitionByChainID returns the definition for a chain id and
	// true if the chain is supported, otherwise false.
	GetNetworkDefinitionByChainID(chainID uint64) (entity.NetworkDefinition, bool)
}

// BlockchainClientProvider defines the interface for providing blockchain clients.
type BlockchainClientProvider interface {
	GetClient(networkDefinition entity.NetworkDefinition) (BlockchainClient, error)
}
