package networkdefinition

import (
	"position_tracker/internal/app/port"
	"position_tracker/internal/domain/entity"
)

// NetworkDefinitionProvider provides the supported network definitions.
type NetworkDefinitionProvider struct {
	logger         port.Logger
	byChainID      map[uint64]entity.NetworkDefinition
	allDefinitions []entity.NetworkDefinition
}

// Predefined network definitions
var ( //nolint:gochecknoglobals // Global for definitions
	Ethereum = entity.NetworkDefinition{
		ChainID:          1,
		Name:             "Ethereum Mainnet",
		Identifier:       "ethereum",
		PricingPlatform:  "ethereum",
		PrimaryRPCURL:    "https://ethereum-rpc.publicnode.com",
		FallbackRPCURLs:  []string{"https://rpc.ankr.com/eth", "https://ethereum.publicnode.com"},
		BlockExplorerURL: "https://etherscan.io",
	}
	BSC = entity.NetworkDefinition{
		ChainID:          56,
		Name:             "BNB Smart Chain",
		Identifier:       "bsc",
		PricingPlatform:  "bsc",
		PrimaryRPCURL:    "https://1rpc.io/bnb",
		FallbackRPCURLs:  []string{"https://bsc-dataseed2.binance.org/", "https://bsc.publicnode.com"},
		BlockExplorerURL: "https://bscscan.com",
	}
	Base = entity.NetworkDefinition{
		ChainID:          8453,
		Name:             "Base Mainnet",
		Identifier:       "base",
		PricingPlatform:  "base",
		PrimaryRPCURL:    "https://1rpc.io/base",
		FallbackRPCURLs:  []string{"https://base.publicnode.com", "https://base.llamarpc.com"},
		BlockExplorerURL: "https://basescan.org",
	}
	Arbitrum = entity.NetworkDefinition{
		ChainID:          42161,
		Name:             "Arbitrum One",
		Identifier:       "arbitrum",
		PricingPlatform:  "arbitrum",
		PrimaryRPCURL:    "https://arb1.arbitrum.io/rpc",
		FallbackRPCURLs:  []string{"https://arbitrum.llamarpc.com", "https://arbitrum.publicnode.com"},
		BlockExplorerURL: "https://arbiscan.io",
	}
	// Unichain has no dedicated platform slug at the pricing provider yet;
	// an empty PricingPlatform makes the pricing service fall back to the
	// default platform.
	Unichain = entity.NetworkDefinition{
		ChainID:          1301,
		Name:             "Unichain",
		Identifier:       "unichain",
		PricingPlatform:  "",
		PrimaryRPCURL:    "https://sepolia.unichain.org",
		FallbackRPCURLs:  []string{"https://unichain-sepolia.drpc.org"},
		BlockExplorerURL: "https://sepolia.uniscan.xyz",
	}
)

// NewNetworkDefinitionProvider creates a provider over the fixed supported set.
func NewNetworkDefinitionProvider(l port.Logger) port.NetworkDefinitionProvider {
	all := []entity.NetworkDefinition{Ethereum, BSC, Base, Arbitrum, Unichain}
	byID := make(map[uint64]entity.NetworkDefinition, len(all))
	for _, def := range all {
		byID[def.ChainID] = def
	}
	return &NetworkDefinitionProvider{
		logger:         l,
		byChainID:      byID,
		allDefinitions: all,
	}
}

// GetAllNetworkDefinitions returns all supported network definitions.
func (p *NetworkDefinitionProvider) GetAllNetworkDefinitions() []entity.NetworkDefinition {
	defs := make([]entity.NetworkDefinition, len(p.allDefinitions))
	copy(defs, p.allDefinitions)
	return defs
}

// GetNetworkDefinitionByChainID returns the definition for a chain id, if supported.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByChainID(chainID uint64) (entity.NetworkDefinition, bool) {
	def, ok := p.byChainID[chainID]
	return def, ok
}
