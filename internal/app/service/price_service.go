package service

import (
	"context"
	"strings"
	"time"

	"position_tracker/internal/app/port"
	"position_tracker/internal/client"
	"position_tracker/internal/domain/entity"
	"position_tracker/internal/pkg/metrics"
	"position_tracker/internal/pkg/pricecache"
)

// defaultPricingPlatform is used for chains that have no direct platform
// mapping at the pricing provider (currently Unichain).
const defaultPricingPlatform = "ethereum"

// pricingServiceImpl implements port.PricingService.
type pricingServiceImpl struct {
	apiClient       client.PricingAPIClient
	cache           *pricecache.Cache
	networkProvider port.NetworkDefinitionProvider
	logger          port.Logger
	apiKeySet       bool
}

// NewPricingService creates a new instance of pricingServiceImpl.
func NewPricingService(
	apiClient client.PricingAPIClient,
	cache *pricecache.Cache,
	np port.NetworkDefinitionProvider,
	l port.Logger,
	apiKeySet bool,
) port.PricingService {
	return &pricingServiceImpl{
		apiClient:       apiClient,
		cache:           cache,
		networkProvider: np,
		logger:          l,
		apiKeySet:       apiKeySet,
	}
}

// GetTokenPrices implements port.PricingService. Addresses are deduplicated
// and lowercased, cache hits are served immediately and the remaining misses
// are batched into a single remote request. Every failure path degrades to a
// price of 0 for the affected addresses; the call itself never fails.
func (s *pricingServiceImpl) GetTokenPrices(ctx context.Context, addresses []string, chainID uint64) map[string]float64 {
	prices := make(map[string]float64, len(addresses))
	var misses []string

	for _, addr := range addresses {
		key := strings.ToLower(addr)
		if _, done := prices[key]; done {
			continue
		}
		if cached, found := s.cache.Lookup(key); found {
			prices[key] = cached.PriceUsd
			metrics.PriceCacheHits.Inc()
			continue
		}
		metrics.PriceCacheMisses.Inc()
		prices[key] = 0
		misses = append(misses, key)
	}

	if len(misses) == 0 {
		return prices
	}

	if !s.apiKeySet {
		s.logger.Debug("No pricing credential configured, skipping remote price fetch",
			"chain_id", chainID, "miss_count", len(misses))
		metrics.PricingRequests.WithLabelValues("skipped").Inc()
		return prices
	}

	platform := s.platformForChain(chainID)
	quotes, err := s.apiClient.GetQuotes(ctx, platform, misses)
	if err != nil {
		s.logger.Warn("Remote price fetch failed, resolving misses to zero",
			"chain_id", chainID, "platform", platform, "miss_count", len(misses), "error", err)
		metrics.PricingRequests.WithLabelValues("error").Inc()
		return prices
	}
	metrics.PricingRequests.WithLabelValues("success").Inc()

	now := time.Now().UnixMilli()
	for _, addr := range misses {
		data, ok := quotes[addr]
		if !ok {
			// Not cached on purpose: "no data yet" must be retried on the
			// next call, unlike a cached zero would be.
			s.logger.Debug("Pricing provider returned no data for address",
				"chain_id", chainID, "token_address", addr)
			continue
		}
		usd, ok := data.Quote["USD"]
		if !ok {
			continue
		}
		prices[addr] = usd.Price
		s.cache.Store(addr, entity.PriceEntry{
			Symbol:    data.Symbol,
			PriceUsd:  usd.Price,
			FetchedAt: now,
		})
	}

	return prices
}

// platformForChain translates a chain id into the pricing provider's platform
// taxonomy, falling back to defaultPricingPlatform for chains without a
// direct mapping.
func (s *pricingServiceImpl) platformForChain(chainID uint64) string {
	if def, ok := s.networkProvider.GetNetworkDefinitionByChainID(chainID); ok && def.PricingPlatform != "" {
		return def.PricingPlatform
	}
	s.logger.Debug("No pricing platform mapping for chain, using default",
		"chain_id", chainID, "default_platform", defaultPricingPlatform)
	return defaultPricingPlatform
}
