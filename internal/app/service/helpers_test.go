package service

import (
	"context"
	"sync"

	"position_tracker/internal/app/port"
	"position_tracker/internal/domain/entity"
	providerentity "position_tracker/internal/entity"
)

// nopLogger discards everything; tests assert on behavior, not log output.
type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// fakePricingAPIClient records every GetQuotes call and replays canned data.
type fakePricingAPIClient struct {
	mu        sync.Mutex
	calls     []pricingCall
	quotes    map[string]providerentity.PriceData
	err       error
	callCount int
}

type pricingCall struct {
	platform  string
	addresses []string
}

func (f *fakePricingAPIClient) GetQuotes(_ context.Context, platform string, tokenAddresses []string) (map[string]providerentity.PriceData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callCount++
	f.calls = append(f.calls, pricingCall{platform: platform, addresses: append([]string(nil), tokenAddresses...)})
	if f.err != nil {
		return nil, f.err
	}
	return f.quotes, nil
}

func quoteFor(symbol string, price float64) providerentity.PriceData {
	return providerentity.PriceData{
		Symbol: symbol,
		Quote:  map[string]providerentity.PriceQuote{"USD": {Price: price}},
	}
}

// fakePositionAPIClient serves canned raw positions keyed by chain identifier.
type fakePositionAPIClient struct {
	positions map[string][]providerentity.RawPosition
	errs      map[string]error
}

func (f *fakePositionAPIClient) GetWalletPositions(_ context.Context, chainIdentifier string, _ string) ([]providerentity.RawPosition, error) {
	if err, ok := f.errs[chainIdentifier]; ok {
		return nil, err
	}
	return f.positions[chainIdentifier], nil
}

// fakeBlockchainClient resolves metadata from a static map.
type fakeBlockchainClient struct {
	definition entity.NetworkDefinition
	metadata   map[string]entity.TokenMetadata
	err        error
}

func (f *fakeBlockchainClient) GetTokenMetadata(_ context.Context, tokenAddresses []string) (map[string]entity.TokenMetadata, error) {
	if f.err != nil {
		return nil, f.err
	}
	resolved := make(map[string]entity.TokenMetadata, len(tokenAddresses))
	for _, addr := range tokenAddresses {
		if meta, ok := f.metadata[addr]; ok {
			resolved[addr] = meta
		}
	}
	return resolved, nil
}

func (f *fakeBlockchainClient) Definition() entity.NetworkDefinition {
	return f.definition
}

// fakeClientProvider hands out one shared fake client for every network.
type fakeClientProvider struct {
	client *fakeBlockchainClient
	err    error
}

func (f *fakeClientProvider) GetClient(def entity.NetworkDefinition) (port.BlockchainClient, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.client.definition = def
	return f.client, nil
}

// fakeChainFetcher settles each chain from canned outcomes and records which
// chains were asked for.
type fakeChainFetcher struct {
	mu        sync.Mutex
	positions map[uint64][]entity.Position
	errs      map[uint64]error
	fetched   []uint64
}

func (f *fakeChainFetcher) Fetch(_ context.Context, _ string, chainID uint64) ([]entity.Position, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, chainID)
	f.mu.Unlock()
	if err, ok := f.errs[chainID]; ok {
		return nil, err
	}
	if positions, ok := f.positions[chainID]; ok {
		return positions, nil
	}
	return []entity.Position{}, nil
}

// fakePricingService resolves prices from per-chain maps; unknown addresses
// resolve to zero, mirroring the degraded contract of the real service.
type fakePricingService struct {
	mu            sync.Mutex
	pricesByChain map[uint64]map[string]float64
	requests      map[uint64][][]string
}

func (f *fakePricingService) GetTokenPrices(_ context.Context, addresses []string, chainID uint64) map[string]float64 {
	f.mu.Lock()
	if f.requests == nil {
		f.requests = make(map[uint64][][]string)
	}
	f.requests[chainID] = append(f.requests[chainID], append([]string(nil), addresses...))
	f.mu.Unlock()

	prices := make(map[string]float64, len(addresses))
	for _, addr := range addresses {
		prices[addr] = f.pricesByChain[chainID][addr]
	}
	return prices
}
