package port

import "context"

// PricingService resolves USD prices for a set of token addresses on one chain.
// The returned map is keyed by lowercased address and always contains every
// requested address; a price of 0 means "no data". Pricing is best-effort
// enrichment: remote failures degrade to zero prices instead of erroring.
type PricingService interface {
	GetTokenPrices(ctx context.Context, addresses []string, chainID uint64) map[string]float64
}
