package entity

// PriceEntry is a cached USD price fact for a single token address.
// TokenAddress is stored lowercased; it is the canonical cache key.
type PriceEntry struct {
	TokenAddress string
	Symbol       string
	PriceUsd     float64
	FetchedAt    int64 // unix epoch milliseconds
}
