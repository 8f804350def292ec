package entity

// TokenMetadata holds the on-chain ERC-20 metadata for a token.
type TokenMetadata struct {
	Address  string
	Symbol   string
	Decimals uint8
}
