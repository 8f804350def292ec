package entity

// AssetLeg describes one side of a liquidity position.
type AssetLeg struct {
	TokenAddress string  `json:"tokenAddress"`
	Symbol       string  `json:"symbol"`
	Amount       string  `json:"amount"` // decimal string, already scaled by token decimals
	Decimals     uint8   `json:"decimals"`
	UsdValue     float64 `json:"usdValue"`
}

// Position represents a single liquidity position held by a wallet on one chain.
// Liquidity is kept as a string because raw pool liquidity can exceed the safe
// integer range of a float64.
type Position struct {
	TokenID       string   `json:"tokenId"`
	ChainID       uint64   `json:"chainId"`
	PoolAddress   string   `json:"poolAddress"`
	Token0        AssetLeg `json:"token0"`
	Token1        AssetLeg `json:"token1"`
	Liquidity     string   `json:"liquidity"`
	TickLower     int32    `json:"tickLower"`
	TickUpper     int32    `json:"tickUpper"`
	FeesUsd       float64  `json:"feesUsd"`
	TotalValueUsd float64  `json:"totalValueUsd"`
}
