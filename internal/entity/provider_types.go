package entity

// RawPosition is a single position record as returned by the position-data provider.
// Token amounts are not part of the payload; they are derived from Liquidity.
type RawPosition struct {
	TokenID   string  `json:"tokenId"`
	Token0    string  `json:"token0"`
	Token1    string  `json:"token1"`
	Liquidity string  `json:"liquidity"`
	TickLower int32   `json:"tickLower"`
	TickUpper int32   `json:"tickUpper"`
	FeesUsd   float64 `json:"feesUsd,omitempty"` // optional provider-reported accrued fees
}

// PositionsResponse wraps the provider's per-wallet position listing.
type PositionsResponse struct {
	Positions []RawPosition `json:"positions"`
}

// PriceQuote is a single fiat quote inside a pricing provider entry.
type PriceQuote struct {
	Price float64 `json:"price"`
}

// PriceData is the pricing provider's per-token entry, keyed by quote currency.
type PriceData struct {
	Symbol string                `json:"symbol"`
	Quote  map[string]PriceQuote `json:"quote"`
}

// PricesResponse is the pricing provider's batched response, keyed by token address.
type PricesResponse struct {
	Status struct {
		ErrorCode    int    `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	} `json:"status"`
	Data map[string]PriceData `json:"data"`
}
