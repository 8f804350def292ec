package entity

// ChainError records a failed position fetch for one chain. A chain contributes
// either positions or a ChainError to an aggregation, never both.
type ChainError struct {
	ChainID uint64 `json:"chainId"`
	Error   string `json:"error"`
}

// AggregationResult is the consolidated outcome of one aggregation call.
// Partial failure is communicated through ChainErrors; the result itself is
// always well-formed.
type AggregationResult struct {
	Positions     []Position   `json:"positions"`
	TotalValueUsd float64      `json:"totalValueUsd"`
	TotalFeesUsd  float64      `json:"totalFeesUsd"`
	ChainErrors   []ChainError `json:"chainErrors"`
}
