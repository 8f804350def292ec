package port

import (
	"context"

	"position_tracker/internal/domain/entity"
)

// ChainPositionFetcher fetches the liquidity positions of a wallet on a single
// chain. A failed fetch is scoped to that chain; implementations must not let
// one chain's fault affect sibling fetches. A wallet with no positions on the
// chain yields an empty slice, not an error.
type ChainPositionFetcher interface {
	Fetch(ctx context.Context, walletAddress string, chainID uint64) ([]entity.Position, error)
}

// PositionAggregator consolidates a wallet's positions across chains.
// chainID narrows the aggregation to a single chain when non-nil; otherwise
// the full supported chain set is queried. The returned error is reserved for
// unexpected internal faults; per-chain failures are reported inside the
// result's ChainErrors, never as an error.
type PositionAggregator interface {
	GetPositions(ctx context.Context, walletAddress string, chainID *uint64) (entity.AggregationResult, error)
}
