package service

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"position_tracker/internal/app/port"
	"position_tracker/internal/domain/entity"
	"position_tracker/internal/pkg/metrics"
	"position_tracker/internal/pkg/utils"
)

// feeEstimateRate is the flat fee estimate applied when the position provider
// reports no accrued fees. Placeholder until exact tick-range valuation lands.
const feeEstimateRate = 0.01

// positionAggregatorImpl implements port.PositionAggregator.
type positionAggregatorImpl struct {
	fetcher         port.ChainPositionFetcher
	pricing         port.PricingService
	networkProvider port.NetworkDefinitionProvider
	logger          port.Logger
	maxConcurrent   int
}

// NewPositionAggregator creates a new instance of positionAggregatorImpl.
func NewPositionAggregator(
	fetcher port.ChainPositionFetcher,
	pricing port.PricingService,
	np port.NetworkDefinitionProvider,
	l port.Logger,
	maxConcurrent int,
) port.PositionAggregator {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &positionAggregatorImpl{
		fetcher:         fetcher,
		pricing:         pricing,
		networkProvider: np,
		logger:          l,
		maxConcurrent:   maxConcurrent,
	}
}

// chainOutcome holds the settled result of one chain's fetch.
type chainOutcome struct {
	chainID   uint64
	positions []entity.Position
	err       error
}

// GetPositions implements port.PositionAggregator. Chain fetches run
// concurrently and settle independently; a failed chain lands in ChainErrors
// while the remaining chains contribute positions. Pricing runs after every
// fetch has settled, one batched request per chain.
func (s *positionAggregatorImpl) GetPositions(ctx context.Context, walletAddress string, chainID *uint64) (entity.AggregationResult, error) {
	chainSet := s.resolveChainSet(chainID)
	s.logger.Debug("Aggregating positions", "wallet", walletAddress, "chain_count", len(chainSet))

	outcomes := make([]chainOutcome, len(chainSet))

	g := new(errgroup.Group)
	g.SetLimit(s.maxConcurrent)
	for i, cid := range chainSet {
		g.Go(func() error {
			start := time.Now()
			positions, err := s.fetcher.Fetch(ctx, walletAddress, cid)
			chainLabel := strconv.FormatUint(cid, 10)
			metrics.ChainFetchDuration.WithLabelValues(chainLabel).Observe(time.Since(start).Seconds())
			if err != nil {
				metrics.ChainFetchErrors.WithLabelValues(chainLabel).Inc()
			}
			outcomes[i] = chainOutcome{chainID: cid, positions: positions, err: err}
			// Failures are captured as data; returning nil keeps sibling
			// fetches running.
			return nil
		})
	}
	_ = g.Wait()

	result := entity.AggregationResult{
		Positions:   []entity.Position{},
		ChainErrors: []entity.ChainError{},
	}
	for _, outcome := range outcomes {
		if outcome.err != nil {
			s.logger.Warn("Chain fetch failed",
				"wallet", walletAddress, "chain_id", outcome.chainID, "error", outcome.err)
			result.ChainErrors = append(result.ChainErrors, entity.ChainError{
				ChainID: outcome.chainID,
				Error:   outcome.err.Error(),
			})
			continue
		}
		result.Positions = append(result.Positions, outcome.positions...)
	}

	s.enrichWithPrices(ctx, &result)

	s.logger.Info("Aggregation finished",
		"wallet", walletAddress,
		"positions", len(result.Positions),
		"chain_errors", len(result.ChainErrors),
		"total_value_usd", result.TotalValueUsd)
	return result, nil
}

// resolveChainSet narrows to the requested chain or expands to the full
// supported set. An unsupported requested chain is still queried so the
// fetcher can surface it as a chain-scoped error instead of a crash.
func (s *positionAggregatorImpl) resolveChainSet(chainID *uint64) []uint64 {
	if chainID != nil {
		return []uint64{*chainID}
	}
	defs := s.networkProvider.GetAllNetworkDefinitions()
	chainSet := make([]uint64, 0, len(defs))
	for _, def := range defs {
		chainSet = append(chainSet, def.ChainID)
	}
	return chainSet
}

// enrichWithPrices resolves USD prices per chain batch and recomputes each
// position's leg values and totals. Fees reported by the provider are carried
// through unchanged; positions without reported fees get the flat estimate.
func (s *positionAggregatorImpl) enrichWithPrices(ctx context.Context, result *entity.AggregationResult) {
	addressesByChain := make(map[uint64][]string)
	seenByChain := make(map[uint64]map[string]struct{})
	for i := range result.Positions {
		p := &result.Positions[i]
		seen, ok := seenByChain[p.ChainID]
		if !ok {
			seen = make(map[string]struct{})
			seenByChain[p.ChainID] = seen
		}
		for _, addr := range []string{p.Token0.TokenAddress, p.Token1.TokenAddress} {
			if _, dup := seen[addr]; dup {
				continue
			}
			seen[addr] = struct{}{}
			addressesByChain[p.ChainID] = append(addressesByChain[p.ChainID], addr)
		}
	}

	pricesByChain := make(map[uint64]map[string]float64, len(addressesByChain))
	for cid, addresses := range addressesByChain {
		pricesByChain[cid] = s.pricing.GetTokenPrices(ctx, addresses, cid)
	}

	var totalValue, totalFees float64
	for i := range result.Positions {
		p := &result.Positions[i]
		prices := pricesByChain[p.ChainID]

		p.Token0.UsdValue = utils.MulAmountPrice(p.Token0.Amount, prices[p.Token0.TokenAddress])
		p.Token1.UsdValue = utils.MulAmountPrice(p.Token1.Amount, prices[p.Token1.TokenAddress])
		p.TotalValueUsd = p.Token0.UsdValue + p.Token1.UsdValue
		if p.FeesUsd == 0 {
			p.FeesUsd = p.TotalValueUsd * feeEstimateRate
		}

		totalValue += p.TotalValueUsd
		totalFees += p.FeesUsd
	}
	result.TotalValueUsd = totalValue
	result.TotalFeesUsd = totalFees
}
