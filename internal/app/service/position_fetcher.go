package service

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"position_tracker/internal/app/port"
	"position_tracker/internal/client"
	"position_tracker/internal/domain/entity"
	providerentity "position_tracker/internal/entity"
	"position_tracker/internal/pkg/utils"
)

// maxTick bounds the usable tick space of the AMM's pricing curve.
const maxTick = 887272

// chainPositionFetcherImpl implements port.ChainPositionFetcher on top of the
// position-data provider plus on-chain metadata resolution.
type chainPositionFetcherImpl struct {
	positionsClient client.PositionAPIClient
	networkProvider port.NetworkDefinitionProvider
	clientProvider  port.BlockchainClientProvider
	logger          port.Logger
}

// NewChainPositionFetcher creates a new instance of chainPositionFetcherImpl.
func NewChainPositionFetcher(
	pc client.PositionAPIClient,
	np port.NetworkDefinitionProvider,
	cp port.BlockchainClientProvider,
	l port.Logger,
) port.ChainPositionFetcher {
	return &chainPositionFetcherImpl{
		positionsClient: pc,
		networkProvider: np,
		clientProvider:  cp,
		logger:          l,
	}
}

// Fetch implements port.ChainPositionFetcher. Every failure it returns is
// scoped to the requested chain; the caller records it and moves on.
func (f *chainPositionFetcherImpl) Fetch(ctx context.Context, walletAddress string, chainID uint64) ([]entity.Position, error) {
	netDef, ok := f.networkProvider.GetNetworkDefinitionByChainID(chainID)
	if !ok {
		return nil, fmt.Errorf("unsupported chain id %d", chainID)
	}

	raws, err := f.positionsClient.GetWalletPositions(ctx, netDef.Identifier, walletAddress)
	if err != nil {
		return nil, fmt.Errorf("position fetch failed for %s: %w", netDef.Name, err)
	}
	if len(raws) == 0 {
		// A wallet with no positions on this chain is a valid outcome.
		return []entity.Position{}, nil
	}

	tokenMeta, err := f.resolveTokenMetadata(ctx, netDef, raws)
	if err != nil {
		return nil, fmt.Errorf("token metadata resolution failed for %s: %w", netDef.Name, err)
	}

	positions := make([]entity.Position, 0, len(raws))
	for _, raw := range raws {
		position, err := f.buildPosition(raw, chainID, tokenMeta)
		if err != nil {
			return nil, fmt.Errorf("malformed position record from %s provider: %w", netDef.Name, err)
		}
		positions = append(positions, position)
	}

	f.logger.Debug("Fetched positions for chain",
		"chain_id", chainID, "wallet", walletAddress, "count", len(positions))
	return positions, nil
}

// resolveTokenMetadata collects the distinct token addresses referenced by the
// raw records and resolves their symbol/decimals through the chain's RPC client.
func (f *chainPositionFetcherImpl) resolveTokenMetadata(
	ctx context.Context,
	netDef entity.NetworkDefinition,
	raws []providerentity.RawPosition,
) (map[string]entity.TokenMetadata, error) {
	seen := make(map[string]struct{}, len(raws)*2)
	var addresses []string
	for _, raw := range raws {
		for _, addr := range []string{strings.ToLower(raw.Token0), strings.ToLower(raw.Token1)} {
			if _, ok := seen[addr]; ok {
				continue
			}
			seen[addr] = struct{}{}
			addresses = append(addresses, addr)
		}
	}

	bcClient, err := f.clientProvider.GetClient(netDef)
	if err != nil {
		return nil, err
	}
	return bcClient.GetTokenMetadata(ctx, addresses)
}

// buildPosition converts a raw provider record into a domain Position.
// Valuation here is deliberately approximate: the pooled liquidity is split
// 50/50 between the two assets. Exact tick-range valuation is a future
// refinement, not a requirement of this stage.
func (f *chainPositionFetcherImpl) buildPosition(
	raw providerentity.RawPosition,
	chainID uint64,
	tokenMeta map[string]entity.TokenMetadata,
) (entity.Position, error) {
	liquidity, ok := new(big.Int).SetString(raw.Liquidity, 10)
	if !ok || liquidity.Sign() < 0 {
		return entity.Position{}, fmt.Errorf("invalid liquidity %q for position %s", raw.Liquidity, raw.TokenID)
	}
	if raw.TickLower < -maxTick || raw.TickUpper > maxTick || raw.TickLower > raw.TickUpper {
		return entity.Position{}, fmt.Errorf("tick range [%d, %d] out of bounds for position %s", raw.TickLower, raw.TickUpper, raw.TokenID)
	}

	token0Addr := strings.ToLower(raw.Token0)
	token1Addr := strings.ToLower(raw.Token1)
	half := new(big.Int).Div(liquidity, big.NewInt(2))

	leg0 := f.buildLeg(token0Addr, half, tokenMeta)
	leg1 := f.buildLeg(token1Addr, half, tokenMeta)

	feesUsd := raw.FeesUsd
	if feesUsd < 0 {
		feesUsd = 0
	}

	return entity.Position{
		TokenID:     raw.TokenID,
		ChainID:     chainID,
		PoolAddress: fmt.Sprintf("%s-%s", token0Addr, token1Addr),
		Token0:      leg0,
		Token1:      leg1,
		Liquidity:   liquidity.String(),
		TickLower:   raw.TickLower,
		TickUpper:   raw.TickUpper,
		FeesUsd:     feesUsd,
	}, nil
}

func (f *chainPositionFetcherImpl) buildLeg(tokenAddr string, rawAmount *big.Int, tokenMeta map[string]entity.TokenMetadata) entity.AssetLeg {
	meta, ok := tokenMeta[tokenAddr]
	if !ok {
		f.logger.Warn("Token metadata unavailable, assuming 18 decimals", "token_address", tokenAddr)
		meta = entity.TokenMetadata{Address: tokenAddr, Decimals: 18}
	}
	return entity.AssetLeg{
		TokenAddress: tokenAddr,
		Symbol:       meta.Symbol,
		Amount:       utils.FormatBigInt(rawAmount, meta.Decimals),
		Decimals:     meta.Decimals,
	}
}
