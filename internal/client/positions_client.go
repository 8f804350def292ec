package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"position_tracker/internal/entity"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// PositionAPIClient defines the interface for the position-data provider.
// One query per chain, parameterized by wallet address.
type PositionAPIClient interface {
	GetWalletPositions(ctx context.Context, chainIdentifier string, walletAddress string) ([]entity.RawPosition, error)
}

// positionAPIClientImpl is the implementation of PositionAPIClient.
type positionAPIClientImpl struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// NewPositionAPIClient creates a new instance of positionAPIClientImpl.
func NewPositionAPIClient(baseURL string, timeout time.Duration, logger *zap.Logger) PositionAPIClient {
	return &positionAPIClientImpl{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		logger:  logger.Named("PositionAPIClient"),
	}
}

// GetWalletPositions implements the PositionAPIClient interface.
func (c *positionAPIClientImpl) GetWalletPositions(ctx context.Context, chainIdentifier string, walletAddress string) ([]entity.RawPosition, error) {
	if chainIdentifier == "" {
		return nil, fmt.Errorf("chainIdentifier cannot be empty")
	}

	requestURL := fmt.Sprintf("%s/v1/positions/%s/%s", c.baseURL, chainIdentifier, strings.ToLower(walletAddress))

	c.logger.Debug("Requesting wallet positions from provider",
		zap.String("chain", chainIdentifier),
		zap.String("wallet", walletAddress))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			c.logger.Error("Failed to execute request to position provider", zap.String("chain", chainIdentifier), zap.Error(err))
			return nil, fmt.Errorf("failed to execute position request for %s: %w", chainIdentifier, err)
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			c.logger.Error("Failed to execute request to position provider (with default timeout)", zap.String("chain", chainIdentifier), zap.Error(err))
			return nil, fmt.Errorf("failed to execute position request for %s with default timeout: %w", chainIdentifier, err)
		}
	}

	rawBody := resp.Body()

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Position provider request failed",
			zap.String("chain", chainIdentifier),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody))
		return nil, fmt.Errorf("position provider request for %s failed with status %d: %s", chainIdentifier, resp.StatusCode(), string(rawBody))
	}

	// The provider has shipped both a wrapped object and a bare array over
	// time; accept either shape.
	var wrapped entity.PositionsResponse
	if err := json.Unmarshal(rawBody, &wrapped); err == nil && wrapped.Positions != nil {
		c.logger.Debug("Successfully unmarshalled position response (wrapped object)",
			zap.String("chain", chainIdentifier),
			zap.Int("positionCount", len(wrapped.Positions)))
		return wrapped.Positions, nil
	}

	var direct []entity.RawPosition
	if err := json.Unmarshal(rawBody, &direct); err != nil {
		c.logger.Error("Failed to unmarshal position provider response",
			zap.String("chain", chainIdentifier),
			zap.ByteString("responseBody", rawBody),
			zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal position response for %s: %w", chainIdentifier, err)
	}

	c.logger.Debug("Successfully unmarshalled position response (direct array)",
		zap.String("chain", chainIdentifier),
		zap.Int("positionCount", len(direct)))
	return direct, nil
}
