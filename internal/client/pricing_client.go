package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"position_tracker/internal/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// PricingAPIClient defines the interface for the remote pricing provider.
// Quotes are requested in one batched call per invocation, keyed by a
// comma-joined address list and a platform identifier.
type PricingAPIClient interface {
	GetQuotes(ctx context.Context, platform string, tokenAddresses []string) (map[string]entity.PriceData, error)
}

// pricingAPIClientImpl is the implementation of PricingAPIClient.
type pricingAPIClientImpl struct {
	client              *fasthttp.Client
	baseURL             string
	apiKey              string
	timeout             time.Duration
	limiter             *rate.Limiter
	logger              *zap.Logger
	maxTokensPerRequest int
}

// NewPricingAPIClient creates a new instance of pricingAPIClientImpl.
func NewPricingAPIClient(baseURL, apiKey string, timeout time.Duration, requestsPerSecond float64, logger *zap.Logger, maxTokensPerRequest int) PricingAPIClient {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 5
	}
	return &pricingAPIClientImpl{
		client:              &fasthttp.Client{},
		baseURL:             strings.TrimRight(baseURL, "/"),
		apiKey:              apiKey,
		timeout:             timeout,
		limiter:             rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		logger:              logger.Named("PricingAPIClient"),
		maxTokensPerRequest: maxTokensPerRequest,
	}
}

// GetQuotes implements the PricingAPIClient interface.
func (c *pricingAPIClientImpl) GetQuotes(ctx context.Context, platform string, tokenAddresses []string) (map[string]entity.PriceData, error) {
	if len(tokenAddresses) == 0 {
		return nil, fmt.Errorf("tokenAddresses cannot be empty")
	}
	if c.maxTokensPerRequest > 0 && len(tokenAddresses) > c.maxTokensPerRequest {
		c.logger.Warn("Number of token addresses exceeds maxTokensPerRequest",
			zap.Int("requestedCount", len(tokenAddresses)),
			zap.Int("maxAllowed", c.maxTokensPerRequest))
		return nil, fmt.Errorf("number of token addresses (%d) exceeds max tokens per request (%d)", len(tokenAddresses), c.maxTokensPerRequest)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait aborted: %w", err)
	}

	addresses := strings.Join(tokenAddresses, ",")
	requestURL := fmt.Sprintf("%s/v2/cryptocurrency/quotes/latest?address=%s&platform=%s&convert=USD", c.baseURL, addresses, platform)

	c.logger.Debug("Requesting token quotes from pricing provider",
		zap.String("platform", platform),
		zap.Int("tokenCount", len(tokenAddresses)))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-CMC_PRO_API_KEY", c.apiKey)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			c.logger.Error("Failed to execute request to pricing provider", zap.String("platform", platform), zap.Error(err))
			return nil, fmt.Errorf("failed to execute pricing request: %w", err)
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			c.logger.Error("Failed to execute request to pricing provider (with default timeout)", zap.String("platform", platform), zap.Error(err))
			return nil, fmt.Errorf("failed to execute pricing request with default timeout: %w", err)
		}
	}

	rawBody := resp.Body()

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Pricing provider request failed",
			zap.String("platform", platform),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody))
		return nil, fmt.Errorf("pricing provider request failed with status %d: %s", resp.StatusCode(), string(rawBody))
	}

	var parsed entity.PricesResponse
	if err := json.Unmarshal(rawBody, &parsed); err != nil {
		c.logger.Error("Failed to unmarshal pricing provider response",
			zap.String("platform", platform),
			zap.ByteString("responseBody", rawBody),
			zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal pricing response: %w", err)
	}

	if parsed.Status.ErrorCode != 0 {
		return nil, fmt.Errorf("pricing provider returned error %d: %s", parsed.Status.ErrorCode, parsed.Status.ErrorMessage)
	}

	// Response keys may carry the provider's address casing; normalize to
	// lowercase so callers can join against their own canonical keys.
	quotes := make(map[string]entity.PriceData, len(parsed.Data))
	for addr, data := range parsed.Data {
		quotes[strings.ToLower(addr)] = data
	}

	c.logger.Debug("Successfully fetched token quotes",
		zap.String("platform", platform),
		zap.Int("quoteCount", len(quotes)))
	return quotes, nil
}
