package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	wethAddress = "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"
	usdcAddress = "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"
)

func newPricingClientForTest(baseURL string, maxTokens int) PricingAPIClient {
	return NewPricingAPIClient(baseURL, "test-key", time.Second, 100, zap.NewNop(), maxTokens)
}

func TestGetQuotes_Success(t *testing.T) {
	var gotPath, gotAddresses, gotPlatform, gotAPIKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAddresses = r.URL.Query().Get("address")
		gotPlatform = r.URL.Query().Get("platform")
		gotAPIKey = r.Header.Get("X-CMC_PRO_API_KEY")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": {"error_code": 0, "error_message": ""},
			"data": {
				"0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2": {
					"symbol": "WETH",
					"quote": {"USD": {"price": 3000.5}}
				},
				"` + usdcAddress + `": {
					"symbol": "USDC",
					"quote": {"USD": {"price": 0.9998}}
				}
			}
		}`))
	}))
	defer server.Close()

	client := newPricingClientForTest(server.URL, 100)
	quotes, err := client.GetQuotes(context.Background(), "ethereum", []string{wethAddress, usdcAddress})

	require.NoError(t, err)
	assert.Equal(t, "/v2/cryptocurrency/quotes/latest", gotPath)
	assert.Equal(t, wethAddress+","+usdcAddress, gotAddresses)
	assert.Equal(t, "ethereum", gotPlatform)
	assert.Equal(t, "test-key", gotAPIKey)

	// Response keys arrive in the provider's casing and must come back lowercased.
	require.Contains(t, quotes, wethAddress)
	assert.Equal(t, "WETH", quotes[wethAddress].Symbol)
	assert.Equal(t, 3000.5, quotes[wethAddress].Quote["USD"].Price)
	require.Contains(t, quotes, usdcAddress)
	assert.Equal(t, 0.9998, quotes[usdcAddress].Quote["USD"].Price)
}

func TestGetQuotes_EmptyAddressList(t *testing.T) {
	client := newPricingClientForTest("http://localhost:1", 100)

	_, err := client.GetQuotes(context.Background(), "ethereum", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")
}

func TestGetQuotes_BatchSizeExceeded(t *testing.T) {
	client := newPricingClientForTest("http://localhost:1", 1)

	_, err := client.GetQuotes(context.Background(), "ethereum", []string{wethAddress, usdcAddress})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds max tokens per request")
}

func TestGetQuotes_HTTPErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"status": {"error_code": 1008, "error_message": "rate limited"}}`))
	}))
	defer server.Close()

	client := newPricingClientForTest(server.URL, 100)
	_, err := client.GetQuotes(context.Background(), "ethereum", []string{wethAddress})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestGetQuotes_ProviderErrorCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": {"error_code": 1002, "error_message": "API key missing"}, "data": {}}`))
	}))
	defer server.Close()

	client := newPricingClientForTest(server.URL, 100)
	_, err := client.GetQuotes(context.Background(), "ethereum", []string{wethAddress})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "error 1002")
	assert.Contains(t, err.Error(), "API key missing")
}

func TestGetQuotes_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := newPricingClientForTest(server.URL, 100)
	_, err := client.GetQuotes(context.Background(), "ethereum", []string{wethAddress})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}

func TestGetQuotes_RespectsContextDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"status": {"error_code": 0}, "data": {}}`))
	}))
	defer server.Close()

	client := newPricingClientForTest(server.URL, 100)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.GetQuotes(ctx, "ethereum", []string{wethAddress})

	require.Error(t, err)
}
