package restapi

import (
	"net/http"
	"regexp"
	"strconv"
	"time"

	"position_tracker/internal/app/port"
	"position_tracker/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

// walletAddressPattern matches a 40-hex-character EVM address, case-insensitive.
var walletAddressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// APIPositionsResponse is the success envelope for the positions endpoint.
type APIPositionsResponse struct {
	Positions     []entity.Position   `json:"positions"`
	TotalValueUsd float64             `json:"totalValueUsd"`
	TotalFeesUsd  float64             `json:"totalFeesUsd"`
	Timestamp     string              `json:"timestamp"`
	ChainErrors   []entity.ChainError `json:"chainErrors"`
}

// APIErrorResponse is the error envelope for request validation and internal failures.
type APIErrorResponse struct {
	Error APIErrorDetail `json:"error"`
}

// APIErrorDetail carries a machine-readable code and a human-readable message.
type APIErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PositionHandler handles HTTP requests related to liquidity positions.
type PositionHandler struct {
	aggregator      port.PositionAggregator
	networkProvider port.NetworkDefinitionProvider
	logger          port.Logger
}

// NewPositionHandler creates a new PositionHandler.
func NewPositionHandler(agg port.PositionAggregator, np port.NetworkDefinitionProvider, l port.Logger) *PositionHandler {
	return &PositionHandler{
		aggregator:      agg,
		networkProvider: np,
		logger:          l,
	}
}

// GetPositionsHandler handles GET /api/v1/positions/:address.
// The optional chainId query parameter narrows the aggregation to one chain.
func (h *PositionHandler) GetPositionsHandler(c *gin.Context) {
	address := c.Param("address")
	if !walletAddressPattern.MatchString(address) {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: APIErrorDetail{
			Code:    "invalid_address",
			Message: "wallet address must be 0x followed by 40 hex characters",
		}})
		return
	}

	var chainFilter *uint64
	if rawChainID := c.Query("chainId"); rawChainID != "" {
		chainID, err := strconv.ParseUint(rawChainID, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, APIErrorResponse{Error: APIErrorDetail{
				Code:    "invalid_chain_id",
				Message: "chainId must be a positive integer",
			}})
			return
		}
		if _, supported := h.networkProvider.GetNetworkDefinitionByChainID(chainID); !supported {
			c.JSON(http.StatusBadRequest, APIErrorResponse{Error: APIErrorDetail{
				Code:    "invalid_chain_id",
				Message: "chainId " + rawChainID + " is not supported",
			}})
			return
		}
		chainFilter = &chainID
	}

	result, err := h.aggregator.GetPositions(c.Request.Context(), address, chainFilter)
	if err != nil {
		// Expected degraded conditions never reach this branch; only
		// genuinely unexpected faults do.
		h.logger.Error("Position aggregation failed unexpectedly", "address", address, "error", err)
		c.JSON(http.StatusInternalServerError, APIErrorResponse{Error: APIErrorDetail{
			Code:    "internal_error",
			Message: "failed to aggregate positions",
		}})
		return
	}

	c.JSON(http.StatusOK, APIPositionsResponse{
		Positions:     result.Positions,
		TotalValueUsd: result.TotalValueUsd,
		TotalFeesUsd:  result.TotalFeesUsd,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		ChainErrors:   result.ChainErrors,
	})
}
