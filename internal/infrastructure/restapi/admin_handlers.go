package restapi

import (
	"net/http"

	"position_tracker/internal/app/port"
	"position_tracker/internal/pkg/pricecache"

	"github.com/gin-gonic/gin"
)

// CacheAdminHandler exposes administrative operations over the price cache.
type CacheAdminHandler struct {
	cache  *pricecache.Cache
	logger port.Logger
}

// NewCacheAdminHandler creates a new CacheAdminHandler.
func NewCacheAdminHandler(cache *pricecache.Cache, l port.Logger) *CacheAdminHandler {
	return &CacheAdminHandler{cache: cache, logger: l}
}

// ClearPriceCacheHandler handles DELETE /api/v1/cache/prices.
func (h *CacheAdminHandler) ClearPriceCacheHandler(c *gin.Context) {
	cleared := h.cache.Clear()
	h.logger.Info("Price cache cleared", "entries", cleared)
	c.JSON(http.StatusOK, gin.H{"cleared": cleared})
}

// PriceCacheStatsHandler handles GET /api/v1/cache/prices/stats.
func (h *CacheAdminHandler) PriceCacheStatsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"entries": h.cache.Size(),
		"ttlMs":   h.cache.TTL().Milliseconds(),
	})
}
