package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shoplens/backend/internal/domain"
	"github.com/shoplens/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	similar *usecase.SimilarService
	catalog *usecase.CatalogService
	cache   domain.RecommendationCache
}

// NewHandler creates a new HTTP handler
func NewHandler(similar *usecase.SimilarService, catalog *usecase.CatalogService, cache domain.RecommendationCache) *Handler {
	return &Handler{similar: similar, catalog: catalog, cache: cache}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "shoplens-backend",
		"version": "1.0.0",
	})
}

// SimilarProducts handles similar-product aggregation requests
func (h *Handler) SimilarProducts(c *gin.Context) {
	var req domain.SimilarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation Error",
			"message": "request body must be valid JSON",
		})
		return
	}

	req.ApplyDefaults()
	if verr := req.Validate(); verr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation Error",
			"message": verr.Error(),
			"details": verr.Issues,
		})
		return
	}

	resp, err := h.similar.GetSimilarProducts(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Bad Request",
				"message": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "An unexpected error occurred",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListProducts handles catalog listing requests for a single store
func (h *Handler) ListProducts(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Validation Error",
				"message": "limit must be a positive integer",
			})
			return
		}
		limit = parsed
	}

	store, items, err := h.catalog.ListProducts(c.Request.Context(), c.Query("storeDomain"), limit)
	if err != nil {
		var missingToken domain.MissingTokenError
		switch {
		case errors.As(err, &missingToken):
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Configuration Error",
				"message": "Storefront token not configured",
			})
		case errors.Is(err, domain.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Bad Request",
				"message": err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal Server Error",
				"message": "Failed to fetch products",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"store":    store,
		"count":    len(items),
		"products": items,
	})
}

// CacheStats reports the recommendation cache's current state
func (h *Handler) CacheStats(c *gin.Context) {
	stats := h.cache.Stats()
	c.JSON(http.StatusOK, gin.H{
		"size":       stats.Size,
		"maxSize":    stats.MaxSize,
		"ttlSeconds": stats.TTLSeconds,
	})
}

// ClearCache drops every cached recommendation list
func (h *Handler) ClearCache(c *gin.Context) {
	h.cache.Clear()
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}
