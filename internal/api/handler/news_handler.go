package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"netabase/internal/news"
)

type NewsHandler struct {
	aggregator *news.Aggregator
}

func NewNewsHandler(aggregator *news.Aggregator) *NewsHandler {
	return &NewsHandler{aggregator: aggregator}
}

func (h *NewsHandler) RegisterRoutes(rg *gin.RouterGroup, listCache gin.HandlerFunc) {
	rg.GET("", listCache, h.List)
}

// List aggregates the configured feeds and returns politics items, newest
// first. Broken sources are reported alongside the items, not as a failure.
// GET /api/news
func (h *NewsHandler) List(c *gin.Context) {
	items, sourceErrors := h.aggregator.Aggregate(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"count":   len(items),
		"results": items,
		"errors":  sourceErrors,
	})
}
