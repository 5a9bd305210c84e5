package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trend-intel/internal/orchestrator"
	"trend-intel/pkg/models"
)

// TrendHandler handles HTTP trend operations
type TrendHandler struct {
	orchestrator *orchestrator.Orchestrator
	logger       *zap.Logger
}

// NewTrendHandler creates a new handler
func NewTrendHandler(orch *orchestrator.Orchestrator, logger *zap.Logger) *TrendHandler {
	return &TrendHandler{
		orchestrator: orch,
		logger:       logger,
	}
}

// Scrape handles POST /trends/scrape
func (h *TrendHandler) Scrape(c *gin.Context) {
	var cfg models.ScrapeConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		h.logger.Warn("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cfg = cfg.Normalized()
	if len(cfg.Keywords) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one keyword is required"})
		return
	}

	summaries, err := h.orchestrator.Scrape(c.Request.Context(), cfg)
	if err != nil {
		h.logger.Error("failed to scrape trends", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to scrape trends"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trends": summaries,
		"count":  len(summaries),
		"period": cfg.Period,
	})
}

// Refresh handles POST /trends/refresh
func (h *TrendHandler) Refresh(c *gin.Context) {
	var cfg models.ScrapeConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		h.logger.Warn("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cfg = cfg.Normalized()
	if len(cfg.Keywords) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one keyword is required"})
		return
	}

	summaries, err := h.orchestrator.ForceRefresh(c.Request.Context(), cfg)
	if err != nil {
		h.logger.Error("failed to refresh trends", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to refresh trends"})
		return
	}

	h.logger.Info("trends force-refreshed via API", zap.Int("count", len(summaries)))
	c.JSON(http.StatusOK, gin.H{
		"trends": summaries,
		"count":  len(summaries),
		"period": cfg.Period,
	})
}

// CacheStats handles GET /trends/cache/stats
func (h *TrendHandler) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.orchestrator.CacheStats())
}

// ClearCache handles DELETE /trends/cache
func (h *TrendHandler) ClearCache(c *gin.Context) {
	h.orchestrator.ClearCache()
	h.logger.Info("cache cleared via API")
	c.JSON(http.StatusOK, gin.H{"message": "cache cleared successfully"})
}

// InvalidateCache handles DELETE /trends/cache/:keyword
func (h *TrendHandler) InvalidateCache(c *gin.Context) {
	keyword := c.Param("keyword")
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "keyword is required"})
		return
	}

	period := models.Period(c.Query("period"))
	if period != "" && !period.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period"})
		return
	}

	removed := h.orchestrator.InvalidateCache(keyword, period)
	c.JSON(http.StatusOK, gin.H{
		"message": "cache invalidated successfully",
		"removed": removed,
	})
}

// ExportCache handles GET /trends/cache/export
func (h *TrendHandler) ExportCache(c *gin.Context) {
	c.JSON(http.StatusOK, h.orchestrator.ExportCache())
}

// Health handles GET /health
func (h *TrendHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now(),
	})
}
