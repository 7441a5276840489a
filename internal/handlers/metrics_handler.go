package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lastcall/sms-backend/internal/services"
)

// MetricsHandler handles dashboard metrics HTTP requests
type MetricsHandler struct {
	metricsService *services.MetricsService
}

// NewMetricsHandler creates a new MetricsHandler
func NewMetricsHandler(metricsService *services.MetricsService) *MetricsHandler {
	return &MetricsHandler{metricsService: metricsService}
}

// GetMetrics handles GET /accounts/:accountId/metrics
func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	accountID, err := primitive.ObjectIDFromHex(c.Param("accountId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID format"})
		return
	}

	snapshot, err := h.metricsService.GetMetrics(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// RecomputeMetrics handles POST /accounts/:accountId/metrics/recompute
func (h *MetricsHandler) RecomputeMetrics(c *gin.Context) {
	accountID, err := primitive.ObjectIDFromHex(c.Param("accountId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID format"})
		return
	}

	snapshot, err := h.metricsService.Recompute(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
