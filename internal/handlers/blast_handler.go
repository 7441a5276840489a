package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lastcall/sms-backend/internal/models"
	"github.com/lastcall/sms-backend/internal/services"
)

// BlastHandler handles blast HTTP requests
type BlastHandler struct {
	blastService *services.BlastService
}

// NewBlastHandler creates a new BlastHandler
func NewBlastHandler(blastService *services.BlastService) *BlastHandler {
	return &BlastHandler{blastService: blastService}
}

func accountIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("accountId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID format"})
		return primitive.NilObjectID, false
	}
	return id, true
}

func blastIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid blast ID format"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// BlastRequest is the create/update payload
type BlastRequest struct {
	Message   string            `json:"message"`
	Targeting *models.Targeting `json:"targeting"`
}

// CreateBlast handles POST /accounts/:accountId/blasts
func (h *BlastHandler) CreateBlast(c *gin.Context) {
	accountID, ok := accountIDParam(c)
	if !ok {
		return
	}
	var request BlastRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	blast, err := h.blastService.CreateBlast(c.Request.Context(), accountID, request.Message, request.Targeting)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, blast)
}

// ListBlasts handles GET /accounts/:accountId/blasts. The optional status
// query narrows the listing to sent or scheduled blasts.
func (h *BlastHandler) ListBlasts(c *gin.Context) {
	accountID, ok := accountIDParam(c)
	if !ok {
		return
	}

	var (
		blasts []*models.Blast
		err    error
	)
	switch c.Query("status") {
	case models.BlastStatusSent:
		blasts, err = h.blastService.ListSent(c.Request.Context(), accountID)
	case "":
		blasts, err = h.blastService.ListBlasts(c.Request.Context(), accountID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported status filter"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, blasts)
}

// ListScheduled handles GET /accounts/:accountId/blasts/scheduled
func (h *BlastHandler) ListScheduled(c *gin.Context) {
	accountID, ok := accountIDParam(c)
	if !ok {
		return
	}
	blasts, err := h.blastService.ListScheduled(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, blasts)
}

// GetBlast handles GET /accounts/:accountId/blasts/:id
func (h *BlastHandler) GetBlast(c *gin.Context) {
	accountID, ok := accountIDParam(c)
	if !ok {
		return
	}
	blastID, ok := blastIDParam(c)
	if !ok {
		return
	}

	blast, err := h.blastService.GetBlast(c.Request.Context(), accountID, blastID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, blast)
}

// UpdateBlast handles PUT /accounts/:accountId/blasts/:id
func (h *BlastHandler) UpdateBlast(c *gin.Context) {
	accountID, ok := accountIDParam(c)
	if !ok {
		return
	}
	blastID, ok := blastIDParam(c)
	if !ok {
		return
	}
	var request BlastRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	blast, err := h.blastService.UpdateBlast(c.Request.Context(), accountID, blastID, request.Message, request.Targeting)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, blast)
}

// DeleteBlast handles DELETE /accounts/:accountId/blasts/:id
func (h *BlastHandler) DeleteBlast(c *gin.Context) {
	accountID, ok := accountIDParam(c)
	if !ok {
		return
	}
	blastID, ok := blastIDParam(c)
	if !ok {
		return
	}

	if err := h.blastService.DeleteBlast(c.Request.Context(), accountID, blastID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Blast deleted successfully"})
}

// SendBlastRequest optionally overrides the stored targeting for this send
type SendBlastRequest struct {
	Targeting *models.Targeting `json:"targeting"`
}

// SendBlast handles POST /accounts/:accountId/blasts/:id/send
func (h *BlastHandler) SendBlast(c *gin.Context) {
	accountID, ok := accountIDParam(c)
	if !ok {
		return
	}
	blastID, ok := blastIDParam(c)
	if !ok {
		return
	}

	var request SendBlastRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}
	}

	stats, err := h.blastService.SendNow(c.Request.Context(), accountID, blastID, request.Targeting)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":        models.BlastStatusSent,
		"deliveryStats": stats,
	})
}

// CountRecipientsRequest is the filter preview payload
type CountRecipientsRequest struct {
	Targeting *models.Targeting `json:"targeting"`
}

// CountRecipients handles POST /accounts/:accountId/blasts/count. An empty
// match is a valid preview result, not an error.
func (h *BlastHandler) CountRecipients(c *gin.Context) {
	accountID, ok := accountIDParam(c)
	if !ok {
		return
	}
	var request CountRecipientsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}
	}

	count, err := h.blastService.CountRecipients(c.Request.Context(), accountID, request.Targeting)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// ScheduleBlastRequest carries the requested send time in RFC 3339
type ScheduleBlastRequest struct {
	SendAt time.Time `json:"sendAt" binding:"required"`
}

// ScheduleBlast handles POST /accounts/:accountId/blasts/:id/schedule
func (h *BlastHandler) ScheduleBlast(c *gin.Context) {
	accountID, ok := accountIDParam(c)
	if !ok {
		return
	}
	blastID, ok := blastIDParam(c)
	if !ok {
		return
	}
	var request ScheduleBlastRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	blast, err := h.blastService.ScheduleBlast(c.Request.Context(), accountID, blastID, request.SendAt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, blast)
}

// CancelSchedule handles DELETE /accounts/:accountId/blasts/:id/schedule
func (h *BlastHandler) CancelSchedule(c *gin.Context) {
	accountID, ok := accountIDParam(c)
	if !ok {
		return
	}
	blastID, ok := blastIDParam(c)
	if !ok {
		return
	}

	blast, err := h.blastService.CancelSchedule(c.Request.Context(), accountID, blastID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, blast)
}
