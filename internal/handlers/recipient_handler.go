package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lastcall/sms-backend/internal/services"
)

// RecipientHandler handles signup and roster HTTP requests
type RecipientHandler struct {
	recipientService *services.RecipientService
}

// NewRecipientHandler creates a new RecipientHandler
func NewRecipientHandler(recipientService *services.RecipientService) *RecipientHandler {
	return &RecipientHandler{recipientService: recipientService}
}

// SignupRequest is the public signup form payload
type SignupRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Email       string `json:"email"`
	Gender      string `json:"gender"`
	Birthdate   string `json:"birthdate"` // YYYY-MM-DD, optional
	IsMember    bool   `json:"isMember"`
	Consent     bool   `json:"consent"`
}

// Signup handles POST /bars/:slug/recipients
func (h *RecipientHandler) Signup(c *gin.Context) {
	var request SignupRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	input := services.SignupInput{
		Name:        request.Name,
		PhoneNumber: request.PhoneNumber,
		Email:       request.Email,
		Gender:      request.Gender,
		IsMember:    request.IsMember,
		Consent:     request.Consent,
	}
	if request.Birthdate != "" {
		birthdate, err := time.Parse("2006-01-02", request.Birthdate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid birthdate, expected YYYY-MM-DD"})
			return
		}
		input.Birthdate = &birthdate
	}

	recipient, err := h.recipientService.SignupBySlug(c.Request.Context(), c.Param("slug"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipient)
}

// ListRecipients handles GET /accounts/:accountId/recipients
func (h *RecipientHandler) ListRecipients(c *gin.Context) {
	accountID, err := primitive.ObjectIDFromHex(c.Param("accountId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID format"})
		return
	}

	recipients, err := h.recipientService.ListRecipients(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipients)
}

// GetRecipient handles GET /accounts/:accountId/recipients/:id
func (h *RecipientHandler) GetRecipient(c *gin.Context) {
	accountID, err := primitive.ObjectIDFromHex(c.Param("accountId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID format"})
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipient ID format"})
		return
	}

	recipient, err := h.recipientService.GetRecipient(c.Request.Context(), accountID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipient)
}
