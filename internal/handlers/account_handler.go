package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lastcall/sms-backend/internal/services"
)

// AccountHandler handles bar account HTTP requests
type AccountHandler struct {
	accountService *services.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// CreateAccountRequest is the admin bar creation payload
type CreateAccountRequest struct {
	BarName                   string `json:"barName" binding:"required"`
	PhoneNumber               string `json:"phoneNumber" binding:"required"`
	Email                     string `json:"email"`
	MessagingProfileID        string `json:"messagingProfileId"`
	CouponsEnabled            bool   `json:"couponsEnabled"`
	IncludeMembershipQuestion bool   `json:"includeMembershipQuestion"`
}

// CreateAccount handles POST /admin/bars
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var request CreateAccountRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), services.CreateAccountInput{
		BarName:                   request.BarName,
		PhoneNumber:               request.PhoneNumber,
		Email:                     request.Email,
		MessagingProfileID:        request.MessagingProfileID,
		CouponsEnabled:            request.CouponsEnabled,
		IncludeMembershipQuestion: request.IncludeMembershipQuestion,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

// ListAccounts handles GET /admin/bars
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	summaries, err := h.accountService.ListAccounts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// GetAccount handles GET /admin/bars/:id
func (h *AccountHandler) GetAccount(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	account, err := h.accountService.GetAccount(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// UpdateAccountRequest is the admin bar update payload; omitted fields keep
// their current values.
type UpdateAccountRequest struct {
	BarName                   *string `json:"barName"`
	PhoneNumber               *string `json:"phoneNumber"`
	Email                     *string `json:"email"`
	MessagingProfileID        *string `json:"messagingProfileId"`
	CouponsEnabled            *bool   `json:"couponsEnabled"`
	IncludeMembershipQuestion *bool   `json:"includeMembershipQuestion"`
	SignupEnabled             *bool   `json:"signupEnabled"`
	Locked                    *bool   `json:"locked"`
}

// UpdateAccount handles PUT /admin/bars/:id
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var request UpdateAccountRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), id, services.UpdateAccountInput{
		BarName:                   request.BarName,
		PhoneNumber:               request.PhoneNumber,
		Email:                     request.Email,
		MessagingProfileID:        request.MessagingProfileID,
		CouponsEnabled:            request.CouponsEnabled,
		IncludeMembershipQuestion: request.IncludeMembershipQuestion,
		SignupEnabled:             request.SignupEnabled,
		Locked:                    request.Locked,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// DeleteAccount handles DELETE /admin/bars/:id
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bar deleted successfully"})
}

// GetAccountBySlug handles GET /bars/:slug, the public signup page lookup.
// Only the fields the signup form needs are exposed.
func (h *AccountHandler) GetAccountBySlug(c *gin.Context) {
	account, err := h.accountService.GetAccountBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":                        account.ID,
		"barName":                   account.BarName,
		"slug":                      account.Slug,
		"couponsEnabled":            account.CouponsEnabled,
		"includeMembershipQuestion": account.IncludeMembershipQuestion,
	})
}
