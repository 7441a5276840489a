package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lastcall/sms-backend/internal/services"
)

// respondError maps service sentinel errors onto HTTP statuses. Anything
// unmapped is a 500 with the raw message for operator logs.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNoRecipients):
		c.JSON(http.StatusBadRequest, gin.H{"error": "no recipients match the selected filters"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, services.ErrDuplicateSlug):
		c.JSON(http.StatusConflict, gin.H{"error": "a bar with this name already exists"})
	case errors.Is(err, services.ErrDuplicatePhone):
		c.JSON(http.StatusConflict, gin.H{"error": "this phone number is already in use"})
	case errors.Is(err, services.ErrAlreadySent):
		c.JSON(http.StatusConflict, gin.H{"error": "blast has already been sent or is sending"})
	case errors.Is(err, services.ErrSignupClosed):
		c.JSON(http.StatusForbidden, gin.H{"error": "signup is closed for this bar"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
