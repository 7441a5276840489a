package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/lastcall/sms-backend/internal/services"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: message is required", services.ErrValidation), http.StatusBadRequest},
		{services.ErrNoRecipients, http.StatusBadRequest},
		{services.ErrNotFound, http.StatusNotFound},
		{services.ErrDuplicateSlug, http.StatusConflict},
		{services.ErrDuplicatePhone, http.StatusConflict},
		{services.ErrAlreadySent, http.StatusConflict},
		{services.ErrSignupClosed, http.StatusForbidden},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		respondError(c, tt.err)
		assert.Equal(t, tt.want, w.Code, "error %v", tt.err)
	}
}
