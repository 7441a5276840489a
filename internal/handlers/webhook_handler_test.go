package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postWebhook(t *testing.T, handler *WebhookHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodPost, "/api/v1/webhooks/telnyx", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.HandleTelnyx(c)
	return w
}

// Non-message events and malformed payloads never reach the conversation
// layer, so a nil service is safe here. Acknowledging with 200 is what
// stops the provider from retrying delivery.
func TestWebhookIgnoresNonMessageEvents(t *testing.T) {
	handler := NewWebhookHandler(nil)

	w := postWebhook(t, handler, `{"data":{"event_type":"message.sent","payload":{}}}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ignored")
}

func TestWebhookMalformedPayloadStillAcks(t *testing.T) {
	handler := NewWebhookHandler(nil)

	w := postWebhook(t, handler, `{not json`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookMissingNumbersStillAcks(t *testing.T) {
	handler := NewWebhookHandler(nil)

	w := postWebhook(t, handler, `{"data":{"event_type":"message.received","payload":{"text":"STOP"}}}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ignored")
}
