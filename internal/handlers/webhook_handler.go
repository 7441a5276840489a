package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lastcall/sms-backend/internal/services"
)

// WebhookHandler handles inbound SMS provider callbacks
type WebhookHandler struct {
	conversationService *services.ConversationService
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(conversationService *services.ConversationService) *WebhookHandler {
	return &WebhookHandler{conversationService: conversationService}
}

// TelnyxWebhookPayload is the subset of the Telnyx event envelope we read
type TelnyxWebhookPayload struct {
	Data struct {
		EventType string `json:"event_type"`
		Payload   struct {
			From struct {
				PhoneNumber string `json:"phone_number"`
			} `json:"from"`
			To []struct {
				PhoneNumber string `json:"phone_number"`
			} `json:"to"`
			Text string `json:"text"`
		} `json:"payload"`
	} `json:"data"`
}

// HandleTelnyx handles POST /webhooks/telnyx. The provider retries anything
// that isn't a 2xx, so every outcome acknowledges with 200; failures are
// logged instead.
func (h *WebhookHandler) HandleTelnyx(c *gin.Context) {
	var payload TelnyxWebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("telnyx webhook: malformed payload: %v", err)
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	if payload.Data.EventType != "message.received" {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}
	if len(payload.Data.Payload.To) == 0 || payload.Data.Payload.From.PhoneNumber == "" {
		log.Printf("telnyx webhook: message.received without from/to numbers")
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	err := h.conversationService.HandleInbound(
		c.Request.Context(),
		payload.Data.Payload.From.PhoneNumber,
		payload.Data.Payload.To[0].PhoneNumber,
		payload.Data.Payload.Text,
	)
	if err != nil {
		log.Printf("telnyx webhook: handling inbound message failed: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
