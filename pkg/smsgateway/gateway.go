package smsgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/lastcall/sms-backend/internal/config"
)

// Gateway is the outbound send capability of the messaging provider
type Gateway interface {
	SendMessage(ctx context.Context, to, from, text, messagingProfileID string) (string, error)
}

// TelnyxGateway sends messages through the Telnyx v2 messages API
type TelnyxGateway struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewTelnyxGateway creates a new TelnyxGateway. When MockSMS is enabled the
// returned gateway records sends instead of calling the provider.
func NewTelnyxGateway(cfg *config.Config) Gateway {
	if cfg.Telnyx.MockSMS {
		return NewMockGateway()
	}
	return &TelnyxGateway{
		baseURL: cfg.Telnyx.BaseURL,
		apiKey:  cfg.Telnyx.APIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SendMessage sends a single SMS and returns the provider message ID
func (g *TelnyxGateway) SendMessage(ctx context.Context, to, from, text, messagingProfileID string) (string, error) {
	requestBody := map[string]interface{}{
		"to":                   to,
		"from":                 from,
		"text":                 text,
		"messaging_profile_id": messagingProfileID,
	}
	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/messages", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("telnyx request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	return response.Data.ID, nil
}

// SentMessage is a message recorded by the mock gateway
type SentMessage struct {
	To                 string
	From               string
	Text               string
	MessagingProfileID string
}

// MockGateway records sends in memory. It backs local development and tests.
type MockGateway struct {
	mu   sync.Mutex
	sent []SentMessage

	// FailFor marks destination numbers whose sends should fail
	FailFor map[string]error
}

// NewMockGateway creates a new MockGateway
func NewMockGateway() *MockGateway {
	return &MockGateway{FailFor: map[string]error{}}
}

// SendMessage records the message and returns a synthetic message ID
func (g *MockGateway) SendMessage(ctx context.Context, to, from, text, messagingProfileID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err, ok := g.FailFor[to]; ok {
		return "", err
	}
	g.sent = append(g.sent, SentMessage{To: to, From: from, Text: text, MessagingProfileID: messagingProfileID})
	return fmt.Sprintf("MOCK-MSG-%d", len(g.sent)), nil
}

// Sent returns a copy of all recorded messages
func (g *MockGateway) Sent() []SentMessage {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]SentMessage, len(g.sent))
	copy(out, g.sent)
	return out
}
