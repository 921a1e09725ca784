package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf-lend/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// maxWebhookResponseSize bounds how much of a gateway response is read
const maxWebhookResponseSize = 1 << 20

// WhatsAppClient posts text messages to an external gateway webhook. Like
// the mailer it degrades to a silent no-op when disabled.
type WhatsAppClient struct {
	cfg        config.WhatsAppConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewWhatsAppClient creates a webhook text-message client
func NewWhatsAppClient(cfg config.WhatsAppConfig, logger *zap.Logger) *WhatsAppClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WhatsAppClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type webhookPayload struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// SendText posts one message to the gateway
func (c *WhatsAppClient) SendText(ctx context.Context, phone, message string) error {
	if !c.cfg.Enabled {
		c.logger.Debug("Text gateway disabled, dropping message", zap.String("phone", phone))
		return nil
	}
	if phone == "" {
		return nil
	}

	body, err := json.Marshal(webhookPayload{Phone: phone, Message: message})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("text gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxWebhookResponseSize))
		return fmt.Errorf("text gateway returned %d: %s", resp.StatusCode, string(snippet))
	}
	return nil
}
