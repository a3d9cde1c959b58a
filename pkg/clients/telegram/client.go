package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ousmanedev/receiptwatch/internal/config"
)

// Client delivers alert messages through the Telegram Bot API. When the bot
// token or chat id is not configured the client is disabled and SendAlert
// becomes a no-op, so the alert scan never depends on delivery being set up.
type Client struct {
	httpClient *resty.Client
	chatID     string
	enabled    bool
}

// NewClient builds a Telegram client using the provided configuration values.
func NewClient(cfg config.TelegramConfig) *Client {
	if cfg.BotToken == "" || cfg.ChatID == "" {
		return &Client{enabled: false}
	}

	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(fmt.Sprintf("%s/bot%s", base, cfg.BotToken)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &Client{
		httpClient: restyClient,
		chatID:     cfg.ChatID,
		enabled:    true,
	}
}

// Enabled reports whether alert delivery is configured.
func (c *Client) Enabled() bool {
	return c.enabled
}

// apiError represents a Telegram Bot API error payload.
type apiError struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

// SendAlert posts the message to the configured chat. It silently succeeds
// when the client is disabled.
func (c *Client) SendAlert(ctx context.Context, message string) error {
	if !c.enabled {
		return nil
	}

	payload := map[string]any{
		"chat_id": c.chatID,
		"text":    message,
	}

	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetError(apiErr).
		Post("/sendMessage")
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		code := resp.StatusCode()
		message := ""
		if apiErr != nil {
			message = apiErr.Description
			if apiErr.ErrorCode != 0 {
				code = apiErr.ErrorCode
			}
		}
		return fmt.Errorf("telegram api error: code=%d, message=%s", code, message)
	}

	return nil
}
