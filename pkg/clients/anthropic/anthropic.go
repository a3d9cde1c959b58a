package anthropic

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ousmanedev/receiptwatch/internal/domain/models"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
	model      = "claude-3-haiku-20240307"
	maxTokens  = 1024
)

// Client defines the extraction operations the ingest pipeline relies on.
type Client interface {
	// ExtractText transcribes all legible text from a receipt image.
	ExtractText(ctx context.Context, image []byte, mimeType string) (string, error)

	// ExtractOrderDate recovers the order date from extracted receipt
	// text, returning YYYY-MM-DD or the N/A sentinel.
	ExtractOrderDate(ctx context.Context, text string) (string, error)
}

type anthropicClient struct {
	httpClient *resty.Client
}

// NewClient creates a configured Anthropic client.
func NewClient(apiKey string) Client {
	client := resty.New().
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(30 * time.Second)

	return &anthropicClient{httpClient: client}
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type messageResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

const transcribePrompt = `Transcribe every piece of legible text on this receipt image. ` +
	`Preserve line breaks. Output only the transcription, no commentary.`

func (c *anthropicClient) ExtractText(ctx context.Context, image []byte, mimeType string) (string, error) {
	reqBody := messageRequest{
		Model:     model,
		MaxTokens: maxTokens,
		Messages: []message{{
			Role: "user",
			Content: []contentBlock{
				{
					Type: "image",
					Source: &imageSource{
						Type:      "base64",
						MediaType: mimeType,
						Data:      base64.StdEncoding.EncodeToString(image),
					},
				},
				{Type: "text", Text: transcribePrompt},
			},
		}},
	}

	text, err := c.complete(ctx, reqBody)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(text), nil
}

const orderDatePrompt = `The following text was transcribed from a purchase receipt. ` +
	`Find the order or purchase date and answer with exactly one line: the date in YYYY-MM-DD form, ` +
	`or N/A if no date can be determined. No other words.`

func (c *anthropicClient) ExtractOrderDate(ctx context.Context, text string) (string, error) {
	reqBody := messageRequest{
		Model:     model,
		MaxTokens: 64,
		System:    orderDatePrompt,
		Messages: []message{{
			Role:    "user",
			Content: []contentBlock{{Type: "text", Text: text}},
		}},
	}

	answer, err := c.complete(ctx, reqBody)
	if err != nil {
		return "", err
	}

	// Anything the model returns that is not a parseable date collapses to
	// the sentinel, so downstream never sees a malformed date.
	return models.NormalizeOrderDate(firstLine(answer)), nil
}

func (c *anthropicClient) complete(ctx context.Context, reqBody messageRequest) (string, error) {
	var respBody messageResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		Post(apiURL)

	if err != nil {
		return "", fmt.Errorf("%w: anthropic api call: %v", models.ErrUpstream, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: anthropic api error: %s", models.ErrUpstream, resp.Status())
	}
	if len(respBody.Content) == 0 {
		return "", fmt.Errorf("%w: empty response from model", models.ErrUpstream)
	}

	return respBody.Content[0].Text, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
