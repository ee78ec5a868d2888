// Package assistant asks a Claude model to turn a chat message into an
// action payload.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/hassan3301/dailycrm/internal/config"
)

// ErrEmptyReply is returned when the model answers with no text.
var ErrEmptyReply = errors.New("assistant: empty reply")

// Client calls the Messages API with the CRM system prompt.
type Client struct {
	api       anthropic.Client
	model     string
	maxTokens int64
	log       *slog.Logger
}

// NewClient creates a Client. Extra options are passed to the SDK (tests
// point it at a local server with option.WithBaseURL).
func NewClient(cfg config.AssistantConfig, log *slog.Logger, opts ...option.RequestOption) *Client {
	all := make([]option.RequestOption, 0, len(opts)+1)
	if cfg.APIKey != "" {
		all = append(all, option.WithAPIKey(cfg.APIKey))
	}
	all = append(all, opts...)

	return &Client{
		api:       anthropic.NewClient(all...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		log:       log.With("adapter", "assistant"),
	}
}

// Reply returns the model's raw answer to message.
func (c *Client) Reply(ctx context.Context, message string) (string, error) {
	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: SystemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(message)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("assistant: messages api: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyReply
	}

	c.log.DebugContext(ctx, "assistant replied",
		slog.String("model", c.model),
		slog.Int64("output_tokens", msg.Usage.OutputTokens),
	)
	return b.String(), nil
}
