// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultAnthropicModel is used when no model is configured.
const DefaultAnthropicModel = string(anthropic.ModelClaudeSonnet4_20250514)

// AnthropicMessager is the part of the Anthropic client the backend uses.
type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicBackend calls the Anthropic Messages API. The API has no JSON
// mode, so the system instruction alone asks for the topics object.
type AnthropicBackend struct {
	messages AnthropicMessager
	model    string
}

// NewAnthropicBackend returns a backend authenticated with apiKey.
func NewAnthropicBackend(apiKey, model string) *AnthropicBackend {
	c := anthropic.NewClient(option.WithAPIKey(apiKey), option.WithMaxRetries(0))
	return newAnthropicBackend(&c.Messages, model)
}

func newAnthropicBackend(m AnthropicMessager, model string) *AnthropicBackend {
	if model == "" {
		model = DefaultAnthropicModel
	}
	return &AnthropicBackend{messages: m, model: model}
}

// GenerateTopics sends one document and returns the concatenated text blocks.
func (a *AnthropicBackend) GenerateTopics(ctx context.Context, system, text string) (string, error) {
	resp, err := a.messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   2048,
		System:      []anthropic.TextBlockParam{{Text: system}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(text))},
		Temperature: anthropic.Float(0),
	})
	if err != nil {
		return "", fmt.Errorf("calling Anthropic API: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("Anthropic API returned no text content")
	}
	return sb.String(), nil
}
