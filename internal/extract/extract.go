// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns one raw document into a list of normalized clinical
// topic labels by asking a text-generation backend for structured output.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Hypogenic-AI/llms-expose-science-gemini/internal/retry"
)

// MaxChars is the character budget a document is cut to before it is sent.
const MaxChars = 8000

// SystemPrompt is the fixed instruction sent with every document.
const SystemPrompt = "You are a medical research analyst. Extract the key clinical topics from the provided text. " +
	"Focus on medical conditions, symptoms, treatments, procedures, and medications. " +
	"Normalize synonyms to one preferred clinical term (for example, 'heart attack' and 'myocardial infarction' both become 'Myocardial Infarction'). " +
	"Respond with a JSON object with a single key \"topics\" whose value is a list of unique topic strings."

// TopicGenerator is a text-generation service that answers a system
// instruction and a document with the raw model output. Implementations
// request JSON output at temperature 0.
type TopicGenerator interface {
	GenerateTopics(ctx context.Context, system, text string) (string, error)
}

// Extractor calls a TopicGenerator with bounded retries and validates the
// result. It holds no per-document state and is safe for concurrent use
// when its generator is.
type Extractor struct {
	gen    TopicGenerator
	policy retry.Policy
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithRetryPolicy replaces the default 5-attempt policy.
func WithRetryPolicy(p retry.Policy) Option {
	return func(e *Extractor) { e.policy = p }
}

// WithLogger sets the logger used for retry and parse warnings.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// New returns an Extractor backed by gen.
func New(gen TopicGenerator, opts ...Option) *Extractor {
	e := &Extractor{
		gen:    gen,
		policy: retry.DefaultPolicy(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Topics returns the topics found in doc. Blank documents return an empty
// list without calling the generator. An error is returned only when every
// attempt failed; a response that arrives but cannot be parsed is logged and
// yields an empty list.
func (e *Extractor) Topics(ctx context.Context, doc string) ([]string, error) {
	if strings.TrimSpace(doc) == "" {
		return nil, nil
	}
	text := Truncate(doc, MaxChars)

	raw, err := retry.Do(ctx, e.policy, func(ctx context.Context) (string, error) {
		return e.gen.GenerateTopics(ctx, SystemPrompt, text)
	}, func(attempt int, err error, wait time.Duration) {
		e.logger.Warn("topic generation failed, retrying", "attempt", attempt, "wait", wait, "error", err)
	})
	if err != nil {
		return nil, fmt.Errorf("generating topics: %w", err)
	}

	topics, err := ParseTopics(raw)
	if err != nil {
		e.logger.Warn("could not parse topics from model response", "error", err)
		return nil, nil
	}
	return topics, nil
}

// Truncate cuts s to at most n characters. It counts runes, so a multi-byte
// character is never split.
func Truncate(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// topicsResponse is the object the model is asked to return. Elements are
// decoded loosely so non-string entries can be dropped rather than failing
// the whole document.
type topicsResponse struct {
	Topics []any `json:"topics"`
}

// ParseTopics decodes a {"topics": [...]} object and returns its non-blank
// string elements, trimmed. A missing key yields an empty list.
func ParseTopics(raw string) ([]string, error) {
	var resp topicsResponse
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &resp); err != nil {
		return nil, fmt.Errorf("parsing topics JSON: %w", err)
	}

	topics := make([]string, 0, len(resp.Topics))
	for _, v := range resp.Topics {
		s, ok := v.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		topics = append(topics, s)
	}
	return topics, nil
}

// stripCodeFences removes a surrounding ``` or ```json fence.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		parts := strings.SplitN(s, "\n", 2)
		if len(parts) == 2 {
			s = parts[1]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
	}
	return s
}
