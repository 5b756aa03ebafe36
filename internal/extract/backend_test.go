// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hypogenic-AI/llms-expose-science-gemini/pkg/types"
)

// --- OpenAI ---

func withOpenAIServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(handler)
	old := openAIChatURL
	openAIChatURL = ts.URL
	t.Cleanup(func() {
		openAIChatURL = old
		ts.Close()
	})
	return ts
}

func TestOpenAIBackend_SendsJSONModeRequest(t *testing.T) {
	var got openAIRequest
	var auth string
	ts := withOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"topics\":[\"Migraine\"]}"}}]}`))
	})

	b := &OpenAIBackend{APIKey: "sk-test", Client: ts.Client()}
	content, err := b.GenerateTopics(context.Background(), "system text", "doc text")
	require.NoError(t, err)

	assert.Equal(t, `{"topics":["Migraine"]}`, content)
	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, DefaultOpenAIModel, got.Model)
	assert.Equal(t, 0.0, got.Temperature)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, openAIMessage{Role: "system", Content: "system text"}, got.Messages[0])
	assert.Equal(t, openAIMessage{Role: "user", Content: "doc text"}, got.Messages[1])
}

func TestOpenAIBackend_TemperatureIsSerialized(t *testing.T) {
	data, err := json.Marshal(openAIRequest{Model: "m"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"temperature":0`)
}

func TestOpenAIBackend_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":"slow down"}`, "returned 429"},
		{"server error", http.StatusInternalServerError, `oops`, "returned 500"},
		{"bad envelope", http.StatusOK, `<html>`, "decoding OpenAI response"},
		{"no choices", http.StatusOK, `{"choices":[]}`, "no choices"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := withOpenAIServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			b := &OpenAIBackend{APIKey: "k", Client: ts.Client()}
			_, err := b.GenerateTopics(context.Background(), "s", "t")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestExtractorRetriesOpenAIRateLimit(t *testing.T) {
	var calls atomic.Int32
	ts := withOpenAIServer(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"topics\":[\"Sepsis\"]}"}}]}`))
	})

	e := New(&OpenAIBackend{APIKey: "k", Client: ts.Client()}, WithRetryPolicy(fastPolicy()))
	topics, err := e.Topics(context.Background(), "septic shock in ICU")
	require.NoError(t, err)
	assert.Equal(t, []string{"Sepsis"}, topics)
	assert.Equal(t, int32(3), calls.Load())
}

// --- Anthropic ---

type mockMessager struct {
	response *anthropic.Message
	err      error
	params   anthropic.MessageNewParams
}

func (m *mockMessager) New(_ context.Context, params anthropic.MessageNewParams, _ ...option.RequestOption) (*anthropic.Message, error) {
	m.params = params
	return m.response, m.err
}

func TestAnthropicBackend_ConcatenatesText(t *testing.T) {
	m := &mockMessager{response: &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			{Type: "text", Text: `{"topics":`},
			{Type: "text", Text: `["Asthma"]}`},
		},
	}}
	b := newAnthropicBackend(m, "")
	content, err := b.GenerateTopics(context.Background(), "sys", "wheezing")
	require.NoError(t, err)
	assert.Equal(t, `{"topics":["Asthma"]}`, content)
	assert.Equal(t, anthropic.Model(DefaultAnthropicModel), m.params.Model)
	require.Len(t, m.params.System, 1)
	assert.Equal(t, "sys", m.params.System[0].Text)
}

func TestAnthropicBackend_Errors(t *testing.T) {
	b := newAnthropicBackend(&mockMessager{err: errors.New("overloaded")}, "claude-test")
	_, err := b.GenerateTopics(context.Background(), "s", "t")
	assert.ErrorContains(t, err, "overloaded")

	b = newAnthropicBackend(&mockMessager{response: &anthropic.Message{Content: []anthropic.ContentBlockUnion{}}}, "claude-test")
	_, err = b.GenerateTopics(context.Background(), "s", "t")
	assert.ErrorContains(t, err, "no text content")
}

// --- NewBackend ---

func TestNewBackend(t *testing.T) {
	tests := []struct {
		name    string
		cfg     types.AIConfig
		wantErr error
		wantMsg string
	}{
		{"missing key", types.AIConfig{Provider: types.ProviderOpenAI}, ErrMissingCredential, ""},
		{"openai", types.AIConfig{Provider: types.ProviderOpenAI, APIKey: "k"}, nil, ""},
		{"default provider", types.AIConfig{APIKey: "k"}, nil, ""},
		{"anthropic", types.AIConfig{Provider: types.ProviderAnthropic, APIKey: "k"}, nil, ""},
		{"unknown", types.AIConfig{Provider: "gemini", APIKey: "k"}, nil, "unknown provider"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := NewBackend(tt.cfg)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantMsg != "":
				assert.ErrorContains(t, err, tt.wantMsg)
			default:
				require.NoError(t, err)
				assert.NotNil(t, gen)
			}
		})
	}
}
