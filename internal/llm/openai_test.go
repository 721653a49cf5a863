package llm

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Completer {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewOpenAIClient(Config{
		APIKey:  "sk-test",
		BaseURL: srv.URL,
		Model:   "test-model",
	}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	return client
}

func TestCompleteReturnsFirstChoice(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": `[{"summary":"Lunch"}]`}},
			},
		})
	})

	text, err := client.Complete(context.Background(), "plan my lunch")
	require.NoError(t, err)
	assert.Equal(t, `[{"summary":"Lunch"}]`, text)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "test-model", gotReq.Model)
	assert.False(t, gotReq.Stream)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "plan my lunch", gotReq.Messages[0].Content)
}

func TestCompleteNonOKStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	})

	_, err := client.Complete(context.Background(), "plan")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestCompleteAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "model overloaded", "type": "server_error"},
		})
	})

	_, err := client.Complete(context.Background(), "plan")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestCompleteNoChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	_, err := client.Complete(context.Background(), "plan")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestNewOpenAIClientValidation(t *testing.T) {
	_, err := NewOpenAIClient(Config{Model: "m"}, nil)
	require.Error(t, err)

	_, err = NewOpenAIClient(Config{BaseURL: "http://localhost"}, nil)
	require.Error(t, err)
}
