package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotedash/internal/quote"
)

func board() []quote.Quote {
	return []quote.Quote{
		{InstrumentCode: "blue", DisplayName: "Dólar Blue", CurrencyCode: "USD", BuyPrice: 1180, SellPrice: 1220},
		{InstrumentCode: "oficial", DisplayName: "Dólar Oficial", CurrencyCode: "USD", BuyPrice: 1000, SellPrice: 1020},
	}
}

func completionHandler(t *testing.T, text string, capture *string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if capture != nil && len(req.Messages) > 0 {
			*capture = req.Messages[0].Content
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": text},
					"finish_reason": "stop",
				},
			},
		})
	}
}

func TestSummarize_ReturnsText(t *testing.T) {
	var prompt string
	srv := httptest.NewServer(completionHandler(t, "La brecha se mantiene estable. Conviene esperar.", &prompt))
	t.Cleanup(srv.Close)

	s := New(Config{BaseURL: srv.URL, APIKey: "test", Model: "test-model", Timeout: 5 * time.Second})
	text, err := s.Summarize(context.Background(), board())
	require.NoError(t, err)
	assert.Equal(t, "La brecha se mantiene estable. Conviene esperar.", text)

	// The snapshot travels inside the instruction template.
	assert.Contains(t, prompt, `"casa":"blue"`)
	assert.Contains(t, prompt, `"venta":1220`)
	assert.Contains(t, prompt, "Flash de Mercado")
}

func TestSummarize_UpstreamFailureIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	s := New(Config{BaseURL: srv.URL, APIKey: "test", Timeout: 5 * time.Second})
	_, err := s.Summarize(context.Background(), board())
	assert.Error(t, err)
}

func TestSummarize_EmptyCompletionIsError(t *testing.T) {
	srv := httptest.NewServer(completionHandler(t, "   ", nil))
	t.Cleanup(srv.Close)

	s := New(Config{BaseURL: srv.URL, APIKey: "test", Timeout: 5 * time.Second})
	_, err := s.Summarize(context.Background(), board())
	assert.Error(t, err)
}

func TestSummarize_NoQuotesIsError(t *testing.T) {
	s := New(Config{APIKey: "test"})
	_, err := s.Summarize(context.Background(), nil)
	assert.Error(t, err)
}
