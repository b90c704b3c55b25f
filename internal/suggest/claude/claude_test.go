package claude

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaudeSuggest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"id":   "msg_test",
			"type": "message",
			"role": "assistant",
			"content": []map[string]interface{}{
				{"type": "text", "text": "Furniture\n"},
			},
			"model":       "claude-3-haiku-20240307",
			"stop_reason": "end_turn",
			"usage":       map[string]int{"input_tokens": 1, "output_tokens": 1},
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	suggester := NewClaudeSuggester("sk-test", "claude-3-haiku-20240307",
		anthropic.WithBaseURL(server.URL))

	category, err := suggester.Suggest(context.Background(), "Chair", []byte{0xFF, 0xD8}, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "Furniture", category)
}

func TestClaudeSuggestAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"type":"error","error":{"type":"rate_limit_error","message":"rate limited"}}`,
			http.StatusTooManyRequests)
	}))
	defer server.Close()

	suggester := NewClaudeSuggester("sk-test", "claude-3-haiku-20240307",
		anthropic.WithBaseURL(server.URL))

	_, err := suggester.Suggest(context.Background(), "Chair", []byte{0xFF, 0xD8}, "image/jpeg")
	assert.Error(t, err)
}

func TestNormaliseMIME(t *testing.T) {
	assert.Equal(t, "image/png", normaliseMIME("image/png"))
	assert.Equal(t, "image/jpeg", normaliseMIME("image/jpeg"))
	assert.Equal(t, "image/jpeg", normaliseMIME("application/pdf"))
}
