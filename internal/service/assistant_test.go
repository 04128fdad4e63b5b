package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionServer(t *testing.T, reply string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Model    string        `json:"model"`
			Messages []ChatMessage `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.NotEmpty(t, req.Messages)

		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": reply}},
			},
		})
	}))
}

func TestChatReturnsReply(t *testing.T) {
	srv := completionServer(t, "hello there", http.StatusOK)
	defer srv.Close()

	a := NewAssistant(srv.URL, "test-key", "test-model")
	reply, err := a.Chat(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "hello there", reply)
}

func TestChatUpstreamStatusError(t *testing.T) {
	srv := completionServer(t, "", http.StatusInternalServerError)
	defer srv.Close()

	a := NewAssistant(srv.URL, "test-key", "test-model")
	_, err := a.Chat(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}})
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestChatUnreachableHost(t *testing.T) {
	a := NewAssistant("http://127.0.0.1:1", "k", "m")
	_, err := a.Chat(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}})
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestGenerateInsightsParsesJSON(t *testing.T) {
	payload := `{"summary":"Covered testing strategy","topics":["testing","mocks"],"action_items":["write table tests"]}`
	srv := completionServer(t, payload, http.StatusOK)
	defer srv.Close()

	a := NewAssistant(srv.URL, "test-key", "test-model")
	ins, err := a.GenerateInsights(context.Background(), "session notes")
	require.NoError(t, err)
	assert.Equal(t, "Covered testing strategy", ins.Summary)
	assert.Equal(t, []string{"testing", "mocks"}, ins.Topics)
	assert.Equal(t, []string{"write table tests"}, ins.ActionItems)
}

func TestGenerateInsightsStripsCodeFence(t *testing.T) {
	payload := "```json\n{\"summary\":\"s\",\"topics\":[],\"action_items\":[]}\n```"
	srv := completionServer(t, payload, http.StatusOK)
	defer srv.Close()

	a := NewAssistant(srv.URL, "test-key", "test-model")
	ins, err := a.GenerateInsights(context.Background(), "notes")
	require.NoError(t, err)
	assert.Equal(t, "s", ins.Summary)
}

func TestGenerateInsightsRejectsProse(t *testing.T) {
	srv := completionServer(t, "Sure! Here is a summary...", http.StatusOK)
	defer srv.Close()

	a := NewAssistant(srv.URL, "test-key", "test-model")
	_, err := a.GenerateInsights(context.Background(), "notes")
	assert.ErrorIs(t, err, ErrUpstream)
}
