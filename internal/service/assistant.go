package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUpstream wraps any failure talking to the chat-completion API.
// Handlers report it as 502; there is no retry layer - operators retry.
var ErrUpstream = errors.New("assistant upstream failure")

// ChatMessage is one turn in a chat-completion exchange.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []ChatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
}

// Assistant is a minimal chat-completion client. BaseURL points at an
// OpenAI-compatible /chat/completions endpoint so tests can swap in a
// local server. Calls are awaited synchronously within the request.
type Assistant struct {
	BaseURL string
	APIKey  string
	Model   string
	HTTP    *http.Client
}

// NewAssistant builds a client with a bounded request timeout.
func NewAssistant(baseURL, apiKey, model string) *Assistant {
	return &Assistant{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Model:   model,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Chat sends the message history and returns the model's reply text.
func (a *Assistant) Chat(ctx context.Context, messages []ChatMessage) (string, error) {
	payload, err := json.Marshal(chatRequest{Model: a.Model, Messages: messages, MaxTokens: 512})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.APIKey)

	resp, err := a.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrUpstream)
	}
	return out.Choices[0].Message.Content, nil
}

// Insights is the structured result extracted from a completed session.
type Insights struct {
	Summary     string   `json:"summary"`
	Topics      []string `json:"topics"`
	ActionItems []string `json:"action_items"`
}

const insightsSystemPrompt = "You are a mentorship session analyst. " +
	"Reply with a JSON object containing: summary (string), topics (array of strings), " +
	"action_items (array of strings). No prose outside the JSON."

// GenerateInsights asks the model to summarise session notes into a
// summary, topic list and action items. The model is instructed to reply
// with bare JSON; a non-JSON reply counts as an upstream failure.
func (a *Assistant) GenerateInsights(ctx context.Context, notes string) (Insights, error) {
	reply, err := a.Chat(ctx, []ChatMessage{
		{Role: "system", Content: insightsSystemPrompt},
		{Role: "user", Content: notes},
	})
	if err != nil {
		return Insights{}, err
	}
	// Models occasionally wrap JSON in a code fence; strip it.
	reply = strings.TrimSpace(reply)
	reply = strings.TrimPrefix(reply, "```json")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSuffix(reply, "```")
	var ins Insights
	if err := json.Unmarshal([]byte(strings.TrimSpace(reply)), &ins); err != nil {
		return Insights{}, fmt.Errorf("%w: insights decode: %v", ErrUpstream, err)
	}
	return ins, nil
}
