package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewOpenAIProvider_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIProvider(Config{})
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestOpenAIProvider_Complete(t *testing.T) {
	var gotBody struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "We will replace the unit free of charge."}}],
			"usage": {"total_tokens": 42}
		}`))
	}))
	defer server.Close()

	p, err := NewOpenAIProvider(Config{
		APIKey:  "test-key",
		BaseURL: server.URL + "/v1",
		Model:   "gpt-4o-mini",
	})
	if err != nil {
		t.Fatalf("create provider: %v", err)
	}

	resp, err := p.Complete(context.Background(), CompleteRequest{
		Query:  "my blender stopped working",
		Reason: "low-confidence-match",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Text != "We will replace the unit free of charge." {
		t.Errorf("unexpected text: %q", resp.Text)
	}
	if resp.TokensUsed != 42 {
		t.Errorf("expected 42 tokens, got %d", resp.TokensUsed)
	}

	if len(gotBody.Messages) != 2 {
		t.Fatalf("expected system + user messages, got %d", len(gotBody.Messages))
	}
	if gotBody.Messages[0].Role != "system" {
		t.Errorf("expected first message to be system, got %q", gotBody.Messages[0].Role)
	}
	if !strings.Contains(gotBody.Messages[1].Content, "my blender stopped working") {
		t.Error("expected prompt to contain the customer query")
	}
	if !strings.Contains(gotBody.Messages[1].Content, "low-confidence-match") {
		t.Error("expected prompt to contain the escalation reason")
	}
}

func TestOpenAIProvider_CompleteAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	p, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL + "/v1"})
	if err != nil {
		t.Fatalf("create provider: %v", err)
	}

	_, err = p.Complete(context.Background(), CompleteRequest{Query: "hello"})
	if err == nil {
		t.Fatal("expected error from API failure")
	}
}

func TestOpenAIProvider_Name(t *testing.T) {
	p, err := NewOpenAIProvider(Config{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("create provider: %v", err)
	}
	if p.Name() != "openai" {
		t.Errorf("expected name openai, got %q", p.Name())
	}
}
