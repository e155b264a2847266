package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"tierdesk/internal/agent"
	"tierdesk/internal/classify"
	"tierdesk/internal/kb"
	"tierdesk/internal/llm"
	"tierdesk/internal/model"
	"tierdesk/internal/session"
)

type fakeProvider struct {
	text string
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Complete(ctx context.Context, req llm.CompleteRequest) (*llm.CompleteResponse, error) {
	return &llm.CompleteResponse{Text: p.text, Model: "fake-model"}, nil
}

func (p *fakeProvider) IsAvailable(ctx context.Context) bool { return true }

func testServer() *Server {
	store := kb.NewStore(map[model.Tier][]model.FactEntry{
		model.TierGeneral: {
			{Question: "What are your store hours?", Answer: "We are open 9am-6pm Monday through Saturday."},
		},
		model.TierSenior: {
			{Question: "How do I request a warranty repair?", Answer: "Mail the item with your receipt."},
		},
	}, zap.NewNop())

	general := agent.NewGeneral(store, classify.New(nil), 75, zap.NewNop())
	senior := agent.NewSenior(agent.SeniorOptions{Store: store, Provider: &fakeProvider{text: "model reply"}})
	orch := session.New(general, senior, zap.NewNop())

	return New(":0", orch, store, zap.NewNop())
}

func TestHandleAsk(t *testing.T) {
	srv := testServer()
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/v1/ask", "application/json",
		strings.NewReader(`{"query": "What are your store hours?"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var conv model.Conversation
	if err := json.NewDecoder(resp.Body).Decode(&conv); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if conv.FinalAnswer != "We are open 9am-6pm Monday through Saturday." {
		t.Errorf("unexpected final answer: %q", conv.FinalAnswer)
	}
	if conv.Escalated {
		t.Error("expected no escalation")
	}
	if len(conv.Turns) != 2 {
		t.Errorf("expected 2 turns, got %d", len(conv.Turns))
	}
}

func TestHandleAsk_EscalatedQuery(t *testing.T) {
	srv := testServer()
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/v1/ask", "application/json",
		strings.NewReader(`{"query": "I found a foreign object in my order"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var conv model.Conversation
	if err := json.NewDecoder(resp.Body).Decode(&conv); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !conv.Escalated {
		t.Error("expected escalation")
	}
	if conv.Reason != agent.ReasonSensitiveTopic {
		t.Errorf("expected sensitive-topic reason, got %q", conv.Reason)
	}
}

func TestHandleAsk_BadRequests(t *testing.T) {
	srv := testServer()
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	for _, body := range []string{`not json`, `{"query": ""}`} {
		resp, err := http.Post(ts.URL+"/v1/ask", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("post: %v", err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, resp.StatusCode)
		}
	}
}

func TestHandleHealth(t *testing.T) {
	srv := testServer()
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var health struct {
		Status       string `json:"status"`
		GeneralFacts int    `json:"general_facts"`
		SeniorFacts  int    `json:"senior_facts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if health.Status != "ok" || health.GeneralFacts != 1 || health.SeniorFacts != 1 {
		t.Errorf("unexpected health payload: %+v", health)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := testServer()
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	// Drive one query through so counters exist.
	resp, err := http.Post(ts.URL+"/v1/ask", "application/json",
		strings.NewReader(`{"query": "What are your store hours?"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	_ = resp.Body.Close()

	metricsResp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer func() { _ = metricsResp.Body.Close() }()

	raw, err := io.ReadAll(metricsResp.Body)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	body := string(raw)

	if !strings.Contains(body, "tierdesk_queries_total 1") {
		t.Errorf("expected query counter in metrics output:\n%s", body)
	}
	if !strings.Contains(body, `tierdesk_kb_answers_total{tier="general"} 1`) {
		t.Errorf("expected kb hit counter in metrics output:\n%s", body)
	}
}
