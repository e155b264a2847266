package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"tierdesk/internal/model"
)

// fakeRunner answers every query with a canned conversation.
type fakeRunner struct {
	calls int32
	fail  bool
}

func (r *fakeRunner) Run(ctx context.Context, query string) (*model.Conversation, error) {
	atomic.AddInt32(&r.calls, 1)
	if r.fail {
		return nil, errors.New("runner failed")
	}
	return &model.Conversation{
		Query:       query,
		FinalAnswer: "answer for " + query,
	}, nil
}

func TestBatchProcessor_ProcessQueries(t *testing.T) {
	runner := &fakeRunner{}
	b := NewBatchProcessor(runner, 3)

	queries := []string{"q1", "q2", "q3", "q4", "q5"}
	results := b.ProcessQueries(context.Background(), queries)

	if len(results) != len(queries) {
		t.Fatalf("expected %d results, got %d", len(queries), len(results))
	}
	if atomic.LoadInt32(&runner.calls) != int32(len(queries)) {
		t.Errorf("expected %d runner calls, got %d", len(queries), runner.calls)
	}
	for _, res := range results {
		if res.Error != nil {
			t.Errorf("unexpected error for %q: %v", res.Query, res.Error)
		}
		if res.Conversation == nil || res.Conversation.FinalAnswer == "" {
			t.Errorf("expected a conversation for %q", res.Query)
		}
	}
}

func TestBatchProcessor_KeepsDuplicates(t *testing.T) {
	runner := &fakeRunner{}
	b := NewBatchProcessor(runner, 2)

	results := b.ProcessQueries(context.Background(), []string{"same", "same", "same"})
	if len(results) != 3 {
		t.Errorf("expected 3 results for duplicate queries, got %d", len(results))
	}
}

func TestBatchProcessor_Empty(t *testing.T) {
	b := NewBatchProcessor(&fakeRunner{}, 2)
	results := b.ProcessQueries(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestBatchProcessor_RunnerErrors(t *testing.T) {
	b := NewBatchProcessor(&fakeRunner{fail: true}, 2)

	results := b.ProcessQueries(context.Background(), []string{"q1", "q2"})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, res := range results {
		if res.GetError() == nil {
			t.Errorf("expected error for %q", res.Query)
		}
	}
}

func TestReadQueriesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.txt")
	content := "What are your store hours?\n\n# a comment\nWhere is my refund?\nWhere is my refund?\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	queries, err := ReadQueriesFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(queries) != 3 {
		t.Fatalf("expected 3 queries (duplicates kept), got %d: %v", len(queries), queries)
	}
	if queries[1] != "Where is my refund?" || queries[2] != "Where is my refund?" {
		t.Errorf("expected duplicates preserved, got %v", queries)
	}
}

func TestReadQueriesFromFile_Missing(t *testing.T) {
	_, err := ReadQueriesFromFile(filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
