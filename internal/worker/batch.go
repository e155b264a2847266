package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"tierdesk/internal/model"
)

// Runner runs a full orchestration for one customer query.
type Runner interface {
	Run(ctx context.Context, query string) (*model.Conversation, error)
}

// QueryJob is one query run submitted to the pool.
type QueryJob struct {
	Query  string
	Runner Runner
}

// Execute executes the query job
func (j *QueryJob) Execute(ctx context.Context) Result {
	conv, err := j.Runner.Run(ctx, j.Query)
	return &QueryResult{
		Query:        j.Query,
		Conversation: conv,
		Error:        err,
	}
}

// QueryResult is the result of a query job
type QueryResult struct {
	Query        string
	Conversation *model.Conversation
	Error        error
}

// GetError returns the error from the query result
func (r *QueryResult) GetError() error {
	return r.Error
}

// BatchProcessor runs many independent query orchestrations concurrently.
type BatchProcessor struct {
	runner      Runner
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(runner Runner, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		runner:      runner,
		concurrency: concurrency,
	}
}

// ProcessQueries runs the queries through the worker pool. Duplicate
// queries are kept: each line is an independent customer interaction.
func (b *BatchProcessor) ProcessQueries(ctx context.Context, queries []string) []*QueryResult {
	if len(queries) == 0 {
		return []*QueryResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, query := range queries {
		pool.Submit(&QueryJob{
			Query:  query,
			Runner: b.runner,
		})
	}

	results := pool.Wait()

	queryResults := make([]*QueryResult, len(results))
	for i, result := range results {
		queryResults[i] = result.(*QueryResult)
	}

	return queryResults
}

// ProcessFile reads queries from a file and runs them concurrently.
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*QueryResult, error) {
	queries, err := ReadQueriesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read queries: %w", err)
	}

	return b.ProcessQueries(ctx, queries), nil
}

// ReadQueriesFromFile reads queries from a file, one per line. Blank
// lines and #-comments are skipped; duplicates are preserved.
func ReadQueriesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var queries []string

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		queries = append(queries, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return queries, nil
}
