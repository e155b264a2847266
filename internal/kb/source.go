package kb

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"tierdesk/internal/model"
)

// Source describes where one tier's fact table comes from.
type Source struct {
	Tier   model.Tier
	Path   string
	Format string // "csv" or "sqlite"; empty means csv
	Table  string // sqlite table name; empty means "facts"
}

// LoadResult reports what a single source load produced.
type LoadResult struct {
	Tier    model.Tier
	Entries []model.FactEntry
	Skipped int
	Err     error
}

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Load reads a single source. Malformed rows are logged and skipped;
// only a failure to open or read the source at all is returned as an
// error. A readable source with zero valid rows loads as empty.
func Load(src Source, logger *zap.Logger) LoadResult {
	if logger == nil {
		logger = zap.NewNop()
	}

	var entries []model.FactEntry
	var skipped int
	var err error

	switch strings.ToLower(src.Format) {
	case "", "csv":
		entries, skipped, err = loadCSV(src.Path, logger)
	case "sqlite":
		entries, skipped, err = loadSQLite(src.Path, src.Table, logger)
	default:
		err = fmt.Errorf("unknown fact source format: %s", src.Format)
	}

	return LoadResult{Tier: src.Tier, Entries: entries, Skipped: skipped, Err: err}
}

// NewStoreFromSources loads both tiers and builds a store. A tier whose
// source fails loads as empty; startup aborts only when both fail.
func NewStoreFromSources(general, senior Source, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	entries := make(map[model.Tier][]model.FactEntry)
	var failures int

	for _, res := range []LoadResult{Load(general, logger), Load(senior, logger)} {
		if res.Err != nil {
			failures++
			logger.Warn("fact table unavailable",
				zap.String("tier", string(res.Tier)),
				zap.Error(res.Err))
			continue
		}
		entries[res.Tier] = res.Entries
		logger.Info("fact table loaded",
			zap.String("tier", string(res.Tier)),
			zap.Int("entries", len(res.Entries)),
			zap.Int("skipped", res.Skipped))
	}

	if failures == 2 {
		return nil, errors.New("no fact tables could be loaded")
	}

	return NewStore(entries, logger), nil
}

// loadCSV reads Question,Answer rows from a CSV file. The first row is
// treated as a header when it looks like one.
func loadCSV(path string, logger *zap.Logger) ([]model.FactEntry, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open fact table: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var entries []model.FactEntry
	var skipped int
	line := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			skipped++
			logger.Warn("skipping malformed row",
				zap.String("path", path),
				zap.Int("line", line),
				zap.Error(err))
			continue
		}

		if line == 1 && isHeader(record) {
			continue
		}

		if len(record) < 2 || strings.TrimSpace(record[0]) == "" || strings.TrimSpace(record[1]) == "" {
			skipped++
			logger.Warn("skipping malformed row",
				zap.String("path", path),
				zap.Int("line", line))
			continue
		}

		entries = append(entries, model.FactEntry{
			Question: strings.TrimSpace(record[0]),
			Answer:   strings.TrimSpace(record[1]),
		})
	}

	return entries, skipped, nil
}

func isHeader(record []string) bool {
	return len(record) >= 2 &&
		strings.EqualFold(strings.TrimSpace(record[0]), "question") &&
		strings.EqualFold(strings.TrimSpace(record[1]), "answer")
}

// loadSQLite reads question/answer rows from a SQLite table.
func loadSQLite(path, table string, logger *zap.Logger) ([]model.FactEntry, int, error) {
	if table == "" {
		table = "facts"
	}
	if !tableNamePattern.MatchString(table) {
		return nil, 0, fmt.Errorf("invalid table name: %s", table)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, 0, fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.Query(fmt.Sprintf("SELECT question, answer FROM %s ORDER BY rowid", table))
	if err != nil {
		return nil, 0, fmt.Errorf("query fact table: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.FactEntry
	var skipped int

	for rows.Next() {
		var question, answer sql.NullString
		if err := rows.Scan(&question, &answer); err != nil {
			skipped++
			logger.Warn("skipping malformed row", zap.String("table", table), zap.Error(err))
			continue
		}
		if !question.Valid || !answer.Valid ||
			strings.TrimSpace(question.String) == "" || strings.TrimSpace(answer.String) == "" {
			skipped++
			logger.Warn("skipping malformed row", zap.String("table", table))
			continue
		}
		entries = append(entries, model.FactEntry{
			Question: strings.TrimSpace(question.String),
			Answer:   strings.TrimSpace(answer.String),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("read fact table: %w", err)
	}

	return entries, skipped, nil
}
