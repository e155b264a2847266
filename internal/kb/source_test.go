package kb

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"tierdesk/internal/model"
)

func TestLoad_CSV(t *testing.T) {
	res := Load(Source{
		Tier: model.TierGeneral,
		Path: filepath.Join("testdata", "general.csv"),
	}, zap.NewNop())

	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if len(res.Entries) != 3 {
		t.Errorf("expected 3 valid entries, got %d", len(res.Entries))
	}
	if res.Skipped != 2 {
		t.Errorf("expected 2 skipped rows, got %d", res.Skipped)
	}
	if res.Entries[0].Question != "What are your store hours?" {
		t.Errorf("unexpected first entry: %+v", res.Entries[0])
	}
}

func TestLoad_CSVMissingFile(t *testing.T) {
	res := Load(Source{
		Tier: model.TierGeneral,
		Path: filepath.Join(t.TempDir(), "missing.csv"),
	}, zap.NewNop())

	if res.Err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_UnknownFormat(t *testing.T) {
	res := Load(Source{Tier: model.TierGeneral, Path: "x", Format: "xml"}, zap.NewNop())
	if res.Err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestLoad_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facts.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE facts (question TEXT, answer TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO facts (question, answer) VALUES
		('What are your store hours?', 'We are open 9am-6pm.'),
		('', 'orphan answer'),
		('Do you ship internationally?', 'Yes, to over 40 countries.')`); err != nil {
		t.Fatalf("insert rows: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close database: %v", err)
	}

	res := Load(Source{
		Tier:   model.TierSenior,
		Path:   path,
		Format: "sqlite",
	}, zap.NewNop())

	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if len(res.Entries) != 2 {
		t.Errorf("expected 2 valid entries, got %d", len(res.Entries))
	}
	if res.Skipped != 1 {
		t.Errorf("expected 1 skipped row, got %d", res.Skipped)
	}
}

func TestLoad_SQLiteBadTableName(t *testing.T) {
	res := Load(Source{
		Tier:   model.TierGeneral,
		Path:   filepath.Join(t.TempDir(), "facts.db"),
		Format: "sqlite",
		Table:  "facts; DROP TABLE facts",
	}, zap.NewNop())

	if res.Err == nil {
		t.Fatal("expected error for invalid table name")
	}
}

func TestNewStoreFromSources_OneTierFails(t *testing.T) {
	store, err := NewStoreFromSources(
		Source{Tier: model.TierGeneral, Path: filepath.Join(t.TempDir(), "missing.csv")},
		Source{Tier: model.TierSenior, Path: filepath.Join("testdata", "senior.csv")},
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("one healthy tier should be enough: %v", err)
	}

	if _, err := store.Lookup(model.TierGeneral, "anything"); !errors.Is(err, ErrEmptyStore) {
		t.Errorf("expected ErrEmptyStore for the failed tier, got %v", err)
	}
	if store.Count(model.TierSenior) != 2 {
		t.Errorf("expected 2 senior entries, got %d", store.Count(model.TierSenior))
	}
}

func TestNewStoreFromSources_BothTiersFail(t *testing.T) {
	dir := t.TempDir()
	_, err := NewStoreFromSources(
		Source{Tier: model.TierGeneral, Path: filepath.Join(dir, "a.csv")},
		Source{Tier: model.TierSenior, Path: filepath.Join(dir, "b.csv")},
		zap.NewNop(),
	)
	if err == nil {
		t.Fatal("expected startup to fail when both fact tables are unavailable")
	}
}
