package kb

import (
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"tierdesk/internal/cache"
	"tierdesk/internal/model"
)

// ErrEmptyStore is returned by Lookup when the requested tier holds no
// entries. Callers decide whether this escalates or falls through to the
// model; the store itself never does either.
var ErrEmptyStore = errors.New("fact table is empty")

// Store holds the loaded fact tables for both tiers. It is read-only
// after construction and safe for concurrent readers.
type Store struct {
	entries map[model.Tier][]model.FactEntry
	memo    cache.Cache
	logger  *zap.Logger
}

// NewStore builds a store from already-loaded entries. Entry order is
// preserved: on score ties the earliest entry wins.
func NewStore(entries map[model.Tier][]model.FactEntry, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	copied := make(map[model.Tier][]model.FactEntry, len(entries))
	for tier, list := range entries {
		copied[tier] = append([]model.FactEntry(nil), list...)
	}
	return &Store{
		entries: copied,
		memo:    cache.NewMemoryCache(0, 0),
		logger:  logger,
	}
}

// Count returns the number of entries loaded for a tier.
func (s *Store) Count(tier model.Tier) int {
	return len(s.entries[tier])
}

// Lookup finds the entry whose question is most similar to the query.
// The result carries the raw score; no threshold is applied here.
// Results are memoized per (tier, query), which also guarantees that
// repeated identical lookups return identical results.
func (s *Store) Lookup(tier model.Tier, query string) (model.MatchResult, error) {
	list := s.entries[tier]
	if len(list) == 0 {
		return model.MatchResult{}, ErrEmptyStore
	}

	key := cache.Key(string(tier) + "\x00" + query)
	if data, found := s.memo.Get(key); found {
		var cached model.MatchResult
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	best := model.MatchResult{
		Entry: list[0],
		Score: Similarity(query, list[0].Question),
	}
	for _, entry := range list[1:] {
		score := Similarity(query, entry.Question)
		if score > best.Score {
			best = model.MatchResult{Entry: entry, Score: score}
		}
	}

	if data, err := json.Marshal(best); err == nil {
		_ = s.memo.Set(key, data, 0)
	}

	s.logger.Debug("kb lookup",
		zap.String("tier", string(tier)),
		zap.Int("score", best.Score))

	return best, nil
}
