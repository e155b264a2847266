package agent

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"tierdesk/internal/classify"
	"tierdesk/internal/kb"
	"tierdesk/internal/model"
)

// General is the first-tier responder. It answers from the general fact
// table and escalates everything it cannot answer confidently. It has
// no side effects beyond the lookup.
type General struct {
	store      *kb.Store
	classifier *classify.Classifier
	threshold  int
	logger     *zap.Logger
}

// NewGeneral creates the general responder.
func NewGeneral(store *kb.Store, classifier *classify.Classifier, threshold int, logger *zap.Logger) *General {
	if threshold <= 0 {
		threshold = 75
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &General{
		store:      store,
		classifier: classifier,
		threshold:  threshold,
		logger:     logger,
	}
}

// Handle processes a single customer query. Sensitive queries escalate
// before the fact table is consulted, regardless of how well it would
// have matched.
func (g *General) Handle(ctx context.Context, query string) Response {
	if category, sensitive := g.classifier.Match(query); sensitive {
		g.logger.Info("sensitive query escalated",
			zap.String("category", category))
		return Escalate(ReasonSensitiveTopic)
	}

	res, err := g.store.Lookup(model.TierGeneral, query)
	if err != nil {
		if errors.Is(err, kb.ErrEmptyStore) {
			return Escalate(ReasonNoKnowledgeBase)
		}
		g.logger.Warn("general lookup failed", zap.Error(err))
		return Escalate(ReasonNoKnowledgeBase)
	}

	if res.Score >= g.threshold {
		return Answer(res.Entry.Answer, SourceGeneralKB, res.Score)
	}

	g.logger.Debug("low-confidence match escalated", zap.Int("score", res.Score))
	return Escalate(ReasonLowConfidence)
}
