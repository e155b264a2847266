package agent

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"tierdesk/internal/classify"
	"tierdesk/internal/kb"
	"tierdesk/internal/model"
)

func generalStore(entries ...model.FactEntry) *kb.Store {
	return kb.NewStore(map[model.Tier][]model.FactEntry{
		model.TierGeneral: entries,
	}, zap.NewNop())
}

func TestGeneral_AnswersVerbatim(t *testing.T) {
	store := generalStore(
		model.FactEntry{Question: "What are your store hours?", Answer: "We are open 9am-6pm Monday through Saturday."},
		model.FactEntry{Question: "Do you ship internationally?", Answer: "Yes, we ship to over 40 countries."},
	)
	g := NewGeneral(store, classify.New(nil), 75, zap.NewNop())

	resp := g.Handle(context.Background(), "What are your store hours?")
	if resp.Kind != KindAnswer {
		t.Fatalf("expected an answer, got escalation %q", resp.Reason)
	}
	if resp.Text != "We are open 9am-6pm Monday through Saturday." {
		t.Errorf("expected the stored answer verbatim, got %q", resp.Text)
	}
	if resp.Source != SourceGeneralKB {
		t.Errorf("expected source %q, got %q", SourceGeneralKB, resp.Source)
	}
}

func TestGeneral_SensitivityBeatsPerfectMatch(t *testing.T) {
	// The store holds an exact match for the query, but the query is
	// sensitive, so it must escalate without consulting the store.
	store := generalStore(
		model.FactEntry{Question: "I found a foreign object in my food", Answer: "should never be returned"},
	)
	g := NewGeneral(store, classify.New(nil), 75, zap.NewNop())

	resp := g.Handle(context.Background(), "I found a foreign object in my food")
	if resp.Kind != KindEscalate {
		t.Fatalf("expected escalation, got answer %q", resp.Text)
	}
	if resp.Reason != ReasonSensitiveTopic {
		t.Errorf("expected reason %q, got %q", ReasonSensitiveTopic, resp.Reason)
	}
}

func TestGeneral_EmptyStoreEscalates(t *testing.T) {
	g := NewGeneral(generalStore(), classify.New(nil), 75, zap.NewNop())

	resp := g.Handle(context.Background(), "What are your store hours?")
	if resp.Kind != KindEscalate {
		t.Fatalf("expected escalation, got answer %q", resp.Text)
	}
	if resp.Reason != ReasonNoKnowledgeBase {
		t.Errorf("expected reason %q, got %q", ReasonNoKnowledgeBase, resp.Reason)
	}
}

func TestGeneral_LowConfidenceEscalates(t *testing.T) {
	store := generalStore(
		model.FactEntry{Question: "What are your store hours?", Answer: "We are open 9am-6pm."},
	)
	g := NewGeneral(store, classify.New(nil), 75, zap.NewNop())

	resp := g.Handle(context.Background(), "qwfp zxcv asdg jklh")
	if resp.Kind != KindEscalate {
		t.Fatalf("expected escalation, got answer %q", resp.Text)
	}
	if resp.Reason != ReasonLowConfidence {
		t.Errorf("expected reason %q, got %q", ReasonLowConfidence, resp.Reason)
	}
}

func TestGeneral_ThresholdConfigurable(t *testing.T) {
	store := generalStore(
		model.FactEntry{Question: "what are your store hours today", Answer: "We are open 9am-6pm."},
	)

	// A near-match that clears the default threshold but not a strict one.
	query := "what are your store hours"

	relaxed := NewGeneral(store, classify.New(nil), 75, zap.NewNop())
	if resp := relaxed.Handle(context.Background(), query); resp.Kind != KindAnswer {
		t.Errorf("expected answer at threshold 75, got escalation %q", resp.Reason)
	}

	strict := NewGeneral(store, classify.New(nil), 100, zap.NewNop())
	if resp := strict.Handle(context.Background(), query); resp.Kind != KindEscalate {
		t.Errorf("expected escalation at threshold 100, got answer %q", resp.Text)
	}
}
