package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tierdesk/internal/agent"
	"tierdesk/internal/model"
)

// State tracks where a conversation run is in its lifecycle.
type State int

const (
	StateAwaitingGeneral State = iota
	StateAwaitingSenior
	StateDone
)

func (s State) String() string {
	switch s {
	case StateAwaitingGeneral:
		return "awaiting-general"
	case StateAwaitingSenior:
		return "awaiting-senior"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Orchestrator drives a single customer query through the two responder
// tiers. Each Run handles exactly one query, invokes at most two
// responders, never loops back, and always terminates in StateDone.
type Orchestrator struct {
	general *agent.General
	senior  *agent.Senior
	logger  *zap.Logger
}

// New creates an orchestrator.
func New(general *agent.General, senior *agent.Senior, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		general: general,
		senior:  senior,
		logger:  logger,
	}
}

// Run processes one customer query and returns the full transcript.
// The conversation is built fresh for every call and nothing persists
// between runs.
func (o *Orchestrator) Run(ctx context.Context, query string) (*model.Conversation, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query must not be empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conv := &model.Conversation{
		ID:    uuid.NewString(),
		Query: query,
		Turns: []model.Turn{
			{Speaker: model.SpeakerCustomer, Text: query},
		},
	}

	state := StateAwaitingGeneral
	for state != StateDone {
		switch state {
		case StateAwaitingGeneral:
			resp := o.general.Handle(ctx, query)
			if resp.Kind == agent.KindAnswer {
				conv.Turns = append(conv.Turns, model.Turn{
					Speaker: model.SpeakerGeneral,
					Text:    resp.Text,
				})
				conv.FinalAnswer = resp.Text
				conv.AnswerSource = resp.Source
				state = StateDone
				break
			}

			conv.Escalated = true
			conv.Reason = resp.Reason
			conv.Turns = append(conv.Turns, model.Turn{
				Speaker: model.SpeakerGeneral,
				Text:    fmt.Sprintf("I need to escalate this to our senior team (%s).", resp.Reason),
			})
			state = StateAwaitingSenior

		case StateAwaitingSenior:
			resp := o.senior.Handle(ctx, query, conv.Reason)
			conv.Turns = append(conv.Turns, model.Turn{
				Speaker: model.SpeakerSenior,
				Text:    resp.Text,
			})
			conv.FinalAnswer = resp.Text
			conv.AnswerSource = resp.Source
			state = StateDone
		}
	}

	o.logger.Info("conversation complete",
		zap.String("id", conv.ID),
		zap.Bool("escalated", conv.Escalated),
		zap.String("source", conv.AnswerSource))

	return conv, nil
}
