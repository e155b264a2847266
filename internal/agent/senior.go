package agent

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"tierdesk/internal/cache"
	"tierdesk/internal/kb"
	"tierdesk/internal/llm"
	"tierdesk/internal/model"
	"tierdesk/internal/worker"
)

// DeferralAnswer is sent to the customer when the model cannot produce
// a reply. Raw provider errors never reach the transcript.
const DeferralAnswer = "I'm sorry, I wasn't able to resolve this for you right now. " +
	"I've recorded the details of your request and a member of our team " +
	"will follow up with you shortly."

// Senior is the second-tier responder. It answers from the senior fact
// table when it can and falls back to a model completion otherwise. It
// always produces an answer.
type Senior struct {
	store     *kb.Store
	provider  llm.Provider
	answers   cache.Cache
	limiter   *worker.Limiter
	threshold int
	maxTokens int
	logger    *zap.Logger
}

// SeniorOptions configures the senior responder. Provider, Answers and
// Limiter may all be nil.
type SeniorOptions struct {
	Store     *kb.Store
	Provider  llm.Provider
	Answers   cache.Cache
	Limiter   *worker.Limiter
	Threshold int
	MaxTokens int
	Logger    *zap.Logger
}

// NewSenior creates the senior responder.
func NewSenior(opts SeniorOptions) *Senior {
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = 75
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Senior{
		store:     opts.Store,
		provider:  opts.Provider,
		answers:   opts.Answers,
		limiter:   opts.Limiter,
		threshold: threshold,
		maxTokens: opts.MaxTokens,
		logger:    logger,
	}
}

// Handle processes an escalated query. The senior fact table is
// authoritative: a confident hit there is returned even when the
// general responder already failed to match. Everything else goes to
// the model, and any model failure degrades to the deferral answer.
func (s *Senior) Handle(ctx context.Context, query, reason string) Response {
	res, err := s.store.Lookup(model.TierSenior, query)
	if err == nil && res.Score >= s.threshold {
		return Answer(res.Entry.Answer, SourceSeniorKB, res.Score)
	}
	if err != nil && !errors.Is(err, kb.ErrEmptyStore) {
		s.logger.Warn("senior lookup failed", zap.Error(err))
	}

	return s.completeWithModel(ctx, query, reason)
}

func (s *Senior) completeWithModel(ctx context.Context, query, reason string) Response {
	cacheKey := cache.Key("senior-answer\x00" + reason + "\x00" + query)

	if s.answers != nil {
		if data, found := s.answers.Get(cacheKey); found {
			return Answer(string(data), SourceModel, 0)
		}
	}

	if s.provider == nil {
		s.logger.Warn("no model provider configured, deferring",
			zap.String("reason", reason))
		return Answer(DeferralAnswer, SourceDeferral, 0)
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, s.provider.Name()); err != nil {
			s.logger.Warn("rate limiter wait failed, deferring", zap.Error(err))
			return Answer(DeferralAnswer, SourceDeferral, 0)
		}
	}

	resp, err := s.provider.Complete(ctx, llm.CompleteRequest{
		Query:     query,
		Reason:    reason,
		MaxTokens: s.maxTokens,
	})
	if err != nil {
		s.logger.Warn("model completion failed, deferring",
			zap.String("provider", s.provider.Name()),
			zap.Error(err))
		return Answer(DeferralAnswer, SourceDeferral, 0)
	}

	if s.answers != nil {
		if err := s.answers.Set(cacheKey, []byte(resp.Text), 0); err != nil {
			s.logger.Debug("answer cache write failed", zap.Error(err))
		}
	}

	s.logger.Info("model completion served",
		zap.String("provider", s.provider.Name()),
		zap.String("model", resp.Model),
		zap.Int("tokens", resp.TokensUsed))

	return Answer(resp.Text, SourceModel, 0)
}
