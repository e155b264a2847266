package server

import (
	"github.com/prometheus/client_golang/prometheus"

	"tierdesk/internal/agent"
	"tierdesk/internal/model"
)

// Metrics holds the prometheus collectors for the ask endpoint. Each
// server owns its own registry so tests can run side by side.
type Metrics struct {
	registry *prometheus.Registry

	queries     prometheus.Counter
	escalations *prometheus.CounterVec
	kbHits      *prometheus.CounterVec
	deferrals   prometheus.Counter
	modelCalls  prometheus.Counter
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		queries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tierdesk_queries_total",
			Help: "Total customer queries processed.",
		}),
		escalations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tierdesk_escalations_total",
			Help: "Queries escalated to the senior tier, by reason.",
		}, []string{"reason"}),
		kbHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tierdesk_kb_answers_total",
			Help: "Answers served from a fact table, by tier.",
		}, []string{"tier"}),
		deferrals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tierdesk_deferrals_total",
			Help: "Queries answered with the deferral message.",
		}),
		modelCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tierdesk_model_answers_total",
			Help: "Answers generated by the language model.",
		}),
	}

	m.registry.MustRegister(m.queries, m.escalations, m.kbHits, m.deferrals, m.modelCalls)

	return m
}

// Observe records one completed conversation.
func (m *Metrics) Observe(conv *model.Conversation) {
	m.queries.Inc()

	if conv.Escalated {
		m.escalations.WithLabelValues(conv.Reason).Inc()
	}

	switch conv.AnswerSource {
	case agent.SourceGeneralKB:
		m.kbHits.WithLabelValues(string(model.TierGeneral)).Inc()
	case agent.SourceSeniorKB:
		m.kbHits.WithLabelValues(string(model.TierSenior)).Inc()
	case agent.SourceModel:
		m.modelCalls.Inc()
	case agent.SourceDeferral:
		m.deferrals.Inc()
	}
}
