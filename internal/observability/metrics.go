// Package observability wires engine lifecycle events into Prometheus
// metrics and structured logs.
package observability

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/ladle/pkg/domain"
)

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	StepVisits           *prometheus.CounterVec
	Utterances           *prometheus.CounterVec
	CollaboratorCalls    prometheus.Counter
	CollaboratorFailures prometheus.Counter
	CollaboratorDuration prometheus.Histogram
}

// NewMetrics creates and registers the collectors on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StepVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ladle_step_visits_total",
				Help: "Total number of step visits via navigation",
			},
			[]string{"recipe_id"},
		),
		Utterances: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ladle_utterances_total",
				Help: "Total utterances by classified intent",
			},
			[]string{"intent"},
		),
		CollaboratorCalls: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "ladle_collaborator_calls_total",
				Help: "Total calls to the answering collaborator",
			},
		),
		CollaboratorFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "ladle_collaborator_failures_total",
				Help: "Collaborator calls that errored or timed out",
			},
		),
		CollaboratorDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name: "ladle_collaborator_duration_seconds",
				Help: "Duration of answering collaborator calls",
			},
		),
	}

	reg.MustRegister(
		m.StepVisits,
		m.Utterances,
		m.CollaboratorCalls,
		m.CollaboratorFailures,
		m.CollaboratorDuration,
	)
	return m
}

// Hooks returns lifecycle hooks that record metrics and log each event.
func (m *Metrics) Hooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
			logger.Info("step_enter",
				"session_id", e.SessionID,
				"recipe_id", e.RecipeID,
				"step_index", e.StepIndex,
			)
			m.StepVisits.WithLabelValues(e.RecipeID).Inc()
		},
		OnIntentClassified: func(ctx context.Context, e *domain.IntentEvent) {
			logger.Debug("intent_classified",
				"session_id", e.SessionID,
				"intent", string(e.Intent),
			)
			m.Utterances.WithLabelValues(string(e.Intent)).Inc()
		},
		OnCollaboratorCall: func(ctx context.Context, e *domain.CollaboratorEvent) {
			logger.Info("collaborator_call",
				"session_id", e.SessionID,
				"intent", string(e.Intent),
			)
			m.CollaboratorCalls.Inc()
		},
		OnCollaboratorReturn: func(ctx context.Context, e *domain.CollaboratorEvent) {
			logger.Info("collaborator_return",
				"session_id", e.SessionID,
				"intent", string(e.Intent),
				"elapsed", e.Elapsed,
				"is_error", e.IsError,
			)
			m.CollaboratorDuration.Observe(e.Elapsed.Seconds())
			if e.IsError {
				m.CollaboratorFailures.Inc()
			}
		},
	}
}
