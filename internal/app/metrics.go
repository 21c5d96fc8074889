package app

import (
	"github.com/prometheus/client_golang/prometheus"

	"food-quiz-service/internal/domain"
)

// Metrics counts quiz activity. A nil *Metrics records nothing.
type Metrics struct {
	started     prometheus.Counter
	completed   prometheus.Counter
	guesses     *prometheus.CounterVec
	unavailable *prometheus.CounterVec
}

// NewMetrics registers the quiz collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		started: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "foodquiz",
			Name:      "quizzes_started_total",
			Help:      "Quizzes started or reset.",
		}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "foodquiz",
			Name:      "quizzes_completed_total",
			Help:      "Quizzes finished with all dishes identified.",
		}),
		guesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "foodquiz",
			Name:      "guesses_total",
			Help:      "Guesses submitted, by outcome.",
		}, []string{"outcome"}),
		unavailable: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "foodquiz",
			Name:      "catalog_unavailable_total",
			Help:      "Categories skipped because their listing failed.",
		}, []string{"category"}),
	}
	reg.MustRegister(m.started, m.completed, m.guesses, m.unavailable)
	return m
}

func (m *Metrics) observeStart() {
	if m == nil {
		return
	}
	m.started.Inc()
}

func (m *Metrics) observeGuess(o domain.Outcome) {
	if m == nil {
		return
	}
	m.guesses.WithLabelValues(string(o.Kind)).Inc()
	if o.Kind == domain.OutcomeQuizComplete {
		m.completed.Inc()
	}
}

func (m *Metrics) observeUnavailable(c domain.Category) {
	if m == nil {
		return
	}
	m.unavailable.WithLabelValues(string(c)).Inc()
}
