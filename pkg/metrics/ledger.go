package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	pkgerrors "github.com/angelmondragon/stockledger-backend/pkg/errors"
)

const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeConflict = "conflict"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// LedgerMetrics records write outcomes and total recomputations for ledger records.
type LedgerMetrics struct {
	writes     *prometheus.CounterVec
	recomputes *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewLedgerMetrics registers the ledger metrics on the provided registerer.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	writes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_writes_total",
		Help: "Ledger record saves by entity and outcome.",
	}, []string{"entity", "outcome"})
	recomputes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_total_recomputes_total",
		Help: "Total amount recomputations by entity and outcome.",
	}, []string{"entity", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_total_recompute_duration_seconds",
		Help:    "Duration of total amount recomputations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"entity"})
	reg.MustRegister(writes, recomputes, duration)
	return &LedgerMetrics{
		writes:     writes,
		recomputes: recomputes,
		duration:   duration,
	}
}

// ObserveWrite counts a save attempt using the outcome derived from err.
func (m *LedgerMetrics) ObserveWrite(entity string, err error) {
	if m == nil || m.writes == nil {
		return
	}
	m.writes.WithLabelValues(normalizeLabel(entity), Outcome(err)).Inc()
}

// ObserveRecompute counts a recomputation and records how long it took.
func (m *LedgerMetrics) ObserveRecompute(entity string, took time.Duration, err error) {
	if m == nil || m.recomputes == nil {
		return
	}
	entity = normalizeLabel(entity)
	m.recomputes.WithLabelValues(entity, Outcome(err)).Inc()
	m.duration.WithLabelValues(entity).Observe(took.Seconds())
}

// Outcome maps an operation error onto a metric label value.
func Outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	switch {
	case pkgerrors.IsCode(err, pkgerrors.CodeValidation):
		return OutcomeRejected
	case pkgerrors.IsCode(err, pkgerrors.CodeConflict):
		return OutcomeConflict
	case pkgerrors.IsCode(err, pkgerrors.CodeNotFound):
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}

func normalizeLabel(entity string) string {
	if entity == "" {
		return "unknown"
	}
	return entity
}
