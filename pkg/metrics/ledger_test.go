package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	pkgerrors "github.com/angelmondragon/stockledger-backend/pkg/errors"
)

func TestLedgerMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewLedgerMetrics(reg)
	metrics.ObserveWrite("stock_item", nil)
	metrics.ObserveWrite("stock_item", pkgerrors.New(pkgerrors.CodeValidation, "Insufficient stock"))
	metrics.ObserveRecompute("sale", 250*time.Millisecond, nil)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	labelsOK := map[string]string{"entity": "stock_item", "outcome": OutcomeOK}
	if got, err := fetchCounterValue(mfs, "ledger_writes_total", labelsOK); err != nil {
		t.Fatalf("fetch ok writes: %v", err)
	} else if got != 1 {
		t.Fatalf("expected ok writes=1, got %f", got)
	}

	labelsRejected := map[string]string{"entity": "stock_item", "outcome": OutcomeRejected}
	if got, err := fetchCounterValue(mfs, "ledger_writes_total", labelsRejected); err != nil {
		t.Fatalf("fetch rejected writes: %v", err)
	} else if got != 1 {
		t.Fatalf("expected rejected writes=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "ledger_total_recomputes_total", map[string]string{"entity": "sale", "outcome": OutcomeOK}); err != nil {
		t.Fatalf("fetch recomputes: %v", err)
	} else if got != 1 {
		t.Fatalf("expected recomputes=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "ledger_total_recompute_duration_seconds", map[string]string{"entity": "sale"}); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestLedgerMetricsNilSafe(t *testing.T) {
	var metrics *LedgerMetrics
	metrics.ObserveWrite("brand", nil)
	metrics.ObserveRecompute("stock", time.Second, nil)

	unregistered := NewLedgerMetrics(nil)
	unregistered.ObserveWrite("brand", errors.New("boom"))
	unregistered.ObserveRecompute("stock", time.Second, nil)
}

func TestOutcome(t *testing.T) {
	cases := map[string]error{
		OutcomeOK:       nil,
		OutcomeRejected: pkgerrors.New(pkgerrors.CodeValidation, "bad"),
		OutcomeConflict: pkgerrors.New(pkgerrors.CodeConflict, "dup"),
		OutcomeNotFound: pkgerrors.New(pkgerrors.CodeNotFound, "missing"),
		OutcomeError:    errors.New("boom"),
	}
	for want, err := range cases {
		if got := Outcome(err); got != want {
			t.Fatalf("Outcome(%v) = %q, want %q", err, got, want)
		}
	}
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	matched := 0
	for _, pair := range pairs {
		if v, ok := want[pair.GetName()]; ok && v == pair.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
