package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCoreMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCoreMetrics(reg)

	m.IncGateDecision("approved", false)
	m.IncGateDecision("held", true)
	m.IncLedgerAppend("sale")
	m.IncLedgerAppend("")
	m.IncVaultUnlock("ok")

	if got := testutil.ToFloat64(m.gateDecisions.WithLabelValues("approved", "false")); got != 1 {
		t.Fatalf("expected 1 approved decision, got %v", got)
	}
	if got := testutil.ToFloat64(m.gateDecisions.WithLabelValues("held", "true")); got != 1 {
		t.Fatalf("expected 1 held fallback decision, got %v", got)
	}
	if got := testutil.ToFloat64(m.ledgerAppends.WithLabelValues("unknown")); got != 1 {
		t.Fatalf("empty kind should count as unknown, got %v", got)
	}
}

func TestCoreMetricsNilSafe(t *testing.T) {
	var m *CoreMetrics
	m.IncGateDecision("approved", false)
	m.IncLedgerAppend("sale")
	m.IncVaultUnlock("ok")

	empty := NewCoreMetrics(nil)
	empty.IncGateDecision("approved", true)
}
