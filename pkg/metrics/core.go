package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CoreMetrics counts the operations the dashboard core performs.
type CoreMetrics struct {
	gateDecisions *prometheus.CounterVec
	ledgerAppends *prometheus.CounterVec
	vaultUnlocks  *prometheus.CounterVec
}

// NewCoreMetrics registers the core counters on the provided registerer.
func NewCoreMetrics(reg prometheus.Registerer) *CoreMetrics {
	if reg == nil {
		return &CoreMetrics{}
	}
	gateDecisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gate_decisions_total",
		Help: "Verification gate decisions by outcome and fallback usage.",
	}, []string{"outcome", "fallback"})
	ledgerAppends := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_appends_total",
		Help: "Ledger entries appended by kind.",
	}, []string{"kind"})
	vaultUnlocks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vault_unlocks_total",
		Help: "Vault unlock attempts by result.",
	}, []string{"result"})
	reg.MustRegister(gateDecisions, ledgerAppends, vaultUnlocks)
	return &CoreMetrics{
		gateDecisions: gateDecisions,
		ledgerAppends: ledgerAppends,
		vaultUnlocks:  vaultUnlocks,
	}
}

// IncGateDecision records one gate decision.
func (m *CoreMetrics) IncGateDecision(outcome string, fallback bool) {
	if m == nil || m.gateDecisions == nil {
		return
	}
	used := "false"
	if fallback {
		used = "true"
	}
	m.gateDecisions.WithLabelValues(normalizeLabel(outcome), used).Inc()
}

// IncLedgerAppend records one appended entry.
func (m *CoreMetrics) IncLedgerAppend(kind string) {
	if m == nil || m.ledgerAppends == nil {
		return
	}
	m.ledgerAppends.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncVaultUnlock records one unlock attempt.
func (m *CoreMetrics) IncVaultUnlock(result string) {
	if m == nil || m.vaultUnlocks == nil {
		return
	}
	m.vaultUnlocks.WithLabelValues(normalizeLabel(result)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
