// Package metrics holds the Prometheus collectors exported by the wallet
// service. Collectors register with the default registry at init and are
// served by Handler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rwa"

var (
	// SessionTransitions counts session state changes by target state.
	SessionTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "session",
		Name:      "transitions_total",
		Help:      "Session state transitions by resulting state.",
	}, []string{"state"})

	// WatchTicks counts account watcher polls by outcome
	// ("unchanged", "changed", "error").
	WatchTicks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "watch",
		Name:      "ticks_total",
		Help:      "Account watcher poll ticks by outcome.",
	}, []string{"outcome"})

	// ComplianceRefreshes counts compliance fetches by outcome ("ok", "error").
	ComplianceRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "compliance",
		Name:      "refreshes_total",
		Help:      "Compliance snapshot refreshes by outcome.",
	}, []string{"outcome"})

	// Verdicts counts transfer authorization decisions by reason code.
	Verdicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "gate",
		Name:      "verdicts_total",
		Help:      "Transfer authorization verdicts by reason.",
	}, []string{"reason"})

	// Transfers counts executed transfers by final status.
	Transfers = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "transfer",
		Name:      "executions_total",
		Help:      "Transfer executions by status.",
	}, []string{"status"})
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
