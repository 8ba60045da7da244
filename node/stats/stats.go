// Package stats registers the Prometheus collectors the node package
// exercises, the way the teacher's stats package centralizes the
// Tracker a runner pushes samples into, except kept to a flat set of
// package-level collectors rather than a name->statsValue Tracker map
// (no StatsD/JSON dual-backend split to preserve here).
package stats

import "github.com/prometheus/client_golang/prometheus"

var (
	// StateTransitions counts each committed state-machine transition
	// by (from, to), mirroring §4.4's transition table.
	StateTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "node",
		Name:      "state_transitions_total",
		Help:      "Committed node state transitions by from/to state.",
	}, []string{"from", "to"})

	// PortsChanged counts port-set reconciliation outcomes by
	// (direction, op): add or remove (§4.2).
	PortsChanged = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "node",
		Name:      "ports_changed_total",
		Help:      "Ports added or removed during reconciliation, by direction and op.",
	}, []string{"direction", "op"})

	// CommandCompletions counts command-channel outcomes by (kind,
	// result), where result is "ok" or "error" (§4.3).
	CommandCompletions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "node",
		Name:      "command_completions_total",
		Help:      "Command completions by command kind and result.",
	}, []string{"kind", "result"})

	// WorkQueueDepth reports the number of entries currently pending
	// per owning node (C1), sampled on Submit/Complete/Cancel.
	WorkQueueDepth = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "node",
		Name:      "work_queue_depth",
		Help:      "Pending work-queue entries for the owning node.",
	}, []string{"owner"})
)

// MustRegister installs every collector above into reg. Called once,
// by whatever main composes this package into a /metrics endpoint; the
// core itself never reaches for a default/global registry.
func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(StateTransitions, PortsChanged, CommandCompletions, WorkQueueDepth)
}
