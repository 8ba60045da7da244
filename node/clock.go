package node

// Clock is an optional external time source a node can be bound to.
// Presence of a clock plus the node's Live flag (§9 Open Questions:
// liveness is externally settable, not derived here) together gate
// whether ClockUpdate queries it.
type Clock interface {
	// Query returns the clock's current (rate, ticks, monotonic_time).
	// rateNum/rateDen express rate as a fraction.
	Query() (rateNum, rateDen int32, ticks uint64, monotonicNanos int64)
}
