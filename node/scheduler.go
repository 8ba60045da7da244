package node

// VertexHandle identifies a node's registration inside the graph
// scheduler. It is only valid from init-complete until destroy's
// real-time phase removes it (invariant 3, §8).
type VertexHandle uint64

// Scheduler is the real-time graph scheduler the core participates
// in. It is consumed, not designed, here: the core calls Add/Remove to
// join/leave the graph and Pull/Push/Iterate to respond to demand
// signals from the processing element. Implementations run their own
// internal graph algorithm; this core only ever asks for the next
// unit of progress.
type Scheduler interface {
	// AddVertex installs elem as a schedulable unit under the default
	// policy and returns its handle.
	AddVertex(elem ProcessingElement) VertexHandle
	// RemoveVertex tears the vertex down. Must be called from the
	// real-time loop.
	RemoveVertex(h VertexHandle)
	// Pull signals need-input demand at the vertex.
	Pull(h VertexHandle)
	// Push signals have-output demand at the vertex.
	Push(h VertexHandle)
	// Iterate drains one step of scheduler progress and reports
	// whether further progress is possible. The core calls this in a
	// loop, after Pull/Push, until it returns false.
	Iterate() (more bool)
}

// RTLoop is the real-time run-loop: a single cooperative thread that
// owns the scheduler vertex and runs NeedInput/HaveOutput/ReuseBuffer
// callbacks. Invoke marshals a closure onto that loop and blocks the
// caller until the loop has run it — the only primitive allowed to
// touch RT-owned state from the main loop (used by destroy, §4.6).
type RTLoop interface {
	Invoke(fn func())
}
