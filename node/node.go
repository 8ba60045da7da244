// Package node implements the server-side node lifecycle and graph
// participation core: a Node wraps an opaque ProcessingElement, walks
// it through the Creating/Suspended/Idle/Running/Error state machine,
// reconciles its port sets against what the element reports, and
// fans state/port/command notifications out to observers and bound
// resources.
package node

import (
	"sync"

	uatomic "go.uber.org/atomic"
)

// Node is the central object this package publishes. The mutex below
// guards state and errString, and the reads State, ErrString and Info
// make; the Observers, WorkQueue and resourceSet fields manage their
// own locking. The in/out PortSets have no lock of their own, and
// RequestState, GetFreePort and Destroy are not serialized against
// each other.
type Node struct {
	mu sync.Mutex

	id        string
	name      string
	state     State
	errString string
	live      bool

	elem  ProcessingElement
	clock Clock

	props map[string]string

	in  *PortSet
	out *PortSet

	info Info
	obs  *Observers

	resources resourceSet
	bindFn    BindFunc

	cmd commandChannel
	sm  stateMachine
	wq  *WorkQueue

	scheduler Scheduler
	rtLoop    RTLoop
	vertex    VertexHandle
	hasVertex bool

	registry *Registry

	// destroyed guards Destroy's single-shot contract. It is read from
	// Registry.prune's background goroutine and written from whatever
	// goroutine calls Destroy, so it gets its own atomic rather than
	// sharing mu with the fields the RT-invoke rendezvous touches.
	destroyed uatomic.Bool
}

// Config is everything New needs to build a Node: the element it
// drives, the port capacities reported at construction, and the
// collaborators (scheduler, RT loop, work queue, optional clock) the
// rest of the package assumes are present once init-complete runs.
type Config struct {
	Name      string
	Elem      ProcessingElement
	Scheduler Scheduler
	RTLoop    RTLoop
	WorkQueue *WorkQueue
	Registry  *Registry
	Clock     Clock
	Live      bool
	BindFunc  BindFunc
	Props     map[string]string
}

func (n *Node) ID() string   { return n.id }
func (n *Node) Name() string { return n.name }

func (n *Node) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

func (n *Node) ErrString() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.errString
}

// Info returns the most recently published info snapshot.
func (n *Node) Info() Info {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.info
}

// Observers exposes the registration surface (§4.7, §6) so callers
// can Register/Unregister against any of the eight signals.
func (n *Node) Observers() *Observers { return n.obs }

// portSet resolves a Direction to the owning PortSet; kept as a
// method rather than exported fields so reconcile.go and info.go
// share one indirection point.
func (n *Node) portSet(dir Direction) *PortSet {
	if dir == Input {
		return n.in
	}
	return n.out
}

// RequestState is the public entry point for C4: callers ask the node
// to move toward target; see stateMachine.RequestState for the full
// transition logic.
func (n *Node) RequestState(target State) error {
	return n.sm.RequestState(target)
}
