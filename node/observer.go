package node

import "sync"

// ObserverHandle is returned by a Signal's Register call and used to
// Unregister later, including from inside the observer's own callback
// (§4.7, §9 Design Notes: "Observer removal during emission").
type ObserverHandle uint64

type registration[F any] struct {
	id  ObserverHandle
	fn  F
	ctx any
	// removed is set by Unregister; Emit checks it before invoking so a
	// tombstoned entry already captured in a snapshot is skipped.
	removed bool
}

// Signal is a fanout emitter for one observer surface signal. Emission
// is synchronous, on the emitter's own goroutine (the main loop for
// every signal in this core). Each emit helper walks a snapshot of the
// registration slice, so an observer unregistering itself — or any
// other observer — mid-emission never invalidates the walk.
type Signal[F any] struct {
	mu    sync.Mutex
	regs  []*registration[F]
	nextH ObserverHandle
}

func (s *Signal[F]) Register(fn F, ctx any) ObserverHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextH++
	r := &registration[F]{id: s.nextH, fn: fn, ctx: ctx}
	s.regs = append(s.regs, r)
	return r.id
}

func (s *Signal[F]) Unregister(h ObserverHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.regs {
		if r.id == h {
			r.removed = true
			s.regs = append(s.regs[:i], s.regs[i+1:]...)
			return
		}
	}
}

// snapshot returns the current registrations without holding the lock
// across invocation — emission must never block registration.
func (s *Signal[F]) snapshot() []*registration[F] {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*registration[F], len(s.regs))
	copy(out, s.regs)
	return out
}

func (s *Signal[F]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.regs)
}

// Signal callback shapes, one per §2/§6 observer surface entry.
type (
	PortAddedFunc     func(n *Node, p *Port, ctx any)
	PortRemovedFunc   func(n *Node, p *Port, ctx any)
	StateRequestFunc  func(n *Node, target State, ctx any)
	StateChangedFunc  func(n *Node, from, to State, ctx any)
	InitializedFunc   func(n *Node, ctx any)
	AsyncCompleteFunc func(n *Node, seq uint64, result int, ctx any)
	DestroyFunc       func(n *Node, ctx any)
	FreeFunc          func(n *Node, ctx any)
)

// Observers groups every signal a Node exposes. A zero value is ready
// to use; NewObservers exists only for symmetry with the rest of the
// constructors.
type Observers struct {
	PortAdded     Signal[PortAddedFunc]
	PortRemoved   Signal[PortRemovedFunc]
	StateRequest  Signal[StateRequestFunc]
	StateChanged  Signal[StateChangedFunc]
	Initialized   Signal[InitializedFunc]
	AsyncComplete Signal[AsyncCompleteFunc]
	Destroy       Signal[DestroyFunc]
	Free          Signal[FreeFunc]
}

func NewObservers() *Observers { return &Observers{} }

// emit* helpers wrap each signal with panic recovery: "exceptions in
// observers are swallowed and logged" (§7).
func (n *Node) emitPortAdded(p *Port) {
	for _, r := range n.obs.PortAdded.snapshot() {
		if r.removed {
			continue
		}
		safeCall(func() { r.fn(n, p, r.ctx) })
	}
}

func (n *Node) emitPortRemoved(p *Port) {
	for _, r := range n.obs.PortRemoved.snapshot() {
		if r.removed {
			continue
		}
		safeCall(func() { r.fn(n, p, r.ctx) })
	}
}

func (n *Node) emitStateRequest(target State) {
	for _, r := range n.obs.StateRequest.snapshot() {
		if r.removed {
			continue
		}
		safeCall(func() { r.fn(n, target, r.ctx) })
	}
}

func (n *Node) emitStateChanged(from, to State) {
	for _, r := range n.obs.StateChanged.snapshot() {
		if r.removed {
			continue
		}
		safeCall(func() { r.fn(n, from, to, r.ctx) })
	}
}

func (n *Node) emitInitialized() {
	for _, r := range n.obs.Initialized.snapshot() {
		if r.removed {
			continue
		}
		safeCall(func() { r.fn(n, r.ctx) })
	}
}

func (n *Node) emitAsyncComplete(seq uint64, result int) {
	for _, r := range n.obs.AsyncComplete.snapshot() {
		if r.removed {
			continue
		}
		safeCall(func() { r.fn(n, seq, result, r.ctx) })
	}
}

func (n *Node) emitDestroy() {
	for _, r := range n.obs.Destroy.snapshot() {
		if r.removed {
			continue
		}
		safeCall(func() { r.fn(n, r.ctx) })
	}
}

func (n *Node) emitFree() {
	for _, r := range n.obs.Free.snapshot() {
		if r.removed {
			continue
		}
		safeCall(func() { r.fn(n, r.ctx) })
	}
}

func safeCall(f func()) {
	defer func() {
		if r := recover(); r != nil {
			nlogErrorf("observer panic recovered: %v", r)
		}
	}()
	f()
}
