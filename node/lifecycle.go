package node

import (
	"github.com/raghaven447/pipewire/cmn/cos"
	"github.com/raghaven447/pipewire/cmn/debug"
)

// New constructs a node from cfg and runs it through construction plus
// init-complete (§4.6 steps 1-5) synchronously: it returns a node
// already in Suspended, with its vertex installed, its ports
// reconciled once (suppressing the added/removed events that first
// reconciliation would otherwise fire), and its identity registered.
//
// NewAsync exists for callers that want the constructor itself to run
// off the calling goroutine; it runs New on a goroutine of its own.
func New(cfg Config) (*Node, error) {
	if cfg.Elem == nil {
		return nil, NewErrNoMemory("node.New: nil ProcessingElement")
	}
	n := &Node{
		name:      cfg.Name,
		elem:      cfg.Elem,
		clock:     cfg.Clock,
		live:      cfg.Live,
		props:     cloneProps(cfg.Props),
		obs:       NewObservers(),
		wq:        cfg.WorkQueue,
		scheduler: cfg.Scheduler,
		rtLoop:    cfg.RTLoop,
		registry:  cfg.Registry,
		bindFn:    cfg.BindFunc,
		state:     Creating,
	}
	for k, v := range cfg.Elem.Info() {
		n.props[k] = v
	}
	n.cmd = commandChannel{n: n}
	n.sm = stateMachine{n: n}

	_, maxIn, _, maxOut := cfg.Elem.GetNPorts()
	n.in = NewPortSet(Input, maxIn)
	n.out = NewPortSet(Output, maxOut)

	n.installCallbacks()

	if err := n.initComplete(); err != nil {
		return nil, err
	}
	return n, nil
}

// NewAsync is the asynchronous-construction counterpart callers use
// when New's element introspection (GetNPorts/GetPortIDs) might block;
// it runs New on its own goroutine and delivers the result to done.
func NewAsync(cfg Config, done func(*Node, error)) {
	go func() {
		n, err := New(cfg)
		done(n, err)
	}()
}

// initComplete runs, in this order: assign identity and insert into
// the registry, install the graph vertex, reconcile both port sets
// against the element's current report (suppressing port-added/
// port-removed since this is the first reconciliation), land in
// Suspended, emit initialized, and publish the initial info snapshot.
// The bind callback is not registered here: New stores Config.BindFunc
// when it builds the node.
func (n *Node) initComplete() error {
	n.id = cos.GenUUID()
	if n.registry != nil {
		n.registry.insert(n)
	}

	if n.scheduler != nil {
		n.vertex = n.scheduler.AddVertex(n.elem)
		n.hasVertex = true
	}

	n.reconcilePorts(true)

	n.mu.Lock()
	n.state = Suspended
	n.mu.Unlock()

	n.emitInitialized()
	n.refreshInfo()
	return nil
}

// reconcilePorts re-enumerates the element's current port ids in both
// directions and applies the resulting diff script to each PortSet
// (§4.2). suppressEvents is true only for the very first call, made
// from initComplete before any observer could have registered. Input is
// diffed and applied first, then output, both on the calling goroutine,
// so port-added/port-removed observers run there too; GetPortIDs itself
// is a single call since the element reports both directions' ids
// together.
func (n *Node) reconcilePorts(suppressEvents bool) {
	inBuf := make([]int, n.in.MaxPorts())
	outBuf := make([]int, n.out.MaxPorts())
	nIn, nOut := n.elem.GetPortIDs(inBuf, outBuf)

	n.applyReconcile(n.in, Diff(existingIDs(n.in), inBuf[:nIn]), suppressEvents)
	n.applyReconcile(n.out, Diff(existingIDs(n.out), outBuf[:nOut]), suppressEvents)
}

// Destroy runs §4.6's teardown in order and is safe to call at most
// once; a second call is a programming error, same policy as a
// work-queue double completion.
func (n *Node) Destroy() {
	if !n.destroyed.CAS(false, true) {
		cos.ExitLogf("node %s: Destroy called twice", n.name)
		return
	}

	// 1. destroy signal, before anything is actually torn down.
	n.emitDestroy()

	// 2. container/identity removal: no longer discoverable by lookup.
	if n.registry != nil {
		n.registry.remove(n)
	}

	// 3. resources unhook themselves.
	n.resources.destroyAll()

	// 4. RT-thread pause + vertex removal, via synchronous invoke so
	// the RT loop has fully quiesced this vertex before we touch its
	// ports from the main goroutine.
	if n.hasVertex && n.rtLoop != nil {
		n.rtLoop.Invoke(func() {
			n.cmd.pause()
			n.scheduler.RemoveVertex(n.vertex)
		})
		n.hasVertex = false
	}

	// 5. port destruction: drain both sets to empty, firing
	// port-removed for whatever is left.
	for _, dir := range [2]Direction{Input, Output} {
		ps := n.portSet(dir)
		for _, id := range existingIDs(ps) {
			n.applyReconcile(ps, []DiffEntry{{Op: DiffRemove, PortID: id}}, false)
		}
	}

	// 6. free signal.
	n.emitFree()

	// 7. work queue cancellation: no further Done callback for this
	// node's seq numbers can be legitimate once step 4 completed.
	if n.wq != nil {
		n.wq.Cancel(n.id)
	}

	debug.Assert(n.in.Len() == 0 && n.out.Len() == 0)
}
