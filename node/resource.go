package node

import "sync"

// Resource is the per-client notification sink created on demand when
// something binds to a published node (§4.6 step 4). The wire/IPC
// façade that actually exposes nodes to remote clients is out of
// scope (spec §1); this is the contract that façade would implement.
type Resource interface {
	// Notify delivers an Info snapshot. The first notification after
	// Bind always carries BitAll; subsequent ones carry only the bits
	// that changed (§4.7).
	Notify(info Info)
	// Unhook detaches the resource from its node; called during
	// destroy (§4.6 step 3) so each resource unregisters itself rather
	// than the node reaching into resource-private state.
	Unhook()
}

// BindFunc creates a Resource for a client that asked to bind to a
// node by id. Supplied as Config.BindFunc and stored once, by New.
type BindFunc func(n *Node) Resource

type resourceSet struct {
	mu   sync.Mutex
	list []Resource
}

func (rs *resourceSet) add(r Resource) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.list = append(rs.list, r)
}

func (rs *resourceSet) snapshot() []Resource {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	out := make([]Resource, len(rs.list))
	copy(out, rs.list)
	return out
}

func (rs *resourceSet) destroyAll() {
	rs.mu.Lock()
	list := rs.list
	rs.list = nil
	rs.mu.Unlock()
	for _, r := range list {
		safeCall(r.Unhook)
	}
}

// Bind creates a resource via the node's registered BindFunc, appends
// it to the bound set, and sends it an immediate full-mask
// notification. It returns nil when no BindFunc was configured. It is
// the entry point a client-facing layer calls on a remote client's
// behalf; nothing in this package calls it, and the wire layer that
// receives the client request is out of scope.
func (n *Node) Bind() Resource {
	if n.bindFn == nil {
		return nil
	}
	r := n.bindFn(n)
	n.resources.add(r)
	full := n.info
	full.ChangeMask = BitAll
	safeCall(func() { r.Notify(full) })
	return r
}

// notifyResources sends info (already carrying its computed
// ChangeMask) to every currently bound resource.
func (n *Node) notifyResources(info Info) {
	for _, r := range n.resources.snapshot() {
		res := r
		safeCall(func() { res.Notify(info) })
	}
}
