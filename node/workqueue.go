package node

import (
	"sync"

	"github.com/raghaven447/pipewire/cmn/cos"
	"github.com/raghaven447/pipewire/node/stats"
)

// pendingEntry is one outstanding async command, keyed by the
// sequence number the processing element returned from SendCommand.
type pendingEntry struct {
	seq  uint64
	done func(code int)
}

// WorkQueue implements C1: it pairs async sequence numbers with the
// completion closure latched when the command was issued, preserving
// per-owner submission order (§4.1). One queue instance is shared
// across every node; entries are namespaced by owner id so unrelated
// nodes never contend on each other's completions.
type WorkQueue struct {
	mu        sync.Mutex
	byOwner   map[string][]*pendingEntry
	cancelled map[string]bool
}

// NewWorkQueue returns an empty queue ready to use.
func NewWorkQueue() *WorkQueue {
	return &WorkQueue{
		byOwner:   make(map[string][]*pendingEntry),
		cancelled: make(map[string]bool),
	}
}

// Submit latches done against (owner, seq), to run when Complete is
// later called with the same pair. Submissions for the same owner
// queue in call order; Complete must resolve them in that same order
// (§4.1 invariant: ordering is per-owner, not global).
func (wq *WorkQueue) Submit(owner string, seq uint64, done func(code int)) {
	wq.mu.Lock()
	wq.byOwner[owner] = append(wq.byOwner[owner], &pendingEntry{seq: seq, done: done})
	depth := len(wq.byOwner[owner])
	wq.mu.Unlock()
	stats.WorkQueueDepth.WithLabelValues(owner).Set(float64(depth))
}

// Complete resolves the oldest pending entry for owner. A seq that
// doesn't match the oldest entry, or an owner with nothing pending, is
// a double-completion or a stray callback: both are a fatal
// programming error in the processing element, surfaced via
// cos.ExitLogf rather than silently ignored (§4.1, §7) — except for an
// owner that went through Cancel, whose late completions are the
// expected "destroy raced the element's async_done" case (§8 S6) and
// are discarded rather than treated as a bug.
func (wq *WorkQueue) Complete(owner string, seq uint64, code int) {
	wq.mu.Lock()
	if wq.cancelled[owner] {
		wq.mu.Unlock()
		return
	}
	entries := wq.byOwner[owner]
	if len(entries) == 0 {
		wq.mu.Unlock()
		cos.ExitLogf("work queue: completion for owner %q seq %d with nothing pending (double completion)", owner, seq)
		return
	}
	head := entries[0]
	if head.seq != seq {
		wq.mu.Unlock()
		cos.ExitLogf("work queue: out-of-order completion for owner %q: got seq %d, expected %d", owner, seq, head.seq)
		return
	}
	wq.byOwner[owner] = entries[1:]
	depth := len(wq.byOwner[owner])
	if depth == 0 {
		delete(wq.byOwner, owner)
	}
	wq.mu.Unlock()

	stats.WorkQueueDepth.WithLabelValues(owner).Set(float64(depth))
	head.done(code)
}

// Cancel drops every pending entry for owner without invoking their
// completions, used during destroy (step 7 of Destroy) once no further Done
// callback can legitimately arrive for this node.
func (wq *WorkQueue) Cancel(owner string) {
	wq.mu.Lock()
	delete(wq.byOwner, owner)
	wq.cancelled[owner] = true
	wq.mu.Unlock()
	stats.WorkQueueDepth.DeleteLabelValues(owner)
}

// Len reports the current pending depth for owner, exposed for tests
// and for the stats package's gauge to be sampled independently of
// Submit/Complete call sites.
func (wq *WorkQueue) Len(owner string) int {
	wq.mu.Lock()
	defer wq.mu.Unlock()
	return len(wq.byOwner[owner])
}

// Forget drops owner's cancelled-tombstone once the registry has
// pruned it past any chance of a late completion arriving, so a
// process that publishes and destroys many nodes over its lifetime
// doesn't accumulate one tombstone per node forever.
func (wq *WorkQueue) Forget(owner string) {
	wq.mu.Lock()
	delete(wq.cancelled, owner)
	wq.mu.Unlock()
}
