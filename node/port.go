package node

import "sort"

// Port belongs to exactly one node, identified by (direction, port_id).
// port_id is chosen by the processing element or, when this core
// allocates a free port, by the lowest empty slot search in §4.2.
type Port struct {
	Direction Direction
	ID        int
	Slot      IOSlot
	Multiplex bool // input-side fan-in is legal on this port
	links     int  // count of attached links; external, tracked by count only
	// bound is false when PortSetIO failed during reconciliation: the
	// port still exists (per §7 policy) but is marked ineffective.
	bound bool
}

// HasFreeLinks reports whether the port carries no attached links —
// the first criterion get_free_port checks (§4.2 step 1).
func (p *Port) HasFreeLinks() bool { return p.links == 0 }

// Bound reports whether the processing element successfully bound
// this port's I/O slot.
func (p *Port) Bound() bool { return p.bound }

// AttachLink and DetachLink adjust the link count an external caller
// maintains on this port; the link object itself is out of scope here
// (glossary: "Link — referenced only by count in this core").
func (p *Port) AttachLink() { p.links++ }
func (p *Port) DetachLink() {
	if p.links > 0 {
		p.links--
	}
}

// PortSet maintains the ordered sequence and sparse index described in
// §3: ports sorted ascending by port_id, plus index[port_id] for O(1)
// lookup. Deliberately not a map keyed by id — ordering is semantic
// (§9 Design Notes).
type PortSet struct {
	dir      Direction
	seq      []*Port
	index    []*Port // len == maxPorts
	maxPorts int
}

func NewPortSet(dir Direction, maxPorts int) *PortSet {
	return &PortSet{dir: dir, index: make([]*Port, maxPorts), maxPorts: maxPorts}
}

func (ps *PortSet) Direction() Direction { return ps.dir }
func (ps *PortSet) Len() int             { return len(ps.seq) }
func (ps *PortSet) MaxPorts() int        { return ps.maxPorts }

// Ports returns the ordered sequence. Callers must not mutate it.
func (ps *PortSet) Ports() []*Port { return ps.seq }

// Get looks up a port by id via the sparse index.
func (ps *PortSet) Get(id int) (*Port, bool) {
	if id < 0 || id >= len(ps.index) {
		return nil, false
	}
	p := ps.index[id]
	return p, p != nil
}

// Snapshot returns a read-only copy of the sequence for metrics/logging,
// mirroring the registry's roActive read-only-copy-for-reporting pattern.
func (ps *PortSet) Snapshot() []Port {
	out := make([]Port, len(ps.seq))
	for i, p := range ps.seq {
		out[i] = *p
	}
	return out
}

// Resize changes the index capacity. Shrinking is only legal when no
// occupied slot exceeds the new bound (§4.2); otherwise it fails with
// ErrBusy and the set is left unchanged.
func (ps *PortSet) Resize(newMax int) error {
	if newMax < ps.maxPorts {
		for _, p := range ps.seq {
			if p.ID >= newMax {
				return NewErrBusy("cannot shrink max_ports below occupied port id")
			}
		}
	}
	next := make([]*Port, newMax)
	copy(next, ps.index[:min(len(ps.index), newMax)])
	ps.index = next
	ps.maxPorts = newMax
	return nil
}

// insert places p into the sequence in ascending-id order and indexes
// it. Panics (via debug assertions upstream) are not used here: a
// duplicate id is a caller bug, guarded by Diff never producing one.
func (ps *PortSet) insert(p *Port) {
	i := sort.Search(len(ps.seq), func(i int) bool { return ps.seq[i].ID >= p.ID })
	ps.seq = append(ps.seq, nil)
	copy(ps.seq[i+1:], ps.seq[i:])
	ps.seq[i] = p
	ps.index[p.ID] = p
}

// remove deletes the port with the given id from both the sequence and
// the index, returning it. The caller emits port-removed only after
// this call, per invariant 5 (§8): removed from the sequence before
// observers fire.
func (ps *PortSet) remove(id int) (*Port, bool) {
	p, ok := ps.Get(id)
	if !ok {
		return nil, false
	}
	i := sort.Search(len(ps.seq), func(i int) bool { return ps.seq[i].ID >= id })
	ps.seq = append(ps.seq[:i], ps.seq[i+1:]...)
	ps.index[id] = nil
	return p, true
}
