package node

import "github.com/raghaven447/pipewire/node/stats"

// DiffOp is one arm of the reconciliation merge walk (§4.2, §9): keep
// an existing port, add one the authority introduced, or remove one
// the authority dropped.
type DiffOp int

const (
	DiffKeep DiffOp = iota
	DiffAdd
	DiffRemove
)

type DiffEntry struct {
	Op     DiffOp
	PortID int
}

// Diff is a pure function over two ascending-sorted id slices: it
// returns the script applyReconcile will later execute, with no side effects of
// its own. Keeping this separate from PortSet mutation is what makes
// it directly yield to table tests (§9 Design Notes).
func Diff(existing, authority []int) []DiffEntry {
	script := make([]DiffEntry, 0, max(len(existing), len(authority)))
	i, j := 0, 0
	for i < len(existing) && j < len(authority) {
		switch {
		case existing[i] == authority[j]:
			script = append(script, DiffEntry{DiffKeep, existing[i]})
			i++
			j++
		case authority[j] < existing[i]:
			// authority id < p.port_id: create the port, in order.
			script = append(script, DiffEntry{DiffAdd, authority[j]})
			j++
		default:
			// existing has an id the authority no longer reports.
			script = append(script, DiffEntry{DiffRemove, existing[i]})
			i++
		}
	}
	for ; j < len(authority); j++ {
		script = append(script, DiffEntry{DiffAdd, authority[j]})
	}
	for ; i < len(existing); i++ {
		script = append(script, DiffEntry{DiffRemove, existing[i]})
	}
	return script
}

// existingIDs extracts the sorted id slice a PortSet currently holds,
// the left-hand input to Diff.
func existingIDs(ps *PortSet) []int {
	ids := make([]int, len(ps.seq))
	for i, p := range ps.seq {
		ids[i] = p.ID
	}
	return ids
}

// applyReconcile executes a diff script against ps, calling into elem
// to bind newly created ports and emitting port-added/port-removed
// unless suppressed (first publication, §4.6 step 2). Removal is
// applied before the corresponding observer fires (invariant 5, §8);
// a port is fully indexed before its port-added observer fires.
func (n *Node) applyReconcile(ps *PortSet, script []DiffEntry, suppressEvents bool) {
	for _, d := range script {
		switch d.Op {
		case DiffKeep:
			// already in the sequence at the right index; nothing to do.
		case DiffRemove:
			p, ok := ps.remove(d.PortID)
			if !ok {
				continue
			}
			stats.PortsChanged.WithLabelValues(ps.dir.String(), "remove").Inc()
			if !suppressEvents {
				n.emitPortRemoved(p)
			}
		case DiffAdd:
			p := &Port{Direction: ps.dir, ID: d.PortID}
			if err := n.elem.PortSetIO(ps.dir, p.ID, IOSlot{PortID: p.ID, Direction: ps.dir}); err != nil {
				nlogWarnf("reconcile: bind io slot dir=%s id=%d: %v (port kept, marked ineffective)", ps.dir, p.ID, err)
			} else {
				p.bound = true
			}
			ps.insert(p)
			stats.PortsChanged.WithLabelValues(ps.dir.String(), "add").Inc()
			if !suppressEvents {
				n.emitPortAdded(p)
			}
		}
	}
}

// GetFreePort implements §4.2's three-step free-port selection.
func (n *Node) GetFreePort(dir Direction) (*Port, bool) {
	ps := n.portSet(dir)

	// 1. any existing port with no attached links.
	for _, p := range ps.seq {
		if p.HasFreeLinks() {
			return p, true
		}
	}

	// 2. room to grow: scan the index for the lowest empty slot.
	if ps.Len() < ps.MaxPorts() {
		for i := 0; i < ps.MaxPorts(); i++ {
			if _, occupied := ps.Get(i); occupied {
				continue
			}
			p := &Port{Direction: dir, ID: i}
			if err := n.elem.AddPort(dir, i); err != nil {
				nlogWarnf("get_free_port: add_port dir=%s id=%d failed: %v", dir, i, err)
				continue // do not leave a half-built port; keep scanning
			}
			if err := n.elem.PortSetIO(dir, i, IOSlot{PortID: i, Direction: dir}); err != nil {
				nlogWarnf("get_free_port: bind io slot dir=%s id=%d failed: %v", dir, i, err)
				continue
			}
			p.bound = true
			ps.insert(p)
			stats.PortsChanged.WithLabelValues(dir.String(), "add").Inc()
			n.emitPortAdded(p)
			return p, true
		}
	}

	// 3. saturated.
	if len(ps.seq) == 0 {
		return nil, false
	}
	if dir == Output {
		return ps.seq[0], true // fan-out reuse permitted
	}
	if ps.seq[0].Multiplex {
		return ps.seq[0], true
	}
	return nil, false
}
