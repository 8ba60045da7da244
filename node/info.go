package node

import (
	jsoniter "github.com/json-iterator/go"
)

var infoJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// InfoBit identifies one field of Info that a notification may report
// as changed. Bound resources only need the fields whose bit is set;
// the first notification after bind sets every bit (§4.7).
type InfoBit uint32

const (
	BitID InfoBit = 1 << iota
	BitName
	BitState
	BitError
	BitInputPorts
	BitOutputPorts
	BitFormats
	BitProperties
	BitAll = BitID | BitName | BitState | BitError |
		BitInputPorts | BitOutputPorts | BitFormats | BitProperties
)

// Info is the published info block: the snapshot a bound resource
// (§4.6 step 4, the bind-on-demand callback) receives whenever
// anything about the node changes. ChangeMask tells the receiver which
// fields actually moved since the previous notification.
type Info struct {
	ID              string
	Name            string
	State           State
	Error           string // empty unless State == Error
	NInputPorts     int
	MaxInputPorts   int
	NOutputPorts    int
	MaxOutputPorts  int
	InputFormats    []Format
	OutputFormats   []Format
	Properties      map[string]string
	ChangeMask      InfoBit
}

// snapshotInfo builds a fresh Info from current node state, without
// formats and with ChangeMask left zero (the caller fills in formats
// and computes the actual diff mask against the previous publication).
func (n *Node) snapshotInfo() Info {
	return Info{
		ID:             n.id,
		Name:           n.name,
		State:          n.state,
		Error:          n.errString,
		NInputPorts:    n.in.Len(),
		MaxInputPorts:  n.in.MaxPorts(),
		NOutputPorts:   n.out.Len(),
		MaxOutputPorts: n.out.MaxPorts(),
		Properties:     cloneProps(n.props),
	}
}

// cloneProps deep-copies the property dictionary via a jsoniter
// round-trip, mirroring the teacher's own use of json-iterator
// wherever a property/metadata map is copied across an API boundary
// (cmn/cos/fs.go, api/apc/actmsg.go).
func cloneProps(in map[string]string) map[string]string {
	if in == nil {
		return map[string]string{}
	}
	buf, err := infoJSON.Marshal(in)
	if err != nil {
		// deep-copy is best-effort; fall back to a shallow copy rather
		// than fail a notification over a marshal error.
		out := make(map[string]string, len(in))
		for k, v := range in {
			out[k] = v
		}
		return out
	}
	out := make(map[string]string, len(in))
	_ = infoJSON.Unmarshal(buf, &out)
	return out
}

// refreshInfo re-enumerates, in both directions, the formats of the
// first port in the sequence (the lowest port id, not necessarily 0) (§4.6
// step 5) and recomputes the change mask against the previously
// published Info, then notifies bound resources.
func (n *Node) refreshInfo() {
	prev := n.info
	next := n.snapshotInfo()
	next.InputFormats = n.enumFormats(Input)
	next.OutputFormats = n.enumFormats(Output)

	mask := diffInfo(prev, next)
	next.ChangeMask = mask
	n.info = next

	if mask != 0 {
		n.notifyResources(next)
	}
}

func (n *Node) enumFormats(dir Direction) []Format {
	ps := n.portSet(dir)
	if ps.Len() == 0 {
		return nil
	}
	p := ps.Ports()[0]
	var formats []Format
	for i := 0; ; i++ {
		f, ok := n.elem.PortEnumFormats(dir, p.ID, i)
		if !ok {
			break
		}
		cp := make(Format, len(f))
		copy(cp, f)
		formats = append(formats, cp)
	}
	return formats
}

func diffInfo(prev, next Info) InfoBit {
	var mask InfoBit
	if prev.ID != next.ID {
		mask |= BitID
	}
	if prev.Name != next.Name {
		mask |= BitName
	}
	if prev.State != next.State {
		mask |= BitState
	}
	if prev.Error != next.Error {
		mask |= BitError
	}
	if prev.NInputPorts != next.NInputPorts || prev.MaxInputPorts != next.MaxInputPorts {
		mask |= BitInputPorts
	}
	if prev.NOutputPorts != next.NOutputPorts || prev.MaxOutputPorts != next.MaxOutputPorts {
		mask |= BitOutputPorts
	}
	if !formatsEqual(prev.InputFormats, next.InputFormats) || !formatsEqual(prev.OutputFormats, next.OutputFormats) {
		mask |= BitFormats
	}
	if !propsEqual(prev.Properties, next.Properties) {
		mask |= BitProperties
	}
	return mask
}

func formatsEqual(a, b []Format) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if string(a[i]) != string(b[i]) {
			return false
		}
	}
	return true
}

func propsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
