package node

import "testing"

// stubElement is a minimal ProcessingElement for exercising
// GetFreePort's three selection steps without the full nodetest
// fixture (kept internal to the package since GetFreePort is
// unexported-adjacent white-box logic).
type stubElement struct {
	addPortErr error
}

func (s *stubElement) GetNPorts() (int, int, int, int)                  { return 0, 0, 0, 0 }
func (s *stubElement) GetPortIDs(_, _ []int) (int, int)                 { return 0, 0 }
func (s *stubElement) AddPort(Direction, int) error                     { return s.addPortErr }
func (s *stubElement) PortSetIO(Direction, int, IOSlot) error           { return nil }
func (s *stubElement) PortEnumFormats(Direction, int, int) (Format, bool) { return nil, false }
func (s *stubElement) SendCommand(Command) (CommandResult, error)       { return CommandResult{}, nil }
func (s *stubElement) SetCallbacks(Callbacks)                          {}
func (s *stubElement) Info() map[string]string                         { return nil }

func newTestNode(maxIn, maxOut int) *Node {
	n := &Node{
		elem: &stubElement{},
		obs:  NewObservers(),
	}
	n.in = NewPortSet(Input, maxIn)
	n.out = NewPortSet(Output, maxOut)
	return n
}

func TestGetFreePortExistingFreeLink(t *testing.T) {
	n := newTestNode(2, 0)
	n.in.insert(&Port{Direction: Input, ID: 0, bound: true})
	linked := &Port{Direction: Input, ID: 1, bound: true}
	linked.AttachLink()
	n.in.insert(linked)

	p, ok := n.GetFreePort(Input)
	if !ok || p.ID != 0 {
		t.Fatalf("want port 0 (has free links), got %+v ok=%v", p, ok)
	}
}

func TestGetFreePortGrowsIntoLowestEmptySlot(t *testing.T) {
	n := newTestNode(3, 0)
	occupied := &Port{Direction: Input, ID: 0, bound: true}
	occupied.AttachLink()
	n.in.insert(occupied)

	p, ok := n.GetFreePort(Input)
	if !ok || p.ID != 1 {
		t.Fatalf("want growth into slot 1, got %+v ok=%v", p, ok)
	}
	if n.in.Len() != 2 {
		t.Fatalf("want 2 ports after growth, got %d", n.in.Len())
	}
}

func TestGetFreePortSaturatedOutputReusesFirst(t *testing.T) {
	n := newTestNode(0, 1)
	p0 := &Port{Direction: Output, ID: 0, bound: true}
	p0.AttachLink()
	n.out.insert(p0)

	p, ok := n.GetFreePort(Output)
	if !ok || p.ID != 0 {
		t.Fatalf("want fan-out reuse of port 0, got %+v ok=%v", p, ok)
	}
}

// TestGetFreePortSaturatedInputNoMultiplex is S5: max_in=2, both ports
// occupied by links, neither multiplex -> "none".
func TestGetFreePortSaturatedInputNoMultiplex(t *testing.T) {
	n := newTestNode(2, 0)
	for _, id := range []int{0, 1} {
		p := &Port{Direction: Input, ID: id, bound: true}
		p.AttachLink()
		n.in.insert(p)
	}

	_, ok := n.GetFreePort(Input)
	if ok {
		t.Fatalf("want no free port when saturated without multiplex")
	}
}

func TestGetFreePortSaturatedInputMultiplex(t *testing.T) {
	n := newTestNode(1, 0)
	p := &Port{Direction: Input, ID: 0, bound: true, Multiplex: true}
	p.AttachLink()
	n.in.insert(p)

	got, ok := n.GetFreePort(Input)
	if !ok || got.ID != 0 {
		t.Fatalf("want multiplex reuse of port 0, got %+v ok=%v", got, ok)
	}
}

func TestGetFreePortAddPortFailureSkipsSlot(t *testing.T) {
	n := newTestNode(2, 0)
	n.elem = &stubElement{addPortErr: errFakeAddPort}

	_, ok := n.GetFreePort(Input)
	if ok {
		t.Fatalf("want no free port when every AddPort attempt fails")
	}
}

var errFakeAddPort = &ErrBusy{reason: "fake add_port failure"}
