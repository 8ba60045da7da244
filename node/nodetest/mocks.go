// Package nodetest provides in-memory ProcessingElement, Scheduler,
// Clock, and RTLoop fakes for exercising the node package without a
// real media backend, the way aistore's target/proxy mocks stand in
// for a cluster member in unit tests.
package nodetest

import (
	"sort"
	"sync"

	"github.com/raghaven447/pipewire/node"
)

// Element is a scriptable node.ProcessingElement: tests seed its
// port counts and queue SendCommand outcomes, then assert on what the
// node did in response.
type Element struct {
	mu sync.Mutex

	MaxIn, MaxOut   int
	InIDs, OutIDs   []int
	Formats         map[node.Direction]map[int][]node.Format

	cb node.Callbacks

	// Results is consumed in order by SendCommand, one per call; if
	// empty, SendCommand returns a synchronous success.
	Results []node.CommandResult
	Err     error

	Props map[string]string

	addPortErr   error
	portSetErr   error
}

func NewElement(maxIn, maxOut int) *Element {
	return &Element{
		MaxIn: maxIn, MaxOut: maxOut,
		Formats: make(map[node.Direction]map[int][]node.Format),
		Props:   make(map[string]string),
	}
}

func (e *Element) GetNPorts() (nIn, maxIn, nOut, maxOut int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.InIDs), e.MaxIn, len(e.OutIDs), e.MaxOut
}

func (e *Element) GetPortIDs(outIn, outOut []int) (nIn, nOut int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	nIn = copy(outIn, e.InIDs)
	nOut = copy(outOut, e.OutIDs)
	return
}

// SetAddPortErr forces subsequent AddPort calls to fail, exercising
// GetFreePort's "keep scanning" branch.
func (e *Element) SetAddPortErr(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.addPortErr = err
}

// SetPortSetErr forces subsequent PortSetIO calls to fail.
func (e *Element) SetPortSetErr(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.portSetErr = err
}

// AddPort is what GetFreePort's growth step calls.
func (e *Element) AddPort(dir node.Direction, id int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.addPortErr != nil {
		return e.addPortErr
	}
	if dir == node.Input {
		e.InIDs = append(e.InIDs, id)
		sort.Ints(e.InIDs)
	} else {
		e.OutIDs = append(e.OutIDs, id)
		sort.Ints(e.OutIDs)
	}
	return nil
}

func (e *Element) PortSetIO(node.Direction, int, node.IOSlot) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.portSetErr
}

func (e *Element) PortEnumFormats(dir node.Direction, portID, index int) (node.Format, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	byPort := e.Formats[dir]
	if byPort == nil {
		return nil, false
	}
	fs := byPort[portID]
	if index >= len(fs) {
		return nil, false
	}
	return fs[index], true
}

func (e *Element) SendCommand(node.Command) (node.CommandResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return node.CommandResult{}, e.Err
	}
	if len(e.Results) == 0 {
		return node.CommandResult{Code: 0}, nil
	}
	r := e.Results[0]
	e.Results = e.Results[1:]
	return r, nil
}

func (e *Element) SetCallbacks(cb node.Callbacks) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cb = cb
}

func (e *Element) Info() map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Props
}

// FireDone lets a test simulate the element resolving a previously
// issued async command.
func (e *Element) FireDone(seq uint64, code int) {
	e.mu.Lock()
	cb := e.cb
	e.mu.Unlock()
	if cb.Done != nil {
		cb.Done(seq, code)
	}
}

// FireNeedInput/FireHaveOutput simulate the RT pull/push signals.
func (e *Element) FireNeedInput() {
	e.mu.Lock()
	cb := e.cb
	e.mu.Unlock()
	if cb.NeedInput != nil {
		cb.NeedInput()
	}
}

func (e *Element) FireHaveOutput() {
	e.mu.Lock()
	cb := e.cb
	e.mu.Unlock()
	if cb.HaveOutput != nil {
		cb.HaveOutput()
	}
}

// Scheduler is a trivial node.Scheduler fake: it records Add/Remove/
// Pull/Push calls and always reports no further progress on Iterate.
type Scheduler struct {
	mu       sync.Mutex
	nextH    node.VertexHandle
	Added    []node.VertexHandle
	Removed  []node.VertexHandle
	Pulled   []node.VertexHandle
	Pushed   []node.VertexHandle
	Iterates int
}

func (s *Scheduler) AddVertex(node.ProcessingElement) node.VertexHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextH++
	s.Added = append(s.Added, s.nextH)
	return s.nextH
}

func (s *Scheduler) RemoveVertex(h node.VertexHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Removed = append(s.Removed, h)
}

func (s *Scheduler) Pull(h node.VertexHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Pulled = append(s.Pulled, h)
}

func (s *Scheduler) Push(h node.VertexHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Pushed = append(s.Pushed, h)
}

func (s *Scheduler) Iterate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Iterates++
	return false
}

// RTLoop runs Invoke synchronously on the calling goroutine: tests
// have no real RT thread to rendezvous with, so the fake simply calls
// fn in place, which is observationally equivalent to a loop that was
// already idle when Invoke was requested (the case destroy depends
// on, per transport/bundle's synchronous drain-and-wait pattern).
type RTLoop struct {
	mu      sync.Mutex
	Invokes int
}

func (r *RTLoop) Invoke(fn func()) {
	r.mu.Lock()
	r.Invokes++
	r.mu.Unlock()
	fn()
}

// Clock is a fixed-value node.Clock fake.
type Clock struct {
	RateNum, RateDen int32
	Ticks            uint64
	MonotonicNanos   int64
}

func (c *Clock) Query() (int32, int32, uint64, int64) {
	return c.RateNum, c.RateDen, c.Ticks, c.MonotonicNanos
}

// Resource records every Info it was notified with, and whether it
// was unhooked.
type Resource struct {
	mu        sync.Mutex
	Notifies  []node.Info
	Unhooked  bool
}

func (r *Resource) Notify(info node.Info) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Notifies = append(r.Notifies, info)
}

func (r *Resource) Unhook() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Unhooked = true
}

func (r *Resource) Snapshot() []node.Info {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]node.Info, len(r.Notifies))
	copy(out, r.Notifies)
	return out
}
