package node

import "github.com/raghaven447/pipewire/node/stats"

// State is the node lifecycle state machine (§4.4): Creating is the
// only state a node is never observed transitioning back into,
// Suspended/Idle/Running form the normal operating ladder, and Error
// is a sink reachable from any of them.
type State int

const (
	Creating State = iota
	Suspended
	Idle
	Running
	Error
)

func (s State) String() string {
	switch s {
	case Creating:
		return "creating"
	case Suspended:
		return "suspended"
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// stateMachine implements C4: validating requested transitions,
// dispatching the command each one requires through the Command
// Channel, and latching the eventual outcome.
type stateMachine struct {
	n *Node
}

// RequestState drives the node toward target (§4.4). It emits
// state-request immediately, then either completes synchronously or
// submits a work-queue entry that completes the transition once the
// element's Done callback reports the outcome.
func (sm *stateMachine) RequestState(target State) error {
	n := sm.n
	n.mu.Lock()
	from := n.state
	n.mu.Unlock()

	// Creating -> Suspended happens only through init-complete; every
	// external request made while still Creating is rejected (§4.4).
	if from == Creating {
		return NewErrInvalidState("request_state", from)
	}
	if from == target {
		return nil
	}

	n.emitStateRequest(target)

	switch target {
	case Suspended:
		return sm.toSuspended(from)
	case Idle:
		return sm.toIdle(from)
	case Running:
		return sm.toRunning(from)
	default:
		return NewErrInvalidState("request_state", from)
	}
}

func (sm *stateMachine) toSuspended(from State) error {
	n := sm.n
	res, err := n.cmd.suspend()
	if err != nil {
		nlogWarnf("node %s: suspend best-effort port clear: %v", n.name, err)
	}
	return sm.resolve(from, Suspended, res)
}

func (sm *stateMachine) toIdle(from State) error {
	n := sm.n
	res := n.cmd.pause()
	return sm.resolve(from, Idle, res)
}

// toRunning emits a clock update and issues start (§4.4). It does not
// activate the links incident to the node's ports: link activation is
// the link layer's responsibility (out of scope, §1 Non-goals).
func (sm *stateMachine) toRunning(from State) error {
	n := sm.n
	n.cmd.clockUpdate()
	res := n.cmd.start()
	return sm.resolve(from, Running, res)
}

// resolve either commits the transition now (synchronous result) or
// submits a completion to the work queue keyed by res.Seq, to be
// latched when the element's Done callback fires (§4.1, §4.3).
func (sm *stateMachine) resolve(from, target State, res CommandResult) error {
	n := sm.n
	if res.Async {
		n.wq.Submit(n.id, res.Seq, func(code int) {
			if code < 0 {
				sm.commit(from, Error, ErrFormat(code))
				return
			}
			sm.commit(from, target, "")
		})
		return nil
	}
	if res.Code < 0 {
		sm.commit(from, Error, ErrFormat(res.Code))
		return NewErrElementError("request_state", res.Code)
	}
	sm.commit(from, target, "")
	return nil
}

func (sm *stateMachine) commit(from, to State, errString string) {
	n := sm.n
	n.mu.Lock()
	n.state = to
	n.errString = errString
	n.mu.Unlock()

	if to == Error {
		nlogErrorf("node %s: %s", n.name, errString)
	}
	n.emitStateChanged(from, to)
	n.refreshInfo()
	stats.StateTransitions.WithLabelValues(from.String(), to.String()).Inc()
}
