package node

import (
	"github.com/raghaven447/pipewire/cmn/cos"
	"github.com/raghaven447/pipewire/node/stats"
)

// CommandKind enumerates the commands the Command Channel emits to the
// processing element (§4.3, §6).
type CommandKind int

const (
	CmdPause CommandKind = iota
	CmdStart
	CmdSuspend
	CmdClockUpdate
)

func (k CommandKind) String() string {
	switch k {
	case CmdPause:
		return "pause"
	case CmdStart:
		return "start"
	case CmdSuspend:
		return "suspend"
	case CmdClockUpdate:
		return "clock_update"
	default:
		return "unknown"
	}
}

// ClockBit identifies which ClockUpdate fields are meaningful, per §6.
type ClockBit uint32

const (
	ClockBitTime ClockBit = 1 << iota
	ClockBitScale
	ClockBitState
	ClockBitLatency
)

// ClockUpdate is the field layout §6 documents: rate as a fraction,
// ticks, a monotonic timestamp, scale packed as (num<<16)|den, the
// published state, and latency in nanoseconds.
type ClockUpdate struct {
	Mask           ClockBit
	RateNum        int32
	RateDen        int32
	Ticks          uint64
	MonotonicNanos int64
	ScalePacked    uint32 // (num<<16)|den
	State          State
	LatencyNanos   int64
	Live           bool
}

// PackScale implements the §6 field layout for the scale fraction.
func PackScale(num, den uint16) uint32 { return (uint32(num) << 16) | uint32(den) }

// Command is what SendCommand receives. Only one of the payload
// fields is meaningful, selected by Kind.
type Command struct {
	Kind  CommandKind
	Clock ClockUpdate
}

// CommandResult is what SendCommand returns: either an immediate
// outcome (Code 0 for success, negative for an element error) or a
// pending sequence number whose resolution arrives later via the
// Done callback and is routed through the work queue (C1).
type CommandResult struct {
	Async bool
	Seq   uint64
	Code  int
}

// commandChannel implements C3: translating State Machine requests
// into ProcessingElement commands and routing their outcomes through
// the work queue.
type commandChannel struct {
	n *Node
}

// pause is a no-op when the current state is already <= Idle (§4.3).
func (c *commandChannel) pause() CommandResult {
	if c.n.state <= Idle {
		return CommandResult{Code: 0}
	}
	return c.send(Command{Kind: CmdPause})
}

func (c *commandChannel) start() CommandResult {
	return c.send(Command{Kind: CmdStart})
}

// suspend clears format on every port in both directions, best-effort:
// it continues past a per-port error but returns the last one (§4.3).
func (c *commandChannel) suspend() (CommandResult, error) {
	var errs cos.Errs
	for _, ps := range [2]*PortSet{c.n.in, c.n.out} {
		for _, p := range ps.Ports() {
			if err := c.n.elem.PortSetIO(ps.dir, p.ID, IOSlot{}); err != nil {
				errs.Add(err)
			}
		}
	}
	res := c.send(Command{Kind: CmdSuspend})
	return res, errs.Last()
}

// clockUpdate assembles the descriptor described in §4.3: change bits
// for {time, scale, state, latency}; if a clock is present and the
// node is live, it queries the clock and sets Live.
func (c *commandChannel) clockUpdate() CommandResult {
	cu := ClockUpdate{
		Mask:  ClockBitTime | ClockBitScale | ClockBitState | ClockBitLatency,
		State: c.n.state,
	}
	if c.n.clock != nil && c.n.live {
		num, den, ticks, mono := c.n.clock.Query()
		cu.RateNum, cu.RateDen = num, den
		cu.Ticks = ticks
		cu.MonotonicNanos = mono
		cu.Live = true
	}
	return c.send(Command{Kind: CmdClockUpdate, Clock: cu})
}

func (c *commandChannel) send(cmd Command) CommandResult {
	res, err := c.n.elem.SendCommand(cmd)
	if err != nil {
		nlogErrorf("node %s: send_command(%s) failed immediately: %v", c.n.name, cmd.Kind, err)
		stats.CommandCompletions.WithLabelValues(cmd.Kind.String(), "error").Inc()
		return CommandResult{Code: -1}
	}
	if !res.Async {
		result := "ok"
		if res.Code < 0 {
			result = "error"
		}
		stats.CommandCompletions.WithLabelValues(cmd.Kind.String(), result).Inc()
	}
	return res
}
