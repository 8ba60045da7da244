package node

// installCallbacks wires the element's Callbacks table to the node's
// handlers (§4.5 construction, §6). NeedInput/HaveOutput run on the RT
// loop and drive the scheduler directly; Done/Event arrive from
// wherever the element calls them and are handed straight to the work
// queue / command channel, with no thread marshaling of their own.
func (n *Node) installCallbacks() {
	n.elem.SetCallbacks(Callbacks{
		Done:        n.onDone,
		Event:       n.onEvent,
		NeedInput:   n.onNeedInput,
		HaveOutput:  n.onHaveOutput,
		ReuseBuffer: n.onReuseBuffer,
	})
}

// onNeedInput is the RT pull signal: drive the scheduler at this
// vertex and keep iterating while it reports further progress is
// possible, draining one step of demand to quiescence (§4.5).
func (n *Node) onNeedInput() {
	if !n.hasVertex {
		return
	}
	n.scheduler.Pull(n.vertex)
	n.drainScheduler()
}

// onHaveOutput is the RT push signal, symmetric to onNeedInput.
func (n *Node) onHaveOutput() {
	if !n.hasVertex {
		return
	}
	n.scheduler.Push(n.vertex)
	n.drainScheduler()
}

func (n *Node) drainScheduler() {
	for {
		more := n.scheduler.Iterate()
		if !more {
			return
		}
	}
}

// onReuseBuffer is left inert: propagating a returned buffer_id to the
// peer output port's I/O slot is graph-topology-aware work this core
// does not perform itself (§9 Open Questions).
func (n *Node) onReuseBuffer(int, uint64) {}

// onDone resolves a previously issued async command by handing its
// result to the work queue, which invokes the completion latched at
// submission time (§4.1, §4.3), then publishes async-complete for any
// observer that only cares about the raw seq/result pair (§4.5, §6).
// Once the node has been destroyed, async-complete is not emitted.
func (n *Node) onDone(seq uint64, result int) {
	n.wq.Complete(n.id, seq, result)
	if n.destroyed.Load() {
		return
	}
	n.emitAsyncComplete(seq, result)
}

// onEvent handles out-of-band element events. The only one currently
// defined asks the node to emit a clock-update command synchronously,
// outside of any state transition (§4.3, §6).
func (n *Node) onEvent(ev Event) {
	switch ev {
	case RequestClockUpdate:
		n.cmd.clockUpdate()
	default:
		nlogWarnf("node %s: unrecognized event %d", n.name, ev)
	}
}
