package node

import (
	"testing"

	"github.com/raghaven447/pipewire/cmn/cos"
)

func TestWorkQueuePerOwnerOrdering(t *testing.T) {
	wq := NewWorkQueue()
	var got []int

	wq.Submit("n1", 1, func(code int) { got = append(got, code) })
	wq.Submit("n1", 2, func(code int) { got = append(got, code) })

	wq.Complete("n1", 1, 10)
	wq.Complete("n1", 2, 20)

	if len(got) != 2 || got[0] != 10 || got[1] != 20 {
		t.Fatalf("want completions in submission order [10 20], got %v", got)
	}
	if wq.Len("n1") != 0 {
		t.Fatalf("want empty queue after draining, got depth %d", wq.Len("n1"))
	}
}

func TestWorkQueueIndependentOwners(t *testing.T) {
	wq := NewWorkQueue()
	wq.Submit("a", 1, func(int) {})
	wq.Submit("b", 1, func(int) {})

	if wq.Len("a") != 1 || wq.Len("b") != 1 {
		t.Fatalf("want each owner to carry its own depth")
	}
	wq.Complete("a", 1, 0)
	if wq.Len("a") != 0 || wq.Len("b") != 1 {
		t.Fatalf("completing one owner must not affect another")
	}
}

func TestWorkQueueDoubleCompletionIsFatal(t *testing.T) {
	orig := cos.ExitLogf
	defer func() { cos.ExitLogf = orig }()

	var fataled bool
	cos.ExitLogf = func(string, ...any) { fataled = true }

	wq := NewWorkQueue()
	wq.Submit("n1", 1, func(int) {})
	wq.Complete("n1", 1, 0)
	wq.Complete("n1", 1, 0) // nothing pending: must report fatal, not panic

	if !fataled {
		t.Fatalf("want a double completion to report a fatal diagnostic")
	}
}

// TestWorkQueueCancelDiscardsLateCompletion is S6: a completion that
// arrives after the owner has been cancelled (destroy already ran) is
// discarded, not treated as a double-completion bug.
func TestWorkQueueCancelDiscardsLateCompletion(t *testing.T) {
	orig := cos.ExitLogf
	defer func() { cos.ExitLogf = orig }()
	var fataled bool
	cos.ExitLogf = func(string, ...any) { fataled = true }

	wq := NewWorkQueue()
	var invoked bool
	wq.Submit("n1", 1, func(int) { invoked = true })
	wq.Cancel("n1")
	wq.Complete("n1", 1, 0)

	if fataled {
		t.Fatalf("late completion after Cancel must not be treated as fatal")
	}
	if invoked {
		t.Fatalf("late completion after Cancel must not invoke the stale closure")
	}
}
