package cos

import (
	"errors"
	"fmt"
	"os"
	"sync"
	ratomic "sync/atomic"

	"github.com/raghaven447/pipewire/cmn/debug"
)

type (
	// ErrNotFound is returned by lookups against the node registry: the
	// id is well-formed but nothing is bound to it.
	ErrNotFound struct {
		what string
	}
	// Errs aggregates errors from a best-effort loop (e.g. suspend
	// clearing format on every port) that must keep going on a
	// per-item failure but still report that something went wrong.
	Errs struct {
		errs []error
		last error
		cnt  int64
		mu   sync.Mutex
	}
)

// ErrNotFound

func NewErrNotFound(format string, a ...any) *ErrNotFound {
	return &ErrNotFound{fmt.Sprintf(format, a...)}
}

func (e *ErrNotFound) Error() string { return e.what + " does not exist" }

func IsErrNotFound(err error) bool {
	_, ok := err.(*ErrNotFound)
	return ok
}

// Errs

const maxErrs = 4

func (e *Errs) Add(err error) {
	debug.Assert(err != nil)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.last = err
	for _, added := range e.errs {
		if added.Error() == err.Error() {
			return
		}
	}
	if len(e.errs) < maxErrs {
		e.errs = append(e.errs, err)
		ratomic.StoreInt64(&e.cnt, int64(len(e.errs)))
	}
}

func (e *Errs) Cnt() int { return int(ratomic.LoadInt64(&e.cnt)) }

// Last returns the most recently added error, or nil if none were added.
// The state machine's `suspend` command uses this: it clears format on
// every port, best-effort, and reports only the last failure.
func (e *Errs) Last() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

func (e *Errs) JoinErr() (cnt int, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if cnt = len(e.errs); cnt > 0 {
		err = errors.Join(e.errs...)
	}
	return
}

//
// Abnormal termination
//

const fatalPrefix = "FATAL ERROR: "

// ExitLogf reports a programming-error condition (one this core's
// contract says cannot happen, e.g. a second completion for a
// sequence number already resolved) and terminates the process. A
// library would normally never call os.Exit, but this mirrors the
// teacher's own policy: such violations are surfaced as a fatal
// diagnostic, not silently swallowed or returned as an `error`.
var ExitLogf = func(f string, a ...any) {
	msg := fmt.Sprintf(fatalPrefix+f, a...)
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
