package node

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/raghaven447/pipewire/cmn/cos"
)

// Error kinds the core surfaces, per the contract: allocation failure
// during construction (NoMemory), an illegal state request or an
// operation on a destroyed node (InvalidState), a capacity conflict
// during port-set reconciliation (Busy), and a negative return from
// the processing element (ElementError).
type (
	ErrNoMemory struct {
		op string
	}
	ErrInvalidState struct {
		op    string
		state State
	}
	ErrBusy struct {
		reason string
	}
	ErrElementError struct {
		Code int
		op   string
	}
)

func NewErrNoMemory(op string) *ErrNoMemory { return &ErrNoMemory{op: op} }
func (e *ErrNoMemory) Error() string        { return "no memory: " + e.op }

func NewErrInvalidState(op string, s State) *ErrInvalidState {
	return &ErrInvalidState{op: op, state: s}
}
func (e *ErrInvalidState) Error() string {
	return fmt.Sprintf("invalid state: cannot %s while %s", e.op, e.state)
}

func NewErrBusy(reason string) *ErrBusy { return &ErrBusy{reason: reason} }
func (e *ErrBusy) Error() string        { return "busy: " + e.reason }

// NewErrElementError wraps a negative return code from the processing
// element with the command that produced it, the way the teacher's
// dsort manager wraps backend failures with `pkg/errors` so the
// original code is still retrievable via errors.Cause.
func NewErrElementError(op string, code int) error {
	return errors.Wrapf(&ErrElementError{Code: code, op: op}, "send_command(%s)", op)
}

func (e *ErrElementError) Error() string {
	return fmt.Sprintf("element returned error %d", e.Code)
}

// ErrFormat renders the published error_string the state machine sets
// on a failed transition: "error changing node state: <n>".
func ErrFormat(code int) string {
	return fmt.Sprintf("error changing node state: %d", code)
}

// IsErrNotFound re-exports cos' typed-error check so callers don't
// need to import both packages for a single predicate.
func IsErrNotFound(err error) bool { return cos.IsErrNotFound(err) }
