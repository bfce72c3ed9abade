package runtime

import (
	"errors"

	"github.com/termfx/lithium/internal/source"
)

// ErrUnsupported is returned by the operator dispatch when no rule is
// defined for the operand pair; the evaluator turns it into a
// diagnostic naming both operand types.
var ErrUnsupported = errors.New("unsupported operand types")

// Error is a runtime semantic error. The range points at the offending
// expression; At, when set, is a narrower caret position inside it.
type Error struct {
	Msg   string
	Range source.Range
	At    *source.Location
}

func (e *Error) Error() string {
	return e.Msg
}

// Errorf builds a runtime error at rng.
func Errorf(rng source.Range, msg string) *Error {
	return &Error{Msg: msg, Range: rng}
}

// ExitError is the non-local transfer raised by exit(code); the driver
// catches it and turns it into the process exit status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return "exit"
}
