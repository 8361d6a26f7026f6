package expression

import (
	"errors"
	"fmt"
)

var (
	ErrNilEnv          = errors.New("cannot evaluate on nil Env")
	ErrEmptyExpression = errors.New("empty expression")
	ErrNotBool         = errors.New("expression did not evaluate to bool")
)

// Error is a structured evaluation failure carrying the source text and
// the phase that failed.
type Error struct {
	Expression string
	Phase      string // "compile" or "run"
	Cause      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("expression %q failed during %s: %v", e.Expression, e.Phase, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func NewCompileError(expr string, cause error) error {
	return &Error{Expression: expr, Phase: "compile", Cause: cause}
}

func NewRunError(expr string, cause error) error {
	return &Error{Expression: expr, Phase: "run", Cause: cause}
}
