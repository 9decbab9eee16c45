package formula

import (
	"errors"
	"fmt"
)

// ErrNoInput is returned when a caller supplies neither a formula batch nor a
// discovery request. This is a usage error and aborts the call immediately;
// everything else is recovered per formula.
var ErrNoInput = errors.New("no formulas supplied and field discovery not requested")

// UnknownTokenError reports an operand that resolves to neither a known
// field name nor a numeric literal. The whole formula is skipped; the rest
// of the batch still runs.
type UnknownTokenError struct {
	Formula string
	Token   string
}

func (e *UnknownTokenError) Error() string {
	return fmt.Sprintf("formula %q: token %q is neither a known field nor a number", e.Formula, e.Token)
}

// FormulaError records a per-formula failure surfaced in the batch result.
type FormulaError struct {
	Formula string `json:"formula"`
	Err     error  `json:"-"`
}

func (e FormulaError) Error() string {
	return e.Err.Error()
}

// MarshalJSON flattens the wrapped error into a message string.
func (e FormulaError) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("{\"formula\":%q,\"message\":%q}", e.Formula, e.Err.Error())), nil
}
