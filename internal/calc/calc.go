// Package calc maps symbolic operation tags to arithmetic functions.
// Each operation is registered as a validator plus a compute function, so
// supporting a new tag is a single Register call.
package calc

import (
	"errors"
	"fmt"
)

// Operation is a symbolic tag selecting an arithmetic function.
type Operation string

const (
	Add      Operation = "ADD"
	Sub      Operation = "SUB"
	Multiply Operation = "MULTIPLY"
	Divide   Operation = "DIVIDE"
)

var (
	ErrUnsupportedOperation = errors.New("unsupported operation")
	ErrDivisionByZero       = errors.New("division by zero")
)

type operation struct {
	validate func(a, b float64) error
	apply    func(a, b float64) float64
}

var registry = map[Operation]operation{}

// Register adds an operation to the registry. validate may be nil when the
// operation is defined for all operands.
func Register(op Operation, validate func(a, b float64) error, apply func(a, b float64) float64) {
	registry[op] = operation{validate: validate, apply: apply}
}

func init() {
	Register(Add, nil, func(a, b float64) float64 { return a + b })
	Register(Sub, nil, func(a, b float64) float64 { return a - b })
	Register(Multiply, nil, func(a, b float64) float64 { return a * b })
	Register(Divide,
		func(a, b float64) error {
			if b == 0 {
				return ErrDivisionByZero
			}
			return nil
		},
		func(a, b float64) float64 { return a / b })
}

// Compute validates the operands for the given operation and returns the
// result. Validation failures are returned before anything is computed.
func Compute(op Operation, a, b float64) (float64, error) {
	entry, ok := registry[op]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedOperation, string(op))
	}
	if entry.validate != nil {
		if err := entry.validate(a, b); err != nil {
			return 0, err
		}
	}
	return entry.apply(a, b), nil
}

// Supported reports whether the operation tag is registered.
func Supported(op Operation) bool {
	_, ok := registry[op]
	return ok
}
