package calculator

import "errors"

// Calculator faults. The engine state is left untouched when one of these
// is returned; a render sink is expected to show them and then clear.
var (
	ErrDivideByZero = errors.New("division by zero")
	ErrModuloByZero = errors.New("modulo by zero")
	ErrOverflow     = errors.New("result overflow")
)

var (
	// ErrInvalidCommand is returned when a command cannot be built from
	// its wire form.
	ErrInvalidCommand = errors.New("invalid command")

	ErrSessionNotFound = errors.New("session not found")

	errNoOperation = errors.New("no operation selected")
)

// IsFault reports whether err is one of the calculator faults that a
// render sink should display and auto-clear.
func IsFault(err error) bool {
	return errors.Is(err, ErrDivideByZero) ||
		errors.Is(err, ErrModuloByZero) ||
		errors.Is(err, ErrOverflow)
}

// FaultCode returns the stable identifier of a calculator fault, or an
// empty string when err is not one.
func FaultCode(err error) string {
	switch {
	case errors.Is(err, ErrDivideByZero):
		return "divide_by_zero"
	case errors.Is(err, ErrModuloByZero):
		return "modulo_by_zero"
	case errors.Is(err, ErrOverflow):
		return "overflow"
	}
	return ""
}
