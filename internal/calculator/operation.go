package calculator

import "math"

// Operation is the pending binary operator. The zero value means no
// operator has been chosen.
type Operation int

const (
	OpNone Operation = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
)

// Symbol returns the glyph shown next to the previous operand.
func (o Operation) Symbol() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "−"
	case OpMul:
		return "×"
	case OpDiv:
		return "÷"
	case OpMod:
		return "%"
	default:
		return ""
	}
}

// String returns the name used in logs, metrics and JSON bodies.
func (o Operation) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpSub:
		return "subtract"
	case OpMul:
		return "multiply"
	case OpDiv:
		return "divide"
	case OpMod:
		return "modulo"
	default:
		return "none"
	}
}

// ParseOperation accepts an operator glyph, its ASCII keyboard form or
// its name.
func ParseOperation(s string) (Operation, bool) {
	switch s {
	case "+", "add":
		return OpAdd, true
	case "-", "−", "subtract":
		return OpSub, true
	case "*", "×", "multiply":
		return OpMul, true
	case "/", "÷", "divide":
		return OpDiv, true
	case "%", "modulo":
		return OpMod, true
	}
	return OpNone, false
}

// apply evaluates a op b. A zero divisor for Div and Mod is reported as an
// error; the caller checks finiteness of the result.
func (o Operation) apply(a, b float64) (float64, error) {
	switch o {
	case OpAdd:
		return a + b, nil
	case OpSub:
		return a - b, nil
	case OpMul:
		return a * b, nil
	case OpDiv:
		if b == 0 {
			return 0, ErrDivideByZero
		}
		return a / b, nil
	case OpMod:
		if b == 0 {
			return 0, ErrModuloByZero
		}
		return math.Mod(a, b), nil
	}
	return 0, errNoOperation
}
