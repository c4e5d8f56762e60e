package calculator

import (
	"math"
	"strconv"
	"strings"
)

// MaxDigits bounds the length of a typed operand.
const MaxDigits = 12

// resultScale rounds computed results to 8 decimal places.
const resultScale = 1e8

// State is the full calculator state. The zero value is the Idle state.
type State struct {
	CurrentOperand     string
	PreviousOperand    string
	Operation          Operation
	ShouldResetDisplay bool
}

// Phase names the state the engine is in. It is derived from State rather
// than stored, so it can never disagree with the operands.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAccumulating
	PhaseAwaitingOperand
	PhaseAccumulatingSecond
	PhaseResult
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAccumulating:
		return "accumulating"
	case PhaseAwaitingOperand:
		return "awaiting_operand"
	case PhaseAccumulatingSecond:
		return "accumulating_second"
	case PhaseResult:
		return "result"
	}
	return "unknown"
}

// Phase reports which state of the input state machine s is in.
func (s State) Phase() Phase {
	switch {
	case s.ShouldResetDisplay:
		return PhaseResult
	case s.Operation == OpNone && s.CurrentOperand == "" && s.PreviousOperand == "":
		return PhaseIdle
	case s.Operation == OpNone:
		return PhaseAccumulating
	case s.CurrentOperand == "":
		return PhaseAwaitingOperand
	default:
		return PhaseAccumulatingSecond
	}
}

// Engine is the calculator state machine. It is not safe for concurrent
// use; Session serialises access to it.
type Engine struct {
	state     State
	formatter *Formatter
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithFormatter sets the formatter used by Display.
func WithFormatter(f *Formatter) EngineOption {
	return func(e *Engine) {
		if f != nil {
			e.formatter = f
		}
	}
}

// NewEngine returns an engine in the Idle state.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{formatter: defaultFormatter}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	return e.state
}

// Clear returns the engine to Idle.
func (e *Engine) Clear() {
	e.state = State{}
}

// Delete removes the last typed character. Right after a result it clears
// everything instead of editing the stale value.
func (e *Engine) Delete() {
	if e.state.ShouldResetDisplay {
		e.Clear()
		return
	}
	cur := e.state.CurrentOperand
	if cur == "" {
		return
	}
	e.state.CurrentOperand = cur[:len(cur)-1]
}

// AppendNumber appends a digit or the decimal point to the current
// operand. Duplicate decimal points, input past MaxDigits and any other
// token are ignored.
func (e *Engine) AppendNumber(token rune) {
	if !isDigit(token) && token != '.' {
		return
	}

	s := &e.state
	if s.ShouldResetDisplay {
		s.CurrentOperand = ""
		s.ShouldResetDisplay = false
	}

	if token == '.' && strings.Contains(s.CurrentOperand, ".") {
		return
	}
	if len(s.CurrentOperand) >= MaxDigits {
		return
	}
	s.CurrentOperand += string(token)
}

// ChooseOperation latches op as the pending operator. A pending operation
// with both operands present is computed first, so "3 + 4 ×" leaves 7
// waiting for a multiplier. If that computation faults, the error is
// returned and nothing is latched.
func (e *Engine) ChooseOperation(op Operation) error {
	if op == OpNone {
		return nil
	}

	s := &e.state
	switch s.Phase() {
	case PhaseIdle:
		return nil
	case PhaseAwaitingOperand:
		if s.PreviousOperand != "" {
			s.Operation = op
		}
		return nil
	case PhaseAccumulatingSecond:
		if err := e.Compute(); err != nil {
			return err
		}
	case PhaseAccumulating, PhaseResult:
		if s.CurrentOperand == "" {
			// Only reachable with a previous operand and no typed digits.
			if s.PreviousOperand == "" {
				return nil
			}
			s.Operation = op
			return nil
		}
	}

	s.Operation = op
	s.PreviousOperand = s.CurrentOperand
	s.CurrentOperand = ""
	s.ShouldResetDisplay = false
	return nil
}

// Compute applies the pending operation. Incomplete input (no operator or
// an operand that does not parse) is a no-op. Division or modulo by zero
// and non-finite results return an error and leave the state unchanged.
func (e *Engine) Compute() error {
	s := &e.state
	switch s.Phase() {
	case PhaseAccumulatingSecond:
	case PhaseIdle, PhaseAccumulating, PhaseAwaitingOperand, PhaseResult:
		return nil
	}

	prev, err := strconv.ParseFloat(s.PreviousOperand, 64)
	if err != nil {
		return nil
	}
	cur, err := strconv.ParseFloat(s.CurrentOperand, 64)
	if err != nil {
		return nil
	}

	result, err := s.Operation.apply(prev, cur)
	if err != nil {
		return err
	}
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return ErrOverflow
	}

	s.CurrentOperand = formatResult(roundResult(result))
	s.Operation = OpNone
	s.PreviousOperand = ""
	s.ShouldResetDisplay = true
	return nil
}

// Display renders the two display strings for the current state.
func (e *Engine) Display() Display {
	return e.formatter.Display(e.state)
}

// roundResult rounds v half away from zero at the eighth decimal place.
// Values too large to scale have no fractional digits left to round.
func roundResult(v float64) float64 {
	scaled := v * resultScale
	if math.IsInf(scaled, 0) {
		return v
	}
	r := math.Round(scaled) / resultScale
	if r == 0 {
		return 0
	}
	return r
}

func formatResult(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
