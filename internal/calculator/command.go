package calculator

import (
	"fmt"
	"unicode/utf8"
)

// CommandKind enumerates the discrete inputs the engine accepts.
type CommandKind int

const (
	CommandDigit CommandKind = iota + 1
	CommandDecimalPoint
	CommandOperator
	CommandEquals
	CommandClear
	CommandDelete
)

var commandKindNames = map[CommandKind]string{
	CommandDigit:        "digit",
	CommandDecimalPoint: "decimal_point",
	CommandOperator:     "operator",
	CommandEquals:       "equals",
	CommandClear:        "clear",
	CommandDelete:       "delete",
}

func (k CommandKind) String() string {
	if name, ok := commandKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Command is one input event. Digit is set for CommandDigit and Operation
// for CommandOperator.
type Command struct {
	Kind      CommandKind
	Digit     rune
	Operation Operation
}

// Constructors for each command kind.
func Digit(d rune) Command { return Command{Kind: CommandDigit, Digit: d} }
func DecimalPoint() Command { return Command{Kind: CommandDecimalPoint} }
func Operator(op Operation) Command { return Command{Kind: CommandOperator, Operation: op} }
func Equals() Command { return Command{Kind: CommandEquals} }
func Clear() Command { return Command{Kind: CommandClear} }
func Delete() Command { return Command{Kind: CommandDelete} }

func (c Command) String() string {
	switch c.Kind {
	case CommandDigit:
		return fmt.Sprintf("digit(%c)", c.Digit)
	case CommandOperator:
		return fmt.Sprintf("operator(%s)", c.Operation.Symbol())
	}
	return c.Kind.String()
}

// ParseCommand builds a command from its wire form, e.g. ("digit", "7")
// or ("operator", "×").
func ParseCommand(kind, value string) (Command, error) {
	switch kind {
	case "digit":
		r, size := utf8.DecodeRuneInString(value)
		if size == 0 || size != len(value) || !isDigit(r) {
			return Command{}, fmt.Errorf("%w: digit %q", ErrInvalidCommand, value)
		}
		return Digit(r), nil
	case "decimal_point":
		return DecimalPoint(), nil
	case "operator":
		op, ok := ParseOperation(value)
		if !ok {
			return Command{}, fmt.Errorf("%w: operator %q", ErrInvalidCommand, value)
		}
		return Operator(op), nil
	case "equals":
		return Equals(), nil
	case "clear":
		return Clear(), nil
	case "delete":
		return Delete(), nil
	}
	return Command{}, fmt.Errorf("%w: unknown command %q", ErrInvalidCommand, kind)
}

// Apply feeds cmd to the engine. Only Operator and Equals can fail, and
// only with a calculator fault.
func (e *Engine) Apply(cmd Command) error {
	switch cmd.Kind {
	case CommandDigit:
		e.AppendNumber(cmd.Digit)
	case CommandDecimalPoint:
		e.AppendNumber('.')
	case CommandOperator:
		return e.ChooseOperation(cmd.Operation)
	case CommandEquals:
		return e.Compute()
	case CommandClear:
		e.Clear()
	case CommandDelete:
		e.Delete()
	default:
		return fmt.Errorf("%w: kind %d", ErrInvalidCommand, cmd.Kind)
	}
	return nil
}
