package calculator

import (
	"errors"
	"testing"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		kind, value string
		want        Command
	}{
		{kind: "digit", value: "7", want: Digit('7')},
		{kind: "decimal_point", want: DecimalPoint()},
		{kind: "operator", value: "×", want: Operator(OpMul)},
		{kind: "operator", value: "-", want: Operator(OpSub)},
		{kind: "operator", value: "modulo", want: Operator(OpMod)},
		{kind: "equals", want: Equals()},
		{kind: "clear", want: Clear()},
		{kind: "delete", want: Delete()},
	}

	for _, tc := range tests {
		t.Run(tc.kind+tc.value, func(t *testing.T) {
			got, err := ParseCommand(tc.kind, tc.value)
			if err != nil {
				t.Fatalf("ParseCommand(%q, %q): %v", tc.kind, tc.value, err)
			}
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestParseCommandRejectsBadInput(t *testing.T) {
	tests := []struct{ kind, value string }{
		{kind: "digit", value: ""},
		{kind: "digit", value: "12"},
		{kind: "digit", value: "x"},
		{kind: "operator", value: "^"},
		{kind: "sqrt"},
	}

	for _, tc := range tests {
		if _, err := ParseCommand(tc.kind, tc.value); !errors.Is(err, ErrInvalidCommand) {
			t.Fatalf("ParseCommand(%q, %q): expected ErrInvalidCommand, got %v", tc.kind, tc.value, err)
		}
	}
}

func TestApplySequence(t *testing.T) {
	e := NewEngine()
	cmds := []Command{
		Digit('1'), Digit('2'), DecimalPoint(), Digit('5'),
		Operator(OpMul), Digit('2'), Equals(),
	}
	for _, cmd := range cmds {
		if err := e.Apply(cmd); err != nil {
			t.Fatalf("Apply(%v): %v", cmd, err)
		}
	}

	if got := e.Display(); got != (Display{Current: "25"}) {
		t.Fatalf("expected result 25, got %+v", got)
	}

	if err := e.Apply(Delete()); err != nil {
		t.Fatalf("Apply(delete): %v", err)
	}
	if e.State() != (State{}) {
		t.Fatalf("expected delete after result to clear, got %+v", e.State())
	}
}

func TestApplyUnknownKind(t *testing.T) {
	if err := NewEngine().Apply(Command{}); !errors.Is(err, ErrInvalidCommand) {
		t.Fatalf("expected ErrInvalidCommand, got %v", err)
	}
}

func TestOperationRoundTrip(t *testing.T) {
	for _, op := range []Operation{OpAdd, OpSub, OpMul, OpDiv, OpMod} {
		for _, s := range []string{op.Symbol(), op.String()} {
			got, ok := ParseOperation(s)
			if !ok || got != op {
				t.Fatalf("ParseOperation(%q): expected %s, got %s (%t)", s, op, got, ok)
			}
		}
	}
}

func TestFaultCode(t *testing.T) {
	if got := FaultCode(ErrModuloByZero); got != "modulo_by_zero" {
		t.Fatalf("expected modulo_by_zero, got %q", got)
	}
	if IsFault(ErrInvalidCommand) || FaultCode(nil) != "" {
		t.Fatal("expected non-fault errors to have no fault code")
	}
}
