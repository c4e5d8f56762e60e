package calculator

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// maxFractionDisplay is the number of fraction characters kept on screen.
// Extra characters are cut, not rounded.
const maxFractionDisplay = 8

// Display holds the two strings a render sink paints.
type Display struct {
	Previous string `json:"previous"`
	Current  string `json:"current"`
}

// Formatter renders operands with a locale's grouping and decimal
// separators.
type Formatter struct {
	group   string
	decimal string
}

var defaultFormatter = NewFormatter(language.English)

// NewFormatter returns a formatter for tag. The separators are read back
// from the locale's rendering of 1234567.5.
func NewFormatter(tag language.Tag) *Formatter {
	f := &Formatter{group: ",", decimal: "."}

	s := message.NewPrinter(tag).Sprint(number.Decimal(1234567.5))
	s = strings.TrimSuffix(strings.TrimPrefix(s, "1"), "5")
	if group, rest, ok := strings.Cut(s, "234"); ok {
		if _, decimal, ok := strings.Cut(rest, "567"); ok && decimal != "" {
			f.group, f.decimal = group, decimal
		}
	}
	return f
}

// FormatForDisplay formats an operand with English grouping.
func FormatForDisplay(operand string) string {
	return defaultFormatter.Format(operand)
}

// Format groups the integer part of operand and truncates its fraction to
// eight characters. An empty operand formats as an empty string.
func (f *Formatter) Format(operand string) string {
	if operand == "" {
		return ""
	}

	intPart, fracPart, hasFrac := strings.Cut(operand, ".")
	out := f.formatInteger(intPart)
	if !hasFrac {
		return out
	}

	if len(fracPart) > maxFractionDisplay {
		fracPart = fracPart[:maxFractionDisplay]
	}
	return out + f.decimal + fracPart
}

// Display renders s the way a render sink shows it: the current operand,
// or "0" when empty, and the previous operand followed by the pending
// operator symbol.
func (f *Formatter) Display(s State) Display {
	d := Display{Current: f.Format(s.CurrentOperand)}
	if d.Current == "" {
		d.Current = "0"
	}
	if s.Operation != OpNone {
		d.Previous = f.Format(s.PreviousOperand) + " " + s.Operation.Symbol()
	}
	return d
}

// formatInteger groups a run of digits in threes from the right. The
// digits are never converted to a number, so large results display exactly
// as stored.
func (f *Formatter) formatInteger(digits string) string {
	sign := ""
	if rest, ok := strings.CutPrefix(digits, "-"); ok {
		sign, digits = "-", rest
	}
	if digits == "" || strings.IndexFunc(digits, func(r rune) bool { return !isDigit(r) }) >= 0 {
		return ""
	}

	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		digits = "0"
	}

	var b strings.Builder
	b.WriteString(sign)
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(f.group)
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
