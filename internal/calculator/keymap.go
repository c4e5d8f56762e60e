package calculator

// KeyCommand translates a keyboard key name, as reported by a browser's
// KeyboardEvent.key, into a command. Unrecognised keys return false.
func KeyCommand(key string) (Command, bool) {
	switch key {
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
		return Digit(rune(key[0])), true
	case ".":
		return DecimalPoint(), true
	case "+":
		return Operator(OpAdd), true
	case "-":
		return Operator(OpSub), true
	case "*":
		return Operator(OpMul), true
	case "/":
		return Operator(OpDiv), true
	case "%":
		return Operator(OpMod), true
	case "Enter", "=":
		return Equals(), true
	case "Escape", "c", "C":
		return Clear(), true
	case "Backspace", "Delete":
		return Delete(), true
	}
	return Command{}, false
}

// SuppressesDefault reports whether the adapter must cancel the browser's
// default action for key ("/" opens quick find, Enter submits).
func SuppressesDefault(key string) bool {
	return key == "/" || key == "Enter"
}
