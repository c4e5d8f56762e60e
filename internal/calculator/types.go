package calculator

// CommandRequest is the JSON body for POST /calculator/sessions/{id}/commands.
type CommandRequest struct {
	Command string `json:"command"`         // "digit", "decimal_point", "operator", "equals", "clear", "delete"
	Value   string `json:"value,omitempty"` // digit character or operator symbol
}

// KeyRequest is the JSON body for POST /calculator/sessions/{id}/keys.
type KeyRequest struct {
	Key string `json:"key"` // KeyboardEvent.key, e.g. "7", "*", "Enter"
}

// SessionResponse is the JSON response for all session endpoints.
type SessionResponse struct {
	ID string `json:"id"`
	Snapshot
}

// KeyResponse adds the adapter outcome to the session snapshot.
type KeyResponse struct {
	SessionResponse
	Handled        bool `json:"handled"`
	PreventDefault bool `json:"prevent_default"`
}

// EvaluateRequest is the JSON body for POST /calculator/evaluate.
type EvaluateRequest struct {
	Keys []string `json:"keys"`
}

// EvaluateResponse is the JSON response for POST /calculator/evaluate.
type EvaluateResponse struct {
	Steps []EvaluateStep `json:"steps"`
	Display
}

// EvaluateStep records the display after one key.
type EvaluateStep struct {
	Key     string `json:"key"`
	Command string `json:"command,omitempty"`
	Display
}
