package models

// Severity tags a status message.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Message is the status banner shown after an action.
type Message struct {
	Text     string
	Severity Severity
	Hidden   bool
}
