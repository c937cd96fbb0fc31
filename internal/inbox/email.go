// Package inbox loads the batch of customer emails to triage and normalizes
// each record into an immutable Email value.
package inbox

import "strings"

// Email is one inbound customer message. It is never mutated after loading.
type Email struct {
	ID      string `json:"id"`
	From    string `json:"from"`
	To      string `json:"to,omitempty"`
	Subject string `json:"subject"`
	Body    string `json:"body"`

	// RawBody is the body exactly as it appeared in the source file.
	RawBody string `json:"raw_body,omitempty"`
}

// Original returns the unprocessed body, falling back to Body for emails
// that were built without one.
func (e Email) Original() string {
	if e.RawBody != "" {
		return e.RawBody
	}
	return e.Body
}

// SenderKey returns the normalized sender address used as a memory key.
func (e Email) SenderKey() string {
	return strings.ToLower(strings.TrimSpace(e.From))
}

// Blank reports whether the email carries neither subject nor body text.
func (e Email) Blank() bool {
	return strings.TrimSpace(e.Subject) == "" && strings.TrimSpace(e.Body) == ""
}
