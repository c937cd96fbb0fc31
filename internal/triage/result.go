// Package triage decides which department owns an email.
package triage

import "github.com/JaimeStill/dispatch/internal/company"

// Source records which step of the routing chain produced a Result.
type Source string

const (
	SourceAlias      Source = "alias"
	SourceRule       Source = "rule"
	SourceClassifier Source = "classifier"
	SourceModel      Source = "model"
)

// Result is a department decision with its confidence.
type Result struct {
	Department company.Department `json:"department"`
	Confidence float64            `json:"confidence"`
	Summary    string             `json:"summary"`
	Tags       []string           `json:"tags"`
	Source     Source             `json:"source"`
}
