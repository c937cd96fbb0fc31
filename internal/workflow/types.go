package workflow

import (
	"time"

	"github.com/JaimeStill/dispatch/internal/assignment"
	"github.com/JaimeStill/dispatch/internal/company"
	"github.com/JaimeStill/dispatch/internal/inbox"
	"github.com/JaimeStill/dispatch/internal/triage"
)

const (
	KeyEmail       = "email"
	KeyTriageState = "triage_state"
)

// Thresholds and defaults applied by the workflow stages.
const (
	ReviewThreshold      = 0.55
	OverrideConfidence   = 0.75
	RememberedConfidence = 0.85
	DefaultMaxRevisions  = 2

	// NoRevisions as Runtime.MaxRevisions turns every revise request into
	// the max-revisions outcome.
	NoRevisions = -1
)

// Warnings recorded in TriageState.Errors.
const (
	WarnSkipped         = "Skipped by user."
	WarnMaxRevisions    = "Max revisions reached; returning last draft."
	warnInvalidOverride = "Invalid department %q ignored; keeping %s."
)

// TriageState is the record threaded through every workflow stage for one
// email.
type TriageState struct {
	Email      inbox.Email        `json:"email"`
	Department company.Department `json:"department"`
	Confidence float64            `json:"confidence"`
	Summary    string             `json:"summary"`
	Tags       []string           `json:"tags"`
	Source     triage.Source      `json:"source,omitempty"`

	Draft           string             `json:"draft"`
	Tone            string             `json:"tone,omitempty"`
	Owner           assignment.Owner   `json:"owner"`
	OwnerDepartment company.Department `json:"owner_department,omitempty"`

	Feedback      string `json:"feedback,omitempty"`
	RevisionCount int    `json:"revision_count"`
	MaxRevisions  int    `json:"max_revisions"`
	MaxChars      int    `json:"max_chars,omitempty"`

	Approved     bool `json:"approved"`
	Skipped      bool `json:"skipped"`
	OverrideUsed bool `json:"override_used"`
	Remembered   bool `json:"remembered"`
	Revised      bool `json:"-"`

	Errors []string `json:"errors"`
}

// NeedsReview reports whether the decision must go to a reviewer before a
// draft is written.
func (s *TriageState) NeedsReview() bool {
	return s.Department == company.NeedsReview || s.Confidence < ReviewThreshold
}

// Warn records a soft warning.
func (s *TriageState) Warn(msg string) {
	s.Errors = append(s.Errors, msg)
}

// Result is the final output of one workflow execution.
type Result struct {
	State       TriageState `json:"state"`
	CompletedAt time.Time   `json:"completed_at"`
}
