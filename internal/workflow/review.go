package workflow

import (
	"context"

	"github.com/JaimeStill/dispatch/internal/company"
)

// Action is a reviewer's verdict on a draft.
type Action string

const (
	ActionApprove Action = "approve"
	ActionRevise  Action = "revise"
	ActionSkip    Action = "skip"
)

// Prompt is what the human_review stage shows a reviewer.
// Draft is empty when review happens before drafting, in which case only
// an override or a skip has any effect.
type Prompt struct {
	EmailID       string               `json:"email_id"`
	From          string               `json:"from"`
	Subject       string               `json:"subject"`
	Summary       string               `json:"summary"`
	Department    company.Department   `json:"department"`
	Confidence    float64              `json:"confidence"`
	Tags          []string             `json:"tags"`
	Owner         string               `json:"owner,omitempty"`
	Draft         string               `json:"draft"`
	AllowOverride bool                 `json:"allow_override"`
	Departments   []company.Department `json:"departments"`
	Revision      int                  `json:"revision"`
	MaxRevisions  int                  `json:"max_revisions"`
}

// Decision is the reviewer's answer. Department is free text and is
// validated by the workflow; it is only consulted when the prompt allowed an
// override. Feedback is only consulted for ActionRevise.
type Decision struct {
	Department string `json:"department,omitempty"`
	Action     Action `json:"action"`
	Feedback   string `json:"feedback,omitempty"`
}

// Reviewer is the suspension point of the workflow. Review blocks until the
// reviewer answers or ctx is done.
type Reviewer interface {
	Review(ctx context.Context, p Prompt) (Decision, error)
}

// AutoReviewer approves every prompt without overriding anything.
type AutoReviewer struct{}

func (AutoReviewer) Review(ctx context.Context, p Prompt) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}
	return Decision{Action: ActionApprove}, nil
}
