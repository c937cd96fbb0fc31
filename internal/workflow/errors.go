// Package workflow implements the per-email triage workflow. A state graph
// threads one TriageState through load_context, classify, draft,
// human_review, apply_feedback, and finalize.
package workflow

import "errors"

// Sentinel errors for workflow operations.
var (
	ErrMissingState   = errors.New("missing triage state")
	ErrInvalidRuntime = errors.New("invalid workflow runtime")
	ErrDraftFailed    = errors.New("draft failed")
	ErrReviewFailed   = errors.New("review failed")
	ErrReviseFailed   = errors.New("revision failed")
)
