package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/dispatch/internal/drafts"
	"github.com/JaimeStill/dispatch/internal/inbox"
	"github.com/JaimeStill/dispatch/internal/triage"
)

// LoadContextNode returns a state node that seeds the TriageState for the
// email and applies any remembered sender department.
func LoadContextNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		email, err := extractEmail(s)
		if err != nil {
			return s, fmt.Errorf("load_context: %w", err)
		}

		ts := TriageState{
			Email:        email,
			MaxRevisions: rt.revisionLimit(),
			MaxChars:     rt.MaxChars,
			Tags:         []string{},
			Errors:       []string{},
		}

		if d, ok := rt.Memory.SenderDepartment(email.From); ok {
			if resolved, ok := rt.Catalog.Resolve(string(d)); ok && rt.Catalog.Valid(resolved) {
				ts.Department = resolved
				ts.Confidence = RememberedConfidence
				ts.Summary = triage.Summarize(strings.TrimSpace(email.Subject), strings.TrimSpace(email.Body))
				ts.Tags = []string{"memory"}
				ts.Remembered = true
				ts.OverrideUsed = true
				ts.Tone = rt.tone(resolved)
			} else {
				rt.Logger.WarnContext(ctx, "remembered department unknown", "email_id", email.ID, "department", d)
			}
		}

		rt.Logger.InfoContext(
			ctx, "load_context node complete",
			"email_id", email.ID,
			"remembered", ts.Remembered,
		)

		return s.Set(KeyTriageState, ts), nil
	})
}

// ClassifyNode returns a state node that runs the routing chain.
func ClassifyNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		ts, err := extractTriageState(s)
		if err != nil {
			return s, fmt.Errorf("classify: %w", err)
		}

		res := rt.Router.Route(ctx, ts.Email)
		ts.Department = res.Department
		ts.Confidence = res.Confidence
		ts.Summary = res.Summary
		ts.Tags = res.Tags
		ts.Source = res.Source
		ts.Tone = rt.tone(res.Department)
		ts.RevisionCount = 0
		ts.Feedback = ""

		rt.Logger.InfoContext(
			ctx, "classify node complete",
			"email_id", ts.Email.ID,
			"department", ts.Department,
			"confidence", ts.Confidence,
			"source", ts.Source,
		)

		return s.Set(KeyTriageState, *ts), nil
	})
}

// DraftNode returns a state node that assigns an owner and produces the
// draft. A draft that came back from apply_feedback is only re-rendered.
func DraftNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		ts, err := extractTriageState(s)
		if err != nil {
			return s, fmt.Errorf("draft: %w", err)
		}

		ts.Tone = rt.tone(ts.Department)
		rt.ensureOwner(ts)

		if ts.Revised {
			ts.Draft = drafts.Render(ts.Draft, ts.Owner.Signature, ts.MaxChars)
			ts.Revised = false
		} else {
			text, err := rt.Drafter.Draft(ctx, drafts.Request{
				EmailID:     ts.Email.ID,
				From:        ts.Email.From,
				Subject:     ts.Email.Subject,
				Body:        ts.Email.Body,
				Confidence:  ts.Confidence,
				Constraints: rt.constraints(ts),
			})
			if err != nil {
				return s, fmt.Errorf("draft: %w: %w", ErrDraftFailed, err)
			}
			ts.Draft = text
		}

		rt.Logger.InfoContext(
			ctx, "draft node complete",
			"email_id", ts.Email.ID,
			"owner", ts.Owner.Email,
			"chars", len([]rune(ts.Draft)),
		)

		return s.Set(KeyTriageState, *ts), nil
	})
}

// HumanReviewNode returns a state node that hands the current decision to
// the Reviewer and applies its answer. The max-revision guard runs here so
// the outgoing edges stay pure.
func HumanReviewNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		ts, err := extractTriageState(s)
		if err != nil {
			return s, fmt.Errorf("human_review: %w", err)
		}

		prompt := Prompt{
			EmailID:       ts.Email.ID,
			From:          ts.Email.From,
			Subject:       ts.Email.Subject,
			Summary:       ts.Summary,
			Department:    ts.Department,
			Confidence:    ts.Confidence,
			Tags:          ts.Tags,
			Owner:         ts.Owner.Email,
			Draft:         ts.Draft,
			AllowOverride: ts.NeedsReview(),
			Departments:   rt.Catalog.Allowed(),
			Revision:      ts.RevisionCount,
			MaxRevisions:  ts.MaxRevisions,
		}

		dec, err := rt.Reviewer.Review(ctx, prompt)
		if err != nil {
			return s, fmt.Errorf("human_review: %w: %w", ErrReviewFailed, err)
		}

		applyDecision(rt, ts, prompt, dec)

		if ts.Draft != "" && ts.Feedback != "" && ts.RevisionCount >= ts.MaxRevisions {
			ts.Warn(WarnMaxRevisions)
			ts.Feedback = ""
		}

		if ts.Approved || ts.Skipped {
			rt.remember(ts)
		}

		rt.Logger.InfoContext(
			ctx, "human_review node complete",
			"email_id", ts.Email.ID,
			"action", dec.Action,
			"department", ts.Department,
			"revision", ts.RevisionCount,
		)

		return s.Set(KeyTriageState, *ts), nil
	})
}

func applyDecision(rt *Runtime, ts *TriageState, p Prompt, dec Decision) {
	if override := strings.TrimSpace(dec.Department); p.AllowOverride && override != "" {
		if d, ok := rt.Catalog.Resolve(override); ok {
			ts.Department = d
			ts.Confidence = max(ts.Confidence, OverrideConfidence)
			ts.OverrideUsed = true
		} else {
			ts.Warn(fmt.Sprintf(warnInvalidOverride, override, ts.Department))
		}
	}

	switch dec.Action {
	case ActionSkip:
		ts.Skipped = true
		ts.Warn(WarnSkipped)
	case ActionRevise:
		if ts.Draft == "" {
			return
		}
		if fb := strings.TrimSpace(dec.Feedback); fb != "" {
			ts.Feedback = fb
			return
		}
		ts.Approved = true
	default:
		if dec.Action != ActionApprove && dec.Action != "" {
			ts.Warn(fmt.Sprintf("Unknown review action %q treated as approve.", dec.Action))
		}
		if ts.Draft != "" {
			ts.Approved = true
		}
	}
}

// ApplyFeedbackNode returns a state node that revises the draft with the
// reviewer's instructions and consumes the feedback.
func ApplyFeedbackNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		ts, err := extractTriageState(s)
		if err != nil {
			return s, fmt.Errorf("apply_feedback: %w", err)
		}

		ts.Tone = rt.tone(ts.Department)
		rt.ensureOwner(ts)

		text, c, err := rt.Drafter.Revise(ctx, drafts.Revision{
			EmailID:      ts.Email.ID,
			Draft:        ts.Draft,
			Instructions: ts.Feedback,
			Constraints:  rt.constraints(ts),
		})
		if err != nil {
			return s, fmt.Errorf("apply_feedback: %w: %w", ErrReviseFailed, err)
		}

		ts.Draft = text
		ts.MaxChars = c.MaxChars
		ts.RevisionCount++
		ts.Feedback = ""
		ts.Revised = true

		rt.Logger.InfoContext(
			ctx, "apply_feedback node complete",
			"email_id", ts.Email.ID,
			"revision", ts.RevisionCount,
			"max_chars", ts.MaxChars,
		)

		return s.Set(KeyTriageState, *ts), nil
	})
}

// FinalizeNode returns a state node that persists memory. A failed write is
// recorded as a warning; the decision itself is still returned.
func FinalizeNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		ts, err := extractTriageState(s)
		if err != nil {
			return s, fmt.Errorf("finalize: %w", err)
		}

		if err := rt.Memory.Save(); err != nil {
			rt.Logger.WarnContext(ctx, "memory save failed", "email_id", ts.Email.ID, "error", err)
			ts.Warn(fmt.Sprintf("Memory not saved: %v", err))
		}

		rt.Logger.InfoContext(
			ctx, "finalize node complete",
			"email_id", ts.Email.ID,
			"department", ts.Department,
			"approved", ts.Approved,
			"skipped", ts.Skipped,
		)

		return s.Set(KeyTriageState, *ts), nil
	})
}

func extractEmail(s state.State) (inbox.Email, error) {
	val, ok := s.Get(KeyEmail)
	if !ok {
		return inbox.Email{}, fmt.Errorf("%w: missing %s in state", ErrMissingState, KeyEmail)
	}

	e, ok := val.(inbox.Email)
	if !ok {
		return inbox.Email{}, fmt.Errorf("%w: %s is not inbox.Email", ErrMissingState, KeyEmail)
	}

	return e, nil
}

func extractTriageState(s state.State) (*TriageState, error) {
	val, ok := s.Get(KeyTriageState)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s in state", ErrMissingState, KeyTriageState)
	}

	ts, ok := val.(TriageState)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not TriageState", ErrMissingState, KeyTriageState)
	}

	return &ts, nil
}
