package workflow

import (
	"fmt"
	"log/slog"

	"github.com/JaimeStill/dispatch/internal/assignment"
	"github.com/JaimeStill/dispatch/internal/company"
	"github.com/JaimeStill/dispatch/internal/drafts"
	"github.com/JaimeStill/dispatch/internal/memory"
	"github.com/JaimeStill/dispatch/internal/triage"
)

// Runtime bundles the dependencies that workflow nodes require.
// It is constructed by the batch driver from the loaded configuration.
// A zero MaxRevisions selects DefaultMaxRevisions.
type Runtime struct {
	Catalog      *company.Catalog
	Memory       *memory.Store
	Router       *triage.Router
	Drafter      *drafts.Drafter
	Reviewer     Reviewer
	MaxRevisions int
	MaxChars     int
	Logger       *slog.Logger
}

func (rt *Runtime) validate() error {
	errorf := func(msg string) error {
		return fmt.Errorf("%w: %s", ErrInvalidRuntime, msg)
	}

	switch {
	case rt.Catalog == nil:
		return errorf("catalog required")
	case rt.Memory == nil:
		return errorf("memory store required")
	case rt.Router == nil:
		return errorf("router required")
	case rt.Drafter == nil:
		return errorf("drafter required")
	case rt.Reviewer == nil:
		return errorf("reviewer required")
	case rt.Logger == nil:
		return errorf("logger required")
	}
	return nil
}

func (rt *Runtime) revisionLimit() int {
	switch {
	case rt.MaxRevisions == 0:
		return DefaultMaxRevisions
	case rt.MaxRevisions < 0:
		return 0
	}
	return rt.MaxRevisions
}

// tone prefers the configured department tone over the remembered one.
func (rt *Runtime) tone(d company.Department) string {
	if t := rt.Catalog.Tone(d); t != "" {
		return t
	}
	t, _ := rt.Memory.Tone(d)
	return t
}

// ensureOwner assigns an owner when none is set or the department changed
// since the last assignment.
func (rt *Runtime) ensureOwner(ts *TriageState) {
	if !ts.Owner.Empty() && ts.OwnerDepartment == ts.Department {
		return
	}

	if remembered, ok := rt.Memory.SenderOwner(ts.Email.From); ok {
		if o, ok := assignment.Sticky(remembered, ts.Department, rt.Catalog); ok {
			ts.Owner, ts.OwnerDepartment = o, ts.Department
			return
		}
	}

	ts.Owner = assignment.Assign(ts.Department, rt.Catalog, rt.Memory)
	ts.OwnerDepartment = ts.Department
}

func (rt *Runtime) constraints(ts *TriageState) drafts.Constraints {
	return drafts.Constraints{
		Department: rt.Catalog.Name(ts.Department),
		Tone:       ts.Tone,
		Owner:      ts.Owner.Email,
		Signature:  ts.Owner.Signature,
		MaxChars:   ts.MaxChars,
	}
}

// remember records the final department and owner for the sender.
func (rt *Runtime) remember(ts *TriageState) {
	if ts.Department == company.NeedsReview || !rt.Catalog.Valid(ts.Department) {
		return
	}
	if ts.Email.SenderKey() == "" {
		return
	}
	rt.Memory.SetSenderDepartment(ts.Email.From, ts.Department)
	if !ts.Owner.Empty() && ts.OwnerDepartment == ts.Department {
		rt.Memory.SetSenderOwner(ts.Email.From, ts.Owner.Email)
	}
}
