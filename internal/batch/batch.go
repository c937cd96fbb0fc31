// Package batch drives the triage workflow over a list of emails, one at a
// time, isolating failures per email.
package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/JaimeStill/dispatch/internal/company"
	"github.com/JaimeStill/dispatch/internal/inbox"
	"github.com/JaimeStill/dispatch/internal/notify"
	"github.com/JaimeStill/dispatch/internal/tickets"
	"github.com/JaimeStill/dispatch/internal/workflow"
)

// Report summarizes a batch run.
type Report struct {
	Total       int
	Succeeded   int
	Failed      int
	Interrupted bool
	Counts      map[company.Department]int
}

// Runner processes emails sequentially.
type Runner struct {
	runtime  *workflow.Runtime
	tickets  *tickets.Router
	notifier notify.Notifier
	out      io.Writer
	logger   *slog.Logger
}

// New creates a Runner. Operator lines are written to out.
func New(rt *workflow.Runtime, tr *tickets.Router, n notify.Notifier, out io.Writer, logger *slog.Logger) *Runner {
	if n == nil {
		n = notify.None{}
	}
	return &Runner{
		runtime:  rt,
		tickets:  tr,
		notifier: n,
		out:      out,
		logger:   logger.With("system", "batch"),
	}
}

// Run processes every email in order. A failing email is reported and
// skipped. Cancelling ctx stops the batch before the next email.
func (r *Runner) Run(ctx context.Context, emails []inbox.Email) *Report {
	report := &Report{
		Total:  len(emails),
		Counts: make(map[company.Department]int),
	}

	for i, e := range emails {
		if ctx.Err() != nil {
			report.Interrupted = true
			r.logger.WarnContext(ctx, "batch interrupted", "processed", i, "total", len(emails))
			break
		}

		pos := fmt.Sprintf("(%d/%d)", i+1, len(emails))

		dept, err := r.process(ctx, pos, e)
		if err != nil {
			report.Failed++
			fmt.Fprintf(r.out, "[ERR] %s %s failed: %v\n", pos, e.ID, err)
			r.logger.ErrorContext(ctx, "email failed", "email_id", e.ID, "error", err)
			continue
		}

		report.Succeeded++
		report.Counts[dept]++
	}

	return report
}

func (r *Runner) process(ctx context.Context, pos string, e inbox.Email) (company.Department, error) {
	res, err := workflow.Execute(ctx, r.runtime, e)
	if err != nil {
		return "", err
	}
	ts := res.State

	loc, err := r.tickets.Route(ctx, e, tickets.Classification{
		Department: ts.Department,
		Confidence: ts.Confidence,
		Summary:    ts.Summary,
		Tags:       ts.Tags,
	}, ts.Draft, ts.Owner.Email)
	if err != nil {
		return "", err
	}

	fmt.Fprintf(
		r.out, "[OK] %s %s -> %s (conf=%.2f) -> %s\n",
		pos, e.ID, r.runtime.Catalog.Name(ts.Department), ts.Confidence, loc,
	)

	warnings := ts.Errors
	if !ts.Skipped && ts.Owner.Email != "" {
		err := r.notifier.Notify(ctx, notify.Notice{
			EmailID:    e.ID,
			Owner:      ts.Owner.Email,
			Department: ts.Department,
			Confidence: ts.Confidence,
			From:       e.From,
			Subject:    e.Subject,
			Summary:    ts.Summary,
			Draft:      ts.Draft,
			Location:   loc,
		})
		if err != nil {
			r.logger.WarnContext(ctx, "notify failed", "email_id", e.ID, "notifier", r.notifier.Name(), "error", err)
			warnings = append(warnings, fmt.Sprintf("Notify failed: %v", err))
		}
	}

	if len(warnings) > 0 {
		fmt.Fprintf(r.out, "[WARN] %s: %s\n", e.ID, strings.Join(warnings, " | "))
	}

	return ts.Department, nil
}
