// Package tickets persists the final triage decision for each email as a
// JSON ticket under its department.
package tickets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/JaimeStill/dispatch/internal/company"
	"github.com/JaimeStill/dispatch/internal/inbox"
	"github.com/JaimeStill/dispatch/pkg/storage"
)

const (
	contentType     = "application/json"
	timestampFormat = "20060102150405"
)

var ErrPersistFailed = errors.New("ticket persist failed")

// Classification is the decision being persisted.
type Classification struct {
	Department company.Department
	Confidence float64
	Summary    string
	Tags       []string
}

// Ticket is the persisted record.
type Ticket struct {
	TicketID   string    `json:"ticket_id"`
	CreatedAt  time.Time `json:"created_at"`
	Department string    `json:"department"`
	Confidence float64   `json:"confidence"`
	From       string    `json:"from"`
	Subject    string    `json:"subject"`
	Summary    string    `json:"summary"`
	Tags       []string  `json:"tags"`
	DraftReply string    `json:"draft_reply"`
	RawBody    string    `json:"raw_body"`
	Owner      string    `json:"owner,omitempty"`
}

// Router writes tickets through a storage backend.
type Router struct {
	store  storage.System
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithClock replaces the time source used for ticket ids.
func WithClock(now func() time.Time) Option {
	return func(r *Router) {
		r.now = now
	}
}

// New creates a Router over store.
func New(store storage.System, logger *slog.Logger, opts ...Option) *Router {
	r := &Router{
		store:  store,
		now:    time.Now,
		logger: logger.With("system", "tickets"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route persists the ticket for e and returns where it was written.
func (r *Router) Route(ctx context.Context, e inbox.Email, c Classification, draft, owner string) (string, error) {
	t := Build(e, c, draft, owner, r.now())

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}

	key := Key(t.Department, t.TicketID)
	if err := r.store.Upload(ctx, key, bytes.NewReader(data), contentType); err != nil {
		return "", fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}

	r.logger.InfoContext(ctx, "ticket persisted", "ticket_id", t.TicketID, "key", key)
	return r.store.Locate(key), nil
}

// Build assembles the ticket for e at the given time.
func Build(e inbox.Email, c Classification, draft, owner string, at time.Time) Ticket {
	at = at.UTC()

	id := segment(e.ID)
	if id == "" {
		id = "unknown"
	}

	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}

	return Ticket{
		TicketID:   id + "_" + at.Format(timestampFormat),
		CreatedAt:  at,
		Department: SanitizeDepartment(c.Department),
		Confidence: c.Confidence,
		From:       e.From,
		Subject:    e.Subject,
		Summary:    c.Summary,
		Tags:       tags,
		DraftReply: draft,
		RawBody:    e.Original(),
		Owner:      owner,
	}
}

// SanitizeDepartment makes d safe to use as a single path segment.
func SanitizeDepartment(d company.Department) string {
	if s := segment(string(d)); s != "" {
		return s
	}
	return string(company.NeedsReview)
}

var separators = strings.NewReplacer("/", "_", `\`, "_")

func segment(s string) string {
	s = separators.Replace(strings.TrimSpace(s))
	if s == "." || s == ".." {
		return ""
	}
	return s
}

// Key returns the storage key for a ticket.
func Key(department, ticketID string) string {
	return path.Join(department, ticketID+".json")
}
