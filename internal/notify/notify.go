// Package notify tells an assigned owner that a triaged email is waiting
// for them.
package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/JaimeStill/dispatch/internal/company"
)

// Notice describes one hand-off.
type Notice struct {
	EmailID    string
	Owner      string
	Department company.Department
	Confidence float64
	From       string
	Subject    string
	Summary    string
	Draft      string
	Location   string
}

// Notifier delivers hand-off notices.
type Notifier interface {
	Notify(ctx context.Context, n Notice) error
	Name() string
}

// New builds the Notifier selected by cfg. Console output for the stdout
// provider goes to out.
func New(ctx context.Context, cfg *Config, out io.Writer, logger *slog.Logger) (Notifier, error) {
	logger = logger.With("system", "notify", "provider", cfg.Provider)

	switch cfg.Provider {
	case ProviderNone:
		return None{}, nil
	case ProviderStdout:
		return NewStdout(out), nil
	case ProviderSES:
		return NewSES(ctx, SESConfig{
			Region:          cfg.Region,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			Sender:          cfg.Sender,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown notify provider: %q", cfg.Provider)
	}
}

// None discards every notice.
type None struct{}

func (None) Notify(context.Context, Notice) error { return nil }
func (None) Name() string                         { return ProviderNone }

func subjectFor(n Notice) string {
	return fmt.Sprintf("[dispatch] %s: %s (%s)", n.Department, n.Subject, n.EmailID)
}

func bodyFor(n Notice) string {
	return fmt.Sprintf(
		"A customer email was assigned to you.\n\n"+
			"Email:      %s\nFrom:       %s\nSubject:    %s\nDepartment: %s (confidence %.2f)\nSummary:    %s\nTicket:     %s\n\n"+
			"Suggested reply:\n\n%s\n",
		n.EmailID, n.From, n.Subject, n.Department, n.Confidence, n.Summary, n.Location, n.Draft,
	)
}
