package notify

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Stdout prints notices to a writer.
type Stdout struct {
	w io.Writer
}

// NewStdout creates a Stdout notifier writing to w.
func NewStdout(w io.Writer) *Stdout {
	return &Stdout{w: w}
}

func (s *Stdout) Notify(_ context.Context, n Notice) error {
	if n.Owner == "" {
		return nil
	}

	var b strings.Builder
	b.WriteString("========================================\n")
	fmt.Fprintf(&b, "To: %s\n", n.Owner)
	fmt.Fprintf(&b, "Subject: %s\n", subjectFor(n))
	b.WriteString(bodyFor(n))
	b.WriteString("========================================\n")

	if _, err := io.WriteString(s.w, b.String()); err != nil {
		return fmt.Errorf("write notice: %w", err)
	}
	return nil
}

func (s *Stdout) Name() string {
	return ProviderStdout
}
