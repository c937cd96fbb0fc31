package drafts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/dispatch/internal/prompts"
)

// Constraints are the rules a draft must follow.
type Constraints struct {
	Department string
	Tone       string
	Owner      string
	Signature  string
	MaxChars   int
}

// Block renders the constraints as the instruction block appended to the
// email body.
func (c Constraints) Block() string {
	var sb strings.Builder
	sb.WriteString("---\nCONSTRAINTS:\n")
	fmt.Fprintf(&sb, "- Department: %s\n", c.Department)
	if c.Tone != "" {
		fmt.Fprintf(&sb, "- Tone: %s\n", c.Tone)
	}
	if c.Owner != "" {
		fmt.Fprintf(&sb, "- Write on behalf of: %s\n", c.Owner)
	}
	if c.MaxChars > 0 {
		fmt.Fprintf(&sb, "- Maximum length: %d characters\n", c.MaxChars)
	}
	if c.Signature != "" {
		sb.WriteString("- End the reply with exactly this signature:\n")
		sb.WriteString(c.Signature)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Request describes a first draft.
type Request struct {
	EmailID    string
	From       string
	Subject    string
	Body       string
	Confidence float64
	Constraints
}

// Revision describes an edit of an existing draft.
type Revision struct {
	EmailID      string
	Draft        string
	Instructions string
	Constraints
}

// Drafter builds generator requests and renders the results.
type Drafter struct {
	gen     Generator
	prompts prompts.System
	logger  *slog.Logger
}

// New creates a Drafter.
func New(gen Generator, ps prompts.System, logger *slog.Logger) *Drafter {
	return &Drafter{
		gen:     gen,
		prompts: ps,
		logger:  logger.With("system", "drafts"),
	}
}

// Draft generates and renders a first draft.
func (d *Drafter) Draft(ctx context.Context, req Request) (string, error) {
	meta := fmt.Sprintf(
		"Department: %s\nConfidence: %.2f",
		req.Department, req.Confidence,
	)
	if req.Tone != "" {
		meta += "\nTone: " + req.Tone
	}

	system, err := prompts.Compose(d.prompts, prompts.StageDraft, meta)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerateFailed, err)
	}

	var content strings.Builder
	fmt.Fprintf(&content, "From: %s\nSubject: %s\n\n", req.From, req.Subject)
	content.WriteString(req.Body)
	content.WriteString("\n\n")
	content.WriteString(req.Block())

	text, err := d.gen.Generate(ctx, system, content.String())
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyDraft
	}

	d.logger.DebugContext(ctx, "draft generated", "email_id", req.EmailID, "chars", len(text))
	return Render(text, req.Signature, req.MaxChars), nil
}

// Revise rewrites an existing draft according to reviewer instructions. A
// character limit found in the instructions tightens the constraints and is
// returned with the result.
func (d *Drafter) Revise(ctx context.Context, rev Revision) (string, Constraints, error) {
	if n, ok := ParseMaxChars(rev.Instructions); ok {
		rev.MaxChars = n
	}

	system, err := prompts.Compose(d.prompts, prompts.StageRevise)
	if err != nil {
		return "", rev.Constraints, fmt.Errorf("%w: %w", ErrGenerateFailed, err)
	}

	var content strings.Builder
	content.WriteString("CURRENT DRAFT:\n")
	content.WriteString(rev.Draft)
	content.WriteString("\n\nREQUIRED CHANGES:\n")
	content.WriteString(strings.TrimSpace(rev.Instructions))
	content.WriteString("\n\n")
	content.WriteString(rev.Block())

	text, err := d.gen.Generate(ctx, system, content.String())
	if err != nil {
		return "", rev.Constraints, err
	}
	if strings.TrimSpace(text) == "" {
		return "", rev.Constraints, ErrEmptyDraft
	}

	d.logger.DebugContext(ctx, "draft revised", "email_id", rev.EmailID, "max_chars", rev.MaxChars)
	return Render(text, rev.Signature, rev.MaxChars), rev.Constraints, nil
}
