// Package review provides the interactive console Reviewer.
package review

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/JaimeStill/dispatch/internal/company"
	"github.com/JaimeStill/dispatch/internal/workflow"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
	draftStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

type line struct {
	text string
	err  error
}

// Console asks an operator for review decisions on a line-oriented
// terminal. Once input is exhausted every remaining prompt is approved.
type Console struct {
	lines     chan line
	out       io.Writer
	exhausted bool
}

// NewConsole creates a Console reading answers from in and writing prompts
// to out.
func NewConsole(in io.Reader, out io.Writer) *Console {
	c := &Console{
		lines: make(chan line),
		out:   out,
	}
	go c.scan(in)
	return c
}

func (c *Console) scan(in io.Reader) {
	r := bufio.NewReader(in)
	for {
		text, err := r.ReadString('\n')
		if err != nil && (text == "" || !errors.Is(err, io.EOF)) {
			c.lines <- line{err: err}
			close(c.lines)
			return
		}
		c.lines <- line{text: strings.TrimSpace(text)}
	}
}

// Review renders the prompt and collects a Decision.
func (c *Console) Review(ctx context.Context, p workflow.Prompt) (workflow.Decision, error) {
	var dec workflow.Decision

	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, titleStyle.Render("HUMAN REVIEW · "+p.EmailID))
	c.field("From", p.From)
	c.field("Subject", p.Subject)
	c.field("Summary", p.Summary)
	c.field("Triage", fmt.Sprintf("%s (confidence %.2f)", p.Department, p.Confidence))
	if len(p.Tags) > 0 {
		c.field("Tags", strings.Join(p.Tags, ", "))
	}
	if p.Owner != "" {
		c.field("Owner", p.Owner)
	}

	if p.AllowOverride {
		answer, err := c.ask(ctx, fmt.Sprintf("Set department (%s) or Enter to keep: ", joinDepartments(p.Departments)))
		if err != nil {
			return dec, err
		}
		dec.Department = answer
	}

	if p.Draft == "" {
		answer, err := c.ask(ctx, "Continue to draft (Enter) / Skip (s): ")
		if err != nil {
			return dec, err
		}
		if strings.EqualFold(answer, "s") {
			dec.Action = workflow.ActionSkip
		} else {
			dec.Action = workflow.ActionApprove
		}
		return dec, nil
	}

	fmt.Fprintln(c.out, draftStyle.Render(p.Draft))
	c.field("Revision", fmt.Sprintf("%d/%d", p.Revision, p.MaxRevisions))

	for {
		answer, err := c.ask(ctx, "Approve (a) / Revise (r) / Skip (s): ")
		if err != nil {
			return dec, err
		}

		switch strings.ToLower(answer) {
		case "a", "approve", "":
			dec.Action = workflow.ActionApprove
			return dec, nil
		case "s", "skip":
			dec.Action = workflow.ActionSkip
			return dec, nil
		case "r", "revise":
			feedback, err := c.ask(ctx, "Enter revision instructions (what to change): ")
			if err != nil {
				return dec, err
			}
			dec.Action = workflow.ActionRevise
			dec.Feedback = feedback
			return dec, nil
		default:
			c.warn(fmt.Sprintf("%q is not a choice", answer))
		}
	}
}

// ask prints a question and waits for one line. Exhausted input answers
// with an empty line.
func (c *Console) ask(ctx context.Context, question string) (string, error) {
	fmt.Fprint(c.out, question)

	if c.exhausted {
		fmt.Fprintln(c.out)
		return "", nil
	}

	select {
	case <-ctx.Done():
		fmt.Fprintln(c.out)
		return "", ctx.Err()
	case l, ok := <-c.lines:
		if !ok || l.err != nil {
			if ok && !errors.Is(l.err, io.EOF) {
				return "", fmt.Errorf("read review input: %w", l.err)
			}
			c.exhausted = true
			fmt.Fprintln(c.out)
			c.warn("input closed; approving remaining prompts")
			return "", nil
		}
		return l.text, nil
	}
}

func (c *Console) field(label, value string) {
	fmt.Fprintf(c.out, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-9s", label+":")), value)
}

func (c *Console) warn(msg string) {
	fmt.Fprintln(c.out, warnStyle.Render("[WARN] "+msg))
}

func joinDepartments(ds []company.Department) string {
	names := make([]string, len(ds))
	for i, d := range ds {
		names[i] = string(d)
	}
	return strings.Join(names, "/")
}
