package review_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/JaimeStill/dispatch/internal/company"
	"github.com/JaimeStill/dispatch/internal/review"
	"github.com/JaimeStill/dispatch/internal/workflow"
)

var withDraft = workflow.Prompt{
	EmailID:      "email_001",
	From:         "jane@customer.test",
	Subject:      "Invoice",
	Department:   company.Finance,
	Confidence:   0.88,
	Draft:        "Hello Jane.",
	Departments:  []company.Department{company.Sales, company.Finance, company.NeedsReview},
	MaxRevisions: 3,
}

func TestConsoleDecisions(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		prompt workflow.Prompt
		want   workflow.Decision
	}{
		{
			name:   "approve",
			input:  "a\n",
			prompt: withDraft,
			want:   workflow.Decision{Action: workflow.ActionApprove},
		},
		{
			name:   "revise",
			input:  "r\nmake it max 50 chars\n",
			prompt: withDraft,
			want:   workflow.Decision{Action: workflow.ActionRevise, Feedback: "make it max 50 chars"},
		},
		{
			name:   "invalid choice then skip",
			input:  "x\ns\n",
			prompt: withDraft,
			want:   workflow.Decision{Action: workflow.ActionSkip},
		},
		{
			name:  "override before draft",
			input: "Support\n\n",
			prompt: workflow.Prompt{
				EmailID:       "email_002",
				Department:    company.NeedsReview,
				Confidence:    0.40,
				AllowOverride: true,
				Departments:   []company.Department{company.Support, company.NeedsReview},
			},
			want: workflow.Decision{Department: "Support", Action: workflow.ActionApprove},
		},
		{
			name:  "skip before draft",
			input: "\ns\n",
			prompt: workflow.Prompt{
				EmailID:       "email_003",
				Department:    company.NeedsReview,
				AllowOverride: true,
			},
			want: workflow.Decision{Action: workflow.ActionSkip},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			c := review.NewConsole(strings.NewReader(tt.input), &out)

			got, err := c.Review(context.Background(), tt.prompt)
			if err != nil {
				t.Fatalf("Review: %v", err)
			}
			if got != tt.want {
				t.Errorf("decision = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestConsoleRendersPrompt(t *testing.T) {
	var out bytes.Buffer
	c := review.NewConsole(strings.NewReader("a\n"), &out)

	if _, err := c.Review(context.Background(), withDraft); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"email_001", "jane@customer.test", "Hello Jane.", "0.88", "0/3"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestConsoleExhaustedInputApproves(t *testing.T) {
	var out bytes.Buffer
	c := review.NewConsole(strings.NewReader(""), &out)

	for range 2 {
		got, err := c.Review(context.Background(), withDraft)
		if err != nil {
			t.Fatalf("Review: %v", err)
		}
		if got.Action != workflow.ActionApprove {
			t.Errorf("action = %q, want approve", got.Action)
		}
	}
	if strings.Count(out.String(), "input closed") != 1 {
		t.Error("expected a single input-closed warning")
	}
}

func TestConsoleCancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	c := review.NewConsole(pr, io.Discard)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Review(ctx, withDraft)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
