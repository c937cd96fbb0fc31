package drafts_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/JaimeStill/dispatch/internal/drafts"
	"github.com/JaimeStill/dispatch/internal/prompts"
)

type recorder struct {
	out     string
	err     error
	system  string
	content string
}

func (r *recorder) Generate(ctx context.Context, system, content string) (string, error) {
	r.system, r.content = system, content
	return r.out, r.err
}

func newDrafter(t *testing.T, gen drafts.Generator) *drafts.Drafter {
	t.Helper()
	ps, err := prompts.New("Acme", nil)
	if err != nil {
		t.Fatal(err)
	}
	return drafts.New(gen, ps, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestParseMaxChars(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"make it max 50 chars", 50, true},
		{"Maximum 120 characters please", 120, true},
		{"keep it under 80 characters", 80, true},
		{"no more than 30 char", 30, true},
		{"max. 40 chars", 40, true},
		{"shorter please", 0, false},
		{"max 0 chars", 0, false},
		{"mention the 50 chars limit", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := drafts.ParseMaxChars(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseMaxChars(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"cut", "hello world", 5, "hello"},
		{"trailing space trimmed", "hello world", 6, "hello"},
		{"runes", "héllo wörld", 7, "héllo w"},
		{"disabled", "hello", 0, "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := drafts.Truncate(tt.in, tt.n); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}

func TestEnsureSignature(t *testing.T) {
	tests := []struct {
		name  string
		draft string
		sig   string
		want  string
	}{
		{"appended", "Hi there.", "Ann\nSales", "Hi there.\n\nAnn\nSales"},
		{"already present", "Hi there.\n\nAnn\nSales\n", "Ann\nSales", "Hi there.\n\nAnn\nSales"},
		{"no signature", "Hi there.  ", "", "Hi there."},
		{"empty draft", "", "Ann", "Ann"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := drafts.EnsureSignature(tt.draft, tt.sig); got != tt.want {
				t.Errorf("EnsureSignature = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderLengthWins(t *testing.T) {
	got := drafts.Render(strings.Repeat("word ", 30), "Best,\nAnn", 50)
	if n := utf8.RuneCountInString(got); n > 50 {
		t.Errorf("rendered length = %d, want <= 50", n)
	}
}

func TestDraftSendsConstraints(t *testing.T) {
	rec := &recorder{out: "Thanks for reaching out."}
	d := newDrafter(t, rec)

	got, err := d.Draft(context.Background(), drafts.Request{
		EmailID:    "e1",
		From:       "jane@customer.test",
		Subject:    "Invoice",
		Body:       "Please refund.",
		Confidence: 0.88,
		Constraints: drafts.Constraints{
			Department: "Finance",
			Tone:       "formal",
			Owner:      "fin@acme.test",
			Signature:  "Finance Team",
		},
	})
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}

	if got != "Thanks for reaching out.\n\nFinance Team" {
		t.Errorf("draft = %q", got)
	}

	for _, want := range []string{"Please refund.", "- Department: Finance", "- Tone: formal", "fin@acme.test", "Finance Team"} {
		if !strings.Contains(rec.content, want) {
			t.Errorf("content missing %q", want)
		}
	}
	if !strings.Contains(rec.system, "Acme") || !strings.Contains(rec.system, "Confidence: 0.88") {
		t.Errorf("system prompt missing context: %q", rec.system)
	}
}

func TestDraftEmptyOutput(t *testing.T) {
	d := newDrafter(t, &recorder{out: "  \n"})

	_, err := d.Draft(context.Background(), drafts.Request{Constraints: drafts.Constraints{Department: "Sales"}})
	if !errors.Is(err, drafts.ErrEmptyDraft) {
		t.Errorf("err = %v, want ErrEmptyDraft", err)
	}
}

func TestDraftGeneratorError(t *testing.T) {
	boom := errors.New("boom")
	d := newDrafter(t, &recorder{err: boom})

	_, err := d.Draft(context.Background(), drafts.Request{})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestReviseAppliesMaxChars(t *testing.T) {
	rec := &recorder{out: strings.Repeat("A fairly long revised sentence. ", 5)}
	d := newDrafter(t, rec)

	got, c, err := d.Revise(context.Background(), drafts.Revision{
		EmailID:      "e1",
		Draft:        "Original draft.",
		Instructions: "make it max 50 chars",
		Constraints:  drafts.Constraints{Department: "Support", Signature: "Bob"},
	})
	if err != nil {
		t.Fatalf("Revise: %v", err)
	}

	if c.MaxChars != 50 {
		t.Errorf("MaxChars = %d, want 50", c.MaxChars)
	}
	if n := utf8.RuneCountInString(got); n > 50 {
		t.Errorf("revised length = %d, want <= 50", n)
	}
	if !strings.Contains(rec.content, "CURRENT DRAFT:\nOriginal draft.") {
		t.Error("revision prompt missing current draft")
	}
	if !strings.Contains(rec.content, "Maximum length: 50 characters") {
		t.Error("revision prompt missing length constraint")
	}
}
