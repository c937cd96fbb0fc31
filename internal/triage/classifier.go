package triage

import (
	"slices"
	"strings"

	"github.com/JaimeStill/dispatch/internal/company"
	"github.com/JaimeStill/dispatch/internal/inbox"
)

const summaryLimit = 80

var salesKeywords = []string{
	"pricing", "price", "enterprise", "quote", "demo", "subscription", "plan", "upgrade",
	"rfp", "proposal", "procurement", "sla", "security documentation", "security", "compliance",
	"discount", "student", "non-profit", "nonprofit",
	"sso", "saml", "scim", "identity provider", "okta", "azure ad",
	"trial", "pilot", "evaluation", "onboarding timeline",
	"partnership", "co-marketing", "comarketing",
}

var supportKeywords = []string{
	"bug", "error", "issue", "problem", "cannot", "can't", "cant", "failed", "failure",
	"login", "log in", "password", "reset password", "password reset", "403", "401", "500",
	"suspicious", "compromise", "unknown ip", "lock the account", "audit",
	"slow", "latency", "timeout", "performance", "dashboard", "down", "outage",
	"webhook", "events", "event", "firing", "stopped",
	"complaint", "escalated", "escalation", "forwarding",
	"csv", "export",
}

var financeKeywords = []string{
	"invoice", "inv-", "billing", "payment", "refund", "charge", "charged", "receipt",
	"vat", "iban", "bank",
	"billing address", "accounts payable", "ap@", "w-9", "w9", "tax", "vendor setup",
}

var hrPhrases = []string{"reference check", "employment dates", "hr"}

// Classify infers a department from keyword hits in the subject, body, and
// sender. It never fails and has no side effects.
func Classify(e inbox.Email) Result {
	subject := strings.TrimSpace(e.Subject)
	body := strings.TrimSpace(e.Body)

	if subject == "" && body == "" {
		return Result{
			Department: company.NeedsReview,
			Confidence: 0.20,
			Tags:       []string{"empty"},
			Source:     SourceClassifier,
		}
	}

	text := strings.TrimSpace(strings.ToLower(e.Subject + "\n" + e.Body + "\n" + e.From))
	summary := Summarize(subject, body)

	sales := countHits(text, salesKeywords)
	support := countHits(text, supportKeywords)
	finance := countHits(text, financeKeywords)

	if sales == 0 && support == 0 && finance == 0 {
		if containsAny(text, hrPhrases) {
			return Result{
				Department: company.NeedsReview,
				Confidence: 0.35,
				Summary:    summary,
				Tags:       []string{"hr"},
				Source:     SourceClassifier,
			}
		}
		return Result{
			Department: company.NeedsReview,
			Confidence: 0.40,
			Summary:    summary,
			Tags:       []string{"unclear"},
			Source:     SourceClassifier,
		}
	}

	var tags []string
	groups := 0
	for _, g := range []struct {
		tag  string
		hits int
	}{
		{"sales", sales},
		{"support", support},
		{"finance", finance},
	} {
		if g.hits > 0 {
			tags = append(tags, g.tag)
			groups++
		}
	}

	var (
		department company.Department
		base       float64
		hits       int
	)
	switch {
	case support >= max(finance, sales):
		department, base, hits = company.Support, 0.72, support
	case finance >= sales:
		department, base, hits = company.Finance, 0.70, finance
	default:
		department, base, hits = company.Sales, 0.70, sales
	}

	confidence := clamp(base+0.06*float64(min(hits, 3)), 0, 0.92)
	if groups >= 2 {
		tags = append(tags, "ambiguous")
		confidence = min(confidence, 0.75)
	}

	return Result{
		Department: department,
		Confidence: confidence,
		Summary:    summary,
		Tags:       normalizeTags(tags),
		Source:     SourceClassifier,
	}
}

// Summarize returns the subject, or the leading characters of the body
// with an ellipsis when it had to be shortened.
func Summarize(subject, body string) string {
	if subject != "" {
		return subject
	}
	r := []rune(body)
	if len(r) <= summaryLimit {
		return body
	}
	return string(r[:summaryLimit]) + "..."
}

func countHits(text string, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if strings.Contains(text, k) {
			n++
		}
	}
	return n
}

func containsAny(text string, phrases []string) bool {
	return slices.ContainsFunc(phrases, func(p string) bool {
		return strings.Contains(text, p)
	})
}

func clamp(x, lo, hi float64) float64 {
	return max(lo, min(hi, x))
}

func normalizeTags(tags []string) []string {
	out := slices.Clone(tags)
	slices.Sort(out)
	return slices.Compact(out)
}
