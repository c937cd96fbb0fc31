package triage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/dispatch/internal/company"
	"github.com/JaimeStill/dispatch/internal/inbox"
	"github.com/JaimeStill/dispatch/internal/prompts"
	"github.com/JaimeStill/dispatch/pkg/formatting"
)

// Confidence assigned to routing decisions that do not come from the
// keyword classifier.
const (
	AliasConfidence        = 0.95
	RuleConfidence         = 0.85
	ModelFailedConfidence  = 0.40
	ModelInvalidConfidence = 0.45
)

var ErrUnknownDepartment = errors.New("unknown department")

// Completer is the text generation collaborator used by the model fallback.
type Completer interface {
	Generate(ctx context.Context, system, content string) (string, error)
}

// Router runs the routing chain: inbox alias, configured keyword rules, the
// keyword classifier, and finally the model fallback when one is set and
// the classifier could not decide.
type Router struct {
	catalog   *company.Catalog
	prompts   prompts.System
	completer Completer
	logger    *slog.Logger
}

// NewRouter creates a Router. A nil completer disables the model fallback.
func NewRouter(cat *company.Catalog, ps prompts.System, completer Completer, logger *slog.Logger) *Router {
	return &Router{
		catalog:   cat,
		prompts:   ps,
		completer: completer,
		logger:    logger.With("system", "triage"),
	}
}

// Route decides the department for e. It does not return errors: model
// failures are downgraded to NeedsReview.
func (r *Router) Route(ctx context.Context, e inbox.Email) Result {
	if d, ok := r.catalog.AliasFor(e.To); ok {
		return Result{
			Department: d,
			Confidence: AliasConfidence,
			Summary:    Summarize(strings.TrimSpace(e.Subject), strings.TrimSpace(e.Body)),
			Tags:       []string{"alias"},
			Source:     SourceAlias,
		}
	}

	if res, ok := r.matchRules(e); ok {
		return res
	}

	res := Classify(e)
	if d, ok := r.catalog.Resolve(string(res.Department)); ok {
		res.Department = d
	}
	if res.Department != company.NeedsReview || r.completer == nil || e.Blank() {
		return res
	}

	return r.fallback(ctx, e, res)
}

// matchRules picks the configured rule with the most keyword hits. Earlier
// rules win ties. Rules naming unknown departments are skipped.
func (r *Router) matchRules(e inbox.Email) (Result, bool) {
	text := strings.ToLower(e.Subject + "\n" + e.Body)

	var (
		best     company.Department
		bestHits int
	)
	for _, rule := range r.catalog.Rules() {
		d, ok := r.catalog.Resolve(rule.DepartmentID)
		if !ok {
			continue
		}
		hits := 0
		for _, k := range rule.Keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" && strings.Contains(text, k) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = d, hits
		}
	}

	if bestHits == 0 {
		return Result{}, false
	}

	return Result{
		Department: best,
		Confidence: RuleConfidence,
		Summary:    Summarize(strings.TrimSpace(e.Subject), strings.TrimSpace(e.Body)),
		Tags:       []string{"rule"},
		Source:     SourceRule,
	}, true
}

type routeResponse struct {
	Department string  `json:"department"`
	Confidence float64 `json:"confidence"`
	Summary    string  `json:"summary"`
}

func (r *Router) fallback(ctx context.Context, e inbox.Email, prior Result) Result {
	downgrade := func(conf float64, tag string) Result {
		return Result{
			Department: company.NeedsReview,
			Confidence: conf,
			Summary:    prior.Summary,
			Tags:       normalizeTags(append([]string{tag}, prior.Tags...)),
			Source:     SourceModel,
		}
	}

	system, err := prompts.Compose(r.prompts, prompts.StageRoute, r.allowedSection())
	if err != nil {
		r.logger.WarnContext(ctx, "compose route prompt failed", "email_id", e.ID, "error", err)
		return downgrade(ModelFailedConfidence, "model_error")
	}

	content := fmt.Sprintf("From: %s\nTo: %s\nSubject: %s\n\n%s", e.From, e.To, e.Subject, e.Body)
	out, err := r.completer.Generate(ctx, system, content)
	if err != nil {
		r.logger.WarnContext(ctx, "model routing failed", "email_id", e.ID, "error", err)
		return downgrade(ModelFailedConfidence, "model_error")
	}

	parsed, err := formatting.Parse[routeResponse](out)
	if err != nil {
		r.logger.WarnContext(ctx, "model routing unparseable", "email_id", e.ID, "error", err)
		return downgrade(ModelInvalidConfidence, "model_invalid")
	}

	d, ok := r.catalog.Resolve(parsed.Department)
	if !ok {
		r.logger.WarnContext(
			ctx, "model routing invalid",
			"email_id", e.ID,
			"error", fmt.Errorf("%w: %q", ErrUnknownDepartment, parsed.Department),
		)
		return downgrade(ModelInvalidConfidence, "model_invalid")
	}

	summary := strings.TrimSpace(parsed.Summary)
	if summary == "" {
		summary = prior.Summary
	}

	conf := parsed.Confidence
	if conf <= 0 || conf > 1 {
		conf = 0.60
	}

	return Result{
		Department: d,
		Confidence: conf,
		Summary:    summary,
		Tags:       []string{"model"},
		Source:     SourceModel,
	}
}

func (r *Router) allowedSection() string {
	var sb strings.Builder
	sb.WriteString("Allowed departments:")
	for _, d := range r.catalog.Allowed() {
		sb.WriteString("\n- ")
		sb.WriteString(string(d))
		if name := r.catalog.Name(d); name != string(d) {
			sb.WriteString(" (")
			sb.WriteString(name)
			sb.WriteString(")")
		}
	}
	return sb.String()
}
