package workflow

import (
	"context"
	"fmt"
	"time"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/dispatch/internal/inbox"
)

// Node names.
const (
	NodeLoadContext   = "load_context"
	NodeClassify      = "classify"
	NodeDraft         = "draft"
	NodeHumanReview   = "human_review"
	NodeApplyFeedback = "apply_feedback"
	NodeFinalize      = "finalize"
)

// Transition is one edge of the workflow graph. A nil When always matches.
// The predicates leaving a node are mutually exclusive.
type Transition struct {
	From string
	To   string
	When func(state.State) bool
}

// Transitions is the workflow's complete edge table.
var Transitions = []Transition{
	{NodeLoadContext, NodeClassify, state.Not(remembered)},
	{NodeLoadContext, NodeHumanReview, both(remembered, needsReview)},
	{NodeLoadContext, NodeDraft, both(remembered, state.Not(needsReview))},

	{NodeClassify, NodeHumanReview, needsReview},
	{NodeClassify, NodeDraft, state.Not(needsReview)},

	{NodeDraft, NodeHumanReview, nil},

	{NodeHumanReview, NodeDraft, awaitingDraft},
	{NodeHumanReview, NodeApplyFeedback, revisionRequested},
	{NodeHumanReview, NodeFinalize, reviewComplete},

	{NodeApplyFeedback, NodeDraft, nil},
}

// Execute runs the triage workflow for a single email and returns the final
// state. Stage failures are returned as errors and are not retried.
func Execute(ctx context.Context, rt *Runtime, email inbox.Email) (*Result, error) {
	if err := rt.validate(); err != nil {
		return nil, err
	}

	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initialState := state.New(nil)
	initialState = initialState.Set(KeyEmail, email)

	finalState, err := graph.Execute(ctx, initialState)
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	return extractResult(finalState)
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("dispatch-triage")
	cfg.Observer = "noop"
	cfg.MaxIterations = max(cfg.MaxIterations, iterationCeiling(rt.revisionLimit()))

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	nodes := []struct {
		name string
		node state.StateNode
	}{
		{NodeLoadContext, LoadContextNode(rt)},
		{NodeClassify, ClassifyNode(rt)},
		{NodeDraft, DraftNode(rt)},
		{NodeHumanReview, HumanReviewNode(rt)},
		{NodeApplyFeedback, ApplyFeedbackNode(rt)},
		{NodeFinalize, FinalizeNode(rt)},
	}

	for _, n := range nodes {
		if err := graph.AddNode(n.name, n.node); err != nil {
			return nil, err
		}
	}

	for _, t := range Transitions {
		if err := graph.AddEdge(t.From, t.To, t.When); err != nil {
			return nil, fmt.Errorf("edge %s -> %s: %w", t.From, t.To, err)
		}
	}

	if err := graph.SetEntryPoint(NodeLoadContext); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint(NodeFinalize); err != nil {
		return nil, err
	}

	return graph, nil
}

// iterationCeiling bounds node visits for k revisions: five visits reach
// the first post-draft review, each revision adds three, finalize adds one.
func iterationCeiling(k int) int {
	return 3*k + 8
}

func extractResult(s state.State) (*Result, error) {
	ts, err := extractTriageState(s)
	if err != nil {
		return nil, err
	}

	return &Result{
		State:       *ts,
		CompletedAt: time.Now(),
	}, nil
}

func triageState(s state.State) (TriageState, bool) {
	val, ok := s.Get(KeyTriageState)
	if !ok {
		return TriageState{}, false
	}
	ts, ok := val.(TriageState)
	return ts, ok
}

func remembered(s state.State) bool {
	ts, ok := triageState(s)
	return ok && ts.Remembered
}

func needsReview(s state.State) bool {
	ts, ok := triageState(s)
	return ok && ts.NeedsReview()
}

func awaitingDraft(s state.State) bool {
	ts, ok := triageState(s)
	return ok && !ts.Skipped && ts.Draft == ""
}

func revisionRequested(s state.State) bool {
	ts, ok := triageState(s)
	return ok && !ts.Skipped && ts.Draft != "" && ts.Feedback != ""
}

func reviewComplete(s state.State) bool {
	return !awaitingDraft(s) && !revisionRequested(s)
}

func both(a, b func(state.State) bool) func(state.State) bool {
	return func(s state.State) bool {
		return a(s) && b(s)
	}
}
