// Package drafts produces internal reply suggestions. The text itself comes
// from a Generator; this package owns the constraints sent with each request
// and the rendering rules applied to what comes back.
package drafts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

var (
	ErrEmptyDraft     = errors.New("generator returned empty draft")
	ErrGenerateFailed = errors.New("draft generation failed")
)

// Generator turns a system prompt and user content into text.
type Generator interface {
	Generate(ctx context.Context, system, content string) (string, error)
}

// AgentGenerator generates text through a go-agents chat agent.
type AgentGenerator struct {
	cfg gaconfig.AgentConfig
}

// NewAgentGenerator creates a Generator backed by cfg. The agent itself is
// created per call.
func NewAgentGenerator(cfg gaconfig.AgentConfig) *AgentGenerator {
	return &AgentGenerator{cfg: cfg}
}

// Generate sends the system prompt followed by content as a single chat
// turn. Blank output is reported as ErrEmptyDraft.
func (g *AgentGenerator) Generate(ctx context.Context, system, content string) (string, error) {
	a, err := agent.New(&g.cfg)
	if err != nil {
		return "", fmt.Errorf("%w: create agent: %w", ErrGenerateFailed, err)
	}

	resp, err := a.Chat(ctx, system+"\n\n---\n\n"+content)
	if err != nil {
		return "", fmt.Errorf("%w: chat call: %w", ErrGenerateFailed, err)
	}

	text := strings.TrimSpace(resp.Content())
	if text == "" {
		return "", ErrEmptyDraft
	}
	return text, nil
}
