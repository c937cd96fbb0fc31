package config

import (
	"fmt"
	"os"
	"strconv"
)

const defaultMaxRevisions = 3

// WorkflowConfig tunes the per-email triage workflow.
type WorkflowConfig struct {
	// MaxRevisions is nil until set; zero disables revisions.
	MaxRevisions *int `toml:"max_revisions"`
	MaxChars     int  `toml:"max_chars"`
	Auto         bool `toml:"auto"`
	LLMFallback  bool `toml:"llm_fallback"`
}

// Revisions returns the finalized revision limit.
func (c *WorkflowConfig) Revisions() int {
	if c.MaxRevisions == nil {
		return defaultMaxRevisions
	}
	return *c.MaxRevisions
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *WorkflowConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites set fields from overlay. Switches can only be turned on
// by an overlay file; flags assign them directly.
func (c *WorkflowConfig) Merge(overlay *WorkflowConfig) {
	if overlay.MaxRevisions != nil {
		n := *overlay.MaxRevisions
		c.MaxRevisions = &n
	}
	if overlay.MaxChars != 0 {
		c.MaxChars = overlay.MaxChars
	}
	if overlay.Auto {
		c.Auto = true
	}
	if overlay.LLMFallback {
		c.LLMFallback = true
	}
}

func (c *WorkflowConfig) loadDefaults() {
	if c.MaxRevisions == nil {
		n := defaultMaxRevisions
		c.MaxRevisions = &n
	}
}

func (c *WorkflowConfig) loadEnv() {
	if v := os.Getenv("DISPATCH_MAX_REVISIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRevisions = &n
		}
	}
	if v := os.Getenv("DISPATCH_MAX_CHARS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxChars = n
		}
	}

	setBool := func(name string, field *bool) {
		if v := os.Getenv(name); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*field = b
			}
		}
	}

	setBool("DISPATCH_AUTO", &c.Auto)
	setBool("DISPATCH_LLM_FALLBACK", &c.LLMFallback)
}

func (c *WorkflowConfig) validate() error {
	if c.Revisions() < 0 {
		return fmt.Errorf("max_revisions must not be negative")
	}
	if c.MaxChars < 0 {
		return fmt.Errorf("max_chars must not be negative")
	}
	return nil
}
