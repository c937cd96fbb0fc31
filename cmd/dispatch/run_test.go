package main

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/dispatch/internal/config"
	"github.com/JaimeStill/dispatch/internal/workflow"
)

func TestRunOverridesOnlyChangedFlags(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, c *config.Config)
	}{
		{
			name: "unset flags keep file values",
			args: nil,
			check: func(t *testing.T, c *config.Config) {
				if !c.Workflow.Auto || c.Workflow.Revisions() != 5 || c.Inputs.Emails != "file.json" {
					t.Errorf("workflow = %+v, emails = %q", c.Workflow, c.Inputs.Emails)
				}
			},
		},
		{
			name: "explicit false turns auto off",
			args: []string{"--auto=false"},
			check: func(t *testing.T, c *config.Config) {
				if c.Workflow.Auto {
					t.Error("auto should be off")
				}
			},
		},
		{
			name: "zero revisions",
			args: []string{"--max-revisions", "0", "--emails", "flag.json"},
			check: func(t *testing.T, c *config.Config) {
				if c.Workflow.Revisions() != 0 {
					t.Errorf("revisions = %d", c.Workflow.Revisions())
				}
				if c.Inputs.Emails != "flag.json" {
					t.Errorf("emails = %q", c.Inputs.Emails)
				}
				if revisionLimit(c) != workflow.NoRevisions {
					t.Errorf("runtime limit = %d", revisionLimit(c))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &runOptions{}
			cmd := &cobra.Command{Use: "run"}
			opts.addFlags(cmd)

			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("parse flags: %v", err)
			}

			five := 5
			c := &config.Config{
				Inputs:   config.InputsConfig{Emails: "file.json"},
				Workflow: config.WorkflowConfig{MaxRevisions: &five, Auto: true},
			}
			opts.overrides(cmd)(c)
			tt.check(t, c)
		})
	}
}
