package main

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/dispatch/internal/batch"
	"github.com/JaimeStill/dispatch/internal/company"
	"github.com/JaimeStill/dispatch/internal/config"
	"github.com/JaimeStill/dispatch/internal/drafts"
	"github.com/JaimeStill/dispatch/internal/inbox"
	"github.com/JaimeStill/dispatch/internal/infrastructure"
	"github.com/JaimeStill/dispatch/internal/memory"
	"github.com/JaimeStill/dispatch/internal/prompts"
	"github.com/JaimeStill/dispatch/internal/review"
	"github.com/JaimeStill/dispatch/internal/tickets"
	"github.com/JaimeStill/dispatch/internal/triage"
	"github.com/JaimeStill/dispatch/internal/workflow"
)

var errInterrupted = errors.New("run interrupted")

type runOptions struct {
	emails       string
	companyPath  string
	output       string
	maxRevisions int
	maxChars     int
	auto         bool
	llmFallback  bool
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process every email in the source file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd, opts.overrides(cmd))
			if err != nil {
				return err
			}
			return runBatch(cmd, cfg)
		},
	}

	opts.addFlags(cmd)

	return cmd
}

func (o *runOptions) addFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.emails, "emails", "", "Path to the email source JSON")
	f.StringVar(&o.companyPath, "company", "", "Path to the company config (JSON or YAML)")
	f.StringVar(&o.output, "output", "", "Ticket output root for the local backend")
	f.IntVar(&o.maxRevisions, "max-revisions", 3, "Maximum reviewer revision rounds per email (0 disables revisions)")
	f.IntVar(&o.maxChars, "max-chars", 0, "Default draft length limit in characters")
	f.BoolVar(&o.auto, "auto", false, "Approve every draft without prompting")
	f.BoolVar(&o.llmFallback, "llm-fallback", false, "Ask the agent to route emails the classifier cannot place")
}

// overrides assigns every flag set on cmd to the loaded configuration.
func (o *runOptions) overrides(cmd *cobra.Command) func(*config.Config) {
	f := cmd.Flags()
	return func(c *config.Config) {
		if f.Changed("emails") {
			c.Inputs.Emails = o.emails
		}
		if f.Changed("company") {
			c.Inputs.Company = o.companyPath
		}
		if f.Changed("output") {
			c.Storage.Root = o.output
		}
		if f.Changed("max-revisions") {
			n := o.maxRevisions
			c.Workflow.MaxRevisions = &n
		}
		if f.Changed("max-chars") {
			c.Workflow.MaxChars = o.maxChars
		}
		if f.Changed("auto") {
			c.Workflow.Auto = o.auto
		}
		if f.Changed("llm-fallback") {
			c.Workflow.LLMFallback = o.llmFallback
		}
	}
}

// revisionLimit maps the configured limit onto the workflow runtime, where
// zero means the workflow default.
func revisionLimit(cfg *config.Config) int {
	if n := cfg.Workflow.Revisions(); n > 0 {
		return n
	}
	return workflow.NoRevisions
}

func runBatch(cmd *cobra.Command, cfg *config.Config) error {
	out := cmd.OutOrStdout()

	infra, err := infrastructure.New(cmd.Context(), cfg, infrastructure.Options{
		Stdout: out,
		Stderr: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	logger := infra.Logger

	if err := infra.Start(); err != nil {
		return err
	}

	stop := infra.Lifecycle.Trap(os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(
		"dispatch starting",
		"env", cfg.Env(),
		"emails", cfg.Inputs.Emails,
		"storage", cfg.Storage.Backend,
		"notify", infra.Notifier.Name(),
		"auto", cfg.Workflow.Auto,
	)

	emails, companyCfg, err := loadInputs(cmd, cfg, infra)
	if err != nil {
		return err
	}

	cat := company.NewCatalog(companyCfg)

	mem, err := memory.Open(cfg.Inputs.Memory, logger)
	if err != nil {
		return err
	}
	mem.SyncRoster(cat)

	infra.Lifecycle.OnShutdown(func() {
		if err := mem.Save(); err != nil {
			logger.Error("memory flush failed", "path", mem.Path(), "error", err)
		}
	})

	ps, err := prompts.New(cat.CompanyName(), cfg.Prompts)
	if err != nil {
		return fmt.Errorf("prompts: %w", err)
	}

	gen := drafts.NewAgentGenerator(cfg.Agent)

	var completer triage.Completer
	if cfg.Workflow.LLMFallback {
		completer = gen
	}

	var reviewer workflow.Reviewer = workflow.AutoReviewer{}
	if !cfg.Workflow.Auto {
		reviewer = review.NewConsole(cmd.InOrStdin(), out)
	}

	rt := &workflow.Runtime{
		Catalog:      cat,
		Memory:       mem,
		Router:       triage.NewRouter(cat, ps, completer, logger),
		Drafter:      drafts.New(gen, ps, logger),
		Reviewer:     reviewer,
		MaxRevisions: revisionLimit(cfg),
		MaxChars:     cfg.Workflow.MaxChars,
		Logger:       logger,
	}

	runner := batch.New(rt, tickets.New(infra.Storage, logger), infra.Notifier, out, logger)
	report := runner.Run(infra.Lifecycle.Context(), emails)

	if err := infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
		logger.Error("shutdown failed", "error", err)
	}

	fmt.Fprintln(out, batch.Summary(report.Counts, cat))

	logger.Info(
		"dispatch finished",
		"total", report.Total,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"interrupted", report.Interrupted,
	)

	switch {
	case report.Interrupted:
		return errInterrupted
	case report.Failed > 0:
		return fmt.Errorf("%d of %d emails failed", report.Failed, report.Total)
	}
	return nil
}

// loadInputs reads the email source and the company config concurrently.
// A missing company file falls back to the built-in departments.
func loadInputs(cmd *cobra.Command, cfg *config.Config, infra *infrastructure.Infrastructure) ([]inbox.Email, *company.Config, error) {
	var (
		emails     []inbox.Email
		companyCfg *company.Config
	)

	g, _ := errgroup.WithContext(cmd.Context())

	g.Go(func() error {
		loaded, err := inbox.Load(cfg.Inputs.Emails, cfg.Inputs.MaxEmailSizeBytes())
		if err != nil {
			return fmt.Errorf("load emails: %w", err)
		}
		emails = loaded
		return nil
	})

	g.Go(func() error {
		if cfg.Inputs.Company == "" {
			return nil
		}
		loaded, err := company.Load(cfg.Inputs.Company)
		if errors.Is(err, company.ErrConfigNotFound) {
			infra.Logger.Warn("company config not found; using built-in departments", "path", cfg.Inputs.Company)
			return nil
		}
		if err != nil {
			return fmt.Errorf("load company config: %w", err)
		}
		companyCfg = loaded
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	infra.Logger.Info("inputs loaded", "emails", len(emails), "company", companyCfg != nil)
	return emails, companyCfg, nil
}
