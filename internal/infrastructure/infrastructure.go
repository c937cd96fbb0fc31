// Package infrastructure assembles the shared systems a dispatch run needs:
// lifecycle coordination, logging, ticket storage, and owner notification.
package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/JaimeStill/dispatch/internal/config"
	"github.com/JaimeStill/dispatch/internal/notify"
	"github.com/JaimeStill/dispatch/pkg/lifecycle"
	"github.com/JaimeStill/dispatch/pkg/storage"
)

// Infrastructure holds the core systems used by every command.
type Infrastructure struct {
	RunID     string
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Storage   storage.System
	Notifier  notify.Notifier
}

// Options redirect the process streams, mainly for tests.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
}

// New creates an Infrastructure from cfg. Systems are constructed but not
// started; call Start separately.
func New(ctx context.Context, cfg *config.Config, opts Options) (*Infrastructure, error) {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	runID := uuid.NewString()
	logger := slog.New(slog.NewTextHandler(opts.Stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	})).With("run_id", runID)

	lc := lifecycle.New(ctx)

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	notifier, err := notify.New(ctx, &cfg.Notify, opts.Stdout, logger)
	if err != nil {
		return nil, fmt.Errorf("notify init failed: %w", err)
	}

	return &Infrastructure{
		RunID:     runID,
		Lifecycle: lc,
		Logger:    logger,
		Storage:   store,
		Notifier:  notifier,
	}, nil
}

// Start prepares storage for writes.
func (i *Infrastructure) Start() error {
	if err := i.Storage.Start(i.Lifecycle.Context()); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}
