// Package lifecycle coordinates the run context and shutdown hooks of a
// batch process.
package lifecycle

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"time"
)

// Coordinator owns the run context. Cancelling it (by signal or Shutdown)
// releases every registered shutdown hook.
type Coordinator struct {
	ctx        context.Context
	cancel     context.CancelFunc
	shutdownWg sync.WaitGroup
	once       sync.Once

	closed      atomic.Bool
	interrupted atomic.Bool
}

// New creates a Coordinator whose context derives from parent.
func New(parent context.Context) *Coordinator {
	ctx, cancel := context.WithCancel(parent)
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context returns the run context, cancelled on signal or shutdown.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnShutdown registers fn to run once the run context is cancelled.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdownWg.Go(func() {
		<-c.ctx.Done()
		fn()
	})
}

// Trap cancels the run context when any of sigs is received. The returned
// function stops signal delivery.
func (c *Coordinator) Trap(sigs ...os.Signal) func() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	go func() {
		select {
		case <-ch:
			c.cancel()
		case <-c.ctx.Done():
		}
	}()

	return func() { signal.Stop(ch) }
}

// Interrupted reports whether the run context was cancelled by a signal or
// by its parent rather than by Shutdown.
func (c *Coordinator) Interrupted() bool {
	if c.closed.Load() {
		return c.interrupted.Load()
	}
	return c.ctx.Err() != nil
}

// Shutdown cancels the run context and waits for shutdown hooks to finish
// within timeout. Repeated calls wait again but cancel only once.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.once.Do(func() {
		c.interrupted.Store(c.ctx.Err() != nil)
		c.closed.Store(true)
		c.cancel()
	})

	done := make(chan struct{})
	go func() {
		c.shutdownWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}
