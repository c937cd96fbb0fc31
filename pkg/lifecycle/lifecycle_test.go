package lifecycle_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/dispatch/pkg/lifecycle"
)

func TestShutdownRunsHooks(t *testing.T) {
	lc := lifecycle.New(context.Background())

	var ran atomic.Int32
	lc.OnShutdown(func() { ran.Add(1) })
	lc.OnShutdown(func() { ran.Add(1) })

	if lc.Interrupted() {
		t.Fatal("context cancelled before shutdown")
	}

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	if got := ran.Load(); got != 2 {
		t.Errorf("hooks run = %d, want 2", got)
	}
	if lc.Context().Err() == nil {
		t.Error("context should be cancelled after shutdown")
	}
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New(context.Background())

	block := make(chan struct{})
	defer close(block)
	lc.OnShutdown(func() { <-block })

	if err := lc.Shutdown(10 * time.Millisecond); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestParentCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	lc := lifecycle.New(parent)

	cancel()

	select {
	case <-lc.Context().Done():
	case <-time.After(time.Second):
		t.Fatal("coordinator context not cancelled with parent")
	}

	if !lc.Interrupted() {
		t.Error("Interrupted() = false after parent cancellation")
	}
}

func TestShutdownIsNotInterruption(t *testing.T) {
	lc := lifecycle.New(context.Background())

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if lc.Interrupted() {
		t.Error("Interrupted() = true after clean shutdown")
	}
}
