// Package poller runs periodic refresh jobs on an injectable clock.
package poller

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kirinyoku/tourdash/internal/clock"
)

type Func func(ctx context.Context) error

// Task runs fn once on Start and then on every tick until Stop or until
// the start context is cancelled. Failed runs are logged and the loop
// keeps going.
type Task struct {
	name     string
	interval time.Duration
	fn       Func
	clock    clock.Clock
	logger   *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	trigger chan struct{}
}

func NewTask(name string, interval time.Duration, fn Func, c clock.Clock, logger *slog.Logger) *Task {
	if c == nil {
		c = clock.Real{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Task{
		name:     name,
		interval: interval,
		fn:       fn,
		clock:    c,
		logger:   logger.With("component", name),
		trigger:  make(chan struct{}, 1),
	}
}

// Start launches the loop. Calling Start on a running task is a no-op.
func (t *Task) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.done = make(chan struct{})

	ticker := t.clock.NewTicker(t.interval)
	go t.loop(ctx, ticker, t.done)
}

// Stop cancels the loop and waits for the current run to finish.
func (t *Task) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Trigger asks for an extra run as soon as the loop is free. Triggers
// that arrive while one is already pending are merged.
func (t *Task) Trigger() {
	select {
	case t.trigger <- struct{}{}:
	default:
	}
}

// Run blocks until ctx is done, for use under an errgroup.
func (t *Task) Run(ctx context.Context) error {
	t.Start(ctx)
	<-ctx.Done()
	t.Stop()
	return nil
}

func (t *Task) loop(ctx context.Context, ticker clock.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	t.logger.Info("task started", "interval", t.interval)
	defer t.logger.Info("task stopped")

	t.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			t.runOnce(ctx)
		case <-t.trigger:
			t.runOnce(ctx)
		}
	}
}

func (t *Task) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := t.fn(ctx); err != nil && ctx.Err() == nil {
		t.logger.Warn("task cycle failed", "error", err)
	}
}

// Generation is a monotonically increasing token. A result computed under
// an older token than Current is stale and must be dropped.
type Generation struct {
	n atomic.Uint64
}

// Next invalidates every outstanding token and returns the new one.
func (g *Generation) Next() uint64 { return g.n.Add(1) }

func (g *Generation) Current() uint64 { return g.n.Load() }

func (g *Generation) IsCurrent(token uint64) bool { return g.n.Load() == token }
