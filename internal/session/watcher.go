package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirinyoku/tourdash/internal/clock"
	"github.com/kirinyoku/tourdash/internal/poller"
)

const DefaultCheckInterval = 30 * time.Second

// Watcher re-validates every tracked session on a fixed interval. Sessions
// that no longer validate are dropped and reported through onExpire.
type Watcher struct {
	store    *Store
	onExpire func(id string)
	logger   *slog.Logger
	task     *poller.Task
}

func NewWatcher(
	store *Store,
	interval time.Duration,
	c clock.Clock,
	logger *slog.Logger,
	onExpire func(id string),
) *Watcher {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	w := &Watcher{
		store:    store,
		onExpire: onExpire,
		logger:   logger,
	}
	w.task = poller.NewTask("session-watcher", interval, w.check, c, logger)
	return w
}

func (w *Watcher) Start(ctx context.Context) { w.task.Start(ctx) }

func (w *Watcher) Stop() { w.task.Stop() }

func (w *Watcher) Run(ctx context.Context) error { return w.task.Run(ctx) }

// check skips sessions it cannot read; only a record that is gone or past
// its expiry counts as expired.
func (w *Watcher) check(ctx context.Context) error {
	const op = "session.Watcher.check"

	var failed int
	for _, id := range w.store.Tracked() {
		_, ok, err := w.store.lookup(ctx, id)
		if err != nil {
			failed++
			continue
		}
		if ok {
			continue
		}
		w.store.untrack(id)
		w.logger.Info("admin session expired", "component", "session-watcher", "session_id", id)
		if w.onExpire != nil {
			w.onExpire(id)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%s: %d sessions unreadable, retrying next cycle", op, failed)
	}
	return nil
}
