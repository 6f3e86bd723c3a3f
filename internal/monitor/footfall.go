package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/kirinyoku/tourdash/internal/clock"
	"github.com/kirinyoku/tourdash/internal/domain"
	"github.com/kirinyoku/tourdash/internal/poller"
)

type FootfallSource interface {
	FootfallSeries(ctx context.Context, city, place string) ([]domain.FootfallPoint, error)
}

type Selection struct {
	City  string `json:"city"`
	Place string `json:"place"`
}

func (s Selection) complete() bool { return s.City != "" && s.Place != "" }

type FootfallLive struct {
	Selection Selection              `json:"selection"`
	Series    []domain.FootfallPoint `json:"series"`
	UpdatedAt *time.Time             `json:"updatedAt,omitempty"`
}

// FootfallMonitor polls the series for the admin-selected place. Changing
// the selection clears the series and drops any poll still running for the
// previous one.
type FootfallMonitor struct {
	src    FootfallSource
	clock  clock.Clock
	logger *slog.Logger

	gen  poller.Generation
	task *poller.Task

	mu        sync.Mutex
	sel       Selection
	series    []domain.FootfallPoint
	updatedAt time.Time
}

func NewFootfallMonitor(
	src FootfallSource,
	interval time.Duration,
	c clock.Clock,
	logger *slog.Logger,
) *FootfallMonitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if c == nil {
		c = clock.Real{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	m := &FootfallMonitor{
		src:    src,
		clock:  c,
		logger: logger.With("component", "footfall-monitor"),
	}
	m.task = poller.NewTask("footfall-monitor", interval, m.Poll, c, logger)
	return m
}

func (m *FootfallMonitor) Start(ctx context.Context) { m.task.Start(ctx) }

func (m *FootfallMonitor) Stop() { m.task.Stop() }

func (m *FootfallMonitor) Run(ctx context.Context) error { return m.task.Run(ctx) }

// Select switches the monitored place. Selecting the current place again
// is a no-op.
func (m *FootfallMonitor) Select(sel Selection) {
	sel.City = strings.TrimSpace(sel.City)
	sel.Place = strings.TrimSpace(sel.Place)

	m.mu.Lock()
	if sel == m.sel {
		m.mu.Unlock()
		return
	}
	m.sel = sel
	m.series = nil
	m.updatedAt = time.Time{}
	m.gen.Next()
	m.mu.Unlock()

	m.task.Trigger()
}

func (m *FootfallMonitor) Selection() Selection {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sel
}

func (m *FootfallMonitor) Live() FootfallLive {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := FootfallLive{
		Selection: m.sel,
		Series:    append([]domain.FootfallPoint{}, m.series...),
	}
	if !m.updatedAt.IsZero() {
		at := m.updatedAt
		out.UpdatedAt = &at
	}
	return out
}

// Poll fetches the series for the current selection once.
func (m *FootfallMonitor) Poll(ctx context.Context) error {
	const op = "monitor.FootfallMonitor.Poll"

	m.mu.Lock()
	sel, token := m.sel, m.gen.Current()
	m.mu.Unlock()

	if !sel.complete() {
		return nil
	}

	series, err := m.src.FootfallSeries(ctx, sel.City, sel.Place)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.gen.IsCurrent(token) {
		m.logger.Debug("discarding stale footfall series", "city", sel.City, "place", sel.Place)
		return nil
	}
	m.series = series
	m.updatedAt = m.clock.Now().UTC()

	return nil
}
