// Package monitor keeps the admin alert feed and live footfall series
// fresh in the background.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kirinyoku/tourdash/internal/analytics"
	"github.com/kirinyoku/tourdash/internal/backend"
	"github.com/kirinyoku/tourdash/internal/clock"
	"github.com/kirinyoku/tourdash/internal/domain"
	"github.com/kirinyoku/tourdash/internal/poller"
	"github.com/kirinyoku/tourdash/internal/repository"
	redisrepo "github.com/kirinyoku/tourdash/internal/repository/redis"
)

const DefaultInterval = 30 * time.Second

type AlertSource interface {
	HighCrowd(ctx context.Context, q backend.PlaceQuery) ([]domain.Place, error)
	CityHotelAnalytics(ctx context.Context, city string) ([]domain.CityHotelStats, error)
}

// Notifier tells live subscribers that a new feed is stored.
type Notifier interface {
	PublishAlertsChanged(ctx context.Context, count int) error
}

type AlertConfig struct {
	DefaultState string
	Thresholds   analytics.Thresholds
	Interval     time.Duration
}

// AlertMonitor rebuilds the merged crowd and hotel alert feed every
// interval. A rules change invalidates any cycle already in flight.
type AlertMonitor struct {
	src    AlertSource
	kv     repository.KV
	notify Notifier
	cfg    AlertConfig
	logger *slog.Logger

	gen  poller.Generation
	task *poller.Task

	mu   sync.Mutex
	feed []domain.Alert
}

func NewAlertMonitor(
	cfg AlertConfig,
	src AlertSource,
	kv repository.KV,
	notify Notifier,
	c clock.Clock,
	logger *slog.Logger,
) *AlertMonitor {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	cfg.Thresholds = cfg.Thresholds.Normalize()
	if logger == nil {
		logger = slog.Default()
	}

	m := &AlertMonitor{
		src:    src,
		kv:     kv,
		notify: notify,
		cfg:    cfg,
		logger: logger.With("component", "alert-monitor"),
	}
	m.task = poller.NewTask("alert-monitor", cfg.Interval, m.Refresh, c, logger)
	return m
}

func (m *AlertMonitor) Start(ctx context.Context) { m.task.Start(ctx) }

func (m *AlertMonitor) Stop() { m.task.Stop() }

func (m *AlertMonitor) Run(ctx context.Context) error { return m.task.Run(ctx) }

// Rules returns the stored alert rules, or the defaults when none are
// stored or the store is unreachable.
func (m *AlertMonitor) Rules(ctx context.Context) domain.AlertRules {
	r, ok, err := redisrepo.GetJSON[domain.AlertRules](ctx, m.kv, redisrepo.KeyAlertRules())
	if err != nil || !ok {
		return domain.DefaultAlertRules()
	}
	return r
}

// SetRules validates and stores r, then schedules an immediate rebuild.
func (m *AlertMonitor) SetRules(ctx context.Context, r domain.AlertRules) error {
	const op = "monitor.AlertMonitor.SetRules"

	var v domain.ValidationError
	if r.HotelHighOccupancy <= 0 || r.HotelHighOccupancy > 100 {
		v.Add("hotelHighOccupancy", "High occupancy must be between 1 and 100")
	}
	if r.HotelLowOccupancy < 0 || r.HotelLowOccupancy >= 100 {
		v.Add("hotelLowOccupancy", "Low occupancy must be between 0 and 99")
	}
	if r.HotelLowOccupancy >= r.HotelHighOccupancy {
		v.Add("hotelLowOccupancy", "Low occupancy must be below high occupancy")
	}
	if err := v.Err(); err != nil {
		return err
	}

	if err := redisrepo.SetJSON(ctx, m.kv, redisrepo.KeyAlertRules(), r, 0); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	m.mu.Lock()
	m.gen.Next()
	m.mu.Unlock()

	m.task.Trigger()
	return nil
}

// Feed returns the latest alert feed. Before the first cycle completes it
// falls back to the stored feed, and then to a synchronous rebuild.
func (m *AlertMonitor) Feed(ctx context.Context) ([]domain.Alert, error) {
	const op = "monitor.AlertMonitor.Feed"

	m.mu.Lock()
	feed := m.feed
	m.mu.Unlock()
	if feed != nil {
		return feed, nil
	}

	if stored, ok, err := redisrepo.GetJSON[[]domain.Alert](ctx, m.kv, redisrepo.KeyAlertsFeed()); err == nil && ok {
		return stored, nil
	}

	if err := m.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.feed == nil {
		return []domain.Alert{}, nil
	}
	return m.feed, nil
}

// Refresh runs one cycle. A result computed under rules that changed
// meanwhile is dropped.
func (m *AlertMonitor) Refresh(ctx context.Context) error {
	const op = "monitor.AlertMonitor.Refresh"

	m.mu.Lock()
	token := m.gen.Current()
	m.mu.Unlock()

	rules := m.Rules(ctx)

	var (
		places []domain.Place
		stats  []domain.CityHotelStats
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		places, err = m.src.HighCrowd(gCtx, backend.PlaceQuery{State: m.cfg.DefaultState})
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = m.src.CityHotelAnalytics(gCtx, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	feed := analytics.MergeAlerts(
		analytics.GenerateAlerts(places, m.cfg.DefaultState, m.cfg.Thresholds),
		analytics.GenerateHotelAlerts(stats, rules),
	)

	m.mu.Lock()
	if !m.gen.IsCurrent(token) {
		m.mu.Unlock()
		m.logger.Debug("discarding stale alert feed", "generation", token)
		return nil
	}
	m.feed = feed
	err := redisrepo.SetJSON(ctx, m.kv, redisrepo.KeyAlertsFeed(), feed, 0)
	m.mu.Unlock()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if m.notify != nil {
		if err := m.notify.PublishAlertsChanged(ctx, len(feed)); err != nil {
			m.logger.Warn("publish alerts changed failed", "error", err)
		}
	}

	return nil
}
