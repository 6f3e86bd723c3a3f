package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/kirinyoku/tourdash/internal/admin"
	"github.com/kirinyoku/tourdash/internal/analytics"
	"github.com/kirinyoku/tourdash/internal/backend"
	"github.com/kirinyoku/tourdash/internal/clock"
	"github.com/kirinyoku/tourdash/internal/complaint"
	"github.com/kirinyoku/tourdash/internal/config"
	"github.com/kirinyoku/tourdash/internal/dashboard"
	"github.com/kirinyoku/tourdash/internal/events"
	"github.com/kirinyoku/tourdash/internal/geocode"
	"github.com/kirinyoku/tourdash/internal/location"
	"github.com/kirinyoku/tourdash/internal/monitor"
	"github.com/kirinyoku/tourdash/internal/postgres"
	"github.com/kirinyoku/tourdash/internal/redis"
	postgresrepo "github.com/kirinyoku/tourdash/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/tourdash/internal/repository/redis"
	"github.com/kirinyoku/tourdash/internal/service"
	"github.com/kirinyoku/tourdash/internal/session"
	"github.com/kirinyoku/tourdash/internal/ticket"
	httpgin "github.com/kirinyoku/tourdash/internal/transport/http/gin"
)

const idempotencyTTL = 24 * time.Hour

// background is a periodic job run for the lifetime of the app.
type background interface {
	Run(ctx context.Context) error
}

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
	jobs       []background

	pool      *pgxpool.Pool
	rdb       *goredis.Client
	publisher *events.KafkaPublisher
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx := context.Background()
	clk := clock.Real{}

	// Initialize dependencies
	pgxPool, err := postgres.New(ctx, postgres.Config{
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		Name:     cfg.Postgres.Name,
		SSLMode:  cfg.Postgres.SSLMode,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	rdb, err := redis.New(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		pgxPool.Close()
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	a := &App{cfg: cfg, logger: logger, pool: pgxPool, rdb: rdb}

	// Initialize repositories
	store := postgresrepo.NewStore(pgxPool)
	if err := store.Migrate(ctx); err != nil {
		a.close()
		return nil, fmt.Errorf("failed to migrate postgres: %w", err)
	}
	cache := redisrepo.New(rdb)
	pubsub := redisrepo.NewAlertsPubSub(rdb)
	limiter := redisrepo.NewSlidingWindowLimiter(rdb, "admin_login", cfg.Admin.LoginAttempts, cfg.Admin.LoginAttemptWindow, clk)
	idempotencyStore := redisrepo.NewIdempotencyStore(rdb, idempotencyTTL)

	var publisher events.Publisher = events.Nop{}
	if cfg.Kafka.Enabled() {
		a.publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		publisher = a.publisher
	}
	publisher = events.NewLogged(publisher, logger)

	// External collaborators
	backendClient := backend.New(cfg.Backend.URL, cfg.Backend.Timeout)
	geocoder := geocode.New(cfg.Geocoder.URL, cfg.Geocoder.Timeout)

	thresholds := analytics.Thresholds{High: cfg.Crowd.High, Critical: cfg.Crowd.Critical}

	// Initialize services
	sessions := session.NewStore(cache, clk, cfg.Admin.SessionTTL)
	watcher := session.NewWatcher(sessions, cfg.Admin.SessionCheck, clk, logger, func(id string) {
		logger.Info("admin session expired", "session", id)
	})

	alertMonitor := monitor.NewAlertMonitor(monitor.AlertConfig{
		DefaultState: cfg.Crowd.DefaultState,
		Thresholds:   thresholds,
		Interval:     cfg.Monitor.AlertInterval,
	}, backendClient, cache, pubsub, clk, logger)
	footfallMonitor := monitor.NewFootfallMonitor(backendClient, cfg.Monitor.FootfallInterval, clk, logger)

	dashboardSvc := dashboard.New(backendClient, cache, dashboard.Config{
		DefaultState: cfg.Crowd.DefaultState,
		Thresholds:   thresholds,
	})

	services := service.NewServices(service.Deps{
		Location:   location.New(cache, geocoder, cfg.Crowd.DefaultState, logger),
		Dashboard:  dashboardSvc,
		Tickets:    ticket.New(backendClient, idempotencyStore, publisher, clk, ticket.Config{Thresholds: thresholds}),
		Complaints: complaint.New(complaint.NewPostgresRepository(store), publisher, clk),
		Alerts:     alertMonitor,
		Footfall:   footfallMonitor,
		Backend:    backendClient,
		Sessions:   sessions,
		Limiter:    limiter,
	}, admin.Config{
		Credentials: admin.Credentials{
			Username:     cfg.Admin.Username,
			PasswordHash: cfg.Admin.PasswordHash,
		},
		Location: time.Local,
	})
	if cfg.Admin.Username == "" || cfg.Admin.PasswordHash == "" {
		logger.Warn("admin credentials not configured, admin login disabled")
	}

	// Initialize Gin router
	router := httpgin.NewRouter(services, pubsub, logger)

	a.jobs = []background{watcher, alertMonitor, footfallMonitor}
	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return a, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	defer a.close()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Periodic jobs: session expiry, alert feed, live footfall
	for _, job := range a.jobs {
		g.Go(func() error { return job.Run(gCtx) })
	}

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}

func (a *App) close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("failed to close kafka writer", "error", err)
		}
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
