package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/kirinyoku/tourdash/docs"
	"github.com/kirinyoku/tourdash/internal/app"
	"github.com/kirinyoku/tourdash/internal/config"
)

// @title tourdash API
// @version 1.0
// @description Crowd, hotel and visitor analytics for the tourism dashboard.
// @host localhost:8080
// @BasePath /
//
// @securityDefinitions.apikey AdminSession
// @in header
// @name X-Admin-Session
// @description Session id from /admin/login; the admin_session cookie is accepted too.
func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.Level}))

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(context.Background()); err != nil {
		logger.Error("application finished with error", "error", err)
		os.Exit(1)
	}
}
