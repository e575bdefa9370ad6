package main

import (
	"log/slog"

	"herecast/internal/conditions"
	"herecast/internal/config"
	"herecast/internal/page"
	"herecast/internal/radar"
	"herecast/internal/timezone"

	"github.com/gin-gonic/gin"

	_ "herecast/docs" // Ensure docs are imported
)

// App encapsulates application dependencies
type App struct {
	router   *gin.Engine
	logger   *slog.Logger
	cfg      *config.Config
	composer *page.Composer
	radar    *radar.Proxy
	tz       timezone.Service
}

// NewApp creates a new application with injected dependencies
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Set Gin mode from configuration
	gin.SetMode(cfg.Server.GinMode)

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())

	// The timezone fallback is optional; without it the page simply shows
	// no timezone when the edge did not forward one.
	tz, err := timezone.NewService()
	if err != nil {
		logger.Warn("timezone fallback unavailable", "error", err)
		tz = nil
	}

	conditionsSvc := conditions.NewService(cfg, logger)

	app := &App{
		router:   router,
		logger:   logger,
		cfg:      cfg,
		composer: page.NewComposer(conditionsSvc, logger),
		radar:    radar.NewProxy(cfg.App.RadarBaseURL, cfg.Providers.Timeout, logger),
		tz:       tz,
	}

	// Register routes
	app.registerRoutes()

	return app, nil
}

// Run starts the HTTP server
func (app *App) Run(addr string) error {
	return app.router.Run(addr)
}
