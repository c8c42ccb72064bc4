// web serves the interactive grade analytics dashboard: it runs the
// analysis pipeline at startup and exposes the results over HTTP and
// websockets.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"gradepulse/internal/config"
	"gradepulse/internal/infrastructure"
	"gradepulse/internal/services"
	transport "gradepulse/internal/transport/http"
	"gradepulse/internal/websocket"
)

// version is set via -ldflags at build time.
var version = "dev"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	hub := websocket.NewHub(logger)
	hub.Start()
	defer hub.Stop()

	pipeline := services.NewPipeline(cfg, logger, hub)
	service := services.NewAnalyticsService(pipeline, logger)

	// Populate the first snapshot so the dashboard has data immediately.
	// A failure here is not fatal: the server still comes up and a later
	// refresh can succeed once the input is fixed.
	if _, err := service.Refresh(context.Background()); err != nil {
		logger.Warn("initial analysis failed, serving without data",
			slog.String("error", err.Error()))
	}

	router := transport.NewRouter(transport.RouterOptions{
		Service: service,
		Hub:     hub,
		Config:  cfg,
		Logger:  logger,
		Version: version,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("dashboard listening",
			slog.Int("port", cfg.Server.Port),
			slog.String("version", version))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
