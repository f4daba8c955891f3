// Package app wires configuration, logging and the validator into the
// long-running surfaces: the HTTP server and the MCP stdio server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/config"
	"github.com/reoring/skema/i18n"
	"github.com/reoring/skema/internal/admission"
	"github.com/reoring/skema/internal/httpapi"
	"github.com/reoring/skema/internal/mcpserver"
)

// Version is reported by the MCP server.
const Version = "0.1.0"

// Env is the configured runtime shared by every command.
type Env struct {
	Config    *config.Config
	Logger    *slog.Logger
	Validator *skema.Validator
}

// Setup validates options and builds the logger and validator. It also
// applies the configured message language.
func Setup(opts ...Option) (*Env, error) {
	a := &application{logOut: os.Stderr}
	for _, opt := range opts {
		opt(a)
	}
	if a.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := a.config

	logger := slog.New(slog.NewJSONHandler(a.logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
	i18n.SetLanguage(cfg.App.Language)

	logger.Debug("Configuration loaded",
		slog.Int("stride", cfg.Validation.Stride),
		slog.Bool("full_scan", cfg.Validation.FullScan),
		slog.Int("concurrency", cfg.Validation.Concurrency),
		slog.String("language", cfg.App.Language),
		slog.String("log_level", cfg.App.LogLevel.String()))

	return &Env{
		Config:    cfg,
		Logger:    logger,
		Validator: skema.New(cfg.Validation.Skema()),
	}, nil
}

// Serve runs the HTTP API until ctx is cancelled or a shutdown signal
// arrives.
func Serve(ctx context.Context, env *Env) error {
	cfg, logger := env.Config, env.Logger

	var routerOpts []httpapi.RouterOption
	if cfg.Admission.Enabled() {
		wh, err := newWebhook(env)
		if err != nil {
			return err
		}
		routerOpts = append(routerOpts, httpapi.WithAdmission(wh))
		logger.Info("Admission webhook enabled",
			slog.String("crd_file", cfg.Admission.CRDFile),
			slog.String("kind", cfg.Admission.Kind))
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Address(),
		Handler:           httpapi.NewRouter(env.Validator, logger, routerOpts...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Server stopped successfully")
	return nil
}

func newWebhook(env *Env) (*admission.Webhook, error) {
	cfg := env.Config
	data, err := os.ReadFile(cfg.Admission.CRDFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CRD bundle: %w", err)
	}
	wh, err := admission.FromBundle(data, env.Validator, admission.Options{
		Kind:     cfg.Admission.Kind,
		FullScan: cfg.Validation.FullScan,
	}, env.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to import CRD: %w", err)
	}
	return wh, nil
}

// ServeMCP runs the MCP server on stdin/stdout.
func ServeMCP(env *Env) error {
	env.Logger.Info("Starting MCP stdio server")
	return mcpserver.New(env.Validator, Version).ServeStdio()
}
