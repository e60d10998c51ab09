package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/corkapps/grounding-gateway/internal/config"
	"github.com/corkapps/grounding-gateway/internal/domain/augment"
	"github.com/corkapps/grounding-gateway/internal/infrastructure"
	"github.com/corkapps/grounding-gateway/internal/infrastructure/logger"
	"github.com/corkapps/grounding-gateway/internal/infrastructure/observability"
	"github.com/corkapps/grounding-gateway/internal/interfaces"
	"github.com/corkapps/grounding-gateway/internal/interfaces/httpserver"
)

type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)
	for _, warning := range cfg.Warnings() {
		log.Warn().Msg(warning)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create application")
	}

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

// newApplication mirrors the wire injector in wire.go.
func newApplication(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Application, error) {
	creds := infrastructure.ProvideCredentials(cfg)

	verifier, err := infrastructure.ProvideVerifier(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("initialize auth verifier: %w", err)
	}

	service := augment.NewService(
		infrastructure.ProvideSearchClient(cfg, creds, log),
		infrastructure.ProvideModelClient(cfg, creds, log),
		infrastructure.ProvideAugmentConfig(cfg),
		infrastructure.ProvideSanitizer(cfg),
		log,
	)

	httpServer, err := interfaces.ProvideHTTPServer(cfg, log, service, verifier)
	if err != nil {
		return nil, fmt.Errorf("initialize http server: %w", err)
	}
	return NewApplication(httpServer, log), nil
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
