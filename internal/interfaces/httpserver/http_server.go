package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/corkapps/grounding-gateway/internal/config"
	"github.com/corkapps/grounding-gateway/internal/domain/identity"
	"github.com/corkapps/grounding-gateway/internal/interfaces/httpserver/handlers"
	"github.com/corkapps/grounding-gateway/internal/interfaces/httpserver/middlewares"
	"github.com/corkapps/grounding-gateway/internal/interfaces/httpserver/responses"
	"github.com/corkapps/grounding-gateway/internal/interfaces/httpserver/routes"
)

// ReadinessChecker reports whether the gateway can verify tokens yet.
type ReadinessChecker interface {
	Ready() bool
}

// HttpServer wraps the gin engine with graceful shutdown helpers.
type HttpServer struct {
	cfg         *config.Config
	engine      *gin.Engine
	log         zerolog.Logger
	handlerProv *handlers.Provider
	routeProv   *routes.Provider
}

// New constructs the HTTP server with default middleware and routes.
func New(cfg *config.Config, log zerolog.Logger, service handlers.Augmenter, verifier identity.Verifier, readiness ReadinessChecker) (*HttpServer, error) {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	rateLimit, err := middlewares.RateLimit(cfg.RateLimit, log)
	if err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.Use(gin.Recovery())
	engine.Use(middlewares.RequestID())
	engine.Use(middlewares.Tracing(cfg.ServiceName))
	engine.Use(middlewares.Logging(log))
	engine.Use(middlewares.Metrics())
	engine.Use(middlewares.CORS(cfg.CORSAllowedOrigins))

	engine.NoMethod(func(c *gin.Context) {
		responses.HandleErrorWithStatus(c, http.StatusMethodNotAllowed, nil, "Method not allowed")
	})
	engine.NoRoute(func(c *gin.Context) {
		responses.HandleErrorWithStatus(c, http.StatusNotFound, nil, "Not found")
	})

	handlerProvider := handlers.NewProvider(service)
	routeProvider := routes.NewProvider(handlerProvider)
	registerCoreRoutes(engine, cfg, readiness)

	protected := engine.Group("/")
	protected.Use(middlewares.Auth(verifier), rateLimit)
	routeProvider.Register(protected)

	return &HttpServer{
		cfg:         cfg,
		engine:      engine,
		log:         log,
		handlerProv: handlerProvider,
		routeProv:   routeProvider,
	}, nil
}

// Handler exposes the engine, mainly for tests.
func (s *HttpServer) Handler() http.Handler {
	return s.engine
}

// Run starts the HTTP listener and handles graceful shutdown via context cancellation.
func (s *HttpServer) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr()).Msg("HTTP server listening")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("HTTP server error")
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.log.Info().Msg("Context cancelled, shutting down HTTP server")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func registerCoreRoutes(engine *gin.Engine, cfg *config.Config, readiness ReadinessChecker) {
	engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": cfg.ServiceName,
			"status":  "ok",
		})
	})

	engine.GET("/healthz", func(c *gin.Context) {
		creds := cfg.Credentials()
		c.JSON(http.StatusOK, gin.H{
			"status":           "ok",
			"service":          cfg.ServiceName,
			"searchConfigured": creds.Search().IsSet(),
			"modelConfigured":  creds.Model().IsSet(),
		})
	})

	engine.GET("/readyz", func(c *gin.Context) {
		if readiness != nil && !readiness.Ready() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "initializing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
