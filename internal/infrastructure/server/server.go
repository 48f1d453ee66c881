package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	api "github.com/GriffinCanCode/procintf/internal/api/http"
	"github.com/GriffinCanCode/procintf/internal/api/middleware"
	"github.com/GriffinCanCode/procintf/internal/domain/access"
	"github.com/GriffinCanCode/procintf/internal/domain/lifecycle"
	"github.com/GriffinCanCode/procintf/internal/domain/state"
	"github.com/GriffinCanCode/procintf/internal/infrastructure/config"
	"github.com/GriffinCanCode/procintf/internal/infrastructure/logging"
	"github.com/GriffinCanCode/procintf/internal/infrastructure/monitoring"
)

// ShutdownTimeout bounds how long Close waits for in-flight requests
const ShutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and the interface it exposes
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	namespace  *access.Namespace
	manager    *lifecycle.Manager
	logger     *logging.Logger
	config     *config.Config
	metrics    *monitoring.Metrics
}

// NewServer builds the interface and the router in front of it. If the
// interface cannot be initialized nothing is left registered.
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	logger.Info("Initializing procintf server",
		zap.String("port", cfg.Server.Port),
		zap.String("container", cfg.Interface.Name),
	)

	metrics := monitoring.NewMetrics()

	namespace := access.NewNamespace(
		access.WithOwner(cfg.Interface.OwnerUID, cfg.Interface.OwnerGID),
		access.WithLogger(logger.Logger),
	)

	manager := lifecycle.NewManager(namespace,
		lifecycle.Config{
			Name:       cfg.Interface.Name,
			PageOffset: cfg.Interface.PageOffset,
		},
		lifecycle.WithLogger(logger.Logger),
		lifecycle.WithStoreOptions(
			state.WithSecret(cfg.Interface.Secret),
			state.WithWaitObserver(metrics.ObserveLockWait),
		),
		lifecycle.WithStateObserver(func(s lifecycle.State) {
			metrics.SetLifecycleState(int(s))
			metrics.SetNodes(namespace.Len())
		}),
		lifecycle.WithLevelHook(levelHook(logger, cfg.Logging.Level)),
	)
	if err := manager.Start(); err != nil {
		logger.Sync()
		return nil, fmt.Errorf("failed to initialize interface: %w", err)
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.Logger))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig().WithOrigins(cfg.CORS.AllowOrigins)))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}
	router.Use(middleware.Credentials(access.Caller{
		UID: cfg.Interface.CallerUID,
		GID: cfg.Interface.CallerGID,
	}))

	handlers := api.NewHandlers(namespace, manager, metrics, logger.Logger)
	handlers.Register(router)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	logger.Info("Server initialized successfully")

	return &Server{
		router: router,
		httpServer: &http.Server{
			Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		namespace: namespace,
		manager:   manager,
		logger:    logger,
		config:    cfg,
		metrics:   metrics,
	}, nil
}

// levelHook raises the log level to debug while the interface's debug
// level is non-zero and restores the configured level otherwise.
func levelHook(logger *logging.Logger, base string) func(int) {
	return func(level int) {
		target := base
		if level > 0 {
			target = "debug"
		}
		if err := logger.SetLevel(target); err != nil {
			logger.Warn("Failed to follow debug level", zap.Int("level", level), zap.Error(err))
		}
	}
}

// Router returns the HTTP handler, mostly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Manager returns the lifecycle manager
func (s *Server) Manager() *lifecycle.Manager {
	return s.manager
}

// Run starts the HTTP server and blocks until it stops. A clean shutdown
// through Close returns nil.
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Close stops accepting requests, drains in-flight ones and then tears the
// interface down.
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	var shutdownErr error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP shutdown incomplete", zap.Error(err))
		shutdownErr = fmt.Errorf("failed to shut down http server: %w", err)
	}

	s.manager.Stop()
	s.logger.Info("Interface torn down", zap.String("state", s.manager.State().String()))

	// Sync logger before exit
	s.logger.Sync()

	return shutdownErr
}
