package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/BaSui01/delegateflow/api/handlers"
	"github.com/BaSui01/delegateflow/catalog"
	"github.com/BaSui01/delegateflow/config"
	"github.com/BaSui01/delegateflow/internal/cache"
	"github.com/BaSui01/delegateflow/internal/metrics"
	"github.com/BaSui01/delegateflow/internal/server"
	"github.com/BaSui01/delegateflow/internal/telemetry"
	"github.com/BaSui01/delegateflow/planner"
)

// =============================================================================
// Server
// =============================================================================

// Server assembles and runs the DelegateFlow service: the in-memory agent
// catalog with its durable registry, the delegation planner, and the HTTP
// and metrics listeners.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	httpManager    *server.Manager
	metricsManager *server.Manager

	otelProviders *telemetry.Providers
	db            *gorm.DB

	agentCatalog *catalog.MemoryCatalog
	store        *catalog.Store
	reference    *config.ReferenceTable
	orchestrator *planner.Orchestrator

	redisClient *redis.Client
	natsConn    *nats.Conn
	refresher   *catalog.Refresher
	watcher     *config.FileWatcher

	healthHandler    *handlers.HealthHandler
	delegateHandler  *handlers.DelegateHandler
	agentHandler     *handlers.AgentHandler
	referenceHandler *handlers.ReferenceHandler

	metricsCollector *metrics.Collector

	rateLimiterCancel context.CancelFunc

	wg sync.WaitGroup
}

// NewServer creates a new server instance. db may be nil when the durable
// registry is unavailable.
func NewServer(cfg *config.Config, logger *zap.Logger, otelProviders *telemetry.Providers, db *gorm.DB) *Server {
	return &Server{
		cfg:           cfg,
		logger:        logger,
		otelProviders: otelProviders,
		db:            db,
	}
}

// =============================================================================
// startup
// =============================================================================

// Start brings up all components in dependency order.
func (s *Server) Start() error {
	s.metricsCollector = metrics.NewCollector("delegateflow", s.logger)

	if err := s.initCatalog(); err != nil {
		return fmt.Errorf("failed to init catalog: %w", err)
	}

	if err := s.initPlanner(); err != nil {
		return fmt.Errorf("failed to init planner: %w", err)
	}

	s.initHandlers()

	if err := s.initWatcher(); err != nil {
		return fmt.Errorf("failed to init file watcher: %w", err)
	}

	if err := s.startHTTPServer(); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	if err := s.startMetricsServer(); err != nil {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}

	s.logger.Info("All servers started",
		zap.Int("http_port", s.cfg.Server.HTTPPort),
		zap.Int("metrics_port", s.cfg.Server.MetricsPort),
		zap.Bool("redis_enabled", s.cfg.Redis.Enabled),
		zap.Bool("nats_enabled", s.cfg.NATS.Enabled),
	)

	return nil
}

// =============================================================================
// initialization
// =============================================================================

// initCatalog builds the in-memory catalog, restores durable registrations,
// loads the static catalog file, and connects to the refresh event bus.
func (s *Server) initCatalog() error {
	s.agentCatalog = catalog.NewMemoryCatalog(s.logger)

	// file first: LoadFile replaces contents, Restore merges around it
	if s.cfg.Catalog.Path != "" {
		if err := s.agentCatalog.LoadFile(s.cfg.Catalog.Path); err != nil {
			return fmt.Errorf("failed to load catalog file: %w", err)
		}
		s.logger.Info("Catalog file loaded", zap.String("path", s.cfg.Catalog.Path))
	}

	if s.db != nil && s.cfg.Catalog.Persist {
		store, err := catalog.NewStore(s.db, s.logger)
		if err != nil {
			return fmt.Errorf("failed to open agent store: %w", err)
		}
		s.store = store

		if err := store.Restore(context.Background(), s.agentCatalog); err != nil {
			s.logger.Warn("failed to restore agents from store", zap.Error(err))
		}
	}

	if s.cfg.NATS.Enabled {
		conn, err := nats.Connect(s.cfg.NATS.URL,
			nats.Name("delegateflow"),
			nats.MaxReconnects(-1),
		)
		if err != nil {
			s.logger.Warn("NATS not available, catalog refresh events disabled", zap.Error(err))
		} else {
			s.natsConn = conn
			s.refresher = catalog.NewRefresher(conn, s.agentCatalog, s.cfg.NATS.SubjectPrefix, s.logger)
			if err := s.refresher.Start(); err != nil {
				return fmt.Errorf("failed to start catalog refresher: %w", err)
			}
			s.logger.Info("Catalog refresher subscribed", zap.String("subject_prefix", s.cfg.NATS.SubjectPrefix))
		}
	}

	return nil
}

// initPlanner builds the reference table, optional decision cache, and the
// delegation orchestrator.
func (s *Server) initPlanner() error {
	ref, err := config.LoadReferenceTable(s.cfg.Reference.Path)
	if err != nil {
		return fmt.Errorf("failed to load reference table: %w", err)
	}
	s.reference = ref

	opts := []planner.Option{planner.WithMetrics(s.metricsCollector)}

	if s.cfg.Redis.Enabled {
		s.redisClient = redis.NewClient(&redis.Options{
			Addr:     s.cfg.Redis.Addr,
			Password: s.cfg.Redis.Password,
			DB:       s.cfg.Redis.DB,
			PoolSize: s.cfg.Redis.PoolSize,
		})
		opts = append(opts, planner.WithCache(cache.NewManager(s.redisClient, s.cfg.Redis.DecisionTTL, s.logger)))
	}

	s.orchestrator = planner.NewOrchestrator(s.agentCatalog, s.reference, s.logger, opts...)
	return nil
}

// initHandlers wires HTTP handlers and readiness checks.
func (s *Server) initHandlers() {
	s.healthHandler = handlers.NewHealthHandler(s.logger)
	s.delegateHandler = handlers.NewDelegateHandler(s.orchestrator, s.logger)
	s.referenceHandler = handlers.NewReferenceHandler(s.reference, s.logger)

	var reserver *catalog.Reserver
	if s.redisClient != nil {
		reserver = catalog.NewReserver(s.redisClient, s.logger)
		s.healthHandler.RegisterCheck(handlers.NewPingHealthCheck("redis", func(ctx context.Context) error {
			return s.redisClient.Ping(ctx).Err()
		}))
	}
	if s.db != nil {
		s.healthHandler.RegisterCheck(handlers.NewPingHealthCheck("database", func(ctx context.Context) error {
			sqlDB, err := s.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}))
	}
	if s.natsConn != nil {
		s.healthHandler.RegisterCheck(handlers.NewPingHealthCheck("nats", func(ctx context.Context) error {
			if !s.natsConn.IsConnected() {
				return fmt.Errorf("nats connection lost")
			}
			return nil
		}))
	}

	s.agentHandler = handlers.NewAgentHandler(s.agentCatalog, s.store, reserver, s.metricsCollector, s.logger)
}

// initWatcher reloads the catalog and reference files when they change on
// disk. Nothing is watched when neither file opts in.
func (s *Server) initWatcher() error {
	var paths []string
	if s.cfg.Catalog.Path != "" && s.cfg.Catalog.WatchFile {
		paths = append(paths, s.cfg.Catalog.Path)
	}
	if s.cfg.Reference.Path != "" && s.cfg.Reference.WatchFile {
		paths = append(paths, s.cfg.Reference.Path)
	}
	if len(paths) == 0 {
		return nil
	}

	watcher, err := config.NewFileWatcher(paths, config.WithWatcherLogger(s.logger))
	if err != nil {
		return err
	}
	s.watcher = watcher

	catalogPath := s.cfg.Catalog.Path
	referencePath := s.cfg.Reference.Path
	watcher.OnChange(func(event config.FileEvent) {
		switch event.Path {
		case catalogPath:
			if err := s.agentCatalog.LoadFile(catalogPath); err != nil {
				s.logger.Error("catalog reload failed", zap.Error(err))
				return
			}
			s.logger.Info("catalog reloaded", zap.String("path", catalogPath))
		case referencePath:
			if err := s.reference.ReloadFile(referencePath); err != nil {
				s.logger.Error("reference table reload failed", zap.Error(err))
				return
			}
			s.logger.Info("reference table reloaded", zap.String("path", referencePath))
		}
	})

	return watcher.Start(context.Background())
}

// =============================================================================
// HTTP server
// =============================================================================

func (s *Server) startHTTPServer() error {
	mux := http.NewServeMux()

	// health and version endpoints
	mux.HandleFunc("/health", s.healthHandler.HandleHealth)
	mux.HandleFunc("/ready", s.healthHandler.HandleReady)
	mux.HandleFunc("/version", s.healthHandler.HandleVersion(Version, BuildTime, GitCommit))

	// delegation API
	mux.HandleFunc("/v1/tasks/delegate", s.delegateHandler.HandleDelegate)

	// agent catalog API
	mux.HandleFunc("/v1/agents", s.agentHandler.HandleAgents)
	mux.HandleFunc("/v1/agents/{id}", s.agentHandler.HandleAgentByID)
	mux.HandleFunc("/v1/agents/{id}/reserve", s.agentHandler.HandleReserve)
	mux.HandleFunc("/v1/agents/{id}/release", s.agentHandler.HandleRelease)

	// industry reference API
	mux.HandleFunc("/v1/reference", s.referenceHandler.HandleListIndustries)
	mux.HandleFunc("/v1/reference/{industry}", s.referenceHandler.HandleGetIndustry)

	// middleware chain
	skipAuthPaths := []string{"/health", "/ready", "/version", "/metrics"}
	rateLimiterCtx, rateLimiterCancel := context.WithCancel(context.Background())
	s.rateLimiterCancel = rateLimiterCancel

	middlewares := []Middleware{
		Recovery(s.logger),
		RequestID(),
		SecurityHeaders(),
		OTelTracing(),
		RequestLogger(s.logger),
		MetricsMiddleware(s.metricsCollector),
		CORS(s.cfg.Server.CORSAllowedOrigins),
	}
	if s.cfg.Server.RateLimitRPS > 0 {
		middlewares = append(middlewares,
			RateLimiter(rateLimiterCtx, s.cfg.Server.RateLimitRPS, s.cfg.Server.RateLimitBurst, s.logger))
	}
	if len(s.cfg.Server.APIKeys) > 0 {
		middlewares = append(middlewares,
			APIKeyAuth(s.cfg.Server.APIKeys, skipAuthPaths, s.logger))
	}
	handler := Chain(mux, middlewares...)

	serverConfig := server.Config{
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.HTTPPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.WriteTimeout,
		IdleTimeout:     s.cfg.Server.IdleTimeout,
		MaxHeaderBytes:  1 << 20,
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}

	s.httpManager = server.NewManager(handler, serverConfig, s.logger)

	if err := s.httpManager.Start(); err != nil {
		return err
	}

	s.logger.Info("HTTP server started", zap.Int("port", s.cfg.Server.HTTPPort))
	return nil
}

// =============================================================================
// metrics server
// =============================================================================

func (s *Server) startMetricsServer() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	serverConfig := server.Config{
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.MetricsPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.WriteTimeout,
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}

	s.metricsManager = server.NewManager(mux, serverConfig, s.logger)

	if err := s.metricsManager.Start(); err != nil {
		return err
	}

	s.logger.Info("Metrics server started", zap.Int("port", s.cfg.Server.MetricsPort))
	return nil
}

// =============================================================================
// shutdown
// =============================================================================

// WaitForShutdown blocks until a termination signal, then shuts down.
func (s *Server) WaitForShutdown() {
	if s.httpManager != nil {
		s.httpManager.WaitForShutdown()
	}

	s.Shutdown()
}

// Shutdown stops all components gracefully.
func (s *Server) Shutdown() {
	s.logger.Info("Starting graceful shutdown...")

	ctx := context.Background()

	if s.rateLimiterCancel != nil {
		s.rateLimiterCancel()
	}

	if s.watcher != nil {
		if err := s.watcher.Stop(); err != nil {
			s.logger.Error("File watcher shutdown error", zap.Error(err))
		}
	}

	if s.refresher != nil {
		if err := s.refresher.Stop(); err != nil {
			s.logger.Error("Catalog refresher shutdown error", zap.Error(err))
		}
	}
	if s.natsConn != nil {
		s.natsConn.Close()
	}

	// both listeners drain in parallel within the shutdown timeout
	var g errgroup.Group
	if s.httpManager != nil {
		g.Go(func() error { return s.httpManager.Shutdown(ctx) })
	}
	if s.metricsManager != nil {
		g.Go(func() error { return s.metricsManager.Shutdown(ctx) })
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("Server shutdown error", zap.Error(err))
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.logger.Error("Redis shutdown error", zap.Error(err))
		}
	}

	if s.otelProviders != nil {
		if err := s.otelProviders.Shutdown(ctx); err != nil {
			s.logger.Error("Telemetry shutdown error", zap.Error(err))
		}
	}

	s.wg.Wait()

	s.logger.Info("Graceful shutdown completed")
}
