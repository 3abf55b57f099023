package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/prosperva/gridstate/internal/api/http"
	"github.com/prosperva/gridstate/internal/api/middleware"
	"github.com/prosperva/gridstate/internal/api/ws"
	"github.com/prosperva/gridstate/internal/domain/preset"
	"github.com/prosperva/gridstate/internal/domain/session"
	"github.com/prosperva/gridstate/internal/infrastructure/config"
	"github.com/prosperva/gridstate/internal/infrastructure/logging"
	"github.com/prosperva/gridstate/internal/infrastructure/monitoring"
	"github.com/prosperva/gridstate/internal/infrastructure/persistence"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	sessions *session.Manager
	presets  *preset.Registry
	hub      *ws.Hub
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
	stopGC   chan struct{}
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	logger.Info("Initializing gridstate server",
		zap.String("port", cfg.Server.Port),
		zap.String("state_dir", cfg.Storage.Dir),
		zap.Bool("persistence", cfg.Storage.Enabled),
	)

	metrics := monitoring.NewMetrics()

	// Load view presets
	registry := preset.NewRegistry()
	seeder := preset.NewSeeder(registry, cfg.Presets.Dir, logger)
	if err := seeder.Seed(); err != nil {
		logger.Warn("Failed to seed view presets", zap.Error(err))
	}

	hub := ws.NewHub(logger).WithMetrics(metrics)

	// Persistence is per session: one file per session id, or a throwaway
	// in-memory adapter when persistence is disabled.
	var adapters session.AdapterFactory
	if cfg.Storage.Enabled {
		adapters = func(sessionID string) persistence.Adapter {
			return persistence.NewFileAdapter(cfg.Storage.Dir, sessionID)
		}
	} else {
		adapters = func(string) persistence.Adapter {
			return persistence.NewMemory()
		}
	}

	sessions := session.NewManager(adapters, logger).
		WithDefaults(registry.DefaultState).
		WithMetrics(metrics).
		WithEvents(hub)

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
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

	// Create handlers
	handlers := http.NewHandlers(sessions, registry, logger)

	// Register routes
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// Session lifecycle
	router.POST("/sessions", handlers.CreateSession)
	router.GET("/sessions", handlers.ListSessions)
	router.GET("/sessions/:id", handlers.GetSession)
	router.POST("/sessions/:id/end", handlers.EndSession)

	// Grid state
	router.GET("/sessions/:id/grids/:gridId", handlers.GetGridState)
	router.PATCH("/sessions/:id/grids/:gridId", handlers.UpdateGridState)
	router.PUT("/sessions/:id/grids/:gridId", handlers.SetGridState)

	// Navigation history
	router.POST("/sessions/:id/navigation", handlers.PushNavigation)
	router.POST("/sessions/:id/navigation/pop", handlers.PopNavigation)
	router.DELETE("/sessions/:id/navigation", handlers.ClearNavigation)
	router.POST("/sessions/:id/navigation/prune", handlers.PruneNavigation)

	// View presets
	router.GET("/presets", handlers.ListPresets)
	router.GET("/presets/:gridId", handlers.GetPreset)

	// WebSocket
	router.GET("/stream", hub.HandleConnection)

	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s := &Server{
		router:   router,
		sessions: sessions,
		presets:  registry,
		hub:      hub,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
		stopGC:   make(chan struct{}),
	}
	s.startEviction()

	logger.Info("Server initialized successfully")
	return s, nil
}

// Run starts the HTTP server
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")
	close(s.stopGC)
	s.logger.Sync()
	return nil
}

// startEviction drops in-memory stores for idle sessions on a timer.
// Persisted payloads survive eviction, so this never loses state.
func (s *Server) startEviction() {
	tick := s.config.History.EvictTick
	if tick <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(tick)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sessions.EvictIdle(s.config.History.SessionIdle)
			case <-s.stopGC:
				return
			}
		}
	}()
}
