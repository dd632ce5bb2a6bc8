package admin

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/vyrodovalexey/routeregistry/internal/health"
	"github.com/vyrodovalexey/routeregistry/internal/observability"
	"github.com/vyrodovalexey/routeregistry/internal/registry"
	"github.com/vyrodovalexey/routeregistry/internal/route"
	"github.com/vyrodovalexey/routeregistry/internal/routetable"
)

// ginModeOnce ensures gin.SetMode is only called once.
var ginModeOnce sync.Once

// RouteTable is the read-side view served under /table and refreshed
// through POST /refresh.
type RouteTable interface {
	Refresh(ctx context.Context) *routetable.Snapshot
	Snapshot() *routetable.Snapshot
	Lookup(id string) (route.Definition, bool)
}

// ServerConfig holds configuration for the admin HTTP server.
type ServerConfig struct {
	Address        string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	// MaxRequestBodySize limits request bodies in bytes. Zero disables
	// the limit.
	MaxRequestBodySize int64
	MetricsPath        string
}

// DefaultServerConfig returns a ServerConfig with default values.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:               8081,
		ReadTimeout:        15 * time.Second,
		WriteTimeout:       15 * time.Second,
		IdleTimeout:        60 * time.Second,
		MaxHeaderBytes:     1 << 20,
		MaxRequestBodySize: 1 << 20,
		MetricsPath:        "/metrics",
	}
}

// Server is the admin HTTP server.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	config     ServerConfig
	repo       registry.Repository
	table      RouteTable
	checker    *health.Checker
	logger     observability.Logger
	metrics    *observability.Metrics
	tracer     *observability.Tracer
	limiter    *rate.Limiter
	mu         sync.RWMutex
	running    bool
}

// Option is a functional option for configuring Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger observability.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics enables request metrics and the metrics endpoint.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(s *Server) {
		s.metrics = metrics
	}
}

// WithTracer sets the tracer used for request spans.
func WithTracer(tracer *observability.Tracer) Option {
	return func(s *Server) {
		s.tracer = tracer
	}
}

// WithRateLimit limits the API to rps requests per second with the given
// burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithHealthChecker mounts the health endpoints of checker.
func WithHealthChecker(checker *health.Checker) Option {
	return func(s *Server) {
		s.checker = checker
	}
}

// WithRouteTable enables POST /refresh and the /table endpoints.
func WithRouteTable(table RouteTable) Option {
	return func(s *Server) {
		s.table = table
	}
}

// NewServer creates the admin server for repo.
func NewServer(cfg ServerConfig, repo registry.Repository, opts ...Option) *Server {
	ginModeOnce.Do(func() {
		gin.SetMode(gin.ReleaseMode)
	})

	s := &Server{
		config: cfg,
		repo:   repo,
		logger: observability.NopLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.tracer == nil {
		s.tracer = observability.NoopTracer()
	}
	if s.config.MetricsPath == "" {
		s.config.MetricsPath = DefaultServerConfig().MetricsPath
	}

	s.engine = s.buildEngine()
	return s
}

func (s *Server) buildEngine() *gin.Engine {
	engine := gin.New()

	engine.Use(
		recovery(s.logger),
		requestID(),
		tracing(s.tracer),
		logging(s.logger),
	)
	if s.metrics != nil {
		engine.Use(requestMetrics(s.metrics))
	}
	if s.config.MaxRequestBodySize > 0 {
		engine.Use(maxBodySize(s.config.MaxRequestBodySize))
	}

	if s.checker != nil {
		s.checker.Register(engine)
	}
	if s.metrics != nil {
		engine.GET(s.config.MetricsPath, gin.WrapH(s.metrics.Handler()))
	}

	api := engine.Group("/")
	if s.limiter != nil {
		api.Use(rateLimit(s.limiter, s.metrics, s.logger))
	}

	h := &handlers{repo: s.repo, table: s.table, logger: s.logger}
	api.GET("/routes", h.listRoutes)
	api.GET("/routes/:id", h.getRoute)
	api.POST("/routes/:id", h.saveRoute)
	api.DELETE("/routes/:id", h.deleteRoute)
	api.POST("/refresh", h.refresh)
	api.GET("/table", h.getTable)
	api.GET("/table/:id", h.getTableRoute)

	return engine
}

// Handler returns the HTTP handler serving the admin API.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start listens on the configured address and serves until Stop. It
// returns once the listener fails or the server is shut down.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Address, strconv.Itoa(s.config.Port))

	listener, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	return s.Serve(listener)
}

// Serve accepts connections on listener.
func (s *Server) Serve(listener net.Listener) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		_ = listener.Close()
		return errors.New("admin server already running")
	}
	s.httpServer = &http.Server{
		Handler:        s.engine,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}
	s.running = true
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("starting admin server",
		observability.String("address", listener.Addr().String()),
	)

	err := srv.Serve(listener)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return fmt.Errorf("admin server error: %w", err)
	}
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("stopping admin server")

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown admin server: %w", err)
	}

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	s.logger.Info("admin server stopped")
	return nil
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}
