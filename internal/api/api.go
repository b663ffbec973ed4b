package api

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/unifi-search-tool/unifi-search/internal/config"
	"github.com/unifi-search-tool/unifi-search/internal/macaddr"
	"github.com/unifi-search-tool/unifi-search/internal/search"
	"github.com/unifi-search-tool/unifi-search/internal/worker"
)

const (
	stateIdle     = "idle"
	stateRunning  = "running"
	stateFinished = "finished"
)

// Searcher is the front-end side of the search worker. *worker.Worker
// satisfies it.
type Searcher interface {
	SubmitSearch(req *search.Request) error
	PollProgress() (float32, bool)
	PollResult() (search.Outcome, bool)
	RequestCancel()
	Pending() bool
}

// Server represents the HTTP API server.
type Server struct {
	config   config.ServerConfig
	metrics  config.MetricsConfig
	searcher Searcher
	gatherer prometheus.Gatherer
	logger   *zap.SugaredLogger
	router   *gin.Engine

	// view is the front end's copy of the search state, refreshed from the
	// worker on each request.
	mu   sync.Mutex
	view SearchStatus
}

// New creates a new API server.
func New(cfg config.ServerConfig, metricsCfg config.MetricsConfig, searcher Searcher, gatherer prometheus.Gatherer, logger *zap.SugaredLogger) *Server {
	mode := cfg.GinMode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)

	s := &Server{
		config:   cfg,
		metrics:  metricsCfg,
		searcher: searcher,
		gatherer: gatherer,
		logger:   logger,
		router:   gin.New(),
		view:     SearchStatus{State: stateIdle},
	}

	s.setupRoutes()
	return s
}

// Router returns the gin router.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) setupRoutes() {
	// Middleware
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	// Health endpoints
	s.router.GET("/health", s.healthHandler)
	s.router.GET("/ready", s.readyHandler)

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/search", s.startSearchHandler)
		v1.POST("/search/cancel", s.cancelSearchHandler)
		v1.GET("/search/status", s.searchStatusHandler)
	}

	if s.metrics.Enabled && s.gatherer != nil {
		s.router.GET(s.metrics.Path, gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		c.Next()

		s.logger.Debugw("Request completed",
			"path", path,
			"status", c.Writer.Status(),
			"method", c.Request.Method,
		)
	}
}

// Health check handler
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "unifi-search",
	})
}

// Readiness check handler
func (s *Server) readyHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"service": "unifi-search",
		"busy":    s.searcher.Pending(),
	})
}

func (s *Server) startSearchHandler(c *gin.Context) {
	var req SearchRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		req.wipe()
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "username, password, server_url and mac are required",
		})
		return
	}

	if len(req.Username) == 0 || len(req.Password) == 0 {
		req.wipe()
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "username and password are required",
		})
		return
	}

	if !macaddr.IsValidText([]byte(req.MAC)) {
		req.wipe()
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "mac must be six hex pairs separated by ':' or '-'",
		})
		return
	}

	sr := &search.Request{
		ID:                 uuid.NewString(),
		Username:           req.Username,
		Password:           req.Password,
		ServerURL:          req.ServerURL,
		TargetMAC:          req.MAC,
		AcceptInvalidCerts: req.AcceptInvalidCerts,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Collect a finished outcome nobody polled for so it does not block
	// the gate.
	s.refreshLocked()

	if err := s.searcher.SubmitSearch(sr); err != nil {
		sr.Wipe()

		if errors.Is(err, worker.ErrSearchInProgress) {
			c.JSON(http.StatusConflict, gin.H{
				"error":     err.Error(),
				"search_id": s.view.SearchID,
			})
			return
		}

		s.logger.Errorw("Failed to submit search", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	s.view = SearchStatus{State: stateRunning, SearchID: sr.ID}

	s.logger.Infow("Search submitted", "search_id", sr.ID, "server", sr.ServerURL, "target", sr.TargetMAC)

	c.JSON(http.StatusAccepted, SearchAccepted{
		SearchID: sr.ID,
		Status:   "accepted",
	})
}

func (s *Server) cancelSearchHandler(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refreshLocked()

	if s.view.State == stateRunning {
		s.searcher.RequestCancel()
		s.logger.Infow("Search cancel requested", "search_id", s.view.SearchID)
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":    "cancel_requested",
		"search_id": s.view.SearchID,
	})
}

func (s *Server) searchStatusHandler(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refreshLocked()

	c.JSON(http.StatusOK, s.view)
}

// refreshLocked pulls the latest progress and, if ready, the outcome from
// the worker. s.mu must be held.
func (s *Server) refreshLocked() {
	if s.view.State != stateRunning {
		return
	}

	s.drainProgressLocked()

	outcome, ok := s.searcher.PollResult()
	if !ok {
		return
	}

	// Final progress is published before the outcome.
	s.drainProgressLocked()

	s.view.State = stateFinished
	s.view.Outcome = &outcome
}

func (s *Server) drainProgressLocked() {
	for {
		p, ok := s.searcher.PollProgress()
		if !ok {
			return
		}

		s.view.Progress = p
	}
}
