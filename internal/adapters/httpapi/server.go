package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/mikey/mail-priority-sorter/internal/config"
	"github.com/mikey/mail-priority-sorter/internal/core"
	"github.com/mikey/mail-priority-sorter/internal/metrics"
	"go.uber.org/zap"
)

// ClassifyRequest is the body of a batch classification call
type ClassifyRequest struct {
	Emails []core.RawEmail `json:"emails"`
}

// IdentityRequest is the body used to add VIP or ignored senders
type IdentityRequest struct {
	Identity string `json:"identity"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server exposes the classifier and settings over HTTP
type Server struct {
	service    *core.PrioritySorterService
	logger     *zap.Logger
	cfg        config.APIConfig
	engine     *gin.Engine
	httpServer *http.Server
}

// NewServer creates the HTTP API and registers its routes
func NewServer(service *core.PrioritySorterService, logger *zap.Logger, cfg config.APIConfig) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		ginzap.Ginzap(logger, time.RFC3339, true),
		ginzap.RecoveryWithZap(logger, true),
	)

	s := &Server{
		service: service,
		logger:  logger,
		cfg:     cfg,
		engine:  engine,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := s.engine.Group("/api")
	api.POST("/classify", s.classifyBatch)
	api.POST("/classify/one", s.classifyOne)

	settings := api.Group("/settings")
	settings.GET("", s.getSettings)
	settings.PUT("", s.putSettings)
	settings.PATCH("", s.patchSettings)
	settings.POST("/reset", s.resetSettings)
	settings.POST("/vip", s.addVIP)
	settings.DELETE("/vip/*identity", s.removeVIP)
	settings.POST("/ignore", s.addIgnored)
	settings.DELETE("/ignore/*identity", s.removeIgnored)
	settings.POST("/rules", s.upsertRule)
	settings.DELETE("/rules/:id", s.deleteRule)
}

// Handler returns the underlying HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start starts serving in the background
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.ListenAddress,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("HTTP API starting", zap.String("address", s.cfg.ListenAddress))

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()
	return nil
}

// Stop gracefully shuts the server down
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// ProcessEmail classifies a single record
func (s *Server) ProcessEmail(ctx context.Context, email *core.RawEmail) (*core.ClassifiedEmail, error) {
	return s.service.ClassifyEmail(ctx, *email)
}

// ProcessBatch classifies a list of records
func (s *Server) ProcessBatch(ctx context.Context, emails []core.RawEmail) (*core.BatchResult, error) {
	return s.service.ClassifyBatch(ctx, emails)
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidRule), errors.Is(err, core.ErrInvalidIdentity):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrRuleNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrSorterDisabled):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func (s *Server) classifyBatch(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	result, err := s.ProcessBatch(c.Request.Context(), req.Emails)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) classifyOne(c *gin.Context) {
	var email core.RawEmail
	if err := c.ShouldBindJSON(&email); err != nil {
		badRequest(c, err)
		return
	}
	result, err := s.ProcessEmail(c.Request.Context(), &email)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) getSettings(c *gin.Context) {
	settings, err := s.service.LoadSettings(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (s *Server) putSettings(c *gin.Context) {
	settings := s.service.Defaults()
	if err := c.ShouldBindJSON(settings); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.service.SaveSettings(c.Request.Context(), settings); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (s *Server) patchSettings(c *gin.Context) {
	var patch core.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	s.respond(c)(s.service.UpdateSettings(c.Request.Context(), patch))
}

func (s *Server) resetSettings(c *gin.Context) {
	s.respond(c)(s.service.ResetSettings(c.Request.Context()))
}

func (s *Server) addVIP(c *gin.Context) {
	var req IdentityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s.respond(c)(s.service.AddVIP(c.Request.Context(), req.Identity))
}

// identityParam reads a catch-all identity, which may itself contain slashes
func identityParam(c *gin.Context) string {
	return strings.TrimPrefix(c.Param("identity"), "/")
}

func (s *Server) removeVIP(c *gin.Context) {
	s.respond(c)(s.service.RemoveVIP(c.Request.Context(), identityParam(c)))
}

func (s *Server) addIgnored(c *gin.Context) {
	var req IdentityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s.respond(c)(s.service.AddIgnored(c.Request.Context(), req.Identity))
}

func (s *Server) removeIgnored(c *gin.Context) {
	s.respond(c)(s.service.RemoveIgnored(c.Request.Context(), identityParam(c)))
}

func (s *Server) upsertRule(c *gin.Context) {
	var rule core.Rule
	if err := c.ShouldBindJSON(&rule); err != nil {
		badRequest(c, err)
		return
	}
	s.respond(c)(s.service.UpsertRule(c.Request.Context(), rule))
}

func (s *Server) deleteRule(c *gin.Context) {
	s.respond(c)(s.service.DeleteRule(c.Request.Context(), c.Param("id")))
}

// respond writes the settings returned by a mutation, or the error
func (s *Server) respond(c *gin.Context) func(*core.Settings, error) {
	return func(settings *core.Settings, err error) {
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, settings)
	}
}
