// internal/api/server.go
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"finops-assessment/internal/catalog"
	"finops-assessment/internal/common/logger"
	"finops-assessment/internal/models"
	"finops-assessment/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Service is what the HTTP API exposes of the assessment service.
type Service interface {
	StartAssessment(ctx context.Context, req service.StartRequest) (*models.Assessment, error)
	SubmitResponse(ctx context.Context, req service.SubmitRequest) (*service.Submission, error)
	CompleteAssessment(ctx context.Context, assessmentID string) (*service.Completion, error)
	GetResults(ctx context.Context, assessmentID string) (*models.Results, error)
	Progress(ctx context.Context, assessmentID string) (*models.Progress, error)
	BenchmarkFor(ctx context.Context, rawDomain, assessmentID string) (*models.Benchmark, error)
	Catalog() *catalog.Catalog
}

// HealthCheck reports whether one dependency is usable.
type HealthCheck func(ctx context.Context) error

type Server struct {
	echo    *echo.Echo
	service Service
	logger  logger.Logger
	address string
	checks  map[string]HealthCheck
}

func NewServer(address string, svc Service, log logger.Logger) *Server {
	s := &Server{
		echo:    echo.New(),
		service: svc,
		logger:  log.WithFields(map[string]interface{}{"component": "api"}),
		address: address,
		checks:  make(map[string]HealthCheck),
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.HTTPErrorHandler = s.handleError
	s.echo.Use(middleware.RequestID())
	s.echo.Use(middleware.Recover())
	s.echo.Use(s.requestLogger)
	s.routes()
	return s
}

// AddHealthCheck registers a dependency probed by GET /health.
func (s *Server) AddHealthCheck(name string, check HealthCheck) {
	s.checks[name] = check
}

func (s *Server) routes() {
	s.echo.GET("/health", s.health)
	s.echo.GET("/api/catalog", s.getCatalog)

	g := s.echo.Group("/api/assessments")
	g.POST("", s.startAssessment)
	g.POST("/:id/responses", s.submitResponse)
	g.POST("/:id/complete", s.completeAssessment)
	g.GET("/:id/results", s.getResults)
	g.GET("/:id/progress", s.getProgress)

	s.echo.GET("/api/benchmarks/:domain", s.getBenchmark)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start blocks serving until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("api server listening", map[string]interface{}{"address": s.address})
	if err := s.echo.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		s.logger.Debug("request served", map[string]interface{}{
			"method":     c.Request().Method,
			"path":       c.Path(),
			"status":     c.Response().Status,
			"durationMs": time.Since(start).Milliseconds(),
			"requestId":  c.Response().Header().Get(echo.HeaderXRequestID),
		})
		return nil
	}
}
