package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"swapRoute/internal/model"
)

const apiVersion = "v1"

// RouteFinder is the read-only routing surface served over HTTP.
type RouteFinder interface {
	FindRoute(ctx context.Context, req model.RouteRequest) (*model.RouteResult, error)
	DescribeRoute(route *model.RouteResult) string
}

// Defaults fill request fields the caller leaves out.
type Defaults struct {
	SlippageBps int
	MaxHops     int
	Timeout     time.Duration
}

// Server exposes quotes, health and metrics.
type Server struct {
	finder   RouteFinder
	defaults Defaults
	logger   *zap.Logger
	engine   *gin.Engine
}

func NewServer(finder RouteFinder, defaults Defaults, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{finder: finder, defaults: defaults, logger: logger}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(metricsMiddleware())
	r.Use(loggingMiddleware(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("api").Group(apiVersion)
	api.GET("/quote", s.getQuote)

	s.engine = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server started", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("failed to stop http server", zap.Error(err))
		return err
	}
	s.logger.Info("http server stopped gracefully")
	return nil
}
