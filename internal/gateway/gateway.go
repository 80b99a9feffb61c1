package gateway

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/monetaflow/wallet_backend/internal/middleware"
	"github.com/monetaflow/wallet_backend/internal/platform/config"
)

// Server is the public entry point in front of the wallet. It forwards
// /api/* to the backend and everything else to the frontend. Paths are
// forwarded verbatim; the backend mounts its routes under /api itself.
type Server struct {
	engine *gin.Engine
	logger *slog.Logger
}

// New builds a gateway from the configured upstream URLs.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	backendURL, err := url.Parse(cfg.BackendURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL %q: %w", cfg.BackendURL, err)
	}
	frontendURL, err := url.Parse(cfg.FrontendURL)
	if err != nil {
		return nil, fmt.Errorf("invalid frontend URL %q: %w", cfg.FrontendURL, err)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		return nil, err
	}

	s := &Server{engine: r, logger: logger}

	backendProxy := s.newProxy(backendURL)
	frontendProxy := s.newProxy(frontendURL)

	// The gateway answers its own health check; upstream health is not probed.
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	r.Any("/api/*path", gin.WrapH(backendProxy))
	r.NoRoute(gin.WrapH(frontendProxy))

	return s, nil
}

// Handler exposes the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the gateway on the given address and blocks.
func (s *Server) Run(addr string) error {
	s.logger.Info("Gateway starting", slog.String("addr", addr))
	return s.engine.Run(addr)
}

// newProxy builds a single-host reverse proxy that answers 502 with a JSON
// body when the upstream cannot be reached.
func (s *Server) newProxy(target *url.URL) *httputil.ReverseProxy {
	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		s.logger.Error("Upstream request failed",
			slog.String("upstream", target.String()),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"upstream unavailable"}`))
	}
	return proxy
}
