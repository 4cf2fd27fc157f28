package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/abgdnv/inventory/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// HTTPConfig has the configuration for the HTTP server.
type HTTPConfig struct {
	Port           int
	MaxHeaderBytes int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	ReadHeader     time.Duration
}

// NewHTTPServer creates and configures a new HTTP server instance.
func NewHTTPServer(cfg HTTPConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: cfg.ReadHeader,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
}

// RouterOption adds middleware to the router built by NewChiRouter.
type RouterOption func(*chi.Mux)

// WithCORS allows credentialed browser requests from the given origins.
func WithCORS(origins []string) RouterOption {
	return func(mux *chi.Mux) {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", web.RequestIDHeader, "X-Requested-With"},
			ExposedHeaders:   []string{web.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
}

// WithMiddleware appends arbitrary middleware after the defaults.
func WithMiddleware(middlewares ...func(http.Handler) http.Handler) RouterOption {
	return func(mux *chi.Mux) {
		mux.Use(middlewares...)
	}
}

// NewChiRouter creates a new Chi router with a set of
// middleware for request ID injection, structured logging, and recovery.
func NewChiRouter(logger *slog.Logger, opts ...RouterOption) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(web.RequestIDInjector)
	mux.Use(web.StructuredLogger(logger))
	mux.Use(web.Recoverer(logger))
	for _, opt := range opts {
		opt(mux)
	}
	return mux
}

// Traced wraps the handler so every request runs inside a server span.
func Traced(handler http.Handler, operation string) http.Handler {
	return otelhttp.NewHandler(handler, operation)
}
