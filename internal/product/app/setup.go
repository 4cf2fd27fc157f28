// Package app contains the application setup for the inventory service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/abgdnv/inventory/internal/config"
	"github.com/abgdnv/inventory/internal/product/events"
	"github.com/abgdnv/inventory/internal/product/service"
	"github.com/abgdnv/inventory/internal/product/store"
	grpcImpl "github.com/abgdnv/inventory/internal/product/transport/grpc"
	"github.com/abgdnv/inventory/internal/product/transport/rest"
	"github.com/abgdnv/inventory/pkg/messaging"
	"github.com/abgdnv/inventory/pkg/metrics"
	"github.com/abgdnv/inventory/pkg/server"
	"github.com/go-chi/chi/v5"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName names the service in logs, traces, metrics and env prefixes.
const ServiceName = "inventory"

// EventSubjects lists the subjects the product event stream must capture.
var EventSubjects = []string{events.SubjectPrefix + ">"}

type Dependencies struct {
	ProductService service.ProductService
	Metrics        *metrics.Metrics
	Logger         *slog.Logger
}

// HTTPOptions controls the optional parts of the HTTP surface.
type HTTPOptions struct {
	AllowedOrigins []string
	// MetricsPath is where the Prometheus registry is served. Empty disables it.
	MetricsPath string
}

// SetupDependencies builds the process-wide product store and the service on top of it.
func SetupDependencies(logger *slog.Logger, publisher messaging.Publisher, m *metrics.Metrics) *Dependencies {
	pService := service.NewService(
		store.NewInMemoryStore(),
		service.WithPublisher(publisher),
		service.WithRecorder(m),
		service.WithLogger(logger),
	)

	return &Dependencies{
		ProductService: pService,
		Metrics:        m,
		Logger:         logger,
	}
}

// SetupHttpHandler initializes the routes and middleware of the inventory API.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies, opts HTTPOptions) http.Handler {
	mux := server.NewChiRouter(deps.Logger,
		server.WithCORS(opts.AllowedOrigins),
		server.WithMiddleware(deps.Metrics.Middleware),
	)
	wireRoutes(mux, deps, opts)
	return server.Traced(mux, ServiceName+"-http")
}

// wireRoutes sets up the HTTP routes for the inventory service.
func wireRoutes(mux *chi.Mux, deps *Dependencies, opts HTTPOptions) {
	productHandler := rest.NewHandler(deps.ProductService, deps.Logger)
	productHandler.RegisterRoutes(mux)
	if opts.MetricsPath != "" {
		mux.Handle(opts.MetricsPath, deps.Metrics.Handler())
	}
}

// SetupHttpServer creates and configures an HTTP server for the inventory service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	opts := HTTPOptions{AllowedOrigins: cfg.CORS.AllowedOrigins}
	if cfg.Metrics.Enabled {
		opts.MetricsPath = cfg.Metrics.Path
	}
	mux := SetupHttpHandler(deps, opts)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}

// SetupGrpcServer initializes the gRPC server with the product and health services.
func SetupGrpcServer(deps *Dependencies, cfg *config.Config) (*grpc.Server, *health.Server) {
	healthServer := health.NewServer()
	// Service registration function for gRPC server
	productRegisterFunc := func(s *grpc.Server) {
		grpcImpl.RegisterProductServiceServer(s, grpcImpl.NewServer(deps.ProductService, deps.Logger))
		grpc_health_v1.RegisterHealthServer(s, healthServer)
	}
	grpcCfg := server.GRPCConfig{
		Reflection:     cfg.GRPC.ReflectionEnabled,
		RequestTimeout: cfg.GRPC.RequestTimeout,
	}
	grpcServer := server.NewGRPCServer(grpcCfg, productRegisterFunc)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(grpcImpl.ProductServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	return grpcServer, healthServer
}
