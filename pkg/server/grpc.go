// Package server builds the HTTP and gRPC servers shared by the service.
package server

import (
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
)

// GRPCConfig has the configuration for the gRPC server.
type GRPCConfig struct {
	Reflection bool
	// RequestTimeout bounds each unary call. Zero disables the bound.
	RequestTimeout time.Duration
}

// RegistrationFunc registers a grpc service with the server.
type RegistrationFunc func(*grpc.Server)

// NewGRPCServer creates a new gRPC server instance with tracing, optional reflection and service registration.
func NewGRPCServer(cfg GRPCConfig, registerFunc ...RegistrationFunc) *grpc.Server {
	opts := []grpc.ServerOption{grpc.StatsHandler(otelgrpc.NewServerHandler())}
	if cfg.RequestTimeout > 0 {
		opts = append(opts, grpc.ChainUnaryInterceptor(UnaryTimeoutInterceptor(cfg.RequestTimeout)))
	}
	grpcServer := grpc.NewServer(opts...)

	if cfg.Reflection {
		reflection.Register(grpcServer)
	}

	for _, regFunc := range registerFunc {
		regFunc(grpcServer)
	}

	return grpcServer
}
