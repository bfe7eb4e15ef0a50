package grpc

import (
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/bibbank/credit-module/pkg/auth"
	"github.com/bibbank/credit-module/pkg/tlsutil"
)

// ServerConfig controls transport security and introspection.
type ServerConfig struct {
	ServiceName string
	TLSCertFile string
	TLSKeyFile  string
	Reflection  bool
}

// Server wraps a gRPC server with the credit handler registered.
type Server struct {
	gs     *grpc.Server
	health *health.Server
	logger *slog.Logger
}

// NewServer creates and configures the gRPC server. Every CreditService call
// needs a bearer token; health checks do not.
func NewServer(cfg ServerConfig, handler CreditServiceServer, jwtService *auth.JWTService, logger *slog.Logger) (*Server, error) {
	authInterceptor := auth.UnaryAuthInterceptor(jwtService, []string{
		"/grpc.health.v1.Health/Check",
		"/grpc.health.v1.Health/Watch",
	})
	opts := []grpc.ServerOption{grpc.ChainUnaryInterceptor(authInterceptor)}

	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		creds, err := tlsutil.ServerTLSConfig(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			return nil, fmt.Errorf("load gRPC TLS credentials: %w", err)
		}
		opts = append(opts, grpc.Creds(creds))
		logger.Info("gRPC TLS enabled", "cert", cfg.TLSCertFile)
	} else {
		logger.Info("gRPC TLS not configured, running without TLS")
	}

	gs := grpc.NewServer(opts...)

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(gs, healthSrv)
	healthSrv.SetServingStatus(cfg.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthSrv.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)

	if cfg.Reflection {
		reflection.Register(gs)
	}

	RegisterCreditServiceServer(gs, handler)

	return &Server{gs: gs, health: healthSrv, logger: logger}, nil
}

// Serve starts the gRPC server on addr and blocks.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.ServeListener(lis)
}

// ServeListener serves on an existing listener.
func (s *Server) ServeListener(lis net.Listener) error {
	s.logger.Info("gRPC server listening", "addr", lis.Addr().String())
	return s.gs.Serve(lis)
}

// GracefulStop marks the service as not serving and drains in-flight calls.
func (s *Server) GracefulStop() {
	s.logger.Info("gRPC server shutting down")
	s.health.Shutdown()
	s.gs.GracefulStop()
}
