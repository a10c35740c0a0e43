// Package grpc serves the mirror service: clients push and pull their
// snapshot document over gRPC, authenticated by a JWT access token.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/mapkeeper/internal/logging"
	"github.com/dmitrijs2005/mapkeeper/internal/mirrorrpc"
	"google.golang.org/grpc"
)

type snapshotService interface {
	Push(ctx context.Context, clientID string, document []byte) error
	Pull(ctx context.Context, clientID string) ([]byte, error)
}

type GRPCServer struct {
	address   string
	snapshots snapshotService
	logger    logging.Logger
	jwtSecret []byte
	metrics   *Metrics
}

// NewGRPCServer builds the mirror server. metrics may be nil.
func NewGRPCServer(a string, l logging.Logger, s snapshotService, secretKey string, m *Metrics) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		snapshots: s,
		jwtSecret: []byte(secretKey),
		metrics:   m,
	}
}

// newServer creates the gRPC server with interceptors and the mirror
// service registered. Metrics wrap authentication so rejected calls are
// counted too.
func (s *GRPCServer) newServer(opts ...grpc.ServerOption) *grpc.Server {
	interceptors := []grpc.UnaryServerInterceptor{}
	if s.metrics != nil {
		interceptors = append(interceptors, s.metrics.interceptor)
	}
	interceptors = append(interceptors, s.accessTokenInterceptor)

	opts = append(opts, grpc.ChainUnaryInterceptor(interceptors...))
	srv := grpc.NewServer(opts...)
	mirrorrpc.RegisterServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
