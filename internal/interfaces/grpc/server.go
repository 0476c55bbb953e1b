// Package grpc serves the parse API over gRPC.  The server owns the listener,
// the interceptor chain and the standard health service; RPC implementations
// live in the services subpackage.
package grpc

import (
	"context"
	"fmt"
	"net"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/turtacn/smiles-parser/internal/config"
	"github.com/turtacn/smiles-parser/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/smiles-parser/internal/infrastructure/monitoring/prometheus"
)

const (
	defaultMaxRecvMsgSize  = 4 << 20
	defaultGracefulTimeout = 10 * time.Second

	// MetadataRequestID is the metadata key carrying the request identifier.
	MetadataRequestID = "x-request-id"
)

var defaultKeepaliveParams = keepalive.ServerParameters{
	MaxConnectionIdle:     15 * time.Minute,
	MaxConnectionAge:      30 * time.Minute,
	MaxConnectionAgeGrace: 5 * time.Second,
	Time:                  5 * time.Minute,
	Timeout:               time.Second,
}

var defaultKeepalivePolicy = keepalive.EnforcementPolicy{
	MinTime:             5 * time.Second,
	PermitWithoutStream: true,
}

// Option configures the Server.
type Option func(*serverOptions)

type serverOptions struct {
	logger   logging.Logger
	metrics  *prometheus.ParserMetrics
	listener net.Listener
}

// WithLogger sets the server logger.
func WithLogger(l logging.Logger) Option {
	return func(o *serverOptions) { o.logger = l }
}

// WithMetrics records per-RPC metrics.
func WithMetrics(m *prometheus.ParserMetrics) Option {
	return func(o *serverOptions) { o.metrics = m }
}

// WithListener serves on ln instead of binding cfg.Address().
func WithListener(ln net.Listener) Option {
	return func(o *serverOptions) { o.listener = ln }
}

// Server wraps a grpc.Server with health reporting and graceful shutdown.
type Server struct {
	grpcServer      *grpc.Server
	listener        net.Listener
	healthServer    *health.Server
	logger          logging.Logger
	gracefulTimeout time.Duration

	mu      sync.Mutex
	started bool
	stopped bool
}

// NewServer binds the listener and assembles the interceptor chain:
// recovery, request ID and logging, metrics.
func NewServer(cfg config.GRPCConfig, opts ...Option) (*Server, error) {
	sopts := &serverOptions{}
	for _, o := range opts {
		o(sopts)
	}
	if sopts.logger == nil {
		sopts.logger = logging.NewNopLogger()
	}
	logger := sopts.logger.Named("grpc")

	lis := sopts.listener
	if lis == nil {
		var err error
		lis, err = net.Listen("tcp", cfg.Address())
		if err != nil {
			return nil, fmt.Errorf("failed to listen on %s: %w", cfg.Address(), err)
		}
	}

	maxRecv := cfg.MaxRecvMsgSize
	if maxRecv <= 0 {
		maxRecv = defaultMaxRecvMsgSize
	}
	graceful := cfg.GracefulTimeout
	if graceful <= 0 {
		graceful = defaultGracefulTimeout
	}

	gs := grpc.NewServer(
		grpc.MaxRecvMsgSize(maxRecv),
		grpc.KeepaliveParams(defaultKeepaliveParams),
		grpc.KeepaliveEnforcementPolicy(defaultKeepalivePolicy),
		grpc.ChainUnaryInterceptor(
			recoveryUnaryInterceptor(logger),
			loggingUnaryInterceptor(logger),
			metricsUnaryInterceptor(sopts.metrics),
		),
		grpc.ChainStreamInterceptor(recoveryStreamInterceptor(logger)),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	if cfg.Reflection {
		reflection.Register(gs)
		logger.Info("grpc reflection service registered")
	}

	return &Server{
		grpcServer:      gs,
		listener:        lis,
		healthServer:    hs,
		logger:          logger,
		gracefulTimeout: graceful,
	}, nil
}

// RegisterService registers impl and marks it SERVING.  Call before Start.
func (s *Server) RegisterService(desc *grpc.ServiceDesc, impl interface{}) {
	s.grpcServer.RegisterService(desc, impl)
	s.healthServer.SetServingStatus(desc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	s.logger.Info("grpc service registered", logging.String("service", desc.ServiceName))
}

// Start serves until Stop.  It returns nil once stopped, including when Stop
// ran first.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("server already started")
	}
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.mu.Unlock()

	s.logger.Info("grpc server starting", logging.String("address", s.Addr()))
	if err := s.grpcServer.Serve(s.listener); err != nil && err != grpc.ErrServerStopped {
		return err
	}
	return nil
}

// Stop drains in-flight RPCs, forcing the stop once the graceful period or
// ctx runs out.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	started := s.started
	s.stopped = true
	s.mu.Unlock()
	if !started {
		return s.listener.Close()
	}

	s.logger.Info("grpc server stopping")
	s.healthServer.Shutdown()

	gracefulCtx, cancel := context.WithTimeout(ctx, s.gracefulTimeout)
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		s.logger.Info("grpc server stopped gracefully")
	case <-gracefulCtx.Done():
		s.logger.Warn("grpc graceful stop timed out, forcing stop")
		s.grpcServer.Stop()
	}
	return nil
}

// Addr returns the listening address, useful with port 0.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// ---------------------------------------------------------------------------
// Interceptors
// ---------------------------------------------------------------------------

func recoveryUnaryInterceptor(logger logging.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("grpc panic recovered",
					logging.String("method", info.FullMethod),
					logging.String("panic", fmt.Sprintf("%v", r)),
					logging.String("stack", string(debug.Stack())),
				)
				err = status.Errorf(codes.Internal, "internal server error")
			}
		}()
		return handler(ctx, req)
	}
}

func recoveryStreamInterceptor(logger logging.Logger) grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("grpc stream panic recovered",
					logging.String("method", info.FullMethod),
					logging.String("panic", fmt.Sprintf("%v", r)),
				)
				err = status.Errorf(codes.Internal, "internal server error")
			}
		}()
		return handler(srv, ss)
	}
}

func isHealthCheck(method string) bool {
	return strings.HasPrefix(method, "/grpc.health.v1.Health/")
}

// requestID returns the caller's x-request-id or a fresh UUID.
func requestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(MetadataRequestID); len(ids) > 0 && ids[0] != "" && len(ids[0]) <= 128 {
			return ids[0]
		}
	}
	return uuid.New().String()
}

// loggingUnaryInterceptor tags the context with a request ID and a request
// scoped logger, echoes the ID in the response header and logs the outcome.
func loggingUnaryInterceptor(logger logging.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if isHealthCheck(info.FullMethod) {
			return handler(ctx, req)
		}

		id := requestID(ctx)
		_ = grpc.SetHeader(ctx, metadata.Pairs(MetadataRequestID, id))
		reqLogger := logger.With(logging.String(logging.FieldRequestID, id))
		ctx = logging.WithContext(logging.WithRequestID(ctx, id), reqLogger)

		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)

		fields := []logging.Field{
			logging.String("method", info.FullMethod),
			logging.Float64(logging.FieldDuration, float64(time.Since(start).Microseconds())/1000),
			logging.String("code", code.String()),
		}
		switch code {
		case codes.OK, codes.InvalidArgument, codes.ResourceExhausted, codes.Canceled:
			reqLogger.Info("grpc request", fields...)
		default:
			reqLogger.Error("grpc request", append(fields, logging.Err(err))...)
		}
		return resp, err
	}
}

func metricsUnaryInterceptor(m *prometheus.ParserMetrics) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if m == nil {
			return handler(ctx, req)
		}
		start := time.Now()
		resp, err := handler(ctx, req)
		service, method := splitMethodName(info.FullMethod)
		prometheus.RecordGRPCRequest(m, service, method, status.Code(err).String(), time.Since(start))
		return resp, err
	}
}

// splitMethodName splits "/package.Service/Method" into its two parts.
func splitMethodName(fullMethod string) (string, string) {
	fullMethod = strings.TrimPrefix(fullMethod, "/")
	idx := strings.LastIndex(fullMethod, "/")
	if idx < 0 {
		return "unknown", fullMethod
	}
	return fullMethod[:idx], fullMethod[idx+1:]
}

//Personal.AI order the ending
