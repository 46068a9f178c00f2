// Package grpc implements the gRPC transport for talkboard.
//
// It serves the standard grpc.health.v1 service with one entry per speech
// backend, so supervisors and sidecars can tell an unusable voice from a dead
// process. Reflection is enabled for grpcurl and friends.
package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/nadzzz/talkboard/internal/transport"
	"github.com/nadzzz/talkboard/internal/tts"
)

// ServicePrefix names the per-backend health entries, e.g. "talkboard.tts.offline".
const ServicePrefix = "talkboard.tts."

// DefaultInterval is how often backend readiness is re-checked.
const DefaultInterval = 5 * time.Second

// Transport implements transport.Transport over gRPC.
type Transport struct {
	port     int
	interval time.Duration

	mu     sync.Mutex
	server *grpc.Server
	health *grpchealth.Server
}

// New creates a new gRPC transport on the given port.
func New(port int) *Transport {
	return &Transport{port: port, interval: DefaultInterval}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "grpc" }

// Listen starts the gRPC server. It blocks until the context is cancelled.
func (t *Transport) Listen(ctx context.Context, svc *transport.Service) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", t.port))
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	slog.Info("grpc transport listening", "port", t.port)
	return t.Serve(ctx, lis, svc)
}

// Serve runs the server on lis.
func (t *Transport) Serve(ctx context.Context, lis net.Listener, svc *transport.Service) error {
	server := grpc.NewServer(grpc.ChainUnaryInterceptor(loggingInterceptor))
	hs := grpchealth.NewServer()
	healthpb.RegisterHealthServer(server, hs)
	reflection.Register(server)

	t.mu.Lock()
	t.server, t.health = server, hs
	t.mu.Unlock()

	report(hs, svc)
	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				slog.Info("grpc transport shutting down")
				hs.Shutdown()
				server.GracefulStop()
				return
			case <-ticker.C:
				report(hs, svc)
			}
		}
	}()

	return server.Serve(lis)
}

// report publishes backend readiness. The overall service ("") is serving
// while at least one backend can speak.
func report(hs *grpchealth.Server, svc *transport.Service) {
	ready := svc.Speech.BackendsReady()
	serving := false
	for _, kind := range []tts.Kind{tts.KindOffline, tts.KindNative} {
		status := healthpb.HealthCheckResponse_NOT_SERVING
		if ready[kind] {
			status = healthpb.HealthCheckResponse_SERVING
			serving = true
		}
		hs.SetServingStatus(ServicePrefix+string(kind), status)
	}
	overall := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		overall = healthpb.HealthCheckResponse_SERVING
	}
	hs.SetServingStatus("", overall)
}

func loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	slog.Debug("grpc request", "method", info.FullMethod, "duration", time.Since(start), "error", err)
	return resp, err
}

// Close gracefully stops the gRPC server.
func (t *Transport) Close() error {
	t.mu.Lock()
	server, hs := t.server, t.health
	t.mu.Unlock()
	if server != nil {
		hs.Shutdown()
		server.GracefulStop()
	}
	return nil
}
