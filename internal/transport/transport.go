// Package transport defines the interface for the talkboard front doors.
//
// Each transport (HTTP/WebSocket, gRPC health, MCP stdio) implements this
// interface and exposes the same board and speech orchestrator. None of them
// hold state of their own.
package transport

import (
	"context"

	"github.com/nadzzz/talkboard/internal/board"
	"github.com/nadzzz/talkboard/internal/favorites"
	"github.com/nadzzz/talkboard/internal/orchestrator"
)

// Service is what every transport serves.
type Service struct {
	Board     *board.Board
	Speech    *orchestrator.Orchestrator
	Favorites *favorites.Store
	Version   string
}

// Transport is the interface that every transport adapter must implement.
type Transport interface {
	// Name returns the transport identifier (e.g., "http", "grpc", "mcp").
	Name() string

	// Listen starts serving svc. It blocks until the context is cancelled.
	Listen(ctx context.Context, svc *Service) error

	// Close gracefully shuts down the transport, draining in-flight work.
	Close() error
}
