package cli

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nadzzz/talkboard/internal/config"
	"github.com/nadzzz/talkboard/internal/health"
	"github.com/nadzzz/talkboard/internal/transport"
	grpctransport "github.com/nadzzz/talkboard/internal/transport/grpc"
	httptransport "github.com/nadzzz/talkboard/internal/transport/http"
	mcptransport "github.com/nadzzz/talkboard/internal/transport/mcp"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the daemon with the configured transports",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	})
}

func enabledTransports(cfg config.TransportsConfig) []transport.Transport {
	var transports []transport.Transport
	if cfg.HTTP.Enabled {
		transports = append(transports, httptransport.New(cfg.HTTP.Port))
	}
	if cfg.GRPC.Enabled {
		transports = append(transports, grpctransport.New(cfg.GRPC.Port))
	}
	if cfg.MCP.Enabled {
		transports = append(transports, mcptransport.New())
	}
	return transports
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	slog.Info("talkboard starting", "version", Version)

	transports := enabledTransports(cfg.Transports)
	if len(transports) == 0 {
		return errors.New("no transports enabled, enable at least one in config")
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	go a.initOffline(ctx)

	svc := a.service()
	healthServer := health.New(cfg.Server.HealthPort, a.speech)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return healthServer.ListenAndServe(gctx) })
	for _, t := range transports {
		g.Go(func() error {
			slog.Info("starting transport", "name", t.Name())
			if err := t.Listen(gctx, svc); err != nil {
				slog.Error("transport failed", "name", t.Name(), "error", err)
				return err
			}
			return nil
		})
	}

	healthServer.SetReady(true)
	slog.Info("talkboard ready",
		"transports", len(transports),
		"health_port", cfg.Server.HealthPort)

	<-gctx.Done()
	slog.Info("shutdown signal received, draining...")
	healthServer.SetReady(false)
	for _, t := range transports {
		if err := t.Close(); err != nil {
			slog.Error("transport close error", "name", t.Name(), "error", err)
		}
	}

	err = g.Wait()
	slog.Info("talkboard stopped")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
