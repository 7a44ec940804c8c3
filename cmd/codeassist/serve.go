package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/velloreakash21/multi-agent-code-assistant/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve the assistant over HTTP.

Endpoints:
  POST /v1/ask    {"query": "...", "history": [...]}
  GET  /healthz
  GET  /metrics   Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		a, err := newAssistant(ctx, cfg, logger, true)
		if err != nil {
			return err
		}
		defer a.Close(context.Background())

		logger.Info("serving", "addr", addr, "db", a.store.Path())
		return server.Start(ctx, addr, server.Handler(a.orch, a.registry, logger))
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config server.addr)")
}
