package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/importgraph/internal/mcptools"
)

func newServeCmd(global *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the graph over MCP (streamable HTTP) with /metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveSettings(cmd, global, "")
			if err != nil {
				return err
			}
			store, err := openStore(cfg.GraphPath)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc := mcptools.NewImportGraphService(store, cfg.Workers, nil)
			return mcptools.RunMCPServer(ctx, svc, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8765", "listen address")
	cmd.Flags().Int("workers", 0, "files processed in parallel per scan")
	return cmd
}
