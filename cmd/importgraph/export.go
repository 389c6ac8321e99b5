package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/importgraph/internal/export"
)

func newExportCmd(global *globalFlags) *cobra.Command {
	var format, outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the graph as JSON or a Mermaid diagram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "json" && format != "mermaid" {
				return fmt.Errorf("unknown format %q (want json or mermaid)", format)
			}
			cfg, err := resolveSettings(cmd, global, "")
			if err != nil {
				return err
			}
			store, err := openExistingStore(cfg.GraphPath)
			if err != nil {
				return err
			}
			defer store.Close()

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			ctx := cmd.Context()
			if format == "mermaid" {
				diagram, err := export.GenerateMermaid(ctx, store)
				if err != nil {
					return err
				}
				_, err = io.WriteString(w, diagram)
				return err
			}

			data, err := export.ExportGraph(ctx, store)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			return export.WriteJSON(w, data)
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "output format: json or mermaid")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write to a file instead of stdout")
	return cmd
}
