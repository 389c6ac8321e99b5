package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/importgraph/internal/config"
)

// version is set by goreleaser at build time.
var version = "dev"

// globalFlags are shared by every subcommand.
type globalFlags struct {
	DBPath     string
	ConfigPath string
	Verbose    bool
}

func main() {
	config.LoadDotEnv()
	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:   "importgraph",
		Short: "Record which modules each source file imports in a graph database",
		Long: `importgraph walks a Python, JavaScript and TypeScript source tree, extracts
the top-level modules each file imports, and merges
(File)-[:IMPORTS]->(Module) facts into an embedded graph database.

Runs are idempotent: scanning the same tree twice leaves the graph unchanged.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			slog.SetDefault(newLogger(stderr, flags.Verbose))
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&flags.DBPath, "db", "", "graph database path (default "+config.DefaultGraphPath+")")
	root.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "config file (default: importgraph.yml in the scanned root)")
	root.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newScanCmd(&flags),
		newQueryCmd(&flags),
		newStatsCmd(&flags),
		newExportCmd(&flags),
		newServeCmd(&flags),
	)
	return root
}

// newLogger returns the text logger used by every subcommand.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
