package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newQueryCmd(global *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Look up imports recorded in the graph",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "modules <file>",
		Short: "List the modules a file imports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveSettings(cmd, global, "")
			if err != nil {
				return err
			}
			store, err := openExistingStore(cfg.GraphPath)
			if err != nil {
				return err
			}
			defer store.Close()

			mods, err := store.ModulesOf(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, m := range mods {
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "importers <module>",
		Short: "List the files that import a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveSettings(cmd, global, "")
			if err != nil {
				return err
			}
			store, err := openExistingStore(cfg.GraphPath)
			if err != nil {
				return err
			}
			defer store.Close()

			files, err := store.ImportersOf(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	})

	return cmd
}

func newStatsCmd(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print node and edge counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveSettings(cmd, global, "")
			if err != nil {
				return err
			}
			store, err := openExistingStore(cfg.GraphPath)
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "files:   %d\nmodules: %d\nimports: %d\n",
				stats.FileCount, stats.ModuleCount, stats.EdgeCount)
			return nil
		},
	}
}
