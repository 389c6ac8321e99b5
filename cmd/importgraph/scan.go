package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/importgraph/internal/scan"
	"github.com/dusk-indust/importgraph/internal/source"
)

type scanFlags struct {
	Root      string
	RepoURL   string
	Branch    string
	KeepClone bool
	JSON      bool
}

func newScanCmd(global *globalFlags) *cobra.Command {
	var flags scanFlags

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a directory or git repository into the graph",
		Example: `  importgraph scan --root ./myproject
  importgraph scan --repo https://github.com/psf/requests --branch main --db /tmp/requests.kuzu`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.RepoURL != "" && cmd.Flags().Changed("root") {
				return errors.New("--root and --repo are mutually exclusive")
			}
			return runScan(cmd, global, &flags)
		},
	}

	cmd.Flags().StringVar(&flags.Root, "root", ".", "directory to scan")
	cmd.Flags().StringVar(&flags.RepoURL, "repo", "", "git URL to clone and scan")
	cmd.Flags().StringVar(&flags.Branch, "branch", "main", "branch to check out with --repo")
	cmd.Flags().BoolVar(&flags.KeepClone, "keep-clone", false, "keep the cloned working tree after the scan")
	cmd.Flags().BoolVar(&flags.JSON, "json", false, "print the run report as JSON")
	cmd.Flags().Int("workers", 0, "files processed in parallel (default: number of CPUs)")
	cmd.Flags().String("js-scanner", "", "JavaScript/TypeScript import detection: lexical or grammar")
	cmd.Flags().StringSlice("exclude", nil, "glob pattern to skip, repeatable")
	return cmd
}

func runScan(cmd *cobra.Command, global *globalFlags, flags *scanFlags) error {
	ctx := cmd.Context()
	root := flags.Root

	if flags.RepoURL != "" {
		co, err := source.Clone(ctx, flags.RepoURL, source.Options{Branch: flags.Branch, Depth: 1})
		if err != nil {
			return err
		}
		if flags.KeepClone {
			slog.Info("keeping clone", "dir", co.Dir)
		} else {
			defer func() {
				if err := co.Remove(); err != nil {
					slog.Warn("could not remove clone", "dir", co.Dir, "error", err)
				}
			}()
		}
		slog.Info("repository cloned", "url", flags.RepoURL, "branch", co.Branch, "dir", co.Dir)
		root = co.Dir
	}

	cfg, err := resolveSettings(cmd, global, root)
	if err != nil {
		return err
	}

	store, err := openStore(cfg.GraphPath)
	if err != nil {
		return err
	}
	defer store.Close()

	scanner := scan.NewScanner(store, scan.Options{
		Workers:   cfg.Workers,
		Exclude:   cfg.Exclude,
		JSScanner: cfg.Scanner(),
	})
	rep, err := scanner.Run(ctx, root)
	if err != nil {
		return err
	}

	if flags.JSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d files, %d modules, %d edges (%d parse failures)\n",
		rep.Stats.FileCount, rep.Stats.ModuleCount, rep.Stats.EdgeCount, len(rep.ParseFailures))
	return nil
}
