package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/importgraph/internal/config"
)

// resolveSettings layers configuration: project or explicit config file,
// then IMPORTGRAPH_* environment, then flags the user actually set.
func resolveSettings(cmd *cobra.Command, flags *globalFlags, projectRoot string) (*config.Settings, error) {
	var (
		cfg *config.Settings
		err error
	)
	switch {
	case flags.ConfigPath != "":
		cfg, err = config.LoadFile(flags.ConfigPath)
	case projectRoot != "":
		cfg, err = config.Load(projectRoot)
	default:
		cfg = &config.Settings{}
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if flags.DBPath != "" {
		cfg.GraphPath = flags.DBPath
	}
	fs := cmd.Flags()
	if fs.Lookup("workers") != nil && fs.Changed("workers") {
		cfg.Workers, _ = fs.GetInt("workers")
	}
	if fs.Lookup("js-scanner") != nil && fs.Changed("js-scanner") {
		cfg.JSScanner, _ = fs.GetString("js-scanner")
	}
	if fs.Lookup("exclude") != nil && fs.Changed("exclude") {
		extra, _ := fs.GetStringSlice("exclude")
		cfg.Exclude = append(cfg.Exclude, extra...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
