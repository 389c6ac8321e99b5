package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dusk-indust/importgraph/internal/imports"
)

// DefaultGraphPath is where the graph database lives when nothing else is
// configured. Relative paths resolve against the working directory.
const DefaultGraphPath = ".importgraph/graph.kuzu"

// Environment variables consulted by ApplyEnv.
const (
	EnvGraphPath = "IMPORTGRAPH_DB_PATH"
	EnvWorkers   = "IMPORTGRAPH_WORKERS"
	EnvJSScanner = "IMPORTGRAPH_JS_SCANNER"
)

// Settings holds project-level settings loaded from importgraph.yml.
type Settings struct {
	GraphPath string   `yaml:"graphPath,omitempty"`
	Exclude   []string `yaml:"exclude,omitempty"`
	Workers   int      `yaml:"workers,omitempty"`
	JSScanner string   `yaml:"jsScanner,omitempty"`
}

// Load attempts to read importgraph.yml or importgraph.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists.
func Load(dir string) (*Settings, error) {
	for _, name := range []string{"importgraph.yml", "importgraph.yaml"} {
		cfg, err := LoadFile(filepath.Join(dir, name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return cfg, err
	}
	return &Settings{}, nil
}

// LoadFile reads an explicit config file. A missing file is an error.
func LoadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Settings
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadDotEnv loads .env from the working directory into the process
// environment. Variables already set win. A missing file is ignored.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// ApplyEnv overrides fields with any IMPORTGRAPH_* variables that are set.
func (s *Settings) ApplyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvGraphPath)); v != "" {
		s.GraphPath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvWorkers)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvWorkers, err)
		}
		s.Workers = n
	}
	if v := strings.TrimSpace(os.Getenv(EnvJSScanner)); v != "" {
		s.JSScanner = v
	}
	return nil
}

// Validate checks field values and fills defaults.
func (s *Settings) Validate() error {
	if s.GraphPath == "" {
		s.GraphPath = DefaultGraphPath
	}
	if s.Workers < 0 {
		return fmt.Errorf("config: workers must be >= 0, got %d", s.Workers)
	}
	if _, err := imports.ParseJSScanner(s.JSScanner); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Scanner returns the configured JS scanner mode. Call after Validate.
func (s *Settings) Scanner() imports.JSScanner {
	sc, _ := imports.ParseJSScanner(s.JSScanner)
	return sc
}
