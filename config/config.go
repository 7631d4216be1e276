package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/groupsmith/syndicate/core/metrics"
	"github.com/groupsmith/syndicate/core/roster"
)

type Config struct {
	Input   InputConfig    `json:"input"`
	Output  OutputConfig   `json:"output"`
	Roster  roster.Config  `json:"roster"`
	Solver  SolverConfig   `json:"solver"`
	Metrics metrics.Config `json:"metrics"`
}

// InputConfig locates the cohort data.
type InputConfig struct {
	// Students is the path of the student roster CSV.
	Students string `json:"students"`
}

// OutputConfig locates the result tables. Empty paths write to stdout.
type OutputConfig struct {
	// Assignments is the path of the per-student assignment CSV.
	Assignments string `json:"assignments"`
	// Summary is the path of the per-group summary CSV.
	Summary string `json:"summary"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides. The callback rewrites "__" to the
	// koanf path delimiter, so the provider unflattens on ".".
	if err := k.Load(env.Provider("SYN_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "syn_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Roster.SetDefaults()
	cfg.Solver.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Input.Students == "" {
		return fmt.Errorf("input.students is required")
	}
	if err := c.Solver.Validate(); err != nil {
		return err
	}
	return c.Roster.Validate()
}
