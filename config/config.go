// Package config loads and validates the service configuration.
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

	"github.com/orbitalsys/taskopt/core/engine"
	"github.com/orbitalsys/taskopt/core/metrics"
	"github.com/orbitalsys/taskopt/core/pricing"
	"github.com/orbitalsys/taskopt/core/schedule"
	"github.com/orbitalsys/taskopt/core/weather"
	"github.com/orbitalsys/taskopt/infra/events"
)

// InputsConfig locates the run's input tables.
type InputsConfig struct {
	// OrdersFile is the active order deck CSV.
	OrdersFile string `json:"orders_file"`
	// CasesFile holds the starting coefficient vectors, one case per row.
	// Optional when optimizer.cases is set inline.
	CasesFile string `json:"cases_file"`
	// GridDir holds one cloud-cover grid CSV per scenario. Required for
	// weather mode "grid".
	GridDir string `json:"grid_dir"`
}

// Validate checks mandatory fields.
func (c InputsConfig) Validate() error {
	if c.OrdersFile == "" {
		return fmt.Errorf("inputs.orders_file is required")
	}
	return nil
}

// Config is the root service configuration.
type Config struct {
	Inputs    InputsConfig    `json:"inputs"`
	Pricing   pricing.Config  `json:"pricing"`
	Weather   weather.Config  `json:"weather"`
	Schedule  schedule.Config `json:"schedule"`
	Optimizer engine.Config   `json:"optimizer"`
	Metrics   metrics.Config  `json:"metrics"`
	Events    events.Config   `json:"events"`
	Logging   LoggingConfig   `json:"logging"`
	// Seed initializes every random stream in the run. A fixed seed makes a
	// run reproducible end to end.
	Seed uint64 `json:"seed"`
}

// Load reads the configuration file at path, applies TASKOPT_ environment
// overrides (TASKOPT_WEATHER__SCENARIOS=10 sets weather.scenarios) and
// validates the result. Starting cases referenced by inputs.cases_file are
// loaded later, by the application wiring.
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
	if err := k.Load(env.Provider("TASKOPT_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "taskopt_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills unset fields across all sections.
func (c *Config) SetDefaults() {
	c.Weather.SetDefaults()
	c.Schedule.SetDefaults()
	c.Optimizer.SetDefaults()
	c.Metrics.SetDefaults()
	c.Events.SetDefaults()
	c.Logging.SetDefaults()
	if c.Seed == 0 {
		c.Seed = 1
	}
}

// Validate checks every section except the optimizer's starting cases, which
// may still be pending a cases-file load.
func (c *Config) Validate() error {
	if err := c.Inputs.Validate(); err != nil {
		return err
	}
	if err := c.Weather.Validate(); err != nil {
		return err
	}
	if c.Weather.Mode == weather.ModeGrid && c.Inputs.GridDir == "" {
		return fmt.Errorf("weather mode %s requires inputs.grid_dir", weather.ModeGrid)
	}
	if len(c.Optimizer.Cases) == 0 && c.Inputs.CasesFile == "" {
		return fmt.Errorf("no starting cases: set optimizer.cases or inputs.cases_file")
	}
	if len(c.Optimizer.Cases) > 0 {
		if err := c.Optimizer.Validate(); err != nil {
			return err
		}
	}
	return c.Logging.Validate()
}
