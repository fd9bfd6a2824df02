// Package config loads runtime settings from defaults, a .env file and
// GRIDAGENT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/elektrokombinacija/gridagent/internal/algo"
	"github.com/elektrokombinacija/gridagent/internal/core"
	"github.com/elektrokombinacija/gridagent/internal/scenario"
	"github.com/elektrokombinacija/gridagent/internal/sim"
)

// EnvPrefix is prepended to every variable name.
const EnvPrefix = "GRIDAGENT_"

// StrategyBoth runs every registered strategy on the same scenario.
const StrategyBoth = "both"

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime settings shared by the commands.
type Config struct {
	Strategy     string
	TickInterval time.Duration
	Columns      int
	Rows         int
	Tasks        int
	Barriers     int
	Seed         int64
	Scenario     string // scenario file; empty generates one
	DBPath       string // run history; empty disables it
	MetricsPath  string // JSON metrics export; empty disables it
	Verbose      bool
}

// Default returns the default configuration.
func Default() Config {
	p := scenario.DefaultParams()
	return Config{
		Strategy:     algo.NameAStar,
		TickInterval: 200 * time.Millisecond,
		Columns:      p.Columns,
		Rows:         p.Rows,
		Tasks:        p.Tasks,
		Barriers:     p.Barriers,
		Seed:         p.Seed,
	}
}

// Load returns Default overridden by envFile (if it exists) and then by the
// process environment. An empty envFile tries ".env".
func Load(envFile string) (Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	// Variables already set in the environment win over the file.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := Default()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
	}

	var errs []error
	setInt := func(name string, dst *int) {
		if v, ok := get(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}

	if v, ok := get("STRATEGY"); ok {
		c.Strategy = strings.ToLower(v)
	}
	tickMs := int(c.TickInterval / time.Millisecond)
	setInt("TICK_MS", &tickMs)
	c.TickInterval = time.Duration(tickMs) * time.Millisecond

	setInt("COLUMNS", &c.Columns)
	setInt("ROWS", &c.Rows)
	setInt("TASKS", &c.Tasks)
	setInt("BARRIERS", &c.Barriers)

	if v, ok := get("SEED"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sSEED: %w", EnvPrefix, err))
		} else {
			c.Seed = n
		}
	}
	if v, ok := get("SCENARIO"); ok {
		c.Scenario = v
	}
	if v, ok := get("DB"); ok {
		c.DBPath = v
	}
	if v, ok := get("METRICS"); ok {
		c.MetricsPath = v
	}
	if v, ok := get("VERBOSE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sVERBOSE: %w", EnvPrefix, err))
		} else {
			c.Verbose = b
		}
	}

	return errors.Join(errs...)
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if c.Strategy != StrategyBoth {
		if _, err := algo.NewStrategy(c.Strategy, 1); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	if c.TickInterval < 0 {
		return fmt.Errorf("%w: negative tick interval", ErrInvalidConfig)
	}
	if c.Scenario != "" {
		return nil
	}
	if c.Columns <= 0 || c.Rows <= 0 {
		return fmt.Errorf("%w: grid size %dx%d", ErrInvalidConfig, c.Columns, c.Rows)
	}
	if c.Tasks < 0 || c.Barriers < 0 {
		return fmt.Errorf("%w: negative task or barrier count", ErrInvalidConfig)
	}
	if c.Tasks+c.Barriers > c.Columns*c.Rows-1 {
		return fmt.Errorf("%w: %d tasks and %d barriers do not fit a %dx%d grid",
			ErrInvalidConfig, c.Tasks, c.Barriers, c.Columns, c.Rows)
	}
	return nil
}

// Strategies returns the names of the strategies to run.
func (c Config) Strategies() []string {
	if c.Strategy == StrategyBoth {
		return algo.StrategyNames()
	}
	return []string{c.Strategy}
}

// ScenarioParams returns generation parameters for the configured grid.
func (c Config) ScenarioParams() scenario.Params {
	p := scenario.DefaultParams()
	p.Seed = c.Seed
	p.Columns = c.Columns
	p.Rows = c.Rows
	p.Tasks = c.Tasks
	p.Barriers = c.Barriers
	return p
}

// BuildScenario loads the configured scenario file or generates one.
func (c Config) BuildScenario() (*core.Scenario, error) {
	if c.Scenario != "" {
		return scenario.Load(c.Scenario)
	}
	return scenario.Generate(c.ScenarioParams())
}

// SimulationConfig builds the simulator settings for one strategy on s.
func (c Config) SimulationConfig(strategy string, s *core.Scenario) (sim.SimulationConfig, error) {
	st, err := algo.NewStrategy(strategy, algo.BoundFor(s.Grid))
	if err != nil {
		return sim.SimulationConfig{}, err
	}
	cfg := sim.DefaultConfig()
	cfg.Scenario = s
	cfg.Strategy = st
	cfg.TickInterval = c.TickInterval
	cfg.Verbose = c.Verbose
	return cfg, nil
}
