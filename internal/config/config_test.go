package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, "astar", c.Strategy)
	assert.Equal(t, 200*time.Millisecond, c.TickInterval)
	assert.Equal(t, 20, c.Columns)
	assert.Equal(t, 15, c.Rows)
	assert.Equal(t, 5, c.Tasks)
	assert.Equal(t, 15, c.Barriers)
	assert.NoError(t, c.Validate())
}

func TestApplyEnv(t *testing.T) {
	c := Default()
	err := c.applyEnv(lookupMap(map[string]string{
		"GRIDAGENT_STRATEGY": " IDAStar ",
		"GRIDAGENT_TICK_MS":  "50",
		"GRIDAGENT_COLUMNS":  "8",
		"GRIDAGENT_ROWS":     "6",
		"GRIDAGENT_SEED":     "-3",
		"GRIDAGENT_DB":       "runs.db",
		"GRIDAGENT_VERBOSE":  "true",
		"GRIDAGENT_BARRIERS": "", // empty keeps the default
	}))
	require.NoError(t, err)

	assert.Equal(t, "idastar", c.Strategy)
	assert.Equal(t, 50*time.Millisecond, c.TickInterval)
	assert.Equal(t, 8, c.Columns)
	assert.Equal(t, 6, c.Rows)
	assert.Equal(t, int64(-3), c.Seed)
	assert.Equal(t, "runs.db", c.DBPath)
	assert.True(t, c.Verbose)
	assert.Equal(t, 15, c.Barriers)
}

func TestApplyEnvReportsEveryBadValue(t *testing.T) {
	c := Default()
	err := c.applyEnv(lookupMap(map[string]string{
		"GRIDAGENT_ROWS":    "many",
		"GRIDAGENT_VERBOSE": "sometimes",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GRIDAGENT_ROWS")
	assert.Contains(t, err.Error(), "GRIDAGENT_VERBOSE")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(c *Config) {}, false},
		{"both", func(c *Config) { c.Strategy = StrategyBoth }, false},
		{"unknown strategy", func(c *Config) { c.Strategy = "dijkstra" }, true},
		{"zero columns", func(c *Config) { c.Columns = 0 }, true},
		{"negative tasks", func(c *Config) { c.Tasks = -1 }, true},
		{"too crowded", func(c *Config) { c.Columns, c.Rows, c.Tasks, c.Barriers = 3, 3, 4, 5 }, true},
		{"full but start free", func(c *Config) { c.Columns, c.Rows, c.Tasks, c.Barriers = 3, 3, 4, 4 }, false},
		{"file ignores sizes", func(c *Config) { c.Scenario = "x.json"; c.Columns = 0 }, false},
		{"negative tick", func(c *Config) { c.TickInterval = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("GRIDAGENT_TASKS=9\nGRIDAGENT_ROWS=11\n"), 0644))

	// godotenv sets variables in the process environment.
	t.Cleanup(func() {
		os.Unsetenv("GRIDAGENT_TASKS")
		os.Unsetenv("GRIDAGENT_ROWS")
	})
	// The real environment wins over the file.
	t.Setenv("GRIDAGENT_ROWS", "4")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, c.Tasks)
	assert.Equal(t, 4, c.Rows)
}

func TestLoadMissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, Default().Columns, c.Columns)
}

func TestStrategiesAndSimulationConfig(t *testing.T) {
	c := Default()
	c.Strategy = StrategyBoth
	assert.Equal(t, []string{"astar", "idastar"}, c.Strategies())

	c.Columns, c.Rows, c.Tasks, c.Barriers = 6, 6, 3, 4
	s, err := c.BuildScenario()
	require.NoError(t, err)
	assert.Equal(t, 3, s.Grid.Tasks.Len())

	sc, err := c.SimulationConfig("idastar", s)
	require.NoError(t, err)
	assert.Equal(t, "IDA*", sc.Strategy.Name())
	assert.Equal(t, c.TickInterval, sc.TickInterval)
	assert.Same(t, s, sc.Scenario)

	_, err = c.SimulationConfig("nope", s)
	assert.Error(t, err)
}
