// Command gridagent runs the task-collecting agent without a window.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/elektrokombinacija/gridagent/internal/config"
	"github.com/elektrokombinacija/gridagent/internal/core"
	"github.com/elektrokombinacija/gridagent/internal/runlog"
	"github.com/elektrokombinacija/gridagent/internal/scenario"
	"github.com/elektrokombinacija/gridagent/internal/sim"
)

func main() {
	envFile := flag.String("env", "", "Env file with GRIDAGENT_* settings (default .env)")
	strategy := flag.String("strategy", "", "Search strategy: astar, idastar or both")
	scenarioFile := flag.String("scenario", "", "Scenario JSON file (default: generate one)")
	seed := flag.Int64("seed", 0, "Random seed for generated scenarios")
	columns := flag.Int("cols", 0, "Grid columns")
	rows := flag.Int("rows", 0, "Grid rows")
	tasks := flag.Int("tasks", 0, "Number of tasks")
	barriers := flag.Int("barriers", 0, "Number of barriers")
	tick := flag.Duration("tick", 0, "Delay between moves (default: run unpaced)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after this many moves (0 = no limit)")
	dbPath := flag.String("db", "", "SQLite run history file")
	metricsPath := flag.String("metrics", "", "Write run metrics as JSON to this file")
	savePath := flag.String("save", "", "Write the scenario to this file before running")
	history := flag.Bool("history", false, "Print the run history summary and exit")
	watch := flag.Bool("watch", false, "Rerun whenever the scenario file changes")
	verbose := flag.Bool("verbose", false, "Log every dispatch and collection")
	flag.Parse()

	log.SetFlags(log.Ltime)

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("[ERROR] Config: %v", err)
	}
	cfg.TickInterval = 0

	// Explicit flags override the environment.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "strategy":
			cfg.Strategy = strings.ToLower(*strategy)
		case "scenario":
			cfg.Scenario = *scenarioFile
		case "seed":
			cfg.Seed = *seed
		case "cols":
			cfg.Columns = *columns
		case "rows":
			cfg.Rows = *rows
		case "tasks":
			cfg.Tasks = *tasks
		case "barriers":
			cfg.Barriers = *barriers
		case "tick":
			cfg.TickInterval = *tick
		case "db":
			cfg.DBPath = *dbPath
		case "metrics":
			cfg.MetricsPath = *metricsPath
		case "verbose":
			cfg.Verbose = *verbose
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[ERROR] %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store *runlog.Store
	if cfg.DBPath != "" {
		store, err = runlog.Open(ctx, cfg.DBPath)
		if err != nil {
			log.Fatalf("[ERROR] Run history: %v", err)
		}
		defer store.Close()
	}

	if *history {
		if store == nil {
			log.Fatalf("[ERROR] -history needs -db or GRIDAGENT_DB")
		}
		if err := printHistory(ctx, store); err != nil {
			log.Fatalf("[ERROR] %v", err)
		}
		return
	}

	s, err := cfg.BuildScenario()
	if err != nil {
		log.Fatalf("[ERROR] Scenario: %v", err)
	}
	if *savePath != "" {
		if err := scenario.Save(*savePath, s); err != nil {
			log.Fatalf("[ERROR] %v", err)
		}
		log.Printf("[INFO] Scenario written to %s", *savePath)
	}

	r := &runner{cfg: cfg, store: store, maxTicks: *maxTicks}
	r.run(ctx, s)

	if !*watch {
		return
	}
	if cfg.Scenario == "" {
		log.Fatalf("[ERROR] -watch needs -scenario")
	}

	w := scenario.NewWatcher(cfg.Scenario, nil)
	w.OnChange(func(s *core.Scenario) { r.run(ctx, s) })
	log.Printf("[INFO] Watching %s (Ctrl-C to stop)", cfg.Scenario)
	if err := w.Run(ctx); err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
	log.Println("[INFO] Shutting down...")
}

type runner struct {
	cfg      config.Config
	store    *runlog.Store
	maxTicks int
}

// run executes every configured strategy on s and reports the results.
func (r *runner) run(ctx context.Context, s *core.Scenario) {
	fmt.Printf("Scenario %q: %dx%d grid, %d barriers, %d tasks, start %v\n",
		s.Name, s.Grid.Columns, s.Grid.Rows, len(s.Grid.Barriers()), s.Grid.Tasks.Len(), s.Start)

	strategies := r.cfg.Strategies()
	var results []sim.SimulationMetrics

	for _, name := range strategies {
		m, err := r.runOne(ctx, name, s, len(strategies) > 1)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				log.Printf("[WARN] %s interrupted", name)
				return
			}
			log.Printf("[ERROR] %s: %v", name, err)
			continue
		}
		results = append(results, *m)

		fmt.Printf("\n  %s: Tasks=%d/%d, Order=%v, PathCost=%d, Searches=%d, Expanded=%d, Time=%.2fms",
			m.Strategy, m.TasksCompleted, m.TasksTotal, m.CompletedTasks, m.PathCost,
			m.Searches, m.NodesExpanded, m.PlanningTimeMs)
		if m.TasksRemaining > 0 {
			fmt.Printf(" (%d unreachable)", m.TasksRemaining)
		}
	}
	fmt.Println()

	if len(results) > 1 {
		agree := true
		for _, m := range results[1:] {
			if m.PathCost != results[0].PathCost {
				agree = false
			}
		}
		if agree {
			fmt.Printf("  Strategies agree: total path cost %d\n", results[0].PathCost)
		} else {
			log.Printf("[WARN] Strategies disagree on total path cost")
		}
	}
}

func (r *runner) runOne(ctx context.Context, name string, s *core.Scenario, multi bool) (*sim.SimulationMetrics, error) {
	simCfg, err := r.cfg.SimulationConfig(name, s)
	if err != nil {
		return nil, err
	}
	simCfg.MaxTicks = r.maxTicks

	simulator, err := sim.NewSimulator(simCfg)
	if err != nil {
		return nil, err
	}
	m, err := simulator.Run(ctx)
	if err != nil {
		return nil, err
	}

	if r.cfg.MetricsPath != "" {
		path := r.cfg.MetricsPath
		if multi {
			path = withSuffix(path, name)
		}
		if err := simulator.ExportMetrics(path); err != nil {
			log.Printf("[WARN] %v", err)
		}
	}

	if r.store != nil {
		if _, err := r.store.Record(ctx, runlog.FromMetrics(*m, r.cfg.Seed)); err != nil {
			log.Printf("[WARN] %v", err)
		}
	}
	return m, nil
}

// withSuffix turns metrics.json into metrics_astar.json.
func withSuffix(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + suffix + ext
}

func printHistory(ctx context.Context, store *runlog.Store) error {
	sums, err := store.Summarize(ctx)
	if err != nil {
		return err
	}

	fmt.Println("\n=== RUN HISTORY ===")
	fmt.Printf("%-24s %-8s %6s %10s %12s %8s\n", "Scenario", "Strategy", "Runs", "AvgCost", "AvgExpanded", "Cleared")
	fmt.Println(strings.Repeat("-", 73))
	for _, s := range sums {
		fmt.Printf("%-24s %-8s %6d %10.2f %12.2f %8d\n",
			s.Scenario, s.Strategy, s.Runs, s.AvgPathCost, s.AvgExpanded, s.FullyCleared)
	}

	runs, err := store.List(ctx, 5)
	if err != nil {
		return err
	}
	if len(runs) > 0 {
		fmt.Println("\nLatest runs:")
	}
	for _, r := range runs {
		fmt.Printf("  %s  %s  %-8s cost=%d tasks=%d/%d\n",
			r.StartedAt.Format(time.DateTime), shortID(r.ID), r.Strategy, r.PathCost, r.TasksCompleted, r.TasksTotal)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\nFlags override GRIDAGENT_* variables from the environment or .env.\n\n", os.Args[0])
		flag.PrintDefaults()
	}
}
