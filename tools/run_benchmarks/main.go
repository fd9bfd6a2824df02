// Package main provides the benchmark runner for the search strategies.
// Runs every strategy on each scenario file and collects metrics.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/elektrokombinacija/gridagent/internal/algo"
	"github.com/elektrokombinacija/gridagent/internal/core"
	"github.com/elektrokombinacija/gridagent/internal/runlog"
	"github.com/elektrokombinacija/gridagent/internal/scenario"
	"github.com/elektrokombinacija/gridagent/internal/sim"
)

// BenchmarkResult stores results from a single strategy run.
type BenchmarkResult struct {
	Timestamp      string
	CommitHash     string
	GoVersion      string
	OS             string
	Arch           string
	Scenario       string
	NumTasks       int
	GridSize       string
	Strategy       string
	RuntimeMs      float64
	PlanningTimeMs float64
	Success        bool
	PathCost       int
	TasksCompleted int
	NodesExpanded  int
	Unreachable    int

	metrics *sim.SimulationMetrics
}

// StrategyMetrics holds per-strategy aggregated metrics.
type StrategyMetrics struct {
	Name           string
	TotalRuns      int
	Successes      int
	TotalRuntimeMs float64
	TotalPathCost  int
	TotalExpanded  int
}

func getGitCommit() string {
	cmd := exec.Command("git", "rev-parse", "--short", "HEAD")
	output, err := cmd.Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(output))
}

// runStrategy runs one headless simulation. Success means every task that
// could be reached was collected before the timeout.
func runStrategy(s *core.Scenario, name, commit string, timeout time.Duration) *BenchmarkResult {
	result := &BenchmarkResult{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		CommitHash: commit,
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		Scenario:   s.Name,
		NumTasks:   s.Grid.Tasks.Len(),
		GridSize:   fmt.Sprintf("%dx%d", s.Grid.Columns, s.Grid.Rows),
		Strategy:   name,
	}

	strategy, err := algo.NewStrategy(name, algo.BoundFor(s.Grid))
	if err != nil {
		return result
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	startTime := time.Now()
	m, err := sim.RunSimulation(ctx, sim.SimulationConfig{
		Scenario: s,
		Strategy: strategy,
	})
	result.RuntimeMs = float64(time.Since(startTime).Microseconds()) / 1000.0
	if m == nil {
		return result
	}

	result.metrics = m
	result.Strategy = m.Strategy
	result.PlanningTimeMs = m.PlanningTimeMs
	result.PathCost = m.PathCost
	result.TasksCompleted = m.TasksCompleted
	result.NodesExpanded = m.NodesExpanded
	result.Unreachable = m.TasksRemaining
	result.Success = err == nil

	return result
}

func writeCSV(results []*BenchmarkResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"timestamp", "commit_hash", "go_version", "os", "arch",
		"scenario", "num_tasks", "grid_size", "strategy",
		"runtime_ms", "planning_time_ms", "success", "path_cost",
		"tasks_completed", "nodes_expanded", "unreachable",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range results {
		row := []string{
			r.Timestamp, r.CommitHash, r.GoVersion, r.OS, r.Arch,
			r.Scenario, fmt.Sprintf("%d", r.NumTasks), r.GridSize, r.Strategy,
			fmt.Sprintf("%.3f", r.RuntimeMs), fmt.Sprintf("%.3f", r.PlanningTimeMs),
			fmt.Sprintf("%t", r.Success), fmt.Sprintf("%d", r.PathCost),
			fmt.Sprintf("%d", r.TasksCompleted), fmt.Sprintf("%d", r.NodesExpanded),
			fmt.Sprintf("%d", r.Unreachable),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return writer.Error()
}

func aggregate(results []*BenchmarkResult) []*StrategyMetrics {
	metrics := make(map[string]*StrategyMetrics)
	for _, r := range results {
		m, ok := metrics[r.Strategy]
		if !ok {
			m = &StrategyMetrics{Name: r.Strategy}
			metrics[r.Strategy] = m
		}
		m.TotalRuns++
		if r.Success {
			m.Successes++
			m.TotalRuntimeMs += r.RuntimeMs
			m.TotalPathCost += r.PathCost
			m.TotalExpanded += r.NodesExpanded
		}
	}

	out := make([]*StrategyMetrics, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func printSummary(results []*BenchmarkResult) {
	fmt.Println("\n=== BENCHMARK SUMMARY ===")
	fmt.Printf("%-12s %8s %8s %12s %10s %12s\n",
		"Strategy", "Runs", "Success", "Avg Time(ms)", "AvgCost", "AvgExpanded")
	fmt.Println(strings.Repeat("-", 66))

	for _, m := range aggregate(results) {
		avgTime := 0.0
		avgCost := 0.0
		avgExpanded := 0.0
		if m.Successes > 0 {
			avgTime = m.TotalRuntimeMs / float64(m.Successes)
			avgCost = float64(m.TotalPathCost) / float64(m.Successes)
			avgExpanded = float64(m.TotalExpanded) / float64(m.Successes)
		}
		fmt.Printf("%-12s %8d %8d %12.2f %10.2f %12.1f\n",
			m.Name, m.TotalRuns, m.Successes, avgTime, avgCost, avgExpanded)
	}
}

// recordRuns appends every completed run to the run history database.
func recordRuns(ctx context.Context, dbPath string, results []*BenchmarkResult) error {
	store, err := runlog.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, r := range results {
		if r.metrics == nil {
			continue
		}
		if _, err := store.Record(ctx, runlog.FromMetrics(*r.metrics, 0)); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	inputDir := flag.String("input", "testdata", "Directory containing scenario JSON files")
	outputFile := flag.String("output", "evidence/benchmark_results.csv", "Output CSV file")
	timeout := flag.Duration("timeout", time.Minute, "Timeout per strategy run")
	strategyFilter := flag.String("strategy", "", "Run only specific strategies (comma-separated)")
	dbPath := flag.String("db", "", "Also record runs in this run history database")
	verbose := flag.Bool("verbose", false, "Verbose output")

	flag.Parse()

	outputDir := filepath.Dir(*outputFile)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	pattern := filepath.Join(*inputDir, "*.json")
	files, err := filepath.Glob(pattern)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding scenario files: %v\n", err)
		os.Exit(1)
	}

	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "No scenario files found in %s\n", *inputDir)
		fmt.Fprintf(os.Stderr, "Run gen_instances first: go run ./tools/gen_instances -scaling -output testdata\n")
		os.Exit(1)
	}

	activeStrategies := algo.StrategyNames()
	if *strategyFilter != "" {
		activeStrategies = strings.Split(*strategyFilter, ",")
	}

	commit := getGitCommit()
	var results []*BenchmarkResult
	totalRuns := len(files) * len(activeStrategies)
	currentRun := 0

	fmt.Printf("Running benchmarks: %d scenarios x %d strategies = %d runs\n",
		len(files), len(activeStrategies), totalRuns)
	fmt.Printf("Timeout per run: %v\n", *timeout)
	fmt.Println()

	for _, file := range files {
		s, err := scenario.Load(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", file, err)
			continue
		}

		for _, name := range activeStrategies {
			currentRun++
			if *verbose {
				fmt.Printf("[%d/%d] %s / %s ... ", currentRun, totalRuns, s.Name, name)
			} else {
				fmt.Printf("\r[%d/%d] Running...", currentRun, totalRuns)
			}

			result := runStrategy(s, name, commit, *timeout)
			results = append(results, result)

			if *verbose {
				if result.Success {
					fmt.Printf("OK (%.2fms, cost=%d, expanded=%d)\n", result.RuntimeMs, result.PathCost, result.NodesExpanded)
				} else {
					fmt.Printf("FAILED\n")
				}
			}
		}
	}

	fmt.Println()

	if err := writeCSV(results, *outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing results: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Results written to: %s\n", *outputFile)

	if *dbPath != "" {
		if err := recordRuns(context.Background(), *dbPath, results); err != nil {
			fmt.Fprintf(os.Stderr, "Error recording runs: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Runs recorded in: %s\n", *dbPath)
	}

	printSummary(results)
}
