// Package main generates grid scenarios for benchmarks.
// Output files are deterministic for a given seed.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/elektrokombinacija/gridagent/internal/scenario"
)

// scalingSizes are task counts for the scaling suite.
var scalingSizes = []int{5, 10, 20, 40, 80}

// scaled returns parameters for a suite entry with the given task count.
// The board grows with sqrt of the task count and keeps the barrier density.
func scaled(base scenario.Params, tasks int) scenario.Params {
	side := int(math.Ceil(math.Sqrt(float64(tasks)) * 6))
	if side < 10 {
		side = 10
	}

	p := base
	p.Name = fmt.Sprintf("scaling_%03d", tasks)
	p.Columns = side
	p.Rows = side
	p.Tasks = tasks
	p.Barriers = side * side * 5 / 100
	return p
}

func main() {
	defaults := scenario.DefaultParams()

	seed := flag.Int64("seed", 42, "Random seed for deterministic generation")
	columns := flag.Int("cols", defaults.Columns, "Grid columns")
	rows := flag.Int("rows", defaults.Rows, "Grid rows")
	tasks := flag.Int("tasks", defaults.Tasks, "Number of tasks")
	barriers := flag.Int("barriers", defaults.Barriers, "Number of barriers")
	count := flag.Int("count", 1, "Number of scenarios, one seed each")
	reachable := flag.Bool("reachable", true, "Retry until every task is reachable from the start")
	outputDir := flag.String("output", "testdata", "Output directory")
	scalingMode := flag.Bool("scaling", false, "Generate the scaling suite (5, 10, 20, 40, 80 tasks)")

	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	base := scenario.Params{
		Seed:             *seed,
		Columns:          *columns,
		Rows:             *rows,
		Tasks:            *tasks,
		Barriers:         *barriers,
		RequireReachable: *reachable,
	}

	var params []scenario.Params
	if *scalingMode {
		for _, size := range scalingSizes {
			params = append(params, scaled(base, size))
		}
	} else {
		for i := 0; i < *count; i++ {
			p := base
			p.Seed = *seed + int64(i)
			params = append(params, p)
		}
	}

	failed := 0
	for _, p := range params {
		s, err := scenario.Generate(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating seed %d: %v\n", p.Seed, err)
			failed++
			continue
		}

		filename := filepath.Join(*outputDir, s.Name+".json")
		if err := scenario.Save(filename, s); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", filename, err)
			failed++
			continue
		}

		fmt.Printf("Generated: %s (%d tasks, %d barriers, %dx%d grid)\n",
			filename, s.Grid.Tasks.Len(), len(s.Grid.Barriers()), s.Grid.Columns, s.Grid.Rows)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
