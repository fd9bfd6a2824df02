// Command gridagentvis shows the task-collecting agent in a window.
package main

import (
	"flag"
	"log"
	"os"

	"gioui.org/app"
	"gioui.org/unit"

	"github.com/elektrokombinacija/gridagent/internal/config"
	"github.com/elektrokombinacija/gridagent/internal/core"
	"github.com/elektrokombinacija/gridagent/internal/sim"
	"github.com/elektrokombinacija/gridagent/internal/vis"
	"github.com/elektrokombinacija/gridagent/internal/vis/observer"
)

func main() {
	envFile := flag.String("env", "", "Env file with GRIDAGENT_* settings (default .env)")
	strategy := flag.String("strategy", "", "Search strategy: astar or idastar")
	scenarioFile := flag.String("scenario", "", "Scenario JSON file (default: generate one)")
	seed := flag.Int64("seed", 0, "Random seed for the first generated scenario")
	flag.Parse()

	log.SetFlags(log.Ltime)

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("[ERROR] Config: %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "strategy":
			cfg.Strategy = *strategy
		case "scenario":
			cfg.Scenario = *scenarioFile
		case "seed":
			cfg.Seed = *seed
		}
	})
	if cfg.Strategy == config.StrategyBoth {
		log.Fatalf("[ERROR] The window shows one strategy at a time")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[ERROR] %v", err)
	}

	// Each New press generates the next seed; a scenario file is reloaded.
	next := cfg
	factory := func(observers ...observer.Observer) (*sim.Simulator, error) {
		s, err := next.BuildScenario()
		if err != nil {
			return nil, err
		}
		next.Seed++
		return newSimulator(next, s, observers)
	}

	application, err := vis.NewApp(factory, cfg.TickInterval, nil)
	if err != nil {
		log.Fatalf("[ERROR] %v", err)
	}

	go func() {
		window := new(app.Window)
		window.Option(
			app.Title("Grid Agent"),
			app.Size(unit.Dp(1100), unit.Dp(700)),
		)

		if err := application.Run(window); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
}

func newSimulator(cfg config.Config, s *core.Scenario, observers []observer.Observer) (*sim.Simulator, error) {
	simCfg, err := cfg.SimulationConfig(cfg.Strategy, s)
	if err != nil {
		return nil, err
	}
	observer.Attach(&simCfg, observers...)
	return sim.NewSimulator(simCfg)
}
