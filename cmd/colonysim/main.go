// Package main provides the headless colony simulator binary.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/colony/internal/config"
	"github.com/cory-johannsen/colony/internal/game/ecs"
	"github.com/cory-johannsen/colony/internal/game/events"
	"github.com/cory-johannsen/colony/internal/game/mood"
	"github.com/cory-johannsen/colony/internal/game/rng"
	"github.com/cory-johannsen/colony/internal/game/think"
	"github.com/cory-johannsen/colony/internal/game/world"
	"github.com/cory-johannsen/colony/internal/observability"
	"github.com/cory-johannsen/colony/internal/scripting"
	"github.com/cory-johannsen/colony/internal/server"
	"github.com/cory-johannsen/colony/internal/sim"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/colony.yaml", "path to configuration file")
	scenarioPath := flag.String("scenario", "", "scenario YAML file; overrides scenario.path")
	maxTicks := flag.Int64("ticks", -1, "stop after this many ticks; overrides simulation.max_ticks when >= 0")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *scenarioPath != "" {
		cfg.Scenario.Path = *scenarioPath
	}
	if *maxTicks >= 0 {
		cfg.Simulation.MaxTicks = *maxTicks
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	sc, err := world.LoadScenarioFromFile(cfg.Scenario.Path)
	if err != nil {
		logger.Fatal("loading scenario", zap.Error(err))
	}
	store := ecs.NewStore()
	grid, err := sc.Populate(store)
	if err != nil {
		logger.Fatal("populating scenario", zap.Error(err))
	}
	logger.Info("scenario loaded",
		zap.String("name", sc.Name),
		zap.String("path", cfg.Scenario.Path),
		zap.Int("width", grid.Width()),
		zap.Int("height", grid.Height()),
		zap.Int("entities", store.Len()),
	)

	engine := mood.NewEngine(sim.MoodSettingsFromConfig(cfg.Tuning), mood.DefaultThoughts()...)
	scripts := scripting.NewManager(logger)
	defer scripts.Close()
	if dir := cfg.Scripting.ThoughtDir; dir != "" {
		if err := scripts.LoadGlobal(dir, cfg.Scripting.InstructionLimit); err != nil {
			logger.Fatal("loading thought scripts", zap.String("dir", dir), zap.Error(err))
		}
		scripted := mood.ScriptedThoughts(scripts, scripting.GlobalKey)
		engine.Add(scripted...)
		logger.Info("scripted thoughts registered", zap.Int("count", len(scripted)))
	}

	bus := events.NewBus()
	bus.Subscribe(events.TaskAbandoned, func(ev events.Event) {
		logger.Debug("task abandoned",
			zap.Int("entity_id", int(ev.Entity)),
			zap.String("task", ev.Detail),
			zap.Int("x", ev.Cell.X), zap.Int("y", ev.Cell.Y))
	})
	counts := events.Counter{}
	bus.SubscribeAll(counts.Record)

	colony := sim.NewColony(store, grid, think.ColonistTree(), engine, bus,
		rng.FromSeed(cfg.Simulation.Seed), sim.TuningFromConfig(cfg.Tuning), logger)
	runner := sim.NewRunner(colony, sim.RunnerConfigFrom(cfg.Simulation), logger)

	lc := server.NewLifecycle(logger)
	lc.Add("simulation", runner)

	logger.Info("colony simulator ready",
		zap.Strings("thoughts", engine.Thoughts()),
		zap.Duration("startup", time.Since(start)),
	)
	if err := lc.Run(context.Background()); err != nil {
		logger.Fatal("running simulation", zap.Error(err))
	}
	logger.Info("simulation summary",
		zap.Int64("ticks", colony.Ticks()),
		zap.Int("alive", colony.Alive()),
		zap.Any("events", counts),
	)
}
