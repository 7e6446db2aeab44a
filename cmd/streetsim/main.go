// Command streetsim runs the street-life simulation: residents walking and
// driving around a generated or hand-authored street layout.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/laubsauger/streetsim/internal/agents"
	"github.com/laubsauger/streetsim/internal/api"
	"github.com/laubsauger/streetsim/internal/config"
	"github.com/laubsauger/streetsim/internal/engine"
	"github.com/laubsauger/streetsim/internal/entropy"
	"github.com/laubsauger/streetsim/internal/nav"
	"github.com/laubsauger/streetsim/internal/persistence"
	"github.com/laubsauger/streetsim/internal/replay"
	"github.com/laubsauger/streetsim/internal/world"
)

func main() {
	var (
		configPath = flag.String("config", "", "tuning file (yaml); defaults apply when empty")
		mapPath    = flag.String("map", "", "street layout file (json); generated when empty")
		seed       = flag.Int64("seed", 0, "world seed; overrides the config, 0 keeps it")
		residents  = flag.Int("residents", 0, "population size; overrides the config, 0 keeps it")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *residents != 0 {
		cfg.Residents = *residents
	}

	// ── Street layout ─────────────────────────────────────────────────
	var layout *world.Layout
	if *mapPath != "" {
		layout, err = world.Load(*mapPath)
		if err != nil {
			slog.Error("failed to load map", "path", *mapPath, "error", err)
			os.Exit(1)
		}
		slog.Info("map loaded", "path", *mapPath, "roads", len(layout.Roads), "lots", len(layout.Lots))
	} else {
		gen := world.DefaultGenConfig()
		gen.Seed = cfg.Seed
		layout = world.Generate(gen)
		slog.Info("map generated", "seed", cfg.Seed, "roads", len(layout.Roads), "lots", len(layout.Lots))
	}

	// ── Navigation graph ──────────────────────────────────────────────
	params := nav.DefaultParams()
	params.Offset = cfg.Nav.SidewalkOffset
	params.NodeSpacing = cfg.Nav.NodeSpacing
	params.SnapDistance = cfg.Nav.SnapDistance
	graph := nav.Build(layout.Roads, params)
	slog.Info("navigation graph built", "nodes", humanize.Comma(int64(graph.Len())))

	// ── Population ────────────────────────────────────────────────────
	rnd := entropy.ForSeed(cfg.Seed)
	sim := engine.NewSimulation(layout, graph, cfg.Spatial.CellSize, rnd)
	sim.TickInterval = cfg.TickInterval()
	sim.Machine.Timing.TripChance = cfg.Behavior.TripChance
	sim.Machine.Timing.CarEnterRadius = cfg.Behavior.CarEnterRadius

	spawner := agents.NewSpawner(rnd)
	homes := layout.ResidentialLots()
	if len(homes) == 0 {
		slog.Error("layout has no residential lots to house anyone")
		os.Exit(1)
	}

	carsSpawned := 0
	for i := 0; i < cfg.Residents; i++ {
		home := homes[i%len(homes)]
		r := spawner.SpawnResident(home)
		r.Speed = cfg.Behavior.WalkSpeed
		r.WalkSpeed = cfg.Behavior.WalkSpeed
		sim.AddResident(r)

		if rnd.Float() < agents.CarOwnershipRate {
			// Park the car at the curb: the sidewalk node closest to home.
			curb := home.Centroid()
			if n := graph.ClosestNode(curb); n != nil {
				curb = n.Pos
			}
			v := spawner.SpawnVehicle(r, curb, sim.Garage)
			v.Speed = cfg.Behavior.DriveSpeed
			sim.AddVehicle(v)
			carsSpawned++
		}
	}
	slog.Info("population spawned",
		"residents", humanize.Comma(int64(len(sim.Residents))),
		"vehicles", humanize.Comma(int64(carsSpawned)),
	)

	// ── Telemetry ─────────────────────────────────────────────────────
	db, err := persistence.Open(cfg.DBPath, cfg.Seed)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("telemetry opened", "path", cfg.DBPath, "run_id", db.RunID())

	var recorder *replay.Recorder
	if cfg.ReplayDir != "" {
		recorder, err = replay.NewRecorder(cfg.ReplayDir, replay.Header{
			RunID:    db.RunID(),
			Seed:     cfg.Seed,
			Interval: cfg.TickInterval().String(),
		})
		if err != nil {
			slog.Error("failed to open replay recorder", "error", err)
			os.Exit(1)
		}
		defer recorder.Close()
		slog.Info("replay recording", "dir", cfg.ReplayDir)
	}

	// ── Engine ────────────────────────────────────────────────────────
	eng := engine.NewEngine()
	eng.SetSpeed(cfg.Speed)
	eng.Interval = cfg.TickInterval()

	apiServer := &api.Server{
		Sim:   sim,
		Eng:   eng,
		DB:    db,
		Addr:  cfg.ListenAddr,
		RunID: db.RunID(),
	}
	apiServer.Start()

	// Stats land in the database once per simulated minute.
	statsEvery := cfg.TicksPerMinute()

	eng.OnStep = func(tick uint64, dt float64) {
		sim.Step(tick, dt)

		if err := db.LogEvents(sim.DrainEvents()); err != nil {
			slog.Error("event log failed", "error", err)
		}
		if tick%statsEvery == 0 {
			if err := db.LogStats(tick, sim.Stats); err != nil {
				slog.Error("stats log failed", "error", err)
			}
		}

		snap := sim.Snapshot()
		apiServer.Publish(snap)
		if recorder != nil {
			if err := recorder.Record(snap); err != nil {
				slog.Error("replay write failed", "error", err)
			}
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
	}()

	fmt.Printf("\nStreet is alive: %s residents, %s cars, %s waypoints.\n",
		humanize.Comma(int64(len(sim.Residents))),
		humanize.Comma(int64(carsSpawned)),
		humanize.Comma(int64(graph.Len())),
	)
	fmt.Printf("API: http://localhost%s/api/v1/status\n", cfg.ListenAddr)
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	eng.Run()

	fmt.Println("Simulation stopped.")
}
