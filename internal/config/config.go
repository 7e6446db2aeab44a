// Package config loads the simulation tuning file. Every knob has a
// default, so running without a file is always valid.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full tuning surface of the simulator.
type Config struct {
	Seed       int64   `yaml:"seed"`        // 0 means non-deterministic
	TickMs     int     `yaml:"tick_ms"`     // simulated timestep per tick
	Speed      float64 `yaml:"speed"`       // wall-clock multiplier
	ListenAddr string  `yaml:"listen_addr"` // HTTP API address
	DBPath     string  `yaml:"db_path"`     // telemetry database
	ReplayDir  string  `yaml:"replay_dir"`  // "" disables replay recording

	Residents int `yaml:"residents"`

	Nav      Nav      `yaml:"nav"`
	Spatial  Spatial  `yaml:"spatial"`
	Behavior Behavior `yaml:"behavior"`
}

// Nav tunes navigation graph construction.
type Nav struct {
	SidewalkOffset float64 `yaml:"sidewalk_offset"`
	NodeSpacing    float64 `yaml:"node_spacing"`
	SnapDistance   float64 `yaml:"snap_distance"`
}

// Spatial tunes the proximity index.
type Spatial struct {
	CellSize float64 `yaml:"cell_size"`
}

// Behavior tunes movement speeds and trip timing.
type Behavior struct {
	WalkSpeed      float64 `yaml:"walk_speed"`
	DriveSpeed     float64 `yaml:"drive_speed"`
	TripChance     float64 `yaml:"trip_chance"`
	CarEnterRadius float64 `yaml:"car_enter_radius"`
}

// Default returns the built-in tuning.
func Default() Config {
	return Config{
		TickMs:     100,
		Speed:      1.0,
		ListenAddr: ":8090",
		DBPath:     "streetsim.db",
		Residents:  40,
		Nav: Nav{
			SidewalkOffset: 12,
			NodeSpacing:    150,
			SnapDistance:   28,
		},
		Spatial: Spatial{CellSize: 50},
		Behavior: Behavior{
			WalkSpeed:      20,
			DriveSpeed:     90,
			TripChance:     0.3,
			CarEnterRadius: 15,
		},
	}
}

// Load reads a tuning file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// TickInterval returns the simulated timestep as a duration.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickMs) * time.Millisecond
}

// TicksPerMinute returns how many ticks make up one simulated minute, never
// less than 1 so it is always safe as a modulus. Timesteps longer than a
// minute round up to every tick.
func (c Config) TicksPerMinute() uint64 {
	n := uint64(60 * 1000 / c.TickMs)
	if n < 1 {
		return 1
	}
	return n
}

func (c Config) validate() error {
	if c.TickMs <= 0 {
		return fmt.Errorf("tick_ms must be positive, got %d", c.TickMs)
	}
	if c.Residents < 0 {
		return fmt.Errorf("residents must not be negative, got %d", c.Residents)
	}
	if c.Nav.NodeSpacing <= 0 {
		return fmt.Errorf("nav.node_spacing must be positive, got %v", c.Nav.NodeSpacing)
	}
	if c.Spatial.CellSize <= 0 {
		return fmt.Errorf("spatial.cell_size must be positive, got %v", c.Spatial.CellSize)
	}
	if c.Behavior.TripChance < 0 || c.Behavior.TripChance > 1 {
		return fmt.Errorf("behavior.trip_chance must be in [0, 1], got %v", c.Behavior.TripChance)
	}
	return nil
}
