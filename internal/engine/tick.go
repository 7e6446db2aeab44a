// Package engine provides the tick-based simulation loop and the world
// state it advances.
package engine

import (
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
	"time"
)

// Engine drives the simulation forward with a fixed simulated timestep.
// Speed compresses or stretches wall-clock time without changing the
// simulated delta, so behavior is identical at any speed.
//
// Speed and the running flag are adjusted from other goroutines (signal
// handler, HTTP control endpoint) while Run is looping, so both live
// behind atomics.
type Engine struct {
	Tick     uint64        // Current tick counter (monotonic, never resets)
	Interval time.Duration // Simulated timestep per tick (default 100ms)

	// OnStep runs every tick with the simulated elapsed seconds.
	OnStep func(tick uint64, dt float64)

	speed   atomic.Uint64 // float64 bits; 1.0 = real-time, 0 = paused
	running atomic.Bool
}

// NewEngine creates a simulation engine with default settings.
func NewEngine() *Engine {
	e := &Engine{
		Interval: 100 * time.Millisecond,
	}
	e.SetSpeed(1.0)
	return e
}

// Speed returns the current wall-clock speed multiplier.
func (e *Engine) Speed() float64 {
	return math.Float64frombits(e.speed.Load())
}

// SetSpeed changes the wall-clock speed multiplier. 0 pauses the loop.
func (e *Engine) SetSpeed(v float64) {
	e.speed.Store(math.Float64bits(v))
}

// Running reports whether the loop is active.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Run starts the simulation loop. Blocks until Stop() is called.
func (e *Engine) Run() {
	e.running.Store(true)
	slog.Info("simulation engine started", "tick", e.Tick, "speed", e.Speed())

	dt := e.Interval.Seconds()
	for e.running.Load() {
		speed := e.Speed()
		if speed <= 0 {
			// Paused — sleep briefly and check again.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		e.Tick++
		if e.OnStep != nil {
			e.OnStep(e.Tick, dt)
		}

		// Sleep for the remainder of the tick interval, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("simulation engine stopped", "tick", e.Tick)
}

// Stop halts the simulation loop.
func (e *Engine) Stop() {
	e.running.Store(false)
}

// SimTime returns a human-readable simulation clock string for a tick
// number, assuming the given timestep.
func SimTime(tick uint64, interval time.Duration) string {
	total := time.Duration(tick) * interval
	h := int(total.Hours())
	m := int(total.Minutes()) % 60
	s := int(total.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
