// Package api serves the simulation state over HTTP: read-only JSON
// endpoints for dashboards plus a websocket feed pushing tick snapshots.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/laubsauger/streetsim/internal/engine"
	"github.com/laubsauger/streetsim/internal/persistence"
)

// Server serves simulation state over HTTP.
type Server struct {
	Sim   *engine.Simulation
	Eng   *engine.Engine
	DB    *persistence.DB
	Addr  string
	RunID string

	feed *feed
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	s.feed = newFeed()

	limiter := newRateLimiter(60, time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/layout", s.handleLayout)
	mux.HandleFunc("/api/v1/actors", s.handleActors)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/stats", s.handleStats)
	mux.HandleFunc("/api/v1/speed", s.handleSpeed)
	mux.HandleFunc("/api/v1/ws", limiter.wrap(s.feed.handleWS))

	slog.Info("HTTP API starting", "addr", s.Addr)
	go func() {
		if err := http.ListenAndServe(s.Addr, mux); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// Publish pushes a snapshot to all websocket observers. Call once per tick.
func (s *Server) Publish(snap engine.Snapshot) {
	if s.feed != nil {
		s.feed.publish(snap)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.Sim.Snapshot()
	writeJSON(w, map[string]any{
		"name":      "streetsim",
		"run_id":    s.RunID,
		"tick":      snap.Tick,
		"sim_time":  snap.Clock,
		"speed":     s.Eng.Speed(),
		"running":   s.Eng.Running(),
		"residents": snap.Stats.Residents,
		"vehicles":  snap.Stats.Vehicles,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Layout)
}

func (s *Server) handleActors(w http.ResponseWriter, r *http.Request) {
	snap := s.Sim.Snapshot()

	actors := snap.Actors
	if kind := r.URL.Query().Get("kind"); kind != "" {
		var filtered []engine.ActorSnapshot
		for _, a := range actors {
			if a.Kind == kind {
				filtered = append(filtered, a)
			}
		}
		actors = filtered
	}
	writeJSON(w, actors)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	if s.DB != nil {
		events, err := s.DB.RecentEvents(limit)
		if err != nil {
			slog.Error("event query failed", "error", err)
			http.Error(w, "event query failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, events)
		return
	}

	// No database: serve the snapshot's recent window.
	events := s.Sim.Snapshot().Events
	if len(events) > limit {
		events = events[len(events)-limit:]
	}
	writeJSON(w, events)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Snapshot().Stats)
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		var req struct {
			Speed float64 `json:"speed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Speed < 0 || req.Speed > 100 {
			http.Error(w, "speed must be 0-100", http.StatusBadRequest)
			return
		}
		s.Eng.SetSpeed(req.Speed)
		slog.Info("speed changed", "speed", req.Speed)
	}

	writeJSON(w, map[string]float64{"speed": s.Eng.Speed()})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		slog.Debug("response encode failed", "error", err)
	}
}

// newRateLimiter allows max requests per ip per window.
func newRateLimiter(max int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		max:     max,
		window:  window,
		buckets: make(map[string]*bucket),
	}
}

func (rl *rateLimiter) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(r.RemoteAddr) {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(rl.window.Seconds())))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}
