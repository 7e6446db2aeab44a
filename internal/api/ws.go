// Websocket observer feed: every tick's snapshot is broadcast to all
// connected clients. Slow clients get dropped rather than stalling the feed.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/laubsauger/streetsim/internal/engine"
)

const (
	feedBuffer   = 8
	writeTimeout = 5 * time.Second
)

type feed struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	nextID  uint64
}

type client struct {
	id  uint64
	out chan []byte
}

func newFeed() *feed {
	return &feed{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
		clients: make(map[*client]struct{}),
	}
}

// publish fans the snapshot out to every client. A client whose buffer is
// full misses the frame; the next one will catch it up.
func (f *feed) publish(snap engine.Snapshot) {
	b, err := json.Marshal(snap)
	if err != nil {
		slog.Error("snapshot marshal failed", "error", err)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for c := range f.clients {
		select {
		case c.out <- b:
		default:
		}
	}
}

func (f *feed) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	c := f.register()
	defer f.unregister(c)
	slog.Info("observer connected", "client", c.id, "remote", r.RemoteAddr)

	// Reader goroutine: only watches for the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			slog.Info("observer disconnected", "client", c.id)
			return
		case b := <-c.out:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				slog.Info("observer write failed", "client", c.id, "error", err)
				return
			}
		}
	}
}

func (f *feed) register() *client {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c := &client{id: f.nextID, out: make(chan []byte, feedBuffer)}
	f.clients[c] = struct{}{}
	return c
}

func (f *feed) unregister(c *client) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.clients, c)
}
