package server

import (
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"netcheck/internal/models"
)

const (
	liveWriteTimeout = 5 * time.Second
	liveBuffer       = 16
)

var liveUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		host := strings.ToLower(strings.TrimSpace(r.Host))
		originHost := strings.ToLower(strings.TrimSpace(u.Host))
		return host == originHost
	},
}

// LiveFeed fans cycle records out to connected websocket clients.
type LiveFeed struct {
	mu      sync.Mutex
	clients map[chan models.CycleRecord]struct{}
}

// NewLiveFeed creates an empty feed.
func NewLiveFeed() *LiveFeed {
	return &LiveFeed{clients: make(map[chan models.CycleRecord]struct{})}
}

// Record pushes a record to every subscriber. Subscribers with a full buffer
// skip the record.
func (f *LiveFeed) Record(record models.CycleRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for ch := range f.clients {
		select {
		case ch <- record:
		default:
		}
	}
}

// Subscribers reports the number of connected clients.
func (f *LiveFeed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

func (f *LiveFeed) subscribe() chan models.CycleRecord {
	ch := make(chan models.CycleRecord, liveBuffer)
	f.mu.Lock()
	f.clients[ch] = struct{}{}
	f.mu.Unlock()
	return ch
}

func (f *LiveFeed) unsubscribe(ch chan models.CycleRecord) {
	f.mu.Lock()
	delete(f.clients, ch)
	f.mu.Unlock()
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := liveUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Debug("live upgrade failed")
		return
	}
	s.serveLiveConnection(conn)
}

func (s *Server) serveLiveConnection(conn *websocket.Conn) {
	defer conn.Close()

	updates := s.live.subscribe()
	defer s.live.unsubscribe(updates)

	if latest, ok := s.store.Latest(); ok {
		if err := writeLivePayload(conn, latest); err != nil {
			return
		}
	}

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
		case record := <-updates:
			if err := writeLivePayload(conn, record); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func writeLivePayload(conn *websocket.Conn, record models.CycleRecord) error {
	_ = conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
	return conn.WriteJSON(record)
}
