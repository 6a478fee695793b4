package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/mmdatafocus/pos_backend/config"
	"github.com/sirupsen/logrus"
)

// Session is the view state of one open dashboard.
type Session struct {
	Id      string
	Arqueos *ArqueoView
	Sales   *SalesView

	lastSeen time.Time
}

// Sessions keeps a Session per dashboard id and forgets those idle longer than ttl.
type Sessions struct {
	arqueos ArqueoSource
	sales   SalesSource
	opts    Options
	ttl     time.Duration

	mu    sync.Mutex
	items map[string]*Session
}

func NewSessions(arqueos ArqueoSource, sales SalesSource, opts Options, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = config.SessionTTL()
	}
	return &Sessions{
		arqueos: arqueos,
		sales:   sales,
		opts:    opts.withDefaults(),
		ttl:     ttl,
		items:   make(map[string]*Session),
	}
}

// Get returns the session for id, creating it on first use.
func (s *Sessions) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.opts.Now()
	sess, ok := s.items[id]
	if !ok {
		sess = &Session{
			Id:      id,
			Arqueos: NewArqueoView(s.arqueos, s.opts),
			Sales:   NewSalesView(s.sales, s.opts),
		}
		s.items[id] = sess
	}
	sess.lastSeen = now
	return sess
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Sweep drops sessions idle for longer than the ttl and returns how many went.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.opts.Now().Add(-s.ttl)
	removed := 0
	for id, sess := range s.items {
		if sess.lastSeen.Before(cutoff) {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				config.GetLogger().WithFields(logrus.Fields{
					"module":  "dashboard",
					"removed": n,
				}).Info("expired dashboard sessions")
			}
		}
	}
}
