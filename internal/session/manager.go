package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/algocanvas/algocanvas/internal/metrics"
)

// Manager defaults.
const (
	DefaultIdleTTL     = 30 * time.Minute
	DefaultMaxSessions = 100
)

// Info summarises a session for listings.
type Info struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

// Manager is the registry of live sessions. Each session runs its own loop;
// the manager only creates, finds and evicts them.
type Manager struct {
	cfg         Config
	idleTTL     time.Duration
	maxSessions int
	log         *logrus.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
	onRemove func(id string)

	ctx    context.Context
	cancel context.CancelFunc
}

// NewManager creates an empty registry.
func NewManager(cfg Config, idleTTL time.Duration, maxSessions int) *Manager {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}

	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}

	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		cfg:         cfg,
		idleTTL:     idleTTL,
		maxSessions: maxSessions,
		log:         cfg.Log,
		sessions:    make(map[string]*Session),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Create starts a new session.
func (m *Manager) Create() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) >= m.maxSessions {
		return nil, ErrTooMany
	}

	s := New(uuid.NewString(), m.cfg)
	m.sessions[s.ID()] = s

	go s.Run(m.ctx)

	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	m.log.WithField("session_id", s.ID()).Info("session created")

	return s, nil
}

// OnRemove registers fn to be called after a session is deleted or evicted.
func (m *Manager) OnRemove(fn func(id string)) {
	m.mu.Lock()
	m.onRemove = fn
	m.mu.Unlock()
}

func (m *Manager) removed(id string) {
	m.mu.RLock()
	fn := m.onRemove
	m.mu.RUnlock()

	if fn != nil {
		fn(id)
	}
}

// Get looks up a session by id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}

	return s, nil
}

// Delete closes and forgets a session.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	n := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}

	s.Close()
	m.removed(id)
	metrics.ActiveSessions.Set(float64(n))
	m.log.WithField("session_id", id).Info("session deleted")

	return nil
}

// List returns every live session, oldest first.
func (m *Manager) List() []Info {
	m.mu.RLock()
	out := make([]Info, 0, len(m.sessions))

	for _, s := range m.sessions {
		out = append(out, Info{ID: s.ID(), CreatedAt: s.CreatedAt(), LastActive: s.LastActive()})
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	return out
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}

// Run evicts idle sessions until ctx is cancelled. Call in a goroutine.
func (m *Manager) Run(ctx context.Context) {
	interval := m.idleTTL / 2
	if interval > time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.EvictIdle(now)
		}
	}
}

// EvictIdle closes every session that has been inactive longer than the idle
// TTL at now and returns how many were removed.
func (m *Manager) EvictIdle(now time.Time) int {
	var stale []*Session

	m.mu.Lock()
	for id, s := range m.sessions {
		if now.Sub(s.LastActive()) > m.idleTTL {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()

	for _, s := range stale {
		s.Close()
		m.removed(s.ID())
		m.log.WithField("session_id", s.ID()).Info("idle session evicted")
	}

	if len(stale) > 0 {
		metrics.ActiveSessions.Set(float64(n))
	}

	return len(stale)
}

// Shutdown stops every session loop and waits for them to exit.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))

	for id, s := range m.sessions {
		sessions = append(sessions, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	m.cancel()

	for _, s := range sessions {
		<-s.Done()
	}

	metrics.ActiveSessions.Set(0)
}
