package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config controls session lifetime and capacity.
type Config struct {
	TTL             time.Duration
	CleanupInterval time.Duration
	MaxSessions     int
}

// DefaultConfig matches one shopping day of idle time per session.
func DefaultConfig() Config {
	return Config{
		TTL:             24 * time.Hour,
		CleanupInterval: time.Hour,
		MaxSessions:     1000,
	}
}

// Manager owns the live session set. A janitor goroutine drops sessions
// idle past the TTL; GetOrCreate evicts the least recently active session
// when the cap is hit.
type Manager struct {
	cfg Config

	mu       sync.RWMutex
	sessions map[string]*Session

	nowFunc func() time.Time
	stop    chan struct{}
	stopped sync.Once
}

// NewManager creates a manager and starts its cleanup loop.
func NewManager(cfg Config) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultConfig().TTL
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultConfig().CleanupInterval
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultConfig().MaxSessions
	}

	m := &Manager{
		cfg:      cfg,
		sessions: make(map[string]*Session),
		nowFunc:  time.Now,
		stop:     make(chan struct{}),
	}
	go m.janitor()
	return m
}

// GetOrCreate returns the session for id, creating it if absent. An empty
// id allocates a fresh session under a new UUID.
func (m *Manager) GetOrCreate(id string) *Session {
	now := m.nowFunc()

	if id != "" {
		m.mu.RLock()
		s, ok := m.sessions[id]
		m.mu.RUnlock()
		if ok {
			s.touch(now)
			return s
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = uuid.NewString()
	} else if s, ok := m.sessions[id]; ok {
		s.touch(now)
		return s
	}

	if len(m.sessions) >= m.cfg.MaxSessions {
		m.evictOldestLocked()
	}

	s := newSession(id, now)
	m.sessions[id] = s
	zap.L().Debug("session created", zap.String("session_id", id))
	return s
}

// Get returns the session for id without creating one.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Delete removes the session for id.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len returns the live session count.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close stops the cleanup loop. Idempotent.
func (m *Manager) Close() {
	m.stopped.Do(func() { close(m.stop) })
}

func (m *Manager) janitor() {
	ticker := time.NewTicker(m.cfg.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			if n := m.cleanupExpired(); n > 0 {
				zap.L().Info("expired sessions removed", zap.Int("count", n))
			}
		}
	}
}

func (m *Manager) cleanupExpired() int {
	cutoff := m.nowFunc().Add(-m.cfg.TTL)

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if s.lastActiveAt().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

func (m *Manager) evictOldestLocked() {
	var oldestID string
	var oldestAt time.Time
	for id, s := range m.sessions {
		at := s.lastActiveAt()
		if oldestID == "" || at.Before(oldestAt) {
			oldestID, oldestAt = id, at
		}
	}
	if oldestID != "" {
		delete(m.sessions, oldestID)
		zap.L().Warn("session cap reached, evicting least recently active",
			zap.String("session_id", oldestID))
	}
}
