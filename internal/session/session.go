// Package session holds per-conversation preference state keyed by session
// ID, with TTL-based expiry and a hard cap on live sessions.
package session

import (
	"sync"
	"time"

	"github.com/sells-group/shopassist-cli/internal/model"
	"github.com/sells-group/shopassist-cli/internal/prefs"
)

// Session is the mutable state of one conversation. Field access goes
// through the accessor methods; LockTurn serializes whole turns so two
// concurrent messages on the same session cannot interleave.
type Session struct {
	ID        string
	CreatedAt time.Time

	turnMu sync.Mutex

	mu         sync.Mutex
	lastActive time.Time
	state      *model.Preferences
	tracker    *prefs.Tracker
	results    []model.Product
	displayed  int
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		ID:         id,
		CreatedAt:  now,
		lastActive: now,
		state:      model.NewPreferences(),
		tracker:    prefs.NewTracker(),
	}
}

// LockTurn blocks until this session's current turn, if any, finishes.
func (s *Session) LockTurn() { s.turnMu.Lock() }

// UnlockTurn releases the turn lock.
func (s *Session) UnlockTurn() { s.turnMu.Unlock() }

// Snapshot returns a deep copy of the current preference state.
func (s *Session) Snapshot() *model.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Swap installs next as the session state. The reconciler builds next on a
// clone, so a failed turn never calls Swap and the prior state survives.
func (s *Session) Swap(next *model.Preferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = next
}

// Tracker returns the session's provenance tracker.
func (s *Session) Tracker() *prefs.Tracker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker
}

// SetResults stores a fresh result set and returns the first page.
func (s *Session) SetResults(products []model.Product, batch int) []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = products
	s.displayed = 0
	return s.nextPageLocked(batch)
}

// NextResults returns the next page of the stored result set and the count
// still undisplayed after it. An empty page means the set is exhausted.
func (s *Session) NextResults(batch int) ([]model.Product, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	page := s.nextPageLocked(batch)
	return page, len(s.results) - s.displayed
}

func (s *Session) nextPageLocked(batch int) []model.Product {
	if batch <= 0 || s.displayed >= len(s.results) {
		return nil
	}
	end := s.displayed + batch
	if end > len(s.results) {
		end = len(s.results)
	}
	page := s.results[s.displayed:end]
	s.displayed = end
	return page
}

// Reset clears preferences, provenance, and any stored results.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = model.NewPreferences()
	s.tracker.Clear()
	s.results = nil
	s.displayed = 0
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = now
}

func (s *Session) lastActiveAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}
