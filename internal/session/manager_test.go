package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/shopassist-cli/internal/model"
)

func newTestManager(t *testing.T, cfg Config) *Manager {
	t.Helper()
	m := NewManager(cfg)
	t.Cleanup(m.Close)
	return m
}

func TestGetOrCreate_NewIDWhenEmpty(t *testing.T) {
	m := newTestManager(t, Config{})

	s := m.GetOrCreate("")
	require.NotNil(t, s)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, 1, m.Len())

	again := m.GetOrCreate(s.ID)
	assert.Same(t, s, again)
	assert.Equal(t, 1, m.Len())
}

func TestGetOrCreate_SessionsAreIsolated(t *testing.T) {
	m := newTestManager(t, Config{})

	a := m.GetOrCreate("a")
	b := m.GetOrCreate("b")

	next := a.Snapshot()
	next.Colors = []string{"blue"}
	a.Swap(next)

	assert.Equal(t, []string{"blue"}, a.Snapshot().Colors)
	assert.Empty(t, b.Snapshot().Colors)
}

func TestGet_DoesNotCreate(t *testing.T) {
	m := newTestManager(t, Config{})

	_, ok := m.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestDelete(t *testing.T) {
	m := newTestManager(t, Config{})
	m.GetOrCreate("a")

	m.Delete("a")

	_, ok := m.Get("a")
	assert.False(t, ok)
}

func TestCleanupExpired(t *testing.T) {
	m := newTestManager(t, Config{TTL: time.Hour})

	now := time.Now()
	m.nowFunc = func() time.Time { return now }
	m.GetOrCreate("old")
	m.GetOrCreate("fresh")

	// Age only the old session past the TTL.
	m.nowFunc = func() time.Time { return now.Add(2 * time.Hour) }
	m.GetOrCreate("fresh")

	removed := m.cleanupExpired()
	assert.Equal(t, 1, removed)
	_, ok := m.Get("old")
	assert.False(t, ok)
	_, ok = m.Get("fresh")
	assert.True(t, ok)
}

func TestGetOrCreate_EvictsOldestAtCap(t *testing.T) {
	m := newTestManager(t, Config{MaxSessions: 2})

	now := time.Now()
	m.nowFunc = func() time.Time { return now }
	m.GetOrCreate("first")

	m.nowFunc = func() time.Time { return now.Add(time.Minute) }
	m.GetOrCreate("second")

	m.nowFunc = func() time.Time { return now.Add(2 * time.Minute) }
	m.GetOrCreate("third")

	assert.Equal(t, 2, m.Len())
	_, ok := m.Get("first")
	assert.False(t, ok)
	_, ok = m.Get("second")
	assert.True(t, ok)
}

func TestSession_Pagination(t *testing.T) {
	s := newSession("s", time.Now())

	products := make([]model.Product, 8)
	for i := range products {
		products[i] = model.Product{ID: string(rune('a' + i))}
	}

	first := s.SetResults(products, 6)
	require.Len(t, first, 6)
	assert.Equal(t, "a", first[0].ID)

	second, remaining := s.NextResults(6)
	require.Len(t, second, 2)
	assert.Equal(t, "g", second[0].ID)
	assert.Equal(t, 0, remaining)

	third, _ := s.NextResults(6)
	assert.Empty(t, third)
}

func TestSession_SetResultsRestartsPaging(t *testing.T) {
	s := newSession("s", time.Now())

	s.SetResults([]model.Product{{ID: "a"}, {ID: "b"}}, 1)
	s.SetResults([]model.Product{{ID: "x"}, {ID: "y"}}, 1)

	page, remaining := s.NextResults(1)
	require.Len(t, page, 1)
	assert.Equal(t, "y", page[0].ID)
	assert.Equal(t, 0, remaining)
}

func TestSession_Reset(t *testing.T) {
	s := newSession("s", time.Now())

	next := s.Snapshot()
	next.Brands = []string{"Guess"}
	s.Swap(next)
	s.Tracker().Record("brands", model.SourcePipeline, model.StrategyDictionary, 0.95)
	s.SetResults([]model.Product{{ID: "a"}}, 6)

	s.Reset()

	assert.True(t, s.Snapshot().IsEmpty())
	assert.Empty(t, s.Tracker().Keys())
	page, _ := s.NextResults(6)
	assert.Empty(t, page)
}
