package prefs

import (
	"sort"
	"sync"
	"time"

	"github.com/sells-group/shopassist-cli/internal/model"
)

// Tracker records, per preference key, which source last asserted it and
// with what confidence. Diagnostics only; filtering never consults it.
type Tracker struct {
	mu      sync.Mutex
	records map[string]model.KeyProvenance
}

// NewTracker returns an empty provenance tracker.
func NewTracker() *Tracker {
	return &Tracker{records: make(map[string]model.KeyProvenance)}
}

// Record overwrites the provenance entry for key.
func (t *Tracker) Record(key string, source model.ExtractionSource, strategy model.Strategy, confidence float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records[key] = model.KeyProvenance{
		Key:        key,
		Source:     source,
		Strategy:   strategy,
		Confidence: confidence,
		UpdatedAt:  time.Now().UTC(),
	}
}

// Get returns the entry for key, if recorded.
func (t *Tracker) Get(key string) (model.KeyProvenance, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	kp, ok := t.records[key]
	return kp, ok
}

// Snapshot returns a copy of all entries keyed by preference key.
func (t *Tracker) Snapshot() map[string]model.KeyProvenance {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]model.KeyProvenance, len(t.records))
	for k, v := range t.records {
		out[k] = v
	}
	return out
}

// Keys returns the recorded keys in sorted order.
func (t *Tracker) Keys() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	keys := make([]string, 0, len(t.records))
	for k := range t.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RecordExtractions stores one provenance entry per entity type present in
// the result, keeping the highest-confidence hit for each.
func RecordExtractions(t *Tracker, result *model.ExtractionResult, source model.ExtractionSource) {
	keys := map[model.EntityType]string{
		model.EntityBrand:     "brands",
		model.EntityColor:     "colors",
		model.EntityCategory:  "categories",
		model.EntityPrice:     "price",
		model.EntityExclusion: "exclusions",
	}

	best := make(map[model.EntityType]model.EntityExtraction)
	for _, e := range result.Extractions {
		if _, tracked := keys[e.Type]; !tracked {
			continue
		}
		if cur, ok := best[e.Type]; !ok || e.Confidence > cur.Confidence {
			best[e.Type] = e
		}
	}

	for typ, e := range best {
		t.Record(keys[typ], source, e.Strategy, e.Confidence)
	}
}

// Clear drops all entries, used when a session resets its preferences.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records = make(map[string]model.KeyProvenance)
}
