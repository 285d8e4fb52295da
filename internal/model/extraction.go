package model

import (
	"strings"
	"time"
)

// EntityType identifies what kind of value an extraction carries.
type EntityType string

const (
	EntityBrand     EntityType = "brand"
	EntityColor     EntityType = "color"
	EntityCategory  EntityType = "category"
	EntityPrice     EntityType = "price"
	EntityMaterial  EntityType = "material"
	EntityFeature   EntityType = "feature"
	EntityExclusion EntityType = "exclusion"
	EntityUICommand EntityType = "ui_command"
)

// Strategy identifies the technique that produced an extraction.
type Strategy string

const (
	StrategyDictionary Strategy = "dictionary_lookup"
	StrategyPattern    Strategy = "regex_pattern"
	StrategyFuzzy      Strategy = "fuzzy_match"
	StrategyModel      Strategy = "llm_extraction"
)

// PriceKind distinguishes the semantics of a price extraction.
type PriceKind string

const (
	PriceMin    PriceKind = "min"
	PriceMax    PriceKind = "max"
	PriceRange  PriceKind = "range"
	PriceExact  PriceKind = "exact"
	PriceAround PriceKind = "around"
)

// PriceValue is the structured payload of a price extraction. High is only
// set for range extractions.
type PriceValue struct {
	Kind PriceKind `json:"kind"`
	Low  float64   `json:"low"`
	High float64   `json:"high,omitempty"`
}

// EntityExtraction is a single candidate hit produced by one extractor.
// Span offsets index into the source text and are used only for overlap
// deduplication.
type EntityExtraction struct {
	Type       EntityType        `json:"type"`
	Value      string            `json:"value"`
	Price      *PriceValue       `json:"price,omitempty"`
	Confidence float64           `json:"confidence"`
	Start      int               `json:"start"`
	End        int               `json:"end"`
	SourceText string            `json:"source_text"`
	Strategy   Strategy          `json:"strategy"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Overlaps reports whether two extractions cover intersecting text spans.
func (e EntityExtraction) Overlaps(other EntityExtraction) bool {
	return e.Start < other.End && e.End > other.Start
}

// ExtractionResult aggregates all extractions for one input text.
type ExtractionResult struct {
	Text           string             `json:"text"`
	Extractions    []EntityExtraction `json:"extractions"`
	StrategiesUsed []Strategy         `json:"strategies_used"`
	ProcessingTime time.Duration      `json:"processing_time"`
	Errors         []string           `json:"errors,omitempty"`
}

// ByType returns all extractions of the given entity type in input order.
func (r *ExtractionResult) ByType(t EntityType) []EntityExtraction {
	var out []EntityExtraction
	for _, e := range r.Extractions {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// UniqueValuesByType returns the values of the given type sorted by
// confidence descending and deduplicated case-insensitively, highest
// confidence occurrence first. At most limit values are returned when
// limit > 0.
func (r *ExtractionResult) UniqueValuesByType(t EntityType, limit int) []string {
	ext := r.ByType(t)
	sortByConfidence(ext)

	seen := make(map[string]bool, len(ext))
	var out []string
	for _, e := range ext {
		key := strings.ToLower(e.Value)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e.Value)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

func sortByConfidence(ext []EntityExtraction) {
	// Insertion sort keeps equal-confidence hits in input order.
	for i := 1; i < len(ext); i++ {
		for j := i; j > 0 && ext[j].Confidence > ext[j-1].Confidence; j-- {
			ext[j], ext[j-1] = ext[j-1], ext[j]
		}
	}
}
