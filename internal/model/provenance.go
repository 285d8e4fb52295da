package model

import "time"

// ExtractionSource identifies which path asserted a preference value.
type ExtractionSource string

const (
	SourcePipeline ExtractionSource = "ner_pipeline"
	SourceFallback ExtractionSource = "llm_fallback"
)

// KeyProvenance records how a preference key's current value was
// established. It is overwritten whenever the key is reasserted and is used
// only for diagnostics, never to gate filtering.
type KeyProvenance struct {
	Key        string           `json:"key"`
	Source     ExtractionSource `json:"source"`
	Strategy   Strategy         `json:"strategy,omitempty"`
	Confidence float64          `json:"confidence"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// Reliable reports whether the recorded confidence clears the reliability
// threshold used for diagnostics display.
func (kp KeyProvenance) Reliable() bool {
	return kp.Confidence > 0.7
}

// Diagnostics is the machine-readable view of extraction state exposed
// alongside the human summary.
type Diagnostics struct {
	StrategiesUsed []Strategy               `json:"strategies_used"`
	Provenance     map[string]KeyProvenance `json:"provenance"`
	ProcessingTime time.Duration            `json:"processing_time"`
	Warnings       []string                 `json:"warnings,omitempty"`
}
