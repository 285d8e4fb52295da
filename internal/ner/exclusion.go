package ner

import (
	"regexp"
	"strings"

	"github.com/sells-group/shopassist-cli/internal/model"
)

// ExclusionExtractor detects negative-preference language. The captured
// phrase is raw free text, not a structured entity; the reconciler
// cross-references it against the brand, color, and category sets to find
// the concrete excluded values.
type ExclusionExtractor struct {
	patterns []exclusionRegex
}

type exclusionRegex struct {
	re          *regexp.Regexp
	confidence  float64
	description string
}

func NewExclusionExtractor(tables *Tables) *ExclusionExtractor {
	ee := &ExclusionExtractor{}
	for _, p := range tables.ExclusionPatterns {
		ee.patterns = append(ee.patterns, exclusionRegex{
			re:          regexp.MustCompile(`(?i)` + p.Pattern),
			confidence:  p.Confidence,
			description: p.Description,
		})
	}
	return ee
}

func (ee *ExclusionExtractor) Type() model.EntityType {
	return model.EntityExclusion
}

func (ee *ExclusionExtractor) Extract(text string) []model.EntityExtraction {
	var extractions []model.EntityExtraction

	for _, p := range ee.patterns {
		for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
			if m[2] < 0 {
				continue
			}
			phrase := strings.TrimSpace(text[m[2]:m[3]])
			if phrase == "" {
				continue
			}
			extractions = append(extractions, model.EntityExtraction{
				Type:       model.EntityExclusion,
				Value:      phrase,
				Confidence: p.confidence,
				Start:      m[0],
				End:        m[1],
				SourceText: text[m[0]:m[1]],
				Strategy:   model.StrategyPattern,
				Metadata:   map[string]string{"construction": p.description},
			})
		}
	}

	return extractions
}
