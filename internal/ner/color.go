package ner

import (
	"regexp"

	"github.com/sells-group/shopassist-cli/internal/model"
)

// ColorExtractor finds canonical colors by exact dictionary lookup plus a
// synonym pattern pass (burgundy to red, dark blue to navy, and so on).
type ColorExtractor struct {
	tables   *Tables
	patterns []colorPattern
}

type colorPattern struct {
	re    *regexp.Regexp
	color string
}

// NewColorExtractor compiles synonym patterns that resolve to a canonical
// color. Synonyms mapping outside the valid set are skipped.
func NewColorExtractor(tables *Tables) *ColorExtractor {
	ce := &ColorExtractor{tables: tables}
	for variation, canonical := range tables.ColorSynonyms {
		if !tables.IsValidColor(canonical) {
			continue
		}
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(variation) + `\b`)
		ce.patterns = append(ce.patterns, colorPattern{re: re, color: canonical})
	}
	return ce
}

func (ce *ColorExtractor) Type() model.EntityType {
	return model.EntityColor
}

func (ce *ColorExtractor) Extract(text string) []model.EntityExtraction {
	var extractions []model.EntityExtraction

	for _, color := range ce.tables.Colors {
		for _, span := range scanDictionary(text, color) {
			extractions = append(extractions, model.EntityExtraction{
				Type:       model.EntityColor,
				Value:      color,
				Confidence: 0.95,
				Start:      span[0],
				End:        span[1],
				SourceText: text[span[0]:span[1]],
				Strategy:   model.StrategyDictionary,
			})
		}
	}

	for _, p := range ce.patterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			extractions = append(extractions, model.EntityExtraction{
				Type:       model.EntityColor,
				Value:      p.color,
				Confidence: 0.85,
				Start:      loc[0],
				End:        loc[1],
				SourceText: text[loc[0]:loc[1]],
				Strategy:   model.StrategyPattern,
				Metadata:   map[string]string{"synonym": text[loc[0]:loc[1]]},
			})
		}
	}

	return dedupeOverlaps(extractions)
}
