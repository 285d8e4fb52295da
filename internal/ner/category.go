package ner

import (
	"regexp"

	"github.com/sells-group/shopassist-cli/internal/model"
)

// CategoryExtractor is pattern-only: exact category names at 0.95 plus the
// variation table (singular forms, hyphenations, synonyms) at 0.85. No
// fuzzy pass.
type CategoryExtractor struct {
	patterns []categoryPattern
}

type categoryPattern struct {
	re         *regexp.Regexp
	category   string
	confidence float64
}

// NewCategoryExtractor compiles both pattern sets once up front.
func NewCategoryExtractor(tables *Tables) *CategoryExtractor {
	ce := &CategoryExtractor{}
	for _, category := range tables.Categories {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(category) + `\b`)
		ce.patterns = append(ce.patterns, categoryPattern{re: re, category: category, confidence: 0.95})
	}
	for variation, canonical := range tables.CategoryVariations {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(variation) + `\b`)
		ce.patterns = append(ce.patterns, categoryPattern{re: re, category: canonical, confidence: 0.85})
	}
	return ce
}

func (ce *CategoryExtractor) Type() model.EntityType {
	return model.EntityCategory
}

func (ce *CategoryExtractor) Extract(text string) []model.EntityExtraction {
	var extractions []model.EntityExtraction

	for _, p := range ce.patterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			extractions = append(extractions, model.EntityExtraction{
				Type:       model.EntityCategory,
				Value:      p.category,
				Confidence: p.confidence,
				Start:      loc[0],
				End:        loc[1],
				SourceText: text[loc[0]:loc[1]],
				Strategy:   model.StrategyPattern,
			})
		}
	}

	return dedupeOverlaps(extractions)
}
