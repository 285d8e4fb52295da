package ner

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sells-group/shopassist-cli/internal/model"
)

// BrandExtractor finds brand names using three strategies: exact dictionary
// lookup, compiled correction patterns for abbreviations and misspellings,
// and fuzzy matching of individual words against the brand set.
type BrandExtractor struct {
	tables   *Tables
	patterns []brandPattern
}

type brandPattern struct {
	re         *regexp.Regexp
	brand      string
	confidence float64
	corrected  bool
}

// NewBrandExtractor compiles the correction patterns once up front.
func NewBrandExtractor(tables *Tables) *BrandExtractor {
	be := &BrandExtractor{tables: tables}
	for abbrev, brand := range tables.BrandCorrections {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(abbrev) + `\b`)
		be.patterns = append(be.patterns, brandPattern{re: re, brand: brand, confidence: 0.85, corrected: true})
	}
	return be
}

func (be *BrandExtractor) Type() model.EntityType {
	return model.EntityBrand
}

func (be *BrandExtractor) Extract(text string) []model.EntityExtraction {
	var extractions []model.EntityExtraction

	// Exact dictionary hits.
	for _, brand := range be.tables.Brands {
		for _, span := range scanDictionary(text, brand) {
			extractions = append(extractions, model.EntityExtraction{
				Type:       model.EntityBrand,
				Value:      brand,
				Confidence: 0.95,
				Start:      span[0],
				End:        span[1],
				SourceText: text[span[0]:span[1]],
				Strategy:   model.StrategyDictionary,
			})
		}
	}

	// Abbreviation and misspelling patterns.
	for _, p := range be.patterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			extractions = append(extractions, model.EntityExtraction{
				Type:       model.EntityBrand,
				Value:      p.brand,
				Confidence: p.confidence,
				Start:      loc[0],
				End:        loc[1],
				SourceText: text[loc[0]:loc[1]],
				Strategy:   model.StrategyPattern,
				Metadata:   map[string]string{"correction_applied": fmt.Sprintf("%t", p.corrected)},
			})
		}
	}

	// Fuzzy pass over individual words.
	for _, tok := range tokenizeWords(text) {
		brand, similarity := be.fuzzyMatch(tok.word)
		if similarity <= be.tables.FuzzyThreshold {
			continue
		}
		extractions = append(extractions, model.EntityExtraction{
			Type:       model.EntityBrand,
			Value:      brand,
			Confidence: similarity * be.tables.FuzzyPenalty,
			Start:      tok.start,
			End:        tok.start + len(tok.word),
			SourceText: tok.word,
			Strategy:   model.StrategyFuzzy,
			Metadata:   map[string]string{"similarity": fmt.Sprintf("%.3f", similarity)},
		})
	}

	return dedupeOverlaps(extractions)
}

// fuzzyMatch returns the best-matching brand for a word, comparing against
// whole brand names and against each word of multi-word brands.
func (be *BrandExtractor) fuzzyMatch(word string) (string, float64) {
	wordLower := strings.ToLower(word)

	var best string
	var bestSim float64
	for _, brand := range be.tables.Brands {
		brandLower := strings.ToLower(brand)
		sim := similarityRatio(wordLower, brandLower)
		for _, bw := range strings.Fields(brandLower) {
			if s := similarityRatio(wordLower, bw); s > sim {
				sim = s
			}
		}
		if sim > bestSim {
			bestSim = sim
			best = brand
		}
	}
	return best, bestSim
}
