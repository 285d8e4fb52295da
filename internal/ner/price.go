package ner

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/sells-group/shopassist-cli/internal/model"
)

const amount = `\$?(\d+(?:\.\d{2})?)`

// pricePatterns is ordered by template family: minimum bounds, maximum
// bounds, explicit ranges, exact, approximate. Multiple distinct price
// statements in one input are all meaningful, so the extractor never
// deduplicates across templates; the reconciler combines them.
var pricePatterns = []struct {
	pattern    string
	kind       model.PriceKind
	confidence float64
}{
	{`above\s+` + amount, model.PriceMin, 0.95},
	{`over\s+` + amount, model.PriceMin, 0.95},
	{`more\s+than\s+` + amount, model.PriceMin, 0.90},
	{`greater\s+than\s+` + amount, model.PriceMin, 0.90},
	{`at\s+least\s+` + amount, model.PriceMin, 0.90},
	{`minimum\s+` + amount, model.PriceMin, 0.90},
	{amount + `\s*\+`, model.PriceMin, 0.85},

	{`below\s+` + amount, model.PriceMax, 0.95},
	{`under\s+` + amount, model.PriceMax, 0.95},
	{`less\s+than\s+` + amount, model.PriceMax, 0.90},
	{`cheaper\s+than\s+` + amount, model.PriceMax, 0.85},
	{`maximum\s+` + amount, model.PriceMax, 0.90},
	{`up\s+to\s+` + amount, model.PriceMax, 0.90},

	{`between\s+` + amount + `\s+(?:and|to)\s+` + amount, model.PriceRange, 0.95},
	{amount + `\s*-\s*` + amount, model.PriceRange, 0.90},

	{`exactly\s+` + amount, model.PriceExact, 0.90},
	{`around\s+` + amount, model.PriceAround, 0.80},
	{`about\s+` + amount, model.PriceAround, 0.80},
}

// PriceExtractor captures price constraints as structured min/max/range/
// exact/around values.
type PriceExtractor struct {
	patterns []compiledPricePattern
}

type compiledPricePattern struct {
	re         *regexp.Regexp
	kind       model.PriceKind
	confidence float64
}

func NewPriceExtractor() *PriceExtractor {
	pe := &PriceExtractor{}
	for _, p := range pricePatterns {
		pe.patterns = append(pe.patterns, compiledPricePattern{
			re:         regexp.MustCompile(`(?i)` + p.pattern),
			kind:       p.kind,
			confidence: p.confidence,
		})
	}
	return pe
}

func (pe *PriceExtractor) Type() model.EntityType {
	return model.EntityPrice
}

func (pe *PriceExtractor) Extract(text string) []model.EntityExtraction {
	var extractions []model.EntityExtraction

	for _, p := range pe.patterns {
		for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
			first, err := parseAmount(text, m, 1)
			if err != nil {
				continue
			}

			pv := &model.PriceValue{Kind: p.kind, Low: first}
			value := strconv.FormatFloat(first, 'f', -1, 64)

			if p.kind == model.PriceRange {
				second, err := parseAmount(text, m, 2)
				if err != nil {
					continue
				}
				// Captured out of order is repaired, not rejected.
				if second < first {
					first, second = second, first
				}
				pv.Low, pv.High = first, second
				value = fmt.Sprintf("%s-%s",
					strconv.FormatFloat(first, 'f', -1, 64),
					strconv.FormatFloat(second, 'f', -1, 64))
			}

			extractions = append(extractions, model.EntityExtraction{
				Type:       model.EntityPrice,
				Value:      value,
				Price:      pv,
				Confidence: p.confidence,
				Start:      m[0],
				End:        m[1],
				SourceText: text[m[0]:m[1]],
				Strategy:   model.StrategyPattern,
				Metadata:   map[string]string{"price_kind": string(p.kind)},
			})
		}
	}

	return extractions
}

func parseAmount(text string, m []int, group int) (float64, error) {
	start, end := m[2*group], m[2*group+1]
	if start < 0 {
		return 0, fmt.Errorf("empty capture group %d", group)
	}
	return strconv.ParseFloat(text[start:end], 64)
}
