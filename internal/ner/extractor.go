package ner

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/sells-group/shopassist-cli/internal/model"
)

// Extractor scans one input text for a single entity type. Implementations
// are pure functions of the text and the reference tables; they hold no
// mutable state and are safe for concurrent use.
type Extractor interface {
	Type() model.EntityType
	Extract(text string) []model.EntityExtraction
}

var folder = cases.Fold()

// foldValue normalizes a value for case-insensitive comparison.
func foldValue(s string) string {
	return folder.String(strings.TrimSpace(s))
}

// dedupeOverlaps sorts candidates by confidence descending and greedily
// keeps each one only if its span does not overlap an already-kept span, so
// every overlapping text region yields exactly one extraction, always the
// highest-confidence one.
func dedupeOverlaps(extractions []model.EntityExtraction) []model.EntityExtraction {
	if len(extractions) == 0 {
		return extractions
	}

	sort.SliceStable(extractions, func(i, j int) bool {
		return extractions[i].Confidence > extractions[j].Confidence
	})

	var kept []model.EntityExtraction
	for _, e := range extractions {
		overlapping := false
		for _, k := range kept {
			if e.Overlaps(k) {
				overlapping = true
				break
			}
		}
		if !overlapping {
			kept = append(kept, e)
		}
	}
	return kept
}

// isWordBoundary reports whether the byte positions just before start and at
// end are non-alphanumeric, i.e. [start,end) covers whole words.
func isWordBoundary(text string, start, end int) bool {
	if start > 0 && isAlnum(text[start-1]) {
		return false
	}
	if end < len(text) && isAlnum(text[end]) {
		return false
	}
	return true
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// scanDictionary finds every word-bounded occurrence of value in text
// (case-insensitive) and returns the match spans.
func scanDictionary(text, value string) [][2]int {
	textLower := strings.ToLower(text)
	valueLower := strings.ToLower(value)

	var spans [][2]int
	start := 0
	for {
		pos := strings.Index(textLower[start:], valueLower)
		if pos == -1 {
			break
		}
		pos += start
		end := pos + len(valueLower)
		if isWordBoundary(text, pos, end) {
			spans = append(spans, [2]int{pos, end})
		}
		start = pos + 1
	}
	return spans
}

// tokenizeWords splits text into alphanumeric word tokens with their start
// offsets.
func tokenizeWords(text string) []wordToken {
	var tokens []wordToken
	i := 0
	for i < len(text) {
		if !isAlnum(text[i]) {
			i++
			continue
		}
		start := i
		for i < len(text) && isAlnum(text[i]) {
			i++
		}
		tokens = append(tokens, wordToken{word: text[start:i], start: start})
	}
	return tokens
}

type wordToken struct {
	word  string
	start int
}
