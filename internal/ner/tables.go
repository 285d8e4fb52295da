// Package ner implements multi-strategy entity extraction over free-text
// shopping requests: dictionary lookup, alias/correction patterns, fuzzy
// brand matching, and regex families for prices, exclusions, and UI commands.
package ner

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// ExclusionPattern is one regex template detecting negative-preference
// language. Confidence reflects how certain exclusion intent is for that
// construction.
type ExclusionPattern struct {
	Pattern     string  `yaml:"pattern"`
	Confidence  float64 `yaml:"confidence"`
	Description string  `yaml:"description"`
}

// Tables holds the reference data the extractors and reconciler run
// against. Loaded once at startup and treated as immutable.
type Tables struct {
	Brands     []string `yaml:"brands"`
	Colors     []string `yaml:"colors"`
	Categories []string `yaml:"categories"`

	BrandCorrections   map[string]string `yaml:"brand_corrections"`
	ColorSynonyms      map[string]string `yaml:"color_synonyms"`
	CategoryVariations map[string]string `yaml:"category_variations"`

	ExclusionPatterns []ExclusionPattern `yaml:"exclusion_patterns"`

	FuzzyThreshold         float64 `yaml:"fuzzy_threshold"`
	FuzzyPenalty           float64 `yaml:"fuzzy_penalty"`
	MaxTextLength          int     `yaml:"max_text_length"`
	MaxEntitiesPerType     int     `yaml:"max_entities_per_type"`
	MinConfidenceBrand     float64 `yaml:"min_confidence_brand"`
	MinConfidenceColor     float64 `yaml:"min_confidence_color"`
	MinConfidenceCategory  float64 `yaml:"min_confidence_category"`
	MinConfidenceExclusion float64 `yaml:"min_confidence_exclusion"`
}

// DefaultTables returns the built-in reference data for the bag catalog.
func DefaultTables() *Tables {
	return &Tables{
		Brands: []string{
			"1978W", "Active Flex", "Alan Pinkus", "Amelia Lane", "American Tourister",
			"Armani Exchange", "Australian House & Garden", "Basque", "Belle & Bloom",
			"Billabong", "Boutique Retailer", "Calvin Klein", "Cellini", "Cellini Sport",
			"Commonry", "Country Road", "Creed", "David Lawrence", "Delsey", "Disney",
			"Dune London", "Elliker", "emerge Woman", "Fella Hamilton", "Fine Day",
			"Forever New", "Fossil", "GAP", "Guess", "Hedgren", "Hot Wheels",
			"Jane Debster", "Joan Weisz", "Kinnon", "La Enviro", "Lacoste",
			"Lauren Ralph Lauren", "Levi's", "Madison Accessories", "Maine & Crawford",
			"Marcs", "Maxwell & Williams", "Milleni", "Mimco", "Mocha",
			"Morgan & Taylor", "Nakedvice", "NINA", "Nine West", "Novo Shoes", "OiOi",
			"Olga Berg", "Oxford", "PIERRE CARDIN", "PINK INC", "Piper", "Prairie",
			"Radley", "Ravella", "Rebecca Minkoff", "REVIEW", "Roxy", "RVCA",
			"Samsonite", "Sandler", "Sass & Bide", "Scala", "Seafolly", "Seed Heritage",
			"Senso", "Status Anxiety", "Steve Madden", "Taking Shape", "TATONKA",
			"Tokito", "Tommy Hilfiger", "Tonic", "Trenery", "Trent Nathan", "Unison",
			"Wishes", "Witchery", "Yellow Drama",
		},
		Colors: []string{
			"black", "brown", "blue", "red", "green", "yellow",
			"white", "grey", "gray", "pink", "purple", "orange",
			"beige", "navy", "cream", "tan", "gold", "silver",
		},
		Categories: []string{
			"tote bags", "shoulder bags", "duffle bags", "backpacks", "clutches",
			"crossbody bags", "handbag", "messenger", "satchel", "laptop bag",
			"briefcase", "wristlet", "wallet", "purse",
		},
		BrandCorrections: map[string]string{
			"ck":           "Calvin Klein",
			"calvin":       "Calvin Klein",
			"rm":           "Rebecca Minkoff",
			"th":           "Tommy Hilfiger",
			"tommy":        "Tommy Hilfiger",
			"pierre":       "PIERRE CARDIN",
			"ralph lauren": "Lauren Ralph Lauren",
			"american t":   "American Tourister",
			"fossil bag":   "Fossil",
			"guess bag":    "Guess",
		},
		ColorSynonyms: map[string]string{
			"grey":         "gray",
			"gray":         "grey",
			"dark blue":    "navy",
			"light blue":   "blue",
			"sky blue":     "blue",
			"royal blue":   "blue",
			"dark red":     "red",
			"burgundy":     "red",
			"maroon":       "red",
			"crimson":      "red",
			"off-white":    "cream",
			"off white":    "cream",
			"ivory":        "cream",
			"champagne":    "cream",
			"beige":        "tan",
			"khaki":        "tan",
			"olive":        "green",
			"forest green": "green",
			"lime":         "green",
			"mint":         "green",
			"lavender":     "purple",
			"violet":       "purple",
			"magenta":      "pink",
			"rose":         "pink",
			"coral":        "orange",
			"peach":        "orange",
			"bronze":       "gold",
			"copper":       "gold",
		},
		CategoryVariations: map[string]string{
			"tote":          "tote bags",
			"totes":         "tote bags",
			"tote bag":      "tote bags",
			"crossbody":     "crossbody bags",
			"cross-body":    "crossbody bags",
			"cross body":    "crossbody bags",
			"crossbody bag": "crossbody bags",
			"shoulder":      "shoulder bags",
			"shoulder bag":  "shoulder bags",
			"backpack":      "backpacks",
			"back pack":     "backpacks",
			"knapsack":      "backpacks",
			"rucksack":      "backpacks",
			"clutch":        "clutches",
			"clutch bag":    "clutches",
			"evening bag":   "clutches",
			"duffle":        "duffle bags",
			"duffel":        "duffle bags",
			"duffle bag":    "duffle bags",
			"duffel bag":    "duffle bags",
			"gym bag":       "duffle bags",
			"travel bag":    "duffle bags",
			"laptop":        "laptop bag",
			"computer bag":  "laptop bag",
			"brief case":    "briefcase",
			"brief-case":    "briefcase",
			"attache":       "briefcase",
			"messenger bag": "messenger",
			"satchel bag":   "satchel",
			"hand bag":      "handbag",
			"pocketbook":    "purse",
			"billfold":      "wallet",
			"mini bag":      "wristlet",
			"pouch":         "wristlet",
		},
		ExclusionPatterns: []ExclusionPattern{
			{Pattern: `excluding\s+([^.]+)`, Confidence: 0.95, Description: `direct exclusion with "excluding"`},
			{Pattern: `don'?t\s+want\s+([^.]+)`, Confidence: 0.90, Description: `negative preference with "don't want"`},
			{Pattern: `no\s+([a-z]+(?:\s+[a-z]+)*)\s+bags?`, Confidence: 0.85, Description: `negative with "no [item] bags"`},
			{Pattern: `avoid\s+([^.]+)`, Confidence: 0.90, Description: `avoidance instruction`},
			{Pattern: `not\s+([a-z]+(?:\s+[a-z]+)*)\s+bags?`, Confidence: 0.80, Description: `negative with "not [item] bags"`},
			{Pattern: `everything\s+but\s+(?:not\s+)?([a-z]+(?:\s+[a-z]+)*)`, Confidence: 0.85, Description: `exception with "everything but"`},
			{Pattern: `anything\s+except\s+([^.]+)`, Confidence: 0.85, Description: `exception with "anything except"`},
			{Pattern: `anything\s+but\s+(?:not\s+)?([a-z]+(?:\s+[a-z]+)*)`, Confidence: 0.85, Description: `exception with "anything but"`},
			{Pattern: `but\s+not\s+([a-z]+(?:\s+[a-z]+)*)\s+(?:bags?|ones?)`, Confidence: 0.85, Description: `trailing "but not [item] ones"`},
			{Pattern: `any\s+bag\s+except\s+([a-z]+(?:\s+[a-z]+)*(?:\s+colou?rs?)?)`, Confidence: 0.85, Description: `compound "any bag except"`},
			{Pattern: `except\s+([a-z]+(?:\s+[a-z]+)*(?:\s+colou?rs?)?)`, Confidence: 0.85, Description: `bare "except"`},
			{Pattern: `any\s+colou?rs?\s+excluding\s+([^.]+)`, Confidence: 0.90, Description: `compound "any colours excluding"`},
			{Pattern: `any\s+colou?rs?\s+but\s+(?:not\s+)?([a-z]+(?:\s+[a-z]+)*)`, Confidence: 0.85, Description: `compound "any colours but"`},
			{Pattern: `I\s+hate\s+([^.]+)`, Confidence: 0.75, Description: `strong negative preference`},
			{Pattern: `dislike\s+([^.]+)`, Confidence: 0.70, Description: `mild negative preference`},
			{Pattern: `never\s+([^.]+)`, Confidence: 0.80, Description: `absolute avoidance`},
		},
		FuzzyThreshold:         0.8,
		FuzzyPenalty:           0.7,
		MaxTextLength:          10000,
		MaxEntitiesPerType:     10,
		MinConfidenceBrand:     0.7,
		MinConfidenceColor:     0.8,
		MinConfidenceCategory:  0.75,
		MinConfidenceExclusion: 0.85,
	}
}

// LoadTables reads a YAML override file. Fields left empty in the file keep
// their built-in defaults.
func LoadTables(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ner: read tables %s", path)
	}

	t := DefaultTables()
	var override Tables
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, eris.Wrapf(err, "ner: parse tables %s", path)
	}
	t.merge(&override)
	return t, nil
}

func (t *Tables) merge(o *Tables) {
	if len(o.Brands) > 0 {
		t.Brands = o.Brands
	}
	if len(o.Colors) > 0 {
		t.Colors = o.Colors
	}
	if len(o.Categories) > 0 {
		t.Categories = o.Categories
	}
	if len(o.BrandCorrections) > 0 {
		t.BrandCorrections = o.BrandCorrections
	}
	if len(o.ColorSynonyms) > 0 {
		t.ColorSynonyms = o.ColorSynonyms
	}
	if len(o.CategoryVariations) > 0 {
		t.CategoryVariations = o.CategoryVariations
	}
	if len(o.ExclusionPatterns) > 0 {
		t.ExclusionPatterns = o.ExclusionPatterns
	}
	if o.FuzzyThreshold > 0 {
		t.FuzzyThreshold = o.FuzzyThreshold
	}
	if o.FuzzyPenalty > 0 {
		t.FuzzyPenalty = o.FuzzyPenalty
	}
	if o.MaxTextLength > 0 {
		t.MaxTextLength = o.MaxTextLength
	}
	if o.MaxEntitiesPerType > 0 {
		t.MaxEntitiesPerType = o.MaxEntitiesPerType
	}
	if o.MinConfidenceBrand > 0 {
		t.MinConfidenceBrand = o.MinConfidenceBrand
	}
	if o.MinConfidenceColor > 0 {
		t.MinConfidenceColor = o.MinConfidenceColor
	}
	if o.MinConfidenceCategory > 0 {
		t.MinConfidenceCategory = o.MinConfidenceCategory
	}
	if o.MinConfidenceExclusion > 0 {
		t.MinConfidenceExclusion = o.MinConfidenceExclusion
	}
}

// ResolveBrand maps a candidate to its canonical brand, first by exact
// case-insensitive match against the valid set, then via the correction
// table. Returns "" when the candidate cannot be resolved.
func (t *Tables) ResolveBrand(candidate string) string {
	folded := foldValue(candidate)
	for _, b := range t.Brands {
		if foldValue(b) == folded {
			return b
		}
	}
	if canonical, ok := t.BrandCorrections[folded]; ok {
		return canonical
	}
	return ""
}

// ResolveCategory maps a candidate to its canonical category via exact
// match or the variation table. Returns "" when unresolvable.
func (t *Tables) ResolveCategory(candidate string) string {
	folded := foldValue(candidate)
	for _, c := range t.Categories {
		if foldValue(c) == folded {
			return c
		}
	}
	if canonical, ok := t.CategoryVariations[folded]; ok {
		return canonical
	}
	return ""
}

// IsValidColor reports case-insensitive membership in the color set.
func (t *Tables) IsValidColor(candidate string) bool {
	folded := foldValue(candidate)
	for _, c := range t.Colors {
		if foldValue(c) == folded {
			return true
		}
	}
	return false
}
