// Package catalog filters and stores the product inventory the assistant
// searches against.
package catalog

import (
	"strings"

	"github.com/sells-group/shopassist-cli/internal/model"
)

// Matches reports whether the product satisfies every positive constraint
// and trips none of the exclusions. Any excluded hit rejects outright.
func Matches(p model.Product, state *model.Preferences) bool {
	if state == nil {
		return true
	}

	if state.PriceMax != nil && p.Price > *state.PriceMax {
		return false
	}
	if state.PriceMin != nil && p.Price < *state.PriceMin {
		return false
	}

	brand := strings.ToLower(p.Brand)
	if len(state.Brands) > 0 && !anyContained(brand, state.Brands) {
		return false
	}
	if anyContained(brand, state.ExcludedBrands) {
		return false
	}

	text := strings.ToLower(p.SearchableText())
	if len(state.Colors) > 0 && !anyContained(text, state.Colors) {
		return false
	}
	for _, c := range state.ExcludedColors {
		if strings.Contains(text, strings.ToLower(c)) {
			return false
		}
	}

	if len(state.Categories) > 0 {
		matched := false
		for _, cat := range state.Categories {
			if categoryMatches(text, cat) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	for _, cat := range state.ExcludedCategories {
		if categoryMatches(text, cat) {
			return false
		}
	}

	for _, m := range state.ExcludedMaterials {
		if strings.Contains(text, strings.ToLower(m)) {
			return false
		}
	}
	if len(state.Materials) > 0 && !anyContained(text, state.Materials) {
		return false
	}

	return true
}

func anyContained(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

// categoryMatches tests a category name against product text, tolerating
// plural/singular shifts ("tote bags" vs "tote bag" vs "tote", "clutches"
// vs "clutch") and crossbody hyphenation either direction.
func categoryMatches(text, category string) bool {
	cat := strings.ToLower(category)
	for _, candidate := range categoryForms(cat) {
		if strings.Contains(text, candidate) {
			return true
		}
	}
	return false
}

func categoryForms(cat string) []string {
	forms := []string{cat}

	if strings.HasSuffix(cat, "s") {
		singular := cat[:len(cat)-1]
		forms = append(forms, singular)
		if strings.HasSuffix(singular, " bag") {
			forms = append(forms, strings.TrimSuffix(singular, " bag"))
		}
		if strings.HasSuffix(cat, "es") {
			forms = append(forms, cat[:len(cat)-2])
		}
	}

	if strings.Contains(cat, "crossbody") {
		forms = append(forms, strings.ReplaceAll(cat, "crossbody", "cross-body"))
	}
	if strings.Contains(cat, "cross-body") {
		forms = append(forms, strings.ReplaceAll(cat, "cross-body", "crossbody"))
	}

	// Bare head word for one-word categories and "<word> bags".
	words := strings.Fields(cat)
	if len(words) == 1 || (len(words) == 2 && words[1] == "bags") {
		forms = append(forms, words[0])
	}

	n := len(forms)
	for _, f := range forms[:n] {
		if strings.Contains(f, "cross-body") {
			forms = append(forms, strings.ReplaceAll(f, "cross-body", "crossbody"))
		} else if strings.Contains(f, "crossbody") {
			forms = append(forms, strings.ReplaceAll(f, "crossbody", "cross-body"))
		}
	}
	return forms
}
