package catalog

import (
	"sort"
	"strings"

	"github.com/sells-group/shopassist-cli/internal/model"
)

// Search applies the preference filter and returns matches cheapest first.
// Ties keep catalog order.
func Search(products []model.Product, state *model.Preferences) []model.Product {
	var out []model.Product
	for _, p := range products {
		if Matches(p, state) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Price < out[j].Price
	})
	return out
}

// SearchText narrows products by a free-text query over name, brand, and
// description before applying the preference filter. Every query word must
// appear somewhere in the product text.
func SearchText(products []model.Product, query string, state *model.Preferences) []model.Product {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return Search(products, state)
	}

	var narrowed []model.Product
	for _, p := range products {
		text := strings.ToLower(p.SearchableText() + " " + p.Brand)
		all := true
		for _, w := range words {
			if !strings.Contains(text, w) {
				all = false
				break
			}
		}
		if all {
			narrowed = append(narrowed, p)
		}
	}
	return Search(narrowed, state)
}
