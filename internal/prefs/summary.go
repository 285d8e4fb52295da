package prefs

import (
	"fmt"
	"strings"

	"github.com/sells-group/shopassist-cli/internal/model"
)

// Summary renders the preference state as one human-readable line: price
// range first, then positive lists, then excluded lists with a distinct
// prefix.
func Summary(p *model.Preferences) string {
	if p.IsEmpty() {
		return "No preferences set"
	}

	var parts []string

	switch {
	case p.PriceMin != nil && p.PriceMax != nil:
		parts = append(parts, fmt.Sprintf("Price: $%s-$%s", formatPrice(*p.PriceMin), formatPrice(*p.PriceMax)))
	case p.PriceMin != nil:
		parts = append(parts, fmt.Sprintf("Price: Above $%s", formatPrice(*p.PriceMin)))
	case p.PriceMax != nil:
		parts = append(parts, fmt.Sprintf("Price: Under $%s", formatPrice(*p.PriceMax)))
	}

	if len(p.Brands) > 0 {
		parts = append(parts, "Brands: "+strings.Join(p.Brands, ", "))
	}
	if len(p.Categories) > 0 {
		parts = append(parts, "Categories: "+strings.Join(p.Categories, ", "))
	}
	if len(p.Colors) > 0 {
		parts = append(parts, "Colors: "+strings.Join(p.Colors, ", "))
	}
	if len(p.Materials) > 0 {
		parts = append(parts, "Materials: "+strings.Join(p.Materials, ", "))
	}
	if len(p.Features) > 0 {
		parts = append(parts, "Features: "+strings.Join(p.Features, ", "))
	}

	if len(p.ExcludedColors) > 0 {
		parts = append(parts, "Excluded Colors: "+strings.Join(p.ExcludedColors, ", "))
	}
	if len(p.ExcludedBrands) > 0 {
		parts = append(parts, "Excluded Brands: "+strings.Join(p.ExcludedBrands, ", "))
	}
	if len(p.ExcludedCategories) > 0 {
		parts = append(parts, "Excluded Categories: "+strings.Join(p.ExcludedCategories, ", "))
	}

	return strings.Join(parts, " | ")
}

// BuildDiagnostics assembles the machine-readable view of the last
// extraction pass plus the tracker's provenance records.
func BuildDiagnostics(result *model.ExtractionResult, tracker *Tracker, state *model.Preferences) model.Diagnostics {
	d := model.Diagnostics{
		Provenance: tracker.Snapshot(),
	}
	if result != nil {
		d.StrategiesUsed = result.StrategiesUsed
		d.ProcessingTime = result.ProcessingTime
		d.Warnings = append(d.Warnings, result.Errors...)
	}
	if state != nil && state.PriceInverted() {
		d.Warnings = append(d.Warnings,
			fmt.Sprintf("price bounds inverted: min %.2f > max %.2f", *state.PriceMin, *state.PriceMax))
	}
	return d
}

func formatPrice(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
