// Package prefs folds extraction results into persistent preference state:
// validation against the reference tables, append/replace intent, price
// merging, exclusion cross-referencing, and conflict resolution.
package prefs

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/shopassist-cli/internal/model"
	"github.com/sells-group/shopassist-cli/internal/ner"
)

// Stage names the steps of one update cycle for logging.
type Stage string

const (
	StageIdle       Stage = "idle"
	StageExtracting Stage = "extracting"
	StageValidating Stage = "validating"
	StageMerging    Stage = "merging"
)

// TurnReport describes what one reconciliation turn did.
type TurnReport struct {
	Mode              Mode     `json:"mode"`
	DroppedBrands     []string `json:"dropped_brands,omitempty"`
	DemotedToFeatures []string `json:"demoted_to_features,omitempty"`
	Warnings          []string `json:"warnings,omitempty"`
}

// Reconciler merges preference deltas into session state. One instance is
// shared across sessions; it holds only immutable reference data.
type Reconciler struct {
	tables *ner.Tables
	ui     *ner.UICommandExtractor
}

// NewReconciler builds a reconciler over the same tables the extractors use.
func NewReconciler(tables *ner.Tables, ui *ner.UICommandExtractor) *Reconciler {
	return &Reconciler{tables: tables, ui: ui}
}

// ApplyTurn folds one extraction result, plus an optional fallback delta,
// into the given state. It operates on a clone and returns the new state
// only on success: a failure leaves the caller's state untouched. The
// fallback delta goes through the identical validation, intent, and
// conflict-resolution path; it is a second source, not a privileged
// overwrite.
func (r *Reconciler) ApplyTurn(current *model.Preferences, result *model.ExtractionResult, fallback *model.Preferences, text string) (next *model.Preferences, report *TurnReport, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			next, report = nil, nil
			err = eris.Errorf("prefs: reconciliation failed at stage %s: %v", StageMerging, rec)
		}
	}()

	mode := ClassifyIntent(text)
	report = &TurnReport{Mode: mode}

	delta := r.DeltaFromExtractions(result)

	clone := current.Clone()
	r.merge(clone, delta, mode, report)
	if fallback != nil {
		r.merge(clone, fallback, mode, report)
	}

	if clone.PriceInverted() {
		warning := fmt.Sprintf("price bounds inverted: min %.2f > max %.2f", *clone.PriceMin, *clone.PriceMax)
		report.Warnings = append(report.Warnings, warning)
		zap.L().Warn("inconsistent price bounds kept as given",
			zap.Float64("price_min", *clone.PriceMin),
			zap.Float64("price_max", *clone.PriceMax),
		)
	}

	return clone, report, nil
}

// DeltaFromExtractions converts raw extractions into a structured
// preference delta: best unique values per type, the price-combination
// rules, and exclusion cross-referencing against the reference sets.
func (r *Reconciler) DeltaFromExtractions(result *model.ExtractionResult) *model.Preferences {
	delta := model.NewPreferences()
	limit := r.tables.MaxEntitiesPerType

	delta.Brands = result.UniqueValuesByType(model.EntityBrand, limit)
	delta.Colors = result.UniqueValuesByType(model.EntityColor, limit)
	delta.Categories = result.UniqueValuesByType(model.EntityCategory, limit)

	r.combinePrices(delta, result.ByType(model.EntityPrice))
	r.crossReferenceExclusions(delta, result.ByType(model.EntityExclusion))

	return delta
}

// combinePrices folds all price extractions from one input into bounds:
// the tightest lower bound wins across min statements, the tightest upper
// bound across max statements, ranges set both directly, and "around"
// derives a ±20% band that stands alone.
func (r *Reconciler) combinePrices(delta *model.Preferences, prices []model.EntityExtraction) {
	for _, e := range prices {
		if e.Price == nil {
			continue
		}
		switch e.Price.Kind {
		case model.PriceMin:
			v := e.Price.Low
			if delta.PriceMin == nil || v > *delta.PriceMin {
				delta.PriceMin = &v
			}
		case model.PriceMax:
			v := e.Price.Low
			if delta.PriceMax == nil || v < *delta.PriceMax {
				delta.PriceMax = &v
			}
		case model.PriceRange:
			lo, hi := e.Price.Low, e.Price.High
			delta.PriceMin = &lo
			delta.PriceMax = &hi
		case model.PriceExact:
			v := e.Price.Low
			lo, hi := v, v
			delta.PriceMin = &lo
			delta.PriceMax = &hi
		case model.PriceAround:
			margin := e.Price.Low * 0.2
			lo := e.Price.Low - margin
			if lo < 0 {
				lo = 0
			}
			hi := e.Price.Low + margin
			delta.PriceMin = &lo
			delta.PriceMax = &hi
		}
	}
}

// crossReferenceExclusions tests every canonical color, brand, and category
// for containment in each raw excluded phrase. One phrase may yield zero,
// one, or several excluded values across entity types.
func (r *Reconciler) crossReferenceExclusions(delta *model.Preferences, exclusions []model.EntityExtraction) {
	for _, e := range exclusions {
		phrase := strings.ToLower(e.Value)

		for _, color := range r.tables.Colors {
			if strings.Contains(phrase, strings.ToLower(color)) {
				delta.ExcludedColors = model.AppendUnique(delta.ExcludedColors, color)
			}
		}
		for _, brand := range r.tables.Brands {
			if strings.Contains(phrase, strings.ToLower(brand)) {
				delta.ExcludedBrands = model.AppendUnique(delta.ExcludedBrands, brand)
			}
		}
		for _, category := range r.tables.Categories {
			if strings.Contains(phrase, strings.ToLower(category)) {
				delta.ExcludedCategories = model.AppendUnique(delta.ExcludedCategories, category)
			}
		}
	}
}

// merge applies one validated delta to state in place. state is always a
// clone owned by the caller.
func (r *Reconciler) merge(state *model.Preferences, delta *model.Preferences, mode Mode, report *TurnReport) {
	brands := r.validateBrands(delta.Brands, report)
	categories, demoted := r.validateCategories(delta.Categories, report)

	mergeList(&state.Brands, brands, mode)
	mergeList(&state.Colors, delta.Colors, mode)
	mergeList(&state.Categories, categories, mode)

	// Price bounds, materials, and features merge independent of mode.
	if delta.PriceMin != nil {
		v := *delta.PriceMin
		state.PriceMin = &v
	}
	if delta.PriceMax != nil {
		v := *delta.PriceMax
		state.PriceMax = &v
	}
	if len(delta.Materials) > 0 {
		state.Materials = append([]string(nil), delta.Materials...)
	}
	if len(delta.Features) > 0 {
		state.Features = r.filterUICommands(delta.Features)
	}
	for _, f := range demoted {
		if !r.ui.MatchesCommand(f) {
			state.Features = model.AppendUnique(state.Features, f)
		}
	}

	// Exclusions union regardless of mode.
	for _, v := range delta.ExcludedColors {
		state.ExcludedColors = model.AppendUnique(state.ExcludedColors, v)
	}
	for _, v := range delta.ExcludedBrands {
		state.ExcludedBrands = model.AppendUnique(state.ExcludedBrands, v)
	}
	for _, v := range delta.ExcludedCategories {
		state.ExcludedCategories = model.AppendUnique(state.ExcludedCategories, v)
	}
	for _, v := range delta.ExcludedMaterials {
		state.ExcludedMaterials = model.AppendUnique(state.ExcludedMaterials, v)
	}

	// Exclusion wins over inclusion: sweep the full exclusion sets so a
	// previously excluded value re-asserted positively never survives.
	for _, v := range state.ExcludedColors {
		state.Colors = model.RemoveValue(state.Colors, v)
	}
	for _, v := range state.ExcludedBrands {
		state.Brands = model.RemoveValue(state.Brands, v)
	}
	for _, v := range state.ExcludedCategories {
		state.Categories = model.RemoveValue(state.Categories, v)
	}
	for _, v := range state.ExcludedMaterials {
		state.Materials = model.RemoveValue(state.Materials, v)
	}
}

func mergeList(dst *[]string, values []string, mode Mode) {
	if len(values) == 0 {
		return
	}
	if mode == ModeReplace {
		*dst = nil
	}
	for _, v := range values {
		*dst = model.AppendUnique(*dst, v)
	}
}

// validateBrands resolves candidates against the valid set and correction
// table. Unresolvable brands are dropped with a warning.
func (r *Reconciler) validateBrands(candidates []string, report *TurnReport) []string {
	var valid []string
	for _, c := range candidates {
		canonical := r.tables.ResolveBrand(c)
		if canonical == "" {
			report.DroppedBrands = append(report.DroppedBrands, c)
			zap.L().Warn("dropped unresolvable brand", zap.String("brand", c))
			continue
		}
		valid = model.AppendUnique(valid, canonical)
	}
	return valid
}

// validateCategories resolves candidates via exact match or the variation
// table. Unresolvable categories are demoted to the features bucket rather
// than dropped.
func (r *Reconciler) validateCategories(candidates []string, report *TurnReport) (valid, demoted []string) {
	for _, c := range candidates {
		canonical := r.tables.ResolveCategory(c)
		if canonical == "" {
			demoted = append(demoted, c)
			report.DemotedToFeatures = append(report.DemotedToFeatures, c)
			zap.L().Debug("demoted category to feature", zap.String("category", c))
			continue
		}
		valid = model.AppendUnique(valid, canonical)
	}
	return valid, demoted
}

// filterUICommands strips conversational command phrases from the features
// bucket.
func (r *Reconciler) filterUICommands(features []string) []string {
	var out []string
	for _, f := range features {
		if r.ui.MatchesCommand(f) {
			zap.L().Debug("filtered command phrase from features", zap.String("feature", f))
			continue
		}
		out = model.AppendUnique(out, f)
	}
	return out
}
