package model

import "strings"

// Preferences is the long-lived preference record for one conversation
// session. Positive and exclusion lists are insertion-ordered and
// deduplicated case-insensitively. A value never appears in both a positive
// list and its exclusion counterpart; the reconciler removes the positive
// occurrence whenever an exclusion is added.
type Preferences struct {
	PriceMin *float64 `json:"price_min,omitempty"`
	PriceMax *float64 `json:"price_max,omitempty"`

	Brands     []string `json:"brands,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Colors     []string `json:"colors,omitempty"`
	Materials  []string `json:"materials,omitempty"`
	Features   []string `json:"features,omitempty"`

	ExcludedBrands     []string `json:"excluded_brands,omitempty"`
	ExcludedCategories []string `json:"excluded_categories,omitempty"`
	ExcludedColors     []string `json:"excluded_colors,omitempty"`
	ExcludedMaterials  []string `json:"excluded_materials,omitempty"`
}

// NewPreferences returns an empty preference record.
func NewPreferences() *Preferences {
	return &Preferences{}
}

// Clone returns a deep copy. The reconciler mutates a clone and swaps it in
// only on success so a failed update leaves the original untouched.
func (p *Preferences) Clone() *Preferences {
	cp := &Preferences{
		Brands:             append([]string(nil), p.Brands...),
		Categories:         append([]string(nil), p.Categories...),
		Colors:             append([]string(nil), p.Colors...),
		Materials:          append([]string(nil), p.Materials...),
		Features:           append([]string(nil), p.Features...),
		ExcludedBrands:     append([]string(nil), p.ExcludedBrands...),
		ExcludedCategories: append([]string(nil), p.ExcludedCategories...),
		ExcludedColors:     append([]string(nil), p.ExcludedColors...),
		ExcludedMaterials:  append([]string(nil), p.ExcludedMaterials...),
	}
	if p.PriceMin != nil {
		v := *p.PriceMin
		cp.PriceMin = &v
	}
	if p.PriceMax != nil {
		v := *p.PriceMax
		cp.PriceMax = &v
	}
	return cp
}

// Clear resets all fields to the empty state.
func (p *Preferences) Clear() {
	*p = Preferences{}
}

// IsEmpty reports whether no preference has been recorded yet.
func (p *Preferences) IsEmpty() bool {
	return p.PriceMin == nil && p.PriceMax == nil &&
		len(p.Brands) == 0 && len(p.Categories) == 0 && len(p.Colors) == 0 &&
		len(p.Materials) == 0 && len(p.Features) == 0 &&
		len(p.ExcludedBrands) == 0 && len(p.ExcludedCategories) == 0 &&
		len(p.ExcludedColors) == 0 && len(p.ExcludedMaterials) == 0
}

// PriceInverted reports whether independent min/max merges have produced
// min > max. The state is kept as given and surfaced for clarification
// rather than silently repaired.
func (p *Preferences) PriceInverted() bool {
	return p.PriceMin != nil && p.PriceMax != nil && *p.PriceMin > *p.PriceMax
}

// ContainsValue reports case-insensitive membership of v in list.
func ContainsValue(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}

// AppendUnique appends v to list unless an equal value (case-insensitive)
// is already present.
func AppendUnique(list []string, v string) []string {
	if ContainsValue(list, v) {
		return list
	}
	return append(list, v)
}

// RemoveValue removes every case-insensitive occurrence of v from list.
func RemoveValue(list []string, v string) []string {
	out := list[:0]
	for _, item := range list {
		if !strings.EqualFold(item, v) {
			out = append(out, item)
		}
	}
	return out
}
