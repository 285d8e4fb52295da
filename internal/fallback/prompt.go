package fallback

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/shopassist-cli/internal/model"
)

const systemPrompt = `You extract shopping preferences from a single chat message about bags and accessories.

Respond with ONLY a JSON object, no prose, using this schema (omit keys the message says nothing about):
{
  "price_min": number,
  "price_max": number,
  "brands": [string],
  "categories": [string],
  "colors": [string],
  "materials": [string],
  "features": [string],
  "excluded_brands": [string],
  "excluded_categories": [string],
  "excluded_colors": [string],
  "excluded_materials": [string]
}

Rules:
- Only include what this message asserts. Never repeat the current preferences back.
- "under"/"below" set price_max, "over"/"above" set price_min.
- Negations ("no", "don't want", "avoid", "hate") go in the excluded_* lists.
- Use lowercase canonical color names and plural category names ("tote bags", "backpacks").`

func buildUserPrompt(text string, current *model.Preferences) string {
	var b strings.Builder
	b.WriteString("Message: ")
	b.WriteString(text)
	if current != nil && !current.IsEmpty() {
		snapshot, err := json.Marshal(current)
		if err == nil {
			b.WriteString("\n\nCurrent preferences (context only, do not repeat): ")
			b.Write(snapshot)
		}
	}
	return b.String()
}

// wireDelta mirrors the JSON schema the model is instructed to emit.
type wireDelta struct {
	PriceMin           *float64 `json:"price_min"`
	PriceMax           *float64 `json:"price_max"`
	Brands             []string `json:"brands"`
	Categories         []string `json:"categories"`
	Colors             []string `json:"colors"`
	Materials          []string `json:"materials"`
	Features           []string `json:"features"`
	ExcludedBrands     []string `json:"excluded_brands"`
	ExcludedCategories []string `json:"excluded_categories"`
	ExcludedColors     []string `json:"excluded_colors"`
	ExcludedMaterials  []string `json:"excluded_materials"`
}

// parseDelta tolerates code fences and surrounding prose around the JSON
// object; everything outside the outermost braces is discarded.
func parseDelta(raw string) (*model.Preferences, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, eris.New(fmt.Sprintf("fallback: no JSON object in response: %.80q", raw))
	}

	var wire wireDelta
	if err := json.Unmarshal([]byte(raw[start:end+1]), &wire); err != nil {
		return nil, eris.Wrap(err, "fallback: decode delta")
	}

	delta := &model.Preferences{
		PriceMin:           wire.PriceMin,
		PriceMax:           wire.PriceMax,
		Brands:             cleanList(wire.Brands),
		Categories:         cleanList(wire.Categories),
		Colors:             cleanList(wire.Colors),
		Materials:          cleanList(wire.Materials),
		Features:           cleanList(wire.Features),
		ExcludedBrands:     cleanList(wire.ExcludedBrands),
		ExcludedCategories: cleanList(wire.ExcludedCategories),
		ExcludedColors:     cleanList(wire.ExcludedColors),
		ExcludedMaterials:  cleanList(wire.ExcludedMaterials),
	}
	return delta, nil
}

func cleanList(in []string) []string {
	var out []string
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = model.AppendUnique(out, v)
	}
	return out
}
