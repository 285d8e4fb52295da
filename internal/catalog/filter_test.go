package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/shopassist-cli/internal/model"
)

func fptr(v float64) *float64 { return &v }

var sampleProducts = []model.Product{
	{ID: "1", Name: "Navy Tote Bag", Brand: "Guess", Price: 150, Description: "A spacious blue canvas tote bag"},
	{ID: "2", Name: "Black Clutch", Brand: "Calvin Klein", Price: 89, Description: "Elegant black leather clutch"},
	{ID: "3", Name: "Cross-body Bag", Brand: "Fossil", Price: 199, Description: "Brown leather cross-body bag"},
	{ID: "4", Name: "Red Backpack", Brand: "GAP", Price: 45, Description: "Casual red canvas backpack"},
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name    string
		product model.Product
		state   *model.Preferences
		want    bool
	}{
		{
			"nil state matches everything",
			sampleProducts[0],
			nil,
			true,
		},
		{
			"price within max",
			sampleProducts[0],
			&model.Preferences{PriceMax: fptr(200)},
			true,
		},
		{
			"price above max rejected",
			sampleProducts[0],
			&model.Preferences{PriceMax: fptr(100)},
			false,
		},
		{
			"price below min rejected",
			sampleProducts[3],
			&model.Preferences{PriceMin: fptr(50)},
			false,
		},
		{
			"brand substring match",
			sampleProducts[1],
			&model.Preferences{Brands: []string{"calvin klein"}},
			true,
		},
		{
			"brand mismatch rejected",
			sampleProducts[1],
			&model.Preferences{Brands: []string{"Guess"}},
			false,
		},
		{
			"excluded brand rejects",
			sampleProducts[0],
			&model.Preferences{ExcludedBrands: []string{"guess"}},
			false,
		},
		{
			"color found in description",
			sampleProducts[0],
			&model.Preferences{Colors: []string{"blue"}},
			true,
		},
		{
			"excluded color rejects even when positives match",
			sampleProducts[1],
			&model.Preferences{Brands: []string{"Calvin Klein"}, ExcludedColors: []string{"black"}},
			false,
		},
		{
			"category plural matches singular text",
			sampleProducts[0],
			&model.Preferences{Categories: []string{"tote bags"}},
			true,
		},
		{
			"category clutches matches clutch",
			sampleProducts[1],
			&model.Preferences{Categories: []string{"clutches"}},
			true,
		},
		{
			"crossbody matches hyphenated text",
			sampleProducts[2],
			&model.Preferences{Categories: []string{"crossbody bags"}},
			true,
		},
		{
			"excluded category rejects",
			sampleProducts[3],
			&model.Preferences{Colors: []string{"red"}, ExcludedCategories: []string{"backpacks"}},
			false,
		},
		{
			"excluded material rejects",
			sampleProducts[2],
			&model.Preferences{ExcludedMaterials: []string{"leather"}},
			false,
		},
		{
			"material matches in text",
			sampleProducts[2],
			&model.Preferences{Materials: []string{"leather"}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.product, tt.state))
		})
	}
}

func TestSearch_SortsByPriceAscending(t *testing.T) {
	results := Search(sampleProducts, model.NewPreferences())
	require.Len(t, results, 4)
	assert.Equal(t, "4", results[0].ID)
	assert.Equal(t, "2", results[1].ID)
	assert.Equal(t, "1", results[2].ID)
	assert.Equal(t, "3", results[3].ID)
}

func TestSearch_AppliesFilter(t *testing.T) {
	state := &model.Preferences{
		PriceMax:       fptr(160),
		ExcludedColors: []string{"black"},
	}
	results := Search(sampleProducts, state)
	require.Len(t, results, 2)
	assert.Equal(t, "4", results[0].ID)
	assert.Equal(t, "1", results[1].ID)
}

func TestSearchText(t *testing.T) {
	results := SearchText(sampleProducts, "leather clutch", model.NewPreferences())
	require.Len(t, results, 1)
	assert.Equal(t, "2", results[0].ID)

	all := SearchText(sampleProducts, "", model.NewPreferences())
	assert.Len(t, all, 4)
}

func TestCategoryForms(t *testing.T) {
	forms := categoryForms("tote bags")
	assert.Contains(t, forms, "tote bag")
	assert.Contains(t, forms, "tote")

	forms = categoryForms("clutches")
	assert.Contains(t, forms, "clutch")

	forms = categoryForms("crossbody bags")
	assert.Contains(t, forms, "cross-body bags")
	assert.Contains(t, forms, "cross-body bag")
}
