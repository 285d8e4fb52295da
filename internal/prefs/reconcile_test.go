package prefs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/shopassist-cli/internal/model"
	"github.com/sells-group/shopassist-cli/internal/ner"
)

func newTestReconciler(t *testing.T) (*Reconciler, *ner.Service) {
	t.Helper()
	svc := ner.NewService(ner.DefaultTables())
	return NewReconciler(svc.Tables(), svc.UICommands), svc
}

func applyText(t *testing.T, r *Reconciler, svc *ner.Service, state *model.Preferences, text string) *model.Preferences {
	t.Helper()
	result := svc.ExtractEntities(context.Background(), text)
	next, _, err := r.ApplyTurn(state, result, nil, text)
	require.NoError(t, err)
	return next
}

func TestApplyTurn_ColorCategoryAndPriceCap(t *testing.T) {
	r, svc := newTestReconciler(t)

	state := applyText(t, r, svc, model.NewPreferences(), "I want blue crossbody bags under $200")

	assert.Equal(t, []string{"blue"}, state.Colors)
	assert.Equal(t, []string{"crossbody bags"}, state.Categories)
	require.NotNil(t, state.PriceMax)
	assert.Equal(t, 200.0, *state.PriceMax)
	assert.Nil(t, state.PriceMin)
}

func TestApplyTurn_ExclusionOnEmptyState(t *testing.T) {
	r, svc := newTestReconciler(t)

	state := applyText(t, r, svc, model.NewPreferences(), "I don't want black bags")

	assert.Equal(t, []string{"black"}, state.ExcludedColors)
	assert.Empty(t, state.Colors, "excluded color must never land in the positive list")
}

func TestApplyTurn_ExclusionRemovesPositiveValue(t *testing.T) {
	r, svc := newTestReconciler(t)

	state := &model.Preferences{Colors: []string{"black", "brown"}}
	state = applyText(t, r, svc, state, "excluding black")

	assert.Equal(t, []string{"black"}, state.ExcludedColors)
	assert.Equal(t, []string{"brown"}, state.Colors)
}

func TestApplyTurn_BrandCorrection(t *testing.T) {
	r, svc := newTestReconciler(t)

	state := applyText(t, r, svc, model.NewPreferences(), "ck bags")

	assert.Equal(t, []string{"Calvin Klein"}, state.Brands)
}

func TestApplyTurn_AroundPriceBandOverwrites(t *testing.T) {
	r, svc := newTestReconciler(t)

	state := applyText(t, r, svc, model.NewPreferences(), "under $500")
	state = applyText(t, r, svc, state, "around $150")

	require.NotNil(t, state.PriceMin)
	require.NotNil(t, state.PriceMax)
	assert.Equal(t, 120.0, *state.PriceMin)
	assert.Equal(t, 180.0, *state.PriceMax)
}

func TestApplyTurn_PriceTighteningAcrossTurns(t *testing.T) {
	r, svc := newTestReconciler(t)

	state := applyText(t, r, svc, model.NewPreferences(), "above $100")
	state = applyText(t, r, svc, state, "above $150")

	require.NotNil(t, state.PriceMin)
	assert.Equal(t, 150.0, *state.PriceMin)
}

func TestApplyTurn_PriceTighteningWithinOneInput(t *testing.T) {
	r, svc := newTestReconciler(t)

	state := applyText(t, r, svc, model.NewPreferences(), "above $100 and above $150 but under $500 or under $400")

	require.NotNil(t, state.PriceMin)
	require.NotNil(t, state.PriceMax)
	assert.Equal(t, 150.0, *state.PriceMin, "max of mins")
	assert.Equal(t, 400.0, *state.PriceMax, "min of maxes")
}

func TestApplyTurn_InvertedBoundsKeptWithWarning(t *testing.T) {
	r, svc := newTestReconciler(t)

	state := applyText(t, r, svc, model.NewPreferences(), "above $300")
	result := svc.ExtractEntities(context.Background(), "under $100")
	state, report, err := r.ApplyTurn(state, result, nil, "under $100")
	require.NoError(t, err)

	assert.True(t, state.PriceInverted())
	assert.Equal(t, 300.0, *state.PriceMin)
	assert.Equal(t, 100.0, *state.PriceMax)
	assert.NotEmpty(t, report.Warnings)
}

func TestApplyTurn_ReplaceMode(t *testing.T) {
	r, svc := newTestReconciler(t)

	state := applyText(t, r, svc, model.NewPreferences(), "show me blue tote bags")
	state = applyText(t, r, svc, state, "only red clutches instead")

	assert.Equal(t, []string{"red"}, state.Colors)
	assert.Equal(t, []string{"clutches"}, state.Categories)
}

func TestApplyTurn_AppendModeIsMonotonic(t *testing.T) {
	r, svc := newTestReconciler(t)

	state := applyText(t, r, svc, model.NewPreferences(), "blue tote bags")
	state = applyText(t, r, svc, state, "also brown backpacks")

	assert.Equal(t, []string{"blue", "brown"}, state.Colors)
	assert.Equal(t, []string{"tote bags", "backpacks"}, state.Categories)
}

func TestApplyTurn_DefaultModeAppends(t *testing.T) {
	r, svc := newTestReconciler(t)

	state := applyText(t, r, svc, model.NewPreferences(), "blue bags")
	state = applyText(t, r, svc, state, "red clutches")

	assert.Equal(t, []string{"blue", "red"}, state.Colors, "no signal defaults to append")
}

func TestApplyTurn_ReplaceModeIsIdempotent(t *testing.T) {
	r, svc := newTestReconciler(t)

	text := "only blue tote bags under $200"
	result := svc.ExtractEntities(context.Background(), text)

	once, _, err := r.ApplyTurn(model.NewPreferences(), result, nil, text)
	require.NoError(t, err)
	twice, _, err := r.ApplyTurn(once, result, nil, text)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestApplyTurn_CategoryNormalizationNoDuplicates(t *testing.T) {
	r, svc := newTestReconciler(t)

	state := applyText(t, r, svc, model.NewPreferences(), "a tote")
	state = applyText(t, r, svc, state, "tote bags")

	assert.Equal(t, []string{"tote bags"}, state.Categories)
	assert.Empty(t, state.Features, "resolved categories never leak into features")
}

func TestApplyTurn_LeavesInputStateUntouched(t *testing.T) {
	r, svc := newTestReconciler(t)

	original := &model.Preferences{Colors: []string{"black"}}
	result := svc.ExtractEntities(context.Background(), "excluding black, add blue")
	_, _, err := r.ApplyTurn(original, result, nil, "excluding black, add blue")
	require.NoError(t, err)

	assert.Equal(t, []string{"black"}, original.Colors, "caller state mutates only via the returned clone")
}

func TestApplyTurn_ExclusionPrecedenceInvariantOverSequence(t *testing.T) {
	r, svc := newTestReconciler(t)

	inputs := []string{
		"blue and black tote bags",
		"excluding black",
		"also black clutches", // re-asserting an excluded value positively
		"I don't want blue bags",
	}

	state := model.NewPreferences()
	for _, text := range inputs {
		state = applyText(t, r, svc, state, text)
		for _, c := range state.ExcludedColors {
			assert.False(t, model.ContainsValue(state.Colors, c),
				"value %q in both positive and excluded after %q", c, text)
		}
	}
	assert.ElementsMatch(t, []string{"black", "blue"}, state.ExcludedColors)
}

func TestApplyTurn_FallbackDeltaMergesThroughSamePath(t *testing.T) {
	r, svc := newTestReconciler(t)

	result := svc.ExtractEntities(context.Background(), "blue bags")
	fallback := &model.Preferences{
		Brands:         []string{"gues"},       // unresolvable, dropped
		Categories:     []string{"spacious"},   // demoted to features
		ExcludedColors: []string{"blue"},       // wins over the pipeline's positive blue
		Materials:      []string{"leather"},
	}

	state, report, err := r.ApplyTurn(model.NewPreferences(), result, fallback, "blue bags")
	require.NoError(t, err)

	assert.Empty(t, state.Brands)
	assert.Contains(t, report.DroppedBrands, "gues")
	assert.Equal(t, []string{"spacious"}, state.Features)
	assert.Equal(t, []string{"leather"}, state.Materials)
	assert.Equal(t, []string{"blue"}, state.ExcludedColors)
	assert.Empty(t, state.Colors)
}

func TestApplyTurn_UICommandsNeverBecomeFeatures(t *testing.T) {
	r, svc := newTestReconciler(t)

	result := svc.ExtractEntities(context.Background(), "show me more options")
	fallback := &model.Preferences{Features: []string{"show more options", "zipper pocket"}}

	state, _, err := r.ApplyTurn(model.NewPreferences(), result, fallback, "show me more options")
	require.NoError(t, err)

	assert.Equal(t, []string{"zipper pocket"}, state.Features)
}

func TestApplyTurn_ExclusionPhraseYieldsMultipleValues(t *testing.T) {
	r, svc := newTestReconciler(t)

	state := applyText(t, r, svc, model.NewPreferences(), "excluding black and brown")

	assert.ElementsMatch(t, []string{"black", "brown"}, state.ExcludedColors)
}

func TestApplyTurn_ExclusionCrossReferencesAllTypes(t *testing.T) {
	r, svc := newTestReconciler(t)

	state := applyText(t, r, svc, model.NewPreferences(), "avoid Guess tote bags")

	assert.Equal(t, []string{"Guess"}, state.ExcludedBrands)
	assert.Equal(t, []string{"tote bags"}, state.ExcludedCategories)
}
