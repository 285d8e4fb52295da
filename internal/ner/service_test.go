package ner

import (
	"context"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/shopassist-cli/internal/model"
)

func TestService_ExtractEntities(t *testing.T) {
	svc := NewService(DefaultTables())

	result := svc.ExtractEntities(context.Background(), "I want blue crossbody bags under $200")
	require.Empty(t, result.Errors)

	colors := result.UniqueValuesByType(model.EntityColor, 0)
	assert.Equal(t, []string{"blue"}, colors)

	categories := result.UniqueValuesByType(model.EntityCategory, 0)
	assert.Equal(t, []string{"crossbody bags"}, categories)

	prices := result.ByType(model.EntityPrice)
	require.Len(t, prices, 1)
	assert.Equal(t, model.PriceMax, prices[0].Price.Kind)
	assert.Equal(t, 200.0, prices[0].Price.Low)

	assert.Contains(t, result.StrategiesUsed, model.StrategyDictionary)
	assert.Contains(t, result.StrategiesUsed, model.StrategyPattern)
	assert.Greater(t, result.ProcessingTime.Nanoseconds(), int64(0))
}

func TestService_OverlappingEntityTypesBothReported(t *testing.T) {
	svc := NewService(DefaultTables())

	// "navy" is a color; extractors scan independently so a span may match
	// in more than one entity type.
	result := svc.ExtractEntities(context.Background(), "navy Guess tote")

	assert.Equal(t, []string{"navy"}, result.UniqueValuesByType(model.EntityColor, 0))
	assert.Equal(t, []string{"Guess"}, result.UniqueValuesByType(model.EntityBrand, 0))
	assert.Equal(t, []string{"tote bags"}, result.UniqueValuesByType(model.EntityCategory, 0))
}

func TestService_TruncatesOversizedInput(t *testing.T) {
	tables := DefaultTables()
	tables.MaxTextLength = 32
	svc := NewService(tables)

	long := "blue tote bags "
	for len(long) < 100 {
		long += "x"
	}
	result := svc.ExtractEntities(context.Background(), long)
	assert.LessOrEqual(t, len(result.Text), 32)
}

func TestService_TruncatesOnRuneBoundary(t *testing.T) {
	tables := DefaultTables()
	tables.MaxTextLength = 9
	svc := NewService(tables)

	// Each é is two bytes, so a byte-offset cut at 9 would land mid-rune.
	result := svc.ExtractEntities(context.Background(), "ééééééé")
	assert.True(t, utf8.ValidString(result.Text))
	assert.LessOrEqual(t, len(result.Text), 9)
}

func TestRunExtractor_RecoversFromPanic(t *testing.T) {
	out := runExtractor(panickyExtractor{}, "anything")
	require.Error(t, out.err)
	assert.Nil(t, out.extractions)
	assert.Equal(t, model.EntityBrand, out.entityType)
}

type panickyExtractor struct{}

func (panickyExtractor) Type() model.EntityType { return model.EntityBrand }

func (panickyExtractor) Extract(string) []model.EntityExtraction {
	panic("bad pattern")
}

func TestDedupeOverlaps(t *testing.T) {
	ext := []model.EntityExtraction{
		{Value: "fuzzy", Confidence: 0.70, Start: 0, End: 6},
		{Value: "exact", Confidence: 0.95, Start: 0, End: 6},
		{Value: "elsewhere", Confidence: 0.85, Start: 10, End: 14},
	}

	kept := dedupeOverlaps(ext)
	require.Len(t, kept, 2)
	assert.Equal(t, "exact", kept[0].Value)
	assert.Equal(t, "elsewhere", kept[1].Value)
}
