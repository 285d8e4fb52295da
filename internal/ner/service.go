package ner

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/shopassist-cli/internal/model"
)

// extractorOutcome is the per-extractor fan-out result. Failures are data,
// not control flow: a failed extractor contributes zero extractions and a
// warning, never an aborted turn.
type extractorOutcome struct {
	entityType  model.EntityType
	extractions []model.EntityExtraction
	err         error
}

// Service runs all registered extractors against one input text and merges
// their hits into a single result. Construct once at application start and
// share across sessions; extraction holds no mutable state.
type Service struct {
	tables     *Tables
	extractors []Extractor
	UICommands *UICommandExtractor
}

// NewService builds the full extractor set from the reference tables.
func NewService(tables *Tables) *Service {
	ui := NewUICommandExtractor()
	return &Service{
		tables: tables,
		extractors: []Extractor{
			NewBrandExtractor(tables),
			NewColorExtractor(tables),
			NewCategoryExtractor(tables),
			NewPriceExtractor(),
			NewExclusionExtractor(tables),
			ui,
		},
		UICommands: ui,
	}
}

// Tables exposes the reference data for the reconciler.
func (s *Service) Tables() *Tables {
	return s.tables
}

// ExtractEntities fans out across all extractors concurrently and joins
// their results. A failing extractor is logged and reported as zero
// extractions for its type.
func (s *Service) ExtractEntities(ctx context.Context, text string) *model.ExtractionResult {
	start := time.Now()

	if len(text) > s.tables.MaxTextLength {
		cut := s.tables.MaxTextLength
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	outcomes := make([]extractorOutcome, len(s.extractors))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(len(s.extractors))
	for i, ex := range s.extractors {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[i] = extractorOutcome{entityType: ex.Type(), err: err}
				return nil
			}
			outcomes[i] = runExtractor(ex, text)
			return nil
		})
	}
	_ = g.Wait()

	result := &model.ExtractionResult{Text: text}
	strategies := make(map[model.Strategy]bool)
	for _, out := range outcomes {
		if out.err != nil {
			zap.L().Warn("extractor failed",
				zap.String("entity_type", string(out.entityType)),
				zap.Error(out.err),
			)
			result.Errors = append(result.Errors, string(out.entityType)+": "+out.err.Error())
			continue
		}
		result.Extractions = append(result.Extractions, out.extractions...)
		for _, e := range out.extractions {
			strategies[e.Strategy] = true
		}
	}

	for _, st := range []model.Strategy{model.StrategyDictionary, model.StrategyPattern, model.StrategyFuzzy} {
		if strategies[st] {
			result.StrategiesUsed = append(result.StrategiesUsed, st)
		}
	}
	result.ProcessingTime = time.Since(start)

	zap.L().Debug("extraction complete",
		zap.Int("extractions", len(result.Extractions)),
		zap.Duration("elapsed", result.ProcessingTime),
	)
	return result
}

// runExtractor isolates a single extractor, converting panics into errors so
// one faulty pattern cannot take down the turn.
func runExtractor(ex Extractor, text string) (out extractorOutcome) {
	out.entityType = ex.Type()
	defer func() {
		if r := recover(); r != nil {
			out.extractions = nil
			out.err = eris.Errorf("ner: extractor %s panicked: %v", ex.Type(), r)
		}
	}()
	out.extractions = ex.Extract(text)
	return out
}
