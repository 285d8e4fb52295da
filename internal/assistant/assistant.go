// Package assistant orchestrates one chat turn: relevance gate, UI command
// routing, entity extraction, preference reconciliation, and catalog search.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/sells-group/shopassist-cli/internal/catalog"
	"github.com/sells-group/shopassist-cli/internal/fallback"
	"github.com/sells-group/shopassist-cli/internal/model"
	"github.com/sells-group/shopassist-cli/internal/ner"
	"github.com/sells-group/shopassist-cli/internal/prefs"
	"github.com/sells-group/shopassist-cli/internal/session"
)

const defaultBatchSize = 6

// Assistant ties the extraction pipeline, reconciler, optional fallback
// extractor, session manager, and product catalog together.
type Assistant struct {
	ner      *ner.Service
	rec      *prefs.Reconciler
	fb       fallback.Extractor
	sessions *session.Manager
	batch    int

	mu       sync.RWMutex
	products []model.Product
}

// Option configures optional collaborators.
type Option func(*Assistant)

// WithFallback enables the model-backed extractor for turns the pipeline
// cannot read.
func WithFallback(fb fallback.Extractor) Option {
	return func(a *Assistant) { a.fb = fb }
}

// WithBatchSize overrides how many products one page shows.
func WithBatchSize(n int) Option {
	return func(a *Assistant) {
		if n > 0 {
			a.batch = n
		}
	}
}

// New builds an assistant around an extraction service and session manager.
func New(nerSvc *ner.Service, sessions *session.Manager, opts ...Option) *Assistant {
	a := &Assistant{
		ner:      nerSvc,
		rec:      prefs.NewReconciler(nerSvc.Tables(), nerSvc.UICommands),
		sessions: sessions,
		batch:    defaultBatchSize,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetProducts replaces the in-memory catalog the assistant searches.
func (a *Assistant) SetProducts(products []model.Product) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.products = products
}

// LoadProducts pulls the catalog from a store into memory.
func (a *Assistant) LoadProducts(ctx context.Context, store catalog.Store) error {
	products, err := store.ListProducts(ctx)
	if err != nil {
		return err
	}
	a.SetProducts(products)
	return nil
}

func (a *Assistant) productSnapshot() []model.Product {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.products
}

// TurnResult is everything one processed message produces.
type TurnResult struct {
	SessionID   string            `json:"session_id"`
	Response    string            `json:"response"`
	Summary     string            `json:"summary"`
	Products    []model.Product   `json:"products,omitempty"`
	Remaining   int               `json:"remaining"`
	Diagnostics model.Diagnostics `json:"diagnostics"`
	Report      prefs.TurnReport  `json:"report"`
}

// ProcessTurn runs one message through the full update cycle. Turns on the
// same session are serialized; a failed turn leaves the session state as it
// was before the message arrived.
func (a *Assistant) ProcessTurn(ctx context.Context, sessionID, text string) (*TurnResult, error) {
	sess := a.sessions.GetOrCreate(sessionID)
	sess.LockTurn()
	defer sess.UnlockTurn()

	res := &TurnResult{SessionID: sess.ID}

	text = strings.TrimSpace(text)
	if text == "" {
		res.Response = "Tell me what you're looking for, like \"blue crossbody bags under $200\"."
		res.Summary = prefs.Summary(sess.Snapshot())
		return res, nil
	}

	if !isRelevant(text) {
		res.Response = "I'm a shopping assistant for bags and accessories. Try asking for a style, brand, color, or price range."
		res.Summary = prefs.Summary(sess.Snapshot())
		return res, nil
	}

	result := a.ner.ExtractEntities(ctx, text)

	if handled := a.handleUICommand(sess, result, res); handled {
		return res, nil
	}

	var delta *model.Preferences
	if a.fb != nil && fallback.Needed(result) {
		var err error
		delta, err = a.fb.Extract(ctx, text, sess.Snapshot())
		if err != nil {
			zap.L().Warn("fallback extractor unavailable, continuing with pipeline result",
				zap.String("session_id", sess.ID),
				zap.Error(err),
			)
			delta = nil
		}
	}

	next, report, err := a.rec.ApplyTurn(sess.Snapshot(), result, delta, text)
	if err != nil {
		zap.L().Error("turn reconciliation failed, state unchanged",
			zap.String("session_id", sess.ID),
			zap.Error(err),
		)
		res.Response = "I couldn't process that one, but your preferences are unchanged. Try rephrasing."
		res.Summary = prefs.Summary(sess.Snapshot())
		return res, nil
	}

	sess.Swap(next)
	prefs.RecordExtractions(sess.Tracker(), result, model.SourcePipeline)
	recordFallbackDelta(sess.Tracker(), delta)

	matches := catalog.Search(a.productSnapshot(), next)
	page := sess.SetResults(matches, a.batch)

	res.Summary = prefs.Summary(next)
	res.Products = page
	res.Remaining = len(matches) - len(page)
	res.Report = *report
	res.Diagnostics = prefs.BuildDiagnostics(result, sess.Tracker(), next)
	res.Response = buildResponse(next, report, len(matches), len(page))
	return res, nil
}

// Preferences returns the summary and diagnostics for an existing session.
func (a *Assistant) Preferences(sessionID string) (string, model.Diagnostics, bool) {
	sess, ok := a.sessions.Get(sessionID)
	if !ok {
		return "", model.Diagnostics{}, false
	}
	state := sess.Snapshot()
	return prefs.Summary(state), prefs.BuildDiagnostics(nil, sess.Tracker(), state), true
}

// ClearSession wipes a session's preferences and provenance.
func (a *Assistant) ClearSession(sessionID string) bool {
	sess, ok := a.sessions.Get(sessionID)
	if !ok {
		return false
	}
	sess.LockTurn()
	defer sess.UnlockTurn()
	sess.Reset()
	return true
}

// handleUICommand routes turns that are purely a command, with no product
// constraints riding along.
func (a *Assistant) handleUICommand(sess *session.Session, result *model.ExtractionResult, res *TurnResult) bool {
	commands := result.ByType(model.EntityUICommand)
	if len(commands) == 0 {
		return false
	}
	for _, e := range result.Extractions {
		if e.Type != model.EntityUICommand {
			return false
		}
	}

	kind := ner.ClassifyCommand(commands[0].Value)
	switch kind {
	case ner.CommandShowMore, ner.CommandNavigation:
		page, remaining := sess.NextResults(a.batch)
		if len(page) == 0 {
			res.Response = "That's everything matching your preferences. Adjust them to see different products."
		} else {
			res.Response = fmt.Sprintf("Here are %d more products.", len(page))
		}
		res.Products = page
		res.Remaining = remaining
	case ner.CommandReset:
		sess.Reset()
		res.Response = "Preferences cleared. What are you looking for?"
	case ner.CommandHelp:
		res.Response = "Describe what you want, like \"leather tote bags under $150, not black\". Say \"show more\" for the next page or \"clear preferences\" to start over."
	default:
		res.Response = "Anything else I can find for you?"
	}
	res.Summary = prefs.Summary(sess.Snapshot())
	return true
}

func recordFallbackDelta(tracker *prefs.Tracker, delta *model.Preferences) {
	if delta == nil {
		return
	}
	record := func(key string, present bool) {
		if present {
			tracker.Record(key, model.SourceFallback, model.StrategyModel, 0.6)
		}
	}
	record("brands", len(delta.Brands) > 0)
	record("colors", len(delta.Colors) > 0)
	record("categories", len(delta.Categories) > 0)
	record("price", delta.PriceMin != nil || delta.PriceMax != nil)
	record("exclusions", len(delta.ExcludedBrands)+len(delta.ExcludedCategories)+
		len(delta.ExcludedColors)+len(delta.ExcludedMaterials) > 0)
}

func buildResponse(state *model.Preferences, report *prefs.TurnReport, total, shown int) string {
	var b strings.Builder

	switch {
	case total == 0 && state.IsEmpty():
		b.WriteString("I didn't catch any preferences there. Try naming a style, brand, color, or price range.")
	case total == 0:
		b.WriteString("No products match your current preferences. Try relaxing a constraint.")
	case total <= shown:
		fmt.Fprintf(&b, "Found %d matching products.", total)
	default:
		fmt.Fprintf(&b, "Found %d matching products, showing the first %d. Say \"show more\" for the rest.", total, shown)
	}

	for _, dropped := range report.DroppedBrands {
		fmt.Fprintf(&b, " I don't carry %q, so I left it out.", dropped)
	}
	return b.String()
}
