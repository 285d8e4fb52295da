package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/shopassist-cli/internal/assistant"
	"github.com/sells-group/shopassist-cli/internal/catalog"
	"github.com/sells-group/shopassist-cli/internal/fallback"
	"github.com/sells-group/shopassist-cli/internal/ner"
	"github.com/sells-group/shopassist-cli/internal/session"
	anthropicpkg "github.com/sells-group/shopassist-cli/pkg/anthropic"
)

// assistantEnv holds the initialized extraction pipeline, session manager,
// and assistant needed by the chat/extract/serve commands.
type assistantEnv struct {
	Assistant *assistant.Assistant
	Sessions  *session.Manager
	Store     catalog.Store // nil unless loadCatalog was called
}

// Close releases resources held by the environment.
func (ae *assistantEnv) Close() {
	if ae.Sessions != nil {
		ae.Sessions.Close()
	}
	if ae.Store != nil {
		_ = ae.Store.Close()
	}
}

// initAssistant sets up the entity tables, extraction pipeline, session
// manager, and model fallback, and builds the Assistant. Callers should
// defer env.Close().
func initAssistant(mode string) (*assistantEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	tables := ner.DefaultTables()
	if cfg.NER.TablesPath != "" {
		t, err := ner.LoadTables(cfg.NER.TablesPath)
		if err != nil {
			return nil, eris.Wrap(err, "load entity tables")
		}
		tables = t
		zap.L().Info("entity tables loaded", zap.String("path", cfg.NER.TablesPath))
	}

	nerSvc := ner.NewService(tables)

	sessions := session.NewManager(session.Config{
		TTL:             time.Duration(cfg.Session.TTLHours) * time.Hour,
		CleanupInterval: time.Duration(cfg.Session.CleanupIntervalMins) * time.Minute,
		MaxSessions:     cfg.Session.MaxSessions,
	})

	opts := []assistant.Option{assistant.WithBatchSize(cfg.Chat.BatchSize)}

	if !cfg.Anthropic.Disabled && cfg.Anthropic.Key != "" {
		client := anthropicpkg.NewClient(cfg.Anthropic.Key)
		fb := fallback.NewAnthropicExtractor(client, fallback.Config{
			Model:             cfg.Anthropic.Model,
			MaxTokens:         cfg.Anthropic.MaxTokens,
			Timeout:           time.Duration(cfg.Anthropic.TimeoutSecs) * time.Second,
			RequestsPerMinute: cfg.Anthropic.RequestsPerMinute,
		})
		opts = append(opts, assistant.WithFallback(fb))
		zap.L().Info("model fallback enabled", zap.String("model", cfg.Anthropic.Model))
	} else {
		zap.L().Debug("model fallback disabled")
	}

	a := assistant.New(nerSvc, sessions, opts...)

	return &assistantEnv{Assistant: a, Sessions: sessions}, nil
}

// loadCatalog opens the configured store and loads its products into the
// assistant. The store is closed by env.Close().
func (ae *assistantEnv) loadCatalog(ctx context.Context) error {
	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	ae.Store = st

	if err := st.Migrate(ctx); err != nil {
		return eris.Wrap(err, "migrate store")
	}
	if err := ae.Assistant.LoadProducts(ctx, st); err != nil {
		return eris.Wrap(err, "load products")
	}
	return nil
}

func initStore(ctx context.Context) (catalog.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		return catalog.NewSQLite(cfg.Store.Path)
	case "postgres":
		return catalog.NewPostgres(ctx, cfg.Store.DatabaseURL, &catalog.PoolConfig{
			MaxConns: int32(cfg.Store.MaxConns),
			MinConns: int32(cfg.Store.MinConns),
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}
