// Package fallback extracts a preference delta with the Anthropic API when
// the rule pipeline comes up empty or a shopper phrases things no pattern
// covers. Its output feeds the same reconciliation path as pipeline deltas.
package fallback

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/shopassist-cli/internal/model"
	"github.com/sells-group/shopassist-cli/internal/resilience"
	"github.com/sells-group/shopassist-cli/pkg/anthropic"
)

// Extractor produces a preference delta from raw input text.
type Extractor interface {
	Extract(ctx context.Context, text string, current *model.Preferences) (*model.Preferences, error)
}

// Config controls the Anthropic-backed extractor.
type Config struct {
	Model             string
	MaxTokens         int64
	Timeout           time.Duration
	RequestsPerMinute int
}

// DefaultConfig returns settings suited to short chat turns.
func DefaultConfig() Config {
	return Config{
		Model:             "claude-haiku-4-5-20251001",
		MaxTokens:         1024,
		Timeout:           15 * time.Second,
		RequestsPerMinute: 30,
	}
}

// AnthropicExtractor implements Extractor against the Anthropic API with
// rate limiting, retries, and a circuit breaker.
type AnthropicExtractor struct {
	client  anthropic.Client
	cfg     Config
	limiter *rate.Limiter
	retry   resilience.RetryConfig
	breaker *resilience.CircuitBreaker
}

// NewAnthropicExtractor wires the extractor with default resilience settings.
func NewAnthropicExtractor(client anthropic.Client, cfg Config) *AnthropicExtractor {
	if cfg.Model == "" {
		cfg.Model = DefaultConfig().Model
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultConfig().MaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = DefaultConfig().RequestsPerMinute
	}

	retryCfg := resilience.DefaultRetryConfig()
	retryCfg.OnRetry = resilience.RetryLogger("anthropic", "extract_preferences")

	return &AnthropicExtractor{
		client:  client,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), cfg.RequestsPerMinute),
		retry:   retryCfg,
		breaker: resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig()),
	}
}

// Extract sends one extraction request and parses the JSON delta. A nil
// delta with a non-nil error means the caller should proceed with the
// pipeline result alone.
func (e *AnthropicExtractor) Extract(ctx context.Context, text string, current *model.Preferences) (*model.Preferences, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "fallback: rate limit wait")
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	temp := 0.0
	req := anthropic.MessageRequest{
		Model:       e.cfg.Model,
		MaxTokens:   e.cfg.MaxTokens,
		System:      anthropic.BuildCachedSystemBlocks(systemPrompt),
		Messages:    []anthropic.Message{{Role: "user", Content: buildUserPrompt(text, current)}},
		Temperature: &temp,
	}

	resp, err := resilience.DoVal(ctx, e.retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return resilience.ExecuteVal(ctx, e.breaker, func(ctx context.Context) (*anthropic.MessageResponse, error) {
			return e.client.CreateMessage(ctx, req)
		})
	})
	if err != nil {
		return nil, eris.Wrap(err, "fallback: create message")
	}

	delta, err := parseDelta(resp.FirstText())
	if err != nil {
		return nil, err
	}

	zap.L().Debug("fallback extraction",
		zap.String("model", e.cfg.Model),
		zap.Int64("input_tokens", resp.Usage.InputTokens),
		zap.Int64("output_tokens", resp.Usage.OutputTokens),
	)
	return delta, nil
}

// Needed reports whether the pipeline result is weak enough to consult the
// model: no extractions at all, or nothing above the reliability line.
func Needed(result *model.ExtractionResult) bool {
	if result == nil || len(result.Extractions) == 0 {
		return true
	}
	for _, e := range result.Extractions {
		if e.Confidence >= 0.7 {
			return false
		}
	}
	return true
}
