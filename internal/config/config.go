package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Catalog   CatalogConfig   `yaml:"catalog" mapstructure:"catalog"`
	NER       NERConfig       `yaml:"ner" mapstructure:"ner"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Session   SessionConfig   `yaml:"session" mapstructure:"session"`
	Chat      ChatConfig      `yaml:"chat" mapstructure:"chat"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the product database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int    `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int    `yaml:"min_conns" mapstructure:"min_conns"`
}

// CatalogConfig configures catalog import defaults.
type CatalogConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// NERConfig configures the entity extraction pipeline.
type NERConfig struct {
	TablesPath string `yaml:"tables_path" mapstructure:"tables_path"`
}

// AnthropicConfig holds Anthropic API settings for the model fallback.
type AnthropicConfig struct {
	Key               string `yaml:"key" mapstructure:"key"`
	Model             string `yaml:"model" mapstructure:"model"`
	MaxTokens         int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
	TimeoutSecs       int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RequestsPerMinute int    `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
	Disabled          bool   `yaml:"disabled" mapstructure:"disabled"`
}

// SessionConfig configures session lifecycle.
type SessionConfig struct {
	TTLHours            int `yaml:"ttl_hours" mapstructure:"ttl_hours"`
	CleanupIntervalMins int `yaml:"cleanup_interval_mins" mapstructure:"cleanup_interval_mins"`
	MaxSessions         int `yaml:"max_sessions" mapstructure:"max_sessions"`
}

// ChatConfig configures conversation behavior.
type ChatConfig struct {
	BatchSize int `yaml:"batch_size" mapstructure:"batch_size"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SHOPASSIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "shopassist.db")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("anthropic.timeout_secs", 15)
	v.SetDefault("anthropic.requests_per_minute", 30)
	v.SetDefault("session.ttl_hours", 24)
	v.SetDefault("session.cleanup_interval_mins", 60)
	v.SetDefault("session.max_sessions", 1000)
	v.SetDefault("chat.batch_size", 6)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the configuration is usable for the given mode.
// Modes: "chat" (REPL and one-shot extraction), "serve" (HTTP API),
// "catalog" (import and search against the store).
func (c *Config) Validate(mode string) error {
	var problems []string

	switch c.Store.Driver {
	case "sqlite":
		if c.Store.Path == "" {
			problems = append(problems, "store.path is required for the sqlite driver")
		}
	case "postgres":
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required for the postgres driver")
		}
	default:
		problems = append(problems, "store.driver must be sqlite or postgres")
	}

	if c.Chat.BatchSize < 1 || c.Chat.BatchSize > 50 {
		problems = append(problems, "chat.batch_size must be between 1 and 50")
	}
	if c.Session.MaxSessions < 1 {
		problems = append(problems, "session.max_sessions must be >= 1")
	}
	if c.Session.TTLHours < 1 {
		problems = append(problems, "session.ttl_hours must be >= 1")
	}

	switch mode {
	case "chat":
		if !c.Anthropic.Disabled && c.Anthropic.Key == "" {
			problems = append(problems, "anthropic.key is required unless anthropic.disabled is set")
		}
	case "serve":
		if !c.Anthropic.Disabled && c.Anthropic.Key == "" {
			problems = append(problems, "anthropic.key is required unless anthropic.disabled is set")
		}
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	case "catalog":
		// Store checks above are sufficient.
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
