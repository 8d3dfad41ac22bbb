// Package config supplies the settings a session needs: the API credential,
// the model and its output budget, and the system prompt.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultModel     = "claude-sonnet-4-20250514"
	DefaultMaxTokens = 4096
)

// Environment variables read by FromEnv.
const (
	EnvAPIKey       = "PALAVER_API_KEY"
	EnvBaseURL      = "PALAVER_BASE_URL"
	EnvModel        = "PALAVER_MODEL"
	EnvMaxTokens    = "PALAVER_MAX_TOKENS"
	EnvSystemPrompt = "PALAVER_SYSTEM_PROMPT"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
	EnvAnthropicURL = "ANTHROPIC_BASE_URL"
)

const defaultDotEnvFile = ".env"

// Provider is what a session reads its settings from. Values are read on
// every send, so an implementation may change them between turns.
type Provider interface {
	APIKey() string
	BaseURL() string
	Model() string
	MaxOutputTokens() int64
	SystemPrompt() string
}

// Config is a static Provider.
type Config struct {
	Key       string
	Endpoint  string
	ModelName string
	MaxTokens int64
	System    string
}

var _ Provider = Config{}

func (c Config) APIKey() string         { return c.Key }
func (c Config) BaseURL() string        { return c.Endpoint }
func (c Config) Model() string          { return c.ModelName }
func (c Config) MaxOutputTokens() int64 { return c.MaxTokens }
func (c Config) SystemPrompt() string   { return c.System }

// LogValue keeps the credential out of logs.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("api_key_set", c.Key != ""),
		slog.String("base_url", c.Endpoint),
		slog.String("model", c.ModelName),
		slog.Int64("max_tokens", c.MaxTokens),
		slog.Int("system_prompt_len", len(c.System)),
	)
}

// Validate checks the settings that have no usable fallback. A missing
// credential is not checked here; sessions report it when sending.
func (c Config) Validate() error {
	var errs error
	if strings.TrimSpace(c.ModelName) == "" {
		errs = errors.Join(errs, errors.New("model is required"))
	}
	if c.MaxTokens <= 0 {
		errs = errors.Join(errs, fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens))
	}
	return errs
}

// Load reads dotenv files into the environment, without overriding variables
// that are already set, then builds a Config from the environment. With no
// files it reads .env when one exists.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		if _, err := os.Stat(defaultDotEnvFile); err == nil {
			files = []string{defaultDotEnvFile}
		}
	}
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return Config{}, fmt.Errorf("failed to load env files: %w", err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables, applying defaults.
func FromEnv() (Config, error) {
	cfg := Config{
		Key:       firstEnv(EnvAPIKey, EnvAnthropicKey),
		Endpoint:  firstEnv(EnvBaseURL, EnvAnthropicURL),
		ModelName: firstEnv(EnvModel),
		MaxTokens: DefaultMaxTokens,
		System:    os.Getenv(EnvSystemPrompt),
	}
	if cfg.ModelName == "" {
		cfg.ModelName = DefaultModel
	}
	if v := strings.TrimSpace(os.Getenv(EnvMaxTokens)); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvMaxTokens, err)
		}
		cfg.MaxTokens = n
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}
