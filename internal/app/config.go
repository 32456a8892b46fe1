package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/hyperifyio/gobrief/internal/brief"
	"github.com/hyperifyio/gobrief/internal/ingest"
)

// Config holds runtime configuration for the application.
type Config struct {
	// Parsing
	Mode          string
	Format        string `validate:"oneof=json yaml"`
	OutputDir     string
	Explain       bool
	Concurrency   int   `validate:"gte=1,lte=64"`
	MaxInputBytes int64 `validate:"gt=0"`

	// FetchTimeout bounds one download of a briefing given as a URL.
	FetchTimeout time.Duration `validate:"gte=0"`

	// LLM
	LLMBaseURL  string `validate:"omitempty,url"`
	LLMModel    string
	LLMAPIKey   string
	LLMTimeout  time.Duration `validate:"gte=0"`
	Temperature float32       `validate:"gte=0,lte=2"`

	// Behavior
	DryRun       bool
	LLMCacheOnly bool
	Verbose      bool

	// Cache
	CacheDir         string
	CacheMaxAge      time.Duration `validate:"gte=0"`
	CacheClear       bool
	CacheStrictPerms bool
	CacheMaxBytes    int64 `validate:"gte=0"`
	CacheMaxEntries  int   `validate:"gte=0"`

	// Server
	Addr         string        `validate:"required,hostname_port"`
	ReadTimeout  time.Duration `validate:"gte=0"`
	WriteTimeout time.Duration `validate:"gte=0"`
}

// Defaults used by the CLI flags and when a config file leaves a value unset.
const (
	DefaultFormat       = "json"
	DefaultConcurrency  = 4
	DefaultCacheDir     = ".gobrief-cache"
	DefaultAddr         = ":8080"
	DefaultLLMTimeout   = 60 * time.Second
	DefaultFetchTimeout = 20 * time.Second
	DefaultReadTimeout  = 15 * time.Second
	DefaultWriteTimeout = 90 * time.Second
)

// DefaultConfig returns the configuration used when nothing else is set.
func DefaultConfig() Config {
	return Config{
		Mode:          string(brief.DefaultMode),
		Format:        DefaultFormat,
		Concurrency:   DefaultConcurrency,
		MaxInputBytes: ingest.DefaultMaxBytes,
		LLMTimeout:    DefaultLLMTimeout,
		FetchTimeout:  DefaultFetchTimeout,
		Temperature:   0.2,
		CacheDir:      DefaultCacheDir,
		Addr:          DefaultAddr,
		ReadTimeout:   DefaultReadTimeout,
		WriteTimeout:  DefaultWriteTimeout,
	}
}

// ParseMode returns the configured parse mode.
func (c Config) ParseMode() brief.Mode {
	m, err := brief.ParseMode(c.Mode)
	if err != nil {
		return brief.DefaultMode
	}
	return m
}

// LLMConfigured reports whether a model endpoint can be called.
func (c Config) LLMConfigured() bool {
	return !c.DryRun && strings.TrimSpace(c.LLMModel) != ""
}

var configValidator = validator.New()

// ErrInvalidConfig wraps every error returned by ValidateConfig.
var ErrInvalidConfig = errors.New("invalid config")

// ValidateConfig checks ranges and enums. LLM settings are optional: without
// a model the template drafter is used.
func ValidateConfig(cfg Config) error {
	if _, err := brief.ParseMode(cfg.Mode); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := configValidator.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed %s (value %v)", fe.Field(), fe.Tag(), fe.Value()))
		}
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
	}
	if cfg.LLMCacheOnly && strings.TrimSpace(cfg.CacheDir) == "" {
		return fmt.Errorf("%w: cache-only drafting needs a cache directory", ErrInvalidConfig)
	}
	return nil
}
