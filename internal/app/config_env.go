package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ApplyEnvOverrides overrides cfg fields with environment variables that are
// set. It runs after the config file so env takes precedence over it, and
// before flags so explicit flags stay highest.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	if v := os.Getenv("GOBRIEF_MODE"); v != "" {
		cfg.Mode = v
	}
	if v := os.Getenv("GOBRIEF_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("GOBRIEF_ADDR"); v != "" {
		cfg.Addr = v
	}

	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLMBaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLMModel = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLMAPIKey = v
	}

	if v := os.Getenv("CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	setDuration(&cfg.CacheMaxAge, "CACHE_MAX_AGE")
	setDuration(&cfg.LLMTimeout, "LLM_TIMEOUT")
	setDuration(&cfg.FetchTimeout, "FETCH_TIMEOUT")

	if s := strings.TrimSpace(os.Getenv("GOBRIEF_CONCURRENCY")); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			cfg.Concurrency = n
		} else {
			log.Warn().Str("env", "GOBRIEF_CONCURRENCY").Str("value", s).Msg("ignoring invalid value")
		}
	}

	// Booleans override when env present and truthy/falsey
	setBool(&cfg.DryRun, "DRY_RUN")
	setBool(&cfg.Verbose, "VERBOSE")
	setBool(&cfg.CacheClear, "CACHE_CLEAR")
	setBool(&cfg.CacheStrictPerms, "CACHE_STRICT_PERMS")
	setBool(&cfg.LLMCacheOnly, "LLM_CACHE_ONLY")
}

func setDuration(dst *time.Duration, envKey string) {
	s := strings.TrimSpace(os.Getenv(envKey))
	if s == "" {
		return
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Warn().Str("env", envKey).Str("value", s).Msg("ignoring invalid duration")
		return
	}
	*dst = d
}

func setBool(dst *bool, envKey string) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(envKey))) {
	case "1", "true", "yes", "on":
		*dst = true
	case "0", "false", "no", "off":
		*dst = false
	}
}
