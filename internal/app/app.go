package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/gobrief/internal/brief"
	"github.com/hyperifyio/gobrief/internal/cache"
	"github.com/hyperifyio/gobrief/internal/draft"
	"github.com/hyperifyio/gobrief/internal/fetch"
	"github.com/hyperifyio/gobrief/internal/ingest"
	"github.com/hyperifyio/gobrief/internal/llm"
	"github.com/hyperifyio/gobrief/internal/validate"
)

// App wires the parser, drafters and cache for the CLI and the HTTP server.
// It is safe for concurrent use once constructed.
type App struct {
	cfg     Config
	client  llm.Client
	cache   *cache.LLMCache
	drafter draft.Drafter
	fetcher *fetch.Client
}

func New(ctx context.Context, cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	a := &App{cfg: cfg}
	a.fetcher = &fetch.Client{
		HTTPClient:        newHighThroughputHTTPClient(cfg.FetchTimeout),
		UserAgent:         "gobrief/" + BuildVersion,
		MaxAttempts:       2,
		PerRequestTimeout: cfg.FetchTimeout,
	}

	if cfg.CacheDir != "" {
		prepareCache(cfg)
		a.cache = &cache.LLMCache{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}
	}

	fallback := &draft.Fallback{Secondary: draft.TemplateDrafter{}}
	if cfg.LLMConfigured() {
		provider := llm.NewOpenAI(cfg.LLMBaseURL, cfg.LLMAPIKey, newHighThroughputHTTPClient(cfg.LLMTimeout))
		a.client = provider
		fallback.Primary = &draft.LLMDrafter{
			Client:      provider,
			Model:       cfg.LLMModel,
			Cache:       a.cache,
			Temperature: cfg.Temperature,
			CacheOnly:   cfg.LLMCacheOnly,
		}
		if !cfg.LLMCacheOnly {
			preflight(ctx, provider)
		}
	} else {
		log.Debug().Bool("dry_run", cfg.DryRun).Msg("no LLM model configured; drafts use templates")
	}
	a.drafter = fallback
	return a, nil
}

// prepareCache applies clear, age and size controls before first use.
// Failures are logged; a broken cache must not stop parsing.
func prepareCache(cfg Config) {
	if cfg.CacheClear {
		if err := cache.ClearDir(cfg.CacheDir); err != nil {
			log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache clear failed")
		}
	}
	if cfg.CacheMaxAge > 0 {
		if n, err := cache.PurgeLLMCacheByAge(cfg.CacheDir, cfg.CacheMaxAge); err != nil {
			log.Warn().Err(err).Msg("cache purge failed")
		} else if n > 0 {
			log.Debug().Int("removed", n).Dur("max_age", cfg.CacheMaxAge).Msg("purged stale drafts")
		}
	}
	if cfg.CacheMaxBytes > 0 || cfg.CacheMaxEntries > 0 {
		if n, err := cache.EnforceLLMCacheLimits(cfg.CacheDir, cfg.CacheMaxBytes, cfg.CacheMaxEntries); err != nil {
			log.Warn().Err(err).Msg("cache limit enforcement failed")
		} else if n > 0 {
			log.Debug().Int("evicted", n).Msg("evicted drafts over cache limits")
		}
	}
}

// preflight lists models to surface a misconfigured endpoint early. It never
// fails: the fallback drafter covers an unreachable backend.
func preflight(ctx context.Context, lister llm.ModelLister) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	models, err := lister.ListModels(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("LLM model list failed; continuing")
		return
	}
	if len(models.Models) > 0 {
		log.Info().Int("count", len(models.Models)).Msg("LLM models available")
	} else {
		log.Warn().Msg("LLM returned zero models")
	}
}

func (a *App) Close() {
	// nothing to release yet; the HTTP transport is shared by the provider
}

// Config returns the validated configuration.
func (a *App) Config() Config { return a.cfg }

// ParseResult is one parsed input.
type ParseResult struct {
	Source string                `json:"source" yaml:"source"`
	MIME   string                `json:"mime,omitempty" yaml:"mime,omitempty"`
	Brief  brief.StructuredBrief `json:"brief" yaml:"brief"`
	Trace  *brief.Trace          `json:"trace,omitempty" yaml:"trace,omitempty"`
	// Path is set when the brief was written to the output directory.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	Err  error  `json:"-" yaml:"-"`
}

// ParseText parses already-extracted text with the configured mode.
func (a *App) ParseText(text string, mode brief.Mode, explain bool) ParseResult {
	b, tr := brief.ParseWithTrace(text, mode)
	res := ParseResult{Brief: b}
	if explain {
		res.Trace = &tr
	}
	return res
}

// ParseBytes ingests an uploaded or read file and parses it. Unsupported
// or oversized input returns the ingest sentinel errors.
func (a *App) ParseBytes(source string, data []byte, mode brief.Mode, explain bool) (ParseResult, error) {
	in, err := ingest.Bytes(data, a.cfg.MaxInputBytes)
	if err != nil {
		return ParseResult{Source: source}, fmt.Errorf("%s: %w", source, err)
	}
	res := a.ParseText(in.Text, mode, explain)
	res.Source = source
	res.MIME = in.MIME
	return res, nil
}

// DraftResult bundles a draft with its compliance findings.
type DraftResult struct {
	Brief  brief.StructuredBrief `json:"brief" yaml:"brief"`
	Draft  draft.Draft           `json:"draft" yaml:"draft"`
	Issues []validate.Issue      `json:"issues" yaml:"issues"`
}

// Draft generates content for b and checks it. Issues are findings, not
// errors; an error means no draft could be produced at all.
func (a *App) Draft(ctx context.Context, b brief.StructuredBrief) (DraftResult, error) {
	b.Normalize()
	d, err := a.drafter.Draft(ctx, b)
	if err != nil {
		return DraftResult{}, fmt.Errorf("draft: %w", err)
	}
	issues := validate.CheckDraft(b, d)
	for _, is := range issues {
		log.Debug().Str("kind", is.Kind).Str("platform", string(is.Platform)).Msg(is.Message)
	}
	if len(issues) > 0 {
		log.Warn().Int("issues", len(issues)).Str("source", d.Source).Msg("draft has compliance issues")
	}
	return DraftResult{Brief: b, Draft: d, Issues: issues}, nil
}

// LLMActive reports whether drafts try the model before the template.
func (a *App) LLMActive() bool { return a.client != nil }

// CacheActive reports whether LLM drafts are cached.
func (a *App) CacheActive() bool { return a.cache != nil }
