package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/gobrief/internal/app"
	"github.com/hyperifyio/gobrief/internal/ingest"
)

// options receives flag values. Only flags the user actually set override
// the config file and the environment.
type options struct {
	configPath string
	envFiles   []string
	verbose    bool
	mode       string
	format     string
	maxBytes   int64
	dryRun     bool
	fetchTime  time.Duration

	llmBase      string
	llmModel     string
	llmKey       string
	llmTimeout   time.Duration
	temperature  float32
	llmCacheOnly bool

	cacheDir    string
	cacheMaxAge time.Duration
	cacheClear  bool
	cacheStrict bool

	// parse
	out         string
	concurrency int
	explain     bool

	// draft
	asData bool

	// serve
	addr string
}

func (o *options) bindPersistent(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&o.configPath, "config", "", "Path to a YAML or JSON config file")
	f.StringSliceVar(&o.envFiles, "env-file", nil, "Additional dotenv files to load (later files win)")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "Verbose logging")
	f.StringVar(&o.mode, "mode", "enhanced", "Parse mode: standard or enhanced")
	f.StringVar(&o.format, "format", app.DefaultFormat, "Output format: json or yaml")
	f.Int64Var(&o.maxBytes, "max-bytes", ingest.DefaultMaxBytes, "Maximum size of one briefing input in bytes")
	f.BoolVar(&o.dryRun, "dry-run", false, "Never call the model; draft from templates")
	f.DurationVar(&o.fetchTime, "fetch.timeout", app.DefaultFetchTimeout, "Timeout for downloading a briefing given as a URL")

	f.StringVar(&o.llmBase, "llm.base", "", "OpenAI-compatible base URL")
	f.StringVar(&o.llmModel, "llm.model", "", "Model name; empty disables LLM drafting")
	f.StringVar(&o.llmKey, "llm.key", "", "API key for the OpenAI-compatible server")
	f.DurationVar(&o.llmTimeout, "llm.timeout", app.DefaultLLMTimeout, "Timeout for one model request")
	f.Float32Var(&o.temperature, "llm.temperature", 0.2, "Sampling temperature")
	f.BoolVar(&o.llmCacheOnly, "llm.cacheOnly", false, "Serve drafts from the cache only and never call the model")

	f.StringVar(&o.cacheDir, "cache.dir", app.DefaultCacheDir, "Cache directory path")
	f.DurationVar(&o.cacheMaxAge, "cache.maxAge", 0, "Max age for cache entries before purge (e.g. 24h); 0 disables")
	f.BoolVar(&o.cacheClear, "cache.clear", false, "Clear cache directory before run")
	f.BoolVar(&o.cacheStrict, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
}

// buildConfig assembles the configuration: defaults, then the config
// file, then the environment, then flags set on the command line.
func (o *options) buildConfig(cmd *cobra.Command) (app.Config, error) {
	if err := app.LoadEnvFiles(o.envFiles...); err != nil {
		return app.Config{}, err
	}
	cfg := app.DefaultConfig()
	if o.configPath != "" {
		fc, err := app.LoadConfigFile(o.configPath)
		if err != nil {
			return app.Config{}, fmt.Errorf("config file: %w", err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)

	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("verbose", func() { cfg.Verbose = o.verbose })
	set("mode", func() { cfg.Mode = o.mode })
	set("format", func() { cfg.Format = o.format })
	set("max-bytes", func() { cfg.MaxInputBytes = o.maxBytes })
	set("dry-run", func() { cfg.DryRun = o.dryRun })
	set("fetch.timeout", func() { cfg.FetchTimeout = o.fetchTime })
	set("llm.base", func() { cfg.LLMBaseURL = o.llmBase })
	set("llm.model", func() { cfg.LLMModel = o.llmModel })
	set("llm.key", func() { cfg.LLMAPIKey = o.llmKey })
	set("llm.timeout", func() { cfg.LLMTimeout = o.llmTimeout })
	set("llm.temperature", func() { cfg.Temperature = o.temperature })
	set("llm.cacheOnly", func() { cfg.LLMCacheOnly = o.llmCacheOnly })
	set("cache.dir", func() { cfg.CacheDir = o.cacheDir })
	set("cache.maxAge", func() { cfg.CacheMaxAge = o.cacheMaxAge })
	set("cache.clear", func() { cfg.CacheClear = o.cacheClear })
	set("cache.strictPerms", func() { cfg.CacheStrictPerms = o.cacheStrict })
	set("out", func() { cfg.OutputDir = o.out })
	set("concurrency", func() { cfg.Concurrency = o.concurrency })
	set("explain", func() { cfg.Explain = o.explain })
	set("addr", func() { cfg.Addr = o.addr })

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	if err := app.ValidateConfig(cfg); err != nil {
		return app.Config{}, err
	}
	return cfg, nil
}
