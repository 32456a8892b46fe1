package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema.
// Nested sections map naturally to flags and env.
type FileConfig struct {
	Mode        string `yaml:"mode" json:"mode"`
	Output      string `yaml:"output" json:"output"`
	Format      string `yaml:"format" json:"format"`
	Concurrency int    `yaml:"concurrency" json:"concurrency"`
	Verbose     bool   `yaml:"verbose" json:"verbose"`
	DryRun      bool   `yaml:"dryRun" json:"dryRun"`

	LLM struct {
		BaseURL     string   `yaml:"base" json:"base"`
		Model       string   `yaml:"model" json:"model"`
		APIKey      string   `yaml:"key" json:"key"`
		Timeout     Duration `yaml:"timeout" json:"timeout"`
		Temperature *float32 `yaml:"temperature" json:"temperature"`
		CacheOnly   bool     `yaml:"cacheOnly" json:"cacheOnly"`
	} `yaml:"llm" json:"llm"`

	Cache struct {
		Dir         string   `yaml:"dir" json:"dir"`
		MaxAge      Duration `yaml:"maxAge" json:"maxAge"`
		Clear       bool     `yaml:"clear" json:"clear"`
		StrictPerms bool     `yaml:"strictPerms" json:"strictPerms"`
		MaxBytes    int64    `yaml:"maxBytes" json:"maxBytes"`
		MaxEntries  int      `yaml:"maxEntries" json:"maxEntries"`
	} `yaml:"cache" json:"cache"`

	Server struct {
		Addr         string   `yaml:"addr" json:"addr"`
		MaxBodyBytes int64    `yaml:"maxBodyBytes" json:"maxBodyBytes"`
		ReadTimeout  Duration `yaml:"readTimeout" json:"readTimeout"`
		WriteTimeout Duration `yaml:"writeTimeout" json:"writeTimeout"`
	} `yaml:"server" json:"server"`
}

// Duration accepts "90s"-style strings in YAML and JSON config files.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return d.set(s)
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"30s\": %w", err)
	}
	return d.set(s)
}

func (d *Duration) set(s string) error {
	if s == "" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays every value set in fc onto cfg. It runs before
// env and flags, so cfg normally holds DefaultConfig at this point.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if fc.Mode != "" {
		cfg.Mode = fc.Mode
	}
	if fc.Output != "" {
		cfg.OutputDir = fc.Output
	}
	if fc.Format != "" {
		cfg.Format = fc.Format
	}
	if fc.Concurrency > 0 {
		cfg.Concurrency = fc.Concurrency
	}
	if fc.Verbose {
		cfg.Verbose = true
	}
	if fc.DryRun {
		cfg.DryRun = true
	}

	if fc.LLM.BaseURL != "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if fc.LLM.Model != "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if fc.LLM.APIKey != "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}
	if fc.LLM.Timeout > 0 {
		cfg.LLMTimeout = time.Duration(fc.LLM.Timeout)
	}
	if fc.LLM.Temperature != nil {
		cfg.Temperature = *fc.LLM.Temperature
	}
	if fc.LLM.CacheOnly {
		cfg.LLMCacheOnly = true
	}

	if fc.Cache.Dir != "" {
		cfg.CacheDir = fc.Cache.Dir
	}
	if fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = time.Duration(fc.Cache.MaxAge)
	}
	if fc.Cache.Clear {
		cfg.CacheClear = true
	}
	if fc.Cache.StrictPerms {
		cfg.CacheStrictPerms = true
	}
	if fc.Cache.MaxBytes > 0 {
		cfg.CacheMaxBytes = fc.Cache.MaxBytes
	}
	if fc.Cache.MaxEntries > 0 {
		cfg.CacheMaxEntries = fc.Cache.MaxEntries
	}

	if fc.Server.Addr != "" {
		cfg.Addr = fc.Server.Addr
	}
	if fc.Server.MaxBodyBytes > 0 {
		cfg.MaxInputBytes = fc.Server.MaxBodyBytes
	}
	if fc.Server.ReadTimeout > 0 {
		cfg.ReadTimeout = time.Duration(fc.Server.ReadTimeout)
	}
	if fc.Server.WriteTimeout > 0 {
		cfg.WriteTimeout = time.Duration(fc.Server.WriteTimeout)
	}
}
