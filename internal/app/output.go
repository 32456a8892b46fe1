package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/gobrief/internal/template"
)

// Encode writes v as indented JSON or as YAML.
func Encode(w io.Writer, v any, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// briefDocument is what `parse` emits per input: the bare brief, or the
// brief with its trace when explain is on.
func briefDocument(r ParseResult) any {
	if r.Trace == nil {
		return r.Brief
	}
	return struct {
		Brief any `json:"brief" yaml:"brief"`
		Trace any `json:"trace" yaml:"trace"`
	}{Brief: r.Brief, Trace: r.Trace}
}

// WriteResults emits successful results. With an output directory each
// brief goes to its own file plus a manifest.json; otherwise all briefs are
// written to w, as a single document for one input and a list for many.
func (a *App) WriteResults(w io.Writer, results []ParseResult) error {
	if strings.TrimSpace(a.cfg.OutputDir) == "" {
		var docs []any
		for _, r := range results {
			if r.Err == nil {
				docs = append(docs, briefDocument(r))
			}
		}
		switch len(docs) {
		case 0:
			return nil
		case 1:
			return Encode(w, docs[0], a.cfg.Format)
		default:
			return Encode(w, docs, a.cfg.Format)
		}
	}

	if err := os.MkdirAll(a.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	digests := make(map[string]string, len(results))
	failed := 0
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			failed++
			continue
		}
		var buf bytes.Buffer
		if err := Encode(&buf, briefDocument(*r), a.cfg.Format); err != nil {
			return err
		}
		r.Path = deriveOutputPath(a.cfg.OutputDir, r.Source, r.Brief, a.cfg.Format)
		if err := os.WriteFile(r.Path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		digests[r.Path] = computeSHA256Hex(buf.Bytes())
		log.Info().Str("input", r.Source).Str("out", r.Path).Msg("wrote brief")
	}

	meta := manifestMeta{
		Mode:        string(a.cfg.ParseMode()),
		Format:      a.cfg.Format,
		Version:     BuildVersion,
		InputCount:  len(results),
		FailedCount: failed,
		GeneratedAt: time.Now().UTC(),
	}
	data, err := marshalManifestJSON(meta, buildManifestEntries(results, digests))
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath(a.cfg.OutputDir), data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// RenderMarkdown lays a draft result out for humans: the article, each
// platform variant, any compliance issues and the reproducibility footer.
func (a *App) RenderMarkdown(res DraftResult) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(res.Draft.Article, "\n"))
	b.WriteString("\n")
	for _, v := range res.Draft.Variants {
		spec := template.ForPlatform(v.Platform)
		fmt.Fprintf(&b, "\n---\n\n**%s** (%d/%d characters)\n\n%s\n", spec.Name, len([]rune(v.Text)), v.MaxChars, v.Text)
	}
	if len(res.Issues) > 0 {
		b.WriteString("\n---\n\n> WARNING: compliance issues\n")
		for _, is := range res.Issues {
			b.WriteString(">\n> - ")
			b.WriteString(is.String())
			b.WriteString("\n")
		}
	}
	model := ""
	if a.LLMActive() {
		model = a.cfg.LLMModel
	}
	return appendReproFooter(b.String(), res.Draft.Source, model, a.cfg.LLMBaseURL, string(a.cfg.ParseMode()), a.CacheActive())
}
