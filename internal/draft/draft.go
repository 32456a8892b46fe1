// Package draft turns a StructuredBrief into a first content draft: a
// long-form article plus one short variant per distribution platform.
package draft

import (
	"context"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/gobrief/internal/brief"
	"github.com/hyperifyio/gobrief/internal/classify"
)

var (
	// ErrNotConfigured is returned by an LLMDrafter without client or model.
	ErrNotConfigured = errors.New("drafter not configured")
	// ErrEmptyDraft indicates the model produced no usable article body.
	ErrEmptyDraft = errors.New("empty draft")
)

// Source values reported on a Draft.
const (
	SourceTemplate = "template"
	SourceLLM      = "llm"
	SourceCache    = "cache"
)

// Variant is the copy for one short-form platform.
type Variant struct {
	Platform  brief.Platform `json:"platform" yaml:"platform"`
	Text      string         `json:"text" yaml:"text"`
	MaxChars  int            `json:"max_chars" yaml:"max_chars"`
	Truncated bool           `json:"truncated" yaml:"truncated"`
}

// Draft is generated content for a brief. Article is Markdown.
type Draft struct {
	Title    string         `json:"title" yaml:"title"`
	Angle    classify.Angle `json:"angle" yaml:"angle"`
	Locale   string         `json:"locale" yaml:"locale"`
	Outline  []string       `json:"outline" yaml:"outline"`
	Article  string         `json:"article" yaml:"article"`
	Variants []Variant      `json:"variants" yaml:"variants"`
	Source   string         `json:"source" yaml:"source"`
}

// Variant returns the variant for p, if any.
func (d Draft) Variant(p brief.Platform) (Variant, bool) {
	for _, v := range d.Variants {
		if v.Platform == p {
			return v, true
		}
	}
	return Variant{}, false
}

// Drafter produces a Draft from a brief.
type Drafter interface {
	Draft(ctx context.Context, b brief.StructuredBrief) (Draft, error)
}

// Fallback tries Primary and falls back to Secondary on any error other
// than context cancellation. A nil Primary goes straight to Secondary.
type Fallback struct {
	Primary   Drafter
	Secondary Drafter
}

func (f *Fallback) Draft(ctx context.Context, b brief.StructuredBrief) (Draft, error) {
	if f.Primary != nil {
		d, err := f.Primary.Draft(ctx, b)
		if err == nil {
			return d, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Draft{}, ctxErr
		}
		log.Warn().Err(err).Msg("LLM drafter failed; using template drafter")
	}
	if f.Secondary == nil {
		return Draft{}, ErrNotConfigured
	}
	return f.Secondary.Draft(ctx, b)
}

// titleFor derives a headline from the storyline.
func titleFor(b brief.StructuredBrief) string {
	s := strings.TrimSpace(b.Storyline)
	if s == "" {
		s = brief.PlaceholderStoryline
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// fit shortens text to at most max runes, cutting at a word boundary and
// appending an ellipsis. A non-positive max means no limit.
func fit(text string, max int) (string, bool) {
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text, false
	}
	runes := []rune(text)
	cut := max - 1
	for i := cut; i > max/2; i-- {
		if unicode.IsSpace(runes[i]) {
			cut = i
			break
		}
	}
	return strings.TrimRightFunc(string(runes[:cut]), unicode.IsSpace) + "…", true
}
