// Package validate checks generated drafts against the brief they were
// generated from. Findings are reported as issues, never as hard failures.
package validate

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hyperifyio/gobrief/internal/brief"
	"github.com/hyperifyio/gobrief/internal/classify"
	"github.com/hyperifyio/gobrief/internal/draft"
)

// Issue kinds.
const (
	KindBannedPhrase      = "banned-phrase"
	KindMissingPhrase     = "missing-phrase"
	KindOverLimit         = "over-limit"
	KindTruncated         = "truncated"
	KindMissingDisclaimer = "missing-disclaimer"
	KindStructure         = "structure"
	KindAudienceFit       = "audience-fit"
)

// Issue is one compliance finding. Platform is "article" for the long-form
// body.
type Issue struct {
	Kind     string         `json:"kind" yaml:"kind"`
	Platform brief.Platform `json:"platform" yaml:"platform"`
	Message  string         `json:"message" yaml:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s [%s]: %s", i.Kind, i.Platform, i.Message)
}

// CheckDraft reports banned phrases present anywhere, must-use phrases and
// the disclaimer missing from the article, variants over their platform
// limit, outline drift and audience-fit problems. The result is never nil.
func CheckDraft(b brief.StructuredBrief, d draft.Draft) []Issue {
	issues := []Issue{}
	article := classify.Normalize(d.Article)

	for _, p := range b.Brand.BannedPhrases {
		np := classify.Normalize(p)
		if containsPhrase(article, np) {
			issues = append(issues, Issue{Kind: KindBannedPhrase, Platform: brief.PlatformArticle, Message: fmt.Sprintf("banned phrase %q used", p)})
		}
		for _, v := range d.Variants {
			if containsPhrase(classify.Normalize(v.Text), np) {
				issues = append(issues, Issue{Kind: KindBannedPhrase, Platform: v.Platform, Message: fmt.Sprintf("banned phrase %q used", p)})
			}
		}
	}
	for _, p := range b.Brand.MustUsePhrases {
		if !containsPhrase(article, classify.Normalize(p)) {
			issues = append(issues, Issue{Kind: KindMissingPhrase, Platform: brief.PlatformArticle, Message: fmt.Sprintf("required phrase %q missing", p)})
		}
	}
	if disc := strings.TrimSpace(b.Legal.Disclaimer); disc != "" && !strings.Contains(article, classify.Normalize(disc)) {
		issues = append(issues, Issue{Kind: KindMissingDisclaimer, Platform: brief.PlatformArticle, Message: "legal disclaimer missing from article"})
	}
	for _, v := range d.Variants {
		n := utf8.RuneCountInString(v.Text)
		switch {
		case v.MaxChars > 0 && n > v.MaxChars:
			issues = append(issues, Issue{Kind: KindOverLimit, Platform: v.Platform, Message: fmt.Sprintf("%d characters exceeds limit of %d", n, v.MaxChars)})
		case v.Truncated:
			issues = append(issues, Issue{Kind: KindTruncated, Platform: v.Platform, Message: fmt.Sprintf("shortened to %d characters; review the ending", v.MaxChars)})
		}
	}
	if err := ValidateStructure(d.Article, d.Outline); err != nil {
		issues = append(issues, Issue{Kind: KindStructure, Platform: brief.PlatformArticle, Message: err.Error()})
	}
	for _, msg := range AudienceFit(d.Article, b) {
		issues = append(issues, Issue{Kind: KindAudienceFit, Platform: brief.PlatformArticle, Message: msg})
	}
	return issues
}

// containsPhrase finds phrase in text at word boundaries, so "cheap" does
// not match "cheaper". Both arguments must already be normalized.
func containsPhrase(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	for off := 0; off <= len(text); {
		i := strings.Index(text[off:], phrase)
		if i < 0 {
			return false
		}
		start := off + i
		end := start + len(phrase)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		off = start + size
	}
	return false
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
