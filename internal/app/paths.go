package app

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/hyperifyio/gobrief/internal/brief"
)

// deriveOutputPath returns a stable output path under dir for a parsed
// brief. The file name is the slugified storyline plus a short hash of the
// source name and storyline, so two inputs about the same topic do not
// overwrite each other.
func deriveOutputPath(dir, source string, b brief.StructuredBrief, format string) string {
	topic := strings.TrimSpace(b.Storyline)
	if topic == "" {
		topic = brief.PlaceholderStoryline
	}
	h := sha256.Sum256([]byte(source + "\x00" + strings.ToLower(topic)))
	short := hex.EncodeToString(h[:])[:12]
	ext := ".json"
	if format == "yaml" {
		ext = ".yaml"
	}
	return filepath.Join(dir, slugify(topic)+"-"+short+ext)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// slugify folds accents ("café" -> "cafe") before replacing every other
// non-alphanumeric run with a hyphen.
func slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlug.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 60 {
		s = strings.TrimRight(s[:60], "-")
	}
	if s == "" {
		s = "brief"
	}
	return s
}
