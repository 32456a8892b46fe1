package classify

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var quoteReplacer = strings.NewReplacer("\u2019", "'", "\u2018", "'", "\u00a0", " ")

// Normalize prepares text for indicator matching: NFC composition, case
// folding and typographic apostrophes mapped to ASCII. Callers match against
// folded vocabularies, so both sides must go through this function.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	// cases.Caser keeps internal state; build one per call.
	folded := cases.Fold().String(norm.NFC.String(s))
	return quoteReplacer.Replace(folded)
}

func normalizeAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = Normalize(s)
	}
	return out
}
