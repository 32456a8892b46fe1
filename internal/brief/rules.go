package brief

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// fieldRule is one link of an extraction chain. The first capture group of
// re holds the candidate value.
type fieldRule struct {
	name string
	re   *regexp.Regexp
}

// firstMatch walks rules in order and, within a rule, matches in text
// order. The first cleaned candidate accepted by accept wins. No scoring
// across candidates.
func firstMatch(text string, rules []fieldRule, accept func(string) bool) (string, string) {
	for _, r := range rules {
		for _, m := range r.re.FindAllStringSubmatch(text, -1) {
			if len(m) < 2 {
				continue
			}
			v := cleanValue(m[1])
			if v == "" {
				continue
			}
			if accept == nil || accept(v) {
				return v, r.name
			}
		}
	}
	return "", ""
}

// lengthBetween accepts values whose rune length is in [lo, hi].
func lengthBetween(lo, hi int) func(string) bool {
	return func(s string) bool {
		n := utf8.RuneCountInString(s)
		return n >= lo && n <= hi
	}
}

func cleanValue(s string) string {
	return stripTrailingPunctuation(strings.TrimSpace(s))
}

func stripTrailingPunctuation(s string) string {
	return strings.TrimSpace(strings.TrimRight(s, " \t.,;:!-"))
}

// splitList splits a captured label value on commas and semicolons.
func splitList(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		v := strings.TrimSpace(p)
		v = strings.Trim(v, `"'“”‘’`)
		v = stripTrailingPunctuation(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// uniqueFold appends items to dst skipping case-insensitive duplicates,
// keeping the first spelling and insertion order.
func uniqueFold(dst []string, items ...string) []string {
	seen := make(map[string]struct{}, len(dst)+len(items))
	for _, d := range dst {
		seen[strings.ToLower(d)] = struct{}{}
	}
	for _, it := range items {
		key := strings.ToLower(it)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		dst = append(dst, it)
	}
	return dst
}

// containsAny reports the first keyword contained in lower.
func containsAny(lower string, keywords []string) (string, bool) {
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return k, true
		}
	}
	return "", false
}
