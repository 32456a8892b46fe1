package validate

import "strings"

func splitLines(s string) []string {
	return strings.Split(s, "\n")
}

func isHeading(s string) bool {
	// e.g., "# Title" .. "###### Title"
	i := 0
	for i < len(s) && s[i] == '#' {
		i++
	}
	return i > 0 && i <= 6 && i < len(s) && s[i] == ' '
}

func headingLevel(s string) int {
	lvl := 0
	for lvl < len(s) && s[lvl] == '#' {
		lvl++
	}
	return lvl
}

func stripHeading(s string) string {
	return strings.TrimSpace(strings.TrimLeft(s, "#"))
}

type section struct {
	title      string
	start, end int
}

// sections splits lines into heading-delimited sections. Text before the
// first heading becomes an untitled section.
func sections(lines []string) []section {
	var out []section
	for i, l := range lines {
		if !isHeading(strings.TrimSpace(l)) {
			continue
		}
		if len(out) > 0 {
			out[len(out)-1].end = i
		}
		out = append(out, section{title: stripHeading(strings.TrimSpace(l)), start: i + 1, end: len(lines)})
	}
	if len(out) == 0 {
		out = append(out, section{start: 0, end: len(lines)})
	}
	return out
}

func safeTitle(s string) string {
	t := strings.TrimSpace(s)
	if t == "" {
		return "(untitled)"
	}
	return t
}

// CountWords counts whitespace separated words.
func CountWords(s string) int {
	return len(strings.Fields(s))
}
