package validate

import (
	"fmt"
	"strings"
)

// ValidateStructure checks that an article starts with a single H1 title,
// contains the outline headings in order (case-insensitive) and has no
// further H1 headings.
func ValidateStructure(markdown string, outline []string) error {
	lines := splitLines(markdown)
	firstIdx := -1
	for i, l := range lines {
		if strings.TrimSpace(l) != "" {
			firstIdx = i
			break
		}
	}
	if firstIdx == -1 {
		return fmt.Errorf("document is empty; missing title")
	}
	first := strings.TrimSpace(lines[firstIdx])
	if !isHeading(first) || headingLevel(first) != 1 {
		return fmt.Errorf("first non-empty line must be a single '# ' H1 heading")
	}

	type hd struct {
		level int
		text  string
	}
	var heads []hd
	for i := firstIdx + 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !isHeading(line) {
			continue
		}
		heads = append(heads, hd{level: headingLevel(line), text: stripHeading(line)})
	}

	pos := 0
	for idx, want := range outline {
		found := false
		for ; pos < len(heads); pos++ {
			if strings.EqualFold(heads[pos].text, strings.TrimSpace(want)) {
				found = true
				pos++
				break
			}
		}
		if !found {
			return fmt.Errorf("missing or out-of-order outline section: %q (index %d)", want, idx)
		}
	}

	for _, h := range heads {
		if h.level == 1 {
			return fmt.Errorf("document must not contain additional H1 headings beyond the title")
		}
	}
	return nil
}
