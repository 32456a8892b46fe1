package app

import (
	"strconv"
	"strings"
)

// appendReproFooter appends a deterministic footer that records how a
// draft was produced: drafter source, model, LLM base URL, parse mode and
// whether the draft cache was active.
func appendReproFooter(markdown, source, model, baseURL, mode string, cacheActive bool) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(markdown, "\n"))
	b.WriteString("\n\n---\n")
	b.WriteString("Reproducibility: ")
	b.WriteString("source=")
	b.WriteString(source)
	b.WriteString("; model=")
	b.WriteString(strings.TrimSpace(model))
	b.WriteString("; llm_base_url=")
	b.WriteString(strings.TrimSpace(baseURL))
	b.WriteString("; mode=")
	b.WriteString(mode)
	b.WriteString("; llm_cache=")
	b.WriteString(strconv.FormatBool(cacheActive))
	b.WriteString("\n")
	return b.String()
}
