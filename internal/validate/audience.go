package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hyperifyio/gobrief/internal/brief"
)

// AudienceFit checks that generated markdown matches the brief's reading
// level, audience and voice. It flags:
//   - for plain-language readers: code blocks and high jargon density
//   - for professional or authoritative voices: casual language markers
//
// It is deterministic and conservative to avoid false positives.
func AudienceFit(markdown string, b brief.StructuredBrief) []string {
	var issues []string
	lines := splitLines(markdown)

	if isFormal(b.Brand.VoiceTone) && hasCasualMarkers(markdown) {
		issues = append(issues, "casual language markers present despite professional voice")
	}
	if !plainLanguage(b) {
		return issues
	}
	if containsCodeBlock(lines) {
		issues = append(issues, fmt.Sprintf("code blocks present for reading level %s", b.Audience.ReadingLevel))
	}
	for _, sec := range sections(lines) {
		body := strings.Join(lines[sec.start:sec.end], "\n")
		// More than 4 jargon or acronym hits per 100 words is high.
		if jd := jargonDensity(body); jd > 4.0 {
			issues = append(issues, fmt.Sprintf("section '%s' has high jargon density (%.1f per 100 words)", safeTitle(sec.title), jd))
		}
	}
	return issues
}

func plainLanguage(b brief.StructuredBrief) bool {
	switch b.Audience.ReadingLevel {
	case brief.ReadingA2, brief.ReadingB1:
		return true
	case brief.ReadingC1:
		return false
	}
	s := strings.ToLower(b.Audience.Primary)
	for _, k := range []string{"parents", "students", "families", "beginners", "consumers", "customers", "general audience"} {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func isFormal(tones []string) bool {
	for _, t := range tones {
		if t == "professional" || t == "authoritative" {
			return true
		}
	}
	return false
}

func containsCodeBlock(lines []string) bool {
	for _, l := range lines {
		if strings.Contains(l, "```") {
			return true
		}
	}
	return false
}

var acronymRe = regexp.MustCompile(`\b[A-Z]{2,6}\b`)

// Technical and business jargon, lowercase. Short acronyms are left to
// acronymRe since they occur inside ordinary words.
var jargonLexicon = []string{
	"throughput", "latency", "idempotent", "kubernetes", "containerization", "orchestration",
	"serialization", "microservices", "observability", "telemetry",
	"synergy", "leverage", "paradigm", "omnichannel", "deliverables", "funnel optimization",
}

func jargonDensity(text string) float64 {
	words := CountWords(text)
	if words == 0 {
		return 0
	}
	hits := 0
	for _, m := range acronymRe.FindAllString(text, -1) {
		switch m {
		case "AI", "FAQ", "URL", "EU", "USA", "UK", "TV":
			continue
		}
		hits++
	}
	low := strings.ToLower(text)
	for _, j := range jargonLexicon {
		if strings.Contains(low, j) {
			hits++
		}
	}
	return (float64(hits) / float64(words)) * 100.0
}

func hasCasualMarkers(s string) bool {
	low := strings.ToLower(s)
	for _, m := range []string{"awesome", "kinda", "gonna", "wanna", "you guys", "btw", "lol", "omg", "!!"} {
		if strings.Contains(low, m) {
			return true
		}
	}
	return false
}
