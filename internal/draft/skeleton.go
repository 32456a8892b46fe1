package draft

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/language"

	"github.com/hyperifyio/gobrief/internal/brief"
	"github.com/hyperifyio/gobrief/internal/classify"
	"github.com/hyperifyio/gobrief/internal/template"
)

// TemplateDrafter builds a deterministic Markdown skeleton from the angle
// profile and short variants from the platform specs. It needs no network
// and never fails.
type TemplateDrafter struct{}

func (TemplateDrafter) Draft(_ context.Context, b brief.StructuredBrief) (Draft, error) {
	profile := template.ForAngle(b.AngleHint)
	d := Draft{
		Title:   titleFor(b),
		Angle:   profile.Angle,
		Locale:  b.Audience.Locale,
		Outline: append([]string(nil), profile.Outline...),
		Source:  SourceTemplate,
	}
	d.Article = skeletonArticle(b, d.Title, profile)
	d.Variants = templateVariants(b, d.Title)
	return d, nil
}

func skeletonArticle(b brief.StructuredBrief, title string, profile template.Profile) string {
	var sb strings.Builder
	sb.WriteString("# ")
	sb.WriteString(title)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "_%s for %s, %s, reading level %s, written in %s._\n",
		profile.Name, b.Audience.Primary, strings.Join(b.Brand.VoiceTone, "/"), b.Audience.ReadingLevel, classify.DisplayName(b.Audience.Locale))
	for i, h := range profile.Outline {
		sb.WriteString("\n## ")
		sb.WriteString(h)
		sb.WriteString("\n\n")
		if i == 0 {
			fmt.Fprintf(&sb, "%s on %s.", b.Brand.Name, b.Storyline)
			if len(b.Brand.MustUsePhrases) > 0 {
				sb.WriteString(" ")
				sb.WriteString(strings.Join(b.Brand.MustUsePhrases, ". "))
				sb.WriteString(".")
			}
			sb.WriteString("\n")
			continue
		}
		fmt.Fprintf(&sb, "[%s: %s]\n", h, b.SEO.PrimaryKeyword)
	}
	if len(b.SEO.SecondaryKeywords) > 0 {
		sb.WriteString("\n<!-- keywords: ")
		sb.WriteString(strings.Join(b.SEO.SecondaryKeywords, ", "))
		sb.WriteString(" -->\n")
	}
	if b.Legal.Disclaimer != "" {
		sb.WriteString("\n---\n\n_")
		sb.WriteString(b.Legal.Disclaimer)
		sb.WriteString("_\n")
	}
	return sb.String()
}

// templateVariants returns one variant per short-form platform, in brief
// order. Long-form platforms are served by the article.
func templateVariants(b brief.StructuredBrief, title string) []Variant {
	out := make([]Variant, 0, len(b.Platforms))
	for _, p := range b.Platforms {
		spec := template.ForPlatform(p)
		if spec.LongForm {
			continue
		}
		out = append(out, buildVariant(spec, composeVariant(b, title, spec)))
	}
	return out
}

func buildVariant(spec template.PlatformSpec, text string) Variant {
	text = strings.TrimSpace(text)
	fitted, truncated := fit(text, spec.MaxChars)
	return Variant{Platform: spec.Platform, Text: fitted, MaxChars: spec.MaxChars, Truncated: truncated}
}

func composeVariant(b brief.StructuredBrief, title string, spec template.PlatformSpec) string {
	parts := []string{title + "."}
	if len(b.Brand.MustUsePhrases) > 0 {
		parts = append(parts, strings.Join(b.Brand.MustUsePhrases, ". ")+".")
	}
	if spec.CallToAction {
		parts = append(parts, callToAction(b.Audience.Locale))
	}
	if tags := hashtags(b, spec.Hashtags); tags != "" {
		parts = append(parts, tags)
	}
	return strings.Join(parts, " ")
}

var callsToAction = map[string]string{
	"en": "Learn more.",
	"nl": "Lees meer.",
	"fr": "En savoir plus.",
	"de": "Mehr erfahren.",
	"es": "Más información.",
	"it": "Scopri di più.",
}

func callToAction(locale string) string {
	tag, err := language.Parse(locale)
	if err == nil {
		base, _ := tag.Base()
		if cta, ok := callsToAction[base.String()]; ok {
			return cta
		}
	}
	return callsToAction["en"]
}

// hashtags builds up to n tags from the primary and secondary keywords.
func hashtags(b brief.StructuredBrief, n int) string {
	if n <= 0 {
		return ""
	}
	candidates := append([]string{b.SEO.PrimaryKeyword}, b.SEO.SecondaryKeywords...)
	seen := map[string]bool{}
	var tags []string
	for _, c := range candidates {
		if c == brief.PlaceholderStoryline {
			continue
		}
		tag := hashtagFrom(c)
		key := strings.ToLower(tag)
		if tag == "" || seen[key] {
			continue
		}
		seen[key] = true
		tags = append(tags, "#"+tag)
		if len(tags) == n {
			break
		}
	}
	return strings.Join(tags, " ")
}

// hashtagFrom keeps letters and digits of each word, joining words in
// camel case: "cloud migration" -> "CloudMigration".
func hashtagFrom(s string) string {
	var sb strings.Builder
	for _, w := range strings.Fields(s) {
		var word []rune
		for _, r := range w {
			if isTagRune(r) {
				word = append(word, r)
			}
		}
		if len(word) == 0 {
			continue
		}
		first := strings.ToUpper(string(word[0]))
		sb.WriteString(first)
		sb.WriteString(string(word[1:]))
	}
	return sb.String()
}

func isTagRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
