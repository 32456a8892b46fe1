package brief

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/gobrief/internal/classify"
)

// ReadingLevel is a CEFR-style reading level for the generated copy.
type ReadingLevel string

const (
	ReadingA2 ReadingLevel = "A2"
	ReadingB1 ReadingLevel = "B1"
	ReadingB2 ReadingLevel = "B2"
	ReadingC1 ReadingLevel = "C1"
)

// Platform is a content distribution channel.
type Platform string

const (
	PlatformArticle    Platform = "article"
	PlatformInstagram  Platform = "instagram"
	PlatformTikTok     Platform = "tiktok"
	PlatformFacebook   Platform = "facebook"
	PlatformLinkedIn   Platform = "linkedin"
	PlatformNewsletter Platform = "newsletter"
	PlatformYouTube    Platform = "youtube"
)

// Platforms returns every platform in enum order.
func Platforms() []Platform {
	return []Platform{
		PlatformArticle, PlatformInstagram, PlatformTikTok, PlatformFacebook,
		PlatformLinkedIn, PlatformNewsletter, PlatformYouTube,
	}
}

// Placeholders used when a field cannot be extracted.
const (
	PlaceholderBrand     = "Your Brand"
	PlaceholderStoryline = "Your topic"
	PlaceholderAudience  = "General audience"
	DefaultTone          = "professional"
	DefaultReadingLevel  = ReadingB2
)

type Brand struct {
	Name           string   `json:"name" yaml:"name" validate:"required"`
	VoiceTone      []string `json:"voice_tone" yaml:"voice_tone" validate:"required,min=1,dive,oneof=professional friendly authoritative conversational technical"`
	MustUsePhrases []string `json:"must_use_phrases" yaml:"must_use_phrases" validate:"unique"`
	BannedPhrases  []string `json:"banned_phrases" yaml:"banned_phrases" validate:"unique"`
}

type Audience struct {
	Primary      string       `json:"primary" yaml:"primary" validate:"required"`
	ReadingLevel ReadingLevel `json:"reading_level" yaml:"reading_level" validate:"oneof=A2 B1 B2 C1"`
	Locale       string       `json:"locale" yaml:"locale" validate:"required,bcp47_language_tag"`
}

type SEO struct {
	PrimaryKeyword    string   `json:"primary_keyword" yaml:"primary_keyword" validate:"required"`
	SecondaryKeywords []string `json:"secondary_keywords" yaml:"secondary_keywords" validate:"unique"`
}

type Legal struct {
	Disclaimer string `json:"disclaimer" yaml:"disclaimer"`
}

// StructuredBrief is the canonical parsed representation of a marketing
// content request. Every field is derived from the input text; none is
// user-confirmed at this stage.
type StructuredBrief struct {
	Brand     Brand          `json:"brand" yaml:"brand"`
	Audience  Audience       `json:"audience" yaml:"audience"`
	Storyline string         `json:"storyline" yaml:"storyline" validate:"required"`
	Platforms []Platform     `json:"platforms" yaml:"platforms" validate:"required,min=1,unique,dive,oneof=article instagram tiktok facebook linkedin newsletter youtube"`
	SEO       SEO            `json:"seo" yaml:"seo"`
	Legal     Legal          `json:"legal" yaml:"legal"`
	AngleHint classify.Angle `json:"angle_hint" yaml:"angle_hint" validate:"required"`
	// Budget is the raw budget mention, e.g. "€5.000". Empty when absent.
	Budget string `json:"budget" yaml:"budget"`
}

// Mode selects which vocabulary tables the extractor uses.
type Mode string

const (
	// ModeStandard takes the locale from explicit language names and the
	// angle from the general pattern map.
	ModeStandard Mode = "standard"
	// ModeEnhanced is tuned for pasted real-world briefing documents: the
	// locale comes from indicator-token detection and campaign/seasonal
	// phrases are checked before the general angle map.
	ModeEnhanced Mode = "enhanced"
)

// DefaultMode is used by Parse and by the CLI and API unless overridden.
const DefaultMode = ModeEnhanced

// ParseMode maps a user-supplied mode name to a Mode. Empty selects the
// default.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultMode, nil
	case "standard", "basic", "simple":
		return ModeStandard, nil
	case "enhanced", "real-world", "realworld", "briefing":
		return ModeEnhanced, nil
	default:
		return "", fmt.Errorf("unknown parse mode %q (want standard or enhanced)", s)
	}
}

// Parse converts free text into a StructuredBrief using DefaultMode. It is
// total: every input, including the empty string, yields a fully populated
// brief.
func Parse(input string) StructuredBrief {
	b, _ := ParseWithTrace(input, DefaultMode)
	return b
}

// ParseAs is Parse with an explicit mode.
func ParseAs(input string, mode Mode) StructuredBrief {
	b, _ := ParseWithTrace(input, mode)
	return b
}

// ParseWithTrace parses input and also reports, per field, which rule
// produced the value or that the default applied.
func ParseWithTrace(input string, mode Mode) (StructuredBrief, Trace) {
	if mode != ModeStandard {
		mode = ModeEnhanced
	}
	text := normalizeNewlines(input)
	tr := Trace{Mode: mode}

	var b StructuredBrief

	name, rule := extractBrandName(text)
	b.Brand.Name = name
	tr.record("brand.name", rule)

	tones, rule := extractVoiceTone(text)
	b.Brand.VoiceTone = tones
	tr.record("brand.voice_tone", rule)

	must, banned := extractPhrases(text)
	b.Brand.MustUsePhrases = must
	b.Brand.BannedPhrases = banned
	tr.recordList("brand.must_use_phrases", must)
	tr.recordList("brand.banned_phrases", banned)

	audience, rule := extractAudience(text)
	b.Audience.Primary = audience
	tr.record("audience.primary", rule)

	level, rule := extractReadingLevel(text)
	b.Audience.ReadingLevel = level
	tr.record("audience.reading_level", rule)

	locale, rule := detectLocale(text, mode)
	b.Audience.Locale = locale
	tr.record("audience.locale", rule)
	if mode == ModeEnhanced {
		tr.Indicators = classify.IndicatorCounts(text)
	}

	story, rule := extractStoryline(text)
	b.Storyline = story
	tr.record("storyline", rule)

	platforms, rule := extractPlatforms(text)
	b.Platforms = platforms
	tr.record("platforms", rule)

	primary, rule := extractPrimaryKeyword(text, story)
	b.SEO.PrimaryKeyword = primary
	tr.record("seo.primary_keyword", rule)

	secondary := extractSecondaryKeywords(text)
	b.SEO.SecondaryKeywords = secondary
	tr.recordList("seo.secondary_keywords", secondary)

	disclaimer, rule := extractDisclaimer(text)
	b.Legal.Disclaimer = disclaimer
	tr.record("legal.disclaimer", rule)

	budget, rule := extractBudget(text)
	b.Budget = budget
	tr.record("budget", rule)

	angle, rule := classify.AngleRule(text, mode == ModeEnhanced)
	b.AngleHint = angle
	tr.record("angle_hint", rule)

	if defaulted := tr.Defaulted(); len(defaulted) > 0 {
		log.Debug().Str("mode", string(mode)).Strs("defaulted", defaulted).Msg("brief fields fell back to defaults")
	}
	return b, tr
}

// detectLocale fills the locale. In enhanced mode indicator tokens decide
// first and explicit language names only apply when no indicator set
// matched.
func detectLocale(text string, mode Mode) (string, string) {
	if mode == ModeEnhanced {
		if loc, ok := classify.DetectLanguageMatch(text); ok {
			return loc, "indicators:" + loc
		}
	}
	if loc, ok := classify.LocaleFromLanguageName(text); ok {
		return loc, "language-name:" + loc
	}
	return classify.DefaultLocale, ""
}

func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
