package classify

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// DefaultLocale is used when no language signal is present.
const DefaultLocale = "en-US"

// indicatorSet is one link of the language rule chain. A set selects its
// locale once at least threshold of its tokens occur as substrings of the
// normalized text.
type indicatorSet struct {
	locale    string
	tokens    []string
	threshold int
}

// Generic business words are included on purpose for Dutch; overlap with
// French ("campagne") is resolved by chain order, not by score.
var dutchIndicators = []string{
	"bedrijf", "campagne", "doelgroep", "studenten", "onderwerp",
	"klanten", "nieuwe", "voor de", "van de", "wij ",
	"samenwerking", "zijn", "worden", "maken", "kinderen",
	"ouders", "terug naar school", "schooljaar", "ondernemers", "doelstelling",
	"merkstem", "boodschap", "aanbieding", "producten", "diensten",
}

var frenchIndicators = []string{
	"entreprise", "public cible", "sujet", "votre", "notre",
	"pour les", "avec", "grâce à", "être", "étudiants",
	"rentrée", "marque", "produits", "également", "aujourd'hui",
	"français", "objectif", "message clé", "offre", "découvrez",
	"nouveau", "nouvelle", "enfants", "chez",
}

var germanIndicators = []string{"unternehmen", "zielgruppe", "und die", "für", "wir sind"}

var spanishIndicators = []string{"empresa", "público objetivo", "nuestro", "para los", "estudiantes"}

// indicatorChain is evaluated strictly in order: Dutch, French, German,
// Spanish. The first set that reaches its threshold wins.
var indicatorChain = []indicatorSet{
	{locale: "nl-NL", tokens: normalizeAll(dutchIndicators), threshold: 2},
	{locale: "fr-FR", tokens: normalizeAll(frenchIndicators), threshold: 2},
	{locale: "de-DE", tokens: normalizeAll(germanIndicators), threshold: 1},
	{locale: "es-ES", tokens: normalizeAll(spanishIndicators), threshold: 1},
}

// languageName maps an explicit language mention to a locale.
type languageName struct {
	name   string
	locale string
}

// languageNames is ordered; the first name found in the text wins.
var languageNames = []languageName{
	{"dutch", "nl-NL"},
	{"nederlands", "nl-NL"},
	{"french", "fr-FR"},
	{"français", "fr-FR"},
	{"francais", "fr-FR"},
	{"german", "de-DE"},
	{"deutsch", "de-DE"},
	{"spanish", "es-ES"},
	{"español", "es-ES"},
	{"espanol", "es-ES"},
	{"italian", "it-IT"},
	{"italiano", "it-IT"},
	{"english", "en-US"},
}

// DetectLanguage scores text against the per-language indicator tokens and
// returns the locale of the first set in priority order that reaches its
// threshold, or DefaultLocale.
func DetectLanguage(text string) string {
	locale, _ := detectLanguage(Normalize(text))
	return locale
}

// DetectLanguageMatch is DetectLanguage that also reports whether an
// indicator set matched rather than the default applying.
func DetectLanguageMatch(text string) (string, bool) {
	return detectLanguage(Normalize(text))
}

func detectLanguage(normalized string) (string, bool) {
	if normalized == "" {
		return DefaultLocale, false
	}
	for _, set := range indicatorChain {
		if countTokens(normalized, set.tokens) >= set.threshold {
			return set.locale, true
		}
	}
	return DefaultLocale, false
}

// IndicatorCounts reports how many indicator tokens of each detectable locale
// occur in text. It is diagnostic only; detection never compares counts
// across languages.
func IndicatorCounts(text string) map[string]int {
	normalized := Normalize(text)
	out := make(map[string]int, len(indicatorChain))
	for _, set := range indicatorChain {
		out[set.locale] = countTokens(normalized, set.tokens)
	}
	return out
}

func countTokens(normalized string, tokens []string) int {
	n := 0
	for _, tok := range tokens {
		if strings.Contains(normalized, tok) {
			n++
		}
	}
	return n
}

// LocaleFromLanguageName looks for an explicit language name such as
// "Dutch" or "español" and returns the mapped locale.
func LocaleFromLanguageName(text string) (string, bool) {
	normalized := Normalize(text)
	if normalized == "" {
		return DefaultLocale, false
	}
	for _, ln := range languageNames {
		if strings.Contains(normalized, ln.name) {
			return ln.locale, true
		}
	}
	return DefaultLocale, false
}

// CanonicalLocale parses a BCP-47-like tag ("nl_nl", "fr-fr") and returns
// its canonical "ll-RR" form.
func CanonicalLocale(s string) (string, error) {
	v := strings.ReplaceAll(strings.TrimSpace(s), "_", "-")
	if v == "" {
		return "", fmt.Errorf("empty locale")
	}
	tag, err := language.Parse(v)
	if err != nil {
		return "", fmt.Errorf("parse locale %q: %w", s, err)
	}
	return tag.String(), nil
}

// DisplayName returns the English name of the locale's language, e.g.
// "Dutch" for "nl-NL". Unknown tags fall back to the input.
func DisplayName(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return locale
	}
	base, _ := tag.Base()
	name := display.English.Languages().Name(base)
	if name == "" {
		return locale
	}
	return name
}
