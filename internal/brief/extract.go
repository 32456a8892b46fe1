package brief

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hyperifyio/gobrief/internal/classify"
)

// Label values run to the end of the line or to a sentence break, so
// "Topic: Node.js migration. Keywords: ..." keeps the dotted name.
const (
	sentenceValue = `([^\n;]+?)(?:[.;]\s|[.;]?[ \t]*$)`
	nameValue     = `([^\n;,]+?)(?:[.;,]\s|[.;,]?[ \t]*$)`
	listValue     = `([^\n]+?)(?:\.\s|\.?[ \t]*$)`
)

var brandRules = []fieldRule{
	{"brand:label", regexp.MustCompile(`(?im)\b(?:company|brand|client|organi[sz]ation)(?:\s+name)?\s*:[ \t]*` + nameValue)},
	{"brand:inline", regexp.MustCompile(`\b(?:[Ff]or|[Cc]lient|[Bb]rand)[ \t]+([A-Z][\w&'-]*(?:[ \t]+[A-Z][\w&'-]*)*)`)},
	{"brand:subject", regexp.MustCompile(`\b([A-Z][\w&'-]*(?:[ \t]+[A-Z][\w&'-]*)*)[ \t]+(?:wants|needs|is\s+looking|would\s+like|requires)\b`)},
	{"brand:line", regexp.MustCompile(`(?m)^[ \t]*([A-Z][\w&'-]*(?:[ \t]+[A-Z][\w&'-]*){0,4})[ \t]*$`)},
}

var audienceRules = []fieldRule{
	{"audience:target-label", regexp.MustCompile(`(?im)\btarget\s+(?:audience|group|market)\s*:[ \t]*` + sentenceValue)},
	{"audience:label", regexp.MustCompile(`(?im)\baudience\s*:[ \t]*` + sentenceValue)},
	{"audience:targeting", regexp.MustCompile(`(?i)\btargeting\s+([^\n.;,]+)`)},
	{"audience:for-role", regexp.MustCompile(`(?i)\bfor\s+((?:[a-z][\w-]*\s+){0,3}(?:owners|managers|marketers|professionals|students|parents|developers|entrepreneurs|teachers|families|customers|users|leaders))\b`)},
	{"audience:aimed-at", regexp.MustCompile(`(?i)\baimed\s+at\s+([^\n.;,]+)`)},
}

var storylineRules = []fieldRule{
	{"storyline:label", regexp.MustCompile(`(?im)\b(?:topic|storyline|story|subject|campaign\s+focus|theme)\s*:[ \t]*` + sentenceValue)},
	{"storyline:writing-about", regexp.MustCompile(`(?im)\bwriting\s+about\s+` + sentenceValue)},
	{"storyline:about", regexp.MustCompile(`(?im)\b(?:article|post|blog|content|campaign)\s+about\s+` + sentenceValue)},
}

var primaryKeywordRules = []fieldRule{
	{"seo:primary-label", regexp.MustCompile(`(?im)\b(?:primary|main|focus)\s+keywords?\s*:[ \t]*` + nameValue)},
}

var disclaimerRules = []fieldRule{
	{"legal:label", regexp.MustCompile(`(?im)\b(?:legal\s+disclaimer|disclaimer|legal\s+note|legal)\s*:[ \t]*(.+)$`)},
}

var budgetRules = []fieldRule{
	{"budget:amount", regexp.MustCompile(`(?i)\bbudget\b[^\n\d€$£]{0,20}?([€$£]\s?\d[\d.,]*(?:\s?[km]\b)?|\d[\d.,]*(?:\s?[km]\b)?\s*(?:eur(?:os?)?|usd|dollars?|gbp|pounds?|€|\$|£))`)},
}

// Secondary keywords share the label word with the primary keyword. Under
// a primary label (group 1) the first item is the primary keyword and the
// rest are secondary.
var secondaryKeywordsRe = regexp.MustCompile(`(?im)\b(primary\s+|main\s+|focus\s+)?(?:secondary\s+|seo\s+)?(keywords?|tags|hashtags)\s*:[ \t]*` + listValue)

// labelBreakRe finds a sentence break followed by another field label, where
// a one-line briefing moves on from the disclaimer.
var labelBreakRe = regexp.MustCompile(`(?i)[.;]\s+(?:[a-z][\w'’-]*\s+){0,2}(?:brand|company|client|audience|topic|storyline|story|subject|theme|keywords?|tags|hashtags|budget|platforms?|channels?|tone|mention|include|phrases?|words?|avoid)\s*:`)

var (
	mustUseLabelRe = regexp.MustCompile(`(?im)\b(?:must\s+(?:include|use|mention)|required\s+(?:phrases?|words?)|include\s+(?:the\s+)?phrases?|key\s+messages?)\s*:[ \t]*([^\n]+)`)
	bannedLabelRe  = regexp.MustCompile(`(?im)(?:\bdon['’]?t\s+(?:mention|use|say)|\bdo\s+not\s+(?:mention|use|say)|\bavoid|\bnever\s+(?:say|use|mention)|\bbanned\s+(?:phrases?|words?)|\bforbidden\s+(?:phrases?|words?))\s*:[ \t]*([^\n]+)`)
	// A quoted phrase after mention/use is required unless negated.
	quotedPhraseRe = regexp.MustCompile(`(?i)(\b(?:don['’]?t|do\s+not|never)\s+)?\b(?:mention|use|say)\s+["“]([^"”\n]+)["”]`)
)

type toneVocabulary struct {
	tone     string
	keywords []string
}

// toneVocabularies is in output order; matches are inclusive.
var toneVocabularies = []toneVocabulary{
	{"professional", []string{"professional", "corporate", "business-like", "polished", "serious"}},
	{"friendly", []string{"friendly", "warm", "approachable", "casual", "playful"}},
	{"authoritative", []string{"authoritative", "expert", "confident", "trusted", "credible"}},
	{"conversational", []string{"conversational", "chatty", "informal", "relatable", "personable"}},
	{"technical", []string{"technical", "detailed", "precise", "data-driven", "in-depth"}},
}

type readingBucket struct {
	level    ReadingLevel
	keywords []string
}

// readingBuckets are checked in order; "professional" lands in C1 here even
// though it is also a tone keyword.
var readingBuckets = []readingBucket{
	{ReadingA2, []string{"simple", "basic", "beginner"}},
	{ReadingB1, []string{"intermediate", "general audience"}},
	{ReadingC1, []string{"advanced", "professional", "expert"}},
}

type platformAlias struct {
	platform Platform
	aliases  []string
}

// platformAliases follows enum order.
var platformAliases = []platformAlias{
	{PlatformArticle, []string{"article", "blog", "website"}},
	{PlatformInstagram, []string{"instagram", " ig ", "reels"}},
	{PlatformTikTok, []string{"tiktok", "tik tok"}},
	{PlatformFacebook, []string{"facebook", "fb "}},
	{PlatformLinkedIn, []string{"linkedin", "linked in"}},
	{PlatformNewsletter, []string{"newsletter", "mailing list", "email campaign", "e-mail campaign"}},
	{PlatformYouTube, []string{"youtube", "you tube"}},
}

// defaultExpansion is appended when facebook is the only platform.
var defaultExpansion = []Platform{PlatformArticle, PlatformInstagram, PlatformLinkedIn}

func extractBrandName(text string) (string, string) {
	if v, rule := firstMatch(text, brandRules, lengthBetween(3, 49)); rule != "" {
		return v, rule
	}
	return PlaceholderBrand, ""
}

func extractVoiceTone(text string) ([]string, string) {
	lower := classify.Normalize(text)
	var tones []string
	for _, v := range toneVocabularies {
		if _, ok := containsAny(lower, v.keywords); ok {
			tones = append(tones, v.tone)
		}
	}
	if len(tones) == 0 {
		return []string{DefaultTone}, ""
	}
	return tones, "tone:" + strings.Join(tones, "+")
}

func extractPhrases(text string) (must, banned []string) {
	must = []string{}
	banned = []string{}
	for _, m := range mustUseLabelRe.FindAllStringSubmatch(text, -1) {
		must = uniqueFold(must, splitList(m[1])...)
	}
	for _, m := range bannedLabelRe.FindAllStringSubmatch(text, -1) {
		banned = uniqueFold(banned, splitList(m[1])...)
	}
	for _, m := range quotedPhraseRe.FindAllStringSubmatch(text, -1) {
		phrase := strings.TrimSpace(m[2])
		if phrase == "" {
			continue
		}
		if strings.TrimSpace(m[1]) != "" {
			banned = uniqueFold(banned, phrase)
		} else {
			must = uniqueFold(must, phrase)
		}
	}
	return must, banned
}

func extractAudience(text string) (string, string) {
	if v, rule := firstMatch(text, audienceRules, lengthBetween(2, 120)); rule != "" {
		return v, rule
	}
	return PlaceholderAudience, ""
}

func extractReadingLevel(text string) (ReadingLevel, string) {
	lower := classify.Normalize(text)
	for _, b := range readingBuckets {
		if k, ok := containsAny(lower, b.keywords); ok {
			return b.level, "reading:" + k
		}
	}
	return DefaultReadingLevel, ""
}

func extractStoryline(text string) (string, string) {
	if v, rule := firstMatch(text, storylineRules, lengthBetween(3, 200)); rule != "" {
		return v, rule
	}
	return PlaceholderStoryline, ""
}

// extractPlatforms always puts facebook first, then detected platforms in
// enum order. When nothing besides facebook is found the default set is
// appended.
func extractPlatforms(text string) ([]Platform, string) {
	lower := " " + classify.Normalize(text) + " "
	out := []Platform{PlatformFacebook}
	var detected []string
	for _, pa := range platformAliases {
		if _, ok := containsAny(lower, pa.aliases); !ok {
			continue
		}
		detected = append(detected, string(pa.platform))
		if pa.platform != PlatformFacebook {
			out = append(out, pa.platform)
		}
	}
	if len(out) == 1 {
		out = append(out, defaultExpansion...)
	}
	if len(detected) == 0 {
		return out, ""
	}
	return out, "platforms:" + strings.Join(detected, "+")
}

func extractPrimaryKeyword(text, storyline string) (string, string) {
	if v, rule := firstMatch(text, primaryKeywordRules, lengthBetween(2, 100)); rule != "" {
		return v, rule
	}
	return storyline, ""
}

func extractSecondaryKeywords(text string) []string {
	out := []string{}
	for _, m := range secondaryKeywordsRe.FindAllStringSubmatch(text, -1) {
		items := splitList(m[3])
		if strings.TrimSpace(m[1]) != "" && strings.HasPrefix(strings.ToLower(m[2]), "keyword") {
			if len(items) > 0 {
				items = items[1:]
			}
		}
		for _, kw := range items {
			kw = strings.TrimPrefix(kw, "#")
			if utf8.RuneCountInString(kw) < 3 {
				continue
			}
			out = uniqueFold(out, kw)
		}
	}
	return out
}

func extractDisclaimer(text string) (string, string) {
	for _, r := range disclaimerRules {
		if m := r.re.FindStringSubmatch(text); len(m) == 2 {
			v := m[1]
			if loc := labelBreakRe.FindStringIndex(v); loc != nil {
				v = v[:loc[0]+1]
			}
			if v = strings.TrimSpace(v); v != "" {
				return v, r.name
			}
		}
	}
	return "", ""
}

func extractBudget(text string) (string, string) {
	return firstMatch(text, budgetRules, nil)
}
