package classify

import (
	"regexp"
	"strings"
)

// Angle is the rhetorical framing chosen for the generated article.
type Angle string

const (
	AngleHowTo            Angle = "how-to"
	AngleList             Angle = "list"
	AngleComparison       Angle = "comparison"
	AngleNews             Angle = "news"
	AngleOpinion          Angle = "opinion"
	AngleCaseStudy        Angle = "case-study"
	AngleResearch         Angle = "research"
	AngleTrend            Angle = "trend"
	AngleInformativeGuide Angle = "informative-guide"
)

// DefaultAngle is returned when no angle rule matches.
const DefaultAngle = AngleInformativeGuide

// Angles lists every angle in evaluation order followed by the default.
func Angles() []Angle {
	return []Angle{
		AngleHowTo, AngleList, AngleComparison, AngleNews, AngleOpinion,
		AngleCaseStudy, AngleResearch, AngleTrend, AngleInformativeGuide,
	}
}

// Valid reports whether a is a known angle.
func (a Angle) Valid() bool {
	for _, v := range Angles() {
		if a == v {
			return true
		}
	}
	return false
}

type angleRule struct {
	angle Angle
	re    *regexp.Regexp
}

// angleRules is the general map, evaluated top to bottom.
var angleRules = []angleRule{
	{AngleHowTo, regexp.MustCompile(`(?i)\bhow\s+to\b|\bstep[\s-]+by[\s-]+step\b|\btutorial\b|\bguide\s+to\b`)},
	{AngleList, regexp.MustCompile(`(?i)\btop\s+\d+\b|\b\d+\s+(?:ways|tips|reasons|ideas|things|steps|mistakes|tools)\b|\blisticle\b|\bchecklist\b`)},
	{AngleComparison, regexp.MustCompile(`(?i)\bvs\.?\s|\bversus\b|\bcompar(?:e|ed|es|ing|ison)\b|\bdifference\s+between\b|\balternatives?\s+to\b`)},
	{AngleNews, regexp.MustCompile(`(?i)\bannounc(?:e|es|ed|ement|ing)\b|\blaunch(?:es|ed|ing)?\b|\bnews\b|\bbreaking\b|\bjust\s+released\b|\bnew\s+release\b`)},
	{AngleOpinion, regexp.MustCompile(`(?i)\bopinion\b|\bwhy\s+you\s+should\b|\bwe\s+believe\b|\bthought\s+leadership\b|\bhot\s+take\b|\bop-ed\b`)},
	{AngleCaseStudy, regexp.MustCompile(`(?i)\bcase\s+stud(?:y|ies)\b|\bsuccess\s+stor(?:y|ies)\b|\btestimonial\b|\bcustomer\s+story\b`)},
	{AngleResearch, regexp.MustCompile(`(?i)\bresearch\b|\bsurvey\b|\bstud(?:y|ies)\s+(?:shows?|finds?|found)\b|\bdata\s+shows\b|\bstatistics\b|\bwhite\s*paper\b`)},
	{AngleTrend, regexp.MustCompile(`(?i)\btrends?\b|\bfuture\s+of\b|\bin\s+20\d\d\b|\bemerging\b|\bpredictions?\b|\bwhat'?s\s+next\b`)},
}

// realWorldRules run before the general map for pasted briefing documents,
// where a campaign brief is news-like and seasonal school pushes are trends.
var realWorldRules = []angleRule{
	{AngleNews, regexp.MustCompile(`(?i)campagne|campaign`)},
	{AngleTrend, regexp.MustCompile(`(?i)back[\s-]+to[\s-]+school`)},
}

// ClassifyAngle runs the general angle map over text.
func ClassifyAngle(text string) Angle {
	a, _ := AngleRule(text, false)
	return a
}

// ClassifyBriefingAngle runs the briefing special cases and then the
// general map.
func ClassifyBriefingAngle(text string) Angle {
	a, _ := AngleRule(text, true)
	return a
}

// AngleRule returns the angle for text together with a short description of
// the rule that produced it, or "" when the default applied.
func AngleRule(text string, briefing bool) (Angle, string) {
	if briefing {
		if a, ok := matchAngle(text, realWorldRules); ok {
			return a, "briefing:" + string(a)
		}
	}
	if a, ok := matchAngle(text, angleRules); ok {
		return a, "angle:" + string(a)
	}
	return DefaultAngle, ""
}

func matchAngle(text string, rules []angleRule) (Angle, bool) {
	if strings.TrimSpace(text) == "" {
		return DefaultAngle, false
	}
	for _, r := range rules {
		if r.re.MatchString(text) {
			return r.angle, true
		}
	}
	return DefaultAngle, false
}
