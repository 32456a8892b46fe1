package template

import (
	"strings"

	"github.com/hyperifyio/gobrief/internal/brief"
	"github.com/hyperifyio/gobrief/internal/classify"
)

// Profile defines the structure and prompt for one article angle
type Profile struct {
	Angle          classify.Angle
	Name           string
	Description    string
	Outline        []string
	SystemPrompt   string
	UserPromptHint string
}

const writerRules = "Write only what the brief supports. Never invent statistics, customer names, prices or quotes. Use every required phrase verbatim and never use a banned phrase. Respond in Markdown."

// GetProfile returns the profile for an angle name. Aliases such as
// "tutorial" or "listicle" are accepted; unknown names map to the default
// informative guide.
func GetProfile(angle string) Profile {
	return ForAngle(normalizeAngle(angle))
}

// ForAngle returns the profile for a known angle.
func ForAngle(a classify.Angle) Profile {
	switch a {
	case classify.AngleHowTo:
		return Profile{
			Angle:       a,
			Name:        "How-to Guide",
			Description: "Step-by-step instructions that take the reader from problem to result",
			Outline:     []string{"Introduction", "What you need", "Step-by-step", "Common mistakes", "Next steps"},
			SystemPrompt: "You are a marketing copywriter writing a practical how-to guide. Number the steps and keep each one actionable. " +
				writerRules,
			UserPromptHint: "Structure as numbered steps with a short outcome per step.",
		}
	case classify.AngleList:
		return Profile{
			Angle:          a,
			Name:           "List Article",
			Description:    "A numbered list of tips, reasons or ideas",
			Outline:        []string{"Introduction", "The list", "Wrap-up"},
			SystemPrompt:   "You are a marketing copywriter writing a scannable list article. Give every item a bold lead-in. " + writerRules,
			UserPromptHint: "Use between five and ten list items.",
		}
	case classify.AngleComparison:
		return Profile{
			Angle:          a,
			Name:           "Comparison",
			Description:    "Side-by-side evaluation of options against clear criteria",
			Outline:        []string{"Introduction", "Criteria", "Option by option", "Comparison table", "Verdict"},
			SystemPrompt:   "You are a marketing copywriter writing a fair comparison. State criteria first and keep claims verifiable. " + writerRules,
			UserPromptHint: "Include a Markdown comparison table.",
		}
	case classify.AngleNews:
		return Profile{
			Angle:          a,
			Name:           "News Announcement",
			Description:    "Announcement of a launch, campaign or update",
			Outline:        []string{"Headline summary", "What is new", "Why it matters", "Availability", "Call to action"},
			SystemPrompt:   "You are a marketing copywriter writing a news announcement. Lead with the most important fact. " + writerRules,
			UserPromptHint: "Put who, what and when in the first paragraph.",
		}
	case classify.AngleOpinion:
		return Profile{
			Angle:          a,
			Name:           "Opinion Piece",
			Description:    "A clearly argued point of view",
			Outline:        []string{"The claim", "Arguments", "Counterpoints", "Conclusion"},
			SystemPrompt:   "You are a marketing copywriter writing an opinion piece in the brand's voice. Argue one position. " + writerRules,
			UserPromptHint: "Acknowledge at least one counterpoint.",
		}
	case classify.AngleCaseStudy:
		return Profile{
			Angle:          a,
			Name:           "Case Study",
			Description:    "Challenge, approach and outcome of a real engagement",
			Outline:        []string{"Summary", "The challenge", "The approach", "The results", "Lessons learned"},
			SystemPrompt:   "You are a marketing copywriter writing a case study. Only report results stated in the brief. " + writerRules,
			UserPromptHint: "Use placeholders like [metric] where the brief gives no number.",
		}
	case classify.AngleResearch:
		return Profile{
			Angle:          a,
			Name:           "Research Summary",
			Description:    "Findings from a study or survey made accessible",
			Outline:        []string{"Key findings", "Background", "Method", "What it means", "Sources"},
			SystemPrompt:   "You are a marketing copywriter summarizing research. Separate findings from interpretation. " + writerRules,
			UserPromptHint: "Mark every finding that needs a source with [source].",
		}
	case classify.AngleTrend:
		return Profile{
			Angle:          a,
			Name:           "Trend Article",
			Description:    "What is changing this season or year and how to respond",
			Outline:        []string{"Introduction", "The trend", "Why now", "What to do", "Outlook"},
			SystemPrompt:   "You are a marketing copywriter writing about a seasonal or market trend. Keep it timely and practical. " + writerRules,
			UserPromptHint: "Tie the trend to the audience's next decision.",
		}
	default:
		return Profile{
			Angle:          classify.AngleInformativeGuide,
			Name:           "Informative Guide",
			Description:    "General explainer on the topic",
			Outline:        []string{"Introduction", "Background", "Key points", "Practical tips", "Conclusion"},
			SystemPrompt:   "You are a careful marketing copywriter. Keep style clear and helpful. " + writerRules,
			UserPromptHint: "",
		}
	}
}

// normalizeAngle converts user input to a canonical angle
func normalizeAngle(s string) classify.Angle {
	v := strings.ToLower(strings.TrimSpace(s))
	if a := classify.Angle(v); a.Valid() {
		return a
	}
	switch v {
	case "howto", "how to", "tutorial", "guide", "step-by-step":
		return classify.AngleHowTo
	case "listicle", "top list", "tips":
		return classify.AngleList
	case "versus", "vs", "compare":
		return classify.AngleComparison
	case "announcement", "press release", "launch":
		return classify.AngleNews
	case "op-ed", "opinion piece", "column":
		return classify.AngleOpinion
	case "case study", "casestudy", "success story":
		return classify.AngleCaseStudy
	case "study", "survey", "whitepaper":
		return classify.AngleResearch
	case "trends", "seasonal":
		return classify.AngleTrend
	default:
		return classify.DefaultAngle
	}
}

// PlatformSpec describes the constraints of one distribution channel.
type PlatformSpec struct {
	Platform brief.Platform `json:"platform" yaml:"platform"`
	Name     string         `json:"name" yaml:"name"`
	// MaxChars bounds the variant body; zero means no limit (long-form).
	MaxChars     int  `json:"max_chars" yaml:"max_chars"`
	Hashtags     int  `json:"hashtags" yaml:"hashtags"`
	CallToAction bool `json:"call_to_action" yaml:"call_to_action"`
	LongForm     bool `json:"long_form" yaml:"long_form"`
}

var platformSpecs = map[brief.Platform]PlatformSpec{
	brief.PlatformArticle:    {Platform: brief.PlatformArticle, Name: "Article", LongForm: true},
	brief.PlatformInstagram:  {Platform: brief.PlatformInstagram, Name: "Instagram", MaxChars: 2200, Hashtags: 5, CallToAction: true},
	brief.PlatformTikTok:     {Platform: brief.PlatformTikTok, Name: "TikTok", MaxChars: 2200, Hashtags: 3, CallToAction: true},
	brief.PlatformFacebook:   {Platform: brief.PlatformFacebook, Name: "Facebook", MaxChars: 500, Hashtags: 2, CallToAction: true},
	brief.PlatformLinkedIn:   {Platform: brief.PlatformLinkedIn, Name: "LinkedIn", MaxChars: 3000, Hashtags: 3, CallToAction: true},
	brief.PlatformNewsletter: {Platform: brief.PlatformNewsletter, Name: "Newsletter", MaxChars: 1500, CallToAction: true},
	brief.PlatformYouTube:    {Platform: brief.PlatformYouTube, Name: "YouTube", MaxChars: 5000, Hashtags: 3, CallToAction: true},
}

// ForPlatform returns the spec for p. Unknown platforms get a conservative
// short-form spec.
func ForPlatform(p brief.Platform) PlatformSpec {
	if s, ok := platformSpecs[p]; ok {
		return s
	}
	return PlatformSpec{Platform: p, Name: string(p), MaxChars: 500}
}
