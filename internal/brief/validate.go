package brief

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hyperifyio/gobrief/internal/classify"
)

// validate is safe for concurrent use and caches struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrInvalidBrief wraps every validation failure returned by Validate.
var ErrInvalidBrief = errors.New("invalid brief")

// Validate checks a brief that did not come straight from Parse, e.g. one
// edited by a form and posted back. Parsed briefs always pass.
func Validate(b StructuredBrief) error {
	var issues []string
	if err := validate.Struct(b); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				issues = append(issues, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
		} else {
			return fmt.Errorf("%w: %v", ErrInvalidBrief, err)
		}
	}
	if !hasPlatform(b.Platforms, PlatformFacebook) {
		issues = append(issues, "StructuredBrief.Platforms must include facebook")
	}
	if b.AngleHint != "" && !b.AngleHint.Valid() {
		issues = append(issues, fmt.Sprintf("StructuredBrief.AngleHint %q is not a known angle", b.AngleHint))
	}
	if len(issues) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidBrief, strings.Join(issues, "; "))
}

// Normalize fills nil slices with empty ones so a decoded brief serializes
// without null leaves, and rewrites a locale such as "nl_nl" to "nl-NL".
// A locale that does not parse is left for Validate to reject.
func (b *StructuredBrief) Normalize() {
	if loc, err := classify.CanonicalLocale(b.Audience.Locale); err == nil {
		b.Audience.Locale = loc
	}
	if b.Brand.VoiceTone == nil {
		b.Brand.VoiceTone = []string{}
	}
	if b.Brand.MustUsePhrases == nil {
		b.Brand.MustUsePhrases = []string{}
	}
	if b.Brand.BannedPhrases == nil {
		b.Brand.BannedPhrases = []string{}
	}
	if b.SEO.SecondaryKeywords == nil {
		b.SEO.SecondaryKeywords = []string{}
	}
	if b.Platforms == nil {
		b.Platforms = []Platform{}
	}
}

func hasPlatform(ps []Platform, p Platform) bool {
	for _, v := range ps {
		if v == p {
			return true
		}
	}
	return false
}

// HasPlatform reports whether the brief targets p.
func (b StructuredBrief) HasPlatform(p Platform) bool {
	return hasPlatform(b.Platforms, p)
}
