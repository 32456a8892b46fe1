package brief

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/gobrief/internal/classify"
)

func TestParse_LabelledBrief(t *testing.T) {
	input := "Brand: Acme Corp. Target audience: small business owners. Topic: cloud migration. Keywords: cloud, migration, devops"

	b := Parse(input)

	assert.Equal(t, "Acme Corp", b.Brand.Name)
	assert.Equal(t, "small business owners", b.Audience.Primary)
	assert.Equal(t, "cloud migration", b.Storyline)
	assert.Contains(t, b.SEO.SecondaryKeywords, "migration")
	assert.Contains(t, b.SEO.SecondaryKeywords, "devops")
	assert.Equal(t, "cloud migration", b.SEO.PrimaryKeyword)
	assert.Equal(t, classify.DefaultLocale, b.Audience.Locale)
	assert.Equal(t, classify.AngleInformativeGuide, b.AngleHint)
}

func TestParse_HowToAngle(t *testing.T) {
	for _, mode := range []Mode{ModeStandard, ModeEnhanced} {
		b := ParseAs("We want a post on how to implement a CRM in a week", mode)
		assert.Equal(t, classify.AngleHowTo, b.AngleHint, mode)
	}
}

func TestParse_DutchBusinessWords(t *testing.T) {
	input := "Ons bedrijf start een campagne. Doelgroep: studenten in Utrecht."

	assert.Equal(t, "nl-NL", Parse(input).Audience.Locale)
	// Standard mode only looks at explicit language names.
	assert.Equal(t, classify.DefaultLocale, ParseAs(input, ModeStandard).Audience.Locale)
}

func TestParse_DutchBeatsFrenchMajority(t *testing.T) {
	input := "Bedrijf en doelgroep. Notre entreprise avec votre sujet et une offre."
	assert.Equal(t, "nl-NL", Parse(input).Audience.Locale)
}

func TestParse_NoPlatformsUsesDefaults(t *testing.T) {
	b := Parse("Topic: spring sale for our garden centre")
	assert.Equal(t, []Platform{PlatformFacebook, PlatformArticle, PlatformInstagram, PlatformLinkedIn}, b.Platforms)
}

func TestParse_EmptyInputDefaults(t *testing.T) {
	var b StructuredBrief
	require.NotPanics(t, func() { b = Parse("") })

	assert.Equal(t, PlaceholderBrand, b.Brand.Name)
	assert.Equal(t, []string{DefaultTone}, b.Brand.VoiceTone)
	assert.Empty(t, b.Brand.MustUsePhrases)
	assert.Empty(t, b.Brand.BannedPhrases)
	assert.Equal(t, PlaceholderAudience, b.Audience.Primary)
	assert.Equal(t, ReadingB2, b.Audience.ReadingLevel)
	assert.Equal(t, "en-US", b.Audience.Locale)
	assert.Equal(t, PlaceholderStoryline, b.Storyline)
	assert.Equal(t, []Platform{PlatformFacebook, PlatformArticle, PlatformInstagram, PlatformLinkedIn}, b.Platforms)
	assert.Equal(t, PlaceholderStoryline, b.SEO.PrimaryKeyword)
	assert.Empty(t, b.SEO.SecondaryKeywords)
	assert.Equal(t, "", b.Legal.Disclaimer)
	assert.Equal(t, classify.AngleInformativeGuide, b.AngleHint)
	assert.Equal(t, "", b.Budget)
}

func TestParse_TotalAndNoNullLeaves(t *testing.T) {
	inputs := []string{
		"",
		"   \n\t  ",
		"no recognizable patterns whatsoever",
		"::::;;;;,,,,....",
		"Brand:\nTopic:\nKeywords:\nMust include:\nDon't mention:",
		strings.Repeat("lorem ipsum dolor ", 20000),
		"\x00\x01\x02 binary-ish",
		"Ünïcödé brånd — “quoted” ‘text’",
	}
	for _, in := range inputs {
		var b StructuredBrief
		require.NotPanics(t, func() { b = Parse(in) })

		raw, err := json.Marshal(b)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "null")

		assert.NotEmpty(t, b.Brand.Name)
		assert.NotEmpty(t, b.Brand.VoiceTone)
		assert.NotEmpty(t, b.Audience.Primary)
		assert.NotEmpty(t, b.Audience.Locale)
		assert.NotEmpty(t, b.Storyline)
		assert.NotEmpty(t, b.SEO.PrimaryKeyword)
		assert.True(t, b.AngleHint.Valid())
		assert.NoError(t, Validate(b))
	}
}

func TestParse_FacebookAlwaysPresent(t *testing.T) {
	inputs := []string{
		"",
		"Instagram and TikTok only, no other channels",
		"Post it on LinkedIn",
		"facebook",
		"Newsletter plus a YouTube video",
	}
	for _, in := range inputs {
		b := Parse(in)
		require.NotEmpty(t, b.Platforms)
		assert.Equal(t, PlatformFacebook, b.Platforms[0], in)
		assert.True(t, b.HasPlatform(PlatformFacebook), in)
	}
}

func TestParse_Deduplication(t *testing.T) {
	input := `Keywords: SEO tools, seo tools, growth; growth, go
Must include: free trial, Free Trial
Please mention "free trial".
Don't mention: cheap, CHEAP
Avoid: cheap`

	b := Parse(input)
	assert.Equal(t, []string{"SEO tools", "growth"}, b.SEO.SecondaryKeywords)
	assert.Equal(t, []string{"free trial"}, b.Brand.MustUsePhrases)
	assert.Equal(t, []string{"cheap"}, b.Brand.BannedPhrases)
}

func TestParse_ModesDiffer(t *testing.T) {
	input := "Nieuwe campagne voor de doelgroep"

	enhanced := ParseAs(input, ModeEnhanced)
	assert.Equal(t, "nl-NL", enhanced.Audience.Locale)
	assert.Equal(t, classify.AngleNews, enhanced.AngleHint)

	standard := ParseAs(input, ModeStandard)
	assert.Equal(t, classify.DefaultLocale, standard.Audience.Locale)
	assert.Equal(t, classify.AngleInformativeGuide, standard.AngleHint)
}

func TestParse_ConcurrentCallsAgree(t *testing.T) {
	input := "Client: Globex. Audience: developers. Topic: observability on a budget. Instagram, TikTok."
	want := Parse(input)

	var wg sync.WaitGroup
	results := make([]StructuredBrief, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Parse(input)
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestParseWithTrace(t *testing.T) {
	_, tr := ParseWithTrace("", ModeEnhanced)
	defaulted := tr.Defaulted()
	for _, f := range []string{"brand.name", "storyline", "audience.primary", "audience.locale", "angle_hint", "platforms"} {
		assert.Contains(t, defaulted, f)
	}

	_, tr = ParseWithTrace("Brand: Acme Corp. Topic: cloud migration.", ModeStandard)
	assert.Equal(t, ModeStandard, tr.Mode)
	src, ok := tr.Source("brand.name")
	require.True(t, ok)
	assert.Equal(t, "brand:label", src.Rule)
	assert.False(t, src.Defaulted)
	src, _ = tr.Source("storyline")
	assert.Equal(t, "storyline:label", src.Rule)
	assert.Nil(t, tr.Indicators)
}

func TestParseWithTrace_IndicatorCounts(t *testing.T) {
	b, tr := ParseWithTrace("Bedrijf: Acme. Doelgroep: ondernemers. Onderwerp: de cloud voor uw bedrijf.", ModeEnhanced)
	assert.Equal(t, "nl-NL", b.Audience.Locale)
	require.NotNil(t, tr.Indicators)
	assert.GreaterOrEqual(t, tr.Indicators["nl-NL"], 2)
	assert.Contains(t, tr.Indicators, "fr-FR")
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, DefaultMode, m)

	m, err = ParseMode("Standard")
	require.NoError(t, err)
	assert.Equal(t, ModeStandard, m)

	m, err = ParseMode("real-world")
	require.NoError(t, err)
	assert.Equal(t, ModeEnhanced, m)

	_, err = ParseMode("strict")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	b := Parse("Topic: winter tyres")
	require.NoError(t, Validate(b))

	b.Platforms = []Platform{PlatformInstagram}
	b.Audience.ReadingLevel = "Z9"
	b.AngleHint = "essay"
	err := Validate(b)
	require.ErrorIs(t, err, ErrInvalidBrief)
	assert.Contains(t, err.Error(), "facebook")
	assert.Contains(t, err.Error(), "ReadingLevel")
	assert.Contains(t, err.Error(), "essay")
}

func TestNormalizeFillsNilSlices(t *testing.T) {
	var b StructuredBrief
	b.Normalize()
	raw, err := json.Marshal(b)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "null")
}

func TestNormalize_CanonicalizesLocale(t *testing.T) {
	b := Parse("Brand: Acme Corp. Topic: cloud migration.")
	b.Audience.Locale = "nl_nl"
	b.Normalize()
	assert.Equal(t, "nl-NL", b.Audience.Locale)
	assert.NoError(t, Validate(b))

	b.Audience.Locale = "not a locale!!"
	b.Normalize()
	assert.Equal(t, "not a locale!!", b.Audience.Locale)
	assert.ErrorIs(t, Validate(b), ErrInvalidBrief)
}
