package schema

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/gobrief/internal/brief"
)

func TestValidateBrief_ParsedBriefsConform(t *testing.T) {
	inputs := []string{
		"",
		"Brand: Acme Corp. Target audience: small business owners. Topic: cloud migration. Instagram and LinkedIn.",
		"Nieuwe campagne voor de doelgroep studenten",
		"Budget: €5.000\nDisclaimer: Results may vary.\nKeywords: seo, growth hacking",
	}
	for _, in := range inputs {
		for _, mode := range []brief.Mode{brief.ModeStandard, brief.ModeEnhanced} {
			data, err := json.Marshal(brief.ParseAs(in, mode))
			require.NoError(t, err)
			assert.NoError(t, ValidateBrief(data), "input %q mode %s", in, mode)
		}
	}
}

func TestValidateBriefFile_MissingFacebook(t *testing.T) {
	err := ValidateBriefFile(filepath.Join("testdata", "no_facebook.json"))
	require.Error(t, err)

	verr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	require.NotEmpty(t, verr.Errors)
	assert.Equal(t, "platforms", verr.Errors[0].Field)
}

func TestValidateBrief_WrongEnumsAndMissingFields(t *testing.T) {
	doc := `{"brand":{"name":"X","voice_tone":["sarcastic"],"must_use_phrases":[],"banned_phrases":[]},
	"audience":{"primary":"p","reading_level":"Z9","locale":"en-US"},
	"storyline":"s","platforms":["facebook"],"seo":{"primary_keyword":"k","secondary_keywords":[]},
	"angle_hint":"essay"}`
	err := ValidateBrief([]byte(doc))
	require.Error(t, err)

	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	fields := make([]string, 0, len(verr.Errors))
	for _, fe := range verr.Errors {
		fields = append(fields, fe.Field)
	}
	assert.Contains(t, fields, "brand.voice_tone.0")
	assert.Contains(t, fields, "audience.reading_level")
	assert.Contains(t, fields, "angle_hint")
	assert.Contains(t, fields, "(root)")
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateBrief_MalformedJSON(t *testing.T) {
	err := ValidateBrief([]byte(`{"brand":`))
	require.Error(t, err)
	var lerr *SchemaLoadError
	assert.ErrorAs(t, err, &lerr)
}

func TestValidateBriefFile_NotFound(t *testing.T) {
	err := ValidateBriefFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBriefSchema_IsCopy(t *testing.T) {
	a := BriefSchema()
	a[0] = 'X'
	assert.Equal(t, byte('{'), BriefSchema()[0])
}
