package validate

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/gobrief/internal/brief"
	"github.com/hyperifyio/gobrief/internal/draft"
)

func kinds(issues []Issue) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.Kind+"/"+string(i.Platform))
	}
	return out
}

func TestCheckDraft_TemplateDraftIsClean(t *testing.T) {
	b := brief.Parse("Brand: Acme Corp. Topic: cloud migration.\nMust include: free trial\nDon't mention: cheap\nDisclaimer: Terms apply.")
	d, err := draft.TemplateDrafter{}.Draft(context.Background(), b)
	require.NoError(t, err)
	issues := CheckDraft(b, d)
	assert.NotNil(t, issues)
	assert.Empty(t, issues, "issues: %v", kinds(issues))
}

func TestCheckDraft_FindsViolations(t *testing.T) {
	b := brief.Parse("Brand: Acme Corp. Topic: cloud migration.\nMust include: free trial, 30-day returns\nDon't mention: cheap\nDisclaimer: Terms apply.")
	d := draft.Draft{
		Title:   "Cloud migration",
		Outline: []string{"Introduction", "Conclusion"},
		Article: "# Cloud migration\n\n## Introduction\n\nOur CHEAP plan has a free trial.\n\n## Conclusion\n\nDone.",
		Variants: []draft.Variant{
			{Platform: brief.PlatformFacebook, Text: strings.Repeat("x", 501), MaxChars: 500},
			{Platform: brief.PlatformInstagram, Text: "Cheap thrills…", MaxChars: 2200, Truncated: true},
		},
	}
	got := kinds(CheckDraft(b, d))
	assert.Contains(t, got, "banned-phrase/article")
	assert.Contains(t, got, "banned-phrase/instagram")
	assert.Contains(t, got, "missing-phrase/article")
	assert.Contains(t, got, "missing-disclaimer/article")
	assert.Contains(t, got, "over-limit/facebook")
	assert.Contains(t, got, "truncated/instagram")
	assert.NotContains(t, got, "structure/article")
}

func TestContainsPhrase_WordBoundaries(t *testing.T) {
	assert.True(t, containsPhrase("a cheap deal", "cheap"))
	assert.True(t, containsPhrase("cheap", "cheap"))
	assert.False(t, containsPhrase("a cheaper deal", "cheap"))
	assert.False(t, containsPhrase("dirtcheap", "cheap"))
	assert.True(t, containsPhrase("dirtcheap or cheap!", "cheap"))
	assert.True(t, containsPhrase("geniet van één dag", "één"))
	assert.False(t, containsPhrase("anything", ""))
}

func TestValidateStructure(t *testing.T) {
	outline := []string{"Introduction", "Steps"}
	assert.NoError(t, ValidateStructure("# T\n\n## Introduction\n\n## steps\n", outline))
	assert.Error(t, ValidateStructure("", outline))
	assert.Error(t, ValidateStructure("## T\n## Introduction\n## Steps", outline))
	assert.Error(t, ValidateStructure("# T\n## Steps\n## Introduction", outline))
	assert.Error(t, ValidateStructure("# T\n## Introduction\n## Steps\n# Another", outline))
}

func TestAudienceFit(t *testing.T) {
	b := brief.Parse("Audience: parents. Keep it simple.")
	require.Equal(t, brief.ReadingA2, b.Audience.ReadingLevel)
	md := "# Title\n\n## Setup\n\nConfigure the SDK, API and ETL via Kubernetes orchestration for throughput.\n\n```\ncode\n```"
	issues := AudienceFit(md, b)
	require.Len(t, issues, 2)
	assert.Contains(t, issues[0], "code blocks")
	assert.Contains(t, issues[1], "Setup")

	expert := brief.Parse("Audience: platform engineers. Advanced readers.")
	assert.Empty(t, AudienceFit(md, expert))

	formal := brief.Parse("Professional tone please")
	assert.NotEmpty(t, AudienceFit("# T\n\nThis is awesome", formal))
}
