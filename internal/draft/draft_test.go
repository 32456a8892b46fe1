package draft

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/gobrief/internal/brief"
	"github.com/hyperifyio/gobrief/internal/cache"
	"github.com/hyperifyio/gobrief/internal/llm"
	"github.com/hyperifyio/gobrief/internal/template"
)

const sampleBriefing = "Brand: Acme Corp. Topic: cloud migration.\n" +
	"Must include: free trial\n" +
	"Keywords: cloud backup, data recovery\n" +
	"Disclaimer: Terms apply."

type fakeClient struct {
	mu      sync.Mutex
	calls   int
	fail    int
	content string
	last    openai.ChatCompletionRequest
}

func (f *fakeClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = req
	if f.calls <= f.fail {
		return openai.ChatCompletionResponse{}, errors.New("backend unavailable")
	}
	return openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{{
		Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: f.content},
	}}}, nil
}

func noSleep(t *testing.T) {
	t.Helper()
	prev := sleepFunc
	sleepFunc = func(int) {}
	t.Cleanup(func() { sleepFunc = prev })
}

func modelAnswer(t *testing.T, variants map[string]string) string {
	t.Helper()
	type v struct {
		Platform string `json:"platform"`
		Text     string `json:"text"`
	}
	payload := struct {
		Title    string `json:"title"`
		Article  string `json:"article"`
		Variants []v    `json:"variants"`
	}{Title: "Move to the cloud", Article: "# Move to the cloud\n\nStart your free trial."}
	for p, text := range variants {
		payload.Variants = append(payload.Variants, v{Platform: p, Text: text})
	}
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	return string(b)
}

func TestTemplateDrafter_Skeleton(t *testing.T) {
	b := brief.Parse(sampleBriefing)
	d, err := TemplateDrafter{}.Draft(context.Background(), b)
	require.NoError(t, err)

	assert.Equal(t, SourceTemplate, d.Source)
	assert.Equal(t, "Cloud migration", d.Title)
	assert.Equal(t, template.ForAngle(b.AngleHint).Outline, d.Outline)
	assert.True(t, strings.HasPrefix(d.Article, "# Cloud migration\n"))
	assert.Contains(t, d.Article, "Acme Corp on cloud migration. free trial.")
	assert.Contains(t, d.Article, "_Terms apply._")
	assert.Contains(t, d.Article, "keywords: cloud backup, data recovery")

	// Default platforms are facebook, article, instagram, linkedin; the
	// article is long-form and has no variant.
	require.Len(t, d.Variants, 3)
	assert.Equal(t, brief.PlatformFacebook, d.Variants[0].Platform)
	assert.Equal(t, brief.PlatformInstagram, d.Variants[1].Platform)
	assert.Equal(t, brief.PlatformLinkedIn, d.Variants[2].Platform)

	fb, ok := d.Variant(brief.PlatformFacebook)
	require.True(t, ok)
	assert.Equal(t, "Cloud migration. free trial. Learn more. #CloudMigration #CloudBackup", fb.Text)
	assert.False(t, fb.Truncated)
	_, ok = d.Variant(brief.PlatformArticle)
	assert.False(t, ok)
}

func TestTemplateDrafter_IsDeterministic(t *testing.T) {
	b := brief.Parse(sampleBriefing)
	a, _ := TemplateDrafter{}.Draft(context.Background(), b)
	c, _ := TemplateDrafter{}.Draft(context.Background(), b)
	assert.Equal(t, a, c)
}

func TestTemplateDrafter_LocalizedCallToAction(t *testing.T) {
	b := brief.Parse("Nieuwe campagne voor de doelgroep studenten")
	require.Equal(t, "nl-NL", b.Audience.Locale)
	d, err := TemplateDrafter{}.Draft(context.Background(), b)
	require.NoError(t, err)
	fb, ok := d.Variant(brief.PlatformFacebook)
	require.True(t, ok)
	assert.Contains(t, fb.Text, "Lees meer.")
	assert.Contains(t, d.Article, "written in Dutch")
}

func TestTemplateDrafter_TruncatesToPlatformLimit(t *testing.T) {
	b := brief.Parse("")
	b.Brand.MustUsePhrases = []string{strings.Repeat("very long phrase ", 40)}
	d, err := TemplateDrafter{}.Draft(context.Background(), b)
	require.NoError(t, err)
	for _, v := range d.Variants {
		assert.LessOrEqual(t, utf8.RuneCountInString(v.Text), v.MaxChars, "platform %s", v.Platform)
	}
	fb, _ := d.Variant(brief.PlatformFacebook)
	assert.True(t, fb.Truncated)
	assert.True(t, strings.HasSuffix(fb.Text, "…"))
}

func TestFit(t *testing.T) {
	got, cut := fit("one two three four", 10)
	assert.Equal(t, "one two…", got)
	assert.True(t, cut)

	got, cut = fit("short", 10)
	assert.Equal(t, "short", got)
	assert.False(t, cut)

	got, cut = fit("anything goes", 0)
	assert.Equal(t, "anything goes", got)
	assert.False(t, cut)
}

func TestHashtagFrom(t *testing.T) {
	assert.Equal(t, "CloudMigration", hashtagFrom("cloud migration"))
	assert.Equal(t, "ÉtéEnFrance", hashtagFrom("été en france!"))
	assert.Equal(t, "", hashtagFrom(" -- "))
}

func TestLLMDrafter_MergesAndBoundsVariants(t *testing.T) {
	b := brief.Parse(sampleBriefing)
	fc := &fakeClient{content: "```json\n" + modelAnswer(t, map[string]string{
		"facebook": strings.Repeat("word ", 200),
		"myspace":  "ignored",
	}) + "\n```"}
	d, err := (&LLMDrafter{Client: fc, Model: "gpt-4o"}).Draft(context.Background(), b)
	require.NoError(t, err)

	assert.Equal(t, SourceLLM, d.Source)
	assert.Equal(t, "Move to the cloud", d.Title)
	require.Len(t, d.Variants, 3)

	fb, _ := d.Variant(brief.PlatformFacebook)
	assert.True(t, fb.Truncated)
	assert.LessOrEqual(t, utf8.RuneCountInString(fb.Text), 500)

	ig, _ := d.Variant(brief.PlatformInstagram)
	assert.Contains(t, ig.Text, "free trial", "missing platforms fall back to the template variant")

	assert.Equal(t, "gpt-4o", fc.last.Model)
	assert.Positive(t, fc.last.MaxTokens)
	require.Len(t, fc.last.Messages, 2)
	assert.Contains(t, fc.last.Messages[0].Content, "strict JSON")
	assert.Contains(t, fc.last.Messages[1].Content, "Write in language: English (en-US)")
	assert.Contains(t, fc.last.Messages[1].Content, `Required phrases: "free trial"`)
}

func TestLLMDrafter_UsesCache(t *testing.T) {
	b := brief.Parse(sampleBriefing)
	fc := &fakeClient{content: modelAnswer(t, nil)}
	d := &LLMDrafter{Client: fc, Model: "m", Cache: &cache.LLMCache{Dir: t.TempDir()}}

	first, err := d.Draft(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, SourceLLM, first.Source)

	second, err := d.Draft(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, SourceCache, second.Source)
	assert.Equal(t, first.Article, second.Article)
	assert.Equal(t, 1, fc.calls)

	d.CacheOnly = true
	_, err = d.Draft(context.Background(), brief.Parse("something else entirely"))
	assert.ErrorIs(t, err, ErrEmptyDraft)
	assert.Equal(t, 1, fc.calls)
}

func TestLLMDrafter_RetriesOnce(t *testing.T) {
	noSleep(t)
	fc := &fakeClient{fail: 1, content: modelAnswer(t, nil)}
	_, err := (&LLMDrafter{Client: fc, Model: "m"}).Draft(context.Background(), brief.Parse(sampleBriefing))
	require.NoError(t, err)
	assert.Equal(t, 2, fc.calls)

	fc = &fakeClient{fail: 2}
	_, err = (&LLMDrafter{Client: fc, Model: "m"}).Draft(context.Background(), brief.Parse(sampleBriefing))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after retry")
}

func TestLLMDrafter_Errors(t *testing.T) {
	b := brief.Parse(sampleBriefing)

	_, err := (&LLMDrafter{Model: "m"}).Draft(context.Background(), b)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = (&LLMDrafter{Client: &fakeClient{content: `{"title":"x","article":"  "}`}, Model: "m"}).Draft(context.Background(), b)
	assert.ErrorIs(t, err, ErrEmptyDraft)

	_, err = (&LLMDrafter{Client: &fakeClient{content: "Sure! Here is your article."}, Model: "m"}).Draft(context.Background(), b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse draft json")
}

func TestFallback(t *testing.T) {
	noSleep(t)
	b := brief.Parse(sampleBriefing)
	f := &Fallback{Primary: &LLMDrafter{Client: &fakeClient{fail: 5}, Model: "m"}, Secondary: TemplateDrafter{}}
	d, err := f.Draft(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, SourceTemplate, d.Source)

	d, err = (&Fallback{Secondary: TemplateDrafter{}}).Draft(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, SourceTemplate, d.Source)

	_, err = (&Fallback{}).Draft(context.Background(), b)
	assert.ErrorIs(t, err, ErrNotConfigured)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.Draft(ctx, b)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLLMDrafter_OpenAICompatibleEndpoint(t *testing.T) {
	answer := modelAnswer(t, map[string]string{"facebook": "Try the free trial today. Learn more."})
	var gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		var req openai.ChatCompletionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotModel = req.Model
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:     "chatcmpl-test",
			Object: "chat.completion",
			Model:  req.Model,
			Choices: []openai.ChatCompletionChoice{{
				Index:        0,
				Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: answer},
				FinishReason: openai.FinishReasonStop,
			}},
		})
	}))
	defer srv.Close()

	client := llm.NewOpenAI(srv.URL+"/v1", "test-key", srv.Client())
	d, err := (&LLMDrafter{Client: client, Model: "test-model"}).Draft(context.Background(), brief.Parse(sampleBriefing))
	require.NoError(t, err)
	assert.Equal(t, "test-model", gotModel)
	fb, _ := d.Variant(brief.PlatformFacebook)
	assert.Equal(t, "Try the free trial today. Learn more.", fb.Text)
}
