package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/gobrief/internal/brief"
	"github.com/hyperifyio/gobrief/internal/budget"
	"github.com/hyperifyio/gobrief/internal/cache"
	"github.com/hyperifyio/gobrief/internal/classify"
	"github.com/hyperifyio/gobrief/internal/llm"
	"github.com/hyperifyio/gobrief/internal/template"
)

// LLMDrafter calls an OpenAI-compatible endpoint and enforces a JSON-only
// contract. Platform limits are applied after the call, so an over-long
// model answer is truncated rather than rejected.
type LLMDrafter struct {
	Client      llm.Client
	Model       string
	Cache       *cache.LLMCache
	Temperature float32
	// CacheOnly, when true, returns from cache and fails fast if missing.
	CacheOnly bool
}

const jsonContract = "Respond with strict JSON only, no narration. The JSON schema is {\"title\": string, \"article\": string, \"variants\": [{\"platform\": string, \"text\": string}]}. The article is Markdown following the outline. Provide one variant per listed short-form platform."

type llmPayload struct {
	Title    string `json:"title"`
	Article  string `json:"article"`
	Variants []struct {
		Platform string `json:"platform"`
		Text     string `json:"text"`
	} `json:"variants"`
}

// Draft implements Drafter. Non-JSON or empty output returns an error so a
// Fallback can switch to the template drafter.
func (l *LLMDrafter) Draft(ctx context.Context, b brief.StructuredBrief) (Draft, error) {
	if l.Client == nil || strings.TrimSpace(l.Model) == "" {
		return Draft{}, ErrNotConfigured
	}
	profile := template.ForAngle(b.AngleHint)
	system := profile.SystemPrompt + " " + jsonContract
	user := buildUserPrompt(b, profile)
	key := cache.KeyFrom(l.Model, system+"\n\n"+user)

	if l.Cache != nil {
		if raw, ok, _ := l.Cache.Get(ctx, key); ok {
			var d Draft
			if err := json.Unmarshal(raw, &d); err == nil && strings.TrimSpace(d.Article) != "" {
				d.Source = SourceCache
				return d, nil
			}
		}
	}
	if l.CacheOnly {
		return Draft{}, fmt.Errorf("drafter cache-only: %w", ErrEmptyDraft)
	}

	promptTokens := budget.EstimatePromptTokens(system, user)
	maxTokens := budget.ClampOutputTokens(l.Model, promptTokens, budget.DraftOutputTokens(len(b.Platforms)))
	if maxTokens == 0 {
		return Draft{}, fmt.Errorf("prompt of ~%d tokens leaves no room for output in %s", promptTokens, l.Model)
	}
	log.Debug().Str("stage", "draft").Str("model", l.Model).Int("prompt_tokens", promptTokens).Int("max_tokens", maxTokens).Msg("draft prompt")

	req := openai.ChatCompletionRequest{
		Model: l.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: l.Temperature,
		MaxTokens:   maxTokens,
		N:           1,
	}
	resp, err := l.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		// One short retry for transient backend errors.
		if ctx.Err() != nil {
			return Draft{}, ctx.Err()
		}
		sleepFunc(100)
		resp, err = l.Client.CreateChatCompletion(ctx, req)
		if err != nil {
			return Draft{}, fmt.Errorf("draft call (after retry): %w", err)
		}
	}
	if len(resp.Choices) == 0 {
		return Draft{}, ErrEmptyDraft
	}
	var payload llmPayload
	raw := stripCodeFence(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return Draft{}, fmt.Errorf("parse draft json: %w", err)
	}
	if strings.TrimSpace(payload.Article) == "" {
		return Draft{}, ErrEmptyDraft
	}

	d := Draft{
		Title:   strings.TrimSpace(payload.Title),
		Angle:   profile.Angle,
		Locale:  b.Audience.Locale,
		Outline: append([]string(nil), profile.Outline...),
		Article: strings.TrimSpace(payload.Article),
		Source:  SourceLLM,
	}
	if d.Title == "" {
		d.Title = titleFor(b)
	}
	d.Variants = mergeVariants(b, d.Title, payload)

	if l.Cache != nil {
		if data, err := json.Marshal(d); err == nil {
			if err := l.Cache.Save(ctx, key, data); err != nil {
				log.Warn().Err(err).Msg("draft cache save failed")
			}
		}
	}
	return d, nil
}

// mergeVariants keeps brief platform order. Platforms the model skipped get
// the template variant; unknown platforms in the answer are dropped.
func mergeVariants(b brief.StructuredBrief, title string, payload llmPayload) []Variant {
	byPlatform := make(map[brief.Platform]string, len(payload.Variants))
	for _, v := range payload.Variants {
		p := brief.Platform(strings.ToLower(strings.TrimSpace(v.Platform)))
		if _, seen := byPlatform[p]; !seen && strings.TrimSpace(v.Text) != "" {
			byPlatform[p] = v.Text
		}
	}
	out := make([]Variant, 0, len(b.Platforms))
	for _, p := range b.Platforms {
		spec := template.ForPlatform(p)
		if spec.LongForm {
			continue
		}
		text, ok := byPlatform[p]
		if !ok {
			text = composeVariant(b, title, spec)
		}
		out = append(out, buildVariant(spec, text))
	}
	return out
}

func buildUserPrompt(b brief.StructuredBrief, profile template.Profile) string {
	var sb strings.Builder
	sb.WriteString("Brand: ")
	sb.WriteString(b.Brand.Name)
	sb.WriteString("\nVoice: ")
	sb.WriteString(strings.Join(b.Brand.VoiceTone, ", "))
	sb.WriteString("\nAudience: ")
	sb.WriteString(b.Audience.Primary)
	sb.WriteString("\nReading level (CEFR): ")
	sb.WriteString(string(b.Audience.ReadingLevel))
	sb.WriteString("\nWrite in language: ")
	sb.WriteString(classify.DisplayName(b.Audience.Locale))
	sb.WriteString(" (")
	sb.WriteString(b.Audience.Locale)
	sb.WriteString(")")
	sb.WriteString("\nTopic: ")
	sb.WriteString(b.Storyline)
	sb.WriteString("\nPrimary keyword: ")
	sb.WriteString(b.SEO.PrimaryKeyword)
	if len(b.SEO.SecondaryKeywords) > 0 {
		sb.WriteString("\nSecondary keywords: ")
		sb.WriteString(strings.Join(b.SEO.SecondaryKeywords, ", "))
	}
	if len(b.Brand.MustUsePhrases) > 0 {
		sb.WriteString("\nRequired phrases: ")
		sb.WriteString(quoteAll(b.Brand.MustUsePhrases))
	}
	if len(b.Brand.BannedPhrases) > 0 {
		sb.WriteString("\nBanned phrases: ")
		sb.WriteString(quoteAll(b.Brand.BannedPhrases))
	}
	if b.Legal.Disclaimer != "" {
		sb.WriteString("\nEnd the article with this disclaimer verbatim: ")
		sb.WriteString(b.Legal.Disclaimer)
	}
	sb.WriteString("\n\nOutline (")
	sb.WriteString(profile.Name)
	sb.WriteString("):")
	for _, h := range profile.Outline {
		sb.WriteString("\n- ")
		sb.WriteString(h)
	}
	if profile.UserPromptHint != "" {
		sb.WriteString("\nStructure guidance: ")
		sb.WriteString(profile.UserPromptHint)
	}
	sb.WriteString("\n\nShort-form platforms:")
	for _, p := range b.Platforms {
		spec := template.ForPlatform(p)
		if spec.LongForm {
			continue
		}
		fmt.Fprintf(&sb, "\n- %s: at most %d characters, %d hashtags", p, spec.MaxChars, spec.Hashtags)
		if spec.CallToAction {
			sb.WriteString(", end with a call to action")
		}
	}
	return sb.String()
}

func quoteAll(items []string) string {
	q := make([]string, len(items))
	for i, s := range items {
		q[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(q, ", ")
}

// stripCodeFence removes a ```json fence some models wrap around JSON.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// sleepFunc is swapped in tests to keep retries instant.
var sleepFunc = func(ms int) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}
