// Package budget sizes draft requests against a model's context window.
package budget

import (
	"math"
	"strings"
	"unicode/utf8"
)

// EstimateTokensFromChars converts a character count into an estimated token
// count using a conservative heuristic (~4 chars per token). The result is
// always at least 1 when chars > 0.
func EstimateTokensFromChars(charCount int) int {
	if charCount <= 0 {
		return 0
	}
	return int(math.Ceil(float64(charCount) / 4.0))
}

// EstimateTokens returns the estimated token count of a string. Runes are
// counted rather than bytes so accented briefs are not overestimated.
func EstimateTokens(s string) int {
	return EstimateTokensFromChars(utf8.RuneCountInString(s))
}

// EstimatePromptTokens estimates the tokens of a system plus user message.
func EstimatePromptTokens(system string, user string) int {
	return EstimateTokens(system) + EstimateTokens(user)
}

// ModelContextTokens returns an estimated maximum context window for a given
// model name. Unknown models fall back to a conservative default.
func ModelContextTokens(modelName string) int {
	name := strings.ToLower(strings.TrimSpace(modelName))
	if name == "" {
		return 8192
	}
	if v, ok := knownModelMax[name]; ok {
		return v
	}
	for _, s := range []struct {
		suffix string
		tokens int
	}{
		{"1m", 1_000_000}, {"512k", 512_000}, {"200k", 200_000}, {"128k", 128_000}, {"32k", 32_768},
	} {
		if strings.HasSuffix(name, s.suffix) {
			return s.tokens
		}
	}
	if strings.Contains(name, "-mini") {
		return 128_000
	}
	return 8192
}

// HeadroomTokens is the larger of 5% of the model context or 512 tokens,
// covering tokenizer and message framing overhead.
func HeadroomTokens(modelName string) int {
	dyn := int(math.Ceil(float64(ModelContextTokens(modelName)) * 0.05))
	if dyn < 512 {
		return 512
	}
	return dyn
}

// RemainingContext computes the tokens left after the prompt, the output
// reservation and headroom. Never negative.
func RemainingContext(modelName string, reservedForOutput int, promptTokens int) int {
	if reservedForOutput < 0 {
		reservedForOutput = 0
	}
	remaining := ModelContextTokens(modelName) - HeadroomTokens(modelName) - reservedForOutput - promptTokens
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Draft output sizing: an article plus one short variant per platform.
const (
	ArticleOutputTokens = 1600
	PerPlatformTokens   = 350
	MinOutputTokens     = 256
)

// DraftOutputTokens is the output reservation wanted for a draft covering
// the given number of short-form platforms.
func DraftOutputTokens(platforms int) int {
	if platforms < 0 {
		platforms = 0
	}
	return ArticleOutputTokens + platforms*PerPlatformTokens
}

// ClampOutputTokens fits the wanted output reservation into what the model
// has left after the prompt. It returns 0 when not even MinOutputTokens fit.
func ClampOutputTokens(modelName string, promptTokens int, want int) int {
	avail := RemainingContext(modelName, 0, promptTokens)
	if avail < MinOutputTokens {
		return 0
	}
	if want > avail {
		return avail
	}
	return want
}

// knownModelMax contains rough context sizes for common model identifiers.
var knownModelMax = map[string]int{
	"gpt-4o":             128_000,
	"gpt-4o-mini":        128_000,
	"gpt-4.1":            1_000_000,
	"gpt-4.1-mini":       1_000_000,
	"gpt-4-turbo":        128_000,
	"gpt-3.5-turbo":      16_384,
	"llama-3":            8_192,
	"llama-3.1":          128_000,
	"mistral-small":      32_768,
	"openai/gpt-oss-20b": 4_096,
	"gpt-oss-20b":        4_096,
}
