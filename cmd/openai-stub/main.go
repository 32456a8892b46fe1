// Command openai-stub serves a minimal OpenAI-compatible API that answers
// draft requests with deterministic JSON. It lets the CLI and the HTTP API
// be exercised end to end without a real model.
package main

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

type variant struct {
	Platform string `json:"platform"`
	Text     string `json:"text"`
}

type draftAnswer struct {
	Title    string    `json:"title"`
	Article  string    `json:"article"`
	Variants []variant `json:"variants"`
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	model := os.Getenv("MODEL_ID")
	if strings.TrimSpace(model) == "" {
		model = "test-model"
	}
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8081"
	}

	log.Info().Str("addr", addr).Str("model", model).Msg("openai-stub listening")
	if err := http.ListenAndServe(addr, newMux(model)); err != nil {
		log.Fatal().Err(err).Msg("listen")
	}
}

func newMux(model string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   []map[string]any{{"id": model, "object": "model"}},
		})
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) < 2 {
			http.Error(w, "expected system and user messages", http.StatusBadRequest)
			return
		}
		if !strings.Contains(req.Messages[0].Content, "Respond with strict JSON only") {
			http.Error(w, "unexpected system", http.StatusBadRequest)
			return
		}
		content, err := json.Marshal(answerFor(req.Messages[1].Content))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-stub",
			"object": "chat.completion",
			"model":  model,
			"choices": []map[string]any{
				{"index": 0, "finish_reason": "stop", "message": map[string]string{"role": "assistant", "content": string(content)}},
			},
		})
	})
	return mux
}

// answerFor builds a draft that honors the prompt: one section per outline
// heading, the required phrases, the disclaimer last and one short variant
// per listed platform.
func answerFor(prompt string) draftAnswer {
	var (
		topic      = "Untitled"
		required   string
		disclaimer string
		outline    []string
		platforms  []string
		section    string
	)
	for _, line := range strings.Split(prompt, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Topic: "):
			topic = strings.TrimPrefix(line, "Topic: ")
		case strings.HasPrefix(line, "Required phrases: "):
			required = strings.ReplaceAll(strings.TrimPrefix(line, "Required phrases: "), `"`, "")
		case strings.HasPrefix(line, "End the article with this disclaimer verbatim: "):
			disclaimer = strings.TrimPrefix(line, "End the article with this disclaimer verbatim: ")
		case strings.HasPrefix(line, "Outline ("):
			section = "outline"
		case strings.HasPrefix(line, "Short-form platforms:"):
			section = "platforms"
		case strings.HasPrefix(line, "- ") && section == "outline":
			outline = append(outline, strings.TrimPrefix(line, "- "))
		case strings.HasPrefix(line, "- ") && section == "platforms":
			name, _, _ := strings.Cut(strings.TrimPrefix(line, "- "), ":")
			platforms = append(platforms, name)
		}
	}

	var sb strings.Builder
	sb.WriteString("# " + topic + "\n")
	for _, h := range outline {
		sb.WriteString("\n## " + h + "\n\n" + topic + ".\n")
	}
	if required != "" {
		sb.WriteString("\n" + required + ".\n")
	}
	if disclaimer != "" {
		sb.WriteString("\n" + disclaimer + "\n")
	}

	ans := draftAnswer{Title: topic, Article: sb.String()}
	for _, p := range platforms {
		text := topic
		if required != "" {
			text += ": " + required
		}
		ans.Variants = append(ans.Variants, variant{Platform: p, Text: text})
	}
	return ans
}
