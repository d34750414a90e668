// Package language normalizes incoming patient questions to English before
// retrieval. The knowledge base is embedded from English text, so questions
// asked in other languages are machine-translated first; English questions
// pass through untouched.
package language

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/pemistahl/lingua-go"

	"github.com/cskinhq/cskin-go/internal/logging"
)

// ChatModel is the slice of the model interface the normalizer needs for
// translation. Satisfied by any eino chat model.
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// candidateLanguages bounds the detector to the languages the deployment
// actually sees. A smaller candidate set makes detection on short questions
// far more reliable than the full 75-language set.
var candidateLanguages = []lingua.Language{
	lingua.English,
	lingua.Indonesian,
	lingua.Malay,
	lingua.French,
	lingua.Spanish,
	lingua.German,
	lingua.Arabic,
	lingua.Japanese,
	lingua.Chinese,
}

// translatePrompt instructs the model to translate without commentary.
const translatePrompt = "Translate the following sentence from %s to English. Do not add explanation, just translate.\n\nOriginal (%s): %s\nEnglish:"

// Normalizer detects the language of a question and translates non-English
// input to English. Normalization never fails the request: on any detection
// or translation problem the original text is returned unchanged.
type Normalizer struct {
	detector lingua.LanguageDetector
	model    ChatModel
}

// New constructs a Normalizer translating with the given chat model.
func New(chatModel ChatModel) *Normalizer {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(candidateLanguages...).
		Build()
	return &Normalizer{detector: detector, model: chatModel}
}

// Normalize returns the English form of text. English input (and anything
// the detector cannot classify) is returned as-is. Translation errors and
// empty translations fall back to the original text with a warning.
func (n *Normalizer) Normalize(ctx context.Context, text string) string {
	log := logging.FromContext(ctx)

	lang, ok := n.detector.DetectLanguageOf(text)
	if !ok {
		log.Debug("language: detection inconclusive, passing through", slog.String("text_prefix", prefix(text)))
		return text
	}
	if lang == lingua.English {
		return text
	}

	langName := lang.String()
	prompt := fmt.Sprintf(translatePrompt, langName, langName, text)

	resp, err := n.model.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		log.Warn("language: translation failed, using original text",
			slog.String("detected", langName),
			slog.String("error", err.Error()),
		)
		return text
	}

	translated := strings.TrimSpace(resp.Content)
	if translated == "" {
		log.Warn("language: empty translation, using original text", slog.String("detected", langName))
		return text
	}

	return translated
}

// prefix truncates text for log output.
func prefix(text string) string {
	const max = 40
	if len(text) <= max {
		return text
	}
	return text[:max] + "…"
}
