// Package assistant orchestrates a consultation turn: normalize the question
// to English, retrieve relevant knowledge records, generate a grounded
// Indonesian answer, and persist the exchange in the session history.
package assistant

import (
	"context"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/cskinhq/cskin-go/internal/budget"
	"github.com/cskinhq/cskin-go/internal/logging"
	"github.com/cskinhq/cskin-go/internal/rag"
	"github.com/cskinhq/cskin-go/internal/session"
)

// OutcomeKind classifies how a consultation turn concluded.
type OutcomeKind string

const (
	// OutcomeAnswer is a successfully generated grounded answer.
	OutcomeAnswer OutcomeKind = "answer"
	// OutcomeNoResults means nothing relevant was found in the knowledge base.
	OutcomeNoResults OutcomeKind = "no_results"
	// OutcomeGenerationFailed means retrieval succeeded but the model call failed.
	OutcomeGenerationFailed OutcomeKind = "generation_failed"
	// OutcomeInternalError covers unexpected pipeline failures.
	OutcomeInternalError OutcomeKind = "internal_error"
)

// Outcome is the typed result of one consultation turn. Reply always holds
// user-presentable Indonesian text, whatever the kind.
type Outcome struct {
	Kind  OutcomeKind
	Reply string
}

// ChatModel is the slice of the model interface the assistant needs.
// Satisfied by any eino chat model.
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// Normalizer converts a question to English before retrieval. It never
// fails — implementations fall back to the original text.
type Normalizer interface {
	Normalize(ctx context.Context, text string) string
}

// Config wires the assistant's collaborators and tuning.
type Config struct {
	// Model generates the grounded answer.
	Model ChatModel
	// Normalizer prepares the question for retrieval. Optional; when nil
	// the question is used as-is.
	Normalizer Normalizer
	// Retriever fetches knowledge records for the normalized question.
	Retriever rag.Retriever
	// Sessions persists the conversation history.
	Sessions session.Store
	// Tone sets the answer register. Empty means DefaultTone.
	Tone string
	// MaxContextTokens bounds the prompt size. Zero means
	// budget.DefaultMaxContextTokens.
	MaxContextTokens int
}

// Assistant runs the consultation pipeline. Safe for concurrent use as long
// as its collaborators are.
type Assistant struct {
	model            ChatModel
	normalizer       Normalizer
	retriever        rag.Retriever
	sessions         session.Store
	tone             string
	maxContextTokens int
}

// New constructs an Assistant from the given config.
func New(cfg Config) *Assistant {
	tone := cfg.Tone
	if tone == "" {
		tone = DefaultTone
	}
	maxTokens := cfg.MaxContextTokens
	if maxTokens <= 0 {
		maxTokens = budget.DefaultMaxContextTokens
	}
	return &Assistant{
		model:            cfg.Model,
		normalizer:       cfg.Normalizer,
		retriever:        cfg.Retriever,
		sessions:         cfg.Sessions,
		tone:             tone,
		maxContextTokens: maxTokens,
	}
}

// Handle runs one consultation turn for the session. It never returns an
// error: every failure mode maps to an Outcome whose Reply is safe to show
// the patient.
func (a *Assistant) Handle(ctx context.Context, sessionID, message string) Outcome {
	log := logging.FromContext(ctx).With(slog.String("session_id", sessionID))

	message = strings.TrimSpace(message)
	if message == "" {
		return Outcome{Kind: OutcomeInternalError, Reply: InternalErrorReply}
	}

	// The patient's turn is recorded before the pipeline runs, so even a
	// failed turn is visible in the transcript.
	if err := a.sessions.Append(ctx, sessionID, session.RoleUser, message); err != nil {
		log.Error("assistant: failed to record user turn", slog.String("error", err.Error()))
		return Outcome{Kind: OutcomeInternalError, Reply: InternalErrorReply}
	}

	query := message
	if a.normalizer != nil {
		query = a.normalizer.Normalize(ctx, message)
	}

	records, err := a.retriever.Retrieve(ctx, query)
	if err != nil {
		// A broken retrieval backend is indistinguishable from an empty
		// knowledge base from the patient's point of view.
		log.Error("assistant: retrieval failed", slog.String("error", err.Error()))
		records = nil
	}

	if len(records) == 0 {
		log.Info("assistant: no relevant records", slog.String("query_prefix", queryPrefix(query)))
		return Outcome{Kind: OutcomeNoResults, Reply: NoResultsReply}
	}

	docs := make([]string, len(records))
	for i, rec := range records {
		docs[i] = rec.Render()
	}
	docs = budget.TrimContext(renderPromptFixed(a.tone, query), docs, a.maxContextTokens)
	if len(docs) < len(records) {
		log.Warn("assistant: context trimmed to fit token budget",
			slog.Int("kept", len(docs)),
			slog.Int("retrieved", len(records)),
		)
	}

	prompt := renderPrompt(a.tone, docs, query)
	resp, err := a.model.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		log.Error("assistant: generation failed", slog.String("error", err.Error()))
		return Outcome{Kind: OutcomeGenerationFailed, Reply: GenerationFailedReply}
	}

	reply := strings.TrimSpace(resp.Content)
	if reply == "" {
		log.Error("assistant: model returned empty answer")
		return Outcome{Kind: OutcomeGenerationFailed, Reply: GenerationFailedReply}
	}

	// History persistence never blocks a successful answer.
	if err := a.sessions.Append(ctx, sessionID, session.RoleAssistant, reply); err != nil {
		log.Warn("assistant: failed to record assistant turn", slog.String("error", err.Error()))
	}

	return Outcome{Kind: OutcomeAnswer, Reply: reply}
}

// Resume restores a returning session. It returns the assistant's prior
// replies in order, or reset=true when the session ID is unusable and the
// history was cleared — the caller should greet with WelcomeBackReply.
func (a *Assistant) Resume(ctx context.Context, sessionID string) (replies []string, reset bool, err error) {
	log := logging.FromContext(ctx)

	if strings.TrimSpace(sessionID) == "" {
		if err := a.sessions.Reset(ctx, sessionID); err != nil {
			return nil, false, err
		}
		log.Info("assistant: invalid session on resume, history cleared")
		return nil, true, nil
	}

	turns, err := a.sessions.History(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}

	for _, t := range turns {
		if t.Role == session.RoleAssistant {
			replies = append(replies, t.Text)
		}
	}
	return replies, false, nil
}

// queryPrefix truncates a query for log output.
func queryPrefix(q string) string {
	const max = 60
	if len(q) <= max {
		return q
	}
	return q[:max] + "…"
}
