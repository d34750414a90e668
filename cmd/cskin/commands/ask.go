package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cskinhq/cskin-go/internal/assistant"
	"github.com/cskinhq/cskin-go/internal/embedder"
	"github.com/cskinhq/cskin-go/internal/language"
	"github.com/cskinhq/cskin-go/internal/logging"
	"github.com/cskinhq/cskin-go/internal/provider"
	"github.com/cskinhq/cskin-go/internal/session"
)

// NewAskCmd constructs the `cskin ask` command, which runs a single
// consultation turn and prints the answer to stdout.
func NewAskCmd() *cobra.Command {
	var tone string

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the skin disease assistant a single question",
		Long: `Ask the C-Skin assistant a question about a skin condition.

The question is matched against the Qdrant knowledge base and answered in
Bahasa Indonesia using only the retrieved records. Questions in other
languages are translated to English before retrieval.

Examples:
  cskin ask "apa penyebab eksim?"
  cskin ask "what triggers psoriasis flare-ups?"
  MODEL_PROVIDER=openai cskin ask "bagaimana cara mengobati kurap?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			chatModel, err := provider.NewFromEnv(ctx)
			if err != nil {
				return fmt.Errorf("ask: failed to initialise model provider: %w", err)
			}

			if err := embedder.ValidateForRetrieval(log); err != nil {
				return fmt.Errorf("ask: %w", err)
			}
			emb, err := embedder.NewFromEnv(ctx)
			if err != nil {
				return fmt.Errorf("ask: failed to initialise embedder: %w", err)
			}

			store, err := buildVectorStore(ctx)
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}
			defer store.Close()

			retriever, err := buildRetriever(emb, store)
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}

			asst := assistant.New(assistant.Config{
				Model:            chatModel,
				Normalizer:       language.New(chatModel),
				Retriever:        retriever,
				Sessions:         session.NewMemoryStore(0),
				Tone:             tone,
				MaxContextTokens: getEnvInt("MODEL_MAX_CONTEXT_TOKENS", 0),
			})

			outcome := asst.Handle(ctx, uuid.NewString(), args[0])
			fmt.Println(outcome.Reply)

			if outcome.Kind == assistant.OutcomeInternalError {
				return fmt.Errorf("ask: consultation failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tone, "tone", "", "Answer tone (default: professional and friendly)")

	return cmd
}
