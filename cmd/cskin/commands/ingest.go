package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cskinhq/cskin-go/internal/embedder"
	"github.com/cskinhq/cskin-go/internal/ingestion"
	"github.com/cskinhq/cskin-go/internal/logging"
)

// NewIngestCmd constructs the `cskin ingest` command, which loads a JSONL
// knowledge base dataset into the Qdrant vector store.
func NewIngestCmd() *cobra.Command {
	var file string
	var batchSize int

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest a skin disease Q&A dataset into the vector store",
		Long: `Embed and index a JSONL dataset of skin disease Q&A records into Qdrant.

Each line must be a JSON object with "question" and "answer" fields, plus
optional "source" and "focus_area" metadata. Record IDs are derived from the
question text, so re-running ingestion updates records in place instead of
duplicating them.

Required environment variables:
  QDRANT_HOST          Qdrant server hostname (default: localhost)
  QDRANT_PORT          Qdrant gRPC port (default: 6334)
  QDRANT_COLLECTION    Collection name (default: skin-diseases)
  QDRANT_API_KEY       Optional API key for authenticated clusters
  MODEL_PROVIDER       Embedding backend: ollama, openai, azure (default: ollama)
  EMBEDDING_*          Provider-specific overrides (see README)

Examples:
  cskin ingest --file dataset/skin_diseases.jsonl
  cskin ingest --file dataset/skin_diseases.jsonl --batch 64`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			if file == "" {
				return fmt.Errorf("ingest: --file is required")
			}

			if err := embedder.ValidateForRetrieval(log); err != nil {
				return fmt.Errorf("ingest: %w", err)
			}

			emb, err := embedder.NewFromEnv(ctx)
			if err != nil {
				return fmt.Errorf("ingest: failed to initialise embedder: %w", err)
			}
			log.Info("embedder initialised", slog.String("provider", embedder.ResolveBackend()))

			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("ingest: failed to open dataset: %w", err)
			}
			defer f.Close()

			records, err := ingestion.ParseDataset(f)
			if err != nil {
				return fmt.Errorf("ingest: %w", err)
			}
			log.Info("dataset parsed", slog.String("file", file), slog.Int("records", len(records)))

			store, err := buildVectorStore(ctx)
			if err != nil {
				return fmt.Errorf("ingest: %w", err)
			}
			defer store.Close()

			pipeline, err := ingestion.NewPipeline(emb, store, batchSize)
			if err != nil {
				return fmt.Errorf("ingest: failed to create pipeline: %w", err)
			}

			count, err := pipeline.Ingest(ctx, records)
			if err != nil {
				return fmt.Errorf("ingest: pipeline failed after %d records: %w", count, err)
			}

			log.Info("ingestion complete", slog.Int("records", count))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the JSONL dataset file")
	cmd.Flags().IntVarP(&batchSize, "batch", "b", 0, "Embedding batch size (default: 32)")

	return cmd
}
