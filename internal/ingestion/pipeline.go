package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cskinhq/cskin-go/internal/logging"
	"github.com/cskinhq/cskin-go/internal/rag"
)

// recordNamespace seeds the deterministic record IDs so the same dataset
// entry always maps to the same point, making ingestion idempotent.
var recordNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8") // RFC 4122 DNS namespace

// defaultBatchSize balances embed-call latency against request size.
const defaultBatchSize = 32

// Pipeline embeds dataset records and writes them to the vector store.
type Pipeline struct {
	embedder  rag.Embedder
	store     rag.VectorStore
	batchSize int
}

// NewPipeline constructs a Pipeline. batchSize <= 0 uses the default.
func NewPipeline(embedder rag.Embedder, store rag.VectorStore, batchSize int) (*Pipeline, error) {
	if embedder == nil {
		return nil, fmt.Errorf("ingestion: embedder must not be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("ingestion: store must not be nil")
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Pipeline{embedder: embedder, store: store, batchSize: batchSize}, nil
}

// Ingest embeds the records batch by batch and upserts them. It returns the
// number of records written. IDs are derived from the question text, so
// re-ingesting an updated dataset overwrites matching entries.
func (p *Pipeline) Ingest(ctx context.Context, records []rag.Record) (int, error) {
	log := logging.FromContext(ctx)

	written := 0
	for start := 0; start < len(records); start += p.batchSize {
		end := start + p.batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		texts := make([]string, len(batch))
		for i, rec := range batch {
			// Questions carry the retrieval signal; answers are payload.
			texts[i] = rec.Question
			batch[i].ID = uuid.NewSHA1(recordNamespace, []byte(rec.Question)).String()
		}

		embeddings, err := p.embedder.Embed(ctx, texts)
		if err != nil {
			return written, fmt.Errorf("ingestion: embed batch at %d: %w", start, err)
		}

		if err := p.store.Upsert(ctx, batch, embeddings); err != nil {
			return written, fmt.Errorf("ingestion: upsert batch at %d: %w", start, err)
		}

		written += len(batch)
		log.Info("ingestion: batch written",
			slog.Int("written", written),
			slog.Int("total", len(records)),
		)
	}

	return written, nil
}
