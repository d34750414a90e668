package rag

import (
	"context"
	"fmt"
	"sort"
)

// Retrieval defaults tuned for the skin disease knowledge base.
const (
	// DefaultTopK is the maximum number of records returned per question.
	DefaultTopK = 5
	// DefaultMinScore is the similarity floor below which a match is
	// considered irrelevant and dropped.
	DefaultMinScore = 0.4
)

// DefaultRetriever combines an Embedder and a VectorStore: it embeds the
// question at retrieval time, delegates the similarity search to the store,
// and enforces the score floor and ordering on whatever comes back.
type DefaultRetriever struct {
	embedder Embedder
	store    VectorStore
	topK     int
	minScore float32
}

// NewRetriever constructs a DefaultRetriever. topK <= 0 and minScore <= 0
// fall back to DefaultTopK and DefaultMinScore.
func NewRetriever(embedder Embedder, store VectorStore, topK int, minScore float32) (*DefaultRetriever, error) {
	if embedder == nil {
		return nil, fmt.Errorf("rag: embedder must not be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("rag: store must not be nil")
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	return &DefaultRetriever{
		embedder: embedder,
		store:    store,
		topK:     topK,
		minScore: minScore,
	}, nil
}

// Retrieve embeds the question and returns at most topK records scoring at
// least minScore, best match first. An empty slice with a nil error means
// nothing relevant was found.
//
// The threshold and ordering are re-applied here even though the store
// already filters server-side, so a store that ignores the threshold or
// returns unordered matches cannot leak irrelevant context into the prompt.
func (r *DefaultRetriever) Retrieve(ctx context.Context, query string) ([]Record, error) {
	embeddings, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("rag: embedding query failed: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("rag: embedder returned empty result for query")
	}

	records, err := r.store.Search(ctx, embeddings[0], r.topK, r.minScore)
	if err != nil {
		return nil, fmt.Errorf("rag: vector search failed: %w", err)
	}

	kept := records[:0]
	for _, rec := range records {
		if rec.Score >= r.minScore {
			kept = append(kept, rec)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})

	if len(kept) > r.topK {
		kept = kept[:r.topK]
	}

	return kept, nil
}
