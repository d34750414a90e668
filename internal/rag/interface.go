// Package rag defines the retrieval layer of the assistant: the knowledge
// record type, vector storage, embedding, and the thresholded retriever that
// combines them. Concrete backends (Qdrant, HTTP embedders) satisfy these
// interfaces so the assistant layer never depends on a specific vendor.
package rag

import (
	"context"
	"fmt"
	"strings"
)

// Record is one curated question/answer entry from the skin disease knowledge
// base, as stored in and returned from the vector store.
type Record struct {
	// ID is the stable point identifier in the vector store.
	ID string

	// Question is the canonical patient question this entry answers.
	Question string

	// Answer is the vetted medical answer text.
	Answer string

	// Source names where the answer came from.
	Source string

	// FocusArea is the clinical topic grouping (e.g. a disease name).
	FocusArea string

	// Score is the cosine similarity assigned during retrieval.
	// Zero means the score was not computed.
	Score float32
}

// Render formats the record the way it is shown to the model and to readers:
// labeled Q/A lines followed by provenance.
func (r Record) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Q: %s\n", r.Question)
	fmt.Fprintf(&b, "A: %s\n", r.Answer)
	fmt.Fprintf(&b, "Source: %s\n", r.Source)
	fmt.Fprintf(&b, "Focus Area: %s", r.FocusArea)
	return b.String()
}

// VectorStore persists and searches record embeddings.
// Implementations must be safe to call from multiple goroutines.
type VectorStore interface {
	// Upsert stores or updates a batch of records with their pre-computed
	// embeddings. embeddings[i] is the vector for records[i].
	Upsert(ctx context.Context, records []Record, embeddings [][]float32) error

	// Search returns up to topK records whose similarity to the query
	// embedding is at least minScore, best match first.
	Search(ctx context.Context, queryEmbedding []float32, topK int, minScore float32) ([]Record, error)

	// Delete removes records by their IDs.
	Delete(ctx context.Context, ids []string) error

	// Close releases any resources held by the store.
	Close() error
}

// Embedder converts text into dense vector embeddings.
// Implementations must be safe to call from multiple goroutines.
type Embedder interface {
	// Embed converts a batch of texts into their corresponding embeddings.
	// The returned slice is parallel to the input slice.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Retriever fetches the knowledge records relevant to a patient question.
// An empty result with a nil error means nothing in the knowledge base
// cleared the relevance threshold.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]Record, error)
}
