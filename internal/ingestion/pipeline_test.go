package ingestion

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cskinhq/cskin-go/internal/rag"
)

type fakeEmbedder struct {
	err   error
	calls int
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 2, 3}
	}
	return out, nil
}

type captureStore struct {
	records    []rag.Record
	embeddings [][]float32
	err        error
}

func (c *captureStore) Upsert(_ context.Context, records []rag.Record, embeddings [][]float32) error {
	if c.err != nil {
		return c.err
	}
	c.records = append(c.records, records...)
	c.embeddings = append(c.embeddings, embeddings...)
	return nil
}

func (c *captureStore) Search(context.Context, []float32, int, float32) ([]rag.Record, error) {
	return nil, nil
}
func (c *captureStore) Delete(context.Context, []string) error { return nil }
func (c *captureStore) Close() error                           { return nil }

const sampleDataset = `
{"question":"What causes eczema?","answer":"Genetic and environmental factors.","source":"handbook","focus_area":"Eczema"}

{"question":"How is psoriasis treated?","answer":"Topical therapy and phototherapy.","source":"handbook","focus_area":"Psoriasis"}
`

func TestParseDataset(t *testing.T) {
	t.Parallel()

	records, err := ParseDataset(strings.NewReader(sampleDataset))
	if err != nil {
		t.Fatalf("ParseDataset: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Question != "What causes eczema?" || records[0].FocusArea != "Eczema" {
		t.Errorf("first record: %+v", records[0])
	}
}

func TestParseDataset_ReportsLineNumbers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"malformed json", `{"question":`, "line 1"},
		{"missing question", `{"answer":"a"}`, "missing question"},
		{"missing answer", "{\"question\":\"q\",\"answer\":\"a\"}\n{\"question\":\"q2\"}", "line 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseDataset(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q missing %q", err, tt.want)
			}
		})
	}
}

func TestIngest_WritesAllBatches(t *testing.T) {
	t.Parallel()

	records := make([]rag.Record, 5)
	for i := range records {
		records[i] = rag.Record{Question: strings.Repeat("q", i+1), Answer: "a"}
	}

	embedder := &fakeEmbedder{}
	store := &captureStore{}
	p, err := NewPipeline(embedder, store, 2)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	n, err := p.Ingest(context.Background(), records)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if n != 5 {
		t.Errorf("written = %d, want 5", n)
	}
	if embedder.calls != 3 {
		t.Errorf("embed calls = %d, want 3 batches", embedder.calls)
	}
	if len(store.records) != 5 || len(store.embeddings) != 5 {
		t.Errorf("store received %d records, %d embeddings", len(store.records), len(store.embeddings))
	}
	for i, rec := range store.records {
		if rec.ID == "" {
			t.Errorf("record %d missing ID", i)
		}
	}
}

func TestIngest_DeterministicIDs(t *testing.T) {
	t.Parallel()

	records := []rag.Record{{Question: "What causes eczema?", Answer: "a"}}

	run := func() string {
		store := &captureStore{}
		p, _ := NewPipeline(&fakeEmbedder{}, store, 0)
		if _, err := p.Ingest(context.Background(), records); err != nil {
			t.Fatalf("Ingest: %v", err)
		}
		return store.records[0].ID
	}

	if first, second := run(), run(); first != second {
		t.Errorf("IDs differ across runs: %q vs %q", first, second)
	}
}

func TestIngest_PropagatesErrors(t *testing.T) {
	t.Parallel()

	records := []rag.Record{{Question: "q", Answer: "a"}}

	embedErr := errors.New("embed down")
	p, _ := NewPipeline(&fakeEmbedder{err: embedErr}, &captureStore{}, 0)
	if _, err := p.Ingest(context.Background(), records); !errors.Is(err, embedErr) {
		t.Errorf("embed error not propagated: %v", err)
	}

	storeErr := errors.New("qdrant down")
	p, _ = NewPipeline(&fakeEmbedder{}, &captureStore{err: storeErr}, 0)
	if _, err := p.Ingest(context.Background(), records); !errors.Is(err, storeErr) {
		t.Errorf("upsert error not propagated: %v", err)
	}
}
