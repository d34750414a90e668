package rag

import (
	"context"
	"errors"
	"testing"
)

// fakeEmbedder returns a fixed vector for any input.
type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

// fakeStore returns a canned result set, ignoring the threshold so the
// retriever's own filtering is exercised.
type fakeStore struct {
	records []Record
	err     error

	gotTopK     int
	gotMinScore float32
}

func (f *fakeStore) Search(_ context.Context, _ []float32, topK int, minScore float32) ([]Record, error) {
	f.gotTopK = topK
	f.gotMinScore = minScore
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func (f *fakeStore) Upsert(context.Context, []Record, [][]float32) error { return nil }
func (f *fakeStore) Delete(context.Context, []string) error              { return nil }
func (f *fakeStore) Close() error                                        { return nil }

func TestRetrieve_FiltersBelowThresholdAndSortsDescending(t *testing.T) {
	t.Parallel()

	store := &fakeStore{records: []Record{
		{ID: "1", Question: "apa itu eksim", Score: 0.55},
		{ID: "2", Question: "penyebab eksim", Score: 0.81},
		{ID: "3", Question: "cuaca hari ini", Score: 0.39},
	}}

	r, err := NewRetriever(&fakeEmbedder{}, store, 5, 0.4)
	if err != nil {
		t.Fatalf("NewRetriever: %v", err)
	}

	got, err := r.Retrieve(context.Background(), "apa penyebab eksim?")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].ID != "2" || got[1].ID != "1" {
		t.Errorf("records not sorted by score descending: %v, %v", got[0].ID, got[1].ID)
	}
	if store.gotMinScore != 0.4 {
		t.Errorf("store received minScore %v, want 0.4", store.gotMinScore)
	}
}

func TestRetrieve_CapsAtTopK(t *testing.T) {
	t.Parallel()

	records := make([]Record, 8)
	for i := range records {
		records[i] = Record{ID: string(rune('a' + i)), Score: 0.9 - float32(i)*0.05}
	}
	store := &fakeStore{records: records}

	r, err := NewRetriever(&fakeEmbedder{}, store, 5, 0.4)
	if err != nil {
		t.Fatalf("NewRetriever: %v", err)
	}

	got, err := r.Retrieve(context.Background(), "question")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("got %d records, want 5", len(got))
	}
	if store.gotTopK != 5 {
		t.Errorf("store received topK %d, want 5", store.gotTopK)
	}
}

func TestRetrieve_NoMatchesIsNotAnError(t *testing.T) {
	t.Parallel()

	r, err := NewRetriever(&fakeEmbedder{}, &fakeStore{}, 0, 0)
	if err != nil {
		t.Fatalf("NewRetriever: %v", err)
	}

	got, err := r.Retrieve(context.Background(), "pertanyaan tanpa jawaban")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d records, want 0", len(got))
	}
}

func TestRetrieve_PropagatesErrors(t *testing.T) {
	t.Parallel()

	embedErr := errors.New("embed backend down")
	r, _ := NewRetriever(&fakeEmbedder{err: embedErr}, &fakeStore{}, 5, 0.4)
	if _, err := r.Retrieve(context.Background(), "q"); !errors.Is(err, embedErr) {
		t.Errorf("embed error not propagated: %v", err)
	}

	searchErr := errors.New("qdrant unreachable")
	r, _ = NewRetriever(&fakeEmbedder{}, &fakeStore{err: searchErr}, 5, 0.4)
	if _, err := r.Retrieve(context.Background(), "q"); !errors.Is(err, searchErr) {
		t.Errorf("search error not propagated: %v", err)
	}
}

func TestNewRetriever_AppliesDefaults(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	r, err := NewRetriever(&fakeEmbedder{}, store, 0, 0)
	if err != nil {
		t.Fatalf("NewRetriever: %v", err)
	}
	if _, err := r.Retrieve(context.Background(), "q"); err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if store.gotTopK != DefaultTopK {
		t.Errorf("default topK = %d, want %d", store.gotTopK, DefaultTopK)
	}
	if store.gotMinScore != DefaultMinScore {
		t.Errorf("default minScore = %v, want %v", store.gotMinScore, DefaultMinScore)
	}
}

func TestRecordRender(t *testing.T) {
	t.Parallel()

	rec := Record{
		Question:  "Apa gejala psoriasis?",
		Answer:    "Bercak merah bersisik pada kulit.",
		Source:    "medical-handbook",
		FocusArea: "Psoriasis",
	}
	want := "Q: Apa gejala psoriasis?\nA: Bercak merah bersisik pada kulit.\nSource: medical-handbook\nFocus Area: Psoriasis"
	if got := rec.Render(); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}
