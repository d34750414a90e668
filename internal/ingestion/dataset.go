// Package ingestion loads the curated skin disease Q/A dataset into the
// vector store: parse the JSONL export, embed each question, and upsert the
// records with deterministic IDs so re-runs update in place.
package ingestion

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cskinhq/cskin-go/internal/rag"
)

// datasetRecord is one line of the JSONL dataset export.
type datasetRecord struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Source    string `json:"source"`
	FocusArea string `json:"focus_area"`
}

// ParseDataset reads a JSONL dataset, one record per line. Blank lines are
// skipped; malformed lines and records missing a question or answer abort
// with the offending line number, so a broken export fails loudly rather
// than ingesting partial garbage.
func ParseDataset(r io.Reader) ([]rag.Record, error) {
	var records []rag.Record

	scanner := bufio.NewScanner(r)
	// Some answers run long; allow lines up to 1 MiB.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec datasetRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("ingestion: line %d: %w", lineNo, err)
		}
		if strings.TrimSpace(rec.Question) == "" {
			return nil, fmt.Errorf("ingestion: line %d: missing question", lineNo)
		}
		if strings.TrimSpace(rec.Answer) == "" {
			return nil, fmt.Errorf("ingestion: line %d: missing answer", lineNo)
		}

		records = append(records, rag.Record{
			Question:  strings.TrimSpace(rec.Question),
			Answer:    strings.TrimSpace(rec.Answer),
			Source:    strings.TrimSpace(rec.Source),
			FocusArea: strings.TrimSpace(rec.FocusArea),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ingestion: read dataset: %w", err)
	}

	return records, nil
}
