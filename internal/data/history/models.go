package history

import "time"

const SchemaVersion = 1

// Run records one completed snippet extraction.
type Run struct {
	ID            string        `json:"id"`
	SchemaVersion int           `json:"schema_version"`
	Target        string        `json:"target"`
	CommitHash    string        `json:"commit_hash,omitempty"`
	CorpusUnits   int           `json:"corpus_units"`
	ResolvedCount int           `json:"resolved_count"`
	MissingCount  int           `json:"missing_count"`
	SnippetLines  int           `json:"snippet_lines"`
	Duration      time.Duration `json:"duration_ms"`
	CreatedAt     time.Time     `json:"created_at"`
}
