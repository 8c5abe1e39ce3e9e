package ports

import (
	"context"
	"time"

	"standalone/internal/data/history"
	"standalone/internal/engine/closure"
	"standalone/internal/engine/parser"
)

// ExtractRequest defines a snippet extraction request for driving adapters.
type ExtractRequest struct {
	Target string
}

// ExtractResult summarizes a completed extraction.
type ExtractResult struct {
	Result      *closure.Result
	CorpusUnits int
	Duration    time.Duration
}

// ReloadRequest names the changed paths behind a corpus refresh. An empty
// list reloads every configured corpus path.
type ReloadRequest struct {
	Paths []string
}

// ReloadResult summarizes the corpus after a refresh.
type ReloadResult struct {
	Units int
}

// WriteOutputsRequest carries a finished extraction to the configured files.
type WriteOutputsRequest struct {
	Extraction ExtractResult
}

// WriteOutputsResult contains generated output paths.
type WriteOutputsResult struct {
	Written []string
}

// HistoryStore abstracts run persistence for history workflows.
type HistoryStore interface {
	Record(run history.Run) error
	Recent(target string, limit int) ([]history.Run, error)
}

// ExtractionService defines the driving-port surface over extraction use cases.
type ExtractionService interface {
	Extract(ctx context.Context, req ExtractRequest) (ExtractResult, error)
	ListTargets(ctx context.Context) ([]parser.FunctionDef, error)
	Reload(ctx context.Context, req ReloadRequest) (ReloadResult, error)
	WriteOutputs(ctx context.Context, req WriteOutputsRequest) (WriteOutputsResult, error)
}
