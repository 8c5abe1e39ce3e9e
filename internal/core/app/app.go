package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"standalone/internal/core/config"
	"standalone/internal/core/ports"
	"standalone/internal/core/watcher"
	"standalone/internal/corpus"
	"standalone/internal/data/history"
	"standalone/internal/engine/closure"
	"standalone/internal/engine/parser"
	"standalone/internal/shared/observability"
	"standalone/internal/shared/util"
	"standalone/internal/shared/version"
	"standalone/internal/ui/report"
)

// App owns the corpus, the parser and the closure driver, and carries
// the run history store when one is configured. All extraction entry
// points serialize on one mutex: the driver caches parse trees and a
// full reload swaps the corpus out from under it.
type App struct {
	Config  *config.Config
	Parser  *parser.Parser
	Loader  *corpus.Loader
	Corpus  *corpus.Corpus
	Driver  *closure.Driver
	History ports.HistoryStore

	historyStore  *history.Store
	limiter       *util.Limiter
	commitHash    string
	activeWatcher *watcher.Watcher

	mu sync.Mutex
}

func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	grammars, err := parser.NewGrammarLoader()
	if err != nil {
		return nil, err
	}
	p := parser.NewParser(grammars)

	loader, err := corpus.NewLoader(p.IsSupportedPath, cfg.Exclude.Dirs, cfg.Exclude.Files, cfg.Limits.MaxFileSize)
	if err != nil {
		return nil, err
	}
	c, err := loader.Load(cfg.CorpusPaths)
	if err != nil {
		return nil, err
	}
	observability.CorpusUnits.Set(float64(c.Len()))

	a := &App{
		Config:  cfg,
		Parser:  p,
		Loader:  loader,
		Corpus:  c,
		Driver:  closure.NewDriver(p, c),
		limiter: util.NewLimiter(cfg.Limits.ExtractionsPerSec, cfg.Limits.ExtractionBurst),
	}

	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path, cfg.History.BusyTimeout)
		if err != nil {
			a.Driver.Close()
			return nil, err
		}
		a.historyStore = store
		a.History = history.NewAdapter(store)
	}
	if len(cfg.CorpusPaths) > 0 {
		a.commitHash = history.ResolveCommit(cfg.CorpusPaths[0])
	}

	slog.Info("corpus loaded", "units", c.Len(), "paths", cfg.CorpusPaths)
	return a, nil
}

// Extract computes the dependency closure snippet for target and records
// the run when history is enabled.
func (a *App) Extract(ctx context.Context, target string) (ports.ExtractResult, error) {
	if err := a.limiter.Wait(ctx, 1); err != nil {
		return ports.ExtractResult{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	start := time.Now()
	res, err := a.Driver.Extract(ctx, target)
	duration := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
	}
	observability.ExtractionsTotal.WithLabelValues(status).Inc()
	observability.ExtractionDuration.Observe(duration.Seconds())
	if err != nil {
		return ports.ExtractResult{}, err
	}

	lines := snippetLineCount(res.Snippet)
	observability.SnippetLines.Observe(float64(lines))
	observability.MissingDependenciesTotal.Add(float64(len(res.Missing)))

	out := ports.ExtractResult{
		Result:      res,
		CorpusUnits: a.Corpus.Len(),
		Duration:    duration,
	}
	a.recordRun(out, lines)
	return out, nil
}

func (a *App) recordRun(res ports.ExtractResult, lines int) {
	if a.History == nil {
		return
	}
	run := history.Run{
		Target:        res.Result.Target,
		CommitHash:    a.commitHash,
		CorpusUnits:   res.CorpusUnits,
		ResolvedCount: len(res.Result.Resolved),
		MissingCount:  len(res.Result.Missing),
		SnippetLines:  lines,
		Duration:      res.Duration,
	}
	if err := a.History.Record(run); err != nil {
		slog.Warn("failed to record run", "target", run.Target, "error", err)
		return
	}
	observability.HistoryWritesTotal.Inc()
}

// ListTargets returns every extractable function definition in corpus
// order.
func (a *App) ListTargets() []parser.FunctionDef {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Driver.Targets()
}

// Reload refreshes the corpus. With explicit paths only those units are
// re-read (vanished files drop out); otherwise every corpus root is
// rescanned and the driver is rebuilt.
func (a *App) Reload(paths []string) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(paths) == 0 {
		fresh, err := a.Loader.Load(a.Config.CorpusPaths)
		if err != nil {
			return 0, err
		}
		a.Driver.Close()
		a.Corpus = fresh
		a.Driver = closure.NewDriver(a.Parser, fresh)
	} else {
		for _, path := range paths {
			id := corpus.UnitID(path)
			if err := a.Loader.Reload(a.Corpus, path); err != nil {
				if os.IsNotExist(err) {
					a.Corpus.Remove(id)
					a.Driver.InvalidateUnit(id)
					continue
				}
				slog.Warn("failed to reload unit", "path", path, "error", err)
				continue
			}
			a.Driver.InvalidateUnit(id)
		}
	}

	observability.CorpusUnits.Set(float64(a.Corpus.Len()))
	observability.CorpusReloadsTotal.Inc()
	return a.Corpus.Len(), nil
}

// WriteOutputs writes the snippet and markdown report files configured
// under [output]. Unset paths are skipped.
func (a *App) WriteOutputs(res ports.ExtractResult) ([]string, error) {
	if res.Result == nil {
		return nil, fmt.Errorf("extraction result is required")
	}

	written := make([]string, 0, 2)
	if path := strings.TrimSpace(a.Config.Output.Snippet); path != "" {
		if err := report.WriteSnippet(path, res.Result.Snippet); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	if path := strings.TrimSpace(a.Config.Output.Report); path != "" {
		md, err := report.NewMarkdownGenerator().Generate(report.ReportData{
			Result:      res.Result,
			CorpusUnits: res.CorpusUnits,
			Duration:    res.Duration,
		}, report.ReportOptions{
			Version:        version.Version,
			IncludeSnippet: true,
		})
		if err != nil {
			return written, err
		}
		if err := report.WriteReport(path, md); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// RecentRuns returns the newest recorded runs, optionally filtered by
// target.
func (a *App) RecentRuns(target string) ([]history.Run, error) {
	if a.History == nil {
		return nil, fmt.Errorf("history is disabled")
	}
	return a.History.Recent(target, a.Config.History.Recent)
}

func (a *App) Close() error {
	if a.activeWatcher != nil {
		_ = a.activeWatcher.Close()
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.Driver.Close()
	if a.historyStore != nil {
		return a.historyStore.Close()
	}
	return nil
}

func snippetLineCount(snippet string) int {
	if snippet == "" {
		return 0
	}
	return strings.Count(snippet, "\n") + 1
}
