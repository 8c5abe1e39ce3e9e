package closure

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"standalone/internal/core/errors"
	"standalone/internal/corpus"
	"standalone/internal/engine/analyzer"
	"standalone/internal/engine/assembler"
	"standalone/internal/engine/parser"
	"standalone/internal/shared/observability"
)

// Resolution is one target the walk resolved to a defining unit.
type Resolution struct {
	Target   string
	Unit     string
	Analysis *analyzer.Analysis
}

// Result carries the stitched snippet and the walk's bookkeeping.
type Result struct {
	Target   string
	Snippet  string
	Resolved []Resolution
	Missing  []string
}

// parseCacheCap bounds the number of parse trees held at once. Trees
// own C allocations, so eviction closes them.
const parseCacheCap = 256

// Driver walks a target's dependency closure across the corpus. Units
// are parsed at most once per driver and only when the walk reaches
// them; parsed trees sit in a bounded LRU until evicted, invalidated
// or closed.
type Driver struct {
	parser   *parser.Parser
	analyzer *analyzer.Analyzer
	corpus   *corpus.Corpus
	cache    *lruCache[string, *parser.ParsedUnit]
}

func NewDriver(p *parser.Parser, c *corpus.Corpus) *Driver {
	return &Driver{
		parser:   p,
		analyzer: analyzer.New(),
		corpus:   c,
		cache: newLRUCache[string, *parser.ParsedUnit](parseCacheCap, func(pu *parser.ParsedUnit) {
			pu.Close()
		}),
	}
}

// Extract computes the self-contained snippet for a target function.
// A target found nowhere yields an empty snippet with the target listed
// as missing, not an error; an unresolved transitive dependency
// contributes an empty section under its header.
func (d *Driver) Extract(ctx context.Context, target string) (*Result, error) {
	if strings.TrimSpace(target) == "" {
		return nil, errors.New(errors.CodeValidationError, "target function name is empty")
	}

	res := &Result{Target: target}
	processed := make(map[string]bool)
	snippet, err := d.process(ctx, target, processed, res)
	if err != nil {
		return nil, err
	}
	res.Snippet = snippet
	return res, nil
}

func (d *Driver) process(ctx context.Context, target string, processed map[string]bool, res *Result) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if processed[target] {
		return "", nil
	}
	processed[target] = true

	unit, pu, err := d.findTarget(target)
	if err != nil {
		return "", err
	}
	if pu == nil {
		res.Missing = append(res.Missing, target)
		return "", nil
	}

	analysis := d.analyzer.Analyze(pu, unit, target)
	res.Resolved = append(res.Resolved, Resolution{Target: target, Unit: unit.ID, Analysis: analysis})

	var b strings.Builder
	b.WriteString(assembler.Snippet(analysis, unit))

	for _, dep := range analysis.Imports() {
		b.WriteString("\n\n# Dependencies from ")
		b.WriteString(dep)
		b.WriteString(":\n")
		sub, err := d.process(ctx, candidateName(dep), processed, res)
		if err != nil {
			return "", err
		}
		b.WriteString(sub)
	}
	return b.String(), nil
}

// findTarget scans the corpus in order and returns the first unit that
// defines the target. Units past the match are never parsed.
func (d *Driver) findTarget(target string) (*corpus.SourceUnit, *parser.ParsedUnit, error) {
	for _, id := range d.corpus.IDs() {
		unit, ok := d.corpus.Get(id)
		if !ok {
			continue
		}
		pu, err := d.parsed(id, unit)
		if err != nil {
			return nil, nil, err
		}
		if parser.HasFunction(pu, target) {
			return unit, pu, nil
		}
	}
	return nil, nil, nil
}

// Targets lists every function definition in the corpus. Units that do
// not parse are skipped so one broken file cannot hide the rest.
func (d *Driver) Targets() []parser.FunctionDef {
	var defs []parser.FunctionDef
	for _, id := range d.corpus.IDs() {
		unit, ok := d.corpus.Get(id)
		if !ok {
			continue
		}
		pu, err := d.parsed(id, unit)
		if err != nil {
			slog.Warn("skipping unit", "unit", id, "error", err)
			continue
		}
		defs = append(defs, parser.Functions(pu)...)
	}
	return defs
}

func (d *Driver) parsed(id string, unit *corpus.SourceUnit) (*parser.ParsedUnit, error) {
	if pu, ok := d.cache.Get(id); ok {
		return pu, nil
	}
	start := time.Now()
	pu, err := d.parser.Parse(id, unit.Content)
	if err != nil {
		return nil, err
	}
	observability.ParsingDuration.WithLabelValues(pu.Language).Observe(time.Since(start).Seconds())
	d.cache.Put(id, pu)
	return pu, nil
}

// InvalidateUnit drops the cached tree for one unit. Call after that
// unit's content changes or the unit is removed.
func (d *Driver) InvalidateUnit(id string) {
	d.cache.Evict(id)
}

// Invalidate drops all cached trees. Call after the corpus changes
// wholesale.
func (d *Driver) Invalidate() {
	d.cache.Clear()
}

func (d *Driver) Close() {
	d.Invalidate()
}

// candidateName maps an import name to the function name tried next:
// the segment after the last dot, or the whole name when it has none.
func candidateName(dep string) string {
	if i := strings.LastIndex(dep, "."); i >= 0 {
		return dep[i+1:]
	}
	return dep
}
