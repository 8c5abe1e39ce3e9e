package assembler

import (
	"sort"
	"strings"

	"standalone/internal/corpus"
	"standalone/internal/engine/analyzer"
)

// Origin labels for lines that do not come from a category record.
const (
	OriginTarget       = "target_function"
	OriginGlobalDef    = "global_definition"
	OriginGlobalObject = "global_object"
)

// Line is one selected source line. Origin names the first reason the
// line was selected; Number is 1-indexed.
type Line struct {
	Origin string
	Number int
	Text   string
}

// Merge combines category records, the target span, used global
// definitions and defined global objects into one ascending line list.
// Ties keep the earliest contributor; each line number appears once.
func Merge(a *analyzer.Analysis, unit *corpus.SourceUnit) []Line {
	var all []Line
	for _, cat := range analyzer.Categories() {
		for _, rec := range a.Records[cat] {
			all = append(all, Line{Origin: string(cat), Number: rec.Line, Text: rec.Text})
		}
	}
	for _, row := range a.TargetRows {
		all = append(all, Line{Origin: OriginTarget, Number: row + 1, Text: unit.Line(row + 1)})
	}
	for _, name := range a.UsedGlobals {
		if row, ok := a.GlobalDefs[name]; ok {
			all = append(all, Line{Origin: OriginGlobalDef, Number: row + 1, Text: unit.Line(row + 1)})
		}
	}
	for _, name := range a.GlobalObjects {
		if row, ok := a.GlobalDefs[name]; ok {
			all = append(all, Line{Origin: OriginGlobalObject, Number: row + 1, Text: unit.Line(row + 1)})
		}
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Number < all[j].Number })

	seen := make(map[int]bool, len(all))
	deduped := make([]Line, 0, len(all))
	for _, line := range all {
		if seen[line.Number] {
			continue
		}
		seen[line.Number] = true
		deduped = append(deduped, line)
	}
	return deduped
}

// Snippet renders the merged lines as source text.
func Snippet(a *analyzer.Analysis, unit *corpus.SourceUnit) string {
	lines := Merge(a, unit)
	texts := make([]string, len(lines))
	for i, line := range lines {
		texts[i] = line.Text
	}
	return strings.Join(texts, "\n")
}
