package report

import (
	"fmt"
	"strings"

	"standalone/internal/engine/analyzer"
	"standalone/internal/engine/closure"
)

// DepsListing renders every category the analyzer tracks for one unit:
// first the unique names, then each recorded occurrence with its line.
// Category headers appear even when empty.
func DepsListing(a *analyzer.Analysis) string {
	var b strings.Builder
	b.WriteString("Dependencies for function: " + a.Target + "\n")
	for _, category := range analyzer.Categories() {
		b.WriteString(capitalize(string(category)) + ":\n")
		for _, name := range a.Names[category] {
			b.WriteString("  - " + name + "\n")
		}
	}
	for _, category := range analyzer.Categories() {
		b.WriteString(capitalize(string(category)) + ":\n")
		for _, rec := range a.Records[category] {
			b.WriteString(fmt.Sprintf("  - %s (Line %d): %s\n", rec.Name, rec.Line, rec.Text))
		}
	}
	return b.String()
}

// ResultListing renders one listing per resolved definition plus the names
// that never resolved anywhere in the corpus.
func ResultListing(result *closure.Result) string {
	var b strings.Builder
	for i, res := range result.Resolved {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(DepsListing(res.Analysis))
	}
	if len(result.Missing) > 0 {
		b.WriteString("\nUnresolved:\n")
		for _, name := range result.Missing {
			b.WriteString("  - " + name + "\n")
		}
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
