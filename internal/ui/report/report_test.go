package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"standalone/internal/engine/analyzer"
	"standalone/internal/engine/closure"
)

func fixtureAnalysis() *analyzer.Analysis {
	return &analyzer.Analysis{
		Unit:   "file1.py",
		Target: "main_function",
		Names: map[analyzer.Category][]string{
			analyzer.CategoryFunctions: {"helper_func"},
			analyzer.CategoryVariables: {"result", "helper_func"},
			analyzer.CategoryImports:   {"file2.helper_func"},
		},
		Records: map[analyzer.Category][]analyzer.Record{
			analyzer.CategoryFunctions: {
				{Name: "helper_func", Line: 3, Text: "    result = helper_func()"},
			},
		},
	}
}

func fixtureResult() *closure.Result {
	return &closure.Result{
		Target:  "main_function",
		Snippet: "from file2 import helper_func\ndef main_function():\n    result = helper_func()",
		Resolved: []closure.Resolution{
			{Target: "main_function", Unit: "file1.py", Analysis: fixtureAnalysis()},
		},
		Missing: []string{"os"},
	}
}

func TestDepsListing(t *testing.T) {
	out := DepsListing(fixtureAnalysis())

	if !strings.HasPrefix(out, "Dependencies for function: main_function\n") {
		t.Fatalf("missing listing header:\n%s", out)
	}
	if !strings.Contains(out, "Functions:\n  - helper_func\n") {
		t.Fatalf("missing function name entry:\n%s", out)
	}
	if !strings.Contains(out, "  - helper_func (Line 3):     result = helper_func()\n") {
		t.Fatalf("missing record entry:\n%s", out)
	}
	// Headers are printed twice per category, once for names and once
	// for records, even when a category is empty.
	if got := strings.Count(out, "Functions:"); got != 2 {
		t.Fatalf("expected 2 Functions headers, got %d", got)
	}
	if got := strings.Count(out, "Methods:"); got != 2 {
		t.Fatalf("expected 2 Methods headers for empty category, got %d", got)
	}
}

func TestResultListing_IncludesUnresolved(t *testing.T) {
	out := ResultListing(fixtureResult())

	if !strings.Contains(out, "Dependencies for function: main_function") {
		t.Fatalf("missing per-unit listing:\n%s", out)
	}
	if !strings.Contains(out, "Unresolved:\n  - os\n") {
		t.Fatalf("missing unresolved section:\n%s", out)
	}
}

func TestMarkdownGenerator(t *testing.T) {
	gen := NewMarkdownGenerator()
	out, err := gen.Generate(ReportData{
		Result:      fixtureResult(),
		CorpusUnits: 2,
		Duration:    42 * time.Millisecond,
	}, ReportOptions{
		Version:        "1.0.0",
		GeneratedAt:    time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC),
		IncludeSnippet: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"title: Snippet Extraction Report",
		"generated_at: 2026-02-13T10:00:00Z",
		"| Target | `main_function` |",
		"| Corpus Units | 2 |",
		"| Resolved Definitions | 1 |",
		"| Missing Dependencies | 1 |",
		"| Snippet Lines | 3 |",
		"1. `main_function` (file1.py)",
		"- `os`",
		"```python",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestMarkdownGenerator_NilResult(t *testing.T) {
	gen := NewMarkdownGenerator()
	if _, err := gen.Generate(ReportData{}, ReportOptions{}); err == nil {
		t.Fatal("expected error for missing result")
	}
}

func TestWriteSnippet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "snippet.py")
	if err := WriteSnippet(path, "x = 1\ndef f():\n    return x"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := SnippetBanner + "\nx = 1\ndef f():\n    return x\n"
	if string(data) != want {
		t.Fatalf("unexpected snippet file:\n%q", data)
	}
}

func TestWriteSnippet_ReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snippet.py")
	if err := WriteSnippet(path, "old = 1"); err != nil {
		t.Fatal(err)
	}
	if err := WriteSnippet(path, "new = 2"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := SnippetBanner + "\nnew = 2\n"; string(data) != want {
		t.Fatalf("unexpected snippet file:\n%q", data)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the snippet file, got %d entries", len(entries))
	}
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "run.md")
	if err := WriteReport(path, "# Extraction Report\n"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "# Extraction Report") {
		t.Fatalf("unexpected report content: %q", data)
	}
}
