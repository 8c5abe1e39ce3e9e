package report

import (
	"fmt"
	"strings"
	"time"

	"standalone/internal/engine/closure"
)

type ReportData struct {
	Result      *closure.Result
	CorpusUnits int
	Duration    time.Duration
}

type ReportOptions struct {
	Version        string
	GeneratedAt    time.Time
	IncludeSnippet bool
}

type MarkdownGenerator struct{}

func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{}
}

func (m *MarkdownGenerator) Generate(data ReportData, opts ReportOptions) (string, error) {
	if data.Result == nil {
		return "", fmt.Errorf("report data requires an extraction result")
	}
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now().UTC()
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: Snippet Extraction Report\n")
	b.WriteString("target: " + data.Result.Target + "\n")
	b.WriteString("generated_at: " + opts.GeneratedAt.UTC().Format(time.RFC3339) + "\n")
	b.WriteString("version: " + nonEmpty(opts.Version, "unknown") + "\n")
	b.WriteString("---\n\n")

	b.WriteString("# Extraction Report\n\n")
	b.WriteString("## Summary\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("| --- | --- |\n")
	b.WriteString(fmt.Sprintf("| Target | `%s` |\n", data.Result.Target))
	b.WriteString(fmt.Sprintf("| Corpus Units | %d |\n", data.CorpusUnits))
	b.WriteString(fmt.Sprintf("| Resolved Definitions | %d |\n", len(data.Result.Resolved)))
	b.WriteString(fmt.Sprintf("| Missing Dependencies | %d |\n", len(data.Result.Missing)))
	b.WriteString(fmt.Sprintf("| Snippet Lines | %d |\n", snippetLineCount(data.Result.Snippet)))
	b.WriteString(fmt.Sprintf("| Duration | %s |\n\n", data.Duration.Round(time.Millisecond)))

	b.WriteString("## Resolution Chain\n")
	if len(data.Result.Resolved) == 0 {
		b.WriteString("No definitions resolved.\n\n")
	} else {
		for i, res := range data.Result.Resolved {
			b.WriteString(fmt.Sprintf("%d. `%s` (%s)\n", i+1, res.Target, res.Unit))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Missing Dependencies\n")
	if len(data.Result.Missing) == 0 {
		b.WriteString("None.\n\n")
	} else {
		for _, name := range data.Result.Missing {
			b.WriteString(fmt.Sprintf("- `%s`\n", name))
		}
		b.WriteString("\n")
	}

	if opts.IncludeSnippet {
		b.WriteString("## Snippet\n")
		b.WriteString("```python\n")
		b.WriteString(strings.TrimRight(data.Result.Snippet, "\n"))
		b.WriteString("\n```\n")
	}

	return b.String(), nil
}

func snippetLineCount(snippet string) int {
	if snippet == "" {
		return 0
	}
	return strings.Count(snippet, "\n") + 1
}

func nonEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
