package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"standalone/internal/data/history"
)

// TrendTSV renders one tab-separated row per run with deltas against
// the previous run and moving averages over the report window.
func TrendTSV(tr history.TrendReport) []byte {
	var buf strings.Builder

	buf.WriteString("CreatedAt\tTarget\tCommit\tUnits\tSnippetLines\tMissing\tDurationMS\tDeltaLines\tDeltaMissing\tDeltaUnits\tAvgMissing\tAvgDurationMS\n")
	for _, p := range tr.Points {
		buf.WriteString(fmt.Sprintf(
			"%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%.2f\t%.2f\n",
			p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			p.Target,
			p.CommitHash,
			p.CorpusUnits,
			p.SnippetLines,
			p.MissingCount,
			p.DurationMS,
			p.DeltaSnippetLines,
			p.DeltaMissing,
			p.DeltaUnits,
			p.AvgMissing,
			p.AvgDurationMS,
		))
	}

	return []byte(buf.String())
}

func TrendJSON(tr history.TrendReport) ([]byte, error) {
	return json.MarshalIndent(tr, "", "  ")
}
