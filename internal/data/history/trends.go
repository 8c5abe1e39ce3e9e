package history

import (
	"fmt"
	"math"
	"time"
)

// TrendPoint is one run annotated with deltas against the previous run
// and moving averages over the report window.
type TrendPoint struct {
	CreatedAt    time.Time `json:"created_at"`
	Target       string    `json:"target"`
	CommitHash   string    `json:"commit_hash,omitempty"`
	CorpusUnits  int       `json:"corpus_units"`
	SnippetLines int       `json:"snippet_lines"`
	MissingCount int       `json:"missing_count"`
	DurationMS   int64     `json:"duration_ms"`

	DeltaSnippetLines int     `json:"delta_snippet_lines"`
	DeltaMissing      int     `json:"delta_missing"`
	DeltaUnits        int     `json:"delta_units"`
	AvgMissing        float64 `json:"avg_missing"`
	AvgDurationMS     float64 `json:"avg_duration_ms"`
}

// TrendReport summarizes how extraction runs evolve over time.
type TrendReport struct {
	SchemaVersion int          `json:"schema_version"`
	Since         time.Time    `json:"since"`
	Until         time.Time    `json:"until"`
	Window        string       `json:"window"`
	RunCount      int          `json:"run_count"`
	Points        []TrendPoint `json:"points"`
}

// BuildTrendReport computes per-run deltas and moving averages over the
// given window. Runs must be ordered oldest first.
func BuildTrendReport(runs []Run, window time.Duration) (TrendReport, error) {
	if len(runs) == 0 {
		return TrendReport{}, fmt.Errorf("no runs available")
	}

	points := make([]TrendPoint, 0, len(runs))
	for i, current := range runs {
		point := TrendPoint{
			CreatedAt:    current.CreatedAt,
			Target:       current.Target,
			CommitHash:   current.CommitHash,
			CorpusUnits:  current.CorpusUnits,
			SnippetLines: current.SnippetLines,
			MissingCount: current.MissingCount,
			DurationMS:   current.Duration.Milliseconds(),
		}

		if i > 0 {
			prev := runs[i-1]
			point.DeltaSnippetLines = current.SnippetLines - prev.SnippetLines
			point.DeltaMissing = current.MissingCount - prev.MissingCount
			point.DeltaUnits = current.CorpusUnits - prev.CorpusUnits
		}

		avgMissing, avgDuration := movingAverages(runs, i, window)
		point.AvgMissing = round2(avgMissing)
		point.AvgDurationMS = round2(avgDuration)
		points = append(points, point)
	}

	return TrendReport{
		SchemaVersion: SchemaVersion,
		Since:         runs[0].CreatedAt,
		Until:         runs[len(runs)-1].CreatedAt,
		Window:        window.String(),
		RunCount:      len(points),
		Points:        points,
	}, nil
}

func movingAverages(runs []Run, index int, window time.Duration) (float64, float64) {
	if window <= 0 {
		return float64(runs[index].MissingCount), float64(runs[index].Duration.Milliseconds())
	}

	cutoff := runs[index].CreatedAt.Add(-window)
	var missingTotal int
	var durationTotal int64
	count := 0
	for i := index; i >= 0; i-- {
		if runs[i].CreatedAt.Before(cutoff) {
			break
		}
		missingTotal += runs[i].MissingCount
		durationTotal += runs[i].Duration.Milliseconds()
		count++
	}
	if count == 0 {
		return 0, 0
	}
	return float64(missingTotal) / float64(count), float64(durationTotal) / float64(count)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
