package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: STANDALONE_[SECTION]_[KEY] (e.g., STANDALONE_OBSERVABILITY_PORT).
func ApplyEnvOverrides(cfg *Config) {
	// Top level
	setEnvString(&cfg.Target, "STANDALONE_TARGET")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "STANDALONE_WATCH_DEBOUNCE")

	// Output
	setEnvString(&cfg.Output.Snippet, "STANDALONE_OUTPUT_SNIPPET")
	setEnvString(&cfg.Output.Report, "STANDALONE_OUTPUT_REPORT")

	// History
	setEnvBool(&cfg.History.Enabled, "STANDALONE_HISTORY_ENABLED")
	setEnvString(&cfg.History.Path, "STANDALONE_HISTORY_PATH")
	setEnvDuration(&cfg.History.BusyTimeout, "STANDALONE_HISTORY_BUSY_TIMEOUT")
	setEnvInt(&cfg.History.Recent, "STANDALONE_HISTORY_RECENT")

	// Observability
	setEnvBool(&cfg.Observability.Enabled, "STANDALONE_OBSERVABILITY_ENABLED")
	setEnvInt(&cfg.Observability.Port, "STANDALONE_OBSERVABILITY_PORT")
	setEnvString(&cfg.Observability.OTLPEndpoint, "STANDALONE_OBSERVABILITY_OTLP_ENDPOINT")
	setEnvBool(&cfg.Observability.EnableTracing, "STANDALONE_OBSERVABILITY_ENABLE_TRACING")
	setEnvBool(&cfg.Observability.EnableMetrics, "STANDALONE_OBSERVABILITY_ENABLE_METRICS")

	// Limits
	setEnvInt64(&cfg.Limits.MaxFileSize, "STANDALONE_LIMITS_MAX_FILE_SIZE")
	setEnvFloat64(&cfg.Limits.ExtractionsPerSec, "STANDALONE_LIMITS_EXTRACTIONS_PER_SEC")
	setEnvInt(&cfg.Limits.ExtractionBurst, "STANDALONE_LIMITS_EXTRACTION_BURST")

	// Datasets
	setEnvString(&cfg.Datasets.Dir, "STANDALONE_DATASETS_DIR")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		log.Printf("Applying env override: %s=%s", key, val)
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			log.Printf("Applying env override: %s=%s", key, val)
			*target = i
		}
	}
}

func setEnvInt64(target *int64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			log.Printf("Applying env override: %s=%s", key, val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			log.Printf("Applying env override: %s=%s", key, val)
			*target = b
		}
	}
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			log.Printf("Applying env override: %s=%s", key, val)
			*target = f
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			log.Printf("Applying env override: %s=%s", key, val)
			*target = d
		}
	}
}
