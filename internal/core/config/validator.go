package config

import (
	"fmt"
	"strings"
)

func validateVersion(cfg *Config) error {
	if cfg.Version < 1 {
		return fmt.Errorf("version must be >= 1, got %d", cfg.Version)
	}
	if cfg.Version > 1 {
		return fmt.Errorf("unsupported config version %d; only version 1 is supported", cfg.Version)
	}
	return nil
}

func validateCorpus(cfg *Config) error {
	if len(cfg.CorpusPaths) == 0 {
		return fmt.Errorf("corpus_paths must not be empty")
	}
	for i, p := range cfg.CorpusPaths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("corpus_paths[%d] must not be empty", i)
		}
	}
	for i, pattern := range cfg.Exclude.Dirs {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("exclude.dirs[%d] must not be empty", i)
		}
	}
	for i, pattern := range cfg.Exclude.Files {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("exclude.files[%d] must not be empty", i)
		}
	}
	return nil
}

func validateHistory(cfg *Config) error {
	if !cfg.History.Enabled {
		return nil
	}
	if strings.TrimSpace(cfg.History.Path) == "" {
		return fmt.Errorf("history.path must not be empty when history.enabled=true")
	}
	if cfg.History.Recent < 1 {
		return fmt.Errorf("history.recent must be >= 1, got %d", cfg.History.Recent)
	}
	return nil
}

func validateObservability(cfg *Config) error {
	if !cfg.Observability.Enabled {
		return nil
	}
	if cfg.Observability.EnableMetrics && (cfg.Observability.Port < 1 || cfg.Observability.Port > 65535) {
		return fmt.Errorf("observability.port must be in 1..65535, got %d", cfg.Observability.Port)
	}
	if cfg.Observability.EnableTracing && strings.TrimSpace(cfg.Observability.OTLPEndpoint) == "" {
		return fmt.Errorf("observability.otlp_endpoint must not be empty when observability.enable_tracing=true")
	}
	return nil
}

func validateLimits(cfg *Config) error {
	if cfg.Limits.MaxFileSize < 1 {
		return fmt.Errorf("limits.max_file_size must be >= 1, got %d", cfg.Limits.MaxFileSize)
	}
	if cfg.Limits.ExtractionsPerSec <= 0 {
		return fmt.Errorf("limits.extractions_per_sec must be > 0, got %v", cfg.Limits.ExtractionsPerSec)
	}
	if cfg.Limits.ExtractionBurst < 1 {
		return fmt.Errorf("limits.extraction_burst must be >= 1, got %d", cfg.Limits.ExtractionBurst)
	}
	return nil
}

func validateDatasets(cfg *Config) error {
	seen := make(map[string]bool, len(cfg.Datasets.Repos)+len(cfg.Datasets.Files))
	for i, repo := range cfg.Datasets.Repos {
		ref := fmt.Sprintf("datasets.repos[%d]", i)
		if strings.TrimSpace(repo.Name) == "" {
			return fmt.Errorf("%s.name must not be empty", ref)
		}
		if strings.TrimSpace(repo.URL) == "" {
			return fmt.Errorf("%s.url must not be empty", ref)
		}
		if seen[repo.Name] {
			return fmt.Errorf("duplicate dataset name %q", repo.Name)
		}
		seen[repo.Name] = true
	}
	for i, file := range cfg.Datasets.Files {
		ref := fmt.Sprintf("datasets.files[%d]", i)
		if strings.TrimSpace(file.Name) == "" {
			return fmt.Errorf("%s.name must not be empty", ref)
		}
		if strings.TrimSpace(file.URL) == "" {
			return fmt.Errorf("%s.url must not be empty", ref)
		}
		if seen[file.Name] {
			return fmt.Errorf("duplicate dataset name %q", file.Name)
		}
		seen[file.Name] = true
	}
	return nil
}
