package config

import (
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Version     int      `toml:"version"`
	CorpusPaths []string `toml:"corpus_paths"`
	Target      string   `toml:"target"`

	Exclude       Exclude       `toml:"exclude"`
	Watch         Watch         `toml:"watch"`
	Output        Output        `toml:"output"`
	History       History       `toml:"history"`
	Observability Observability `toml:"observability"`
	Limits        Limits        `toml:"limits"`
	Datasets      Datasets      `toml:"datasets"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

type Output struct {
	Snippet string `toml:"snippet"`
	Report  string `toml:"report"`
}

type History struct {
	Enabled     bool          `toml:"enabled"`
	Path        string        `toml:"path"`
	BusyTimeout time.Duration `toml:"busy_timeout"`
	Recent      int           `toml:"recent"`
}

type Observability struct {
	Enabled       bool   `toml:"enabled"`
	Port          int    `toml:"port"`
	OTLPEndpoint  string `toml:"otlp_endpoint"`
	EnableTracing bool   `toml:"enable_tracing"`
	EnableMetrics bool   `toml:"enable_metrics"`
}

type Limits struct {
	MaxFileSize       int64   `toml:"max_file_size"`
	ExtractionsPerSec float64 `toml:"extractions_per_sec"`
	ExtractionBurst   int     `toml:"extraction_burst"`
}

type Datasets struct {
	Dir   string        `toml:"dir"`
	Repos []DatasetRepo `toml:"repos"`
	Files []DatasetFile `toml:"files"`
}

type DatasetRepo struct {
	Name string `toml:"name"`
	URL  string `toml:"url"`
}

type DatasetFile struct {
	Name string `toml:"name"`
	URL  string `toml:"url"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	ApplyEnvOverrides(&cfg)

	if err := validateVersion(&cfg); err != nil {
		return nil, err
	}
	if err := validateCorpus(&cfg); err != nil {
		return nil, err
	}
	if err := validateHistory(&cfg); err != nil {
		return nil, err
	}
	if err := validateObservability(&cfg); err != nil {
		return nil, err
	}
	if err := validateLimits(&cfg); err != nil {
		return nil, err
	}
	if err := validateDatasets(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	ApplyEnvOverrides(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if len(cfg.CorpusPaths) == 0 {
		cfg.CorpusPaths = []string{"."}
	}

	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{"**/.git", "**/__pycache__", "**/.venv", "**/venv"}
	}

	// Default debounce if not set.
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}

	if strings.TrimSpace(cfg.History.Path) == "" {
		cfg.History.Path = "history.db"
	}
	if cfg.History.BusyTimeout <= 0 {
		cfg.History.BusyTimeout = 5 * time.Second
	}
	if cfg.History.Recent <= 0 {
		cfg.History.Recent = 20
	}

	if cfg.Observability.Port == 0 {
		cfg.Observability.Port = 9090
	}

	if cfg.Limits.MaxFileSize <= 0 {
		cfg.Limits.MaxFileSize = 10 * 1024 * 1024
	}
	if cfg.Limits.ExtractionsPerSec <= 0 {
		cfg.Limits.ExtractionsPerSec = 4
	}
	if cfg.Limits.ExtractionBurst <= 0 {
		cfg.Limits.ExtractionBurst = 2
	}

	if strings.TrimSpace(cfg.Datasets.Dir) == "" {
		cfg.Datasets.Dir = "datasets"
	}
}
