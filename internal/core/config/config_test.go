package config

import (
	"os"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp(t.TempDir(), "config*.toml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpfile.Name()
}

func TestLoad(t *testing.T) {
	content := `
corpus_paths = ["./src", "./lib"]
target = "main"

[exclude]
dirs = ["**/.git"]
files = ["*_test.py"]

[watch]
debounce = "1s"

[output]
snippet = "snippet.py"
report = "deps.txt"

[history]
enabled = true
path = "runs.db"
recent = 5

[observability]
enabled = true
port = 9191
enable_metrics = true

[limits]
max_file_size = 1024

[datasets]
dir = "corpora"

[[datasets.repos]]
name = "requests"
url = "https://github.com/psf/requests"
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.CorpusPaths) != 2 || cfg.CorpusPaths[0] != "./src" {
		t.Errorf("Unexpected CorpusPaths: %v", cfg.CorpusPaths)
	}
	if cfg.Target != "main" {
		t.Errorf("Expected target main, got %s", cfg.Target)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
	if cfg.Output.Snippet != "snippet.py" {
		t.Errorf("Expected snippet snippet.py, got %s", cfg.Output.Snippet)
	}
	if !cfg.History.Enabled || cfg.History.Path != "runs.db" {
		t.Errorf("Unexpected history config: %+v", cfg.History)
	}
	if cfg.History.Recent != 5 {
		t.Errorf("Expected history.recent 5, got %d", cfg.History.Recent)
	}
	if cfg.Observability.Port != 9191 {
		t.Errorf("Expected port 9191, got %d", cfg.Observability.Port)
	}
	if cfg.Limits.MaxFileSize != 1024 {
		t.Errorf("Expected max_file_size 1024, got %d", cfg.Limits.MaxFileSize)
	}
	if cfg.Datasets.Dir != "corpora" {
		t.Errorf("Expected datasets dir corpora, got %s", cfg.Datasets.Dir)
	}
	if len(cfg.Datasets.Repos) != 1 || cfg.Datasets.Repos[0].Name != "requests" {
		t.Errorf("Unexpected dataset repos: %v", cfg.Datasets.Repos)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `target = "run"`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("Expected default debounce 500ms, got %v", cfg.Watch.Debounce)
	}
	if len(cfg.CorpusPaths) != 1 || cfg.CorpusPaths[0] != "." {
		t.Errorf("Expected default corpus path ., got %v", cfg.CorpusPaths)
	}
	if cfg.History.Path != "history.db" {
		t.Errorf("Expected default history path history.db, got %s", cfg.History.Path)
	}
	if cfg.History.BusyTimeout != 5*time.Second {
		t.Errorf("Expected default busy timeout 5s, got %v", cfg.History.BusyTimeout)
	}
	if cfg.Limits.MaxFileSize != 10*1024*1024 {
		t.Errorf("Expected default max file size 10MiB, got %d", cfg.Limits.MaxFileSize)
	}
}

func TestLoadError(t *testing.T) {
	_, err := Load("nonexistent.toml")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}

	_, err = Load(writeConfig(t, "bad = toml = format"))
	if err == nil {
		t.Error("Expected error for malformed TOML")
	}
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"bad version", `version = 7`},
		{"empty corpus path", `corpus_paths = ["  "]`},
		{"empty exclude dir", "[exclude]\ndirs = [\"\"]"},
		{"bad port", "[observability]\nenabled = true\nenable_metrics = true\nport = 99999"},
		{"tracing without endpoint", "[observability]\nenabled = true\nenable_tracing = true"},
		{"nameless dataset", "[[datasets.repos]]\nurl = \"https://example.com/a.git\""},
		{"duplicate dataset", "[[datasets.repos]]\nname = \"a\"\nurl = \"u\"\n[[datasets.repos]]\nname = \"a\"\nurl = \"u\""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.content)); err == nil {
				t.Errorf("Expected validation error for %s", tc.name)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("STANDALONE_TARGET", "handler")
	t.Setenv("STANDALONE_WATCH_DEBOUNCE", "2s")
	t.Setenv("STANDALONE_HISTORY_ENABLED", "true")
	t.Setenv("STANDALONE_OBSERVABILITY_PORT", "7070")

	cfg, err := Load(writeConfig(t, `target = "ignored"`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Target != "handler" {
		t.Errorf("Expected env target handler, got %s", cfg.Target)
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("Expected env debounce 2s, got %v", cfg.Watch.Debounce)
	}
	if !cfg.History.Enabled {
		t.Error("Expected env history enabled")
	}
	if cfg.Observability.Port != 7070 {
		t.Errorf("Expected env port 7070, got %d", cfg.Observability.Port)
	}
}
