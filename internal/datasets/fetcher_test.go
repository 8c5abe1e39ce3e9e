package datasets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"standalone/internal/core/config"
)

func TestFetch_SkipsExistingEntries(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "sample-repo"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sample.py"), []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Unreachable URLs prove nothing is fetched when entries exist.
	f := NewFetcher(config.Datasets{
		Dir:   dir,
		Repos: []config.DatasetRepo{{Name: "sample-repo", URL: "http://127.0.0.1:1/none.git"}},
		Files: []config.DatasetFile{{Name: "sample.py", URL: "http://127.0.0.1:1/none.py"}},
	})
	if err := f.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch with existing entries: %v", err)
	}
}

func TestFetch_RejectsSeparatorInName(t *testing.T) {
	f := NewFetcher(config.Datasets{
		Dir:   t.TempDir(),
		Files: []config.DatasetFile{{Name: "../escape.py", URL: "http://127.0.0.1:1/x"}},
	})
	if err := f.Fetch(context.Background()); err == nil {
		t.Fatal("expected error for dataset name with path separator")
	}
}

func TestFetch_RejectsDotDotName(t *testing.T) {
	f := NewFetcher(config.Datasets{
		Dir:   t.TempDir(),
		Files: []config.DatasetFile{{Name: "..", URL: "http://127.0.0.1:1/x"}},
	})
	if err := f.Fetch(context.Background()); err == nil {
		t.Fatal("expected error for dataset name escaping the directory")
	}
}

func TestFetch_DownloadsMissingFile(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write([]byte("def sample():\n    pass\n"))
	}))
	defer server.Close()

	dir := t.TempDir()
	f := NewFetcher(config.Datasets{
		Dir:   dir,
		Files: []config.DatasetFile{{Name: "sample.py", URL: server.URL}},
	})

	if err := f.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "sample.py"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "def sample():\n    pass\n" {
		t.Fatalf("unexpected content %q", data)
	}

	// Second run must hit the skip path.
	if err := f.Fetch(context.Background()); err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if requests != 1 {
		t.Fatalf("expected 1 download, got %d", requests)
	}
}

func TestFetch_DownloadFailsOnBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	f := NewFetcher(config.Datasets{
		Dir:   t.TempDir(),
		Files: []config.DatasetFile{{Name: "missing.py", URL: server.URL}},
	})
	if err := f.Fetch(context.Background()); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestFetch_ClonesLocalRepo(t *testing.T) {
	srcDir := t.TempDir()
	repo, err := gogit.PlainInit(srcDir, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, "util.py"), []byte("def util():\n    return 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := wt.Add("util.py"); err != nil {
		t.Fatal(err)
	}
	_, err = wt.Commit("add util", &gogit.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	f := NewFetcher(config.Datasets{
		Dir:   dir,
		Repos: []config.DatasetRepo{{Name: "local-sample", URL: srcDir}},
	})
	if err := f.Fetch(context.Background()); err != nil {
		t.Fatalf("clone local repo: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "local-sample", "util.py")); err != nil {
		t.Fatalf("expected cloned file: %v", err)
	}
}
