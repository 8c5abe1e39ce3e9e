package datasets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	gogit "github.com/go-git/go-git/v5"

	"standalone/internal/core/config"
	"standalone/internal/shared/util"
)

// Fetcher materializes the configured sample corpora under the datasets
// directory. Entries already present on disk are left untouched, so a
// re-fetch after a partial failure only pulls what is missing.
type Fetcher struct {
	dir    string
	repos  []config.DatasetRepo
	files  []config.DatasetFile
	client *http.Client
}

func NewFetcher(cfg config.Datasets) *Fetcher {
	return &Fetcher{
		dir:    cfg.Dir,
		repos:  cfg.Repos,
		files:  cfg.Files,
		client: &http.Client{Timeout: 5 * time.Minute},
	}
}

func (f *Fetcher) Fetch(ctx context.Context) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("create datasets directory %q: %w", f.dir, err)
	}

	for _, repo := range f.repos {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := f.cloneRepo(ctx, repo); err != nil {
			return err
		}
	}
	for _, file := range f.files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := f.downloadFile(ctx, file); err != nil {
			return err
		}
	}
	return nil
}

func (f *Fetcher) cloneRepo(ctx context.Context, repo config.DatasetRepo) error {
	target, err := f.entryPath(repo.Name)
	if err != nil {
		return err
	}
	if _, err := os.Stat(target); err == nil {
		slog.Debug("dataset already present", "name", repo.Name, "path", target)
		return nil
	}

	slog.Info("cloning dataset", "name", repo.Name, "url", repo.URL)
	// Depth 1 keeps remote corpora small; history is never needed. Local
	// sources clone fully because the file transport rejects shallow
	// negotiation.
	opts := &gogit.CloneOptions{URL: repo.URL, Depth: 1}
	if _, statErr := os.Stat(repo.URL); statErr == nil {
		opts.Depth = 0
	}
	if _, err := gogit.PlainCloneContext(ctx, target, false, opts); err != nil {
		return fmt.Errorf("clone dataset %q: %w", repo.Name, err)
	}
	return nil
}

func (f *Fetcher) downloadFile(ctx context.Context, file config.DatasetFile) error {
	target, err := f.entryPath(file.Name)
	if err != nil {
		return err
	}
	if _, err := os.Stat(target); err == nil {
		slog.Debug("dataset already present", "name", file.Name, "path", target)
		return nil
	}

	slog.Info("downloading dataset", "name", file.Name, "url", file.URL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.URL, nil)
	if err != nil {
		return fmt.Errorf("build request for %q: %w", file.Name, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("download dataset %q: %w", file.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download dataset %q: %s", file.Name, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read dataset %q: %w", file.Name, err)
	}
	if err := util.WriteFileWithDirs(target, data, 0o644); err != nil {
		return fmt.Errorf("write dataset %q: %w", file.Name, err)
	}
	return nil
}

func (f *Fetcher) entryPath(name string) (string, error) {
	if util.ContainsPathSeparator(name) {
		return "", fmt.Errorf("dataset name %q must not contain path separators", name)
	}
	target := filepath.Join(f.dir, name)
	// Join collapses names like ".." out of the datasets directory.
	if !util.HasPathPrefix(target, f.dir) {
		return "", fmt.Errorf("dataset name %q escapes the datasets directory", name)
	}
	return target, nil
}
