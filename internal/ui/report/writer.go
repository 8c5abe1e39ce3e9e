package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SnippetBanner precedes every emitted snippet.
const SnippetBanner = "# Final code snippet with dependencies:"

// WriteSnippet writes the banner plus snippet, creating parent directories.
func WriteSnippet(path, snippet string) error {
	content := SnippetBanner + "\n" + snippet
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if err := writeAtomic(path, content); err != nil {
		return fmt.Errorf("write snippet %q: %w", path, err)
	}
	return nil
}

// WriteReport writes rendered report content, creating parent directories.
func WriteReport(path, content string) error {
	if err := writeAtomic(path, content); err != nil {
		return fmt.Errorf("write report %q: %w", path, err)
	}
	return nil
}

// writeAtomic stages content in a temp sibling and renames it over path.
func writeAtomic(path, content string) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(dir, ".report-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	writeErr := error(nil)
	if _, err := tmp.WriteString(content); err != nil {
		writeErr = fmt.Errorf("write temp file %q: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil && writeErr == nil {
		writeErr = fmt.Errorf("close temp file %q: %w", tmpName, err)
	}
	if writeErr != nil {
		_ = os.Remove(tmpName)
		return writeErr
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace %q: %w", path, err)
	}
	return nil
}
