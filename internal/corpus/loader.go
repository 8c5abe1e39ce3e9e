package corpus

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"

	"standalone/internal/shared/util"
)

// Loader builds a corpus from a mix of file paths and directory roots.
// Directories are walked in lexical order so the resulting corpus order
// is stable across runs.
type Loader struct {
	supported   func(path string) bool
	dirGlobs    []glob.Glob
	fileGlobs   []glob.Glob
	maxFileSize int64
}

func NewLoader(supported func(path string) bool, excludeDirs, excludeFiles []string, maxFileSize int64) (*Loader, error) {
	dirGlobs := make([]glob.Glob, 0, len(excludeDirs))
	for _, p := range excludeDirs {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", p, err)
		}
		dirGlobs = append(dirGlobs, g)
	}

	fileGlobs := make([]glob.Glob, 0, len(excludeFiles))
	for _, p := range excludeFiles {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude file pattern %q: %w", p, err)
		}
		fileGlobs = append(fileGlobs, g)
	}

	return &Loader{
		supported:   supported,
		dirGlobs:    dirGlobs,
		fileGlobs:   fileGlobs,
		maxFileSize: maxFileSize,
	}, nil
}

// Load scans the given roots and reads every supported file into a
// corpus. Unreadable or oversized files are skipped with a warning.
func (l *Loader) Load(paths []string) (*Corpus, error) {
	files, err := l.scan(paths)
	if err != nil {
		return nil, err
	}

	c := New()
	for _, path := range files {
		unit, err := l.readUnit(path)
		if err != nil {
			slog.Warn("skipping unreadable file", "path", path, "error", err)
			continue
		}
		if unit == nil {
			continue
		}
		c.Add(unit)
	}
	return c, nil
}

// Reload re-reads a single file into an existing corpus, keeping the
// unit's position. Used by watch mode.
func (l *Loader) Reload(c *Corpus, path string) error {
	unit, err := l.readUnit(path)
	if err != nil {
		return err
	}
	if unit == nil {
		return nil
	}
	c.Add(unit)
	return nil
}

func (l *Loader) readUnit(path string) (*SourceUnit, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if l.maxFileSize > 0 && info.Size() > l.maxFileSize {
		slog.Warn("skipping oversized file", "path", path, "size", info.Size())
		return nil, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewUnit(UnitID(path), content), nil
}

func (l *Loader) scan(paths []string) ([]string, error) {
	var files []string

	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			base := filepath.Base(path)
			if d.IsDir() {
				full := util.NormalizePatternPath(path)
				for _, g := range l.dirGlobs {
					if g.Match(base) || g.Match(full) {
						return filepath.SkipDir
					}
				}
				return nil
			}

			if l.supported != nil && !l.supported(path) {
				return nil
			}

			for _, g := range l.fileGlobs {
				if g.Match(base) {
					return nil
				}
			}

			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// UnitID maps a filesystem path to its corpus unit identifier.
func UnitID(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}
