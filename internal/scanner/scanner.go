package scanner

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fjglira/GoE2E-PageFlow/internal/domain"
)

// Scanner discovers feature sources in the project tree.
type Scanner interface {
	Scan(rootDir string, patterns []string, excludes []string) ([]string, error)
	ScanAll(dirs []string, patterns []string, excludes []string) ([]string, error)
}

// FileScanner implements Scanner using filepath.WalkDir.
type FileScanner struct {
	Recursive bool
}

// NewScanner creates a new FileScanner.
func NewScanner(recursive bool) *FileScanner {
	return &FileScanner{Recursive: recursive}
}

// Scan walks rootDir and returns sorted file paths matching any of the given
// glob patterns while excluding paths that match any exclude pattern.
func (s *FileScanner) Scan(rootDir string, patterns []string, excludes []string) ([]string, error) {
	if _, err := os.Stat(rootDir); errors.Is(err, fs.ErrNotExist) {
		return nil, domain.NewErrorWithSuggestion("scan", rootDir, 0, "feature directory does not exist",
			"check features.directories in pageflow.yaml", err)
	}

	var files []string
	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(rootDir, path)
		if relErr != nil {
			rel = path
		}

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if !s.Recursive || matchAny(rel, excludes) {
				return filepath.SkipDir
			}
			return nil
		}

		if !matchAny(rel, excludes) && matchAny(rel, patterns) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, domain.NewError("scan", rootDir, 0, "failed to scan directory", err)
	}

	sort.Strings(files)
	return files, nil
}

// ScanAll scans every directory and returns the union, sorted and without
// duplicates when directories overlap.
func (s *FileScanner) ScanAll(dirs []string, patterns []string, excludes []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, dir := range dirs {
		found, err := s.Scan(dir, patterns, excludes)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			key, err := filepath.Abs(f)
			if err != nil {
				key = filepath.Clean(f)
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			files = append(files, f)
		}
	}
	sort.Strings(files)
	return files, nil
}

func matchAny(rel string, patterns []string) bool {
	for _, p := range patterns {
		if matchGlob(rel, p) {
			return true
		}
	}
	return false
}

// matchGlob matches a path against a glob pattern, supporting ** for recursive matching.
func matchGlob(path, pattern string) bool {
	if strings.Contains(pattern, "**") {
		parts := strings.SplitN(pattern, "**", 2)
		prefix := strings.TrimSuffix(parts[0], string(filepath.Separator))
		suffix := strings.TrimPrefix(parts[1], string(filepath.Separator))

		if prefix != "" {
			if path != prefix && !strings.HasPrefix(path, prefix+string(filepath.Separator)) {
				return false
			}
			path = strings.TrimPrefix(path, prefix)
			path = strings.TrimPrefix(path, string(filepath.Separator))
		}

		if suffix == "" {
			return true
		}

		segments := strings.Split(path, string(filepath.Separator))
		for i := range segments {
			if matched, _ := filepath.Match(suffix, strings.Join(segments[i:], string(filepath.Separator))); matched {
				return true
			}
		}
		return false
	}

	if matched, _ := filepath.Match(pattern, filepath.Base(path)); matched {
		return true
	}
	matched, _ := filepath.Match(pattern, path)
	return matched
}
