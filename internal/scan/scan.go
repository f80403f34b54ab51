// Package scan loads the source manifest the engine analyzes: one entry
// per file with its repo-relative path and raw import strings. Manifests
// are produced by external extractors, so loading normalizes paths,
// drops excluded files, and tags each entry with its language.
package scan

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/gobwas/glob"

	"strata/internal/lang"
	"strata/internal/shared/util"
)

// SourceFile is one analyzed file. Class counts are optional and feed
// the abstractness metric; extractors that do not count classes leave
// them zero.
type SourceFile struct {
	Path            string   `json:"path"`
	Language        string   `json:"language,omitempty"`
	Imports         []string `json:"imports"`
	Classes         int      `json:"classes,omitempty"`
	AbstractClasses int      `json:"abstract_classes,omitempty"`
}

// Scanner filters and normalizes manifest entries.
type Scanner struct {
	registry *lang.Registry
	excludes []glob.Glob
}

// NewScanner compiles the exclude patterns. A malformed pattern fails the
// whole scanner so a typo in config never silently includes everything.
func NewScanner(registry *lang.Registry, excludePatterns []string) (*Scanner, error) {
	s := &Scanner{registry: registry}
	for _, pattern := range excludePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("compile exclude pattern %q: %w", pattern, err)
		}
		s.excludes = append(s.excludes, g)
	}
	return s, nil
}

func (s *Scanner) excluded(path string) bool {
	for _, g := range s.excludes {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// Load reads a JSON manifest (an array of SourceFile objects), normalizes
// and deduplicates paths, drops excluded and unrecognized files, and
// returns entries sorted by path.
func (s *Scanner) Load(r io.Reader) ([]SourceFile, error) {
	var raw []SourceFile
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode scan manifest: %w", err)
	}

	byPath := make(map[string]SourceFile, len(raw))
	var skipped int
	for _, file := range raw {
		file.Path = util.NormalizePath(file.Path)
		if file.Path == "" {
			skipped++
			continue
		}
		if s.excluded(file.Path) {
			skipped++
			continue
		}
		if file.Language == "" {
			if l := s.registry.ByExtension(file.Path); l != nil {
				file.Language = l.Name
			}
		}
		if file.Language == "" {
			skipped++
			continue
		}
		if prev, dup := byPath[file.Path]; dup {
			// Later entries win but keep the larger import list so a
			// sparse duplicate never erases real edges.
			if len(prev.Imports) > len(file.Imports) {
				file.Imports = prev.Imports
			}
		}
		byPath[file.Path] = file
	}

	files := make([]SourceFile, 0, len(byPath))
	for _, path := range util.SortedStringKeys(byPath) {
		files = append(files, byPath[path])
	}
	slog.Debug("scan manifest loaded", "files", len(files), "skipped", skipped)
	return files, nil
}

// LoadFile opens and loads a manifest from disk. "-" reads stdin.
func (s *Scanner) LoadFile(path string) ([]SourceFile, error) {
	if path == "-" {
		return s.Load(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scan manifest: %w", err)
	}
	defer f.Close()
	return s.Load(f)
}

// SortByPath orders files deterministically in place.
func SortByPath(files []SourceFile) {
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
}
