// Package scanner lists conversion inputs under the snapshots folder.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// inputExts are the file extensions the converters accept.
var inputExts = map[string]bool{
	".mhtml": true,
	".mht":   true,
	".html":  true,
	".txt":   true,
	".md":    true,
}

// Snapshot is one convertible file under the snapshots folder.
type Snapshot struct {
	// Path relative to the scanner root, forward slashes.
	Path string
	Name string
	Size int64
}

// Scanner scans a directory tree for convertible snapshot files
type Scanner struct {
	rootPath string
}

// NewScanner creates a new scanner for the given root path
func NewScanner(rootPath string) *Scanner {
	return &Scanner{
		rootPath: rootPath,
	}
}

// GetRootPath returns the root path for resolving relative paths
func (s *Scanner) GetRootPath() string {
	return s.rootPath
}

// Scan recursively lists convertible files, paths relative to the root and
// normalized to forward slashes so they survive being echoed through forms
// and URLs. A missing snapshots folder is not an error; it just yields an
// empty list.
func (s *Scanner) Scan() ([]Snapshot, error) {
	absRoot, err := filepath.Abs(s.rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute root path: %w", err)
	}

	if _, err := os.Stat(absRoot); os.IsNotExist(err) {
		return nil, nil
	}

	var snaps []Snapshot
	err = filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if info.IsDir() {
			return nil
		}
		if !inputExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %s: %w", path, err)
		}
		snaps = append(snaps, Snapshot{
			Path: filepath.ToSlash(relPath),
			Name: info.Name(),
			Size: info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}

	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Path < snaps[j].Path })
	return snaps, nil
}

// Resolve maps a scan-relative path back to an absolute file path,
// rejecting anything that escapes the root.
func (s *Scanner) Resolve(relPath string) (string, error) {
	absRoot, err := filepath.Abs(s.rootPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute root path: %w", err)
	}
	full := filepath.Join(absRoot, filepath.FromSlash(relPath))
	if full != absRoot && !strings.HasPrefix(full, absRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes snapshots folder", relPath)
	}
	return full, nil
}
