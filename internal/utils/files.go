// Package utils holds file discovery helpers shared by the CLI and the watcher.
package utils

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SkipDir reports whether a directory is never searched for templates:
// hidden, underscore-prefixed, vendor, testdata and node_modules.
func SkipDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") ||
		name == "vendor" || name == "testdata" || name == "node_modules"
}

// TemplateFinder locates Go files carrying a directive comment
type TemplateFinder struct {
	// Directive is matched as "//" + Directive anywhere in the file
	Directive string
	// IsOutput reports generated files, which are never templates
	IsOutput func(path string) bool
}

// Find expands paths into a sorted, de-duplicated list of templates.
// Directories and "dir/..." patterns are searched recursively. Files named
// explicitly are returned without checking for the directive.
func (f TemplateFinder) Find(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, p := range paths {
		if p == "..." || strings.HasSuffix(p, "/...") {
			p = strings.TrimSuffix(strings.TrimSuffix(p, "..."), "/")
			if p == "" {
				p = "."
			}
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}

		found, err := f.walk(p)
		if err != nil {
			return nil, err
		}
		for _, path := range found {
			add(path)
		}
	}

	sort.Strings(files)
	return files, nil
}

// IsTemplate reports whether path contains the directive comment
func (f TemplateFinder) IsTemplate(path string) (bool, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return bytes.Contains(src, []byte("//"+f.Directive)), nil
}

func (f TemplateFinder) walk(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		if f.IsOutput != nil && f.IsOutput(path) {
			return nil
		}

		ok, err := f.IsTemplate(path)
		if err != nil {
			return err
		}
		if ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", root, err)
	}
	return files, nil
}
