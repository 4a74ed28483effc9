// Package corpus enumerates and parses ParlaMint session files.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ListSessionFiles returns the per-session XML files that live next to the
// corpus root file, excluding the root itself and pre-annotated ".ana"
// variants. The result is sorted so downstream output is reproducible.
func ListSessionFiles(rootFile string) ([]string, error) {
	dir := filepath.Dir(rootFile)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus directory: %w", err)
	}

	rootName := filepath.Base(rootFile)
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".xml") {
			continue
		}
		if name == rootName {
			continue
		}
		if isAnnotated(name) {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}

// isAnnotated reports whether any dotted name segment marks the file as a
// pre-tagged variant (e.g. "ParlaMint-RO_2019-12-02.ana.xml").
func isAnnotated(name string) bool {
	parts := strings.Split(name, ".")
	for _, part := range parts[1:] {
		if part == "ana" {
			return true
		}
	}
	return false
}
