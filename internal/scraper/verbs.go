package scraper

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// LoadVerbs reads the verb list from a delimited file, keeping the first
// column, skipping the header row, and dropping duplicates while
// preserving first-seen order.
func LoadVerbs(path string, delimiter rune) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open verbs file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only verb list.
			_ = cerr
		}
	}()

	reader := csv.NewReader(file)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read verbs file: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("verbs file has no entries")
	}

	seen := make(map[string]struct{})
	var verbs []string
	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		verb := strings.TrimSpace(record[0])
		if verb == "" {
			continue
		}
		if _, ok := seen[verb]; ok {
			continue
		}
		seen[verb] = struct{}{}
		verbs = append(verbs, verb)
	}
	if len(verbs) == 0 {
		return nil, fmt.Errorf("verbs file has no entries")
	}
	return verbs, nil
}
