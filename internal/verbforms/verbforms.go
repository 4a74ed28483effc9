// Package verbforms loads the conjugated verb-forms reference table.
package verbforms

import (
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Column names of the verb-forms table.
const (
	ColumnFuture     = "Viitor"
	ColumnInfinitive = "Infinitiv"
)

type column struct {
	name     string
	required bool
}

// The expected schema, validated against the header at load time.
var schema = []column{
	{name: ColumnFuture, required: true},
	{name: ColumnInfinitive, required: true},
}

// Future-tense cells carry one conjugation per line, each prefixed by a
// pronoun marker ("eu voi merge", "tu vei merge", ...).
var pronounPrefix = regexp.MustCompile(`(?im)^\s*(eu|tu|el/ea|noi|voi|ei/ele)\s`)

// Table holds the verb-forms reference data, one entry per input row.
type Table struct {
	future     []string
	infinitive []string
}

// Load reads the verb-forms CSV and validates its schema. A missing
// required column is fatal.
func Load(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open verb forms file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only table.
			_ = cerr
		}
	}()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read verb forms file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("verb forms file is empty")
	}

	header := records[0]
	indices := make(map[string]int, len(schema))
	for _, col := range schema {
		idx := -1
		for i, name := range header {
			if strings.TrimSpace(name) == col.name {
				idx = i
				break
			}
		}
		if idx < 0 && col.required {
			return nil, fmt.Errorf("verb forms file is missing required column %q", col.name)
		}
		indices[col.name] = idx
	}

	table := &Table{}
	for _, record := range records[1:] {
		table.future = append(table.future, cellAt(record, indices[ColumnFuture]))
		table.infinitive = append(table.infinitive, cellAt(record, indices[ColumnInfinitive]))
	}
	return table, nil
}

func cellAt(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

// Len returns the number of rows in the table.
func (t *Table) Len() int {
	return len(t.future)
}

// FutureForms returns the future-tense forms with pronoun prefixes
// stripped from every line and surrounding whitespace trimmed. One entry
// per input row, order preserved; entries may be empty when the source
// cell was empty.
func (t *Table) FutureForms() []string {
	forms := make([]string, 0, len(t.future))
	for _, cell := range t.future {
		cleaned := pronounPrefix.ReplaceAllString(cell, "")
		forms = append(forms, strings.TrimSpace(cleaned))
	}
	return forms
}

// InfinitiveForms returns the trimmed non-empty infinitive forms.
func (t *Table) InfinitiveForms() []string {
	var forms []string
	for _, cell := range t.infinitive {
		form := strings.TrimSpace(cell)
		if form == "" {
			continue
		}
		forms = append(forms, form)
	}
	return forms
}
