package stats

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// RosterEntry is one deputy of one legislature.
type RosterEntry struct {
	Name      string
	Party     string
	TermStart int
	TermEnd   int
}

// Roster resolves corpus speaker IDs to deputy names. Both IDs and names
// are reduced to a set of lowercase name parts; an ID matches a deputy
// when the two sets are equal, so the ordering differences between the
// corpus IDs and the roster spelling do not matter.
type Roster struct {
	entries []RosterEntry
	parts   []map[string]struct{}
}

var termPattern = regexp.MustCompile(`(\d{4})-(\d{4})`)

// LoadRoster reads every legislature CSV in dir. File names carry the
// term as YYYY-YYYY; each file has a header row followed by name,party
// records.
func LoadRoster(dir string) (*Roster, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read legislature directory: %w", err)
	}
	var files []string
	for _, entry := range dirEntries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	roster := &Roster{}
	for _, name := range files {
		if err := roster.loadLegislature(dir, name); err != nil {
			return nil, err
		}
	}
	return roster, nil
}

func (r *Roster) loadLegislature(dir, name string) error {
	match := termPattern.FindStringSubmatch(name)
	if match == nil {
		return fmt.Errorf("legislature file %s has no term in its name", name)
	}
	start, end := atoiDigits(match[1]), atoiDigits(match[2])

	file, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("failed to open legislature file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read legislature file %s: %w", name, err)
	}
	if len(records) < 2 {
		return nil
	}
	for _, record := range records[1:] {
		entry := RosterEntry{
			Name:      strings.TrimSpace(cell(record, 0)),
			Party:     strings.TrimSpace(cell(record, 1)),
			TermStart: start,
			TermEnd:   end,
		}
		if entry.Name == "" {
			continue
		}
		r.entries = append(r.entries, entry)
		r.parts = append(r.parts, NameParts(entry.Name))
	}
	return nil
}

// Entries returns the loaded deputies in file order.
func (r *Roster) Entries() []RosterEntry {
	return r.entries
}

// ResolveName returns the deputy name matching the given speaker ID. The
// first matching deputy wins when legislatures overlap.
func (r *Roster) ResolveName(speakerID string) (string, bool) {
	target := NameParts(speakerID)
	for i, parts := range r.parts {
		if samePartSet(target, parts) {
			return r.entries[i].Name, true
		}
	}
	return "", false
}

var nameFolder = strings.NewReplacer(
	"#", "",
	"Ș", "s", "ș", "s", "Ş", "s", "ş", "s",
	"Ț", "t", "ț", "t", "Ţ", "t", "ţ", "t",
	"-", " ",
)

// NameParts reduces a speaker ID or deputy name to its set of name parts.
// Cedilla and comma-below variants of ș and ț fold to plain letters and
// hyphens split double names, so the corpus spelling of an ID and the
// roster spelling of a name reduce to the same set.
func NameParts(name string) map[string]struct{} {
	folded := strings.ToLower(nameFolder.Replace(name))
	parts := make(map[string]struct{})
	for _, part := range strings.Fields(folded) {
		parts[part] = struct{}{}
	}
	return parts
}

func samePartSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for part := range a {
		if _, ok := b[part]; !ok {
			return false
		}
	}
	return true
}

func atoiDigits(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
