package scraper

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/romanian-parlamint/future-tense-usage/internal/model"
)

// ExportCSV pivots conjugation rows into the reference table: one column
// per mood/tense name, one block of rows per verb, each block padded to
// its longest column, with a leading synthetic row index that restarts
// per block. Column order and block order follow first appearance.
func ExportCSV(w io.Writer, conjugations []model.Conjugation) error {
	var moods []string
	moodIndex := make(map[string]int)
	var verbs []string
	blocks := make(map[string]map[string][]string)

	for _, c := range conjugations {
		if _, ok := moodIndex[c.Mood]; !ok {
			moodIndex[c.Mood] = len(moods)
			moods = append(moods, c.Mood)
		}
		block, ok := blocks[c.Verb]
		if !ok {
			block = make(map[string][]string)
			blocks[c.Verb] = block
			verbs = append(verbs, c.Verb)
		}
		block[c.Mood] = append(block[c.Mood], c.Text)
	}

	writer := csv.NewWriter(w)
	header := append([]string{""}, moods...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, verb := range verbs {
		block := blocks[verb]
		height := 0
		for _, forms := range block {
			if len(forms) > height {
				height = len(forms)
			}
		}
		for row := 0; row < height; row++ {
			record := make([]string, 0, len(moods)+1)
			record = append(record, strconv.Itoa(row))
			for _, mood := range moods {
				forms := block[mood]
				if row < len(forms) {
					record = append(record, forms[row])
				} else {
					record = append(record, "")
				}
			}
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("failed to write row for %s: %w", verb, err)
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// SaveCSV writes the pivoted conjugation table to a file.
func SaveCSV(path string, conjugations []model.Conjugation) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := ExportCSV(file, conjugations); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}
