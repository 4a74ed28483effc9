package stats

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/romanian-parlamint/future-tense-usage/internal/model"
)

// TopForms sums the per-form rows across all sessions and returns the n
// most used forms in descending order. Ties break on the form itself so
// the result is deterministic.
func TopForms(rows []model.FormRow, n int) []model.FormTotal {
	sums := make(map[string]int)
	for _, row := range rows {
		sums[row.Form] += row.Count
	}
	totals := make([]model.FormTotal, 0, len(sums))
	for form, count := range sums {
		totals = append(totals, model.FormTotal{Form: form, Count: count})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Count != totals[j].Count {
			return totals[i].Count > totals[j].Count
		}
		return totals[i].Form < totals[j].Form
	})
	if n > 0 && n < len(totals) {
		totals = totals[:n]
	}
	return totals
}

// SaveFormTotals writes aggregated form totals to a CSV file so the
// numbers behind a report can be reused elsewhere.
func SaveFormTotals(path string, totals []model.FormTotal) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create plot data file: %w", err)
	}
	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"Form", "Count"}); err != nil {
		file.Close()
		return fmt.Errorf("failed to write plot data file: %w", err)
	}
	for _, total := range totals {
		if err := writer.Write([]string{total.Form, strconv.Itoa(total.Count)}); err != nil {
			file.Close()
			return fmt.Errorf("failed to write plot data file: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return fmt.Errorf("failed to write plot data file: %w", err)
	}
	return file.Close()
}

// TopSpeakers sums the per-session rows by speaker and returns the n
// heaviest users of the tense in descending order. Sessions where the
// speaker was absent contribute nothing. When a roster is given, speaker
// IDs that match a deputy are reported under the deputy's name.
func TopSpeakers(rows []model.SessionRow, roster *Roster, n int) []model.SpeakerTotal {
	sums := make(map[string]int)
	for _, row := range rows {
		if row.Count == nil {
			continue
		}
		sums[row.Speaker] += *row.Count
	}
	totals := make([]model.SpeakerTotal, 0, len(sums))
	for speaker, count := range sums {
		total := model.SpeakerTotal{Speaker: speaker, Name: speaker, Count: count}
		if roster != nil {
			if name, ok := roster.ResolveName(speaker); ok {
				total.Name = name
			}
		}
		totals = append(totals, total)
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Count != totals[j].Count {
			return totals[i].Count > totals[j].Count
		}
		return totals[i].Speaker < totals[j].Speaker
	})
	if n > 0 && n < len(totals) {
		totals = totals[:n]
	}
	return totals
}
