package usage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/romanian-parlamint/future-tense-usage/internal/model"
)

// AggregateSessionUsage folds per-file partial results into one row per
// (speaker, date) pair of the full Cartesian product. A speaker without a
// record for a date gets a nil count (did not speak that session), which
// is distinct from a zero count (spoke, no tracked forms used). Speakers
// are sorted lexically and dates chronologically so the output is
// deterministic.
func AggregateSessionUsage(partials []model.SessionUsage) []model.SessionRow {
	byDate := make(map[time.Time]map[string]int, len(partials))
	speakerSet := make(map[string]struct{})
	for _, partial := range partials {
		byDate[partial.Date] = partial.Counts
		for speaker := range partial.Counts {
			speakerSet[speaker] = struct{}{}
		}
	}

	speakers := make([]string, 0, len(speakerSet))
	for speaker := range speakerSet {
		speakers = append(speakers, speaker)
	}
	sort.Strings(speakers)

	dates := make([]time.Time, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	rows := make([]model.SessionRow, 0, len(speakers)*len(dates))
	for _, speaker := range speakers {
		for _, date := range dates {
			row := model.SessionRow{Speaker: speaker, Date: date}
			if count, ok := byDate[date][speaker]; ok {
				c := count
				row.Count = &c
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// AggregateFormUsage flattens per-file partial results into one row per
// observed (speaker, date, form) combination. No missing-value filling is
// performed; zero-count rows never appear by construction of the
// collector. Rows are sorted by (date, speaker, form).
func AggregateFormUsage(partials []model.FormUsage) []model.FormRow {
	var rows []model.FormRow
	for _, partial := range partials {
		for key, count := range partial.Counts {
			rows = append(rows, model.FormRow{
				Speaker: key.Speaker,
				Date:    partial.Date,
				Form:    key.Form,
				Count:   count,
			})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		if rows[i].Speaker != rows[j].Speaker {
			return rows[i].Speaker < rows[j].Speaker
		}
		return rows[i].Form < rows[j].Form
	})
	return rows
}

// WriteSessionUsage writes per-session rows as delimited text with a
// leading synthetic row index.
func WriteSessionUsage(w io.Writer, rows []model.SessionRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"", "Speaker", "Date", "UsageCount"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range rows {
		count := ""
		if row.Count != nil {
			count = strconv.Itoa(*row.Count)
		}
		record := []string{strconv.Itoa(i), row.Speaker, row.Date.Format(model.DateLayout), count}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteFormUsage writes per-form rows as delimited text with a leading
// synthetic row index.
func WriteFormUsage(w io.Writer, rows []model.FormRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"", "Speaker", "Date", "Form", "Count"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range rows {
		record := []string{
			strconv.Itoa(i),
			row.Speaker,
			row.Date.Format(model.DateLayout),
			row.Form,
			strconv.Itoa(row.Count),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// SaveSessionUsage writes per-session rows to a file.
func SaveSessionUsage(path string, rows []model.SessionRow) error {
	return saveCSV(path, func(w io.Writer) error { return WriteSessionUsage(w, rows) })
}

// SaveFormUsage writes per-form rows to a file.
func SaveFormUsage(path string, rows []model.FormRow) error {
	return saveCSV(path, func(w io.Writer) error { return WriteFormUsage(w, rows) })
}

func saveCSV(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create statistics file: %w", err)
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close statistics file: %w", err)
	}
	return nil
}
