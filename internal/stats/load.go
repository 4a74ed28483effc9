// Package stats loads aggregated statistics files and renders reports.
package stats

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/romanian-parlamint/future-tense-usage/internal/model"
)

// LoadSessionUsage reads a per-session statistics file back into rows.
// The leading synthetic index column is ignored; an empty UsageCount cell
// becomes a nil count.
func LoadSessionUsage(path string) ([]model.SessionRow, error) {
	records, header, err := readStatistics(path, []string{"Speaker", "Date", "UsageCount"})
	if err != nil {
		return nil, err
	}
	rows := make([]model.SessionRow, 0, len(records))
	for i, record := range records {
		row := model.SessionRow{Speaker: cell(record, header["Speaker"])}
		row.Date, err = time.Parse(model.DateLayout, cell(record, header["Date"]))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: malformed date: %w", path, i+1, err)
		}
		if raw := cell(record, header["UsageCount"]); raw != "" {
			count, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("%s row %d: malformed count: %w", path, i+1, err)
			}
			row.Count = &count
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadFormUsage reads a per-form statistics file back into rows.
func LoadFormUsage(path string) ([]model.FormRow, error) {
	records, header, err := readStatistics(path, []string{"Speaker", "Date", "Form", "Count"})
	if err != nil {
		return nil, err
	}
	rows := make([]model.FormRow, 0, len(records))
	for i, record := range records {
		row := model.FormRow{
			Speaker: cell(record, header["Speaker"]),
			Form:    cell(record, header["Form"]),
		}
		row.Date, err = time.Parse(model.DateLayout, cell(record, header["Date"]))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: malformed date: %w", path, i+1, err)
		}
		row.Count, err = strconv.Atoi(cell(record, header["Count"]))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: malformed count: %w", path, i+1, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readStatistics(path string, columns []string) ([][]string, map[string]int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open statistics file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read statistics file: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("statistics file %s is empty", path)
	}

	header := make(map[string]int, len(columns))
	for _, name := range columns {
		idx := -1
		for i, field := range records[0] {
			if strings.TrimSpace(field) == name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, nil, fmt.Errorf("statistics file %s is missing column %q", path, name)
		}
		header[name] = idx
	}
	return records[1:], header, nil
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}
