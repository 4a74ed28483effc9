package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/romanian-parlamint/future-tense-usage/internal/model"
)

const (
	sparkChars  = " .:-=+*#%@"
	maxBarWidth = 40
	barChar     = "█"
)

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderTopForms prints the most used verb forms as an aligned table with
// a proportional bar per form.
func RenderTopForms(w io.Writer, totals []model.FormTotal) error {
	if len(totals) == 0 {
		_, err := fmt.Fprintln(w, "No verb forms found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Most Used Forms"); err != nil {
		return err
	}
	maxCount := totals[0].Count
	headers := []string{"#", "Form", "Count", ""}
	rows := make([][]string, 0, len(totals))
	for i, total := range totals {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			total.Form,
			strconv.Itoa(total.Count),
			barLine(total.Count, maxCount),
		})
	}
	return writeTable(w, headers, rows, map[int]bool{0: true, 2: true})
}

// RenderTopSpeakers prints the heaviest users of the tense as an aligned
// table with a proportional bar per speaker.
func RenderTopSpeakers(w io.Writer, totals []model.SpeakerTotal) error {
	if len(totals) == 0 {
		_, err := fmt.Fprintln(w, "No speakers found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Top Speakers"); err != nil {
		return err
	}
	maxCount := totals[0].Count
	headers := []string{"#", "Speaker", "Count", ""}
	rows := make([][]string, 0, len(totals))
	for i, total := range totals {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			total.Name,
			strconv.Itoa(total.Count),
			barLine(total.Count, maxCount),
		})
	}
	return writeTable(w, headers, rows, map[int]bool{0: true, 2: true})
}

func writeTable(w io.Writer, headers []string, rows [][]string, rightAlign map[int]bool) error {
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func barLine(count, maxCount int) string {
	if maxCount <= 0 || count <= 0 {
		return ""
	}
	width := count * maxBarWidth / maxCount
	if width < 1 {
		width = 1
	}
	return strings.Repeat(barChar, width)
}

// UsageSeries builds one usage-over-time series per requested speaker
// from the per-session rows. Sessions the speaker missed plot as zero.
// With no speakers given, a single corpus-wide series is returned.
func UsageSeries(rows []model.SessionRow, speakers []string) []Series {
	dates := sessionDates(rows)
	if len(dates) == 0 {
		return nil
	}
	dateIndex := make(map[time.Time]int, len(dates))
	for i, date := range dates {
		dateIndex[date] = i
	}

	if len(speakers) == 0 {
		values := make([]float64, len(dates))
		for _, row := range rows {
			if row.Count == nil {
				continue
			}
			values[dateIndex[row.Date]] += float64(*row.Count)
		}
		return []Series{{Name: "All speakers", Values: values}}
	}

	series := make([]Series, 0, len(speakers))
	for _, speaker := range speakers {
		values := make([]float64, len(dates))
		for _, row := range rows {
			if row.Speaker != speaker || row.Count == nil {
				continue
			}
			values[dateIndex[row.Date]] += float64(*row.Count)
		}
		series = append(series, Series{Name: speaker, Values: values})
	}
	return series
}

func sessionDates(rows []model.SessionRow) []time.Time {
	seen := make(map[time.Time]struct{})
	var dates []time.Time
	for _, row := range rows {
		if _, ok := seen[row.Date]; ok {
			continue
		}
		seen[row.Date] = struct{}{}
		dates = append(dates, row.Date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// RenderUsageCurves prints usage-over-time curves for the given speakers.
func RenderUsageCurves(w io.Writer, rows []model.SessionRow, speakers []string, window int) error {
	return RenderUsageCurvesWithSize(w, rows, speakers, window, 0, defaultPlotHeight, false)
}

// RenderUsageCurvesWithSize prints usage curves sized to a given total width.
func RenderUsageCurvesWithSize(w io.Writer, rows []model.SessionRow, speakers []string, window, totalWidth, height int, useColor bool) error {
	series := UsageSeries(rows, speakers)
	if len(series) == 0 {
		return nil
	}
	for i := range series {
		series[i].Values = MovingAverage(series[i].Values, window)
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Usage Over Time", series, width, height, useColor)
}
