package usage

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/romanian-parlamint/future-tense-usage/internal/model"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(model.DateLayout, value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return parsed
}

func TestAggregateSessionUsageCartesianProduct(t *testing.T) {
	d1 := day(t, "2019-11-20")
	d2 := day(t, "2019-12-02")
	partials := []model.SessionUsage{
		{Date: d2, Counts: map[string]int{"#S2": 7}},
		{Date: d1, Counts: map[string]int{"#S1": 3}},
	}

	rows := AggregateSessionUsage(partials)
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d: %+v", len(rows), rows)
	}

	type flat struct {
		speaker string
		date    string
		count   int
		missing bool
	}
	got := make([]flat, len(rows))
	for i, row := range rows {
		f := flat{speaker: row.Speaker, date: row.Date.Format(model.DateLayout)}
		if row.Count == nil {
			f.missing = true
		} else {
			f.count = *row.Count
		}
		got[i] = f
	}
	want := []flat{
		{speaker: "#S1", date: "2019-11-20", count: 3},
		{speaker: "#S1", date: "2019-12-02", missing: true},
		{speaker: "#S2", date: "2019-11-20", missing: true},
		{speaker: "#S2", date: "2019-12-02", count: 7},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected rows:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestAggregateSessionUsageZeroIsNotMissing(t *testing.T) {
	d := day(t, "2019-12-02")
	rows := AggregateSessionUsage([]model.SessionUsage{
		{Date: d, Counts: map[string]int{"#A": 0}},
	})
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Count == nil || *rows[0].Count != 0 {
		t.Fatalf("zero-count speaker must be recorded as 0, got %+v", rows[0])
	}
}

func TestAggregateFormUsageFlattensAndSorts(t *testing.T) {
	d1 := day(t, "2019-11-20")
	d2 := day(t, "2019-12-02")
	partials := []model.FormUsage{
		{Date: d2, Counts: map[model.FormKey]int{
			{Speaker: "#B", Form: "vom zice"}: 2,
			{Speaker: "#A", Form: "vom vota"}: 5,
		}},
		{Date: d1, Counts: map[model.FormKey]int{
			{Speaker: "#A", Form: "vom merge"}: 1,
		}},
	}

	rows := AggregateFormUsage(partials)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Form != "vom merge" || rows[1].Form != "vom vota" || rows[2].Form != "vom zice" {
		t.Fatalf("rows not sorted by (date, speaker, form): %+v", rows)
	}
	for _, row := range rows {
		if row.Count == 0 {
			t.Fatalf("per-form output must never contain zero counts: %+v", row)
		}
	}
}

func TestAggregateIsDeterministic(t *testing.T) {
	d1 := day(t, "2019-11-20")
	d2 := day(t, "2019-12-02")
	partials := []model.SessionUsage{
		{Date: d1, Counts: map[string]int{"#C": 1, "#A": 2, "#B": 3}},
		{Date: d2, Counts: map[string]int{"#B": 4, "#A": 5}},
	}

	var first, second bytes.Buffer
	if err := WriteSessionUsage(&first, AggregateSessionUsage(partials)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := WriteSessionUsage(&second, AggregateSessionUsage(partials)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if first.String() != second.String() {
		t.Fatalf("aggregation output is not deterministic")
	}
}

func TestWriteSessionUsageFormat(t *testing.T) {
	d := day(t, "2019-12-02")
	three := 3
	rows := []model.SessionRow{
		{Speaker: "#A", Date: d, Count: &three},
		{Speaker: "#B", Date: d},
	}

	var buf bytes.Buffer
	if err := WriteSessionUsage(&buf, rows); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		",Speaker,Date,UsageCount",
		"0,#A,2019-12-02,3",
		"1,#B,2019-12-02,",
	}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("unexpected output:\ngot  %v\nwant %v", lines, want)
	}
}

func TestWriteFormUsageFormat(t *testing.T) {
	d := day(t, "2019-12-02")
	rows := []model.FormRow{
		{Speaker: "#A", Date: d, Form: "vom vota", Count: 5},
	}

	var buf bytes.Buffer
	if err := WriteFormUsage(&buf, rows); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		",Speaker,Date,Form,Count",
		"0,#A,2019-12-02,vom vota,5",
	}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("unexpected output:\ngot  %v\nwant %v", lines, want)
	}
}
