package stats

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/romanian-parlamint/future-tense-usage/internal/model"
)

func writeStatisticsFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadSessionUsage(t *testing.T) {
	path := writeStatisticsFile(t, "sessions.csv",
		",Speaker,Date,UsageCount\n"+
			"0,#PopescuIon,2019-12-02,3\n"+
			"1,#PopescuIon,2019-12-09,\n"+
			"2,#VasilescuAna,2019-12-02,0\n")

	rows, err := LoadSessionUsage(path)
	if err != nil {
		t.Fatalf("LoadSessionUsage failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Speaker != "#PopescuIon" || rows[0].Count == nil || *rows[0].Count != 3 {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Count != nil {
		t.Fatalf("expected empty cell to load as missing, got %d", *rows[1].Count)
	}
	if rows[2].Count == nil || *rows[2].Count != 0 {
		t.Fatalf("expected zero count to stay zero, got %+v", rows[2])
	}
	wantDate, _ := time.Parse(model.DateLayout, "2019-12-09")
	if !rows[1].Date.Equal(wantDate) {
		t.Fatalf("unexpected date: %v", rows[1].Date)
	}
}

func TestLoadFormUsage(t *testing.T) {
	path := writeStatisticsFile(t, "forms.csv",
		",Speaker,Date,Form,Count\n"+
			"0,#PopescuIon,2019-12-02,va vota,2\n"+
			"1,#VasilescuAna,2019-12-02,vom vedea,1\n")

	rows, err := LoadFormUsage(path)
	if err != nil {
		t.Fatalf("LoadFormUsage failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Form != "va vota" || rows[0].Count != 2 {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
}

func TestLoadSessionUsageMissingColumn(t *testing.T) {
	path := writeStatisticsFile(t, "bad.csv", ",Speaker,Date\n0,#X,2019-12-02\n")
	if _, err := LoadSessionUsage(path); err == nil {
		t.Fatalf("expected error for missing column")
	}
}
