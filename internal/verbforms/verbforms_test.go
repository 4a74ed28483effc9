package verbforms

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTable(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "verb-forms.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write table: %v", err)
	}
	return path
}

func TestFutureFormsStripsPronounPrefixes(t *testing.T) {
	table, err := Load(writeTable(t,
		",Viitor,Infinitiv\n"+
			"0,eu voi merge,a merge\n"+
			"1,EL/EA va face,a face\n"+
			"2,\"  noi vom zice\",a zice\n"+
			"3,\"eu voi fi\ntu vei fi\",a fi\n"+
			"4,,\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got := table.FutureForms()
	want := []string{"voi merge", "va face", "vom zice", "voi fi\nvei fi", ""}
	if len(got) != len(want) {
		t.Fatalf("expected %d forms, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("form %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFutureFormsAllPronouns(t *testing.T) {
	table, err := Load(writeTable(t,
		"Viitor,Infinitiv\n"+
			"eu voi avea,a avea\n"+
			"tu vei avea,a avea\n"+
			"el/ea va avea,a avea\n"+
			"noi vom avea,a avea\n"+
			"voi veți avea,a avea\n"+
			"ei/ele vor avea,a avea\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []string{"voi avea", "vei avea", "va avea", "vom avea", "veți avea", "vor avea"}
	got := table.FutureForms()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("form %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestInfinitiveFormsSkipsEmptyCells(t *testing.T) {
	table, err := Load(writeTable(t,
		"Viitor,Infinitiv\n"+
			"eu voi merge,a merge\n"+
			"tu vei face,\n"+
			"noi vom zice,  a zice \n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got := table.InfinitiveForms()
	want := []string{"a merge", "a zice"}
	if len(got) != len(want) {
		t.Fatalf("expected %d infinitives, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("infinitive %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLoadMissingColumn(t *testing.T) {
	_, err := Load(writeTable(t, "Indicativ prezent,Infinitiv\nmerg,a merge\n"))
	if err == nil {
		t.Fatalf("expected error for missing column")
	}
	if got := err.Error(); !strings.Contains(got, "Viitor") {
		t.Fatalf("error should name the missing column, got %q", got)
	}
}
