package scraper

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/romanian-parlamint/future-tense-usage/internal/model"
)

const conjugationPage = `<!DOCTYPE html>
<html><body>
<div id="content">
  <div class="box_conj">
    <b>Infinitiv</b>
    <div class="cont_conj"><a href="#">a merge</a></div>
  </div>
  <div class="box_conj">
    <b>Viitor</b>
    <div class="cont_conj">eu <span>voi merge</span></div>
    <div class="cont_conj">tu vei merge</div>
    <div class="cont_conj">-</div>
  </div>
</div>
</body></html>`

const notFoundPage = `<!DOCTYPE html>
<html><body><div id="content">Verbul nu a fost găsit.</div></body></html>`

func parseHTML(t *testing.T, page string) *html.Node {
	t.Helper()
	root, err := html.Parse(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return root
}

func TestParsePage(t *testing.T) {
	conjugations, err := ParsePage("merge", parseHTML(t, conjugationPage))
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	want := []model.Conjugation{
		{Verb: "merge", Mood: "Infinitiv", Position: 0, Text: "a merge"},
		{Verb: "merge", Mood: "Viitor", Position: 0, Text: "eu voi merge"},
		{Verb: "merge", Mood: "Viitor", Position: 1, Text: "tu vei merge"},
	}
	if !reflect.DeepEqual(conjugations, want) {
		t.Fatalf("unexpected conjugations:\ngot  %+v\nwant %+v", conjugations, want)
	}
}

func TestParsePageVerbNotFound(t *testing.T) {
	_, err := ParsePage("xyzzy", parseHTML(t, notFoundPage))
	if !errors.Is(err, ErrVerbNotFound) {
		t.Fatalf("expected ErrVerbNotFound, got %v", err)
	}
}

func TestFetchConjugations(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		_, _ = w.Write([]byte(conjugationPage))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	conjugations, err := client.FetchConjugations(context.Background(), "merge")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotPath != "/romana.php?conjugare=merge" {
		t.Fatalf("unexpected request path %q", gotPath)
	}
	if len(conjugations) != 3 {
		t.Fatalf("expected 3 conjugations, got %d", len(conjugations))
	}
}

func TestFetchConjugationsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.FetchConjugations(context.Background(), "merge"); err == nil {
		t.Fatalf("expected error for non-200 status")
	}
}

func TestLoadVerbs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verbs.csv")
	content := "verb;definitie\nmerge;a se deplasa\nface;a produce\nmerge;duplicat\n ; \n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write verbs file: %v", err)
	}

	verbs, err := LoadVerbs(path, ';')
	if err != nil {
		t.Fatalf("load verbs: %v", err)
	}
	want := []string{"merge", "face"}
	if !reflect.DeepEqual(verbs, want) {
		t.Fatalf("unexpected verbs: got %v, want %v", verbs, want)
	}
}

func TestExportCSV(t *testing.T) {
	conjugations := []model.Conjugation{
		{Verb: "merge", Mood: "Infinitiv", Position: 0, Text: "a merge"},
		{Verb: "merge", Mood: "Viitor", Position: 0, Text: "eu voi merge"},
		{Verb: "merge", Mood: "Viitor", Position: 1, Text: "tu vei merge"},
		{Verb: "face", Mood: "Infinitiv", Position: 0, Text: "a face"},
		{Verb: "face", Mood: "Viitor", Position: 0, Text: "eu voi face"},
	}

	var buf bytes.Buffer
	if err := ExportCSV(&buf, conjugations); err != nil {
		t.Fatalf("export: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		",Infinitiv,Viitor",
		"0,a merge,eu voi merge",
		"1,,tu vei merge",
		"0,a face,eu voi face",
	}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("unexpected export:\ngot  %v\nwant %v", lines, want)
	}
}
