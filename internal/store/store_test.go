package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/romanian-parlamint/future-tense-usage/internal/model"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "conjugations.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestInsertAndListConjugations(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	conjugations := []model.Conjugation{
		{Mood: "Infinitiv", Position: 0, Text: "a merge"},
		{Mood: "Viitor", Position: 0, Text: "eu voi merge"},
		{Mood: "Viitor", Position: 1, Text: "tu vei merge"},
	}
	if err := st.InsertVerbForms(ctx, "merge", conjugations); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := st.ListConjugations(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
	if got[0].Verb != "merge" || got[0].Mood != "Infinitiv" || got[0].Text != "a merge" {
		t.Fatalf("unexpected first row: %+v", got[0])
	}
	if got[2].Position != 1 || got[2].Text != "tu vei merge" {
		t.Fatalf("insertion order not preserved: %+v", got[2])
	}
}

func TestHasVerbSupportsResume(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	ok, err := st.HasVerb(ctx, "merge")
	if err != nil {
		t.Fatalf("has verb: %v", err)
	}
	if ok {
		t.Fatalf("verb should not be cached yet")
	}

	if err := st.InsertVerbForms(ctx, "merge", []model.Conjugation{
		{Mood: "Infinitiv", Position: 0, Text: "a merge"},
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	ok, err = st.HasVerb(ctx, "merge")
	if err != nil {
		t.Fatalf("has verb: %v", err)
	}
	if !ok {
		t.Fatalf("verb should be cached after insert")
	}

	count, err := st.CountVerbs(ctx)
	if err != nil {
		t.Fatalf("count verbs: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 verb, got %d", count)
	}
}

func TestInsertReplacesExistingVerb(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	if err := st.InsertVerbForms(ctx, "face", []model.Conjugation{
		{Mood: "Viitor", Position: 0, Text: "stale"},
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := st.InsertVerbForms(ctx, "face", []model.Conjugation{
		{Mood: "Viitor", Position: 0, Text: "eu voi face"},
		{Mood: "Viitor", Position: 1, Text: "tu vei face"},
	}); err != nil {
		t.Fatalf("reinsert: %v", err)
	}

	got, err := st.ListConjugations(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows after replace, got %d", len(got))
	}
	if got[0].Text != "eu voi face" {
		t.Fatalf("stale row survived replace: %+v", got[0])
	}
}
