// Package store handles SQLite persistence of scraped conjugations.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/romanian-parlamint/future-tense-usage/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for the conjugation cache. The cache makes the
// scraper resumable: verbs already crawled are skipped on the next run and
// the reference CSV can be regenerated at any time.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS conjugations (
			id INTEGER PRIMARY KEY,
			verb TEXT NOT NULL,
			mood TEXT NOT NULL,
			position INTEGER NOT NULL,
			form TEXT NOT NULL,
			UNIQUE (verb, mood, position)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_conjugations_verb ON conjugations(verb);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// HasVerb reports whether conjugations for the verb are already cached.
func (s *Store) HasVerb(ctx context.Context, verb string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM conjugations WHERE verb = ?`, verb).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertVerbForms replaces the cached conjugations for one verb.
func (s *Store) InsertVerbForms(ctx context.Context, verb string, conjugations []model.Conjugation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM conjugations WHERE verb = ?`, verb); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO conjugations (verb, mood, position, form) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, c := range conjugations {
		if _, err = stmt.ExecContext(ctx, verb, c.Mood, c.Position, c.Text); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListConjugations returns all cached conjugations in insertion order.
func (s *Store) ListConjugations(ctx context.Context) ([]model.Conjugation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT verb, mood, position, form FROM conjugations ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.Conjugation
	for rows.Next() {
		var c model.Conjugation
		if err := rows.Scan(&c.Verb, &c.Mood, &c.Position, &c.Text); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CountVerbs returns the number of distinct cached verbs.
func (s *Store) CountVerbs(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT verb) FROM conjugations`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
