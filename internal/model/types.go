// Package model defines shared data structures.
package model

import "time"

// DateLayout is the session date format used across the corpus and all
// statistics files.
const DateLayout = "2006-01-02"

// Utterance is one contiguous speaker turn within a session.
type Utterance struct {
	Speaker string
	Text    string
}

// Session is one parsed corpus file.
type Session struct {
	Date       time.Time
	Utterances []Utterance
}

// SessionUsage is the per-file partial result of per-session counting.
type SessionUsage struct {
	Date   time.Time
	Counts map[string]int
}

// FormKey identifies one (speaker, form) combination within a session.
type FormKey struct {
	Speaker string
	Form    string
}

// FormUsage is the per-file partial result of per-form counting.
// Counts holds only nonzero entries.
type FormUsage struct {
	Date   time.Time
	Counts map[FormKey]int
}

// SessionRow is one row of the per-session statistics file.
// Count is nil when the speaker has no record for that date.
type SessionRow struct {
	Speaker string
	Date    time.Time
	Count   *int
}

// FormRow is one row of the per-form statistics file.
type FormRow struct {
	Speaker string
	Date    time.Time
	Form    string
	Count   int
}

// Conjugation is one scraped cell of a conjugation table.
type Conjugation struct {
	Verb     string
	Mood     string
	Position int
	Text     string
}

// FormTotal is a per-form sum across the whole corpus.
type FormTotal struct {
	Form  string
	Count int
}

// SpeakerTotal is a per-speaker sum across the whole corpus.
// Name is the resolved readable name, or the raw ID when unresolved.
type SpeakerTotal struct {
	Speaker string
	Name    string
	Count   int
}
