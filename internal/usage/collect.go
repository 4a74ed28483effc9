// Package usage computes and aggregates verb-form usage statistics.
package usage

import (
	"strings"

	"github.com/romanian-parlamint/future-tense-usage/internal/corpus"
	"github.com/romanian-parlamint/future-tense-usage/internal/model"
)

// CountOccurrences counts occurrences of form in text. Matches are
// non-overlapping, scanned left to right (strings.Count semantics, the
// same as Python's str.count). An empty form counts once per rune plus
// one, so callers feeding extracted forms inherit the reference
// pipeline's unguarded behavior for empty cells.
func CountOccurrences(text, form string) int {
	return strings.Count(text, form)
}

// CollectSessionUsage counts total occurrences of the tracked forms per
// speaker for one session file. Every speaker who spoke gets an entry,
// zero-count speakers included.
func CollectSessionUsage(forms []string, path string) (model.SessionUsage, error) {
	session, err := corpus.ParseSession(path)
	if err != nil {
		return model.SessionUsage{}, err
	}
	counts := make(map[string]int)
	for _, u := range session.Utterances {
		acc := counts[u.Speaker]
		for _, form := range forms {
			acc += CountOccurrences(u.Text, form)
		}
		counts[u.Speaker] = acc
	}
	return model.SessionUsage{Date: session.Date, Counts: counts}, nil
}

// CollectFormUsage counts occurrences of each tracked form per speaker
// for one session file. Zero-count combinations are dropped; only
// observed (speaker, form) pairs are reported.
func CollectFormUsage(forms []string, path string) (model.FormUsage, error) {
	session, err := corpus.ParseSession(path)
	if err != nil {
		return model.FormUsage{}, err
	}
	totals := make(map[model.FormKey]int)
	for _, u := range session.Utterances {
		for _, form := range forms {
			key := model.FormKey{Speaker: u.Speaker, Form: form}
			totals[key] += CountOccurrences(u.Text, form)
		}
	}
	counts := make(map[model.FormKey]int, len(totals))
	for key, count := range totals {
		if count > 0 {
			counts[key] = count
		}
	}
	return model.FormUsage{Date: session.Date, Counts: counts}, nil
}
