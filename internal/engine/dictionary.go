// internal/engine/dictionary.go
package engine

import (
	"sort"

	"alcyxob/liftplan/internal/domain"
	"github.com/sahilm/fuzzy"
)

// AddDictionaryEntry inserts or replaces the display name for an exercise code.
func AddDictionaryEntry(plan domain.Plan, code, name string) (domain.Plan, error) {
	if code == "" {
		return domain.Plan{}, domain.InvalidArgument("add_dictionary_entry", "exercise code must not be empty")
	}
	out := plan.Clone()
	out.Dictionary[code] = name
	return out, nil
}

// RemoveDictionaryEntry deletes an exercise code. A missing code is not an
// error. Segments still referring to it show up in Validate.
func RemoveDictionaryEntry(plan domain.Plan, code string) domain.Plan {
	out := plan.Clone()
	delete(out.Dictionary, code)
	return out
}

// DictionaryMatch is one search hit.
type DictionaryMatch struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// dictionaryEntries adapts the dictionary to fuzzy.Source, matching on
// "code name".
type dictionaryEntries []DictionaryMatch

func (d dictionaryEntries) String(i int) string { return d[i].Code + " " + d[i].Name }
func (d dictionaryEntries) Len() int            { return len(d) }

// SearchDictionary ranks dictionary entries against query, best match first.
// An empty query lists every entry by code. limit <= 0 means no limit.
func SearchDictionary(plan domain.Plan, query string, limit int) []DictionaryMatch {
	entries := make(dictionaryEntries, 0, len(plan.Dictionary))
	for code, name := range plan.Dictionary {
		entries = append(entries, DictionaryMatch{Code: code, Name: name})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Code < entries[j].Code })

	var out []DictionaryMatch
	if query == "" {
		out = entries
	} else {
		out = []DictionaryMatch{}
		for _, m := range fuzzy.FindFrom(query, entries) {
			hit := entries[m.Index]
			hit.Score = m.Score
			out = append(out, hit)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
