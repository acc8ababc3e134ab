package dictionary

import (
	"sort"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Section is a run of entries sharing the same uppercased first letter.
type Section struct {
	Letter  string
	Entries []Entry
}

// Group sorts entries alphabetically ignoring case, keeping the input order of
// equal words, and starts a new section whenever the leading letter changes.
func Group(entries []Entry) []Section {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)

	c := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(sorted, func(i, j int) bool {
		return c.CompareString(sorted[i].Word, sorted[j].Word) < 0
	})

	upper := cases.Upper(language.Und)
	var sections []Section
	for _, e := range sorted {
		letter := ""
		if _, size := utf8.DecodeRuneInString(e.Word); size > 0 {
			letter = upper.String(e.Word[:size])
		}
		if n := len(sections); n == 0 || sections[n-1].Letter != letter {
			sections = append(sections, Section{Letter: letter})
		}
		sections[len(sections)-1].Entries = append(sections[len(sections)-1].Entries, e)
	}
	return sections
}
