// Package dictionary shapes store words into the entries the listings show
// and implements their search, class filter and letter grouping.
package dictionary

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/trigedasleng/trigdict/pkg/db"
	"github.com/trigedasleng/trigdict/pkg/migrate"
)

// ErrUnknownScope is returned for a dictionary scope that names no dictionary.
var ErrUnknownScope = errors.New("unknown dictionary scope")

// WordClasses are the class filters offered by the listings, "all" first.
var WordClasses = []string{
	"all", "noun", "pronoun", "verb", "adverb", "adjective",
	"conjunction", "preposition", "interjection", "auxiliary",
}

// Entry is one word as the dictionary listing displays it.
type Entry struct {
	ID              string
	Word            string
	Translation     string
	Etymology       string
	Filter          string
	Dictionary      string
	Classifications []string
}

// FromWordEntry builds the listing entry of a stored word. Only translations
// into English are shown; the first class prefixes them.
func FromWordEntry(w db.WordEntry) Entry {
	var english []string
	etymology := ""
	for _, t := range w.Targets {
		if t.Dictionary != migrate.English {
			continue
		}
		if len(english) == 0 && t.Etymology.Valid && !strings.EqualFold(strings.TrimSpace(t.Etymology.String), "unknown") {
			etymology = strings.TrimSpace(t.Etymology.String)
		}
		english = append(english, t.Value)
	}

	translation := strings.Join(english, ", ")
	if len(w.Classifications) > 0 {
		translation = w.Classifications[0] + ": " + translation
	}

	return Entry{
		ID:              w.ID,
		Word:            w.Value,
		Translation:     translation,
		Etymology:       etymology,
		Filter:          strings.ToLower(strings.TrimSpace(w.Dictionary + " " + strings.Join(w.Classifications, " "))),
		Dictionary:      w.Dictionary,
		Classifications: w.Classifications,
	}
}

// Noncanon reports whether the entry comes from a noncanon dictionary.
func (e Entry) Noncanon() bool {
	return strings.Contains(e.Filter, "noncanon")
}

// Scope maps a listing parameter to the dictionaries it shows. An empty
// parameter shows every dictionary except English.
func Scope(param string) ([]string, error) {
	switch strings.ToLower(strings.TrimSpace(param)) {
	case "":
		return []string{migrate.Trigedasleng, migrate.Slakgedasleng, migrate.NoncanonTrigedasleng}, nil
	case "canon":
		return []string{migrate.Trigedasleng}, nil
	case "slakkru", "slakgedasleng":
		return []string{migrate.Slakgedasleng}, nil
	case "noncanon":
		return []string{migrate.NoncanonTrigedasleng, migrate.Slakgedasleng}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScope, param)
}

func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Match reports whether e satisfies the search query q. Queries shorter than
// three characters must equal the word or the translation; longer ones only
// need to be contained in either. Comparison ignores case.
func Match(e Entry, q string) bool {
	q = fold(q)
	if q == "" {
		return true
	}
	word, translation := fold(e.Word), fold(e.Translation)
	if utf8.RuneCountInString(q) < 3 {
		return word == q || translation == q
	}
	return strings.Contains(word, q) || strings.Contains(translation, q)
}

// MatchClass reports whether e passes the word class filter.
func MatchClass(e Entry, class string) bool {
	class = strings.ToLower(strings.TrimSpace(class))
	return class == "" || class == "all" || strings.Contains(e.Filter, class)
}

// Filter keeps the entries matching both the query and the class, in order.
func Filter(entries []Entry, q, class string) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if Match(e, q) && MatchClass(e, class) {
			out = append(out, e)
		}
	}
	return out
}
