package dictionary

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/trigedasleng/trigdict/pkg/db"
)

const (
	// ExampleLimit caps the example sentences of a word detail.
	ExampleLimit = 3
	// SearchLimit caps each result kind of a global search.
	SearchLimit = 20
	// MinSearchLength is the shortest query the global search runs.
	MinSearchLength = 2
)

func entriesOf(words []db.WordEntry) []Entry {
	out := make([]Entry, 0, len(words))
	for _, w := range words {
		out = append(out, FromWordEntry(w))
	}
	return out
}

// Load returns the entries of the dictionaries selected by scope.
func Load(conn db.DBExecutor, scope string) ([]Entry, error) {
	dicts, err := Scope(scope)
	if err != nil {
		return nil, err
	}
	words, err := db.ListWordEntries(conn, dicts...)
	if err != nil {
		return nil, fmt.Errorf("load dictionary: %w", err)
	}
	return entriesOf(words), nil
}

// Detail is everything shown for one spelling: an entry per dictionary
// holding it and a few sentences using it.
type Detail struct {
	Word     string
	Entries  []Entry
	Examples []db.SentenceEntry
}

// Lookup loads the detail of the exact spelling word. It returns
// db.ErrNotFound when no dictionary holds it.
func Lookup(conn db.DBExecutor, word string) (Detail, error) {
	word = strings.TrimSpace(word)
	words, err := db.WordEntriesByValue(conn, word)
	if err != nil {
		return Detail{}, fmt.Errorf("lookup %q: %w", word, err)
	}
	if len(words) == 0 {
		return Detail{}, fmt.Errorf("word %q: %w", word, db.ErrNotFound)
	}
	examples, err := db.SentencesContaining(conn, word, ExampleLimit)
	if err != nil {
		return Detail{}, fmt.Errorf("examples of %q: %w", word, err)
	}
	return Detail{Word: words[0].Value, Entries: entriesOf(words), Examples: examples}, nil
}

// Results holds the words and sentences found by a global search.
type Results struct {
	Query     string
	Words     []Entry
	Sentences []db.SentenceEntry
}

// Search looks q up across every word and sentence. Queries shorter than
// MinSearchLength return no results.
func Search(conn db.DBExecutor, q string) (Results, error) {
	q = strings.TrimSpace(q)
	res := Results{Query: q}
	if utf8.RuneCountInString(q) < MinSearchLength {
		return res, nil
	}
	words, err := db.SearchWordEntries(conn, q, SearchLimit)
	if err != nil {
		return res, fmt.Errorf("search words: %w", err)
	}
	res.Words = entriesOf(words)
	res.Sentences, err = db.SearchSentences(conn, q, SearchLimit)
	if err != nil {
		return res, fmt.Errorf("search sentences: %w", err)
	}
	return res, nil
}
