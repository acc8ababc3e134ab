// Package sources lists the provenance records of the store and fills in
// their missing metadata from the pages they point to.
package sources

import (
	"fmt"

	"github.com/trigedasleng/trigdict/pkg/db"
)

// DateLayout is how source dates are displayed.
const DateLayout = "2006-01-02"

// Entry is one source as the listing displays it.
type Entry struct {
	ID     string
	Title  string
	Author string
	// Date is empty for undated sources.
	Date string
	URL  string
}

// FromSource builds the listing entry of a stored source.
func FromSource(s db.Source) Entry {
	e := Entry{ID: s.ID, Title: s.Title.String, Author: s.Author.String, URL: s.URL.String}
	if s.Date.Valid {
		e.Date = s.Date.Time.UTC().Format(DateLayout)
	}
	return e
}

// List returns every source, newest first, undated sources last.
func List(conn db.DBExecutor) ([]Entry, error) {
	srcs, err := db.ListSources(conn)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	out := make([]Entry, 0, len(srcs))
	for _, s := range srcs {
		out = append(out, FromSource(s))
	}
	return out, nil
}
