package db

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrMissingCapability is returned when the store lacks a collection an operation needs.
var ErrMissingCapability = errors.New("missing capability")

// Collection names a table of the store.
type Collection string

const (
	Dictionaries        Collection = "dictionaries"
	Classifications     Collection = "classifications"
	Sources             Collection = "sources"
	Series              Collection = "series"
	Seasons             Collection = "seasons"
	Episodes            Collection = "episodes"
	Speakers            Collection = "speakers"
	Words               Collection = "words"
	WordClassifications Collection = "word_classifications"
	Translations        Collection = "translations"
	Sentences           Collection = "sentences"
	EpisodeSentences    Collection = "episode_sentences"
	WordRequests        Collection = "word_requests"
	Votes               Collection = "votes"
	Comments            Collection = "comments"
)

// CoreCollections are required by migration and every listing.
var CoreCollections = []Collection{
	Dictionaries, Classifications, Sources, Series, Seasons, Episodes, Speakers,
	Words, WordClassifications, Translations, Sentences, EpisodeSentences,
}

// CommunityCollections back the word request workflow.
var CommunityCollections = []Collection{WordRequests, Votes, Comments}

// Known reports whether c is part of the schema this package manages.
func (c Collection) Known() bool {
	for _, k := range CoreCollections {
		if k == c {
			return true
		}
	}
	for _, k := range CommunityCollections {
		if k == c {
			return true
		}
	}
	return false
}

// Capabilities is the set of collections present in a store.
type Capabilities map[Collection]bool

// LoadCapabilities enumerates the tables present in the store.
func LoadCapabilities(db DBExecutor) (Capabilities, error) {
	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type = 'table'`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	caps := Capabilities{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		caps[Collection(name)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return caps, nil
}

// Has reports whether every collection is present.
func (c Capabilities) Has(cols ...Collection) bool {
	return len(c.missing(cols)) == 0
}

// Require returns ErrMissingCapability naming every absent collection.
func (c Capabilities) Require(cols ...Collection) error {
	missing := c.missing(cols)
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMissingCapability, strings.Join(missing, ", "))
}

// Names returns the present collections in sorted order.
func (c Capabilities) Names() []string {
	out := make([]string, 0, len(c))
	for name, ok := range c {
		if ok {
			out = append(out, string(name))
		}
	}
	sort.Strings(out)
	return out
}

func (c Capabilities) missing(cols []Collection) []string {
	var out []string
	for _, col := range cols {
		if !c[col] {
			out = append(out, string(col))
		}
	}
	return out
}
