package db

import (
	"database/sql"
	"time"
)

// Source is a provenance record for words and sentences. URL is its identity.
type Source struct {
	ID     string
	Title  sql.NullString
	Author sql.NullString
	Date   sql.NullTime
	URL    sql.NullString
}

// Word is a headword in exactly one dictionary.
type Word struct {
	ID            string
	Value         string
	Pronunciation sql.NullString
	DictionaryID  string
}

// Translation is a directed edge from one word to another, usually an English gloss.
type Translation struct {
	ID           string
	WordSourceID string
	WordTargetID string
	Etymology    sql.NullString
	IsApproved   bool
}

// Sentence is an example utterance. Sentences have no natural key.
type Sentence struct {
	ID              string
	DictionaryID    string
	SourceID        sql.NullString
	Value           string
	English         string
	Etymology       sql.NullString
	LeipzigGlossing sql.NullString
	Audio           sql.NullString
}

// Episode is one episode of a season; SeriesNumber is the episode within the season.
type Episode struct {
	ID           string
	SeasonID     string
	Value        string
	SeasonNumber int
	SeriesNumber int
}

// WordRequest is a community proposal for a new dictionary word.
type WordRequest struct {
	ID             string
	UserID         string
	Type           string
	Trigedasleng   string
	Translation    string
	Classification sql.NullString
	Etymology      sql.NullString
	Source         sql.NullString
	Status         string
	ApprovedBy     sql.NullString
	ApprovedAt     sql.NullTime
	DictionaryType sql.NullString
	CreatedAt      time.Time
	Score          int
}

// Vote is one user's +1/-1 on a word request.
type Vote struct {
	ID        string
	UserID    string
	RequestID string
	Value     int
}

// Comment is a note left on a word request.
type Comment struct {
	ID        string
	UserID    string
	RequestID string
	Content   string
	CreatedAt time.Time
}
