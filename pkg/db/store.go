package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned by lookup-only queries when no row matches.
var ErrNotFound = errors.New("not found")

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// isUniqueConstraintErr returns true when the error indicates a unique/constraint violation
func isUniqueConstraintErr(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "unique") || strings.Contains(s, "constraint failed")
}

// findOrCreate selects an id with find, inserting a new uuid row with insert when
// nothing matches. A concurrent insert of the same key retries the select.
func findOrCreate(db DBExecutor, find string, findArgs []interface{}, insert string, insertArgs func(id string) []interface{}) (string, bool, error) {
	const maxRetries = 3

	for attempt := 0; attempt < maxRetries; attempt++ {
		var id string
		err := db.QueryRow(find, findArgs...).Scan(&id)
		if err == nil {
			return id, false, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return "", false, err
		}

		id = uuid.NewString()
		if _, err := db.Exec(insert, insertArgs(id)...); err != nil {
			if isUniqueConstraintErr(err) {
				continue
			}
			return "", false, err
		}
		return id, true, nil
	}

	return "", false, fmt.Errorf("could not create or get record after %d retries", maxRetries)
}

func byValue(db DBExecutor, table, value string) (string, bool, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", false, fmt.Errorf("%s value must be non-empty", table)
	}
	return findOrCreate(db,
		`SELECT id FROM `+table+` WHERE value = ?`, []interface{}{trimmed},
		`INSERT INTO `+table+` (id, value) VALUES (?, ?)`,
		func(id string) []interface{} { return []interface{}{id, trimmed} },
	)
}

// CreateOrGetDictionary returns the id of the dictionary named value, creating it if missing.
func CreateOrGetDictionary(db DBExecutor, value string) (string, error) {
	id, _, err := byValue(db, "dictionaries", value)
	return id, err
}

// CreateOrGetClassification returns the id of the word class named value, creating it if missing.
func CreateOrGetClassification(db DBExecutor, value string) (string, error) {
	id, _, err := byValue(db, "classifications", value)
	return id, err
}

// CreateOrGetSeries returns the id of the series named value, creating it if missing.
func CreateOrGetSeries(db DBExecutor, value string) (string, error) {
	id, _, err := byValue(db, "series", value)
	return id, err
}

// FindDictionary looks up a dictionary by name without creating it.
func FindDictionary(db DBExecutor, value string) (string, error) {
	return findID(db, `SELECT id FROM dictionaries WHERE value = ?`, value)
}

// FindClassification looks up a word class by name without creating it.
func FindClassification(db DBExecutor, value string) (string, error) {
	return findID(db, `SELECT id FROM classifications WHERE value = ?`, value)
}

func findID(db DBExecutor, query string, args ...interface{}) (string, error) {
	var id string
	err := db.QueryRow(query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return id, err
}

// CreateOrGetSeason returns the id of season number within a series.
func CreateOrGetSeason(db DBExecutor, seriesID string, number int) (string, error) {
	if number <= 0 {
		return "", fmt.Errorf("season number must be positive, got %d", number)
	}
	id, _, err := findOrCreate(db,
		`SELECT id FROM seasons WHERE series_id = ? AND season_number = ?`, []interface{}{seriesID, number},
		`INSERT INTO seasons (id, series_id, season_number) VALUES (?, ?, ?)`,
		func(id string) []interface{} { return []interface{}{id, seriesID, number} },
	)
	return id, err
}

// EpisodeLabel formats the display label of an episode, e.g. S02E05.
func EpisodeLabel(season, episode int) string {
	return fmt.Sprintf("S%dE%02d", season, episode)
}

// CreateOrGetEpisode returns the id of episode within a season and whether it was created.
func CreateOrGetEpisode(db DBExecutor, seasonID string, season, episode int) (string, bool, error) {
	if episode <= 0 {
		return "", false, fmt.Errorf("episode number must be positive, got %d", episode)
	}
	return findOrCreate(db,
		`SELECT id FROM episodes WHERE season_id = ? AND season_number = ? AND series_number = ?`,
		[]interface{}{seasonID, season, episode},
		`INSERT INTO episodes (id, season_id, value, season_number, series_number) VALUES (?, ?, ?, ?, ?)`,
		func(id string) []interface{} {
			return []interface{}{id, seasonID, EpisodeLabel(season, episode), season, episode}
		},
	)
}

// CreateOrGetSpeaker returns the id of a named speaker in a series.
func CreateOrGetSpeaker(db DBExecutor, seriesID, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("speaker must be non-empty")
	}
	id, _, err := findOrCreate(db,
		`SELECT id FROM speakers WHERE value = ? AND series_id = ?`, []interface{}{trimmed, seriesID},
		`INSERT INTO speakers (id, value, series_id) VALUES (?, ?, ?)`,
		func(id string) []interface{} { return []interface{}{id, trimmed, seriesID} },
	)
	return id, err
}

// CreateOrGetSource returns the id of the source identified by its url and
// whether it was created. Title, author and date are only written on creation.
func CreateOrGetSource(db DBExecutor, s Source) (string, bool, error) {
	return findOrCreate(db,
		`SELECT id FROM sources WHERE url IS ?`, []interface{}{s.URL},
		`INSERT INTO sources (id, title, author, date, url) VALUES (?, ?, ?, ?, ?)`,
		func(id string) []interface{} { return []interface{}{id, s.Title, s.Author, s.Date, s.URL} },
	)
}

// FindSourceByURL looks up a source without creating it.
func FindSourceByURL(db DBExecutor, url sql.NullString) (string, error) {
	return findID(db, `SELECT id FROM sources WHERE url IS ?`, url)
}

// UpdateSourceMetadata fills a missing title and author. Columns that already
// hold a value, and empty arguments, leave the source untouched. It reports
// whether a column changed.
func UpdateSourceMetadata(db DBExecutor, id, title, author string) (bool, error) {
	res, err := db.Exec(`UPDATE sources SET
		title = COALESCE(NULLIF(title, ''), NULLIF(?, ''), title),
		author = COALESCE(NULLIF(author, ''), NULLIF(?, ''), author)
		WHERE id = ?
		AND ((COALESCE(title, '') = '' AND ? != '') OR (COALESCE(author, '') = '' AND ? != ''))`,
		title, author, id, title, author)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// CreateOrGetWord returns the id of value in the dictionary and whether it was created.
func CreateOrGetWord(db DBExecutor, value, dictionaryID string) (string, bool, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", false, fmt.Errorf("word must be non-empty")
	}
	return findOrCreate(db,
		`SELECT id FROM words WHERE value = ? AND dictionary_id = ?`, []interface{}{trimmed, dictionaryID},
		`INSERT INTO words (id, value, dictionary_id) VALUES (?, ?, ?)`,
		func(id string) []interface{} { return []interface{}{id, trimmed, dictionaryID} },
	)
}

// LinkWordClassification attaches a word class to a word. It reports false when
// the link already existed.
func LinkWordClassification(db DBExecutor, wordID, classificationID string) (bool, error) {
	res, err := db.Exec(`INSERT OR IGNORE INTO word_classifications (word_id, classification_id) VALUES (?, ?)`,
		wordID, classificationID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateOrGetTranslation returns the id of the edge from t.WordSourceID to
// t.WordTargetID and whether it was created. Etymology and approval are
// only set when the edge is new.
func CreateOrGetTranslation(db DBExecutor, t Translation) (string, bool, error) {
	return findOrCreate(db,
		`SELECT id FROM translations WHERE word_source_id = ? AND word_target_id = ?`,
		[]interface{}{t.WordSourceID, t.WordTargetID},
		`INSERT INTO translations (id, word_source_id, word_target_id, etymology, is_approved) VALUES (?, ?, ?, ?, ?)`,
		func(id string) []interface{} {
			return []interface{}{id, t.WordSourceID, t.WordTargetID, t.Etymology, t.IsApproved}
		},
	)
}

// CreateSentence inserts a new sentence. Sentences have no natural key, so every
// call creates a row.
func CreateSentence(db DBExecutor, s Sentence) (string, error) {
	id := uuid.NewString()
	_, err := db.Exec(`INSERT INTO sentences (id, dictionary_id, source_id, value, english, etymology, leipzig_glossing, audio)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, s.DictionaryID, s.SourceID, s.Value, s.English, s.Etymology, s.LeipzigGlossing, s.Audio)
	if err != nil {
		return "", fmt.Errorf("insert sentence: %w", err)
	}
	return id, nil
}

// FindSentence returns a sentence with the same dictionary, text, english and source.
func FindSentence(db DBExecutor, s Sentence) (string, error) {
	return findID(db, `SELECT id FROM sentences
		WHERE dictionary_id = ? AND value = ? AND english = ? AND source_id IS ?
		ORDER BY created_at LIMIT 1`,
		s.DictionaryID, s.Value, s.English, s.SourceID)
}

// FindSentenceByText returns any sentence with the given text and english.
func FindSentenceByText(db DBExecutor, value, english string) (string, error) {
	return findID(db, `SELECT id FROM sentences WHERE value = ? AND english = ? LIMIT 1`, value, english)
}

// LinkEpisodeSentence ties a sentence to the episode it was spoken in. It
// reports false when the link already existed.
func LinkEpisodeSentence(db DBExecutor, episodeID, sentenceID string, speakerID sql.NullString) (bool, error) {
	res, err := db.Exec(`INSERT OR IGNORE INTO episode_sentences (id, episode_id, sentence_id, speaker_id) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), episodeID, sentenceID, speakerID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountRows returns the number of rows in a known collection.
func CountRows(db DBExecutor, c Collection) (int, error) {
	if !c.Known() {
		return 0, fmt.Errorf("unknown collection %q", c)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM ` + string(c)).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
