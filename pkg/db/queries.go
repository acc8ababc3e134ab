package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// WordTarget is one translation edge seen from its source word.
type WordTarget struct {
	Value      string
	Dictionary string
	Etymology  sql.NullString
}

// WordEntry is a word with everything the listings need to display it.
type WordEntry struct {
	ID              string
	Value           string
	Dictionary      string
	Classifications []string
	Targets         []WordTarget
}

// SentenceEntry is a sentence with the first episode it is linked to, if any.
type SentenceEntry struct {
	ID              string
	Value           string
	English         string
	Etymology       sql.NullString
	LeipzigGlossing sql.NullString
	Audio           sql.NullString
	SourceID        sql.NullString
	SeasonNumber    sql.NullInt64
	EpisodeNumber   sql.NullInt64
}

// ListWordEntries loads the words of the named dictionaries ordered by value.
// With no names every dictionary is loaded.
func ListWordEntries(db DBExecutor, dictionaries ...string) ([]WordEntry, error) {
	if len(dictionaries) == 0 {
		return loadWordEntries(db, "1 = 1", 0)
	}
	args := make([]interface{}, len(dictionaries))
	for i, d := range dictionaries {
		args[i] = d
	}
	return loadWordEntries(db, "d.value IN ("+placeholders(len(dictionaries))+")", 0, args...)
}

// WordEntriesByValue loads every word spelled exactly value, across dictionaries.
func WordEntriesByValue(db DBExecutor, value string) ([]WordEntry, error) {
	return loadWordEntries(db, "w.value = ?", 0, value)
}

// SearchWordEntries loads up to limit words whose value contains q.
func SearchWordEntries(db DBExecutor, q string, limit int) ([]WordEntry, error) {
	return loadWordEntries(db, "w.value LIKE ? ESCAPE '\\'", limit, likePattern(q))
}

func loadWordEntries(db DBExecutor, where string, limit int, args ...interface{}) ([]WordEntry, error) {
	q := `SELECT w.id, w.value, d.value FROM words w
		JOIN dictionaries d ON d.id = w.dictionary_id
		WHERE ` + where + ` ORDER BY w.value, w.rowid`
	if limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query words: %w", err)
	}
	var out []WordEntry
	index := map[string]int{}
	for rows.Next() {
		var e WordEntry
		if err := rows.Scan(&e.ID, &e.Value, &e.Dictionary); err != nil {
			rows.Close()
			return nil, err
		}
		index[e.ID] = len(out)
		out = append(out, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	rows, err = db.Query(`SELECT wc.word_id, c.value FROM word_classifications wc
		JOIN classifications c ON c.id = wc.classification_id
		JOIN words w ON w.id = wc.word_id
		JOIN dictionaries d ON d.id = w.dictionary_id
		WHERE `+where+` ORDER BY wc.rowid`, args...)
	if err != nil {
		return nil, fmt.Errorf("query classifications: %w", err)
	}
	for rows.Next() {
		var wordID, class string
		if err := rows.Scan(&wordID, &class); err != nil {
			rows.Close()
			return nil, err
		}
		if i, ok := index[wordID]; ok {
			out[i].Classifications = append(out[i].Classifications, class)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = db.Query(`SELECT t.word_source_id, tw.value, td.value, t.etymology FROM translations t
		JOIN words tw ON tw.id = t.word_target_id
		JOIN dictionaries td ON td.id = tw.dictionary_id
		JOIN words w ON w.id = t.word_source_id
		JOIN dictionaries d ON d.id = w.dictionary_id
		WHERE `+where+` ORDER BY t.rowid`, args...)
	if err != nil {
		return nil, fmt.Errorf("query translations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var wordID string
		var t WordTarget
		if err := rows.Scan(&wordID, &t.Value, &t.Dictionary, &t.Etymology); err != nil {
			return nil, err
		}
		if i, ok := index[wordID]; ok {
			out[i].Targets = append(out[i].Targets, t)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

const sentenceColumns = `s.id, s.value, s.english, s.etymology, s.leipzig_glossing, s.audio, s.source_id,
	(SELECT e.season_number FROM episode_sentences es JOIN episodes e ON e.id = es.episode_id
		WHERE es.sentence_id = s.id ORDER BY e.season_number, e.series_number LIMIT 1),
	(SELECT e.series_number FROM episode_sentences es JOIN episodes e ON e.id = es.episode_id
		WHERE es.sentence_id = s.id ORDER BY e.season_number, e.series_number LIMIT 1)`

// ListSentences loads every sentence in insertion order.
func ListSentences(db DBExecutor) ([]SentenceEntry, error) {
	return loadSentences(db, `SELECT `+sentenceColumns+` FROM sentences s ORDER BY s.created_at, s.rowid`)
}

// SentencesContaining loads up to limit sentences whose text contains q.
func SentencesContaining(db DBExecutor, q string, limit int) ([]SentenceEntry, error) {
	return loadSentences(db, `SELECT `+sentenceColumns+` FROM sentences s
		WHERE s.value LIKE ? ESCAPE '\' ORDER BY s.rowid LIMIT ?`, likePattern(q), limit)
}

// SearchSentences loads up to limit sentences whose text or english contains q.
func SearchSentences(db DBExecutor, q string, limit int) ([]SentenceEntry, error) {
	p := likePattern(q)
	return loadSentences(db, `SELECT `+sentenceColumns+` FROM sentences s
		WHERE s.value LIKE ? ESCAPE '\' OR s.english LIKE ? ESCAPE '\' ORDER BY s.rowid LIMIT ?`, p, p, limit)
}

// GetSentence loads one sentence by id.
func GetSentence(db DBExecutor, id string) (SentenceEntry, error) {
	out, err := loadSentences(db, `SELECT `+sentenceColumns+` FROM sentences s WHERE s.id = ?`, id)
	if err != nil {
		return SentenceEntry{}, err
	}
	if len(out) == 0 {
		return SentenceEntry{}, ErrNotFound
	}
	return out[0], nil
}

func loadSentences(db DBExecutor, query string, args ...interface{}) ([]SentenceEntry, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sentences: %w", err)
	}
	defer rows.Close()
	var out []SentenceEntry
	for rows.Next() {
		var s SentenceEntry
		if err := rows.Scan(&s.ID, &s.Value, &s.English, &s.Etymology, &s.LeipzigGlossing, &s.Audio,
			&s.SourceID, &s.SeasonNumber, &s.EpisodeNumber); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEpisodes loads every episode ordered by season then episode number.
func ListEpisodes(db DBExecutor) ([]Episode, error) {
	rows, err := db.Query(`SELECT id, season_id, value, season_number, series_number FROM episodes
		ORDER BY season_number, series_number`)
	if err != nil {
		return nil, fmt.Errorf("query episodes: %w", err)
	}
	defer rows.Close()
	var out []Episode
	for rows.Next() {
		var e Episode
		if err := rows.Scan(&e.ID, &e.SeasonID, &e.Value, &e.SeasonNumber, &e.SeriesNumber); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListSources loads every source, newest first with undated sources last.
func ListSources(db DBExecutor) ([]Source, error) {
	return loadSources(db, `SELECT id, title, author, date, url FROM sources
		ORDER BY date IS NULL, date DESC, title`)
}

// SourcesMissingTitle loads sources that have a url but no title.
func SourcesMissingTitle(db DBExecutor) ([]Source, error) {
	return loadSources(db, `SELECT id, title, author, date, url FROM sources
		WHERE url IS NOT NULL AND url != '' AND (title IS NULL OR title = '')
		ORDER BY rowid`)
}

// GetSource loads one source by id.
func GetSource(db DBExecutor, id string) (Source, error) {
	out, err := loadSources(db, `SELECT id, title, author, date, url FROM sources WHERE id = ?`, id)
	if err != nil {
		return Source{}, err
	}
	if len(out) == 0 {
		return Source{}, ErrNotFound
	}
	return out[0], nil
}

func loadSources(db DBExecutor, query string, args ...interface{}) ([]Source, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()
	var out []Source
	for rows.Next() {
		var s Source
		if err := rows.Scan(&s.ID, &s.Title, &s.Author, &s.Date, &s.URL); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}
