package migrate

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/trigedasleng/trigdict/pkg/db"
	"github.com/trigedasleng/trigdict/pkg/logging"
	"github.com/trigedasleng/trigdict/pkg/sqldump"
)

// Legacy table names.
const (
	SourcesTable      = "dict_sources"
	WordsTable        = "dict_words"
	TranslationsTable = "dict_translations"
)

// Tables lists the legacy tables in resolution order.
var Tables = []string{SourcesTable, WordsTable, TranslationsTable}

// Positional columns of the legacy rows.
const (
	srcID, srcTitle, srcAuthor, srcDate, srcURL = 0, 1, 2, 3, 4

	wordID, wordValue, wordTranslation, wordEtymology, wordFilter = 0, 1, 2, 3, 8

	trID, trTrigedasleng, trEnglish, trEtymology, trLeipzig, trEpisode, trAudio, trSpeaker, trSource = 0, 1, 2, 3, 4, 5, 6, 7, 8
)

// Resolver turns legacy rows into store entities. It reads and writes the
// lookups of its Context and must be driven from one goroutine.
type Resolver struct {
	Ctx *Context
	// DedupeSentences reuses a sentence with the same dictionary, text,
	// english and source instead of appending a new one.
	DedupeSentences bool
	Logger          *slog.Logger
}

// NewResolver returns a Resolver over mc.
func NewResolver(mc *Context, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Resolver{Ctx: mc, Logger: logger}
}

// parseDate accepts any date layout the legacy data used. MySQL zero dates
// and unparseable text are no date.
func parseDate(v sql.NullString) sql.NullTime {
	s := strings.TrimSpace(v.String)
	if !v.Valid || s == "" || strings.HasPrefix(s, "0000-00-00") {
		return sql.NullTime{}
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil || t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// Source resolves one dict_sources row.
func (r *Resolver) Source(conn db.DBExecutor, row sqldump.Row) (outcome, error) {
	src := db.Source{
		Title:  nullable(row.Text(srcTitle)),
		Author: nullable(row.Text(srcAuthor)),
		Date:   parseDate(row.Field(srcDate)),
		URL:    nullable(row.Text(srcURL)),
	}
	id, created, err := db.CreateOrGetSource(conn, src)
	if err != nil {
		return outcome{}, fmt.Errorf("source %q: %w", src.URL.String, err)
	}
	if key, ok := LegacyKey(row.Field(srcID)); ok {
		r.Ctx.SourceIDs[key] = id
	}
	return outcome{added: created, skipped: !created}, nil
}

// Word resolves one dict_words row: the word, its class and its primary English gloss.
func (r *Resolver) Word(conn db.DBExecutor, row sqldump.Row) (outcome, error) {
	value := strings.TrimSpace(row.Text(wordValue))
	if value == "" {
		r.Logger.Warn("skipping word row without a value", "table", WordsTable, "legacy_id", row.Text(wordID))
		return outcome{skipped: true}, nil
	}

	dictName := ResolveDictionary(row.Text(wordFilter))
	dictID, ok := r.Ctx.Dictionaries[dictName]
	if !ok {
		return outcome{}, fmt.Errorf("%w: dictionary %s not seeded", ErrSeed, dictName)
	}

	id, created, err := db.CreateOrGetWord(conn, value, dictID)
	if err != nil {
		return outcome{}, fmt.Errorf("word %q: %w", value, err)
	}
	if key, ok := LegacyKey(row.Field(wordID)); ok {
		r.Ctx.WordIDs[key] = id
	}
	out := outcome{added: created, skipped: !created}

	def := ParseDefinition(row.Text(wordTranslation))
	if def.Classification != "" {
		if classID, ok := r.Ctx.Classification(def.Classification); ok {
			linked, err := db.LinkWordClassification(conn, id, classID)
			if err != nil {
				return outcome{}, fmt.Errorf("classify %q: %w", value, err)
			}
			if linked {
				out.linked++
			}
		} else {
			r.Logger.Debug("unrecognized classification", "word", value, "classification", def.Classification)
		}
	}

	gloss := def.PrimaryGloss()
	if gloss == "" {
		return out, nil
	}
	englishID, _, err := db.CreateOrGetWord(conn, gloss, r.Ctx.Dictionaries[English])
	if err != nil {
		return outcome{}, fmt.Errorf("english word %q: %w", gloss, err)
	}
	_, tCreated, err := db.CreateOrGetTranslation(conn, db.Translation{
		WordSourceID: id,
		WordTargetID: englishID,
		Etymology:    nullable(row.Text(wordEtymology)),
		IsApproved:   true,
	})
	if err != nil {
		return outcome{}, fmt.Errorf("translate %q: %w", value, err)
	}
	if tCreated {
		out.linked++
	}
	return out, nil
}

func (r *Resolver) sourceOf(row sqldump.Row) sql.NullString {
	key, ok := LegacyKey(row.Field(trSource))
	if !ok {
		return sql.NullString{}
	}
	id, ok := r.Ctx.SourceIDs[key]
	if !ok {
		r.Logger.Debug("unresolved source reference", "legacy_source", key)
		return sql.NullString{}
	}
	return sql.NullString{String: id, Valid: true}
}

func (r *Resolver) sentenceOf(row sqldump.Row) db.Sentence {
	return db.Sentence{
		DictionaryID:    r.Ctx.Dictionaries[Trigedasleng],
		SourceID:        r.sourceOf(row),
		Value:           row.Text(trTrigedasleng),
		English:         row.Text(trEnglish),
		Etymology:       nullable(row.Text(trEtymology)),
		LeipzigGlossing: nullable(row.Text(trLeipzig)),
		Audio:           nullable(row.Text(trAudio)),
	}
}

// Translation resolves one dict_translations row into a sentence and, for a
// valid episode code, its episode link.
func (r *Resolver) Translation(conn db.DBExecutor, row sqldump.Row) (outcome, error) {
	if _, ok := r.Ctx.Dictionaries[Trigedasleng]; !ok {
		return outcome{}, fmt.Errorf("%w: dictionary %s not seeded", ErrSeed, Trigedasleng)
	}
	s := r.sentenceOf(row)

	var out outcome
	sentenceID := ""
	if r.DedupeSentences {
		id, err := db.FindSentence(conn, s)
		switch {
		case err == nil:
			sentenceID = id
			out.skipped = true
		case !errors.Is(err, db.ErrNotFound):
			return outcome{}, fmt.Errorf("find sentence: %w", err)
		}
	}
	if sentenceID == "" {
		id, err := db.CreateSentence(conn, s)
		if err != nil {
			return outcome{}, err
		}
		sentenceID = id
		out.added = true
	}

	code, ok := ParseEpisodeCode(row.Text(trEpisode))
	if !ok {
		return out, nil
	}
	episodeID, err := r.episode(conn, code)
	if err != nil {
		return outcome{}, err
	}

	var speakerID sql.NullString
	if name := row.Text(trSpeaker); strings.TrimSpace(name) != "" {
		if id, ok := r.Ctx.Speaker(name); ok {
			speakerID = sql.NullString{String: id, Valid: true}
		} else {
			r.Logger.Debug("unknown speaker", "speaker", name)
		}
	}
	linked, err := db.LinkEpisodeSentence(conn, episodeID, sentenceID, speakerID)
	if err != nil {
		return outcome{}, fmt.Errorf("link episode %s: %w", code.Key(), err)
	}
	if linked {
		out.linked++
	}
	return out, nil
}

func (r *Resolver) episode(conn db.DBExecutor, code EpisodeCode) (string, error) {
	if id, ok := r.Ctx.Episodes[code]; ok {
		return id, nil
	}
	seasonID, ok := r.Ctx.Seasons[code.Season]
	if !ok {
		id, err := db.CreateOrGetSeason(conn, r.Ctx.SeriesID, code.Season)
		if err != nil {
			return "", fmt.Errorf("season %d: %w", code.Season, err)
		}
		r.Ctx.Seasons[code.Season] = id
		seasonID = id
	}
	id, created, err := db.CreateOrGetEpisode(conn, seasonID, code.Season, code.Episode)
	if err != nil {
		return "", fmt.Errorf("episode %s: %w", code.Key(), err)
	}
	if created {
		r.Logger.Debug("episode created", "episode", db.EpisodeLabel(code.Season, code.Episode))
	}
	r.Ctx.Episodes[code] = id
	return id, nil
}

// OtherTranslation resolves a dict_translations row for the fix-other patch:
// only rows whose episode is exactly "other" are considered, and a sentence
// with the same text and english is never created twice.
func (r *Resolver) OtherTranslation(conn db.DBExecutor, row sqldump.Row) (outcome, error) {
	if strings.TrimSpace(row.Text(trEpisode)) != "other" {
		return outcome{ignored: true}, nil
	}
	if _, ok := r.Ctx.Dictionaries[Trigedasleng]; !ok {
		return outcome{}, fmt.Errorf("%w: dictionary %s not found", ErrSeed, Trigedasleng)
	}
	s := r.sentenceOf(row)
	_, err := db.FindSentenceByText(conn, s.Value, s.English)
	if err == nil {
		return outcome{skipped: true}, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return outcome{}, fmt.Errorf("find sentence: %w", err)
	}
	if _, err := db.CreateSentence(conn, s); err != nil {
		return outcome{}, err
	}
	return outcome{added: true}, nil
}

// LookupSource records the id of an existing source for a dict_sources row
// without creating anything.
func (r *Resolver) LookupSource(conn db.DBExecutor, row sqldump.Row) error {
	key, ok := LegacyKey(row.Field(srcID))
	if !ok {
		return nil
	}
	id, err := db.FindSourceByURL(conn, nullable(row.Text(srcURL)))
	if errors.Is(err, db.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("find source: %w", err)
	}
	r.Ctx.SourceIDs[key] = id
	return nil
}
