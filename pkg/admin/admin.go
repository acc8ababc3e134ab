// Package admin adds dictionary words and example sentences directly,
// without going through a word request.
package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/trigedasleng/trigdict/pkg/db"
	"github.com/trigedasleng/trigdict/pkg/logging"
	"github.com/trigedasleng/trigdict/pkg/migrate"
)

var (
	// ErrInvalidEntry is returned for an entry missing a required field.
	ErrInvalidEntry = errors.New("invalid entry")
	// ErrInvalidEpisode is returned for an episode that is neither "other"
	// nor a four digit SSEE code.
	ErrInvalidEpisode = errors.New("invalid episode code")
)

// OtherEpisode marks a sentence heard outside the show.
const OtherEpisode = "other"

// Editor writes entries to a store.
type Editor struct {
	DB     *sql.DB
	Logger *slog.Logger
}

// New returns an Editor over conn.
func New(conn *sql.DB) *Editor {
	return &Editor{DB: conn, Logger: logging.ForService("admin")}
}

// Word is a dictionary word with its English gloss.
type Word struct {
	Trigedasleng   string
	Translation    string
	Classification string
	Etymology      string
	// DictionaryType is "canon", "noncanon" or "slakgedasleng".
	DictionaryType string
	SourceURL      string
}

// WordResult reports the entities a word resolved.
type WordResult struct {
	Dictionary    string
	WordID        string
	EnglishWordID string
	TranslationID string
	SourceID      string
	// Created is false when the word and its translation already existed.
	Created bool
}

// Sentence is an example sentence and where it was heard.
type Sentence struct {
	Trigedasleng string
	Translation  string
	Etymology    string
	Leipzig      string
	Audio        string
	// Episode is an SSEE code or "other". Empty means "other".
	Episode   string
	Speaker   string
	SourceURL string
}

// SentenceResult reports the entities a sentence resolved.
type SentenceResult struct {
	SentenceID string
	EpisodeID  string
	SpeakerID  string
	SourceID   string
}

func nullable(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}

func required(fields ...[2]string) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			missing = append(missing, f[0])
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidEntry, strings.Join(missing, ", "))
	}
	return nil
}

// source registers url as a source. Its title is filled in later by a
// metadata refresh.
func source(conn db.DBExecutor, url string) (string, error) {
	u := nullable(url)
	if !u.Valid {
		return "", nil
	}
	id, _, err := db.CreateOrGetSource(conn, db.Source{URL: u})
	if err != nil {
		return "", fmt.Errorf("source %s: %w", u.String, err)
	}
	return id, nil
}

// InsertWord writes w on conn, which is usually a transaction. Every entity
// is found or created, so inserting the same word twice is a no-op.
func InsertWord(conn db.DBExecutor, w Word) (WordResult, error) {
	if err := required([2]string{"trigedasleng", w.Trigedasleng}, [2]string{"translation", w.Translation}); err != nil {
		return WordResult{}, err
	}
	r := WordResult{Dictionary: migrate.DictionaryForType(w.DictionaryType)}
	dictID, err := db.CreateOrGetDictionary(conn, r.Dictionary)
	if err != nil {
		return WordResult{}, fmt.Errorf("dictionary %s: %w", r.Dictionary, err)
	}
	var wordCreated bool
	r.WordID, wordCreated, err = db.CreateOrGetWord(conn, w.Trigedasleng, dictID)
	if err != nil {
		return WordResult{}, fmt.Errorf("word %q: %w", w.Trigedasleng, err)
	}

	if class := strings.ToLower(strings.TrimSpace(w.Classification)); class != "" && class != "none" {
		classID, err := db.CreateOrGetClassification(conn, class)
		if err != nil {
			return WordResult{}, fmt.Errorf("classification %q: %w", class, err)
		}
		if _, err := db.LinkWordClassification(conn, r.WordID, classID); err != nil {
			return WordResult{}, err
		}
	}

	englishID, err := db.CreateOrGetDictionary(conn, migrate.English)
	if err != nil {
		return WordResult{}, fmt.Errorf("dictionary %s: %w", migrate.English, err)
	}
	r.EnglishWordID, _, err = db.CreateOrGetWord(conn, w.Translation, englishID)
	if err != nil {
		return WordResult{}, fmt.Errorf("english word %q: %w", w.Translation, err)
	}

	var linked bool
	r.TranslationID, linked, err = db.CreateOrGetTranslation(conn, db.Translation{
		WordSourceID: r.WordID,
		WordTargetID: r.EnglishWordID,
		Etymology:    nullable(w.Etymology),
		IsApproved:   true,
	})
	if err != nil {
		return WordResult{}, fmt.Errorf("translation: %w", err)
	}
	r.Created = wordCreated || linked

	if r.SourceID, err = source(conn, w.SourceURL); err != nil {
		return WordResult{}, err
	}
	return r, nil
}

// InsertSentence writes s on conn, which is usually a transaction. A sentence
// is always created; its episode, season and speaker are found or created.
func InsertSentence(conn db.DBExecutor, s Sentence) (SentenceResult, error) {
	if err := required([2]string{"trigedasleng", s.Trigedasleng}, [2]string{"translation", s.Translation}); err != nil {
		return SentenceResult{}, err
	}
	episode := strings.TrimSpace(s.Episode)
	var code migrate.EpisodeCode
	linked := episode != "" && !strings.EqualFold(episode, OtherEpisode)
	if linked {
		var ok bool
		if code, ok = migrate.ParseEpisodeCode(episode); !ok {
			return SentenceResult{}, fmt.Errorf("%w: %q", ErrInvalidEpisode, episode)
		}
	} else if strings.TrimSpace(s.Speaker) != "" {
		return SentenceResult{}, fmt.Errorf("%w: a speaker needs an episode", ErrInvalidEntry)
	}

	var r SentenceResult
	var err error
	if r.SourceID, err = source(conn, s.SourceURL); err != nil {
		return SentenceResult{}, err
	}
	dictID, err := db.CreateOrGetDictionary(conn, migrate.Trigedasleng)
	if err != nil {
		return SentenceResult{}, fmt.Errorf("dictionary %s: %w", migrate.Trigedasleng, err)
	}
	r.SentenceID, err = db.CreateSentence(conn, db.Sentence{
		DictionaryID:    dictID,
		SourceID:        nullable(r.SourceID),
		Value:           strings.TrimSpace(s.Trigedasleng),
		English:         strings.TrimSpace(s.Translation),
		Etymology:       nullable(s.Etymology),
		LeipzigGlossing: nullable(s.Leipzig),
		Audio:           nullable(s.Audio),
	})
	if err != nil {
		return SentenceResult{}, err
	}
	if !linked {
		return r, nil
	}

	seriesID, err := db.CreateOrGetSeries(conn, migrate.SeriesName)
	if err != nil {
		return SentenceResult{}, fmt.Errorf("series %s: %w", migrate.SeriesName, err)
	}
	seasonID, err := db.CreateOrGetSeason(conn, seriesID, code.Season)
	if err != nil {
		return SentenceResult{}, fmt.Errorf("season %d: %w", code.Season, err)
	}
	if r.EpisodeID, _, err = db.CreateOrGetEpisode(conn, seasonID, code.Season, code.Episode); err != nil {
		return SentenceResult{}, fmt.Errorf("episode %s: %w", code.Key(), err)
	}
	var speakerID sql.NullString
	if name := strings.TrimSpace(s.Speaker); name != "" {
		if r.SpeakerID, err = db.CreateOrGetSpeaker(conn, seriesID, name); err != nil {
			return SentenceResult{}, fmt.Errorf("speaker %q: %w", name, err)
		}
		speakerID = nullable(r.SpeakerID)
	}
	if _, err := db.LinkEpisodeSentence(conn, r.EpisodeID, r.SentenceID, speakerID); err != nil {
		return SentenceResult{}, fmt.Errorf("link episode %s: %w", code.Key(), err)
	}
	return r, nil
}

// AddWord inserts w in its own transaction.
func (e *Editor) AddWord(ctx context.Context, w Word) (WordResult, error) {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return WordResult{}, err
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	r, err := InsertWord(tx, w)
	if err != nil {
		return WordResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return WordResult{}, err
	}
	e.Logger.Info("word added", "word", strings.TrimSpace(w.Trigedasleng), "dictionary", r.Dictionary, "created", r.Created)
	return r, nil
}

// AddSentence inserts s in its own transaction.
func (e *Editor) AddSentence(ctx context.Context, s Sentence) (SentenceResult, error) {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return SentenceResult{}, err
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	r, err := InsertSentence(tx, s)
	if err != nil {
		return SentenceResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return SentenceResult{}, err
	}
	e.Logger.Info("sentence added", "sentence", r.SentenceID, "episode", strings.TrimSpace(s.Episode))
	return r, nil
}
