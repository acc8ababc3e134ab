package db

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Ensure single connection to avoid separate in-memory DBs per connection.
	db.SetMaxOpenConns(1)
	if err := InitDB(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func valid(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }

func TestCreateOrGetWord(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	dictID, err := CreateOrGetDictionary(db, "Trigedasleng")
	if err != nil {
		t.Fatalf("create dictionary: %v", err)
	}
	id1, created, err := CreateOrGetWord(db, "heda", dictID)
	if err != nil {
		t.Fatalf("create word: %v", err)
	}
	if !created {
		t.Fatalf("expected first call to create the word")
	}
	id2, created, err := CreateOrGetWord(db, " heda ", dictID)
	if err != nil {
		t.Fatalf("get word: %v", err)
	}
	if created {
		t.Fatalf("expected second call to find the word")
	}
	if id1 != id2 {
		t.Fatalf("expected same id, got %s and %s", id1, id2)
	}

	otherDict, err := CreateOrGetDictionary(db, "Slakgedasleng")
	if err != nil {
		t.Fatalf("create dictionary: %v", err)
	}
	id3, _, err := CreateOrGetWord(db, "heda", otherDict)
	if err != nil {
		t.Fatalf("create word: %v", err)
	}
	if id3 == id1 {
		t.Fatalf("expected a distinct word per dictionary")
	}

	if _, _, err := CreateOrGetWord(db, "  ", dictID); err == nil {
		t.Fatalf("expected error for empty word")
	}
}

func TestCreateOrGetSource(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	src := Source{Title: valid("Kru"), URL: valid("https://example.com/a")}
	id1, created, err := CreateOrGetSource(db, src)
	if err != nil {
		t.Fatalf("create source: %v", err)
	}
	if !created {
		t.Fatalf("expected source to be created")
	}
	src.Title = valid("Renamed")
	id2, created, err := CreateOrGetSource(db, src)
	if err != nil {
		t.Fatalf("get source: %v", err)
	}
	if created || id1 != id2 {
		t.Fatalf("expected same source id, got %s and %s", id1, id2)
	}

	// Sources without a url share the null identity.
	n1, _, err := CreateOrGetSource(db, Source{Title: valid("no url")})
	if err != nil {
		t.Fatalf("create source: %v", err)
	}
	n2, _, err := CreateOrGetSource(db, Source{Title: valid("still no url")})
	if err != nil {
		t.Fatalf("get source: %v", err)
	}
	if n1 != n2 {
		t.Fatalf("expected null-url sources to resolve to one row, got %s and %s", n1, n2)
	}

	found, err := FindSourceByURL(db, valid("https://example.com/a"))
	if err != nil || found != id1 {
		t.Fatalf("find source: %v (%s)", err, found)
	}
	if _, err := FindSourceByURL(db, valid("https://missing")); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTranslationEtymologyOnlyOnCreate(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	trig, _ := CreateOrGetDictionary(db, "Trigedasleng")
	eng, _ := CreateOrGetDictionary(db, "English")
	src, _, _ := CreateOrGetWord(db, "gada", trig)
	tgt, _, _ := CreateOrGetWord(db, "girl", eng)

	id1, created, err := CreateOrGetTranslation(db, Translation{WordSourceID: src, WordTargetID: tgt, Etymology: valid("first"), IsApproved: true})
	if err != nil || !created {
		t.Fatalf("create translation: %v %v", err, created)
	}
	id2, created, err := CreateOrGetTranslation(db, Translation{WordSourceID: src, WordTargetID: tgt, Etymology: valid("second")})
	if err != nil || created || id1 != id2 {
		t.Fatalf("expected existing translation, got %s %v %v", id2, created, err)
	}
	var ety string
	var approved bool
	if err := db.QueryRow(`SELECT etymology, is_approved FROM translations WHERE id = ?`, id1).Scan(&ety, &approved); err != nil {
		t.Fatalf("query: %v", err)
	}
	if ety != "first" || !approved {
		t.Fatalf("expected etymology from first creation, got %q approved=%v", ety, approved)
	}
}

func TestEpisodeSentenceLinks(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	trig, _ := CreateOrGetDictionary(db, "Trigedasleng")
	series, _ := CreateOrGetSeries(db, "The 100")
	season, err := CreateOrGetSeason(db, series, 2)
	if err != nil {
		t.Fatalf("season: %v", err)
	}
	ep, created, err := CreateOrGetEpisode(db, season, 2, 5)
	if err != nil || !created {
		t.Fatalf("episode: %v %v", err, created)
	}
	var label string
	if err := db.QueryRow(`SELECT value FROM episodes WHERE id = ?`, ep).Scan(&label); err != nil {
		t.Fatalf("label: %v", err)
	}
	if label != "S2E05" {
		t.Fatalf("expected S2E05, got %s", label)
	}
	speaker, _ := CreateOrGetSpeaker(db, series, "Clarke")

	sent, err := CreateSentence(db, Sentence{DictionaryID: trig, Value: "jus drein", English: "blood must"})
	if err != nil {
		t.Fatalf("sentence: %v", err)
	}
	linked, err := LinkEpisodeSentence(db, ep, sent, valid(speaker))
	if err != nil || !linked {
		t.Fatalf("link: %v %v", err, linked)
	}
	linked, err = LinkEpisodeSentence(db, ep, sent, valid(speaker))
	if err != nil || linked {
		t.Fatalf("expected duplicate link to be ignored: %v %v", err, linked)
	}

	entries, err := ListSentences(db)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].SeasonNumber.Int64 != 2 || entries[0].EpisodeNumber.Int64 != 5 {
		t.Fatalf("unexpected sentence entries: %+v", entries)
	}
}

func TestSentencesAreNotDeduplicated(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	trig, _ := CreateOrGetDictionary(db, "Trigedasleng")
	s := Sentence{DictionaryID: trig, Value: "yu gonplei ste odon", English: "your fight is over"}
	a, err := CreateSentence(db, s)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	b, err := CreateSentence(db, s)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a == b {
		t.Fatalf("expected two sentences")
	}
	n, err := CountRows(db, Sentences)
	if err != nil || n != 2 {
		t.Fatalf("expected 2 sentences, got %d (%v)", n, err)
	}
	found, err := FindSentence(db, s)
	if err != nil || found != a {
		t.Fatalf("expected first sentence, got %s (%v)", found, err)
	}
	if _, err := FindSentenceByText(db, "nope", "nope"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := CountRows(db, Collection("sqlite_master")); err == nil {
		t.Fatalf("expected unknown collection error")
	}
}

func TestListWordEntries(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	trig, _ := CreateOrGetDictionary(db, "Trigedasleng")
	slak, _ := CreateOrGetDictionary(db, "Slakgedasleng")
	eng, _ := CreateOrGetDictionary(db, "English")
	noun, _ := CreateOrGetClassification(db, "noun")

	heda, _, _ := CreateOrGetWord(db, "heda", trig)
	leader, _, _ := CreateOrGetWord(db, "leader", eng)
	commander, _, _ := CreateOrGetWord(db, "commander", eng)
	if _, err := LinkWordClassification(db, heda, noun); err != nil {
		t.Fatalf("link: %v", err)
	}
	if again, _ := LinkWordClassification(db, heda, noun); again {
		t.Fatalf("expected duplicate classification link to be ignored")
	}
	CreateOrGetTranslation(db, Translation{WordSourceID: heda, WordTargetID: commander, Etymology: valid("head")})
	CreateOrGetTranslation(db, Translation{WordSourceID: heda, WordTargetID: leader})
	CreateOrGetWord(db, "fleimkepa", slak)

	got, err := ListWordEntries(db, "Trigedasleng")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Value != "heda" || got[0].Dictionary != "Trigedasleng" {
		t.Fatalf("unexpected entries: %+v", got)
	}
	if len(got[0].Classifications) != 1 || got[0].Classifications[0] != "noun" {
		t.Fatalf("unexpected classifications: %v", got[0].Classifications)
	}
	if len(got[0].Targets) != 2 || got[0].Targets[0].Value != "commander" || got[0].Targets[1].Value != "leader" {
		t.Fatalf("expected targets in insertion order, got %+v", got[0].Targets)
	}

	all, err := ListWordEntries(db)
	if err != nil || len(all) != 4 {
		t.Fatalf("expected every word, got %d (%v)", len(all), err)
	}

	found, err := SearchWordEntries(db, "EDA", 20)
	if err != nil || len(found) != 1 {
		t.Fatalf("search: %v %+v", err, found)
	}
	if found, _ := SearchWordEntries(db, "%", 20); len(found) != 0 {
		t.Fatalf("expected wildcard to be matched literally, got %+v", found)
	}
}

func TestListSourcesOrdersByDate(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	old := sql.NullTime{Time: time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC), Valid: true}
	recent := sql.NullTime{Time: time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC), Valid: true}
	CreateOrGetSource(db, Source{Title: valid("old"), Date: old, URL: valid("a")})
	CreateOrGetSource(db, Source{Title: valid("undated"), URL: valid("b")})
	CreateOrGetSource(db, Source{Title: valid("recent"), Date: recent, URL: valid("c")})

	got, err := ListSources(db)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var titles []string
	for _, s := range got {
		titles = append(titles, s.Title.String)
	}
	if len(titles) != 3 || titles[0] != "recent" || titles[1] != "old" || titles[2] != "undated" {
		t.Fatalf("unexpected order: %v", titles)
	}
}

func TestCreateOrGetWordConcurrency(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	dictID, err := CreateOrGetDictionary(db, "Trigedasleng")
	if err != nil {
		t.Fatalf("dictionary: %v", err)
	}
	const n = 8
	ids := make(chan string, n)
	for i := 0; i < n; i++ {
		go func() {
			id, _, err := CreateOrGetWord(db, "kru", dictID)
			if err != nil {
				t.Errorf("create or get word: %v", err)
				ids <- ""
				return
			}
			ids <- id
		}()
	}
	var first string
	for i := 0; i < n; i++ {
		id := <-ids
		if id == "" {
			t.Fatalf("error in goroutine")
		}
		if i == 0 {
			first = id
		}
		if id != first {
			t.Fatalf("expected same id, got %s and %s", first, id)
		}
	}
	var cnt int
	err = db.QueryRow(`SELECT COUNT(*) FROM words WHERE value = ?`, "kru").Scan(&cnt)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if cnt != 1 {
		t.Fatalf("expected 1 word row, got %d", cnt)
	}
}

func TestGetSentenceAndSource(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	trig, _ := CreateOrGetDictionary(db, "Trigedasleng")
	src, _, err := CreateOrGetSource(db, Source{Title: valid("Wiki"), URL: valid("https://example.com/wiki")})
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	id, err := CreateSentence(db, Sentence{DictionaryID: trig, SourceID: valid(src), Value: "hod op", English: "hold on"})
	if err != nil {
		t.Fatalf("sentence: %v", err)
	}

	got, err := GetSentence(db, id)
	if err != nil {
		t.Fatalf("GetSentence: %v", err)
	}
	if got.Value != "hod op" || got.SourceID.String != src || got.SeasonNumber.Valid {
		t.Fatalf("unexpected sentence %+v", got)
	}
	s, err := GetSource(db, src)
	if err != nil || s.Title.String != "Wiki" {
		t.Fatalf("unexpected source %+v (%v)", s, err)
	}

	if _, err := GetSentence(db, "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := GetSource(db, "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
