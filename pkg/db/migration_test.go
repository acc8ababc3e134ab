package db

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func columns(t *testing.T, conn *sql.DB, table string) map[string]bool {
	t.Helper()
	rows, err := conn.Query("PRAGMA table_info(" + table + ")")
	require.NoError(t, err)
	defer rows.Close()
	cols := map[string]bool{}
	for rows.Next() {
		var cid int
		var colName, ctype string
		var notnull, pk int
		var dfltVal interface{}
		require.NoError(t, rows.Scan(&cid, &colName, &ctype, &notnull, &dfltVal, &pk))
		cols[colName] = true
	}
	return cols
}

func TestInitDBCreatesFinalSchema(t *testing.T) {
	conn, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer conn.Close()
	conn.SetMaxOpenConns(1)

	require.NoError(t, InitDB(conn))
	// Running twice must be harmless.
	require.NoError(t, InitDB(conn))

	caps, err := LoadCapabilities(conn)
	require.NoError(t, err)
	assert.NoError(t, caps.Require(CoreCollections...))
	assert.NoError(t, caps.Require(CommunityCollections...))

	cols := columns(t, conn, "episode_sentences")
	assert.True(t, cols["speaker_id"] && cols["episode_id"] && cols["sentence_id"], "%v", cols)
	cols = columns(t, conn, "sentences")
	assert.True(t, cols["leipzig_glossing"] && cols["source_id"], "%v", cols)
}

func TestCoreOnlyStoreLacksCommunity(t *testing.T) {
	conn, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer conn.Close()
	conn.SetMaxOpenConns(1)
	require.NoError(t, InitCoreDB(conn))

	caps, err := LoadCapabilities(conn)
	require.NoError(t, err)
	assert.True(t, caps.Has(CoreCollections...))
	assert.False(t, caps.Has(CommunityCollections...))

	err = caps.Require(CommunityCollections...)
	require.ErrorIs(t, err, ErrMissingCapability)
	assert.Contains(t, err.Error(), "word_requests")
	assert.Contains(t, err.Error(), "votes")
	assert.NotContains(t, caps.Names(), "votes")
}

func TestLoadCapabilitiesQueryError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery("SELECT name FROM sqlite_master").WillReturnError(errors.New("disk I/O error"))

	_, err = LoadCapabilities(conn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadCapabilitiesFromRows(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery("SELECT name FROM sqlite_master").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("words").AddRow("dictionaries"))

	caps, err := LoadCapabilities(conn)
	require.NoError(t, err)
	assert.Equal(t, []string{"dictionaries", "words"}, caps.Names())
	assert.ErrorIs(t, caps.Require(Words, Sentences), ErrMissingCapability)
	assert.NoError(t, mock.ExpectationsWereMet())
}
