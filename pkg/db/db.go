package db

import (
	"database/sql"
	_ "embed"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var coreSQL string

//go:embed community.sql
var communitySQL string

// InitDB creates the core dictionary schema and the community collections.
func InitDB(db *sql.DB) error {
	if err := InitCoreDB(db); err != nil {
		return err
	}
	return execScript(db, communitySQL)
}

// InitCoreDB creates only the core dictionary schema.
func InitCoreDB(db *sql.DB) error {
	return execScript(db, coreSQL)
}

// Open opens the SQLite database at path with foreign keys enabled.
func Open(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	// A single writer keeps in-memory databases on one connection and
	// avoids SQLITE_BUSY during migration.
	conn.SetMaxOpenConns(1)
	return conn, nil
}

func execScript(db *sql.DB, script string) error {
	stmts := strings.Split(script, ";")
	for _, s := range stmts {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}
