package sqliteutil

import (
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// OpenDB opens a sqlite database file, creating it if necessary, and applies
// the given schema. Schema statements whose objects already exist are
// tolerated so re-opening an existing database is safe.
func OpenDB(schema, path string) (*sqlx.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("a database path must be specified")
	}
	if path != ":memory:" {
		_, err := os.Stat(path)
		if os.IsNotExist(err) {
			file, err := os.Create(path)
			if err != nil {
				return nil, err
			}
			file.Close()
		} else if err != nil {
			return nil, err
		}
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// see https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	if schema != "" {
		_, err = db.Exec(schema)
		if err != nil && !strings.Contains(err.Error(), "already exists") {
			return nil, err
		}
	}

	return db, nil
}
