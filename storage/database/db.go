// Package database is the sqlite-backed alternative to the document store for
// the user and feedback repositories. The schema is bootstrapped inline; there
// is no migration pipeline.
package database

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/trezcool/maoni/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY,
	first_name    TEXT NOT NULL,
	last_name     TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	role          TEXT NOT NULL,
	password_hash BLOB NOT NULL,
	created_at    TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS feedback (
	id            INTEGER PRIMARY KEY,
	student_name  TEXT NOT NULL,
	student_email TEXT NOT NULL,
	faculty_name  TEXT NOT NULL,
	course        TEXT NOT NULL,
	rating        INTEGER NOT NULL,
	comments      TEXT NOT NULL DEFAULT '',
	date          TEXT NOT NULL,
	submitted_at  TIMESTAMP NOT NULL
);
`

func Open(conf *core.Config) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite3", conf.Storage.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err = db.Ping(); err != nil {
		return nil, errors.Wrap(err, "pinging database")
	}
	if err = EnsureSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

func EnsureSchema(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return errors.Wrap(err, "bootstrapping schema")
	}
	return nil
}
