package repository

import (
	"database/sql"
	"errors"

	"valorant-stats/internal/domain"

	"github.com/mattn/go-sqlite3"
)

// dbErr maps driver errors onto domain errors for the given aggregate.
func dbErr(err error, entity, matchID string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Entity: entity, MatchID: matchID}
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintUnique:
			return &domain.DuplicateKeyError{Entity: entity, MatchID: matchID}
		}
	}
	return err
}
