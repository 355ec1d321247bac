package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"valorant-stats/internal/domain"

	sq "github.com/Masterminds/squirrel"
)

// aggregate describes a root table keyed by match_id and its child rows.
type aggregate struct {
	entity string
	root   string
	child  string
}

// openWrite claims the root row for a write inside tx and returns its creation
// time. Create fails on an existing row, update on a missing one; update clears
// the child rows so the caller can rewrite them.
func (a aggregate) openWrite(ctx context.Context, tx *sql.Tx, matchID string, mode domain.WriteMode, now time.Time) (time.Time, error) {
	if mode == domain.WriteCreate {
		query, args, err := sq.Insert(a.root).
			Columns("match_id", "created_at", "updated_at").
			Values(matchID, now, now).
			ToSql()
		if err != nil {
			return time.Time{}, err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return time.Time{}, dbErr(err, a.entity, matchID)
		}
		return now, nil
	}

	query, args, err := sq.Update(a.root).
		Set("updated_at", now).
		Where(sq.Eq{"match_id": matchID}).
		ToSql()
	if err != nil {
		return time.Time{}, err
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return time.Time{}, dbErr(err, a.entity, matchID)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return time.Time{}, err
	}
	if affected == 0 {
		return time.Time{}, &domain.NotFoundError{Entity: a.entity, MatchID: matchID}
	}

	createdAt, _, err := a.readRoot(ctx, tx, matchID)
	if err != nil {
		return time.Time{}, err
	}

	query, args, err = sq.Delete(a.child).Where(sq.Eq{"match_id": matchID}).ToSql()
	if err != nil {
		return time.Time{}, err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return time.Time{}, fmt.Errorf("failed to clear %s rows: %w", a.child, err)
	}
	return createdAt, nil
}

func (a aggregate) readRoot(ctx context.Context, tx *sql.Tx, matchID string) (time.Time, time.Time, error) {
	query, args, err := sq.Select("created_at", "updated_at").
		From(a.root).
		Where(sq.Eq{"match_id": matchID}).
		ToSql()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	var createdAt, updatedAt time.Time
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return time.Time{}, time.Time{}, dbErr(err, a.entity, matchID)
	}
	return createdAt, updatedAt, nil
}

func (a aggregate) delete(ctx context.Context, db *sql.DB, matchID string) error {
	query, args, err := sq.Delete(a.root).Where(sq.Eq{"match_id": matchID}).ToSql()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return dbErr(err, a.entity, matchID)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &domain.NotFoundError{Entity: a.entity, MatchID: matchID}
	}
	return nil
}

// insertChunks writes rows in batches of size through the insert builder.
func insertChunks(ctx context.Context, tx *sql.Tx, base sq.InsertBuilder, rows [][]any, size int) error {
	for i := 0; i < len(rows); i += size {
		end := min(i+size, len(rows))

		builder := base
		for _, row := range rows[i:end] {
			builder = builder.Values(row...)
		}
		query, args, err := builder.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return nil
}

func requireMatchID(matchID string) error {
	if matchID == "" {
		return domain.ValidationErrors{domain.NewValidationError("matchId", domain.MissingField, "must not be empty")}
	}
	return nil
}
