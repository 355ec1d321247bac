package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"valorant-stats/internal/constants"
	"valorant-stats/internal/domain"
	"valorant-stats/internal/validate"

	sq "github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"
)

var matchHistoryTable = aggregate{entity: "match history", root: "match_history", child: "match_history_rounds"}

type MatchHistoryRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMatchHistoryRepository(sqlDB *sql.DB, logger zerolog.Logger) *MatchHistoryRepository {
	return &MatchHistoryRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// CreateOrUpdate stores both round traces. Mismatched or oversized traces are
// rejected before the transaction starts, so nothing partial is ever written.
func (r *MatchHistoryRepository) CreateOrUpdate(ctx context.Context, matchID string, teamA, teamB []bool, mode domain.WriteMode) (*domain.MatchHistory, error) {
	if err := requireMatchID(matchID); err != nil {
		return nil, err
	}
	if err := validate.MatchHistory(teamA, teamB); err != nil {
		r.logger.Debug().Err(err).Str("match_id", matchID).Msg("rejected match history")
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	createdAt, err := matchHistoryTable.openWrite(ctx, tx, matchID, mode, now)
	if err != nil {
		return nil, err
	}

	rows := make([][]any, len(teamA))
	for i := range teamA {
		rows[i] = []any{matchID, i + 1, teamA[i], teamB[i]}
	}
	insert := sq.Insert("match_history_rounds").Columns("match_id", "round_number", "team_a_won", "team_b_won")
	if err := insertChunks(ctx, tx, insert, rows, constants.DBBatchSize); err != nil {
		return nil, fmt.Errorf("failed to insert rounds for match %s: %w", matchID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit match history: %w", err)
	}

	r.logger.Debug().
		Str("match_id", matchID).
		Str("mode", mode.String()).
		Int("rounds", len(teamA)).
		Msg("match history written")

	return &domain.MatchHistory{
		MatchID:   matchID,
		TeamA:     append([]bool{}, teamA...),
		TeamB:     append([]bool{}, teamB...),
		CreatedAt: createdAt,
		UpdatedAt: now,
	}, nil
}

func (r *MatchHistoryRepository) GetByMatchID(ctx context.Context, matchID string) (*domain.MatchHistory, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	createdAt, updatedAt, err := matchHistoryTable.readRoot(ctx, tx, matchID)
	if err != nil {
		return nil, err
	}

	query, args, err := sq.Select("team_a_won", "team_b_won").
		From("match_history_rounds").
		Where(sq.Eq{"match_id": matchID}).
		OrderBy("round_number").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := &domain.MatchHistory{
		MatchID:   matchID,
		TeamA:     []bool{},
		TeamB:     []bool{},
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
	for rows.Next() {
		var a, b bool
		if err := rows.Scan(&a, &b); err != nil {
			return nil, err
		}
		history.TeamA = append(history.TeamA, a)
		history.TeamB = append(history.TeamB, b)
	}
	return history, rows.Err()
}

func (r *MatchHistoryRepository) Delete(ctx context.Context, matchID string) error {
	return matchHistoryTable.delete(ctx, r.db, matchID)
}
