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

var weaponAnalysisTable = aggregate{entity: "weapon analysis", root: "weapon_analysis", child: "weapon_stats"}

type WeaponAnalysisRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewWeaponAnalysisRepository(sqlDB *sql.DB, logger zerolog.Logger) *WeaponAnalysisRepository {
	return &WeaponAnalysisRepository{
		db:     sqlDB,
		logger: logger,
	}
}

func (r *WeaponAnalysisRepository) CreateOrUpdate(ctx context.Context, matchID string, weapons []domain.WeaponStats, mode domain.WriteMode) (*domain.WeaponAnalysis, error) {
	if err := requireMatchID(matchID); err != nil {
		return nil, err
	}
	if err := validate.Weapons(weapons); err != nil {
		r.logger.Debug().Err(err).Str("match_id", matchID).Msg("rejected weapon analysis")
		return nil, err
	}

	stored := make([]domain.WeaponStats, len(weapons))
	for i, w := range weapons {
		if w.WeaponType == "" {
			_, w.WeaponType = domain.LookupWeapon(w.WeaponName)
		}
		stored[i] = w
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	createdAt, err := weaponAnalysisTable.openWrite(ctx, tx, matchID, mode, now)
	if err != nil {
		return nil, err
	}

	rows := make([][]any, len(stored))
	for i, w := range stored {
		rows[i] = []any{matchID, i, w.WeaponName, string(w.WeaponType), w.Kills, w.Damage}
	}
	insert := sq.Insert("weapon_stats").Columns("match_id", "position", "weapon_name", "weapon_type", "kills", "damage")
	if err := insertChunks(ctx, tx, insert, rows, constants.DBBatchSize); err != nil {
		return nil, fmt.Errorf("failed to insert weapons for match %s: %w", matchID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit weapon analysis: %w", err)
	}

	r.logger.Debug().
		Str("match_id", matchID).
		Str("mode", mode.String()).
		Int("weapons", len(stored)).
		Msg("weapon analysis written")

	return &domain.WeaponAnalysis{
		MatchID:   matchID,
		Weapons:   stored,
		CreatedAt: createdAt,
		UpdatedAt: now,
	}, nil
}

func (r *WeaponAnalysisRepository) GetByMatchID(ctx context.Context, matchID string) (*domain.WeaponAnalysis, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	createdAt, updatedAt, err := weaponAnalysisTable.readRoot(ctx, tx, matchID)
	if err != nil {
		return nil, err
	}

	query, args, err := sq.Select("weapon_name", "weapon_type", "kills", "damage").
		From("weapon_stats").
		Where(sq.Eq{"match_id": matchID}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	analysis := &domain.WeaponAnalysis{
		MatchID:   matchID,
		Weapons:   []domain.WeaponStats{},
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
	for rows.Next() {
		var (
			w    domain.WeaponStats
			kind string
		)
		if err := rows.Scan(&w.WeaponName, &kind, &w.Kills, &w.Damage); err != nil {
			return nil, err
		}
		w.WeaponType = domain.WeaponType(kind)
		analysis.Weapons = append(analysis.Weapons, w)
	}
	return analysis, rows.Err()
}

func (r *WeaponAnalysisRepository) Delete(ctx context.Context, matchID string) error {
	return weaponAnalysisTable.delete(ctx, r.db, matchID)
}
