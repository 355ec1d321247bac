package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"valorant-stats/internal/constants"
	"valorant-stats/internal/domain"
	"valorant-stats/internal/stats"
	"valorant-stats/internal/validate"

	sq "github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"
)

var matchStatsTable = aggregate{entity: "match stats", root: "match_stats", child: "match_players"}

type MatchStatsRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMatchStatsRepository(sqlDB *sql.DB, logger zerolog.Logger) *MatchStatsRepository {
	return &MatchStatsRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// CreateOrUpdate validates players and writes them atomically. The kill/death
// ratio of every player is recomputed here and never taken from the input.
func (r *MatchStatsRepository) CreateOrUpdate(ctx context.Context, matchID string, players []domain.PlayerStats, mode domain.WriteMode) (*domain.MatchStats, error) {
	if err := requireMatchID(matchID); err != nil {
		return nil, err
	}
	if err := validate.Players(players); err != nil {
		r.logger.Debug().Err(err).Str("match_id", matchID).Msg("rejected match stats")
		return nil, err
	}

	derived := make([]domain.PlayerStats, len(players))
	for i, p := range players {
		derived[i] = stats.WithDerived(p)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	createdAt, err := matchStatsTable.openWrite(ctx, tx, matchID, mode, now)
	if err != nil {
		return nil, err
	}

	rows := make([][]any, len(derived))
	for i, p := range derived {
		rows[i] = []any{
			matchID, i, string(p.TeamColor), p.PlayerName, p.AgentName,
			p.Kills, p.Deaths, p.Assists, p.Headshots, p.KillDeathRatio,
			p.DamagePerRound, p.HeadshotPercentage,
		}
	}
	insert := sq.Insert("match_players").Columns(
		"match_id", "position", "team_color", "player_name", "agent_name",
		"kills", "deaths", "assists", "headshots", "kd",
		"damage_per_round", "headshot_percentage",
	)
	if err := insertChunks(ctx, tx, insert, rows, constants.DBBatchSize); err != nil {
		return nil, fmt.Errorf("failed to insert players for match %s: %w", matchID, dbErr(err, matchStatsTable.entity, matchID))
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit match stats: %w", err)
	}

	r.logger.Debug().
		Str("match_id", matchID).
		Str("mode", mode.String()).
		Int("players", len(derived)).
		Msg("match stats written")

	return &domain.MatchStats{
		MatchID:   matchID,
		Players:   derived,
		CreatedAt: createdAt,
		UpdatedAt: now,
	}, nil
}

func (r *MatchStatsRepository) GetByMatchID(ctx context.Context, matchID string) (*domain.MatchStats, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	createdAt, updatedAt, err := matchStatsTable.readRoot(ctx, tx, matchID)
	if err != nil {
		return nil, err
	}

	query, args, err := sq.Select(
		"team_color", "player_name", "agent_name",
		"kills", "deaths", "assists", "headshots", "kd",
		"damage_per_round", "headshot_percentage",
	).
		From("match_players").
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

	players := []domain.PlayerStats{}
	for rows.Next() {
		var (
			p         domain.PlayerStats
			team      string
			damage    sql.NullFloat64
			hsPercent sql.NullFloat64
		)
		if err := rows.Scan(&team, &p.PlayerName, &p.AgentName,
			&p.Kills, &p.Deaths, &p.Assists, &p.Headshots, &p.KillDeathRatio,
			&damage, &hsPercent); err != nil {
			return nil, err
		}
		p.TeamColor = domain.TeamColor(team)
		if damage.Valid {
			p.DamagePerRound = &damage.Float64
		}
		if hsPercent.Valid {
			p.HeadshotPercentage = &hsPercent.Float64
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &domain.MatchStats{
		MatchID:   matchID,
		Players:   players,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func (r *MatchStatsRepository) Delete(ctx context.Context, matchID string) error {
	return matchStatsTable.delete(ctx, r.db, matchID)
}
