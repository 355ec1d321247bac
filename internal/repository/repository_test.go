package repository_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"valorant-stats/internal/config"
	"valorant-stats/internal/database"
	"valorant-stats/internal/domain"
	"valorant-stats/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(&config.Config{DBPath: filepath.Join(t.TempDir(), "test.db")}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func ptr(v float64) *float64 { return &v }

func samplePlayers() []domain.PlayerStats {
	return []domain.PlayerStats{
		{PlayerName: "Sage", TeamColor: domain.TeamRed, AgentName: "Sage", Kills: 3, Deaths: 1, Headshots: 1, KillDeathRatio: 99},
		{PlayerName: "Jett", TeamColor: domain.TeamGreen, Kills: 1, Deaths: 0, Headshots: 1, DamagePerRound: ptr(47.5), HeadshotPercentage: ptr(29)},
		{PlayerName: "Jett", TeamColor: domain.TeamRed, Kills: 0, Deaths: 1},
	}
}

func TestMatchStatsCreateAndGet(t *testing.T) {
	t.Parallel()
	repo := repository.NewMatchStatsRepository(openDB(t), zerolog.Nop())

	created, err := repo.CreateOrUpdate(t.Context(), "m1", samplePlayers(), domain.WriteCreate)
	require.NoError(t, err)
	require.InDelta(t, 3.0, created.Players[0].KillDeathRatio, 1e-9, "ratio must be recomputed on write")

	fetched, err := repo.GetByMatchID(t.Context(), "m1")
	require.NoError(t, err)
	require.Equal(t, created.Players, fetched.Players)
	require.True(t, created.CreatedAt.Equal(fetched.CreatedAt))

	jett := fetched.Players[1]
	require.Equal(t, domain.TeamGreen, jett.TeamColor)
	require.InDelta(t, 47.5, *jett.DamagePerRound, 1e-9)
	require.Nil(t, fetched.Players[2].DamagePerRound)
	require.Nil(t, fetched.Players[2].HeadshotPercentage)
}

func TestMatchStatsDuplicateCreate(t *testing.T) {
	t.Parallel()
	repo := repository.NewMatchStatsRepository(openDB(t), zerolog.Nop())

	_, err := repo.CreateOrUpdate(t.Context(), "m1", samplePlayers(), domain.WriteCreate)
	require.NoError(t, err)

	_, err = repo.CreateOrUpdate(t.Context(), "m1", samplePlayers()[:1], domain.WriteCreate)
	require.ErrorIs(t, err, domain.ErrDuplicateKey)

	var dup *domain.DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	require.Equal(t, "m1", dup.MatchID)

	fetched, err := repo.GetByMatchID(t.Context(), "m1")
	require.NoError(t, err)
	require.Len(t, fetched.Players, 3)
}

func TestMatchStatsUpdate(t *testing.T) {
	t.Parallel()
	repo := repository.NewMatchStatsRepository(openDB(t), zerolog.Nop())

	_, err := repo.CreateOrUpdate(t.Context(), "missing", samplePlayers(), domain.WriteUpdate)
	require.ErrorIs(t, err, domain.ErrNotFound)

	created, err := repo.CreateOrUpdate(t.Context(), "m1", samplePlayers(), domain.WriteCreate)
	require.NoError(t, err)

	changed := samplePlayers()[:1]
	changed[0].Deaths = 2
	updated, err := repo.CreateOrUpdate(t.Context(), "m1", changed, domain.WriteUpdate)
	require.NoError(t, err)
	require.True(t, created.CreatedAt.Equal(updated.CreatedAt))
	require.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	fetched, err := repo.GetByMatchID(t.Context(), "m1")
	require.NoError(t, err)
	require.Len(t, fetched.Players, 1)
	require.InDelta(t, 1.5, fetched.Players[0].KillDeathRatio, 1e-9)
}

func TestMatchStatsValidationPreventsWrite(t *testing.T) {
	t.Parallel()
	repo := repository.NewMatchStatsRepository(openDB(t), zerolog.Nop())

	bad := samplePlayers()
	bad[1].HeadshotPercentage = ptr(120)
	_, err := repo.CreateOrUpdate(t.Context(), "m1", bad, domain.WriteCreate)
	require.True(t, domain.HasKind(err, domain.FieldOutOfRange))

	_, err = repo.GetByMatchID(t.Context(), "m1")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.CreateOrUpdate(t.Context(), "", samplePlayers(), domain.WriteCreate)
	require.True(t, domain.HasKind(err, domain.MissingField))
}

func TestMatchStatsDelete(t *testing.T) {
	t.Parallel()
	repo := repository.NewMatchStatsRepository(openDB(t), zerolog.Nop())

	require.ErrorIs(t, repo.Delete(t.Context(), "m1"), domain.ErrNotFound)

	_, err := repo.CreateOrUpdate(t.Context(), "m1", samplePlayers(), domain.WriteCreate)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(t.Context(), "m1"))

	_, err = repo.GetByMatchID(t.Context(), "m1")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.CreateOrUpdate(t.Context(), "m1", samplePlayers(), domain.WriteCreate)
	require.NoError(t, err)
}

func TestMatchHistory(t *testing.T) {
	t.Parallel()
	repo := repository.NewMatchHistoryRepository(openDB(t), zerolog.Nop())

	_, err := repo.CreateOrUpdate(t.Context(), "m1", []bool{true, false}, []bool{false, false, true}, domain.WriteCreate)
	require.True(t, domain.HasKind(err, domain.LengthMismatch))
	_, err = repo.GetByMatchID(t.Context(), "m1")
	require.ErrorIs(t, err, domain.ErrNotFound)

	teamA := []bool{true, true, false, false}
	teamB := []bool{false, false, true, false}
	_, err = repo.CreateOrUpdate(t.Context(), "m1", teamA, teamB, domain.WriteCreate)
	require.NoError(t, err)

	_, err = repo.CreateOrUpdate(t.Context(), "m1", teamA, teamB, domain.WriteCreate)
	require.ErrorIs(t, err, domain.ErrDuplicateKey)

	fetched, err := repo.GetByMatchID(t.Context(), "m1")
	require.NoError(t, err)
	require.Equal(t, teamA, fetched.TeamA)
	require.Equal(t, teamB, fetched.TeamB)

	_, err = repo.CreateOrUpdate(t.Context(), "m1", append(teamA, true), append(teamB, true), domain.WriteUpdate)
	require.NoError(t, err)
	fetched, err = repo.GetByMatchID(t.Context(), "m1")
	require.NoError(t, err)
	require.Len(t, fetched.TeamA, 5)
	require.True(t, fetched.TeamB[4])
}

func TestMatchHistoryEmpty(t *testing.T) {
	t.Parallel()
	repo := repository.NewMatchHistoryRepository(openDB(t), zerolog.Nop())

	_, err := repo.CreateOrUpdate(t.Context(), "m1", nil, nil, domain.WriteCreate)
	require.NoError(t, err)

	fetched, err := repo.GetByMatchID(t.Context(), "m1")
	require.NoError(t, err)
	require.Empty(t, fetched.TeamA)
	require.Empty(t, fetched.TeamB)
}

func TestWeaponAnalysis(t *testing.T) {
	t.Parallel()
	repo := repository.NewWeaponAnalysisRepository(openDB(t), zerolog.Nop())

	weapons := []domain.WeaponStats{
		{WeaponName: "Vandal", Kills: 15, Damage: 3200},
		{WeaponName: "Operator", WeaponType: domain.WeaponSniper, Kills: 8, Damage: 2400},
	}
	created, err := repo.CreateOrUpdate(t.Context(), "m1", weapons, domain.WriteCreate)
	require.NoError(t, err)
	require.Equal(t, domain.WeaponRifle, created.Weapons[0].WeaponType)

	fetched, err := repo.GetByMatchID(t.Context(), "m1")
	require.NoError(t, err)
	require.Equal(t, created.Weapons, fetched.Weapons)

	_, err = repo.CreateOrUpdate(t.Context(), "m2", []domain.WeaponStats{{WeaponName: "Ghost", Kills: -1}}, domain.WriteCreate)
	require.True(t, domain.HasKind(err, domain.FieldOutOfRange))

	_, err = repo.GetByMatchID(t.Context(), "m2")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAggregatesAreIndependent(t *testing.T) {
	t.Parallel()
	db := openDB(t)
	statsRepo := repository.NewMatchStatsRepository(db, zerolog.Nop())
	historyRepo := repository.NewMatchHistoryRepository(db, zerolog.Nop())

	_, err := historyRepo.CreateOrUpdate(t.Context(), "m1", []bool{true}, []bool{false}, domain.WriteCreate)
	require.NoError(t, err)

	_, err = statsRepo.GetByMatchID(t.Context(), "m1")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = statsRepo.CreateOrUpdate(t.Context(), "m1", samplePlayers(), domain.WriteCreate)
	require.NoError(t, err)
}
