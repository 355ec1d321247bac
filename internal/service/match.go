package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"valorant-stats/internal/api"
	"valorant-stats/internal/constants"
	"valorant-stats/internal/domain"
	"valorant-stats/internal/killfeed"
	"valorant-stats/internal/metrics"
	"valorant-stats/internal/repository"
	"valorant-stats/internal/scoreboard"
	"valorant-stats/internal/session"

	"github.com/rs/zerolog"
)

// Analyzer turns an uploaded video into a raw scoreboard.
type Analyzer interface {
	Upload(ctx context.Context, filename string, video io.Reader) (*api.UploadResponse, error)
}

type MatchService struct {
	analyzer    Analyzer
	statsRepo   *repository.MatchStatsRepository
	historyRepo *repository.MatchHistoryRepository
	weaponRepo  *repository.WeaponAnalysisRepository
	sessions    *session.Store
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

func NewMatchService(
	analyzer Analyzer,
	statsRepo *repository.MatchStatsRepository,
	historyRepo *repository.MatchHistoryRepository,
	weaponRepo *repository.WeaponAnalysisRepository,
	sessions *session.Store,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *MatchService {
	return &MatchService{
		analyzer:    analyzer,
		statsRepo:   statsRepo,
		historyRepo: historyRepo,
		weaponRepo:  weaponRepo,
		sessions:    sessions,
		metrics:     m,
		logger:      logger,
	}
}

// IngestScoreboard normalizes a raw scoreboard mapping and stores it. An empty
// mapping stores nothing and returns a NoData view.
func (s *MatchService) IngestScoreboard(ctx context.Context, matchID string, raw any, mode domain.WriteMode) (*ScoreboardView, error) {
	result, err := scoreboard.Normalize(raw)
	if err != nil {
		s.metrics.ObserveWrite("scoreboard", mode, err)
		s.logger.Warn().Err(err).Str("match_id", matchID).Msg("scoreboard rejected")
		return nil, err
	}
	if result.NoData {
		s.logger.Info().Str("match_id", matchID).Msg("scoreboard has no data, nothing stored")
		return &ScoreboardView{MatchID: matchID, NoData: true}, nil
	}

	return s.writeScoreboard(ctx, "scoreboard", matchID, result.Players, mode)
}

func (s *MatchService) writeScoreboard(ctx context.Context, source, matchID string, players []domain.PlayerStats, mode domain.WriteMode) (*ScoreboardView, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	stored, err := s.statsRepo.CreateOrUpdate(ctx, matchID, players, mode)
	s.metrics.ObserveWrite(source, mode, err)
	if err != nil {
		s.logger.Error().Err(err).Str("match_id", matchID).Str("source", source).Msg("failed to store match stats")
		return nil, fmt.Errorf("failed to store match stats: %w", err)
	}

	s.logger.Info().Str("match_id", matchID).Int("players", len(stored.Players)).Msg("match stats stored")
	return newScoreboardView(matchID, stored.Players, stored.UpdatedAt), nil
}

type KillFeedResult struct {
	Scoreboard *ScoreboardView
	Weapons    *WeaponAnalysisView
	Kept       int
	Dropped    int
}

// IngestKillFeed collapses repeated kill-feed sightings, tallies the remaining
// events into a scoreboard and a weapon breakdown, and stores both. The two
// aggregates are written one after the other, scoreboard first; if the weapon
// write fails the stored scoreboard is kept and the error says so.
func (s *MatchService) IngestKillFeed(ctx context.Context, matchID string, events []domain.KillEvent, mode domain.WriteMode) (*KillFeedResult, error) {
	kept := killfeed.Dedupe(events, constants.KillDedupWindow)
	result := &KillFeedResult{Kept: len(kept), Dropped: len(events) - len(kept)}

	s.logger.Debug().
		Str("match_id", matchID).
		Int("events", len(events)).
		Int("kept", result.Kept).
		Msg("kill feed deduplicated")

	normalized, err := scoreboard.Normalize(killfeed.Tally(kept))
	if err != nil {
		s.metrics.ObserveWrite("killfeed", mode, err)
		return nil, err
	}
	if normalized.NoData {
		result.Scoreboard = &ScoreboardView{MatchID: matchID, NoData: true}
		result.Weapons = &WeaponAnalysisView{MatchID: matchID, NoData: true}
		return result, nil
	}

	if result.Scoreboard, err = s.writeScoreboard(ctx, "killfeed", matchID, normalized.Players, mode); err != nil {
		return nil, err
	}
	if result.Weapons, err = s.RecordWeaponAnalysis(ctx, matchID, killfeed.Weapons(kept), mode); err != nil {
		s.logger.Warn().Err(err).Str("match_id", matchID).Msg("kill feed stored a scoreboard without its weapon analysis")
		return nil, fmt.Errorf("scoreboard saved, weapon analysis failed: %w", err)
	}

	for _, e := range kept {
		if e.Weapon != "" {
			name, _ := domain.LookupWeapon(e.Weapon)
			s.metrics.ObserveKill(name)
		}
	}
	return result, nil
}

func (s *MatchService) RecordMatchHistory(ctx context.Context, matchID string, teamA, teamB []bool, mode domain.WriteMode) (*HistoryView, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	history, err := s.historyRepo.CreateOrUpdate(ctx, matchID, teamA, teamB, mode)
	s.metrics.ObserveWrite("history", mode, err)
	if err != nil {
		s.logger.Error().Err(err).Str("match_id", matchID).Msg("failed to store match history")
		return nil, fmt.Errorf("failed to store match history: %w", err)
	}

	s.logger.Info().Str("match_id", matchID).Int("rounds", len(history.TeamA)).Msg("match history stored")
	return newHistoryView(history), nil
}

func (s *MatchService) RecordWeaponAnalysis(ctx context.Context, matchID string, weapons []domain.WeaponStats, mode domain.WriteMode) (*WeaponAnalysisView, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	analysis, err := s.weaponRepo.CreateOrUpdate(ctx, matchID, weapons, mode)
	s.metrics.ObserveWrite("weapons", mode, err)
	if err != nil {
		s.logger.Error().Err(err).Str("match_id", matchID).Msg("failed to store weapon analysis")
		return nil, fmt.Errorf("failed to store weapon analysis: %w", err)
	}

	s.logger.Info().Str("match_id", matchID).Int("weapons", len(analysis.Weapons)).Msg("weapon analysis stored")
	return newWeaponAnalysisView(analysis), nil
}

func (s *MatchService) GetScoreboard(ctx context.Context, matchID string) (*ScoreboardView, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	stored, err := s.statsRepo.GetByMatchID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return newScoreboardView(matchID, stored.Players, stored.UpdatedAt), nil
}

func (s *MatchService) GetMatchHistory(ctx context.Context, matchID string) (*HistoryView, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	history, err := s.historyRepo.GetByMatchID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return newHistoryView(history), nil
}

func (s *MatchService) GetWeaponAnalysis(ctx context.Context, matchID string) (*WeaponAnalysisView, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	analysis, err := s.weaponRepo.GetByMatchID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return newWeaponAnalysisView(analysis), nil
}

// GetSessionScoreboard renders the scoreboard most recently uploaded in a
// session. A missing or expired session reads as NoData.
func (s *MatchService) GetSessionScoreboard(_ context.Context, sessionID string) (*ScoreboardView, error) {
	board, ok := s.sessions.Get(sessionID)
	if !ok {
		return &ScoreboardView{NoData: true}, nil
	}

	result, err := scoreboard.Normalize(board.Raw)
	if err != nil {
		return nil, err
	}
	if result.NoData {
		return &ScoreboardView{MatchID: board.MatchID, NoData: true, UpdatedAt: board.UpdatedAt}, nil
	}
	return newScoreboardView(board.MatchID, result.Players, board.UpdatedAt), nil
}

// ClearSession forgets the session's scoreboard.
func (s *MatchService) ClearSession(sessionID string) bool {
	cleared := s.sessions.Clear(sessionID)
	if cleared {
		s.logger.Debug().Str("session_id", sessionID).Msg("session scoreboard cleared")
	}
	return cleared
}

func since(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
