package service

import (
	"context"
	"errors"

	"valorant-stats/internal/constants"
	"valorant-stats/internal/domain"

	"golang.org/x/sync/errgroup"
)

// GetMatchOverview reads all three aggregates of a match concurrently. Any one
// of them may be missing and is reported as NoData; only a match with none of
// them is NotFound.
func (s *MatchService) GetMatchOverview(ctx context.Context, matchID string) (*MatchOverview, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	overview := &MatchOverview{MatchID: matchID}
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		view, err := s.GetScoreboard(gCtx, matchID)
		if errors.Is(err, domain.ErrNotFound) {
			view, err = &ScoreboardView{MatchID: matchID, NoData: true}, nil
		}
		overview.Scoreboard = view
		return err
	})

	g.Go(func() error {
		view, err := s.GetMatchHistory(gCtx, matchID)
		if errors.Is(err, domain.ErrNotFound) {
			view, err = &HistoryView{MatchID: matchID, NoData: true}, nil
		}
		overview.History = view
		return err
	})

	g.Go(func() error {
		view, err := s.GetWeaponAnalysis(gCtx, matchID)
		if errors.Is(err, domain.ErrNotFound) {
			view, err = &WeaponAnalysisView{MatchID: matchID, NoData: true}, nil
		}
		overview.Weapons = view
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("match_id", matchID).Msg("failed to load match overview")
		return nil, err
	}

	if overview.Scoreboard.NoData && overview.History.NoData && overview.Weapons.NoData &&
		overview.Scoreboard.UpdatedAt.IsZero() && overview.History.UpdatedAt.IsZero() && overview.Weapons.UpdatedAt.IsZero() {
		return nil, &domain.NotFoundError{Entity: "match", MatchID: matchID}
	}
	return overview, nil
}
