package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"valorant-stats/internal/constants"
	"valorant-stats/internal/domain"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type UploadResult struct {
	SessionID  string
	MatchID    string
	Scoreboard *ScoreboardView
}

// UploadVideo forwards a video to the analysis service, stores the returned
// scoreboard under a fresh match id and makes it the session's current match.
// An empty sessionID starts a new session. When the analysis found no players
// nothing is stored and the result carries an empty MatchID.
func (s *MatchService) UploadVideo(ctx context.Context, sessionID, filename string, video io.Reader) (*UploadResult, error) {
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	s.ClearSession(sessionID)

	start := time.Now()
	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	resp, err := s.analyzer.Upload(apiCtx, filename, video)
	s.metrics.ObserveUpload(err)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Str("filename", filename).Msg("video analysis failed")
		return nil, fmt.Errorf("video analysis failed: %w", err)
	}

	s.logger.Info().
		Str("session_id", sessionID).
		Str("filename", filename).
		Int("entries", len(resp.Scoreboard)).
		Int64("duration_ms", since(start)).
		Msg("video analyzed")

	matchID, err := gonanoid.New(constants.MatchIDLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate match id: %w", err)
	}

	view, err := s.IngestScoreboard(ctx, matchID, resp.Scoreboard, domain.WriteCreate)
	if err != nil {
		return nil, err
	}
	if view.NoData {
		// nothing was stored, so there is no match to point at
		matchID = ""
		view.MatchID = ""
	}

	s.sessions.Populate(sessionID, matchID, resp.Scoreboard)
	return &UploadResult{SessionID: sessionID, MatchID: matchID, Scoreboard: view}, nil
}
