package server

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"valorant-stats/internal/constants"
	"valorant-stats/internal/service"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
	"google.golang.org/protobuf/types/known/emptypb"
)

const MatchStatsServiceName = "matchstats.v1.MatchStatsService"

const (
	UploadVideoProcedure          = "/" + MatchStatsServiceName + "/UploadVideo"
	IngestScoreboardProcedure     = "/" + MatchStatsServiceName + "/IngestScoreboard"
	IngestKillFeedProcedure       = "/" + MatchStatsServiceName + "/IngestKillFeed"
	RecordMatchHistoryProcedure   = "/" + MatchStatsServiceName + "/RecordMatchHistory"
	RecordWeaponAnalysisProcedure = "/" + MatchStatsServiceName + "/RecordWeaponAnalysis"
	GetScoreboardProcedure        = "/" + MatchStatsServiceName + "/GetScoreboard"
	GetSessionScoreboardProcedure = "/" + MatchStatsServiceName + "/GetSessionScoreboard"
	ClearSessionProcedure         = "/" + MatchStatsServiceName + "/ClearSession"
	GetMatchHistoryProcedure      = "/" + MatchStatsServiceName + "/GetMatchHistory"
	GetWeaponAnalysisProcedure    = "/" + MatchStatsServiceName + "/GetWeaponAnalysis"
	GetMatchOverviewProcedure     = "/" + MatchStatsServiceName + "/GetMatchOverview"
)

type MatchStatsServer struct {
	matchSvc *service.MatchService
	logger   zerolog.Logger
}

func NewMatchStatsServer(matchSvc *service.MatchService, logger zerolog.Logger) *MatchStatsServer {
	return &MatchStatsServer{matchSvc: matchSvc, logger: logger}
}

// HandlerOptions are the options every procedure is mounted with. Clients
// talking to the service need the same codec.
func HandlerOptions() []connect.HandlerOption {
	return []connect.HandlerOption{
		connect.WithCodec(jsonCodec{}),
		connect.WithReadMaxBytes(constants.MaxUploadBytes),
	}
}

// ClientOption configures a connect client for this service's JSON codec.
func ClientOption() connect.ClientOption {
	return connect.WithCodec(jsonCodec{})
}

// Handler returns the path prefix and handler serving every procedure.
func (s *MatchStatsServer) Handler() (string, http.Handler) {
	opts := append(HandlerOptions(), connect.WithInterceptors(s.logInterceptor()))

	mux := http.NewServeMux()
	mux.Handle(UploadVideoProcedure, connect.NewUnaryHandler(UploadVideoProcedure, s.UploadVideo, opts...))
	mux.Handle(IngestScoreboardProcedure, connect.NewUnaryHandler(IngestScoreboardProcedure, s.IngestScoreboard, opts...))
	mux.Handle(IngestKillFeedProcedure, connect.NewUnaryHandler(IngestKillFeedProcedure, s.IngestKillFeed, opts...))
	mux.Handle(RecordMatchHistoryProcedure, connect.NewUnaryHandler(RecordMatchHistoryProcedure, s.RecordMatchHistory, opts...))
	mux.Handle(RecordWeaponAnalysisProcedure, connect.NewUnaryHandler(RecordWeaponAnalysisProcedure, s.RecordWeaponAnalysis, opts...))
	mux.Handle(GetScoreboardProcedure, connect.NewUnaryHandler(GetScoreboardProcedure, s.GetScoreboard, opts...))
	mux.Handle(GetSessionScoreboardProcedure, connect.NewUnaryHandler(GetSessionScoreboardProcedure, s.GetSessionScoreboard, opts...))
	mux.Handle(ClearSessionProcedure, connect.NewUnaryHandler(ClearSessionProcedure, s.ClearSession, opts...))
	mux.Handle(GetMatchHistoryProcedure, connect.NewUnaryHandler(GetMatchHistoryProcedure, s.GetMatchHistory, opts...))
	mux.Handle(GetWeaponAnalysisProcedure, connect.NewUnaryHandler(GetWeaponAnalysisProcedure, s.GetWeaponAnalysis, opts...))
	mux.Handle(GetMatchOverviewProcedure, connect.NewUnaryHandler(GetMatchOverviewProcedure, s.GetMatchOverview, opts...))

	return "/" + MatchStatsServiceName + "/", mux
}

func (s *MatchStatsServer) logInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			logger := zerolog.Ctx(ctx)
			if logger.GetLevel() == zerolog.Disabled {
				logger = &s.logger
			}
			event := logger.Debug()
			if err != nil {
				event = logger.Warn().Err(err).Str("code", connect.CodeOf(err).String())
			}
			event.
				Str("procedure", req.Spec().Procedure).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Msg("rpc handled")
			return resp, err
		}
	}
}

func (s *MatchStatsServer) UploadVideo(ctx context.Context, req *connect.Request[UploadVideoRequest]) (*connect.Response[UploadVideoResponse], error) {
	result, err := s.matchSvc.UploadVideo(ctx, req.Msg.SessionID, req.Msg.Filename, bytes.NewReader(req.Msg.Video))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&UploadVideoResponse{
		SessionID:  result.SessionID,
		MatchID:    result.MatchID,
		Scoreboard: fromScoreboard(result.Scoreboard),
	}), nil
}

func (s *MatchStatsServer) IngestScoreboard(ctx context.Context, req *connect.Request[IngestScoreboardRequest]) (*connect.Response[Scoreboard], error) {
	mode, err := parseMode(req.Msg.Mode)
	if err != nil {
		return nil, toConnectError(err)
	}
	raw, err := decodeScoreboard(req.Msg.Scoreboard)
	if err != nil {
		return nil, toConnectError(err)
	}

	view, err := s.matchSvc.IngestScoreboard(ctx, req.Msg.MatchID, raw, mode)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(fromScoreboard(view)), nil
}

func (s *MatchStatsServer) IngestKillFeed(ctx context.Context, req *connect.Request[IngestKillFeedRequest]) (*connect.Response[IngestKillFeedResponse], error) {
	mode, err := parseMode(req.Msg.Mode)
	if err != nil {
		return nil, toConnectError(err)
	}

	result, err := s.matchSvc.IngestKillFeed(ctx, req.Msg.MatchID, toKillEvents(req.Msg.Events), mode)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&IngestKillFeedResponse{
		Scoreboard: fromScoreboard(result.Scoreboard),
		Weapons:    fromWeaponAnalysis(result.Weapons),
		Kept:       result.Kept,
		Dropped:    result.Dropped,
	}), nil
}

func (s *MatchStatsServer) RecordMatchHistory(ctx context.Context, req *connect.Request[RecordMatchHistoryRequest]) (*connect.Response[MatchHistory], error) {
	mode, err := parseMode(req.Msg.Mode)
	if err != nil {
		return nil, toConnectError(err)
	}

	view, err := s.matchSvc.RecordMatchHistory(ctx, req.Msg.MatchID, req.Msg.TeamA, req.Msg.TeamB, mode)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(fromHistory(view)), nil
}

func (s *MatchStatsServer) RecordWeaponAnalysis(ctx context.Context, req *connect.Request[RecordWeaponAnalysisRequest]) (*connect.Response[WeaponAnalysis], error) {
	mode, err := parseMode(req.Msg.Mode)
	if err != nil {
		return nil, toConnectError(err)
	}

	view, err := s.matchSvc.RecordWeaponAnalysis(ctx, req.Msg.MatchID, toWeaponStats(req.Msg.Weapons), mode)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(fromWeaponAnalysis(view)), nil
}

func (s *MatchStatsServer) GetScoreboard(ctx context.Context, req *connect.Request[MatchRequest]) (*connect.Response[Scoreboard], error) {
	view, err := s.matchSvc.GetScoreboard(ctx, req.Msg.MatchID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(fromScoreboard(view)), nil
}

func (s *MatchStatsServer) GetSessionScoreboard(ctx context.Context, req *connect.Request[SessionRequest]) (*connect.Response[Scoreboard], error) {
	view, err := s.matchSvc.GetSessionScoreboard(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(fromScoreboard(view)), nil
}

func (s *MatchStatsServer) ClearSession(_ context.Context, req *connect.Request[SessionRequest]) (*connect.Response[emptypb.Empty], error) {
	s.matchSvc.ClearSession(req.Msg.SessionID)
	return connect.NewResponse(&emptypb.Empty{}), nil
}

func (s *MatchStatsServer) GetMatchHistory(ctx context.Context, req *connect.Request[MatchRequest]) (*connect.Response[MatchHistory], error) {
	view, err := s.matchSvc.GetMatchHistory(ctx, req.Msg.MatchID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(fromHistory(view)), nil
}

func (s *MatchStatsServer) GetWeaponAnalysis(ctx context.Context, req *connect.Request[MatchRequest]) (*connect.Response[WeaponAnalysis], error) {
	view, err := s.matchSvc.GetWeaponAnalysis(ctx, req.Msg.MatchID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(fromWeaponAnalysis(view)), nil
}

func (s *MatchStatsServer) GetMatchOverview(ctx context.Context, req *connect.Request[MatchRequest]) (*connect.Response[MatchOverview], error) {
	overview, err := s.matchSvc.GetMatchOverview(ctx, req.Msg.MatchID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&MatchOverview{
		MatchID:    overview.MatchID,
		Scoreboard: fromScoreboard(overview.Scoreboard),
		History:    fromHistory(overview.History),
		Weapons:    fromWeaponAnalysis(overview.Weapons),
	}), nil
}
