package fx

import (
	"valorant-stats/internal/api"
	"valorant-stats/internal/config"
	"valorant-stats/internal/database"
	"valorant-stats/internal/logger"
	"valorant-stats/internal/metrics"
	"valorant-stats/internal/repository"
	"valorant-stats/internal/server"
	"valorant-stats/internal/service"
	"valorant-stats/internal/session"

	"go.uber.org/fx"
)

func ProvideAnalyzer(client *api.AnalysisClient) service.Analyzer {
	return client
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	fx.Provide(metrics.New),
	fx.Provide(session.NewStore),
	// repos
	fx.Provide(repository.NewMatchStatsRepository),
	fx.Provide(repository.NewMatchHistoryRepository),
	fx.Provide(repository.NewWeaponAnalysisRepository),
	// api client
	fx.Provide(api.NewAnalysisClient),
	fx.Provide(ProvideAnalyzer),
	// svc
	fx.Provide(service.NewMatchService),
	// server
	fx.Provide(server.NewMatchStatsServer),
)
