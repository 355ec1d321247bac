package service

import (
	"time"

	"valorant-stats/internal/domain"
	"valorant-stats/internal/scoreboard"
	"valorant-stats/internal/stats"

	"github.com/dustin/go-humanize"
)

type PlayerView struct {
	domain.PlayerStats
	AvatarPath string
}

// ScoreboardView is what every reader returns for a match's players. NoData
// marks an empty scoreboard rather than an error.
type ScoreboardView struct {
	MatchID   string
	NoData    bool
	Green     []PlayerView
	Red       []PlayerView
	Totals    stats.Totals
	UpdatedAt time.Time
}

type HistoryView struct {
	MatchID   string
	NoData    bool
	TeamA     []bool
	TeamB     []bool
	Summary   stats.HistorySummary
	UpdatedAt time.Time
}

type WeaponView struct {
	domain.WeaponStats
	DamageDisplay string
}

type WeaponAnalysisView struct {
	MatchID            string
	NoData             bool
	Weapons            []WeaponView
	TotalKills         int
	TotalDamage        int
	TotalDamageDisplay string
	UpdatedAt          time.Time
}

type MatchOverview struct {
	MatchID    string
	Scoreboard *ScoreboardView
	History    *HistoryView
	Weapons    *WeaponAnalysisView
}

func newScoreboardView(matchID string, players []domain.PlayerStats, updatedAt time.Time) *ScoreboardView {
	if len(players) == 0 {
		return &ScoreboardView{MatchID: matchID, NoData: true, UpdatedAt: updatedAt}
	}

	players = scoreboard.FromPlayers(players)
	green, red := scoreboard.Partition(players)
	return &ScoreboardView{
		MatchID:   matchID,
		Green:     playerViews(green),
		Red:       playerViews(red),
		Totals:    stats.PlayerTotals(players),
		UpdatedAt: updatedAt,
	}
}

func playerViews(players []domain.PlayerStats) []PlayerView {
	views := make([]PlayerView, len(players))
	for i, p := range players {
		views[i] = PlayerView{PlayerStats: p, AvatarPath: scoreboard.AvatarPath(p)}
	}
	return views
}

func newHistoryView(history *domain.MatchHistory) *HistoryView {
	return &HistoryView{
		MatchID:   history.MatchID,
		NoData:    len(history.TeamA) == 0,
		TeamA:     history.TeamA,
		TeamB:     history.TeamB,
		Summary:   stats.Summarize(*history),
		UpdatedAt: history.UpdatedAt,
	}
}

func newWeaponAnalysisView(analysis *domain.WeaponAnalysis) *WeaponAnalysisView {
	views := make([]WeaponView, len(analysis.Weapons))
	for i, w := range analysis.Weapons {
		views[i] = WeaponView{WeaponStats: w, DamageDisplay: humanize.Comma(int64(w.Damage))}
	}
	totalDamage := stats.TotalDamage(analysis.Weapons)
	return &WeaponAnalysisView{
		MatchID:            analysis.MatchID,
		NoData:             len(analysis.Weapons) == 0,
		Weapons:            views,
		TotalKills:         stats.TotalKills(analysis.Weapons),
		TotalDamage:        totalDamage,
		TotalDamageDisplay: humanize.Comma(int64(totalDamage)),
		UpdatedAt:          analysis.UpdatedAt,
	}
}
