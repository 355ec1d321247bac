// Package stats derives every displayed or stored metric from its inputs so list
// views, summary footers and persisted fields never disagree.
package stats

import (
	"math"

	"valorant-stats/internal/domain"
)

// KillDeathRatio falls back to kills when deaths is zero, otherwise rounds to two
// decimal places.
func KillDeathRatio(kills, deaths int) float64 {
	if deaths == 0 {
		return float64(kills)
	}
	return math.Round(float64(kills)/float64(deaths)*100) / 100
}

type killCounter interface {
	KillCount() int
}

type damageCounter interface {
	DamageTotal() int
}

func TotalKills[T killCounter](list []T) int {
	total := 0
	for _, item := range list {
		total += item.KillCount()
	}
	return total
}

func TotalDamage[T damageCounter](list []T) int {
	total := 0
	for _, item := range list {
		total += item.DamageTotal()
	}
	return total
}

// Wins counts the rounds flagged as won, independent of the other team's flags.
func Wins(outcomes []bool) int {
	wins := 0
	for _, won := range outcomes {
		if won {
			wins++
		}
	}
	return wins
}

// RoundOutcomes resolves each round: a team A flag wins the round even if team B
// is also flagged, a team B flag wins otherwise, and no flag is a draw. Rounds
// beyond the shorter slice are ignored.
func RoundOutcomes(teamA, teamB []bool) []domain.RoundOutcome {
	n := min(len(teamA), len(teamB))
	outcomes := make([]domain.RoundOutcome, n)
	for i := 0; i < n; i++ {
		switch {
		case teamA[i]:
			outcomes[i] = domain.RoundTeamA
		case teamB[i]:
			outcomes[i] = domain.RoundTeamB
		default:
			outcomes[i] = domain.RoundDraw
		}
	}
	return outcomes
}

// HistorySummary counts resolved rounds, so TeamAWins+TeamBWins+Draws always
// equals Rounds. Use Wins for the raw per-team flag counts.
type HistorySummary struct {
	Rounds    int
	TeamAWins int
	TeamBWins int
	Draws     int
	Outcomes  []domain.RoundOutcome
}

func Summarize(history domain.MatchHistory) HistorySummary {
	summary := HistorySummary{Outcomes: RoundOutcomes(history.TeamA, history.TeamB)}
	summary.Rounds = len(summary.Outcomes)
	for _, o := range summary.Outcomes {
		switch o {
		case domain.RoundTeamA:
			summary.TeamAWins++
		case domain.RoundTeamB:
			summary.TeamBWins++
		case domain.RoundDraw:
			summary.Draws++
		}
	}
	return summary
}

type Totals struct {
	Kills          int
	Deaths         int
	Assists        int
	Headshots      int
	KillDeathRatio float64
}

func PlayerTotals(players []domain.PlayerStats) Totals {
	var t Totals
	for _, p := range players {
		t.Kills += p.Kills
		t.Deaths += p.Deaths
		t.Assists += p.Assists
		t.Headshots += p.Headshots
	}
	t.KillDeathRatio = KillDeathRatio(t.Kills, t.Deaths)
	return t
}

// WithDerived returns a copy of p with its derived fields recomputed.
func WithDerived(p domain.PlayerStats) domain.PlayerStats {
	p.KillDeathRatio = KillDeathRatio(p.Kills, p.Deaths)
	return p
}
