package scoreboard

import (
	"strings"

	"valorant-stats/internal/constants"
	"valorant-stats/internal/domain"
	"valorant-stats/internal/stats"
)

// Partition splits players by team color without modifying the input.
func Partition(players []domain.PlayerStats) (green, red []domain.PlayerStats) {
	for _, p := range players {
		switch p.TeamColor {
		case domain.TeamGreen:
			green = append(green, p)
		case domain.TeamRed:
			red = append(red, p)
		}
	}
	return green, red
}

// FromPlayers re-normalizes an already typed list: order is kept and derived
// fields are recomputed, so applying it twice changes nothing.
func FromPlayers(players []domain.PlayerStats) []domain.PlayerStats {
	out := make([]domain.PlayerStats, len(players))
	for i, p := range players {
		out[i] = stats.WithDerived(p)
	}
	return out
}

// ToRaw renders players back into the raw identifier-keyed mapping.
func ToRaw(players []domain.PlayerStats) map[string]any {
	raw := make(map[string]any, len(players))
	for _, p := range players {
		entry := map[string]any{
			"kills":            p.Kills,
			"deaths":           p.Deaths,
			"assists":          p.Assists,
			"headshots":        p.Headshots,
			"team_color":       string(p.TeamColor),
			"kill_death_ratio": p.KillDeathRatio,
		}
		if p.AgentName != "" {
			entry["agent_name"] = p.AgentName
		}
		if p.DamagePerRound != nil {
			entry["damage_per_round"] = *p.DamagePerRound
		}
		if p.HeadshotPercentage != nil {
			entry["headshot_percentage"] = *p.HeadshotPercentage
		}
		raw[p.Identifier()] = entry
	}
	return raw
}

func AvatarPath(p domain.PlayerStats) string {
	if p.AgentName == "" {
		return constants.DefaultAvatarPath
	}
	return "/images/agents/" + strings.ReplaceAll(p.AgentName, "/", "") + ".png"
}
