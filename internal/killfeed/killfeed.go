// Package killfeed tallies kill-feed events read from gameplay video into the raw
// scoreboard mapping and per-weapon kill attribution.
package killfeed

import (
	"sort"

	"valorant-stats/internal/constants"
	"valorant-stats/internal/domain"
)

type eventKey struct {
	killer     string
	killerTeam domain.TeamColor
	victim     string
	victimTeam domain.TeamColor
	weapon     string
	headshot   bool
	wallbang   bool
}

// Dedupe drops events repeated by the feed: the same kill seen again within
// window seconds of the last kept occurrence. The result is ordered by timestamp.
func Dedupe(events []domain.KillEvent, window float64) []domain.KillEvent {
	sorted := make([]domain.KillEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	lastSeen := make(map[eventKey]float64)
	kept := make([]domain.KillEvent, 0, len(sorted))
	for _, e := range sorted {
		key := eventKey{e.Killer, e.KillerTeam, e.Victim, e.VictimTeam, e.Weapon, e.Headshot, e.Wallbang}
		if last, ok := lastSeen[key]; ok && e.Timestamp-last <= window {
			continue
		}
		lastSeen[key] = e.Timestamp
		kept = append(kept, e)
	}
	return kept
}

type line struct {
	Kills      int
	Deaths     int
	Assists    int
	Headshots  int
	Wallbangs  int
	TeamColor  domain.TeamColor
	WeaponUsed string
}

// Tally builds the raw identifier-keyed scoreboard in the same shape the analysis
// service returns, so it can be fed through the scoreboard normalizer.
func Tally(events []domain.KillEvent) map[string]any {
	lines := make(map[string]*line)
	get := func(team domain.TeamColor, name string) *line {
		id := string(team) + constants.TeamDelimiter + name
		l, ok := lines[id]
		if !ok {
			l = &line{TeamColor: team}
			lines[id] = l
		}
		return l
	}

	for _, e := range events {
		killer := get(e.KillerTeam, e.Killer)
		victim := get(e.VictimTeam, e.Victim)

		killer.Kills++
		if killer.WeaponUsed == "" {
			killer.WeaponUsed = e.Weapon
		}
		victim.Deaths++
		if e.Headshot {
			killer.Headshots++
		}
		if e.Wallbang {
			killer.Wallbangs++
		}
		for _, assister := range e.Assists {
			get(e.KillerTeam, assister).Assists++
		}
	}

	raw := make(map[string]any, len(lines))
	for id, l := range lines {
		entry := map[string]any{
			"kills":      l.Kills,
			"deaths":     l.Deaths,
			"assists":    l.Assists,
			"headshots":  l.Headshots,
			"wallbangs":  l.Wallbangs,
			"team_color": string(l.TeamColor),
		}
		if l.WeaponUsed != "" {
			entry["weapon_used"] = l.WeaponUsed
		}
		raw[id] = entry
	}
	return raw
}

// Weapons attributes each kill to the weapon shown in the feed. Weapons are
// ordered by kills, then name.
func Weapons(events []domain.KillEvent) []domain.WeaponStats {
	byName := make(map[string]*domain.WeaponStats)
	for _, e := range events {
		if e.Weapon == "" {
			continue
		}
		name, kind := domain.LookupWeapon(e.Weapon)
		w, ok := byName[name]
		if !ok {
			w = &domain.WeaponStats{WeaponName: name, WeaponType: kind}
			byName[name] = w
		}
		w.Kills++
		w.Damage += e.Damage
	}

	weapons := make([]domain.WeaponStats, 0, len(byName))
	for _, w := range byName {
		weapons = append(weapons, *w)
	}
	sort.Slice(weapons, func(i, j int) bool {
		if weapons[i].Kills != weapons[j].Kills {
			return weapons[i].Kills > weapons[j].Kills
		}
		return weapons[i].WeaponName < weapons[j].WeaponName
	})
	return weapons
}
