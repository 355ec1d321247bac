// Package scoreboard turns the analysis service's raw "<team>_<name>" keyed stats
// mapping into typed player records.
package scoreboard

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"valorant-stats/internal/constants"
	"valorant-stats/internal/domain"
	"valorant-stats/internal/stats"

	"github.com/mitchellh/mapstructure"
)

// Result is either a list of players or the "no data available" empty state.
type Result struct {
	Players []domain.PlayerStats
	NoData  bool
}

type rawStats struct {
	Kills     *float64 `mapstructure:"kills"`
	Deaths    *float64 `mapstructure:"deaths"`
	Assists   *float64 `mapstructure:"assists"`
	Headshots *float64 `mapstructure:"headshots"`

	DamagePerRound        *float64       `mapstructure:"damage_per_round"`
	DamagePerRoundAlt     *float64       `mapstructure:"damagePerRound"`
	HeadshotPercentage    *float64       `mapstructure:"headshot_percentage"`
	HeadshotPercentageAlt *float64       `mapstructure:"headshotPercentage"`
	AgentName             string         `mapstructure:"agent_name"`
	AgentNameAlt          string         `mapstructure:"agentName"`
	Extra                 map[string]any `mapstructure:",remain"`
}

// Normalize parses a raw stats mapping. Absent or non-object input, or an empty
// object, yields Result{NoData: true} and no error. Entries are emitted in key
// order so repeated calls produce the same list.
func Normalize(raw any) (Result, error) {
	mapping, ok := raw.(map[string]any)
	if !ok || len(mapping) == 0 {
		return Result{NoData: true}, nil
	}

	keys := make([]string, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs domain.ValidationErrors
	players := make([]domain.PlayerStats, 0, len(keys))
	for _, id := range keys {
		player, entryErrs := parseEntry(id, mapping[id])
		if len(entryErrs) > 0 {
			errs = append(errs, entryErrs...)
			continue
		}
		players = append(players, player)
	}

	if err := errs.Err(); err != nil {
		return Result{}, err
	}
	return Result{Players: players}, nil
}

// ParseIdentifier splits "green_Jett" into its team color and player name on the
// first delimiter.
func ParseIdentifier(id string) (domain.TeamColor, string, error) {
	team, name, found := strings.Cut(id, constants.TeamDelimiter)
	if !found || team == "" || name == "" {
		return "", "", domain.NewValidationError(id, domain.MalformedIdentifier,
			"expected <team>%s<name>", constants.TeamDelimiter)
	}
	color := domain.TeamColor(team)
	if !color.Valid() {
		return "", "", domain.NewValidationError(id, domain.UnknownTeamColor, "%q is not green or red", team)
	}
	return color, name, nil
}

func parseEntry(id string, value any) (domain.PlayerStats, domain.ValidationErrors) {
	color, name, err := ParseIdentifier(id)
	if err != nil {
		return domain.PlayerStats{}, domain.ValidationErrors{err.(*domain.ValidationError)}
	}

	fields, ok := value.(map[string]any)
	if !ok {
		return domain.PlayerStats{}, domain.ValidationErrors{
			domain.NewValidationError(id, domain.InvalidField, "stats must be an object, got %T", value),
		}
	}

	var rs rawStats
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{Result: &rs})
	if err != nil {
		return domain.PlayerStats{}, domain.ValidationErrors{
			domain.NewValidationError(id, domain.InvalidField, "%v", err),
		}
	}
	if err := decoder.Decode(fields); err != nil {
		return domain.PlayerStats{}, domain.ValidationErrors{
			domain.NewValidationError(id, domain.InvalidField, "%v", err),
		}
	}

	var errs domain.ValidationErrors
	kills, errs := count(errs, id, "kills", rs.Kills)
	deaths, errs := count(errs, id, "deaths", rs.Deaths)
	assists, errs := count(errs, id, "assists", rs.Assists)
	headshots, errs := count(errs, id, "headshots", rs.Headshots)
	if len(errs) > 0 {
		return domain.PlayerStats{}, errs
	}

	player := domain.PlayerStats{
		PlayerName:         name,
		TeamColor:          color,
		AgentName:          firstNonEmpty(rs.AgentName, rs.AgentNameAlt),
		Kills:              kills,
		Deaths:             deaths,
		Assists:            assists,
		Headshots:          headshots,
		DamagePerRound:     firstSet(rs.DamagePerRound, rs.DamagePerRoundAlt),
		HeadshotPercentage: firstSet(rs.HeadshotPercentage, rs.HeadshotPercentageAlt),
	}
	if player.AgentName == "" {
		// the kill feed identifies players by the agent they play
		if agent, known := domain.LookupAgent(name); known {
			player.AgentName = agent
		}
	}

	return stats.WithDerived(player), nil
}

func count(errs domain.ValidationErrors, id, field string, v *float64) (int, domain.ValidationErrors) {
	path := fmt.Sprintf("%s.%s", id, field)
	switch {
	case v == nil:
		return 0, append(errs, domain.NewValidationError(path, domain.MissingField, "required"))
	case *v > math.MaxInt32: // includes +Inf
		return 0, append(errs, domain.NewValidationError(path, domain.FieldOutOfRange, "%v exceeds %d", *v, math.MaxInt32))
	case *v != math.Trunc(*v):
		return 0, append(errs, domain.NewValidationError(path, domain.InvalidField, "%v is not a whole number", *v))
	case *v < 0:
		return 0, append(errs, domain.NewValidationError(path, domain.FieldOutOfRange, "%v is negative", *v))
	}
	return int(*v), errs
}

func firstSet(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			out := *v
			return &out
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
