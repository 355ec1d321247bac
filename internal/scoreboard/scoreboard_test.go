package scoreboard_test

import (
	"encoding/json"
	"math"
	"testing"

	"valorant-stats/internal/constants"
	"valorant-stats/internal/domain"
	"valorant-stats/internal/scoreboard"
	"valorant-stats/internal/stats"

	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) any {
	t.Helper()
	var raw any
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	return raw
}

func TestNormalizeSinglePlayer(t *testing.T) {
	t.Parallel()

	result, err := scoreboard.Normalize(decode(t, `{"green_Jett": {"kills":1,"deaths":0,"assists":0,"headshots":1}}`))
	require.NoError(t, err)
	require.False(t, result.NoData)
	require.Len(t, result.Players, 1)

	p := result.Players[0]
	require.Equal(t, domain.TeamGreen, p.TeamColor)
	require.Equal(t, "Jett", p.PlayerName)
	require.InDelta(t, 1.0, p.KillDeathRatio, 1e-9)
	require.Equal(t, "Jett", p.AgentName)
	require.Nil(t, p.DamagePerRound)
	require.Nil(t, p.HeadshotPercentage)
}

func TestNormalizeRecomputesRatio(t *testing.T) {
	t.Parallel()

	result, err := scoreboard.Normalize(decode(t,
		`{"red_Sage": {"kills":3,"deaths":1,"assists":0,"headshots":1,"kill_death_ratio":1.5,"team_color":"red","weapon_used":null}}`))
	require.NoError(t, err)
	require.Len(t, result.Players, 1)
	require.InDelta(t, 3.0, result.Players[0].KillDeathRatio, 1e-9)
	require.Equal(t, domain.TeamRed, result.Players[0].TeamColor)
}

func TestNormalizeNoData(t *testing.T) {
	t.Parallel()

	for _, raw := range []any{nil, map[string]any{}, "scoreboard", 12.0, []any{1, 2}} {
		result, err := scoreboard.Normalize(raw)
		require.NoError(t, err)
		require.True(t, result.NoData)
		require.Empty(t, result.Players)
	}
}

func TestNormalizeIdentifierErrors(t *testing.T) {
	t.Parallel()

	stats := map[string]any{"kills": 1, "deaths": 1, "assists": 0, "headshots": 0}

	_, err := scoreboard.Normalize(map[string]any{"Jett": stats})
	require.True(t, domain.HasKind(err, domain.MalformedIdentifier))

	_, err = scoreboard.Normalize(map[string]any{"green_": stats})
	require.True(t, domain.HasKind(err, domain.MalformedIdentifier))

	_, err = scoreboard.Normalize(map[string]any{"blue_Jett": stats})
	require.True(t, domain.HasKind(err, domain.UnknownTeamColor))
}

func TestNormalizeFieldErrors(t *testing.T) {
	t.Parallel()

	_, err := scoreboard.Normalize(map[string]any{
		"green_Omen": map[string]any{"kills": -1, "deaths": 0, "assists": 0, "headshots": 0},
	})
	require.True(t, domain.HasKind(err, domain.FieldOutOfRange))

	_, err = scoreboard.Normalize(map[string]any{
		"green_Omen": map[string]any{"kills": 1, "assists": 0, "headshots": 0},
	})
	require.True(t, domain.HasKind(err, domain.MissingField))

	_, err = scoreboard.Normalize(map[string]any{
		"green_Omen": map[string]any{"kills": "three", "deaths": 0, "assists": 0, "headshots": 0},
	})
	require.True(t, domain.HasKind(err, domain.InvalidField))

	_, err = scoreboard.Normalize(map[string]any{"green_Omen": 3})
	require.True(t, domain.HasKind(err, domain.InvalidField))

	_, err = scoreboard.Normalize(map[string]any{
		"green_Omen": map[string]any{"kills": 1.5, "deaths": 0, "assists": 0, "headshots": 0},
	})
	require.True(t, domain.HasKind(err, domain.InvalidField))

	for _, huge := range []float64{1e20, math.Inf(1), math.MaxInt32 + 1} {
		_, err = scoreboard.Normalize(map[string]any{
			"green_Omen": map[string]any{"kills": huge, "deaths": 0, "assists": 0, "headshots": 0},
		})
		require.True(t, domain.HasKind(err, domain.FieldOutOfRange), "kills=%v", huge)

		var list domain.ValidationErrors
		require.ErrorAs(t, err, &list)
		require.Equal(t, "green_Omen.kills", list[0].Field)
	}

	_, err = scoreboard.Normalize(map[string]any{
		"green_Omen": map[string]any{"kills": math.NaN(), "deaths": 0, "assists": 0, "headshots": 0},
	})
	require.True(t, domain.HasKind(err, domain.InvalidField))

	result, err := scoreboard.Normalize(map[string]any{
		"green_Omen": map[string]any{"kills": math.MaxInt32, "deaths": 0, "assists": 0, "headshots": 0},
	})
	require.NoError(t, err)
	require.Equal(t, math.MaxInt32, result.Players[0].Kills)
}

func TestNormalizeOptionalFields(t *testing.T) {
	t.Parallel()

	result, err := scoreboard.Normalize(decode(t, `{
		"red_Glaciot214": {"kills":15,"deaths":20,"assists":2,"headshots":1,
			"damagePerRound": 0, "headshot_percentage": 3, "agent_name": "Chamber"}
	}`))
	require.NoError(t, err)
	p := result.Players[0]
	require.NotNil(t, p.DamagePerRound)
	require.Zero(t, *p.DamagePerRound)
	require.InDelta(t, 3.0, *p.HeadshotPercentage, 1e-9)
	require.Equal(t, "Chamber", p.AgentName)
	require.InDelta(t, 0.75, p.KillDeathRatio, 1e-9)
}

const matchBody = `{
	"green_Jett":    {"kills":1,"deaths":0,"assists":0,"headshots":1},
	"green_Neon":    {"kills":1,"deaths":1,"assists":1,"headshots":0},
	"green_Raze":    {"kills":4,"deaths":1,"assists":0,"headshots":1},
	"green_Reyna":   {"kills":0,"deaths":2,"assists":0,"headshots":0},
	"green_Yoru":    {"kills":0,"deaths":3,"assists":0,"headshots":0},
	"red_Harbor":    {"kills":1,"deaths":0,"assists":0,"headshots":0},
	"red_Iso":       {"kills":1,"deaths":0,"assists":0,"headshots":0},
	"red_Jett":      {"kills":0,"deaths":1,"assists":0,"headshots":0},
	"red_Phoenix":   {"kills":0,"deaths":1,"assists":0,"headshots":0},
	"red_Reyna":     {"kills":0,"deaths":1,"assists":0,"headshots":0},
	"red_Sage":      {"kills":3,"deaths":1,"assists":0,"headshots":1},
	"red_Yoru":      {"kills":1,"deaths":1,"assists":0,"headshots":0}
}`

func TestNormalizeFullMatch(t *testing.T) {
	t.Parallel()

	raw := decode(t, matchBody)
	result, err := scoreboard.Normalize(raw)
	require.NoError(t, err)
	require.Len(t, result.Players, 12)

	rawKills := 0
	for _, v := range raw.(map[string]any) {
		rawKills += int(v.(map[string]any)["kills"].(float64))
	}
	require.Equal(t, rawKills, stats.TotalKills(result.Players))

	for _, p := range result.Players {
		require.True(t, p.TeamColor.Valid())
		require.NotEmpty(t, p.PlayerName)
	}

	green, red := scoreboard.Partition(result.Players)
	require.Len(t, green, 5)
	require.Len(t, red, 7)
	require.Len(t, result.Players, 12, "partition must not modify the list")

	again, err := scoreboard.Normalize(raw)
	require.NoError(t, err)
	require.Equal(t, result.Players, again.Players)
}

func TestFromPlayersIdempotent(t *testing.T) {
	t.Parallel()

	result, err := scoreboard.Normalize(decode(t, matchBody))
	require.NoError(t, err)

	once := scoreboard.FromPlayers(result.Players)
	require.Equal(t, result.Players, once)
	require.Equal(t, once, scoreboard.FromPlayers(once))
}

func TestToRawRoundTrip(t *testing.T) {
	t.Parallel()

	result, err := scoreboard.Normalize(decode(t, matchBody))
	require.NoError(t, err)

	back, err := scoreboard.Normalize(scoreboard.ToRaw(result.Players))
	require.NoError(t, err)
	require.Equal(t, result.Players, back.Players)
}

func TestAvatarPath(t *testing.T) {
	t.Parallel()

	require.Equal(t, "/images/agents/Jett.png", scoreboard.AvatarPath(domain.PlayerStats{AgentName: "Jett"}))
	require.Equal(t, "/images/agents/KAYO.png", scoreboard.AvatarPath(domain.PlayerStats{AgentName: "KAY/O"}))
	require.Equal(t, constants.DefaultAvatarPath, scoreboard.AvatarPath(domain.PlayerStats{PlayerName: "BrainX"}))
}
