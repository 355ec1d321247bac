package server

import (
	"encoding/json"
	"time"

	"valorant-stats/internal/domain"
	"valorant-stats/internal/service"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

type MatchRequest struct {
	MatchID string `json:"matchId"`
}

type SessionRequest struct {
	SessionID string `json:"sessionId"`
}

type UploadVideoRequest struct {
	SessionID string `json:"sessionId"`
	Filename  string `json:"filename"`
	Video     []byte `json:"video"`
}

type UploadVideoResponse struct {
	SessionID  string      `json:"sessionId"`
	MatchID    string      `json:"matchId"`
	Scoreboard *Scoreboard `json:"scoreboard"`
}

type IngestScoreboardRequest struct {
	MatchID    string          `json:"matchId"`
	Mode       string          `json:"mode"`
	Scoreboard json.RawMessage `json:"scoreboard"`
}

type KillEvent struct {
	Killer     string   `json:"killer"`
	KillerTeam string   `json:"killerTeam"`
	Victim     string   `json:"victim"`
	VictimTeam string   `json:"victimTeam"`
	Weapon     string   `json:"weapon"`
	Headshot   bool     `json:"headshot"`
	Wallbang   bool     `json:"wallbang"`
	Assists    []string `json:"assists,omitempty"`
	Damage     int      `json:"damage,omitempty"`
	Timestamp  float64  `json:"timestamp"`
}

type IngestKillFeedRequest struct {
	MatchID string      `json:"matchId"`
	Mode    string      `json:"mode"`
	Events  []KillEvent `json:"events"`
}

type IngestKillFeedResponse struct {
	Scoreboard *Scoreboard     `json:"scoreboard"`
	Weapons    *WeaponAnalysis `json:"weapons"`
	Kept       int             `json:"kept"`
	Dropped    int             `json:"dropped"`
}

type RecordMatchHistoryRequest struct {
	MatchID string `json:"matchId"`
	Mode    string `json:"mode"`
	TeamA   []bool `json:"teamA"`
	TeamB   []bool `json:"teamB"`
}

type RecordWeaponAnalysisRequest struct {
	MatchID string   `json:"matchId"`
	Mode    string   `json:"mode"`
	Weapons []Weapon `json:"weapons"`
}

type Player struct {
	PlayerName         string   `json:"playerName"`
	TeamColor          string   `json:"teamColor"`
	AgentName          string   `json:"agentName,omitempty"`
	AgentID            string   `json:"agentId,omitempty"`
	AvatarPath         string   `json:"avatarPath"`
	Kills              int      `json:"kills"`
	Deaths             int      `json:"deaths"`
	Assists            int      `json:"assists"`
	Headshots          int      `json:"headshots"`
	KillDeathRatio     float64  `json:"killDeathRatio"`
	DamagePerRound     *float64 `json:"damagePerRound,omitempty"`
	HeadshotPercentage *float64 `json:"headshotPercentage,omitempty"`
}

type Totals struct {
	Kills          int     `json:"kills"`
	Deaths         int     `json:"deaths"`
	Assists        int     `json:"assists"`
	Headshots      int     `json:"headshots"`
	KillDeathRatio float64 `json:"killDeathRatio"`
}

type Scoreboard struct {
	MatchID   string   `json:"matchId"`
	NoData    bool     `json:"noData"`
	Green     []Player `json:"green"`
	Red       []Player `json:"red"`
	Totals    Totals   `json:"totals"`
	UpdatedAt string   `json:"updatedAt,omitempty"`
}

type MatchHistory struct {
	MatchID   string   `json:"matchId"`
	NoData    bool     `json:"noData"`
	TeamA     []bool   `json:"teamA"`
	TeamB     []bool   `json:"teamB"`
	Rounds    int      `json:"rounds"`
	TeamAWins int      `json:"teamAWins"`
	TeamBWins int      `json:"teamBWins"`
	Draws     int      `json:"draws"`
	Outcomes  []string `json:"outcomes"`
	UpdatedAt string   `json:"updatedAt,omitempty"`
}

type Weapon struct {
	WeaponName    string `json:"weaponName"`
	WeaponType    string `json:"weaponType,omitempty"`
	Kills         int    `json:"kills"`
	Damage        int    `json:"damage"`
	DamageDisplay string `json:"damageDisplay,omitempty"`
}

type WeaponAnalysis struct {
	MatchID            string   `json:"matchId"`
	NoData             bool     `json:"noData"`
	Weapons            []Weapon `json:"weapons"`
	TotalKills         int      `json:"totalKills"`
	TotalDamage        int      `json:"totalDamage"`
	TotalDamageDisplay string   `json:"totalDamageDisplay"`
	UpdatedAt          string   `json:"updatedAt,omitempty"`
}

type MatchOverview struct {
	MatchID    string          `json:"matchId"`
	Scoreboard *Scoreboard     `json:"scoreboard"`
	History    *MatchHistory   `json:"history"`
	Weapons    *WeaponAnalysis `json:"weapons"`
}

func parseMode(mode string) (domain.WriteMode, error) {
	switch mode {
	case "", "create":
		return domain.WriteCreate, nil
	case "update":
		return domain.WriteUpdate, nil
	default:
		return 0, domain.ValidationErrors{domain.NewValidationError("mode", domain.InvalidField, "must be create or update, got %q", mode)}
	}
}

// decodeScoreboard reads the raw scoreboard object. A missing or null field is
// an empty scoreboard; any other non-object JSON is rejected.
func decodeScoreboard(data json.RawMessage) (map[string]any, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var raw structpb.Struct
	if err := protojson.Unmarshal(data, &raw); err != nil {
		return nil, domain.ValidationErrors{domain.NewValidationError("scoreboard", domain.InvalidField, "must be a JSON object: %v", err)}
	}
	return raw.AsMap(), nil
}

func toKillEvents(events []KillEvent) []domain.KillEvent {
	out := make([]domain.KillEvent, len(events))
	for i, e := range events {
		out[i] = domain.KillEvent{
			Killer:     e.Killer,
			KillerTeam: domain.TeamColor(e.KillerTeam),
			Victim:     e.Victim,
			VictimTeam: domain.TeamColor(e.VictimTeam),
			Weapon:     e.Weapon,
			Headshot:   e.Headshot,
			Wallbang:   e.Wallbang,
			Assists:    e.Assists,
			Damage:     e.Damage,
			Timestamp:  e.Timestamp,
		}
	}
	return out
}

func toWeaponStats(weapons []Weapon) []domain.WeaponStats {
	out := make([]domain.WeaponStats, len(weapons))
	for i, w := range weapons {
		out[i] = domain.WeaponStats{
			WeaponName: w.WeaponName,
			WeaponType: domain.WeaponType(w.WeaponType),
			Kills:      w.Kills,
			Damage:     w.Damage,
		}
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func fromScoreboard(v *service.ScoreboardView) *Scoreboard {
	if v == nil {
		return nil
	}
	return &Scoreboard{
		MatchID: v.MatchID,
		NoData:  v.NoData,
		Green:   fromPlayers(v.Green),
		Red:     fromPlayers(v.Red),
		Totals: Totals{
			Kills:          v.Totals.Kills,
			Deaths:         v.Totals.Deaths,
			Assists:        v.Totals.Assists,
			Headshots:      v.Totals.Headshots,
			KillDeathRatio: v.Totals.KillDeathRatio,
		},
		UpdatedAt: formatTime(v.UpdatedAt),
	}
}

func fromPlayers(players []service.PlayerView) []Player {
	out := make([]Player, len(players))
	for i, p := range players {
		out[i] = Player{
			PlayerName:         p.PlayerName,
			TeamColor:          string(p.TeamColor),
			AgentName:          p.AgentName,
			AgentID:            domain.AgentID(p.AgentName),
			AvatarPath:         p.AvatarPath,
			Kills:              p.Kills,
			Deaths:             p.Deaths,
			Assists:            p.Assists,
			Headshots:          p.Headshots,
			KillDeathRatio:     p.KillDeathRatio,
			DamagePerRound:     p.DamagePerRound,
			HeadshotPercentage: p.HeadshotPercentage,
		}
	}
	return out
}

func fromHistory(v *service.HistoryView) *MatchHistory {
	if v == nil {
		return nil
	}
	outcomes := make([]string, len(v.Summary.Outcomes))
	for i, o := range v.Summary.Outcomes {
		outcomes[i] = string(o)
	}
	return &MatchHistory{
		MatchID:   v.MatchID,
		NoData:    v.NoData,
		TeamA:     v.TeamA,
		TeamB:     v.TeamB,
		Rounds:    v.Summary.Rounds,
		TeamAWins: v.Summary.TeamAWins,
		TeamBWins: v.Summary.TeamBWins,
		Draws:     v.Summary.Draws,
		Outcomes:  outcomes,
		UpdatedAt: formatTime(v.UpdatedAt),
	}
}

func fromWeaponAnalysis(v *service.WeaponAnalysisView) *WeaponAnalysis {
	if v == nil {
		return nil
	}
	weapons := make([]Weapon, len(v.Weapons))
	for i, w := range v.Weapons {
		weapons[i] = Weapon{
			WeaponName:    w.WeaponName,
			WeaponType:    string(w.WeaponType),
			Kills:         w.Kills,
			Damage:        w.Damage,
			DamageDisplay: w.DamageDisplay,
		}
	}
	return &WeaponAnalysis{
		MatchID:            v.MatchID,
		NoData:             v.NoData,
		Weapons:            weapons,
		TotalKills:         v.TotalKills,
		TotalDamage:        v.TotalDamage,
		TotalDamageDisplay: v.TotalDamageDisplay,
		UpdatedAt:          formatTime(v.UpdatedAt),
	}
}
