package domain

import (
	"time"
)

type TeamColor string

const (
	TeamGreen TeamColor = "green"
	TeamRed   TeamColor = "red"
)

func (t TeamColor) Valid() bool {
	return t == TeamGreen || t == TeamRed
}

// PlayerStats is one scoreboard row. AgentName is empty when the source did
// not report one. The validate tags are checked in field order by the
// validate package.
type PlayerStats struct {
	PlayerName     string    `validate:"required,notblank"`
	TeamColor      TeamColor `validate:"teamcolor"`
	AgentName      string
	Kills          int `validate:"gte=0"`
	Deaths         int `validate:"gte=0"`
	Assists        int `validate:"gte=0"`
	Headshots      int `validate:"gte=0"`
	KillDeathRatio float64

	// DamagePerRound and HeadshotPercentage are optional: nil means "no data",
	// which is distinct from zero. They are stored as NULL and left out of
	// responses when unset. Kill feed ingestion never sets them, and scoreboard
	// ingestion only does when the analysis payload carries them.
	DamagePerRound     *float64 `validate:"omitempty,gte=0"`
	HeadshotPercentage *float64 `validate:"omitempty,gte=0,lte=100"`
}

// Identifier is the raw scoreboard key, e.g. "green_Jett".
func (p PlayerStats) Identifier() string {
	return string(p.TeamColor) + "_" + p.PlayerName
}

func (p PlayerStats) KillCount() int { return p.Kills }

type WeaponType string

const (
	WeaponRifle   WeaponType = "Rifle"
	WeaponSniper  WeaponType = "Sniper"
	WeaponSidearm WeaponType = "Sidearm"
	WeaponSMG     WeaponType = "SMG"
	WeaponShotgun WeaponType = "Shotgun"
	WeaponHeavy   WeaponType = "Heavy"
	WeaponMelee   WeaponType = "Melee"
	WeaponUnknown WeaponType = "Unknown"
)

type WeaponStats struct {
	WeaponName string `validate:"required,notblank"`
	WeaponType WeaponType
	Kills      int `validate:"gte=0"`
	Damage     int `validate:"gte=0"`
}

func (w WeaponStats) KillCount() int   { return w.Kills }
func (w WeaponStats) DamageTotal() int { return w.Damage }

type MatchStats struct {
	MatchID   string
	Players   []PlayerStats
	CreatedAt time.Time
	UpdatedAt time.Time
}

type MatchHistory struct {
	MatchID   string
	TeamA     []bool // index 0 is round 1
	TeamB     []bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type WeaponAnalysis struct {
	MatchID   string
	Weapons   []WeaponStats
	CreatedAt time.Time
	UpdatedAt time.Time
}

type RoundOutcome string

const (
	RoundTeamA RoundOutcome = "team_a"
	RoundTeamB RoundOutcome = "team_b"
	RoundDraw  RoundOutcome = "draw"
)

// WriteMode selects between create-only and update-only repository writes.
type WriteMode int

const (
	WriteCreate WriteMode = iota
	WriteUpdate
)

func (m WriteMode) String() string {
	if m == WriteUpdate {
		return "update"
	}
	return "create"
}

// KillEvent is one entry read off the kill feed by the analysis service.
type KillEvent struct {
	Killer     string
	KillerTeam TeamColor
	Victim     string
	VictimTeam TeamColor
	Weapon     string
	Headshot   bool
	Wallbang   bool
	Assists    []string
	Damage     int     // damage dealt by the killing weapon, zero when unknown
	Timestamp  float64 // seconds into the video
}
