package constants

import "time"

const (
	MaxRounds         = 24
	TeamDelimiter     = "_"
	KillDedupWindow   = 5.1 // seconds
	DefaultAvatarPath = "/images/agents/default.png"
)

const (
	SessionTTL      = 30 * time.Minute
	SessionCapacity = 1024
)

const (
	ExternalAPITimeout = 5 * time.Minute // analysis runs the detection models synchronously
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
	MaxUploadBytes     = 512 << 20
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	MatchIDLength = 21
)
