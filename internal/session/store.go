package session

import (
	"time"

	"valorant-stats/internal/config"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Scoreboard is the last scoreboard produced for a session, kept in the raw
// mapping shape returned by the analysis service.
type Scoreboard struct {
	MatchID   string
	Raw       map[string]any
	UpdatedAt time.Time
}

// Store holds at most one scoreboard per session. Entries expire after the
// configured TTL and the least recently used session is evicted at capacity.
type Store struct {
	cache *expirable.LRU[string, Scoreboard]
}

func NewStore(cfg *config.Config) *Store {
	return &Store{
		cache: expirable.NewLRU[string, Scoreboard](cfg.SessionCapacity, nil, cfg.SessionTTL),
	}
}

// Populate replaces whatever the session held, so a new match always clears the
// previous one.
func (s *Store) Populate(sessionID, matchID string, raw map[string]any) Scoreboard {
	board := Scoreboard{
		MatchID:   matchID,
		Raw:       raw,
		UpdatedAt: time.Now().UTC(),
	}
	s.cache.Add(sessionID, board)
	return board
}

func (s *Store) Get(sessionID string) (Scoreboard, bool) {
	return s.cache.Get(sessionID)
}

// Clear drops the session's scoreboard and reports whether one was present.
func (s *Store) Clear(sessionID string) bool {
	return s.cache.Remove(sessionID)
}

func (s *Store) Len() int {
	return s.cache.Len()
}
