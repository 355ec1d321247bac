package session_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"valorant-stats/internal/config"
	"valorant-stats/internal/session"

	"github.com/stretchr/testify/require"
)

func newStore(ttl time.Duration, capacity int) *session.Store {
	return session.NewStore(&config.Config{SessionTTL: ttl, SessionCapacity: capacity})
}

func TestPopulateReplacesPreviousMatch(t *testing.T) {
	t.Parallel()
	store := newStore(time.Minute, 8)

	store.Populate("s1", "m1", map[string]any{"green_Jett": map[string]any{"kills": 1}})
	store.Populate("s1", "m2", map[string]any{})

	board, ok := store.Get("s1")
	require.True(t, ok)
	require.Equal(t, "m2", board.MatchID)
	require.Empty(t, board.Raw)
	require.Equal(t, 1, store.Len())
}

func TestClear(t *testing.T) {
	t.Parallel()
	store := newStore(time.Minute, 8)

	require.False(t, store.Clear("s1"))
	store.Populate("s1", "m1", nil)
	require.True(t, store.Clear("s1"))

	_, ok := store.Get("s1")
	require.False(t, ok)
}

func TestSessionsAreIsolated(t *testing.T) {
	t.Parallel()
	store := newStore(time.Minute, 8)

	store.Populate("s1", "m1", nil)
	store.Populate("s2", "m2", nil)

	board, ok := store.Get("s1")
	require.True(t, ok)
	require.Equal(t, "m1", board.MatchID)
}

func TestExpiry(t *testing.T) {
	t.Parallel()
	store := newStore(20*time.Millisecond, 8)

	store.Populate("s1", "m1", nil)
	require.Eventually(t, func() bool {
		_, ok := store.Get("s1")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestCapacityEvictsOldest(t *testing.T) {
	t.Parallel()
	store := newStore(time.Minute, 2)

	store.Populate("s1", "m1", nil)
	store.Populate("s2", "m2", nil)
	store.Populate("s3", "m3", nil)

	_, ok := store.Get("s1")
	require.False(t, ok)
	require.Equal(t, 2, store.Len())
}

func TestConcurrentUse(t *testing.T) {
	t.Parallel()
	store := newStore(time.Minute, 64)

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", i)
			store.Populate(id, fmt.Sprintf("m%d", i), nil)
			_, _ = store.Get(id)
		}(i)
	}
	wg.Wait()
	require.Equal(t, 32, store.Len())
}
