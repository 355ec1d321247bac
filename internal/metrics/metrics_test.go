package metrics_test

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"valorant-stats/internal/domain"
	"valorant-stats/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveWrite(t *testing.T) {
	t.Parallel()
	m := metrics.New()

	m.ObserveWrite("scoreboard", domain.WriteCreate, nil)
	m.ObserveWrite("scoreboard", domain.WriteCreate, domain.ValidationErrors{
		domain.NewValidationError("green_Jett.kills", domain.FieldOutOfRange, "must be >= 0"),
		domain.NewValidationError("green_Jett.deaths", domain.FieldOutOfRange, "must be >= 0"),
		domain.NewValidationError("teamColor", domain.UnknownTeamColor, "unknown"),
	})
	m.ObserveWrite("history", domain.WriteUpdate, &domain.NotFoundError{Entity: "match history", MatchID: "m1"})

	require.InDelta(t, 1, testutil.ToFloat64(m.IngestCounter.WithLabelValues("scoreboard", "create", "ok")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.IngestCounter.WithLabelValues("scoreboard", "create", "invalid")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.IngestCounter.WithLabelValues("history", "update", "not_found")), 0)
	require.InDelta(t, 2, testutil.ToFloat64(m.ValidationCounter.WithLabelValues("FieldOutOfRange")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.ValidationCounter.WithLabelValues("UnknownTeamColor")), 0)
}

func TestOutcome(t *testing.T) {
	t.Parallel()
	require.Equal(t, "ok", metrics.Outcome(nil))
	require.Equal(t, "duplicate", metrics.Outcome(&domain.DuplicateKeyError{Entity: "match stats", MatchID: "m1"}))
	require.Equal(t, "error", metrics.Outcome(errors.New("boom")))
}

func TestHandlerExposesCounters(t *testing.T) {
	t.Parallel()
	m := metrics.New()
	m.ObserveKill("Vandal")
	m.ObserveUpload(nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `matchstats_kills_total{weapon="Vandal"} 1`)
	require.Contains(t, string(body), `matchstats_uploads_total{outcome="ok"} 1`)
}
