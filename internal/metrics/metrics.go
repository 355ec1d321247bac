package metrics

import (
	"errors"
	"net/http"

	"valorant-stats/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	IngestCounter     *prometheus.CounterVec
	ValidationCounter *prometheus.CounterVec
	KillCounter       *prometheus.CounterVec
	UploadCounter     *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		IngestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "matchstats_ingests_total", Help: "Aggregate writes by source and outcome"},
			[]string{"source", "mode", "outcome"}),

		ValidationCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "matchstats_validation_failures_total", Help: "Rejected fields by error kind"},
			[]string{"kind"}),

		KillCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "matchstats_kills_total", Help: "Kills ingested from kill feeds"},
			[]string{"weapon"}),

		UploadCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "matchstats_uploads_total", Help: "Video uploads forwarded to analysis"},
			[]string{"outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.IngestCounter,
		m.ValidationCounter,
		m.KillCounter,
		m.UploadCounter,
	)

	return m
}

// ObserveWrite records one aggregate write. Validation failures are also broken
// down per error kind.
func (m *Metrics) ObserveWrite(source string, mode domain.WriteMode, err error) {
	m.IngestCounter.With(prometheus.Labels{"source": source, "mode": mode.String(), "outcome": Outcome(err)}).Inc()

	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		for _, verr := range verrs {
			m.ValidationCounter.With(prometheus.Labels{"kind": string(verr.Kind)}).Inc()
		}
	}
}

func (m *Metrics) ObserveKill(weapon string) {
	m.KillCounter.With(prometheus.Labels{"weapon": weapon}).Inc()
}

func (m *Metrics) ObserveUpload(err error) {
	m.UploadCounter.With(prometheus.Labels{"outcome": Outcome(err)}).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Outcome buckets an error into a low-cardinality label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrDuplicateKey):
		return "duplicate"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
