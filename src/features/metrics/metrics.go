package metrics

import (
	"time"

	"github.com/contre95/maichart/src/catalog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "maichart"

// Metrics owns the Prometheus registry and every collector the application exports.
type Metrics struct {
	registry *prometheus.Registry

	catalogSongs       prometheus.Gauge
	catalogSheets      prometheus.Gauge
	catalogLoadSeconds prometheus.Gauge

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	importRuns    prometheus.Counter
	importRecords *prometheus.GaugeVec
}

// New creates the collectors and registers them, together with the Go and process collectors,
// on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		catalogSongs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "songs",
			Help:      "Number of songs in the loaded catalog.",
		}),
		catalogSheets: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "sheets",
			Help:      "Number of sheets across all songs in the loaded catalog.",
		}),
		catalogLoadSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "load_seconds",
			Help:      "Time spent parsing the catalog source file.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		importRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "runs_total",
			Help:      "Completed import validation runs.",
		}),
		importRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "records",
			Help:      "Records of the last import validation run by result.",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.catalogSongs,
		m.catalogSheets,
		m.catalogLoadSeconds,
		m.httpRequests,
		m.httpDuration,
		m.importRuns,
		m.importRecords,
	)
	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// CatalogLoaded records the size of a freshly loaded catalog.
func (m *Metrics) CatalogLoaded(songs []*catalog.Song, took time.Duration) {
	sheets := 0
	for _, song := range songs {
		sheets += len(song.Sheets)
	}
	m.catalogSongs.Set(float64(len(songs)))
	m.catalogSheets.Set(float64(sheets))
	m.catalogLoadSeconds.Set(took.Seconds())
}

// ImportCompleted records the outcome of an import validation run.
func (m *Metrics) ImportCompleted(valid, invalid int) {
	m.importRuns.Inc()
	m.importRecords.WithLabelValues("valid").Set(float64(valid))
	m.importRecords.WithLabelValues("invalid").Set(float64(invalid))
}
