package migrate

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks a migration run on its own registry so a one-shot process
// can dump it to a textfile at exit.
type Metrics struct {
	Registry *prometheus.Registry

	uploads  *prometheus.CounterVec
	bytes    prometheus.Counter
	duration prometheus.Histogram
	files    *prometheus.GaugeVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "filestore_migrate_uploads_total",
				Help: "Upload attempts by outcome",
			},
			[]string{"status"},
		),
		bytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "filestore_migrate_upload_bytes_total",
				Help: "Bytes sent by successful uploads",
			},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "filestore_migrate_upload_duration_seconds",
				Help:    "Time taken to upload a single file",
				Buckets: prometheus.DefBuckets,
			},
		),
		files: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "filestore_migrate_files",
				Help: "Files seen at each stage of the run",
			},
			[]string{"stage"},
		),
	}
	m.Registry.MustRegister(m.uploads, m.bytes, m.duration, m.files)
	return m
}

// SetStage records how many files a stage (scanned, matched) produced.
func (m *Metrics) SetStage(stage string, n int) {
	m.files.WithLabelValues(stage).Set(float64(n))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
