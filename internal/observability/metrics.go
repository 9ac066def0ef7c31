package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riskibarqy/tournament-ledger/internal/usecase"
)

const metricsNamespace = "ledger"

var _ usecase.IngestionMetrics = (*IngestMetrics)(nil)

// IngestMetrics exports scan and file counters to Prometheus.
type IngestMetrics struct {
	registry     *prometheus.Registry
	files        *prometheus.CounterVec
	scans        *prometheus.CounterVec
	scanDuration prometheus.Histogram
	lastMerged   prometheus.Gauge
}

// NewIngestMetrics registers the collectors on reg. A nil reg gets a fresh
// registry with the Go and process collectors.
func NewIngestMetrics(reg *prometheus.Registry) (*IngestMetrics, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
		if err := reg.Register(collectors.NewGoCollector()); err != nil {
			return nil, err
		}
		if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
			return nil, err
		}
	}

	m := &IngestMetrics{
		registry: reg,
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "files_processed_total",
			Help:      "Match files handled by ingestion, by outcome.",
		}, []string{"status"}),
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "scans_total",
			Help:      "Completed directory scans, by result.",
		}, []string{"result"}),
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "scan_duration_seconds",
			Help:      "Wall time of one directory scan.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 14),
		}),
		lastMerged: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "last_scan_merged_files",
			Help:      "Files merged by the most recent scan.",
		}),
	}

	for _, c := range []prometheus.Collector{m.files, m.scans, m.scanDuration, m.lastMerged} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *IngestMetrics) FileProcessed(status string) {
	m.files.WithLabelValues(status).Inc()
}

func (m *IngestMetrics) ScanCompleted(report usecase.ScanReport, elapsed time.Duration) {
	result := "ok"
	if report.Aborted {
		result = "aborted"
	}
	m.scans.WithLabelValues(result).Inc()
	m.scanDuration.Observe(elapsed.Seconds())
	m.lastMerged.Set(float64(report.Merged))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *IngestMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
