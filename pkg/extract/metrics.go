package extract

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds the Prometheus metrics for extraction. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	filesTotal   *prometheus.CounterVec
	recordsTotal prometheus.Counter
	bytesTotal   prometheus.Counter
}

// NewMetrics creates and registers the extraction metrics. Call once per
// process; promauto registers on the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		filesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blxtract_files_processed_total",
				Help: "Total number of input files processed",
			},
			[]string{"status"},
		),

		recordsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "blxtract_records_extracted_total",
				Help: "Total number of records extracted",
			},
		),

		bytesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "blxtract_bytes_scanned_total",
				Help: "Total number of source bytes scanned",
			},
		),
	}
}

// ObserveFile records one file's outcome.
func (m *Metrics) ObserveFile(res FileResult, failed bool) {
	if m == nil {
		return
	}
	status := statusSuccess
	if failed {
		status = statusError
	}
	m.filesTotal.WithLabelValues(status).Inc()
	m.recordsTotal.Add(float64(res.Records))
	m.bytesTotal.Add(float64(res.Bytes))
}
