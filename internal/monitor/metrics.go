package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects decode statistics on a private registry so repeated
// decodes in one process never collide on registration.
type Metrics struct {
	Registry *prometheus.Registry

	FramesRead         prometheus.Counter
	ChecksumRecoveries prometheus.Counter
	PayloadBytes       prometheus.Histogram
	Records            *prometheus.CounterVec
	SubResults         *prometheus.CounterVec
	DecodeErrors       *prometheus.CounterVec
}

// NewMetrics creates and registers the decode collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		FramesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sss_frames_total",
			Help: "Frames read from .sss streams.",
		}),
		ChecksumRecoveries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sss_checksum_recoveries_total",
			Help: "Frames whose declared length was one byte short.",
		}),
		PayloadBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sss_frame_payload_bytes",
			Help:    "Payload size of frames read.",
			Buckets: prometheus.ExponentialBuckets(8, 2, 10),
		}),
		Records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sss_records_total",
			Help: "Decoded records by type.",
		}, []string{"kind"}),
		SubResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sss_subresults_total",
			Help: "Decoded test sub-results by kind.",
		}, []string{"kind"}),
		DecodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sss_decode_errors_total",
			Help: "Decode errors by kind.",
		}, []string{"kind"}),
	}
	m.Registry.MustRegister(
		m.FramesRead,
		m.ChecksumRecoveries,
		m.PayloadBytes,
		m.Records,
		m.SubResults,
		m.DecodeErrors,
	)
	return m
}

// ObserveFrame records one frame read.
func (m *Metrics) ObserveFrame(payloadLen int, recovered bool) {
	m.FramesRead.Inc()
	m.PayloadBytes.Observe(float64(payloadLen))
	if recovered {
		m.ChecksumRecoveries.Inc()
	}
}

// ObserveRecord counts a decoded top-level record.
func (m *Metrics) ObserveRecord(kind string) {
	m.Records.WithLabelValues(kind).Inc()
}

// ObserveSubResult counts a decoded sub-result.
func (m *Metrics) ObserveSubResult(kind string) {
	m.SubResults.WithLabelValues(kind).Inc()
}

// ObserveError counts a decode error.
func (m *Metrics) ObserveError(kind string) {
	m.DecodeErrors.WithLabelValues(kind).Inc()
}

// WriteTextfile dumps the metrics in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
