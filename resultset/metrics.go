package resultset

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the codec's prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	Encodes        *prometheus.CounterVec
	Decodes        *prometheus.CounterVec
	Records        *prometheus.CounterVec
	Warnings       *prometheus.CounterVec
	EncodeDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors. Call Register to expose them.
func NewMetrics() *Metrics {
	return &Metrics{
		Encodes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "structwsf",
				Subsystem: "codec",
				Name:      "encodes_total",
				Help:      "Total number of serializations by format and status",
			},
			[]string{"format", "status"},
		),
		Decodes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "structwsf",
				Subsystem: "codec",
				Name:      "decodes_total",
				Help:      "Total number of imports by format and status",
			},
			[]string{"format", "status"},
		),
		Records: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "structwsf",
				Subsystem: "codec",
				Name:      "records_decoded_total",
				Help:      "Total number of records imported",
			},
			[]string{"format"},
		),
		Warnings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "structwsf",
				Subsystem: "codec",
				Name:      "warnings_total",
				Help:      "Total number of collected warnings by code",
			},
			[]string{"code"},
		),
		EncodeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "structwsf",
				Subsystem: "codec",
				Name:      "encode_duration_seconds",
				Help:      "Serialization duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"format"},
		),
	}
}

// Register registers every collector with reg. Collectors that are already
// registered are not an error.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.Encodes, m.Decodes, m.Records, m.Warnings, m.EncodeDuration} {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return err
		}
	}
	return nil
}

func (m *Metrics) observeEncode(format Format, elapsed time.Duration, warnings Warnings, err error) {
	if m == nil {
		return
	}
	m.Encodes.WithLabelValues(string(format), statusLabel(err)).Inc()
	m.EncodeDuration.WithLabelValues(string(format)).Observe(elapsed.Seconds())
	m.observeWarnings(warnings)
}

func (m *Metrics) observeDecode(format Format, store *Store, warnings Warnings, err error) {
	if m == nil {
		return
	}
	m.Decodes.WithLabelValues(string(format), statusLabel(err)).Inc()
	if store != nil {
		m.Records.WithLabelValues(string(format)).Add(float64(store.Len()))
	}
	m.observeWarnings(warnings)
}

func (m *Metrics) observeWarnings(warnings Warnings) {
	for _, w := range warnings {
		m.Warnings.WithLabelValues(string(w.Code)).Inc()
	}
}

func statusLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return string(Code(err))
}
