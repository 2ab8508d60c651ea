// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "inventory"
)

// Scan results.
const (
	ScanDecoded   = "decoded"
	ScanEmpty     = "empty" // tag present, no identifier
	ScanTruncated = "truncated"
	ScanFailed    = "failed"
)

// Store operations.
const (
	OpLoad  = "load"
	OpSave  = "save"
	OpClear = "clear"
)

// Metrics holds the engine's instruments.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	scans      *prometheus.CounterVec
	toggles    *prometheus.CounterVec
	suppressed prometheus.Counter
	buttons    *prometheus.CounterVec
	storeErrs  *prometheus.CounterVec
	items      prometheus.Gauge
}

// New registers all instruments on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		// ScansTotal counts tag reads by outcome
		scans: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scans_total",
				Help:      "Total number of tag reads by result",
			},
			[]string{"result"}, // decoded/empty/truncated/failed
		),

		// TogglesTotal counts ledger toggles
		toggles: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "toggles_total",
				Help:      "Total number of ledger toggles by event",
			},
			[]string{"event"}, // added/removed
		),

		suppressed: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "suppressed_scans_total",
				Help:      "Total number of decoded scans ignored by the cooldown",
			},
		),

		buttons: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "button_actions_total",
				Help:      "Total number of button actions",
			},
			[]string{"action"}, // navigate/clear
		),

		storeErrs: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_errors_total",
				Help:      "Total number of ledger store failures",
			},
			[]string{"op"}, // load/save/clear
		),

		items: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "items",
				Help:      "Number of items currently in the ledger",
			},
		),
	}
}

func (m *Metrics) RecordScan(result string) {
	if m == nil {
		return
	}
	m.scans.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordToggle(event string) {
	if m == nil {
		return
	}
	m.toggles.WithLabelValues(event).Inc()
}

func (m *Metrics) RecordSuppressed() {
	if m == nil {
		return
	}
	m.suppressed.Inc()
}

func (m *Metrics) RecordButton(action string) {
	if m == nil {
		return
	}
	m.buttons.WithLabelValues(action).Inc()
}

func (m *Metrics) RecordStoreError(op string) {
	if m == nil {
		return
	}
	m.storeErrs.WithLabelValues(op).Inc()
}

func (m *Metrics) SetItems(n int) {
	if m == nil {
		return
	}
	m.items.Set(float64(n))
}
