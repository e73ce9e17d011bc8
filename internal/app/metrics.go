package app

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the pipeline's Prometheus collectors.
type Metrics struct {
	Loads        prometheus.Counter
	SkippedRows  prometheus.Counter
	Saves        *prometheus.CounterVec
	DroppedEdits prometheus.Counter
	LastSave     prometheus.Gauge
}

// Save outcomes, used as the "result" label of sprintboard_saves_total.
const (
	SaveResultOK          = "ok"
	SaveResultConflict    = "conflict"
	SaveResultPersistFail = "persist_failed"
	SaveResultError       = "error"
)

// NewMetrics creates the collectors and registers them with reg when reg is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Loads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sprintboard_loads_total",
			Help: "Number of ticket table loads",
		}),
		SkippedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sprintboard_skipped_rows_total",
			Help: "Rows skipped while loading because they could not be parsed",
		}),
		Saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sprintboard_saves_total",
			Help: "Save attempts by result",
		}, []string{"result"}),
		DroppedEdits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sprintboard_dropped_edits_total",
			Help: "Edited rows dropped because their ID matched no ticket",
		}),
		LastSave: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sprintboard_last_save_timestamp_seconds",
			Help: "Unix time of the last successful save by this process",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Loads, m.SkippedRows, m.Saves, m.DroppedEdits, m.LastSave)
	}
	return m
}
