// Package metrics exposes Prometheus instruments for the fetch, reconcile,
// pacing and render stages.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Fetches counts snapshot source requests by mode (live|history) and result
// (ok|error|discarded).
var Fetches = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "seascape_fetches_total",
		Help: "Snapshot source requests by mode and result",
	},
	[]string{"mode", "result"},
)

// FetchLatency records how long snapshot source requests take.
var FetchLatency = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "seascape_fetch_latency_seconds",
		Help:    "Latency in seconds of snapshot source requests",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"mode"},
)

var (
	FramesEmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "seascape_frames_emitted_total",
		Help: "Interpolated frames emitted to render adapters",
	})

	WindowsApplied = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "seascape_windows_applied_total",
		Help: "Snapshots applied to the rolling window",
	})

	WindowsCoalesced = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "seascape_windows_coalesced_total",
		Help: "Pending snapshots replaced by a newer one before being stepped",
	})

	VesselsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "seascape_reconcile_dropped_vessels_total",
		Help: "Tracked vessels dropped for lack of static metadata",
	})

	FleetSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "seascape_fleet_size",
		Help: "Vessels in the current snapshot",
	})

	HubClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "seascape_ws_clients",
		Help: "Connected websocket clients",
	})
)

// RenderErrors counts failed render adapter writes by adapter.
var RenderErrors = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "seascape_render_errors_total",
		Help: "Failed render adapter writes",
	},
	[]string{"adapter"},
)

func init() {
	prometheus.MustRegister(Fetches, FetchLatency)
	prometheus.MustRegister(FramesEmitted, WindowsApplied, WindowsCoalesced, VesselsDropped, FleetSize)
	prometheus.MustRegister(HubClients, RenderErrors)
}
