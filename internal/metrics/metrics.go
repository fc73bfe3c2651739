// Package metrics exposes Prometheus instruments for render passes.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BaseLayerPasses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "localchart",
		Subsystem: "render",
		Name:      "base_layer_passes_total",
		Help:      "Base-layer passes by outcome (rebuilt, reused, failed, superseded)",
	}, []string{"outcome"})

	PassDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "localchart",
		Subsystem: "render",
		Name:      "pass_duration_seconds",
		Help:      "Duration of base-layer and overlay passes",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"pass"})

	TerrainFetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "localchart",
		Subsystem: "terrain",
		Name:      "fetch_errors_total",
		Help:      "Terrain provider failures that degraded a render",
	})

	LabelsPlaced = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "localchart",
		Subsystem: "labels",
		Name:      "placed_total",
		Help:      "Label placement attempts by result (placed, skipped)",
	}, []string{"result"})

	Exports = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "localchart",
		Subsystem: "export",
		Name:      "images_total",
		Help:      "Exported images by format and whether DPI metadata was written",
	}, []string{"format", "dpi_known"})
)

// ObservePass records the duration of a named pass since start.
func ObservePass(pass string, start time.Time) {
	PassDuration.WithLabelValues(pass).Observe(time.Since(start).Seconds())
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
