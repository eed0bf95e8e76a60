// Package metrics holds the prometheus collectors of the resume service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// result: ok/invalid/precondition/error
	Previews *prometheus.CounterVec
	// result: ok/failure
	Saves *prometheus.CounterVec
	// mode: raster/print, result: ok/failure/busy/no_preview
	Exports *prometheus.CounterVec

	ExportDuration *prometheus.HistogramVec

	// status: valid/invalid
	Registrations *prometheus.CounterVec

	ActiveSessions prometheus.Gauge
}

// New registers every collector with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Previews: f.NewCounterVec(prometheus.CounterOpts{
			Name: "resume_previews_total",
			Help: "Total number of preview attempts",
		}, []string{"result"}),
		Saves: f.NewCounterVec(prometheus.CounterOpts{
			Name: "resume_saves_total",
			Help: "Total number of calls to the persistence endpoint",
		}, []string{"result"}),
		Exports: f.NewCounterVec(prometheus.CounterOpts{
			Name: "resume_exports_total",
			Help: "Total number of PDF export attempts",
		}, []string{"mode", "result"}),
		ExportDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "resume_export_duration_seconds",
			Help:    "Time spent producing a PDF",
			Buckets: prometheus.DefBuckets,
		}, []string{"mode"}),
		Registrations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "resume_registration_submissions_total",
			Help: "Total number of registration form submissions",
		}, []string{"status"}),
		ActiveSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "resume_active_sessions_current",
			Help: "Current number of editing sessions",
		}),
	}
}

// Nop returns collectors bound to a private registry.
func Nop() *Metrics {
	return New(prometheus.NewRegistry())
}
