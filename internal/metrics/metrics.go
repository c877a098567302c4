// Package metrics exposes Prometheus collectors for the ingestion pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FindingsIngested tracks persisted findings by scanner.
	FindingsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_findings_total",
			Help: "Total number of findings persisted by scanner",
		},
		[]string{"scanner"},
	)

	// ParseFailures tracks report files that could not be parsed.
	ParseFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_parse_failures_total",
			Help: "Total number of report files that failed to parse",
		},
		[]string{"scanner"},
	)

	// SecretValidations tracks secret-activity verdicts.
	SecretValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_secret_validations_total",
			Help: "Total number of secret validations by verdict",
		},
		[]string{"verdict"},
	)

	// ScanRuns tracks finished scan runs by terminal status.
	ScanRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_scan_runs_total",
			Help: "Total number of scan runs by terminal status",
		},
		[]string{"status"},
	)

	// ScanRunDuration tracks how long one repository's ingestion takes.
	ScanRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ingest_scan_run_duration_seconds",
			Help:    "Duration of one repository ingestion in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		},
	)

	// SweepDowngrades tracks severity downgrades applied by the sweep.
	SweepDowngrades = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sweep_downgrades_total",
			Help: "Total number of unverified critical secrets downgraded",
		},
	)

	// SweepRevalidations tracks findings re-validated by the sweep.
	SweepRevalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sweep_revalidations_total",
			Help: "Total number of open secret findings re-validated",
		},
	)
)
