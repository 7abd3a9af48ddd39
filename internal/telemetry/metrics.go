package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "workstatus"

var (
	// Deadline scanner

	ScannerSweepsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scanner",
		Name:      "sweeps_total",
		Help:      "Total deadline sweeps run.",
	})

	ScannerDelayedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scanner",
		Name:      "tasks_delayed_total",
		Help:      "Tasks moved to delayed by the scanner.",
	})

	ScannerFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scanner",
		Name:      "failures_total",
		Help:      "Scanner failures, labelled by stage.",
	}, []string{"stage"})

	ScannerSweepDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "scanner",
		Name:      "sweep_duration_seconds",
		Help:      "Wall time of one deadline sweep.",
		Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})

	// Task feed

	FeedSnapshotsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "feed",
		Name:      "snapshots_total",
		Help:      "Task snapshots received from the store feed.",
	})

	FeedTasks = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "feed",
		Name:      "tasks",
		Help:      "Tasks in the latest feed snapshot.",
	})

	// HTTP

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests, labelled by route pattern, method and status code.",
	}, []string{"route", "method", "code"})

	HTTPRequestDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	StoreWriteFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "store",
		Name:      "write_failures_total",
		Help:      "Persistence failures surfaced to callers, labelled by error code.",
	}, []string{"code"})
)
