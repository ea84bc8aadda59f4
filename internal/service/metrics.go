package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// reportsBuilt counts successful reports by mode and pH model.
	reportsBuilt = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewwater_reports_built_total",
		Help: "Reports built by mode and pH model",
	}, []string{"mode", "model"})

	// reportFailures counts rejected requests by reason.
	reportFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewwater_report_failures_total",
		Help: "Rejected report requests by reason",
	}, []string{"reason"})

	// optimizerRuns counts optimizer runs by strategy and outcome.
	optimizerRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewwater_optimizer_runs_total",
		Help: "Optimizer runs by strategy and outcome",
	}, []string{"strategy", "outcome"})

	// reportDuration tracks report build latency.
	reportDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "brewwater_report_build_seconds",
		Help:    "Report build duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
	})
)
