package watcher

//
// metrics.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals
var (
	metricCycles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "integwatch_poll_cycles_total",
		Help: "Number of polling cycles.",
	})
	metricFaults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "integwatch_poll_faults_total",
		Help: "Number of failed polling cycles by fault kind.",
	}, []string{"kind"})
	metricNotifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "integwatch_notifications_total",
		Help: "Number of sent notifications.",
	}, []string{"target", "result"})
	metricOpenings = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "integwatch_openings",
		Help: "Number of openings found in last cycle.",
	}, []string{"level"})
	metricFetchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "integwatch_fetch_requests_total",
		Help: "Number of requests to the site by status code.",
	}, []string{"code"})
	metricFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "integwatch_fetch_duration_seconds",
		Help:    "Tracks the latencies for requests to the site.",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	})
)
