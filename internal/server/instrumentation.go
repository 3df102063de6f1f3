package server

//
// instrumentation.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "integwatch_mgmt"

// newPromMiddleware return middleware that count and time management requests.
// Collectors are registered on first call.
//
//nolint:gochecknoglobals
var newPromMiddleware = sync.OnceValue(func() func(http.Handler) http.Handler {
	requestsTotal := promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "Number of management requests.",
		}, []string{"method", "code"},
	)
	requestDuration := promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencies of management requests.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"method", "code"},
	)
	inFlight := promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "http_in_flight_requests",
		Help:      "Management requests currently being served.",
	})

	return func(next http.Handler) http.Handler {
		base := promhttp.InstrumentHandlerInFlight(inFlight, next)
		base = promhttp.InstrumentHandlerDuration(requestDuration, base)

		return promhttp.InstrumentHandlerCounter(requestsTotal, base)
	}
})

func newMetricsHandler() http.Handler {
	return promhttp.InstrumentMetricHandler(
		prometheus.DefaultRegisterer,
		promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{DisableCompression: true}),
	)
}
