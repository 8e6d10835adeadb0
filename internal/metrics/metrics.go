// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package metrics provides the service's prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"codeberg.org/readeck/opengraph/pkg/opengraph"
)

// Registry holds every metric of the service.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	parsedTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "opengraph_parsed_total",
		Help: "Number of parsed documents, by declared type",
	}, []string{"type"})

	invalidTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "opengraph_invalid_total",
		Help: "Number of parsed documents missing a required property",
	})

	generatedTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "opengraph_generated_total",
		Help: "Number of generated meta tag blocks",
	})

	requestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Number of HTTP requests, by status code and method",
	}, []string{"code", "method"})

	requestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// ObserveParse records a parsing result.
func ObserveParse(d *opengraph.Data) {
	parsedTotal.WithLabelValues(d.ObjectType().String()).Inc()
	if !d.IsValid() {
		invalidTotal.Inc()
	}
}

// ObserveGenerate records a generated block.
func ObserveGenerate() {
	generatedTotal.Inc()
}

// Middleware is an HTTP middleware that counts requests
// and measures their duration.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		requestsTotal.WithLabelValues(strconv.Itoa(status), r.Method).Inc()
		requestDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}

// Handler returns the HTTP handler exposing the metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{
		Registry: Registry,
	})
}
