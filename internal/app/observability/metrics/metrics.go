// Package metrics exposes the application's OpenTelemetry metric
// instruments, backed by a Prometheus exporter so the existing
// /metrics scrape convention keeps working.
package metrics

import (
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// AppMetrics bundles every instrument the middleware and domain
// packages record into.
type AppMetrics struct {
	HTTPRequestsTotal       metric.Int64Counter
	HTTPRequestDuration     metric.Float64Histogram
	RouteBuildRequestsTotal metric.Int64Counter
	RouteBuildDuration      metric.Float64Histogram
	SearchRequestsTotal     metric.Int64Counter
	SpatialCacheHitsTotal   metric.Int64Counter
	SpatialCacheMissesTotal metric.Int64Counter
}

var (
	instance *AppMetrics
	once     sync.Once
	initErr  error
)

// InitAppMetrics creates a MeterProvider whose reader is a Prometheus
// exporter and builds every instrument from it exactly once. The
// provider is not installed as the otel global; instruments are
// reached through Get.
func InitAppMetrics() {
	once.Do(func() {
		exporter, err := prometheus.New()
		if err != nil {
			initErr = fmt.Errorf("creating prometheus exporter: %w", err)
			return
		}

		provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
		meter := provider.Meter("loci-route")

		m := &AppMetrics{}

		m.HTTPRequestsTotal, initErr = meter.Int64Counter("http_requests_total")
		if initErr != nil {
			return
		}
		m.HTTPRequestDuration, initErr = meter.Float64Histogram("http_request_duration_seconds")
		if initErr != nil {
			return
		}
		m.RouteBuildRequestsTotal, initErr = meter.Int64Counter("route_build_requests_total")
		if initErr != nil {
			return
		}
		m.RouteBuildDuration, initErr = meter.Float64Histogram("route_build_duration_seconds")
		if initErr != nil {
			return
		}
		m.SearchRequestsTotal, initErr = meter.Int64Counter("search_requests_total")
		if initErr != nil {
			return
		}
		m.SpatialCacheHitsTotal, initErr = meter.Int64Counter("spatial_cache_hits_total")
		if initErr != nil {
			return
		}
		m.SpatialCacheMissesTotal, initErr = meter.Int64Counter("spatial_cache_misses_total")
		if initErr != nil {
			return
		}

		instance = m
	})
}

// Get returns the process-wide metrics instance. InitAppMetrics must
// have been called first; if it failed, Get falls back to a noop
// meter so instruments are never nil.
func Get() *AppMetrics {
	if instance != nil {
		return instance
	}

	meter := noop.NewMeterProvider().Meter("loci-route")
	m := &AppMetrics{}
	m.HTTPRequestsTotal, _ = meter.Int64Counter("http_requests_total")
	m.HTTPRequestDuration, _ = meter.Float64Histogram("http_request_duration_seconds")
	m.RouteBuildRequestsTotal, _ = meter.Int64Counter("route_build_requests_total")
	m.RouteBuildDuration, _ = meter.Float64Histogram("route_build_duration_seconds")
	m.SearchRequestsTotal, _ = meter.Int64Counter("search_requests_total")
	m.SpatialCacheHitsTotal, _ = meter.Int64Counter("spatial_cache_hits_total")
	m.SpatialCacheMissesTotal, _ = meter.Int64Counter("spatial_cache_misses_total")
	return m
}
