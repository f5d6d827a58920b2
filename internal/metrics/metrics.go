// Package metrics exposes Prometheus metrics for contact changes, imports,
// exports and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records domain events and request metrics. It satisfies
// core.Recorder.
type Collector struct {
	personChanges     *prometheus.CounterVec
	countriesAdded    prometheus.Counter
	countriesImported prometheus.Counter
	exports           *prometheus.CounterVec
	requests          *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
}

// NewCollector creates the metrics and registers them with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		personChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contacts_person_changes_total",
			Help: "Person writes by operation.",
		}, []string{"op"}),
		countriesAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "contacts_countries_added_total",
			Help: "Countries added one at a time.",
		}),
		countriesImported: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "contacts_countries_imported_total",
			Help: "Countries inserted by bulk imports.",
		}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contacts_exports_total",
			Help: "Person list exports by format.",
		}, []string{"format"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contacts_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "contacts_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		c.personChanges,
		c.countriesAdded,
		c.countriesImported,
		c.exports,
		c.requests,
		c.requestDuration,
	)
	return c
}

func (c *Collector) PersonAdded()   { c.personChanges.WithLabelValues("add").Inc() }
func (c *Collector) PersonUpdated() { c.personChanges.WithLabelValues("update").Inc() }
func (c *Collector) PersonDeleted() { c.personChanges.WithLabelValues("delete").Inc() }
func (c *Collector) CountryAdded()  { c.countriesAdded.Inc() }

func (c *Collector) CountriesImported(n int) {
	c.countriesImported.Add(float64(n))
}

func (c *Collector) PersonsExported(format string) {
	c.exports.WithLabelValues(format).Inc()
}

// Middleware records every request under its chi route pattern, so path
// parameters do not explode label cardinality.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		c.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the metrics gathered by gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
