package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics groups the collectors exported on /metrics.
type Metrics struct {
	Registry *prometheus.Registry

	RequestDuration     *prometheus.HistogramVec
	BookingsCreated     prometheus.Counter
	BookingsCancelled   prometheus.Counter
	RegistrationsTotal  prometheus.Counter
	LoginFailures       prometheus.Counter
	NotificationsFailed *prometheus.CounterVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		BookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Bookings accepted.",
		}),
		BookingsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookings_cancelled_total",
			Help: "Bookings moved to cancelled.",
		}),
		RegistrationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "registrations_total",
			Help: "Accounts created.",
		}),
		LoginFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "login_failures_total",
			Help: "Rejected login attempts.",
		}),
		NotificationsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_failed_total",
			Help: "Best-effort side effects that failed, by kind.",
		}, []string{"kind"}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestDuration,
		m.BookingsCreated,
		m.BookingsCancelled,
		m.RegistrationsTotal,
		m.LoginFailures,
		m.NotificationsFailed,
	)
	return m
}
