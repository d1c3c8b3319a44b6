// Package observability provides Prometheus metrics and HTTP middleware
// for the sweetshop API.
package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	// RequestsTotal counts HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sweetshop_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sweetshop_request_duration_seconds",
			Help:    "Request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// LoginsTotal counts login attempts by outcome ("success", "invalid_credentials", "error").
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sweetshop_auth_logins_total",
			Help: "Login attempts",
		},
		[]string{"result"},
	)

	// TokenChecksTotal counts bearer tokens seen by the auth filter by outcome
	// ("authenticated", "rejected").
	TokenChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sweetshop_auth_token_checks_total",
			Help: "Bearer token checks",
		},
		[]string{"result"},
	)

	// AccessDeniedTotal counts authorization gate denials by reason
	// ("unauthenticated", "insufficient_role").
	AccessDeniedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sweetshop_auth_access_denied_total",
			Help: "Authorization denials",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		LoginsTotal,
		TokenChecksTotal,
		AccessDeniedTotal,
	)
}
