package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Database metrics, observed by the repositories around every query.
var DBQueryDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "db_query_duration_seconds",
	Help:    "Duration of database queries in seconds.",
	Buckets: prometheus.DefBuckets,
}, []string{"query_type", "repository", "status"})

var DBQueryErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "db_query_errors_total",
	Help: "Total number of failed database queries.",
}, []string{"query_type", "repository"})

// Auth metrics, observed by the auth service.
var LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "auth_login_attempts_total",
	Help: "Total number of login attempts by method and outcome.",
}, []string{"method", "outcome"})

var OTPIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "auth_otp_issued_total",
	Help: "Total number of one-time passcodes issued.",
})
