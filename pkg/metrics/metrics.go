package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records authentication attempts by flow (login|register|reset) and result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weddingrsvp_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"flow", "result"},
	)

	// ActiveSessions tracks active sessions (not expired/revoked).
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "weddingrsvp_active_sessions",
			Help: "Number of active sessions",
		},
	)

	// RSVPSubmissions counts accepted guest responses by attendance (yes|no).
	RSVPSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weddingrsvp_rsvp_submissions_total",
			Help: "Total number of RSVP submissions",
		},
		[]string{"attending"},
	)

	// InvitationViews counts public invitation renders by outcome (found|not_found).
	InvitationViews = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weddingrsvp_invitation_views_total",
			Help: "Total number of public invitation page views",
		},
		[]string{"result"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weddingrsvp_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
