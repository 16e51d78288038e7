package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registerAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bloggerz_register_attempts_total",
		Help: "Number of registration attempts grouped by status.",
	}, []string{"status"})

	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bloggerz_login_attempts_total",
		Help: "Number of login attempts grouped by status.",
	}, []string{"status"})

	postOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bloggerz_post_operations_total",
		Help: "Post operations grouped by op (create/update/delete/like/unlike) and status.",
	}, []string{"op", "status"})

	rateLimitHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bloggerz_rate_limit_hits_total",
		Help: "Rate limiter activations grouped by limiter name.",
	}, []string{"limiter"})
)

// IncRegister increments the registration counter.
func IncRegister(status string) {
	registerAttempts.WithLabelValues(status).Inc()
}

// IncLogin increments the login counter.
func IncLogin(status string) {
	loginAttempts.WithLabelValues(status).Inc()
}

// IncPost increments the post operation counter.
func IncPost(op, status string) {
	postOps.WithLabelValues(op, status).Inc()
}

// IncRateLimit increments the rate-limit hit counter.
func IncRateLimit(name string) {
	rateLimitHits.WithLabelValues(name).Inc()
}
