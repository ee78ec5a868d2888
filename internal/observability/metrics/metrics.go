package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dailycrm_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dailycrm_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	actionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dailycrm_actions_total",
		Help: "Dispatched actions by kind and outcome",
	}, []string{"action", "outcome"})

	actionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dailycrm_action_duration_seconds",
		Help:    "Duration of a single action handler",
		Buckets: prometheus.DefBuckets,
	}, []string{"action"})

	interpretTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dailycrm_interpret_total",
		Help: "Interpreted replies by result (actions, passthrough, malformed)",
	}, []string{"result"})

	assistantDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dailycrm_assistant_duration_seconds",
		Help:    "Duration of assistant model calls",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
	}, []string{"result"})

	emailsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dailycrm_emails_total",
		Help: "Outbound emails by result",
	}, []string{"result"})

	rateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dailycrm_rate_limited_total",
		Help: "Requests rejected by the rate limiter, by client kind (user, ip)",
	}, []string{"client"})
)

// ObserveHTTPRequest records an HTTP request metric.
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveAction records one dispatched action.
func ObserveAction(action, outcome string, duration time.Duration) {
	actionsTotal.WithLabelValues(action, outcome).Inc()
	actionDuration.WithLabelValues(action).Observe(duration.Seconds())
}

// ObserveInterpret counts an interpreted reply.
func ObserveInterpret(result string) {
	interpretTotal.WithLabelValues(result).Inc()
}

// ObserveAssistant records the latency of an assistant call.
func ObserveAssistant(result string, duration time.Duration) {
	assistantDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// ObserveEmail counts an email delivery attempt.
func ObserveEmail(result string) {
	emailsTotal.WithLabelValues(result).Inc()
}

// ObserveRateLimited counts a rejected request.
func ObserveRateLimited(client string) {
	rateLimitedTotal.WithLabelValues(client).Inc()
}
