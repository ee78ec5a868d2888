package rest

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hassan3301/dailycrm/internal/config"
	"github.com/hassan3301/dailycrm/internal/observability/metrics"
	"github.com/hassan3301/dailycrm/internal/transport/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Health  *HealthHandler
	Chat    *ChatHandler
	Invoice *InvoiceHandler
}

// RouterOptions configures NewRouter.
type RouterOptions struct {
	CORS config.CORSConfig
	// Auth resolves bearer tokens into user IDs. Nil leaves every request
	// anonymous.
	Auth middleware.Middleware
	// Limiter throttles the chat endpoints when ChatRateLimit > 0.
	Limiter       *middleware.RateLimiter
	ChatRateLimit int
	Logger        *slog.Logger
}

// NewRouter builds the HTTP handler tree.
//
// Metrics wrap the mux directly and the request logger sits right outside
// them, so both see the matched pattern. Requests rejected by Auth are not
// logged.
func NewRouter(h Handlers, opts RouterOptions) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	var throttle middleware.Middleware
	if opts.Limiter != nil && opts.ChatRateLimit > 0 {
		throttle = opts.Limiter.Limit(opts.ChatRateLimit)
	}
	chat := middleware.Chain(throttle)
	mux.Handle("POST /chat", chat(http.HandlerFunc(h.Chat.Chat)))
	mux.Handle("POST /interpret", chat(http.HandlerFunc(h.Chat.Interpret)))
	mux.HandleFunc("GET /invoices/{id}/pdf", h.Invoice.PDF)

	return middleware.Chain(
		middleware.Recovery(opts.Logger),
		middleware.RequestID(),
		middleware.CORS(opts.CORS),
		opts.Auth,
		middleware.Logger(opts.Logger),
	)(metrics.HTTPMetricsMiddleware(mux))
}
