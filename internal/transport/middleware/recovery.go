package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/hassan3301/dailycrm/pkg/ctxutil"
)

// Recovery returns middleware that recovers from panics, logs the error
// with a stack trace and the request ID, and responds with 500 Internal
// Server Error. http.ErrAbortHandler is re-raised so net/http can abort the
// connection quietly.
func Recovery(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					logger.ErrorContext(r.Context(), "panic recovered",
						slog.Any("error", err),
						slog.String("stack", string(debug.Stack())),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.String("request_id", requestIDOf(w, r)),
					)
					http.Error(w, "internal server error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// requestIDOf finds the request ID from outside RequestID, where only the
// response header carries it.
func requestIDOf(w http.ResponseWriter, r *http.Request) string {
	if id := ctxutil.RequestIDFromCtx(r.Context()); id != "" {
		return id
	}
	return w.Header().Get(RequestIDHeader)
}
