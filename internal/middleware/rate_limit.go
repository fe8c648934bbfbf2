package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"sea/internal/metrics"
	"sea/internal/ratelimit"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const tooManyRequests = "Too many requests. Please try again later."

// RateLimit admits each client through limiter and answers 429 otherwise.
// window is only used for the Retry-After hint.
func RateLimit(limiter ratelimit.Limiter, window time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	retryAfter := strconv.Itoa(int((window + time.Second - 1) / time.Second))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := ratelimit.ClientID(r)

			if !limiter.Admit(r.Context(), client) {
				route := routePattern(r)
				metrics.RateLimitRejections.WithLabelValues(route).Inc()
				logger.Warn("Rate limit exceeded",
					slog.String("client", client),
					slog.String("route", route),
					slog.String("request_id", chimw.GetReqID(r.Context())),
				)

				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.Header().Set("Retry-After", retryAfter)
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"success": false,
					"message": tooManyRequests,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// unmatchedRoute labels requests that matched no route.
const unmatchedRoute = "unmatched"

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return unmatchedRoute
}
