package rate_limiter

import (
	"net/http"
	"strconv"

	"dispatch/internal/pkg/httpx"
	"dispatch/internal/pkg/middlewares/metrics"
	"dispatch/pkg/logger"
)

func Middleware(log handlerLogger, rateLimiterQPS int, rlimiter Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rlimiter.Allow() {
				next.ServeHTTP(w, r)
				return
			}

			route := metrics.RouteTemplate(r)
			log.With(
				logger.NewField("method", r.Method),
				logger.NewField("route", route),
				logger.NewField("remote_addr", r.RemoteAddr),
			).Warn("rate limit exceeded")

			RateLimitExceededTotal.WithLabelValues(r.Method, route).Inc()

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rateLimiterQPS))
			w.Header().Set("Retry-After", "1")
			httpx.WriteJSON(w, log, http.StatusTooManyRequests, httpx.ErrorBody{
				Error: httpx.ErrorDetail{Code: "RATE_LIMITED", Message: "rate limit exceeded, try again later"},
			})
		})
	}
}
