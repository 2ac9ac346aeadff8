package graceful_shutdown

import (
	"context"
	"net/http"
	"strconv"
	"sync/atomic"

	"dispatch/internal/pkg/httpx"
	"dispatch/pkg/logger"
)

type responseLogger interface {
	Error(msg string, fields ...logger.Field)
}

// Middleware turns new requests away with 503 once the server has started
// draining. Requests already in flight are not affected.
func Middleware(log responseLogger, isShuttingDown *atomic.Bool, ongoingCtx context.Context) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-ongoingCtx.Done():
				if isShuttingDown.Load() {
					w.Header().Set("Retry-After", strconv.Itoa(httpx.RetryAfter))
					httpx.WriteJSON(w, log, http.StatusServiceUnavailable, httpx.ErrorBody{
						Error: httpx.ErrorDetail{Code: "SHUTTING_DOWN", Message: "service is shutting down"},
					})
					return
				}
			default:
			}
			next.ServeHTTP(w, r)
		})
	}
}
