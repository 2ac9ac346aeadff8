package ping_get

import (
	"net/http"
	"time"

	"dispatch/internal/dto"
	"dispatch/internal/pkg/httpx"
	"dispatch/pkg/logger"
)

type Handler struct {
	log handlerLogger
	now func() time.Time
}

func New(log handlerLogger) *Handler {
	return &Handler{
		log: log.With(logger.NewField("handler", "ping_get")),
		now: time.Now,
	}
}

// ServeHTTP answers with the server clock in UTC so callers can spot skew
// against the timestamps the API returns.
func (h *Handler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, h.log, http.StatusOK, dto.PingResponse{
		Message:    "pong",
		ServerTime: h.now().UTC(),
	})
}
