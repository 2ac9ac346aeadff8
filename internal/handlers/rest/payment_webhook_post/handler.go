package payment_webhook_post

import (
	"errors"
	"io"
	"net/http"

	"dispatch/internal/gateway/payment"
	"dispatch/internal/pkg/apperr"
	"dispatch/internal/pkg/httpx"
	"dispatch/pkg/logger"
)

const maxPayloadSize = 1 << 20

type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	return &Handler{
		log:     log.With(logger.NewField("handler", "payment_webhook_post")),
		service: service,
	}
}

// ServeHTTP acknowledges a gateway notification with 200 once it is durably
// recorded, whatever its outcome. Only a bad signature, an unreadable body or
// a failure to record earns a non-2xx, which makes the gateway redeliver.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadSize))
	if err != nil {
		httpx.WriteBadRequest(w, h.log, "unreadable body")
		return
	}

	result, err := h.service.HandleWebhook(r.Context(), payload, r.Header.Get(payment.SignatureHeader))
	if err != nil {
		if errors.Is(err, apperr.ErrUnauthorized) {
			h.log.Warn("webhook rejected", logger.NewField("remote", r.RemoteAddr))
		}
		httpx.WriteError(w, h.log, err)
		return
	}

	h.log.Info("webhook processed",
		logger.NewField("reference", result.Reference),
		logger.NewField("outcome", result.Outcome.String()),
		logger.NewField("replayed", result.Replayed),
	)
	w.WriteHeader(http.StatusOK)
}
