package payment_verify_get

import (
	"net/http"

	"dispatch/internal/dto"
	"dispatch/internal/pkg/httpx"
	"dispatch/pkg/logger"

	"github.com/gorilla/mux"
)

type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	return &Handler{
		log:     log.With(logger.NewField("handler", "payment_verify_get")),
		service: service,
	}
}

// ServeHTTP settles a reference on the payer's return from checkout. It is
// safe to call any number of times; repeats replay the first outcome.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	reference := mux.Vars(r)["reference"]

	result, err := h.service.VerifyPayment(r.Context(), reference)
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	httpx.WriteJSON(w, h.log, http.StatusOK, dto.FromSettlementResult(result))
}
