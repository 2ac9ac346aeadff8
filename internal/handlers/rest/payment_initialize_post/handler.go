package payment_initialize_post

import (
	"encoding/json"
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
		log:     log.With(logger.NewField("handler", "payment_initialize_post")),
		service: service,
	}
}

// ServeHTTP opens a checkout for the delivery fee and returns the gateway URL
// the payer is sent to.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	deliveryID, err := httpx.PathID(mux.Vars(r), "id")
	if err != nil {
		httpx.WriteBadRequest(w, h.log, err.Error())
		return
	}

	var request dto.PaymentInitializeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httpx.WriteBadRequest(w, h.log, "invalid JSON body")
		return
	}

	init, err := h.service.InitializePayment(r.Context(), deliveryID, request.Email)
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	h.log.Info("payment initialized",
		logger.NewField("delivery_id", init.DeliveryID),
		logger.NewField("reference", init.Reference),
	)
	httpx.WriteJSON(w, h.log, http.StatusOK, dto.FromPaymentInit(init))
}
