package delivery_accept_post

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
		log:     log.With(logger.NewField("handler", "delivery_accept_post")),
		service: service,
	}
}

// ServeHTTP claims a delivery for a courier. A claim that lost to another
// courier or to a cancel gets 409. An unpaid delivery gets 422.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	deliveryID, err := httpx.PathID(mux.Vars(r), "id")
	if err != nil {
		httpx.WriteBadRequest(w, h.log, err.Error())
		return
	}

	var request dto.DeliveryAccept
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httpx.WriteBadRequest(w, h.log, "invalid JSON body")
		return
	}

	accepted, err := h.service.Accept(r.Context(), deliveryID, request.CourierID, request.EstimatedPickupAt, request.EstimatedDeliveryAt)
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	httpx.WriteJSON(w, h.log, http.StatusOK, dto.FromDelivery(accepted))
}
