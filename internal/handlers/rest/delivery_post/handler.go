package delivery_post

import (
	"encoding/json"
	"net/http"

	"dispatch/internal/dto"
	"dispatch/internal/pkg/httpx"
	"dispatch/pkg/logger"
)

type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	return &Handler{
		log:     log.With(logger.NewField("handler", "delivery_post")),
		service: service,
	}
}

// ServeHTTP books a standalone delivery. Deliveries for orders arrive through
// order events instead.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var request dto.DeliveryCreate
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httpx.WriteBadRequest(w, h.log, "invalid JSON body")
		return
	}

	created, err := h.service.CreateStandaloneDelivery(r.Context(), request.ToEntity())
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	h.log.Info("delivery created",
		logger.NewField("delivery_id", created.ID),
		logger.NewField("fee", created.DeliveryFee.StringFixed(2)),
	)
	httpx.WriteJSON(w, h.log, http.StatusCreated, dto.FromDelivery(created))
}
