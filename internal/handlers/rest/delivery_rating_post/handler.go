package delivery_rating_post

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
		log:     log.With(logger.NewField("handler", "delivery_rating_post")),
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	deliveryID, err := httpx.PathID(mux.Vars(r), "id")
	if err != nil {
		httpx.WriteBadRequest(w, h.log, err.Error())
		return
	}

	var request dto.DeliveryRating
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httpx.WriteBadRequest(w, h.log, "invalid JSON body")
		return
	}

	rated, err := h.service.RateDelivery(r.Context(), deliveryID, request.Rating, request.Review)
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	httpx.WriteJSON(w, h.log, http.StatusOK, dto.FromDelivery(rated))
}
