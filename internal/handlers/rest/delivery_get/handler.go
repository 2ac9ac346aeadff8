package delivery_get

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
		log:     log.With(logger.NewField("handler", "delivery_get")),
		service: service,
	}
}

// ServeHTTP returns the delivery with its status history, oldest first.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(mux.Vars(r), "id")
	if err != nil {
		httpx.WriteBadRequest(w, h.log, err.Error())
		return
	}

	delivery, err := h.service.GetDelivery(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	history, err := h.service.GetHistory(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	response := dto.FromDelivery(delivery)
	response.History = dto.FromHistory(history)
	httpx.WriteJSON(w, h.log, http.StatusOK, response)
}
