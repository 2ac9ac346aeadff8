package deliveries_available_get

import (
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
		log:     log.With(logger.NewField("handler", "deliveries_available_get")),
		service: service,
	}
}

// ServeHTTP lists deliveries a courier may accept now, most urgent first.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	filter, err := dto.DeliveryFilterFromQuery(r.URL.Query())
	if err != nil {
		httpx.WriteBadRequest(w, h.log, err.Error())
		return
	}

	deliveries, err := h.service.ListAvailableDeliveries(r.Context(), filter)
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	httpx.WriteJSON(w, h.log, http.StatusOK, dto.FromDeliveries(deliveries))
}
