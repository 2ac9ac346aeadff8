package courier_deliveries_get

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
		log:     log.With(logger.NewField("handler", "courier_deliveries_get")),
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	courierID, err := httpx.PathID(mux.Vars(r), "id")
	if err != nil {
		httpx.WriteBadRequest(w, h.log, err.Error())
		return
	}
	filter, err := dto.DeliveryFilterFromQuery(r.URL.Query())
	if err != nil {
		httpx.WriteBadRequest(w, h.log, err.Error())
		return
	}

	deliveries, err := h.service.ListCourierDeliveries(r.Context(), courierID, filter)
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	httpx.WriteJSON(w, h.log, http.StatusOK, dto.FromDeliveries(deliveries))
}
