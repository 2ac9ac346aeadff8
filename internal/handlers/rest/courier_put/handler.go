package courier_put

import (
	"encoding/json"
	"net/http"

	"dispatch/internal/dto"
	"dispatch/internal/entities"
	"dispatch/internal/pkg/httpx"
	"dispatch/pkg/logger"
)

type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	return &Handler{
		log:     log.With(logger.NewField("handler", "courier_put")),
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var request dto.CourierUpdate
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httpx.WriteBadRequest(w, h.log, "invalid JSON body")
		return
	}

	// absent fields stay untouched
	courierModify := entities.CourierModify{
		ID:            &request.ID,
		Name:          request.Name,
		Phone:         request.Phone,
		PayoutAccount: request.PayoutAccount,
	}
	if request.Status != nil {
		statusType := entities.CourierStatusType(*request.Status)
		courierModify.Status = &statusType
	}
	if request.TransportType != nil {
		transportType := entities.CourierTransportType(*request.TransportType)
		courierModify.TransportType = &transportType
	}

	updated, err := h.service.UpdateCourier(r.Context(), courierModify)
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	httpx.WriteJSON(w, h.log, http.StatusOK, dto.FromCourier(updated))
}
