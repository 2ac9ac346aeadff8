package delivery_status_post

import (
	"encoding/json"
	"net/http"
	"strings"

	"dispatch/internal/dto"
	"dispatch/internal/entities"
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
		log:     log.With(logger.NewField("handler", "delivery_status_post")),
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	deliveryID, err := httpx.PathID(mux.Vars(r), "id")
	if err != nil {
		httpx.WriteBadRequest(w, h.log, err.Error())
		return
	}

	var request dto.DeliveryStatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httpx.WriteBadRequest(w, h.log, "invalid JSON body")
		return
	}
	status := entities.DeliveryStatus(strings.ToUpper(strings.TrimSpace(request.Status)))

	var updated *entities.Delivery
	switch {
	case request.CourierID != nil:
		note := request.Note
		if request.Reason != nil && (status == entities.DeliveryCancelled || status == entities.DeliveryFailed) {
			note = request.Reason
		}
		updated, err = h.service.UpdateStatus(r.Context(), entities.StatusUpdate{
			DeliveryID:      deliveryID,
			CourierID:       *request.CourierID,
			Status:          status,
			Note:            note,
			Lat:             request.Lat,
			Lng:             request.Lng,
			ProofOfDelivery: request.ProofOfDelivery,
			SignatureRef:    request.SignatureRef,
		})
	case request.ActorID != nil && status == entities.DeliveryCancelled:
		updated, err = h.service.CancelDelivery(r.Context(), deliveryID, *request.ActorID, stringOrEmpty(request.Reason))
	case request.ActorID != nil && status == entities.DeliveryFailed:
		updated, err = h.service.FailDelivery(r.Context(), deliveryID, *request.ActorID, stringOrEmpty(request.Reason))
	default:
		httpx.WriteBadRequest(w, h.log, "courier_id is required, or actor_id to cancel or fail")
		return
	}
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	httpx.WriteJSON(w, h.log, http.StatusOK, dto.FromDelivery(updated))
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
