package courier_post

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
		log:     log.With(logger.NewField("handler", "courier_post")),
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var request dto.CourierCreate
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httpx.WriteBadRequest(w, h.log, "invalid JSON body")
		return
	}

	id, err := h.service.CreateCourier(r.Context(), request.ToEntity())
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	httpx.WriteJSON(w, h.log, http.StatusCreated, dto.CourierCreateResponse{ID: id})
}
