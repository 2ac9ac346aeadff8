package courier_account_get

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
		log:     log.With(logger.NewField("handler", "courier_account_get")),
		service: service,
	}
}

// ServeHTTP returns the courier's balance with a page of earnings, newest
// first. The page is controlled by limit and offset.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	courierID, err := httpx.PathID(mux.Vars(r), "id")
	if err != nil {
		httpx.WriteBadRequest(w, h.log, err.Error())
		return
	}
	limit, err := httpx.QueryUint(r, "limit")
	if err != nil {
		httpx.WriteBadRequest(w, h.log, err.Error())
		return
	}
	offset, err := httpx.QueryUint(r, "offset")
	if err != nil {
		httpx.WriteBadRequest(w, h.log, err.Error())
		return
	}

	account, err := h.service.GetAccount(r.Context(), courierID)
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	earnings, err := h.service.ListEarnings(r.Context(), courierID, limit, offset)
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	httpx.WriteJSON(w, h.log, http.StatusOK, dto.FromCourierAccount(account, earnings))
}
