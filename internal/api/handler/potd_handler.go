package handler

import (
	"net/http"

	"potd_board/internal/app/service"
	"potd_board/internal/common"

	"github.com/go-chi/chi/v5"
)

type POTDHandler struct {
	potdService *service.POTDService
}

func NewPOTDHandler(potdService *service.POTDService) *POTDHandler {
	return &POTDHandler{potdService: potdService}
}

func (h *POTDHandler) RegisterRoutes(r chi.Router) {
	r.Get("/potd", h.getPOTD)
}

func (h *POTDHandler) getPOTD(w http.ResponseWriter, r *http.Request) {
	potd, err := h.potdService.Get(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, potd)
}
