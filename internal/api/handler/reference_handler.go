package handler

import (
	"net/http"

	"potd_board/internal/app/service"
	"potd_board/internal/common"

	"github.com/go-chi/chi/v5"
)

type ReferenceHandler struct {
	referenceService *service.ReferenceService
}

func NewReferenceHandler(referenceService *service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService}
}

func (h *ReferenceHandler) RegisterRoutes(r chi.Router) {
	r.Get("/references", h.getReferences)
}

func (h *ReferenceHandler) getReferences(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("slug")
	if slug == "" {
		common.RespondWithError(w, http.StatusBadRequest, "slug is required")
		return
	}
	lang := r.URL.Query().Get("lang")

	references, err := h.referenceService.Build(r.Context(), slug, lang)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, references)
}
