package httpd

import (
	"net/http"

	"github.com/RubachokBoss/evaluation-service/internal/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) LinkEvaluator(w http.ResponseWriter, r *http.Request) {
	projectID, ok := intParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	var req models.LinkEvaluatorRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	link, err := h.linkService.LinkEvaluator(r.Context(), projectID, req.EvaluatorID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccessStatus(w, http.StatusCreated, link)
}

func (h *Handler) UnlinkEvaluator(w http.ResponseWriter, r *http.Request) {
	projectID, ok := intParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	evaluatorID := chi.URLParam(r, "evaluatorID")
	if evaluatorID == "" {
		writeError(w, http.StatusBadRequest, "Evaluator ID is required")
		return
	}

	if err := h.linkService.UnlinkEvaluator(r.Context(), projectID, evaluatorID); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Evaluator unlinked successfully",
	})
}

func (h *Handler) GetEvaluatorsByProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := intParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	links, err := h.linkService.GetEvaluatorsByProject(r.Context(), projectID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, links)
}

func (h *Handler) GetProjectsByEvaluator(w http.ResponseWriter, r *http.Request) {
	evaluatorID := chi.URLParam(r, "id")
	if evaluatorID == "" {
		writeError(w, http.StatusBadRequest, "Evaluator ID is required")
		return
	}

	links, err := h.linkService.GetProjectsByEvaluator(r.Context(), evaluatorID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, links)
}
