package httpd

import (
	"net/http"

	"github.com/RubachokBoss/evaluation-service/internal/models"
)

func (h *Handler) SubmitGrade(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitGradeRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	grade, err := h.gradingService.SubmitGrade(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, grade)
}

func (h *Handler) GetGradeByID(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid grade ID")
		return
	}

	grade, err := h.gradingService.GetGrade(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, grade)
}

func (h *Handler) DeleteGrade(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid grade ID")
		return
	}

	if err := h.gradingService.DeleteGrade(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Grade deleted successfully",
	})
}

func (h *Handler) GetGradesByProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := intParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	grades, err := h.gradingService.GetGradesByProject(r.Context(), projectID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, grades)
}

func (h *Handler) GetProjectResult(w http.ResponseWriter, r *http.Request) {
	projectID, ok := intParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	result, err := h.gradingService.GetProjectResult(r.Context(), projectID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, result)
}
