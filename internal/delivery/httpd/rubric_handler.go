package httpd

import (
	"net/http"

	"github.com/RubachokBoss/evaluation-service/internal/codec"
	"github.com/RubachokBoss/evaluation-service/internal/models"
)

func (h *Handler) CreateRubric(w http.ResponseWriter, r *http.Request) {
	var req models.RubricRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	rubric, err := h.rubricService.CreateRubric(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccessStatus(w, http.StatusCreated, rubric)
}

func (h *Handler) GetAllRubrics(w http.ResponseWriter, r *http.Request) {
	rubrics, err := h.rubricService.ListRubrics(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if rubrics == nil {
		rubrics = []models.Rubric{}
	}

	writeSuccess(w, rubrics)
}

// ExportRubrics serves the rubric overview as a semicolon separated file.
func (h *Handler) ExportRubrics(w http.ResponseWriter, r *http.Request) {
	rubrics, err := h.rubricService.ListRubrics(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="fichas.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(codec.EncodeRubricList(rubrics)))
}

func (h *Handler) GetRubricByID(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid rubric ID")
		return
	}

	rubric, err := h.rubricService.GetRubric(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, rubric)
}

func (h *Handler) UpdateRubric(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid rubric ID")
		return
	}

	var req models.RubricRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	rubric, err := h.rubricService.UpdateRubric(r.Context(), id, &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, rubric)
}

func (h *Handler) DeleteRubric(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid rubric ID")
		return
	}

	if err := h.rubricService.DeleteRubric(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Rubric deleted successfully",
	})
}

func (h *Handler) GetGradingForm(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid rubric ID")
		return
	}

	form, err := h.rubricService.GradingForm(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, form)
}
