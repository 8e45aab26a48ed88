package httpd

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/RubachokBoss/evaluation-service/internal/grading"
	"github.com/RubachokBoss/evaluation-service/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	rubricService  service.RubricService
	gradingService service.GradingService
	linkService    service.LinkService
	backupService  service.BackupService
	store          Pinger
	storageDriver  string
	validate       *validator.Validate
	logger         zerolog.Logger
}

func NewHandler(
	rubricService service.RubricService,
	gradingService service.GradingService,
	linkService service.LinkService,
	backupService service.BackupService,
	store Pinger,
	storageDriver string,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		rubricService:  rubricService,
		gradingService: gradingService,
		linkService:    linkService,
		backupService:  backupService,
		store:          store,
		storageDriver:  storageDriver,
		validate:       validator.New(),
		logger:         logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)

	router.Route("/api/v1", func(api chi.Router) {
		api.Route("/rubrics", func(r chi.Router) {
			r.Post("/", h.CreateRubric)
			r.Get("/", h.GetAllRubrics)
			r.Get("/export", h.ExportRubrics)
			r.Get("/{id}", h.GetRubricByID)
			r.Put("/{id}", h.UpdateRubric)
			r.Delete("/{id}", h.DeleteRubric)
			r.Get("/{id}/form", h.GetGradingForm)
		})

		api.Route("/grades", func(r chi.Router) {
			r.Post("/", h.SubmitGrade)
			r.Get("/{id}", h.GetGradeByID)
			r.Delete("/{id}", h.DeleteGrade)
		})

		api.Route("/projects/{id}", func(r chi.Router) {
			r.Get("/grades", h.GetGradesByProject)
			r.Get("/result", h.GetProjectResult)
			r.Get("/evaluators", h.GetEvaluatorsByProject)
			r.Post("/evaluators", h.LinkEvaluator)
			r.Delete("/evaluators/{evaluatorID}", h.UnlinkEvaluator)
		})

		api.Get("/evaluators/{id}/projects", h.GetProjectsByEvaluator)

		api.Post("/backups", h.CreateBackup)
	})
}

// intParam reads a positive integer path parameter.
func intParam(r *http.Request, key string) (int, bool) {
	value, err := strconv.Atoi(chi.URLParam(r, key))
	if err != nil || value <= 0 {
		return 0, false
	}
	return value, true
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
// It writes the 400 response itself and reports whether the handler may continue.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			writeError(w, http.StatusBadRequest, validationMessage(verrs))
			return false
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}

	return true
}

func validationMessage(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Namespace()+" failed on "+fe.Tag())
	}
	return strings.Join(parts, "; ")
}

// handleServiceError maps service sentinels to statuses; anything else is a store failure.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrRubricNotFound),
		errors.Is(err, service.ErrGradeNotFound),
		errors.Is(err, service.ErrLinkNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrRubricInUse),
		errors.Is(err, service.ErrTooManyEvaluators),
		errors.Is(err, service.ErrLinkHasGrade):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidEvaluatorID),
		errors.Is(err, service.ErrEvaluatorNotLinked),
		errors.Is(err, grading.ErrUnknownCriterion),
		errors.Is(err, grading.ErrMissingScore),
		errors.Is(err, grading.ErrDuplicateScore),
		errors.Is(err, grading.ErrScoreOutOfRange),
		errors.Is(err, grading.ErrDuplicateSection),
		errors.Is(err, grading.ErrDuplicateCriterion):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrBackupDisabled):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.logger.Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Service error")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error":   http.StatusText(status),
		"message": message,
	})
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	writeSuccessStatus(w, http.StatusOK, data)
}

func writeSuccessStatus(w http.ResponseWriter, status int, data interface{}) {
	response := map[string]interface{}{
		"success": true,
		"data":    data,
	}
	writeJSON(w, status, response)
}
