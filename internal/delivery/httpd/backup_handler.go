package httpd

import "net/http"

func (h *Handler) CreateBackup(w http.ResponseWriter, r *http.Request) {
	backup, err := h.backupService.CreateBackup(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccessStatus(w, http.StatusCreated, backup)
}
