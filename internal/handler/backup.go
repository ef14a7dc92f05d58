package handler

import (
	"io"
	"net/http"

	"github.com/Dan9191/cashbook/internal/models"
)

// Backup returns the owner's full backup document
func (h *Handler) Backup(w http.ResponseWriter, r *http.Request) {
	backup, err := h.svc.ExportBackup(r.Context(), owner(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, backup)
}

// Restore replaces the owner's data with the uploaded document. A body that
// is not JSON is rejected before anything is deleted.
func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid backup data")
		return
	}
	doc, err := models.ParseRestoreDocument(raw)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid backup data")
		return
	}
	result, err := h.svc.RestoreBackup(r.Context(), owner(r), doc)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
