package handler

import (
	"net/http"

	"github.com/Dan9191/cashbook/internal/models"
	"github.com/Dan9191/cashbook/internal/validation"
)

type appLockRequest struct {
	Password string `json:"password"`
}

// settingsResponse hides the app lock hash from the settings endpoints.
type settingsResponse struct {
	*models.Settings
	AppLockPassword *string `json:"app_lock_password,omitempty"`
	AppLockEnabled  bool    `json:"appLockEnabled"`
}

func newSettingsResponse(s *models.Settings) settingsResponse {
	return settingsResponse{Settings: s, AppLockEnabled: s.HasAppLock()}
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.GetSettings(r.Context(), owner(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSettingsResponse(settings))
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var in validation.SettingsInput
	if !decodeBody(w, r, &in) {
		return
	}
	settings, err := h.svc.UpdateSettings(r.Context(), owner(r), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSettingsResponse(settings))
}

func (h *Handler) SetAppLock(w http.ResponseWriter, r *http.Request) {
	var in appLockRequest
	if !decodeBody(w, r, &in) {
		return
	}
	if err := h.svc.SetAppLock(r.Context(), owner(r), in.Password); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeMessage(w, "App lock password set successfully")
}

func (h *Handler) VerifyAppLock(w http.ResponseWriter, r *http.Request) {
	var in appLockRequest
	if !decodeBody(w, r, &in) {
		return
	}
	if err := h.svc.VerifyAppLock(r.Context(), owner(r), in.Password); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeMessage(w, "Password verified")
}

func (h *Handler) RemoveAppLock(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveAppLock(r.Context(), owner(r)); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeMessage(w, "App lock removed successfully")
}
