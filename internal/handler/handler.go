package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Dan9191/cashbook/internal/middleware"
	"github.com/Dan9191/cashbook/internal/service"
	"github.com/Dan9191/cashbook/internal/validation"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 10 << 20

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError translates a service error into an HTTP response.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Validation failed", "fields": verr.Fields})
	case errors.Is(err, service.ErrValidation):
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		writeErrorMessage(w, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeErrorMessage(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrAppLockNotSet):
		writeErrorMessage(w, http.StatusNotFound, "App lock not set")
	case errors.Is(err, service.ErrInvalidPassword):
		writeErrorMessage(w, http.StatusBadRequest, "Invalid password")
	case errors.Is(err, service.ErrNotFound):
		writeErrorMessage(w, http.StatusNotFound, "Not found")
	case errors.Is(err, service.ErrConflict):
		writeErrorMessage(w, http.StatusConflict, capitalize(err.Error()))
	default:
		h.log.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("Request failed")
		writeErrorMessage(w, http.StatusInternalServerError, "Server error")
	}
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// decodeBody reads a JSON request body into dst, answering 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return false
	}
	return true
}

// pathID parses the {id} route variable.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeErrorMessage(w, http.StatusNotFound, "Not found")
		return 0, false
	}
	return id, true
}

func owner(r *http.Request) int64 {
	return middleware.UserID(r.Context())
}

// APIRoot lists the available endpoints
func (h *Handler) APIRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Cashbook API",
		"version": "1.0",
		"endpoints": map[string]any{
			"authentication": map[string]string{
				"register": "/api/auth/register",
				"login":    "/api/auth/login",
				"refresh":  "/api/auth/refresh",
				"me":       "/api/auth/me",
			},
			"accounts":     "/api/accounts",
			"transactions": "/api/transactions",
			"notes":        "/api/notes",
			"settings":     "/api/settings",
			"backup": map[string]string{
				"get":     "/api/backup",
				"restore": "/api/backup/restore",
			},
		},
	})
}
