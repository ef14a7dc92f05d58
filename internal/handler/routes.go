package handler

import (
	"github.com/Dan9191/cashbook/internal/config"
	"github.com/Dan9191/cashbook/internal/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// NewRouter wires every endpoint. Everything except the API root, register,
// login and refresh requires a bearer token.
func NewRouter(h *Handler, cfg *config.Config, log *logrus.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware(log))

	api := r.PathPrefix("/api").Subrouter()
	// Public routes
	api.HandleFunc("", h.APIRoot).Methods("GET")
	api.HandleFunc("/auth/register", h.Register).Methods("POST")
	api.HandleFunc("/auth/login", h.Login).Methods("POST")
	api.HandleFunc("/auth/refresh", h.Refresh).Methods("POST")

	// Protected routes
	authRouter := api.NewRoute().Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))

	authRouter.HandleFunc("/auth/me", h.Me).Methods("GET")

	authRouter.HandleFunc("/accounts", h.ListAccounts).Methods("GET")
	authRouter.HandleFunc("/accounts", h.CreateAccount).Methods("POST")
	authRouter.HandleFunc("/accounts/{id:[0-9]+}", h.GetAccount).Methods("GET")
	authRouter.HandleFunc("/accounts/{id:[0-9]+}", h.UpdateAccount).Methods("PUT", "PATCH")
	authRouter.HandleFunc("/accounts/{id:[0-9]+}", h.DeleteAccount).Methods("DELETE")

	authRouter.HandleFunc("/transactions", h.ListTransactions).Methods("GET")
	authRouter.HandleFunc("/transactions", h.CreateTransaction).Methods("POST")
	authRouter.HandleFunc("/transactions/summary", h.TransactionSummary).Methods("GET")
	authRouter.HandleFunc("/transactions/{id:[0-9]+}", h.GetTransaction).Methods("GET")
	authRouter.HandleFunc("/transactions/{id:[0-9]+}", h.UpdateTransaction).Methods("PUT")
	authRouter.HandleFunc("/transactions/{id:[0-9]+}", h.PatchTransaction).Methods("PATCH")
	authRouter.HandleFunc("/transactions/{id:[0-9]+}", h.DeleteTransaction).Methods("DELETE")

	authRouter.HandleFunc("/notes", h.ListNotes).Methods("GET")
	authRouter.HandleFunc("/notes", h.CreateNote).Methods("POST")
	authRouter.HandleFunc("/notes/{id:[0-9]+}", h.GetNote).Methods("GET")
	authRouter.HandleFunc("/notes/{id:[0-9]+}", h.UpdateNote).Methods("PUT", "PATCH")
	authRouter.HandleFunc("/notes/{id:[0-9]+}", h.DeleteNote).Methods("DELETE")

	authRouter.HandleFunc("/settings", h.GetSettings).Methods("GET")
	authRouter.HandleFunc("/settings", h.UpdateSettings).Methods("PUT", "PATCH")
	authRouter.HandleFunc("/settings/set_app_lock", h.SetAppLock).Methods("POST")
	authRouter.HandleFunc("/settings/verify_app_lock", h.VerifyAppLock).Methods("POST")
	authRouter.HandleFunc("/settings/remove_app_lock", h.RemoveAppLock).Methods("DELETE")

	authRouter.HandleFunc("/backup", h.Backup).Methods("GET")
	authRouter.HandleFunc("/backup/restore", h.Restore).Methods("POST")

	return r
}
