package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/Dan9191/cashbook/internal/models"
	"github.com/Dan9191/cashbook/internal/validation"
)

func transactionFilter(r *http.Request) models.TransactionFilter {
	q := r.URL.Query()
	return models.TransactionFilter{
		Account:   q.Get("account"),
		Type:      q.Get("type"),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
		Ordering:  q.Get("ordering"),
	}
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.svc.ListTransactions(r.Context(), owner(r), transactionFilter(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (h *Handler) TransactionSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.SummarizeTransactions(r.Context(), owner(r), transactionFilter(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var in validation.TransactionInput
	if !decodeBody(w, r, &in) {
		return
	}
	tx, err := h.svc.CreateTransaction(r.Context(), owner(r), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	tx, err := h.svc.GetTransaction(r.Context(), owner(r), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in validation.TransactionInput
	if !decodeBody(w, r, &in) {
		return
	}
	tx, err := h.svc.UpdateTransaction(r.Context(), owner(r), id, in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

// PatchTransaction updates only the fields present in the body
func (h *Handler) PatchTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	tx, err := h.svc.PatchTransaction(r.Context(), owner(r), id, raw)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteTransaction(r.Context(), owner(r), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
