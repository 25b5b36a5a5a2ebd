package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/jask/finsight/internal/api/middleware"
	"github.com/jask/finsight/internal/database/repository"
)

// AdminHandler serves destructive maintenance operations.
type AdminHandler struct {
	maint Maintenance
	log   zerolog.Logger
}

func NewAdminHandler(maint Maintenance, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{maint: maint, log: log}
}

// CleanupEmptyFiles handles POST /api/admin/cleanup-empty-files?scope=all.
func (h *AdminHandler) CleanupEmptyFiles(w http.ResponseWriter, r *http.Request) {
	res, err := h.maint.CleanupEmptySourceFiles(r.Context(), middleware.UserID(r.Context()), allUsersScope(r))
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, res)
}

// DeleteSourceFile handles DELETE /api/admin/source-files/{id}.
func (h *AdminHandler) DeleteSourceFile(w http.ResponseWriter, r *http.Request) {
	res, err := h.maint.DeleteSourceFile(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, res)
}

// DeleteTransactions handles DELETE /api/admin/transactions.
func (h *AdminHandler) DeleteTransactions(w http.ResponseWriter, r *http.Request) {
	f, err := transactionFilters(r)
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	n, err := h.maint.DeleteTransactions(r.Context(), middleware.UserID(r.Context()), f)
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

// ApproveTransactions handles POST /api/admin/transactions/approve.
func (h *AdminHandler) ApproveTransactions(w http.ResponseWriter, r *http.Request) {
	f, err := transactionFilters(r)
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	f.Status = repository.StatusPendingReview
	n, err := h.maint.ApproveTransactions(r.Context(), middleware.UserID(r.Context()), f)
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]int64{"approved": n})
}
