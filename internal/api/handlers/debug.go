package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/jask/finsight/internal/api/middleware"
	"github.com/jask/finsight/internal/csvimport"
	"github.com/jask/finsight/internal/service"
)

// DebugHandler serves read-only diagnostics and statement reconciliation.
type DebugHandler struct {
	diag       Diagnostics
	reconciler Reconciler
	maxBytes   int64
	log        zerolog.Logger
}

func NewDebugHandler(diag Diagnostics, reconciler Reconciler, maxBytes int64, log zerolog.Logger) *DebugHandler {
	return &DebugHandler{diag: diag, reconciler: reconciler, maxBytes: maxBytes, log: log}
}

// TransactionCounts handles GET /api/debug/transactions/count.
func (h *DebugHandler) TransactionCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.diag.TransactionCounts(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, counts)
}

// SourceFiles handles GET /api/debug/source-files?scope=all.
func (h *DebugHandler) SourceFiles(w http.ResponseWriter, r *http.Request) {
	b, err := h.diag.SourceFileBreakdown(r.Context(), middleware.UserID(r.Context()), allUsersScope(r))
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, b)
}

// Consistency handles GET /api/debug/consistency.
func (h *DebugHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	rep, err := h.diag.Consistency(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, rep)
}

// Transactions handles GET /api/debug/transactions.
func (h *DebugHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	f, err := transactionFilters(r)
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	rows, err := h.diag.SampleTransactions(r.Context(), middleware.UserID(r.Context()), f)
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"count":        len(rows),
		"transactions": rows,
	})
}

// Reconcile handles POST /api/debug/reconcile. The uploaded statement is compared
// against stored rows and nothing is written.
func (h *DebugHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	file, header, err := readUpload(w, r, h.maxBytes)
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	defer file.Close()

	table, err := csvimport.Read(file)
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	req := service.ReconcileRequest{
		SourceFileID: r.FormValue("source_file_id"),
		Filename:     r.FormValue("filename"),
		Month:        r.FormValue("month"),
	}
	if req.Filename == "" {
		req.Filename = header.Filename
	}

	report, err := h.reconciler.FindMissing(r.Context(), middleware.UserID(r.Context()), table, req)
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, report)
}
