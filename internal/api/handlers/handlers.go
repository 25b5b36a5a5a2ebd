package handlers

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jask/finsight/internal/api/middleware"
	"github.com/jask/finsight/internal/apperr"
	"github.com/jask/finsight/internal/auth"
	"github.com/jask/finsight/internal/database/repository"
)

const defaultMaxUploadBytes = 10 << 20

// HealthHandler handles health check requests.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthHandler handles registration, login and session checks.
type AuthHandler struct {
	auth Authenticator
	log  zerolog.Logger
}

func NewAuthHandler(a Authenticator, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: a, log: log}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(r, &req); err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	u, err := h.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	h.log.Info().Str("user_id", u.ID).Msg("user registered")
	middleware.WriteJSON(w, http.StatusCreated, u)
}

// Login handles POST /api/auth/login. The token is returned in the body and as a cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(r, &req); err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	sess, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"token":      sess.Token,
		"user_id":    sess.UserID,
		"expires_at": sess.ExpiresAt,
	})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), middleware.Token(r)); err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Session handles GET /api/auth/session.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"user_id": middleware.UserID(r.Context())})
}

// UploadsHandler handles statement uploads.
type UploadsHandler struct {
	importer Importer
	maxBytes int64
	log      zerolog.Logger
}

func NewUploadsHandler(importer Importer, maxBytes int64, log zerolog.Logger) *UploadsHandler {
	return &UploadsHandler{importer: importer, maxBytes: maxBytes, log: log}
}

// Upload handles POST /api/uploads.
func (h *UploadsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := readUpload(w, r, h.maxBytes)
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	defer file.Close()

	res, err := h.importer.Import(r.Context(), middleware.UserID(r.Context()), header.Filename, r.FormValue("sign_convention"), file)
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, res)
}

// DashboardHandler serves the visible-only monthly summary.
type DashboardHandler struct {
	diag Diagnostics
	log  zerolog.Logger
}

func NewDashboardHandler(diag Diagnostics, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{diag: diag, log: log}
}

// Get handles GET /api/dashboard?month=YYYY-MM.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.diag.Dashboard(r.Context(), middleware.UserID(r.Context()), r.URL.Query().Get("month"))
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, d)
}

// CategoriesHandler lists categories and assigns them to transactions.
type CategoriesHandler struct {
	categorizer Categorizer
	log         zerolog.Logger
}

func NewCategoriesHandler(c Categorizer, log zerolog.Logger) *CategoriesHandler {
	return &CategoriesHandler{categorizer: c, log: log}
}

// List handles GET /api/categories.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.categorizer.ListCategories(r.Context())
	if err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, cats)
}

// SetTransactionCategory handles PATCH /api/transactions/{id}/category.
// A null category_id clears the assignment.
func (h *CategoriesHandler) SetTransactionCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CategoryID *string `json:"category_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	id := r.PathValue("id")
	if err := h.categorizer.SetCategory(r.Context(), middleware.UserID(r.Context()), id, req.CategoryID); err != nil {
		middleware.WriteAppError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"id": id, "category_id": req.CategoryID})
}

func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return apperr.Validation("request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Validation("invalid request body: %v", err)
	}
	return nil
}

func readUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (multipart.File, *multipart.FileHeader, error) {
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, apperr.Validation("upload exceeds %d bytes", maxBytes)
		}
		return nil, nil, apperr.Validation("invalid multipart form: %v", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, apperr.Validation("form field \"file\" is required")
	}
	return file, header, nil
}

// transactionFilters reads source_file_id, status, month and limit from the query.
func transactionFilters(r *http.Request) (repository.TransactionFilters, error) {
	q := r.URL.Query()
	f := repository.TransactionFilters{
		SourceFileID: strings.TrimSpace(q.Get("source_file_id")),
		Status:       strings.TrimSpace(q.Get("status")),
		Month:        strings.TrimSpace(q.Get("month")),
	}
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return f, apperr.Validation("limit must be a non-negative integer")
		}
		f.Limit = n
	}
	return f, nil
}

func allUsersScope(r *http.Request) bool {
	return r.URL.Query().Get("scope") == "all"
}
