// Package api wires the HTTP handlers, middleware and server.
package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/jask/finsight/internal/api/handlers"
	"github.com/jask/finsight/internal/api/middleware"
	"github.com/jask/finsight/internal/config"
)

// Services are the handler dependencies.
type Services struct {
	Auth        handlers.Authenticator
	Importer    handlers.Importer
	Reconciler  handlers.Reconciler
	Diagnostics handlers.Diagnostics
	Maintenance handlers.Maintenance
	Categorizer handlers.Categorizer
}

// NewRouter registers every route. Everything except health, register, login and
// logout requires a session.
func NewRouter(svc Services, cfg config.ServerConfig, log zerolog.Logger) http.Handler {
	authH := handlers.NewAuthHandler(svc.Auth, log)
	uploadsH := handlers.NewUploadsHandler(svc.Importer, cfg.MaxUploadBytes, log)
	dashboardH := handlers.NewDashboardHandler(svc.Diagnostics, log)
	debugH := handlers.NewDebugHandler(svc.Diagnostics, svc.Reconciler, cfg.MaxUploadBytes, log)
	adminH := handlers.NewAdminHandler(svc.Maintenance, log)
	categoriesH := handlers.NewCategoriesHandler(svc.Categorizer, log)

	requireUser := middleware.Auth(svc.Auth)
	private := func(h http.HandlerFunc) http.Handler { return requireUser(h) }

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handlers.HealthHandler)

	// Auth endpoints
	mux.HandleFunc("POST /api/auth/register", authH.Register)
	mux.HandleFunc("POST /api/auth/login", authH.Login)
	mux.HandleFunc("POST /api/auth/logout", authH.Logout)
	mux.Handle("GET /api/auth/session", private(authH.Session))

	mux.Handle("POST /api/uploads", private(uploadsH.Upload))
	mux.Handle("GET /api/dashboard", private(dashboardH.Get))
	mux.Handle("GET /api/categories", private(categoriesH.List))
	mux.Handle("PATCH /api/transactions/{id}/category", private(categoriesH.SetTransactionCategory))

	// Debug endpoints
	mux.Handle("GET /api/debug/transactions/count", private(debugH.TransactionCounts))
	mux.Handle("GET /api/debug/source-files", private(debugH.SourceFiles))
	mux.Handle("GET /api/debug/consistency", private(debugH.Consistency))
	mux.Handle("GET /api/debug/transactions", private(debugH.Transactions))
	mux.Handle("POST /api/debug/reconcile", private(debugH.Reconcile))

	// Admin endpoints
	mux.Handle("POST /api/admin/cleanup-empty-files", private(adminH.CleanupEmptyFiles))
	mux.Handle("DELETE /api/admin/source-files/{id}", private(adminH.DeleteSourceFile))
	mux.Handle("DELETE /api/admin/transactions", private(adminH.DeleteTransactions))
	mux.Handle("POST /api/admin/transactions/approve", private(adminH.ApproveTransactions))

	// Apply middleware
	return middleware.Recovery(log)(
		middleware.RequestID(
			middleware.Logger(log)(
				middleware.CORS(cfg.AllowedOrigin)(mux),
			),
		),
	)
}

// NewServer builds the HTTP server with the configured timeouts.
func NewServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}
