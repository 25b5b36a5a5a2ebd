package commands

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jask/finsight/internal/apperr"
	"github.com/jask/finsight/internal/auth"
	"github.com/jask/finsight/internal/config"
	"github.com/jask/finsight/internal/database"
	"github.com/jask/finsight/internal/database/repository"
	"github.com/jask/finsight/internal/logger"
	"github.com/jask/finsight/internal/service"
)

// app holds the opened database and the services built on it.
type app struct {
	cfg config.Config
	db  *sql.DB
	log zerolog.Logger

	auth        *auth.Service
	ingest      *service.IngestService
	reconciler  *service.Reconciler
	diagnostics *service.DiagnosticsService
	maintenance *service.MaintenanceService
	categorizer *service.CategorizerService
}

func openApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.Log, os.Stderr)

	db, err := database.OpenMigrated(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := database.SeedDefaults(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed defaults: %w", err)
	}

	// repositories
	txRepo := repository.NewTransactionRepo(db)
	fileRepo := repository.NewSourceFileRepo(db)
	catRepo := repository.NewCategoryRepo(db)

	return &app{
		cfg:         cfg,
		db:          db,
		log:         log,
		auth:        auth.NewService(repository.NewUserRepo(db), repository.NewSessionRepo(db), cfg.Auth.SessionTTL),
		ingest:      &service.IngestService{DB: db, AutoApprove: cfg.Ingest.AutoApprove, DateFormats: cfg.Ingest.DateFormats, SampleLimit: cfg.Reconcile.SampleLimit},
		reconciler:  &service.Reconciler{Files: fileRepo, Transactions: txRepo, DateFormats: cfg.Ingest.DateFormats, SampleLimit: cfg.Reconcile.SampleLimit},
		diagnostics: &service.DiagnosticsService{Transactions: txRepo, Files: fileRepo, Categories: catRepo},
		maintenance: &service.MaintenanceService{DB: db},
		categorizer: &service.CategorizerService{Transactions: txRepo, Categories: catRepo},
	}, nil
}

// withLogger returns ctx carrying the app logger.
func (a *app) withLogger(ctx context.Context) context.Context {
	return logger.WithContext(ctx, a.log)
}

// userID resolves the --user email to an id.
func (a *app) userID(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", apperr.Validation("--user is required")
	}
	u, err := a.auth.Users.ByEmail(ctx, email)
	if err != nil {
		return "", apperr.Storage("lookup_user", err)
	}
	if u == nil {
		return "", apperr.NotFound("user %s not found", email)
	}
	return u.ID, nil
}

func (a *app) Close() error {
	return a.db.Close()
}
