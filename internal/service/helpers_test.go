package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/finsight/internal/config"
	"github.com/jask/finsight/internal/database"
	"github.com/jask/finsight/internal/database/repository"
)

type env struct {
	db          *sql.DB
	txs         *repository.TransactionRepo
	files       *repository.SourceFileRepo
	ingest      *IngestService
	reconciler  *Reconciler
	maintenance *MaintenanceService
	diagnostics *DiagnosticsService
	categorizer *CategorizerService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := database.OpenMigrated(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.SeedDefaults(context.Background(), db))

	e := &env{
		db:    db,
		txs:   repository.NewTransactionRepo(db),
		files: repository.NewSourceFileRepo(db),
	}
	cats := repository.NewCategoryRepo(db)
	e.ingest = &IngestService{DB: db, AutoApprove: true, DateFormats: config.DefaultDateFormats, SampleLimit: 20}
	e.reconciler = &Reconciler{Files: e.files, Transactions: e.txs, DateFormats: config.DefaultDateFormats, SampleLimit: 20}
	e.maintenance = &MaintenanceService{DB: db}
	e.diagnostics = &DiagnosticsService{Transactions: e.txs, Files: e.files, Categories: cats}
	e.categorizer = &CategorizerService{Transactions: e.txs, Categories: cats}
	return e
}

func (e *env) addUser(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, repository.NewUserRepo(e.db).Insert(context.Background(), repository.User{
		ID: id, Email: id + "@example.com", PasswordHash: "x", CreatedAt: database.Now(),
	}))
}

func (e *env) importCSV(t *testing.T, userID, filename string, lines ...string) ImportResult {
	t.Helper()
	res, err := e.ingest.Import(context.Background(), userID, filename, "", strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)
	return res
}
