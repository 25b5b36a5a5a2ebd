package handlers

//go:generate mockgen -destination=mocks/mock_handlers.go -source=interfaces.go

import (
	"context"
	"io"

	"github.com/jask/finsight/internal/csvimport"
	"github.com/jask/finsight/internal/database/repository"
	"github.com/jask/finsight/internal/service"
)

type Authenticator interface {
	Register(ctx context.Context, email, password string) (repository.User, error)
	Login(ctx context.Context, email, password string) (repository.Session, error)
	Authenticate(ctx context.Context, token string) (string, error)
	Logout(ctx context.Context, token string) error
}

type Importer interface {
	Import(ctx context.Context, userID, filename, signConvention string, r io.Reader) (service.ImportResult, error)
}

type Reconciler interface {
	FindMissing(ctx context.Context, userID string, table csvimport.Table, req service.ReconcileRequest) (service.ReconcileReport, error)
}

type Diagnostics interface {
	TransactionCounts(ctx context.Context, userID string) (service.TransactionCounts, error)
	SourceFileBreakdown(ctx context.Context, userID string, allUsers bool) (service.SourceFileBreakdown, error)
	Consistency(ctx context.Context, userID string) (service.ConsistencyReport, error)
	SampleTransactions(ctx context.Context, userID string, f repository.TransactionFilters) ([]repository.Transaction, error)
	Dashboard(ctx context.Context, userID, month string) (service.Dashboard, error)
}

type Maintenance interface {
	CleanupEmptySourceFiles(ctx context.Context, userID string, allUsers bool) (service.CleanupResult, error)
	DeleteSourceFile(ctx context.Context, userID, id string) (service.DeleteFileResult, error)
	DeleteTransactions(ctx context.Context, userID string, f repository.TransactionFilters) (int64, error)
	ApproveTransactions(ctx context.Context, userID string, f repository.TransactionFilters) (int64, error)
}

type Categorizer interface {
	ListCategories(ctx context.Context) ([]repository.Category, error)
	SetCategory(ctx context.Context, userID, transactionID string, categoryID *string) error
}
