package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jask/finsight/internal/apperr"
	"github.com/jask/finsight/internal/database"
	"github.com/jask/finsight/internal/database/repository"
	"github.com/jask/finsight/internal/logger"
)

// MaintenanceService houses destructive/ops actions surfaced through the admin API and CLI.
type MaintenanceService struct {
	DB *sql.DB
}

// CleanupResult reports how many empty source files were removed.
type CleanupResult struct {
	Deleted int      `json:"deleted"`
	IDs     []string `json:"ids"`
}

// CleanupEmptySourceFiles deletes every source file with no transactions, for userID
// or for all users. Either all identified files are deleted or none are.
func (s *MaintenanceService) CleanupEmptySourceFiles(ctx context.Context, userID string, allUsers bool) (CleanupResult, error) {
	if err := requireUser(userID); err != nil {
		return CleanupResult{}, err
	}
	scope := userID
	if allUsers {
		scope = ""
	}
	res := CleanupResult{IDs: []string{}}
	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		files := repository.NewSourceFileRepo(tx)
		empty, err := files.ListEmpty(ctx, scope)
		if err != nil {
			return err
		}
		for _, f := range empty {
			if _, err := files.Delete(ctx, f.ID); err != nil {
				return err
			}
			res.IDs = append(res.IDs, f.ID)
		}
		return nil
	})
	if err != nil {
		return CleanupResult{Deleted: 0, IDs: []string{}}, apperr.Storage("cleanup_empty_files", err)
	}
	res.Deleted = len(res.IDs)
	log := logger.FromContext(ctx)
	log.Info().Str("user_id", userID).Bool("all_users", allUsers).
		Int("deleted", res.Deleted).Msg("empty source files cleaned up")
	return res, nil
}

// DeleteFileResult reports what DeleteSourceFile removed.
type DeleteFileResult struct {
	SourceFileID        string `json:"source_file_id"`
	DeletedTransactions int64  `json:"deleted_transactions"`
}

// DeleteSourceFile removes a file and all of its transactions atomically.
func (s *MaintenanceService) DeleteSourceFile(ctx context.Context, userID, id string) (DeleteFileResult, error) {
	if err := requireUser(userID); err != nil {
		return DeleteFileResult{}, err
	}
	res := DeleteFileResult{SourceFileID: id}
	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		files := repository.NewSourceFileRepo(tx)
		f, err := files.Get(ctx, userID, id)
		if err != nil {
			return apperr.Storage("delete_source_file.get", err)
		}
		if f == nil {
			return apperr.NotFound("source file %s not found", id)
		}
		n, err := repository.NewTransactionRepo(tx).Delete(ctx, repository.TransactionFilters{UserID: userID, SourceFileID: id})
		if err != nil {
			return err
		}
		res.DeletedTransactions = n
		_, err = files.Delete(ctx, id)
		return err
	})
	if err != nil {
		return DeleteFileResult{}, apperr.Storage("delete_source_file", err)
	}
	return res, nil
}

// DeleteTransactions deletes the user's rows matching f. At least one filter is required.
func (s *MaintenanceService) DeleteTransactions(ctx context.Context, userID string, f repository.TransactionFilters) (int64, error) {
	if err := requireUser(userID); err != nil {
		return 0, err
	}
	if err := validateFilters(f); err != nil {
		return 0, err
	}
	if !f.Scoped() {
		return 0, apperr.Validation("at least one filter (source_file_id, status, month) is required")
	}
	f.UserID = userID
	f.Limit = 0
	n, err := repository.NewTransactionRepo(s.DB).Delete(ctx, f)
	if err != nil {
		return 0, apperr.Storage("delete_transactions", err)
	}
	return n, nil
}

// ApproveTransactions moves the user's matching pending rows to approved.
func (s *MaintenanceService) ApproveTransactions(ctx context.Context, userID string, f repository.TransactionFilters) (int64, error) {
	if err := requireUser(userID); err != nil {
		return 0, err
	}
	if err := validateFilters(f); err != nil {
		return 0, err
	}
	f.UserID = userID
	f.Limit = 0
	n, err := repository.NewTransactionRepo(s.DB).Approve(ctx, f)
	if err != nil {
		return 0, apperr.Storage("approve_transactions", err)
	}
	return n, nil
}

// Reset wipes all user data. It keeps the schema and seeded categories so the app can continue running.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		tables := []string{
			"transactions",
			"source_files",
			"sessions",
			"users",
		}
		for _, t := range tables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return nil
}

func validateFilters(f repository.TransactionFilters) error {
	switch strings.TrimSpace(f.Status) {
	case "", repository.StatusApproved, repository.StatusPendingReview:
	default:
		return apperr.Validation("status must be %q or %q", repository.StatusPendingReview, repository.StatusApproved)
	}
	return nil
}
