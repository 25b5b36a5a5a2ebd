package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jask/finsight/internal/reconcile"
)

// TransactionFilters defines list/count/delete filters. Zero values mean "no filter".
type TransactionFilters struct {
	UserID              string // empty = all users
	ID                  string
	SourceFileID        string
	ExcludeSourceFileID string
	Status              string
	Month               string // YYYY-MM, compared lexically against [month-01, month-32)
	OrphansOnly         bool
	Limit               int
}

// Scoped reports whether any row-selecting filter besides UserID is set.
func (f TransactionFilters) Scoped() bool {
	return f.ID != "" || f.SourceFileID != "" || f.Status != "" || f.Month != "" || f.OrphansOnly
}

// MonthRange is the month bound shared with statement-side filtering.
func MonthRange(month string) (start, end string) {
	return reconcile.MonthRange(month)
}

func (f TransactionFilters) where() (string, []any) {
	var where []string
	var args []any

	if f.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, f.UserID)
	}
	if f.ID != "" {
		where = append(where, "id = ?")
		args = append(args, f.ID)
	}
	if f.SourceFileID != "" {
		where = append(where, "source_file_id = ?")
		args = append(args, f.SourceFileID)
	}
	if f.ExcludeSourceFileID != "" {
		where = append(where, "(source_file_id IS NULL OR source_file_id != ?)")
		args = append(args, f.ExcludeSourceFileID)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if f.Month != "" {
		start, end := MonthRange(f.Month)
		where = append(where, "date >= ? AND date < ?")
		args = append(args, start, end)
	}
	if f.OrphansOnly {
		where = append(where, "(source_file_id IS NULL OR source_file_id NOT IN (SELECT id FROM source_files))")
	}
	if len(where) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

const transactionColumns = `id, date, merchant_raw, merchant_normalized, amount, category_id, confidence_score,
 status, source_file_id, user_id, import_error_reason, import_error_message, created_at`

// TransactionRepo handles transactions.
type TransactionRepo struct {
	db DBTX
}

func NewTransactionRepo(db DBTX) *TransactionRepo { return &TransactionRepo{db: db} }

func (r *TransactionRepo) Insert(ctx context.Context, t Transaction) error {
	status := t.Status
	if status == "" {
		status = StatusPendingReview
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO transactions(
	 id, date, merchant_raw, merchant_normalized, amount, category_id, confidence_score,
	 status, source_file_id, user_id, import_error_reason, import_error_message, created_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
	`,
		t.ID, t.Date, t.MerchantRaw, t.MerchantNormalized, t.Amount.String(), t.CategoryID, t.ConfidenceScore,
		status, t.SourceFileID, t.UserID, t.ImportErrorReason, t.ImportErrorMessage)
	return err
}

// List returns matching rows in insertion order within each date.
func (r *TransactionRepo) List(ctx context.Context, f TransactionFilters) ([]Transaction, error) {
	where, args := f.where()
	query := "SELECT " + transactionColumns + " FROM transactions" + where + " ORDER BY date ASC, rowid ASC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TransactionRepo) Get(ctx context.Context, userID, id string) (*Transaction, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+transactionColumns+" FROM transactions WHERE id = ? AND user_id = ?", id, userID)
	t, err := scanTransaction(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepo) Count(ctx context.Context, f TransactionFilters) (int, error) {
	where, args := f.where()
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions"+where, args...).Scan(&n)
	return n, err
}

// CountByStatus always reports both review states, zero-filled.
func (r *TransactionRepo) CountByStatus(ctx context.Context, f TransactionFilters) (map[string]int, error) {
	where, args := f.where()
	rows, err := r.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM transactions"+where+" GROUP BY status", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int{StatusPendingReview: 0, StatusApproved: 0}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}

// CountByImportError buckets rows flagged at import time by reason.
func (r *TransactionRepo) CountByImportError(ctx context.Context, f TransactionFilters) (map[string]int, error) {
	where, args := f.where()
	if where == "" {
		where = " WHERE import_error_reason IS NOT NULL"
	} else {
		where += " AND import_error_reason IS NOT NULL"
	}
	rows, err := r.db.QueryContext(ctx, "SELECT import_error_reason, COUNT(*) FROM transactions"+where+" GROUP BY import_error_reason", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var reason string
		var n int
		if err := rows.Scan(&reason, &n); err != nil {
			return nil, err
		}
		out[reason] = n
	}
	return out, rows.Err()
}

// Delete removes matching rows and returns how many were deleted.
func (r *TransactionRepo) Delete(ctx context.Context, f TransactionFilters) (int64, error) {
	where, args := f.where()
	res, err := r.db.ExecContext(ctx, "DELETE FROM transactions"+where, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Approve moves matching pending rows to approved and clears their import flags.
func (r *TransactionRepo) Approve(ctx context.Context, f TransactionFilters) (int64, error) {
	f.Status = StatusPendingReview
	where, args := f.where()
	res, err := r.db.ExecContext(ctx, `UPDATE transactions
	SET status = '`+StatusApproved+`', import_error_reason = NULL, import_error_message = NULL`+where, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *TransactionRepo) UpdateCategory(ctx context.Context, userID, id string, categoryID *string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE transactions SET category_id = ? WHERE id = ? AND user_id = ?`, categoryID, id, userID)
	return err
}

func scanTransaction(row scanner) (Transaction, error) {
	var t Transaction
	var category, source, reason, message sql.NullString
	var confidence sql.NullFloat64
	if err := row.Scan(&t.ID, &t.Date, &t.MerchantRaw, &t.MerchantNormalized, &t.Amount, &category, &confidence,
		&t.Status, &source, &t.UserID, &reason, &message, &t.CreatedAt); err != nil {
		return Transaction{}, err
	}
	t.CategoryID = nullableString(category)
	t.SourceFileID = nullableString(source)
	t.ImportErrorReason = nullableString(reason)
	t.ImportErrorMessage = nullableString(message)
	if confidence.Valid {
		t.ConfidenceScore = &confidence.Float64
	}
	return t, nil
}

// MerchantCategoryCount is how often a merchant was filed under a category.
type MerchantCategoryCount struct {
	Merchant   string
	CategoryID string
	Count      int
}

// MerchantCategoryCounts tallies categories of the user's approved, categorized rows.
func (r *TransactionRepo) MerchantCategoryCounts(ctx context.Context, userID string) ([]MerchantCategoryCount, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT merchant_normalized, category_id, COUNT(*)
	FROM transactions
	WHERE user_id = ? AND category_id IS NOT NULL AND status = 'approved'
	GROUP BY merchant_normalized, category_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []MerchantCategoryCount
	for rows.Next() {
		var c MerchantCategoryCount
		if err := rows.Scan(&c.Merchant, &c.CategoryID, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
