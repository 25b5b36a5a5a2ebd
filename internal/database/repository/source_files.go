package repository

import (
	"context"
	"database/sql"
)

// SourceFileRepo handles uploaded statement records.
type SourceFileRepo struct {
	db DBTX
}

func NewSourceFileRepo(db DBTX) *SourceFileRepo { return &SourceFileRepo{db: db} }

const sourceFileColumns = `f.id, f.filename, f.uploaded_at, f.user_id, f.amount_sign_convention`

func (r *SourceFileRepo) Insert(ctx context.Context, f SourceFile) error {
	sign := f.AmountSignConvention
	if sign == "" {
		sign = SignNegative
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO source_files(id, filename, uploaded_at, user_id, amount_sign_convention)
	VALUES(?, ?, ?, ?, ?);
	`, f.ID, f.Filename, f.UploadedAt, f.UserID, sign)
	return err
}

// Get returns nil, nil when the file does not exist or belongs to another user.
func (r *SourceFileRepo) Get(ctx context.Context, userID, id string) (*SourceFile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sourceFileColumns+` FROM source_files f WHERE f.id = ? AND f.user_id = ?`, id, userID)
	return scanSourceFileRow(row)
}

// LatestByFilename returns the most recent upload with the given filename.
func (r *SourceFileRepo) LatestByFilename(ctx context.Context, userID, filename string) (*SourceFile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sourceFileColumns+` FROM source_files f
	WHERE f.user_id = ? AND f.filename = ?
	ORDER BY f.uploaded_at DESC, f.rowid DESC LIMIT 1`, userID, filename)
	return scanSourceFileRow(row)
}

// Count counts source files for userID, or for every user when userID is empty.
func (r *SourceFileRepo) Count(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM source_files`
	var args []any
	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	var n int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

// ListStats lists files with per-status transaction counts, newest first.
func (r *SourceFileRepo) ListStats(ctx context.Context, userID string) ([]SourceFileStats, error) {
	query := `SELECT ` + sourceFileColumns + `,
	 COUNT(t.id),
	 COALESCE(SUM(CASE WHEN t.status = 'approved' THEN 1 ELSE 0 END), 0),
	 COALESCE(SUM(CASE WHEN t.status = 'pending_review' THEN 1 ELSE 0 END), 0)
	FROM source_files f
	LEFT JOIN transactions t ON t.source_file_id = f.id`
	var args []any
	if userID != "" {
		query += ` WHERE f.user_id = ?`
		args = append(args, userID)
	}
	query += ` GROUP BY f.id ORDER BY f.uploaded_at DESC, f.filename ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SourceFileStats
	for rows.Next() {
		var s SourceFileStats
		if err := rows.Scan(&s.ID, &s.Filename, &s.UploadedAt, &s.UserID, &s.AmountSignConvention,
			&s.TransactionCount, &s.ApprovedCount, &s.PendingCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListEmpty lists files that no transaction references.
func (r *SourceFileRepo) ListEmpty(ctx context.Context, userID string) ([]SourceFile, error) {
	query := `SELECT ` + sourceFileColumns + ` FROM source_files f
	WHERE NOT EXISTS (SELECT 1 FROM transactions t WHERE t.source_file_id = f.id)`
	var args []any
	if userID != "" {
		query += ` AND f.user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY f.uploaded_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SourceFile
	for rows.Next() {
		f, err := scanSourceFile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *SourceFileRepo) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM source_files WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanSourceFile(row scanner) (SourceFile, error) {
	var f SourceFile
	err := row.Scan(&f.ID, &f.Filename, &f.UploadedAt, &f.UserID, &f.AmountSignConvention)
	return f, err
}

func scanSourceFileRow(row scanner) (*SourceFile, error) {
	f, err := scanSourceFile(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}
