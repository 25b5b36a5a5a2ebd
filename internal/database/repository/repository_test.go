package repository_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jask/finsight/internal/database"
	"github.com/jask/finsight/internal/database/repository"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenMigrated(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedUser(t *testing.T, db *sql.DB, id string) {
	t.Helper()
	err := repository.NewUserRepo(db).Insert(context.Background(), repository.User{
		ID: id, Email: id + "@example.com", PasswordHash: "x", CreatedAt: database.Now(),
	})
	require.NoError(t, err)
}

func strPtr(s string) *string { return &s }

func tx(id, userID, date, merchant, amount, status string, sourceFileID *string) repository.Transaction {
	return repository.Transaction{
		ID:                 id,
		Date:               date,
		MerchantRaw:        merchant,
		MerchantNormalized: merchant,
		Amount:             decimal.RequireFromString(amount),
		Status:             status,
		SourceFileID:       sourceFileID,
		UserID:             userID,
	}
}

func TestTransactionFiltersAndCounts(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db := openTestDB(t)
	seedUser(t, db, "u1")
	seedUser(t, db, "u2")

	files := repository.NewSourceFileRepo(db)
	require.NoError(t, files.Insert(ctx, repository.SourceFile{ID: "f1", Filename: "jan.csv", UploadedAt: database.Now(), UserID: "u1"}))

	txs := repository.NewTransactionRepo(db)
	f1 := strPtr("f1")
	require.NoError(t, txs.Insert(ctx, tx("t1", "u1", "2024-01-05", "COFFEE", "-4.50", repository.StatusApproved, f1)))
	require.NoError(t, txs.Insert(ctx, tx("t2", "u1", "2024-01-31", "RENT", "-1200", repository.StatusPendingReview, f1)))
	require.NoError(t, txs.Insert(ctx, tx("t3", "u1", "2024-02-01", "SALARY", "3000", repository.StatusApproved, nil)))
	require.NoError(t, txs.Insert(ctx, tx("t4", "u2", "2024-01-10", "BOOKS", "-20", repository.StatusApproved, strPtr("ghost"))))

	n, err := txs.Count(ctx, repository.TransactionFilters{UserID: "u1"})
	require.NoError(t, err)
	require.Equal(t, 3, n)

	n, err = txs.Count(ctx, repository.TransactionFilters{})
	require.NoError(t, err)
	require.Equal(t, 4, n)

	jan, err := txs.List(ctx, repository.TransactionFilters{UserID: "u1", Month: "2024-01"})
	require.NoError(t, err)
	require.Len(t, jan, 2)
	require.Equal(t, "t1", jan[0].ID)
	require.True(t, jan[0].Amount.Equal(decimal.RequireFromString("-4.5")))
	require.Equal(t, "f1", *jan[0].SourceFileID)

	none, err := txs.List(ctx, repository.TransactionFilters{UserID: "u1", Month: "garbage"})
	require.NoError(t, err)
	require.Empty(t, none)

	byStatus, err := txs.CountByStatus(ctx, repository.TransactionFilters{UserID: "u1"})
	require.NoError(t, err)
	require.Equal(t, map[string]int{repository.StatusApproved: 2, repository.StatusPendingReview: 1}, byStatus)

	orphans, err := txs.List(ctx, repository.TransactionFilters{OrphansOnly: true})
	require.NoError(t, err)
	require.Len(t, orphans, 2)

	others, err := txs.List(ctx, repository.TransactionFilters{UserID: "u1", ExcludeSourceFileID: "f1"})
	require.NoError(t, err)
	require.Len(t, others, 1)
	require.Equal(t, "t3", others[0].ID)

	limited, err := txs.List(ctx, repository.TransactionFilters{UserID: "u1", Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestTransactionApproveAndDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDB(t)
	seedUser(t, db, "u1")

	txs := repository.NewTransactionRepo(db)
	pending := tx("t1", "u1", "2024-03-01", "SHOP", "-10", repository.StatusPendingReview, strPtr("f1"))
	pending.ImportErrorReason = strPtr("possible_duplicate")
	pending.ImportErrorMessage = strPtr("matches an existing transaction")
	require.NoError(t, txs.Insert(ctx, pending))
	require.NoError(t, txs.Insert(ctx, tx("t2", "u1", "2024-03-02", "SHOP", "-11", repository.StatusPendingReview, strPtr("f2"))))

	flagged, err := txs.CountByImportError(ctx, repository.TransactionFilters{UserID: "u1"})
	require.NoError(t, err)
	require.Equal(t, map[string]int{"possible_duplicate": 1}, flagged)

	n, err := txs.Approve(ctx, repository.TransactionFilters{UserID: "u1", SourceFileID: "f1"})
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	got, err := txs.Get(ctx, "u1", "t1")
	require.NoError(t, err)
	require.Equal(t, repository.StatusApproved, got.Status)
	require.Nil(t, got.ImportErrorReason)
	require.Nil(t, got.ImportErrorMessage)

	n, err = txs.Delete(ctx, repository.TransactionFilters{UserID: "u1", Status: repository.StatusPendingReview})
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	missing, err := txs.Get(ctx, "u1", "t2")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestSourceFileStatsAndEmpty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDB(t)
	seedUser(t, db, "u1")
	seedUser(t, db, "u2")

	files := repository.NewSourceFileRepo(db)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, files.Insert(ctx, repository.SourceFile{ID: "f1", Filename: "jan.csv", UploadedAt: base, UserID: "u1"}))
	require.NoError(t, files.Insert(ctx, repository.SourceFile{ID: "f2", Filename: "jan.csv", UploadedAt: base.Add(time.Hour), UserID: "u1",
		AmountSignConvention: repository.SignPositive}))
	require.NoError(t, files.Insert(ctx, repository.SourceFile{ID: "f3", Filename: "feb.csv", UploadedAt: base, UserID: "u2"}))

	txs := repository.NewTransactionRepo(db)
	require.NoError(t, txs.Insert(ctx, tx("t1", "u1", "2024-01-02", "A", "-1", repository.StatusApproved, strPtr("f1"))))
	require.NoError(t, txs.Insert(ctx, tx("t2", "u1", "2024-01-03", "B", "-2", repository.StatusPendingReview, strPtr("f1"))))

	latest, err := files.LatestByFilename(ctx, "u1", "jan.csv")
	require.NoError(t, err)
	require.Equal(t, "f2", latest.ID)
	require.Equal(t, repository.SignPositive, latest.AmountSignConvention)

	other, err := files.Get(ctx, "u2", "f1")
	require.NoError(t, err)
	require.Nil(t, other)

	stats, err := files.ListStats(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, stats, 2)
	byID := map[string]repository.SourceFileStats{}
	for _, s := range stats {
		byID[s.ID] = s
	}
	require.Equal(t, 2, byID["f1"].TransactionCount)
	require.Equal(t, 1, byID["f1"].ApprovedCount)
	require.Equal(t, 1, byID["f1"].PendingCount)
	require.Equal(t, 0, byID["f2"].TransactionCount)

	empty, err := files.ListEmpty(ctx, "")
	require.NoError(t, err)
	require.Len(t, empty, 2)

	empty, err = files.ListEmpty(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, empty, 1)
	require.Equal(t, "f2", empty[0].ID)

	n, err := files.Delete(ctx, "f2")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	count, err := files.Count(ctx, "")
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestSessions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDB(t)
	seedUser(t, db, "u1")

	users := repository.NewUserRepo(db)
	u, err := users.ByEmail(ctx, "u1@example.com")
	require.NoError(t, err)
	require.Equal(t, "u1", u.ID)

	nobody, err := users.ByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	require.Nil(t, nobody)

	sessions := repository.NewSessionRepo(db)
	now := database.Now()
	require.NoError(t, sessions.Insert(ctx, repository.Session{Token: "live", UserID: "u1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, sessions.Insert(ctx, repository.Session{Token: "dead", UserID: "u1", CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}))

	n, err := sessions.DeleteExpired(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	s, err := sessions.Get(ctx, "live")
	require.NoError(t, err)
	require.Equal(t, "u1", s.UserID)
	require.True(t, s.ExpiresAt.Equal(now.Add(time.Hour)))

	require.NoError(t, sessions.Delete(ctx, "live"))
	s, err = sessions.Get(ctx, "live")
	require.NoError(t, err)
	require.Nil(t, s)
}

func TestSeedDefaultsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDB(t)
	require.NoError(t, database.SeedDefaults(ctx, db))
	require.NoError(t, database.SeedDefaults(ctx, db))

	repo := repository.NewCategoryRepo(db)
	cats, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 11)

	groceries, err := repo.Get(ctx, database.CategoryID("Groceries"))
	require.NoError(t, err)
	require.NotNil(t, groceries.ParentID)
	require.Equal(t, database.CategoryID("Food"), *groceries.ParentID)

	// a renamed default is not overwritten by the next seed
	require.NoError(t, repo.Rename(ctx, groceries.ID, "Supermarket"))
	require.NoError(t, database.SeedDefaults(ctx, db))
	got, err := repo.Get(ctx, groceries.ID)
	require.NoError(t, err)
	require.Equal(t, "Supermarket", got.Name)
}

func TestOpenCreatesDirectoryAndRollsBack(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := database.OpenMigrated(filepath.Join(t.TempDir(), "nested", "data", "finsight.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	err = database.WithTx(ctx, db, func(tx *sql.Tx) error {
		if err := repository.NewUserRepo(tx).Insert(ctx, repository.User{
			ID: "u1", Email: "u1@example.com", PasswordHash: "x", CreatedAt: database.Now(),
		}); err != nil {
			return err
		}
		return sql.ErrTxDone
	})
	require.ErrorIs(t, err, sql.ErrTxDone)

	u, err := repository.NewUserRepo(db).ByEmail(ctx, "u1@example.com")
	require.NoError(t, err)
	require.Nil(t, u)
}
