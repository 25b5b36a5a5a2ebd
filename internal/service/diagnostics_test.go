package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jask/finsight/internal/apperr"
	"github.com/jask/finsight/internal/database/repository"
)

func TestTransactionCountsAndBreakdown(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)
	e.addUser(t, "u1")
	e.addUser(t, "u2")
	e.importCSV(t, "u1", "a.csv", "date,merchant,amount", "2025-11-01,A,-1", "2025-11-02,B,-2")
	e.importCSV(t, "u1", "b.csv", "date,merchant,amount", "2025-11-01,A,-1")
	e.importCSV(t, "u2", "c.csv", "date,merchant,amount", "2025-11-01,A,-1")

	counts, err := e.diagnostics.TransactionCounts(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, TransactionCounts{
		AllUsers:        4,
		ForUser:         3,
		ForUserByStatus: map[string]int{repository.StatusApproved: 2, repository.StatusPendingReview: 1},
		VisibleForUser:  2,
	}, counts)

	mine, err := e.diagnostics.SourceFileBreakdown(ctx, "u1", false)
	require.NoError(t, err)
	require.Equal(t, "user", mine.Scope)
	require.Len(t, mine.Files, 2)

	all, err := e.diagnostics.SourceFileBreakdown(ctx, "u1", true)
	require.NoError(t, err)
	require.Equal(t, "all", all.Scope)
	require.Len(t, all.Files, 3)

	_, err = e.diagnostics.TransactionCounts(ctx, "")
	require.True(t, apperr.Is(err, apperr.KindUnauthenticated))
}

func TestConsistency(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)
	e.addUser(t, "u1")
	e.importCSV(t, "u1", "a.csv", "date,merchant,amount", "2025-11-01,A,-1")
	e.importCSV(t, "u1", "b.csv", "date,merchant,amount", "2025-11-01,A,-1")
	e.importCSV(t, "u1", "empty.csv", "date,merchant,amount", ",,")

	ghost := "ghost"
	require.NoError(t, e.txs.Insert(ctx, repository.Transaction{
		ID: "orphan", Date: "2025-11-09", MerchantRaw: "X", MerchantNormalized: "X",
		Amount: decimal.NewFromInt(-5), Status: repository.StatusApproved, SourceFileID: &ghost, UserID: "u1",
	}))

	r, err := e.diagnostics.Consistency(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 3, r.SourceFiles)
	require.Len(t, r.EmptySourceFiles, 1)
	require.Equal(t, 3, r.Transactions)
	require.Equal(t, 2, r.FileTransactions)
	require.Equal(t, 1, r.OrphanTransactions)
	require.Equal(t, 1, r.PendingReview)
	require.Equal(t, map[string]int{ReasonPossibleDuplicate: 1}, r.ImportErrors)
	require.False(t, r.Consistent)

	_, err = e.maintenance.CleanupEmptySourceFiles(ctx, "u1", false)
	require.NoError(t, err)
	_, err = e.maintenance.DeleteTransactions(ctx, "u1", repository.TransactionFilters{ID: "orphan"})
	require.NoError(t, err)

	r, err = e.diagnostics.Consistency(ctx, "u1")
	require.NoError(t, err)
	require.True(t, r.Consistent)
	require.Equal(t, r.Transactions, r.FileTransactions)
}

func TestSampleTransactionsLimits(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)
	e.addUser(t, "u1")
	lines := []string{"date,merchant,amount"}
	for i := 0; i < 60; i++ {
		lines = append(lines, "2025-11-01,SHOP,-1")
	}
	e.importCSV(t, "u1", "many.csv", lines...)

	rows, err := e.diagnostics.SampleTransactions(ctx, "u1", repository.TransactionFilters{})
	require.NoError(t, err)
	require.Len(t, rows, DefaultSampleRows)

	rows, err = e.diagnostics.SampleTransactions(ctx, "u1", repository.TransactionFilters{Limit: 10000})
	require.NoError(t, err)
	require.Len(t, rows, 60)

	rows, err = e.diagnostics.SampleTransactions(ctx, "u1", repository.TransactionFilters{Month: "2025-12"})
	require.NoError(t, err)
	require.NotNil(t, rows)
	require.Empty(t, rows)

	_, err = e.diagnostics.SampleTransactions(ctx, "u1", repository.TransactionFilters{Status: "hidden"})
	require.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestDashboardCountsVisibleRowsOnly(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)
	e.addUser(t, "u1")
	e.importCSV(t, "u1", "a.csv", "date,merchant,amount",
		"2025-11-01,Employer,3000",
		"2025-11-02,Grocer,-120.50",
		"2025-11-03,Cinema,-30",
		"2025-12-01,Grocer,-99",
	)
	// duplicate of an existing row lands in pending_review and stays hidden
	e.importCSV(t, "u1", "b.csv", "date,merchant,amount", "2025-11-03,Cinema,-30")

	d, err := e.diagnostics.Dashboard(ctx, "u1", "2025-11")
	require.NoError(t, err)
	require.Equal(t, 3, d.Transactions)
	require.True(t, d.Income.Equal(decimal.RequireFromString("3000")))
	require.True(t, d.Expenses.Equal(decimal.RequireFromString("150.5")))
	require.True(t, d.Net.Equal(decimal.RequireFromString("2849.5")))
	require.Len(t, d.Categories, 1)
	require.Equal(t, uncategorized, d.Categories[0].Name)

	e.diagnostics.now = func() time.Time { return time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC) }
	d, err = e.diagnostics.Dashboard(ctx, "u1", "")
	require.NoError(t, err)
	require.Equal(t, "2025-12", d.Month)
	require.Equal(t, 1, d.Transactions)
}
