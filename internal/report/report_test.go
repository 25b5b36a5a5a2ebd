package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jask/finsight/internal/csvimport"
	"github.com/jask/finsight/internal/database/repository"
	"github.com/jask/finsight/internal/service"
)

func TestReconcileReport(t *testing.T) {
	missing := csvimport.Transaction{Line: 4, Date: "2025-11-03", Merchant: "ACME COFFEE", Amount: decimal.RequireFromString("-4.5")}
	extra := repository.Transaction{ID: "0123456789abcdef", Date: "2025-11-03", MerchantNormalized: "ACME COFEE", Amount: decimal.RequireFromString("-4.50"), Status: repository.StatusApproved}

	var buf bytes.Buffer
	require.NoError(t, Reconcile(&buf, service.ReconcileReport{
		SourceFile:      &repository.SourceFile{ID: "f1", Filename: "nov.csv", UploadedAt: time.Date(2025, 11, 30, 9, 0, 0, 0, time.UTC)},
		SourceFileFound: true,
		Month:           "2025-11",
		CSVRows:         5,
		Normalized:      4,
		InScope:         4,
		DBRows:          4,
		Matched:         3,
		Missing:         []csvimport.Transaction{missing},
		Extra:           []repository.Transaction{extra},
		NearMatches:     []service.NearMatch{{Missing: missing, Extra: extra, Similarity: 0.9}},
		FailureCounts:   map[string]int{csvimport.ReasonInvalidAmount: 1},
		FailureSample:   []csvimport.Failure{{Line: 5, Reason: csvimport.ReasonInvalidAmount, Message: `invalid amount "abc"`}},
	}))

	out := buf.String()
	t.Log(out)
	require.Contains(t, out, "Source file: nov.csv (f1, uploaded 2025-11-30 09:00)")
	require.Contains(t, out, "matched: 3")
	require.Contains(t, out, "Missing from database (1)")
	require.Contains(t, out, "-4.50")
	require.Contains(t, out, "01234567 ")
	require.Contains(t, out, "ACME COFFEE -> ACME COFEE  (90%)")
	require.Contains(t, out, "invalid_amount=1")
	require.NotContains(t, out, "agree")
}

func TestReconcileReportDegenerate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Reconcile(&buf, service.ReconcileReport{}))
	require.Contains(t, buf.String(), "No matching source file")
	require.Contains(t, buf.String(), "Statement and database agree.")
}

func TestImportAndCleanup(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Import(&buf, service.ImportResult{SourceFileID: "f1", Filename: "nov.csv", Imported: 10, Flagged: 2}))
	require.Contains(t, buf.String(), "Imported: 10")
	require.Contains(t, buf.String(), "possible duplicates: 2")

	buf.Reset()
	require.NoError(t, Cleanup(&buf, service.CleanupResult{Deleted: 2, IDs: []string{"a", "b"}}))
	require.Contains(t, buf.String(), "Deleted 2 empty source file(s)")
}
