package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jask/finsight/internal/apperr"
	"github.com/jask/finsight/internal/csvimport"
	"github.com/jask/finsight/internal/database/repository"
	"github.com/jask/finsight/internal/logger"
	"github.com/jask/finsight/internal/reconcile"
)

const defaultSampleLimit = 20

// ReconcileRequest selects the stored file and month a statement is compared against.
// SourceFileID wins over Filename.
type ReconcileRequest struct {
	SourceFileID string `json:"source_file_id,omitempty"`
	Filename     string `json:"filename,omitempty"`
	Month        string `json:"month,omitempty"`
}

// NearMatch is a missing statement row that probably corresponds to an extra stored row.
type NearMatch = reconcile.NearMatch[csvimport.Transaction, repository.Transaction]

// ReconcileReport is the outcome of comparing a statement against stored rows.
type ReconcileReport struct {
	SourceFile      *repository.SourceFile   `json:"source_file"`
	SourceFileFound bool                     `json:"source_file_found"`
	Month           string                   `json:"month,omitempty"`
	Mapping         csvimport.Mapping        `json:"mapping"`
	CSVRows         int                      `json:"csv_rows"`
	Normalized      int                      `json:"normalized"`
	InScope         int                      `json:"in_scope"`
	DBRows          int                      `json:"db_rows"`
	Matched         int                      `json:"matched"`
	Missing         []csvimport.Transaction  `json:"missing"`
	Extra           []repository.Transaction `json:"extra"`
	NearMatches     []NearMatch              `json:"near_matches"`
	FailureCounts   map[string]int           `json:"failure_counts"`
	FailureSample   []csvimport.Failure      `json:"failure_sample"`
}

// Reconciler finds statement rows missing from the database and stored rows absent
// from the statement.
type Reconciler struct {
	Files        *repository.SourceFileRepo
	Transactions *repository.TransactionRepo
	DateFormats  []string
	SampleLimit  int
}

// FindMissingFromPath reads the statement from disk. A missing file is returned as is.
func (r *Reconciler) FindMissingFromPath(ctx context.Context, userID, path string, req ReconcileRequest) (ReconcileReport, error) {
	if err := requireUser(userID); err != nil {
		return ReconcileReport{}, err
	}
	table, err := csvimport.Load(path)
	if err != nil {
		return ReconcileReport{}, fmt.Errorf("reconcile: %w", err)
	}
	if req.Filename == "" {
		req.Filename = filepath.Base(path)
	}
	return r.FindMissing(ctx, userID, table, req)
}

// FindMissing diffs a parsed statement against the stored transactions of the matched
// source file. With no matching file every in-scope row is reported missing.
func (r *Reconciler) FindMissing(ctx context.Context, userID string, table csvimport.Table, req ReconcileRequest) (ReconcileReport, error) {
	if err := requireUser(userID); err != nil {
		return ReconcileReport{}, err
	}
	log := logger.FromContext(ctx)
	req.Month = strings.TrimSpace(req.Month)

	mapping, err := csvimport.Detect(table, r.DateFormats)
	if err != nil {
		return ReconcileReport{}, err
	}

	file, err := r.resolveFile(ctx, userID, req)
	if err != nil {
		return ReconcileReport{}, apperr.Storage("reconcile.resolve_file", err)
	}

	sign := repository.SignNegative
	if file != nil {
		sign = file.AmountSignConvention
	}
	norm := csvimport.Normalizer{DateFormats: r.DateFormats, SignConvention: sign}
	result := norm.Normalize(table, mapping)
	inScope := reconcile.FilterMonth(result.Transactions, req.Month)

	report := ReconcileReport{
		SourceFile:      file,
		SourceFileFound: file != nil,
		Month:           req.Month,
		Mapping:         mapping,
		CSVRows:         result.Rows,
		Normalized:      len(result.Transactions),
		InScope:         len(inScope),
		FailureCounts:   result.FailureCounts,
		FailureSample:   result.Sample(r.sampleLimit()),
		NearMatches:     []NearMatch{},
	}

	if file == nil {
		log.Warn().Str("user_id", userID).Str("filename", req.Filename).Str("source_file_id", req.SourceFileID).
			Msg("reconcile: no matching source file, reporting every row as missing")
		report.Missing = append([]csvimport.Transaction{}, inScope...)
		report.Extra = []repository.Transaction{}
		return report, nil
	}

	dbRows, err := r.Transactions.List(ctx, repository.TransactionFilters{
		UserID:       userID,
		SourceFileID: file.ID,
		Month:        req.Month,
	})
	if err != nil {
		return ReconcileReport{}, apperr.Storage("reconcile.list_transactions", err)
	}

	missing, extra := reconcile.Diff(inScope, dbRows)
	report.DBRows = len(dbRows)
	report.Matched = len(inScope) - len(missing)
	report.Missing = missing
	report.Extra = extra
	if near := reconcile.NearMatches(missing, extra); near != nil {
		report.NearMatches = near
	}

	log.Info().Str("user_id", userID).Str("source_file_id", file.ID).Str("month", req.Month).
		Int("missing", len(missing)).Int("extra", len(extra)).Msg("reconcile complete")
	return report, nil
}

func (r *Reconciler) resolveFile(ctx context.Context, userID string, req ReconcileRequest) (*repository.SourceFile, error) {
	if id := strings.TrimSpace(req.SourceFileID); id != "" {
		return r.Files.Get(ctx, userID, id)
	}
	if name := strings.TrimSpace(req.Filename); name != "" {
		return r.Files.LatestByFilename(ctx, userID, name)
	}
	return nil, nil
}

func (r *Reconciler) sampleLimit() int {
	if r.SampleLimit > 0 {
		return r.SampleLimit
	}
	return defaultSampleLimit
}

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return apperr.Unauthenticated("")
	}
	return nil
}
