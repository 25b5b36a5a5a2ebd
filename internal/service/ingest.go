package service

import (
	"context"
	"database/sql"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/finsight/internal/apperr"
	"github.com/jask/finsight/internal/csvimport"
	"github.com/jask/finsight/internal/database"
	"github.com/jask/finsight/internal/database/repository"
	"github.com/jask/finsight/internal/logger"
	"github.com/jask/finsight/internal/reconcile"
)

// ReasonPossibleDuplicate flags a row whose fingerprint already exists in another upload.
const ReasonPossibleDuplicate = "possible_duplicate"

// IngestService handles statement uploads.
type IngestService struct {
	DB          *sql.DB
	AutoApprove bool
	DateFormats []string
	SampleLimit int
}

type ImportResult struct {
	SourceFileID  string              `json:"source_file_id"`
	Filename      string              `json:"filename"`
	Mapping       csvimport.Mapping   `json:"mapping"`
	Imported      int                 `json:"imported"`
	Flagged       int                 `json:"flagged_duplicates"`
	Failed        int                 `json:"failed"`
	Categorized   int                 `json:"categorized"`
	FailureCounts map[string]int      `json:"failure_counts"`
	FailureSample []csvimport.Failure `json:"failure_sample"`
}

// Import stores one statement as a new source file. Rows whose fingerprint matches a
// transaction from another of the user's files are held for review; repeats inside the
// same file are legitimate and stored normally.
func (s *IngestService) Import(ctx context.Context, userID, filename, signConvention string, r io.Reader) (ImportResult, error) {
	if err := requireUser(userID); err != nil {
		return ImportResult{}, err
	}
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return ImportResult{}, apperr.Validation("filename is required")
	}
	sign, err := parseSignConvention(signConvention)
	if err != nil {
		return ImportResult{}, err
	}

	table, err := csvimport.Read(r)
	if err != nil {
		return ImportResult{}, err
	}
	mapping, err := csvimport.Detect(table, s.DateFormats)
	if err != nil {
		return ImportResult{}, err
	}
	norm := csvimport.Normalizer{DateFormats: s.DateFormats, SignConvention: sign}
	parsed := norm.Normalize(table, mapping)

	limit := s.SampleLimit
	if limit <= 0 {
		limit = defaultSampleLimit
	}
	res := ImportResult{
		SourceFileID:  uuid.NewString(),
		Filename:      filename,
		Mapping:       mapping,
		Failed:        len(parsed.Failures),
		FailureCounts: parsed.FailureCounts,
		FailureSample: parsed.Sample(limit),
	}

	err = database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		files := repository.NewSourceFileRepo(tx)
		txs := repository.NewTransactionRepo(tx)

		if err := files.Insert(ctx, repository.SourceFile{
			ID:                   res.SourceFileID,
			Filename:             filename,
			UploadedAt:           database.Now(),
			UserID:               userID,
			AmountSignConvention: sign,
		}); err != nil {
			return err
		}

		existing, err := txs.List(ctx, repository.TransactionFilters{UserID: userID, ExcludeSourceFileID: res.SourceFileID})
		if err != nil {
			return err
		}
		remaining := reconcile.Counts(existing)

		categorizer := &CategorizerService{Transactions: txs}
		guesses, err := categorizer.Load(ctx, userID)
		if err != nil {
			return err
		}

		for _, n := range parsed.Transactions {
			t := repository.Transaction{
				ID:                 uuid.NewString(),
				Date:               n.Date,
				MerchantRaw:        n.MerchantRaw,
				MerchantNormalized: n.Merchant,
				Amount:             n.Amount,
				Status:             repository.StatusPendingReview,
				SourceFileID:       &res.SourceFileID,
				UserID:             userID,
			}
			if s.AutoApprove {
				t.Status = repository.StatusApproved
			}
			if k := reconcile.Key(n); remaining[k] > 0 {
				remaining[k]--
				reason := ReasonPossibleDuplicate
				msg := "matches a transaction from another upload"
				t.Status = repository.StatusPendingReview
				t.ImportErrorReason = &reason
				t.ImportErrorMessage = &msg
				res.Flagged++
			}
			if cat, conf := guesses.Guess(n.Merchant); cat != nil {
				t.CategoryID, t.ConfidenceScore = cat, conf
				res.Categorized++
			}
			if err := txs.Insert(ctx, t); err != nil {
				return err
			}
			res.Imported++
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, apperr.Storage("ingest.import", err)
	}

	log := logger.FromContext(ctx)
	log.Info().
		Str("user_id", userID).
		Str("source_file_id", res.SourceFileID).
		Str("filename", filename).
		Int("imported", res.Imported).
		Int("flagged", res.Flagged).
		Int("failed", res.Failed).
		Msg("statement imported")
	return res, nil
}

func parseSignConvention(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", repository.SignNegative:
		return repository.SignNegative, nil
	case repository.SignPositive:
		return repository.SignPositive, nil
	}
	return "", apperr.Validation("amount sign convention must be %q or %q", repository.SignNegative, repository.SignPositive)
}
