package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jask/finsight/internal/apperr"
	"github.com/jask/finsight/internal/database/repository"
)

// Sample limits for SampleTransactions.
const (
	DefaultSampleRows = 50
	MaxSampleRows     = 500
)

// DiagnosticsService answers read-only consistency questions. Every method takes the
// authenticated user id; unscoped counts are reported alongside for operators.
type DiagnosticsService struct {
	Transactions *repository.TransactionRepo
	Files        *repository.SourceFileRepo
	Categories   *repository.CategoryRepo

	now func() time.Time
}

type TransactionCounts struct {
	AllUsers        int            `json:"all_users"`
	ForUser         int            `json:"for_user"`
	ForUserByStatus map[string]int `json:"for_user_by_status"`
	VisibleForUser  int            `json:"visible_for_user"`
}

func (s *DiagnosticsService) TransactionCounts(ctx context.Context, userID string) (TransactionCounts, error) {
	if err := requireUser(userID); err != nil {
		return TransactionCounts{}, err
	}
	all, err := s.Transactions.Count(ctx, repository.TransactionFilters{})
	if err != nil {
		return TransactionCounts{}, apperr.Storage("count_all", err)
	}
	byStatus, err := s.Transactions.CountByStatus(ctx, repository.TransactionFilters{UserID: userID})
	if err != nil {
		return TransactionCounts{}, apperr.Storage("count_by_status", err)
	}
	forUser := 0
	for _, n := range byStatus {
		forUser += n
	}
	return TransactionCounts{
		AllUsers:        all,
		ForUser:         forUser,
		ForUserByStatus: byStatus,
		VisibleForUser:  byStatus[repository.StatusApproved],
	}, nil
}

type SourceFileBreakdown struct {
	Scope string                       `json:"scope"`
	Files []repository.SourceFileStats `json:"files"`
}

// SourceFileBreakdown lists files with their transaction counts, for the user or all users.
func (s *DiagnosticsService) SourceFileBreakdown(ctx context.Context, userID string, allUsers bool) (SourceFileBreakdown, error) {
	if err := requireUser(userID); err != nil {
		return SourceFileBreakdown{}, err
	}
	out := SourceFileBreakdown{Scope: "user"}
	scope := userID
	if allUsers {
		out.Scope, scope = "all", ""
	}
	files, err := s.Files.ListStats(ctx, scope)
	if err != nil {
		return SourceFileBreakdown{}, apperr.Storage("source_file_breakdown", err)
	}
	out.Files = files
	if out.Files == nil {
		out.Files = []repository.SourceFileStats{}
	}
	return out, nil
}

type ConsistencyReport struct {
	SourceFiles        int                     `json:"source_files"`
	EmptySourceFiles   []repository.SourceFile `json:"empty_source_files"`
	Transactions       int                     `json:"transactions"`
	FileTransactions   int                     `json:"file_transactions"`
	OrphanTransactions int                     `json:"orphan_transactions"`
	PendingReview      int                     `json:"pending_review"`
	ImportErrors       map[string]int          `json:"import_errors"`
	// Consistent holds when every row belongs to a known file and no file is empty.
	Consistent bool `json:"consistent"`
}

func (s *DiagnosticsService) Consistency(ctx context.Context, userID string) (ConsistencyReport, error) {
	if err := requireUser(userID); err != nil {
		return ConsistencyReport{}, err
	}
	var r ConsistencyReport
	stats, err := s.Files.ListStats(ctx, userID)
	if err != nil {
		return r, apperr.Storage("consistency.files", err)
	}
	r.SourceFiles = len(stats)
	r.EmptySourceFiles = []repository.SourceFile{}
	for _, f := range stats {
		r.FileTransactions += f.TransactionCount
		if f.TransactionCount == 0 {
			r.EmptySourceFiles = append(r.EmptySourceFiles, f.SourceFile)
		}
	}
	if r.Transactions, err = s.Transactions.Count(ctx, repository.TransactionFilters{UserID: userID}); err != nil {
		return r, apperr.Storage("consistency.count", err)
	}
	if r.OrphanTransactions, err = s.Transactions.Count(ctx, repository.TransactionFilters{UserID: userID, OrphansOnly: true}); err != nil {
		return r, apperr.Storage("consistency.orphans", err)
	}
	if r.PendingReview, err = s.Transactions.Count(ctx, repository.TransactionFilters{UserID: userID, Status: repository.StatusPendingReview}); err != nil {
		return r, apperr.Storage("consistency.pending", err)
	}
	if r.ImportErrors, err = s.Transactions.CountByImportError(ctx, repository.TransactionFilters{UserID: userID}); err != nil {
		return r, apperr.Storage("consistency.import_errors", err)
	}
	r.Consistent = r.OrphanTransactions == 0 && len(r.EmptySourceFiles) == 0
	return r, nil
}

// SampleTransactions returns the user's rows matching f, capped at MaxSampleRows.
func (s *DiagnosticsService) SampleTransactions(ctx context.Context, userID string, f repository.TransactionFilters) ([]repository.Transaction, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := validateFilters(f); err != nil {
		return nil, err
	}
	f.UserID = userID
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultSampleRows
	case f.Limit > MaxSampleRows:
		f.Limit = MaxSampleRows
	}
	rows, err := s.Transactions.List(ctx, f)
	if err != nil {
		return nil, apperr.Storage("sample_transactions", err)
	}
	if rows == nil {
		rows = []repository.Transaction{}
	}
	return rows, nil
}

type CategoryTotal struct {
	CategoryID *string         `json:"category_id"`
	Name       string          `json:"name"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
}

type Dashboard struct {
	Month        string          `json:"month"`
	Income       decimal.Decimal `json:"income"`
	Expenses     decimal.Decimal `json:"expenses"`
	Net          decimal.Decimal `json:"net"`
	Transactions int             `json:"transactions"`
	Categories   []CategoryTotal `json:"categories"`
}

const uncategorized = "Uncategorized"

// Dashboard summarizes the user's visible (approved) rows for a month. An empty month
// means the current one.
func (s *DiagnosticsService) Dashboard(ctx context.Context, userID, month string) (Dashboard, error) {
	if err := requireUser(userID); err != nil {
		return Dashboard{}, err
	}
	if month == "" {
		month = s.clock()().UTC().Format("2006-01")
	}
	rows, err := s.Transactions.List(ctx, repository.TransactionFilters{
		UserID: userID,
		Status: repository.StatusApproved,
		Month:  month,
	})
	if err != nil {
		return Dashboard{}, apperr.Storage("dashboard.transactions", err)
	}
	names := map[string]string{}
	if s.Categories != nil {
		cats, err := s.Categories.List(ctx)
		if err != nil {
			return Dashboard{}, apperr.Storage("dashboard.categories", err)
		}
		for _, c := range cats {
			names[c.ID] = c.Name
		}
	}

	d := Dashboard{Month: month, Income: decimal.Zero, Expenses: decimal.Zero, Transactions: len(rows)}
	byCat := map[string]*CategoryTotal{}
	for _, t := range rows {
		if t.Amount.IsPositive() {
			d.Income = d.Income.Add(t.Amount)
		} else {
			d.Expenses = d.Expenses.Add(t.Amount.Neg())
		}
		key := ""
		if t.CategoryID != nil {
			key = *t.CategoryID
		}
		ct, ok := byCat[key]
		if !ok {
			ct = &CategoryTotal{Name: uncategorized, Total: decimal.Zero}
			if t.CategoryID != nil {
				id := *t.CategoryID
				ct.CategoryID = &id
				if n, ok := names[id]; ok {
					ct.Name = n
				}
			}
			byCat[key] = ct
		}
		ct.Total = ct.Total.Add(t.Amount)
		ct.Count++
	}
	d.Net = d.Income.Sub(d.Expenses)
	d.Categories = make([]CategoryTotal, 0, len(byCat))
	for _, ct := range byCat {
		d.Categories = append(d.Categories, *ct)
	}
	sort.Slice(d.Categories, func(i, j int) bool {
		if c := d.Categories[i].Total.Cmp(d.Categories[j].Total); c != 0 {
			return c < 0
		}
		return d.Categories[i].Name < d.Categories[j].Name
	})
	return d, nil
}

func (s *DiagnosticsService) clock() func() time.Time {
	if s.now != nil {
		return s.now
	}
	return time.Now
}
