package service

import (
	"context"
	"strings"

	"github.com/jask/finsight/internal/apperr"
	"github.com/jask/finsight/internal/database/repository"
)

const minCategoryConfidence = 0.70

// CategorizerService files new rows under the category the user most often chose for
// the same merchant.
type CategorizerService struct {
	Transactions *repository.TransactionRepo
	Categories   *repository.CategoryRepo
}

type categoryGuess struct {
	categoryID string
	confidence float64
}

// CategoryGuesses maps a normalized merchant to its dominant category.
type CategoryGuesses map[string]categoryGuess

// Load builds guesses from the user's approved, categorized history. A merchant only
// gets a guess when one category holds at least 70% of its rows.
func (s *CategorizerService) Load(ctx context.Context, userID string) (CategoryGuesses, error) {
	counts, err := s.Transactions.MerchantCategoryCounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	totals := map[string]int{}
	for _, c := range counts {
		totals[c.Merchant] += c.Count
	}
	out := CategoryGuesses{}
	for _, c := range counts {
		conf := float64(c.Count) / float64(totals[c.Merchant])
		if conf < minCategoryConfidence {
			continue
		}
		if cur, ok := out[c.Merchant]; !ok || conf > cur.confidence {
			out[c.Merchant] = categoryGuess{categoryID: c.CategoryID, confidence: conf}
		}
	}
	return out, nil
}

// Guess returns nils when the merchant has no confident category.
func (g CategoryGuesses) Guess(merchant string) (*string, *float64) {
	cur, ok := g[merchant]
	if !ok {
		return nil, nil
	}
	id, conf := cur.categoryID, cur.confidence
	return &id, &conf
}

// SetCategory records the user's choice; a nil or empty categoryID clears it.
func (s *CategorizerService) SetCategory(ctx context.Context, userID, transactionID string, categoryID *string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	tx, err := s.Transactions.Get(ctx, userID, transactionID)
	if err != nil {
		return apperr.Storage("categorize.get_transaction", err)
	}
	if tx == nil {
		return apperr.NotFound("transaction %s not found", transactionID)
	}
	if categoryID != nil && strings.TrimSpace(*categoryID) == "" {
		categoryID = nil
	}
	if categoryID != nil {
		cat, err := s.Categories.Get(ctx, *categoryID)
		if err != nil {
			return apperr.Storage("categorize.get_category", err)
		}
		if cat == nil {
			return apperr.NotFound("category %s not found", *categoryID)
		}
	}
	return apperr.Storage("categorize.update", s.Transactions.UpdateCategory(ctx, userID, transactionID, categoryID))
}

// ListCategories returns all categories in display order.
func (s *CategorizerService) ListCategories(ctx context.Context) ([]repository.Category, error) {
	cats, err := s.Categories.List(ctx)
	if err != nil {
		return nil, apperr.Storage("categorize.list", err)
	}
	return cats, nil
}
