// Package reconcile compares statement rows against stored transactions as counted
// multisets keyed by a (date, merchant, amount) fingerprint.
package reconcile

import (
	"github.com/agnivade/levenshtein"
	"github.com/shopspring/decimal"
)

// Record is anything that can be fingerprinted.
type Record interface {
	TxDate() string
	TxMerchant() string
	TxAmount() decimal.Decimal
}

// Key is date|merchant|abs(amount) with the amount fixed to two decimals.
// The sign is ignored, so a refund and a purchase of the same value collide.
func Key(r Record) string {
	return r.TxDate() + "|" + r.TxMerchant() + "|" + amountKey(r)
}

// Counts builds a fingerprint multiset.
func Counts[T Record](rows []T) map[string]int {
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[Key(r)]++
	}
	return out
}

// Diff returns the csv rows with no remaining database match and the database rows
// with no remaining csv match. Each pass consumes its own copy of the other side's
// counts, so input order is preserved and the passes do not affect each other.
func Diff[A, B Record](csvRows []A, dbRows []B) (missing []A, extra []B) {
	missing = []A{}
	extra = []B{}

	remaining := Counts(dbRows)
	for _, r := range csvRows {
		k := Key(r)
		if remaining[k] > 0 {
			remaining[k]--
			continue
		}
		missing = append(missing, r)
	}

	remaining = Counts(csvRows)
	for _, r := range dbRows {
		k := Key(r)
		if remaining[k] > 0 {
			remaining[k]--
			continue
		}
		extra = append(extra, r)
	}
	return missing, extra
}

// MonthRange returns the lexical date bounds [start, end) for a YYYY-MM month.
// The upper bound is not calendar aware; a malformed month yields a range that
// matches little or nothing.
func MonthRange(month string) (start, end string) {
	return month + "-01", month + "-32"
}

// InMonth reports whether date falls in MonthRange(month), the same bounds the
// stored side is queried with. An empty month matches everything.
func InMonth(date, month string) bool {
	if month == "" {
		return true
	}
	start, end := MonthRange(month)
	return date >= start && date < end
}

// FilterMonth keeps the rows in month, preserving order.
func FilterMonth[T Record](rows []T, month string) []T {
	if month == "" {
		return rows
	}
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if InMonth(r.TxDate(), month) {
			out = append(out, r)
		}
	}
	return out
}

// NearMatchThreshold is the minimum merchant similarity for a near match.
const NearMatchThreshold = 0.6

// NearMatch pairs a missing row with an extra row that probably describes the same
// transaction under a slightly different merchant string.
type NearMatch[A, B Record] struct {
	Missing    A       `json:"missing"`
	Extra      B       `json:"extra"`
	Similarity float64 `json:"similarity"`
}

// NearMatches pairs each missing row with the most similar unused extra row that has
// the same date and absolute amount. It only annotates; it never changes the diff.
func NearMatches[A, B Record](missing []A, extra []B) []NearMatch[A, B] {
	var out []NearMatch[A, B]
	used := make([]bool, len(extra))
	for _, m := range missing {
		best, bestScore := -1, 0.0
		for i, e := range extra {
			if used[i] || e.TxDate() != m.TxDate() || amountKey(e) != amountKey(m) {
				continue
			}
			score := Similarity(m.TxMerchant(), e.TxMerchant())
			if score >= NearMatchThreshold && score > bestScore {
				best, bestScore = i, score
			}
		}
		if best >= 0 {
			used[best] = true
			out = append(out, NearMatch[A, B]{Missing: m, Extra: extra[best], Similarity: bestScore})
		}
	}
	return out
}

// Similarity is 1 minus the Levenshtein distance over the longer length.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

func amountKey(r Record) string { return r.TxAmount().Abs().StringFixed(2) }
