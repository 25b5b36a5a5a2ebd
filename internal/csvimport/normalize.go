package csvimport

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Failure reasons. Only ReasonEmptyRow is trivial and left out of samples.
const (
	ReasonEmptyRow        = "empty_row"
	ReasonShortRow        = "short_row"
	ReasonMissingDate     = "missing_date"
	ReasonInvalidDate     = "invalid_date"
	ReasonMissingMerchant = "missing_merchant"
	ReasonMissingAmount   = "missing_amount"
	ReasonInvalidAmount   = "invalid_amount"
)

const isoDate = "2006-01-02"

var errEmptyAmount = errors.New("empty amount")

// Transaction is a normalized CSV row. It has no identity beyond its fields.
type Transaction struct {
	Line        int             `json:"line"`
	Date        string          `json:"date"`
	MerchantRaw string          `json:"merchant_raw"`
	Merchant    string          `json:"merchant"`
	Amount      decimal.Decimal `json:"amount"`
}

func (t Transaction) TxDate() string            { return t.Date }
func (t Transaction) TxMerchant() string        { return t.Merchant }
func (t Transaction) TxAmount() decimal.Decimal { return t.Amount }

// Failure is a row the normalizer rejected.
type Failure struct {
	Line    int      `json:"line"`
	Reason  string   `json:"reason"`
	Message string   `json:"message"`
	Raw     []string `json:"raw,omitempty"`
}

// Result holds normalized rows and per-row failures.
type Result struct {
	Rows          int
	Transactions  []Transaction
	Failures      []Failure
	FailureCounts map[string]int
}

// Sample returns up to limit non-trivial failures in file order.
func (r Result) Sample(limit int) []Failure {
	out := make([]Failure, 0, min(limit, len(r.Failures)))
	for _, f := range r.Failures {
		if len(out) >= limit {
			break
		}
		if f.Reason == ReasonEmptyRow {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Normalizer converts raw rows into typed transactions.
type Normalizer struct {
	DateFormats []string
	// SignConvention "positive" negates every amount so expenses come out negative.
	SignConvention string
}

func (n Normalizer) Normalize(t Table, m Mapping) Result {
	rows := t.Rows
	if m.HasHeader && len(rows) > 0 {
		rows = rows[1:]
	}
	res := Result{Rows: len(rows), FailureCounts: map[string]int{}}
	for _, row := range rows {
		tx, reason, msg := n.normalizeRow(row, m)
		if reason != "" {
			res.FailureCounts[reason]++
			res.Failures = append(res.Failures, Failure{Line: row.Line, Reason: reason, Message: msg, Raw: row.Fields})
			continue
		}
		res.Transactions = append(res.Transactions, tx)
	}
	return res
}

func (n Normalizer) normalizeRow(row Row, m Mapping) (Transaction, string, string) {
	blank := true
	for _, f := range row.Fields {
		if strings.TrimSpace(f) != "" {
			blank = false
			break
		}
	}
	if blank {
		return Transaction{}, ReasonEmptyRow, "row is empty"
	}
	if len(row.Fields) < m.width() && !creditOnlyShort(row, m) {
		return Transaction{}, ReasonShortRow, fmt.Sprintf("expected %d columns, got %d", m.width(), len(row.Fields))
	}

	rawDate := cell(row, m.Date)
	if rawDate == "" {
		return Transaction{}, ReasonMissingDate, "date is empty"
	}
	date, err := ParseDate(rawDate, n.DateFormats)
	if err != nil {
		return Transaction{}, ReasonInvalidDate, err.Error()
	}

	merchant := cell(row, m.Merchant)
	if merchant == "" {
		return Transaction{}, ReasonMissingMerchant, "merchant is empty"
	}

	amount, reason, msg := rowAmount(row, m)
	if reason != "" {
		return Transaction{}, reason, msg
	}
	if n.SignConvention == "positive" {
		amount = amount.Neg()
	}

	return Transaction{
		Line:        row.Line,
		Date:        date,
		MerchantRaw: merchant,
		Merchant:    NormalizeMerchant(merchant),
		Amount:      amount,
	}, "", ""
}

// creditOnlyShort tolerates exports that drop a trailing empty credit cell.
func creditOnlyShort(row Row, m Mapping) bool {
	return m.Amount < 0 && m.Credit == len(row.Fields) && m.Credit+1 == m.width()
}

func rowAmount(row Row, m Mapping) (decimal.Decimal, string, string) {
	if m.Amount >= 0 {
		a, err := ParseAmount(cell(row, m.Amount))
		if errors.Is(err, errEmptyAmount) {
			return decimal.Zero, ReasonMissingAmount, "amount is empty"
		}
		if err != nil {
			return decimal.Zero, ReasonInvalidAmount, err.Error()
		}
		return a, "", ""
	}

	debitRaw, creditRaw := cell(row, m.Debit), cell(row, m.Credit)
	if debitRaw == "" && creditRaw == "" {
		return decimal.Zero, ReasonMissingAmount, "debit and credit are empty"
	}
	total := decimal.Zero
	if debitRaw != "" {
		d, err := ParseAmount(debitRaw)
		if err != nil {
			return decimal.Zero, ReasonInvalidAmount, err.Error()
		}
		total = total.Sub(d.Abs())
	}
	if creditRaw != "" {
		c, err := ParseAmount(creditRaw)
		if err != nil {
			return decimal.Zero, ReasonInvalidAmount, err.Error()
		}
		total = total.Add(c.Abs())
	}
	return total, "", ""
}

func cell(row Row, i int) string {
	if i < 0 || i >= len(row.Fields) {
		return ""
	}
	return strings.TrimSpace(row.Fields[i])
}

// NormalizeMerchant upper-cases and collapses whitespace so that the same payee
// text always yields the same fingerprint component.
func NormalizeMerchant(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(s)), " ")
}

// ParseDate returns s as YYYY-MM-DD. ISO dates and datetimes are truncated to the
// date without timezone conversion; other layouts are tried in order.
func ParseDate(s string, formats []string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) >= len(isoDate) {
		head := s[:len(isoDate)]
		if _, err := time.Parse(isoDate, head); err == nil {
			if len(s) == len(isoDate) || s[len(isoDate)] == 'T' || s[len(isoDate)] == ' ' {
				return head, nil
			}
		}
	}
	for _, layout := range formats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(isoDate), nil
		}
	}
	return "", fmt.Errorf("unrecognized date %q", s)
}

// ParseAmount parses bank-formatted money: currency symbols and codes, thousands
// separators, decimal commas, parentheses, leading or trailing minus and CR/DR suffixes.
func ParseAmount(s string) (decimal.Decimal, error) {
	orig := s
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, errEmptyAmount
	}
	invalid := fmt.Errorf("invalid amount %q", orig)

	neg := false
	upper := strings.ToUpper(s)
	switch {
	case strings.HasSuffix(upper, "DR"):
		neg = true
		s = s[:len(s)-2]
	case strings.HasSuffix(upper, "CR"):
		s = s[:len(s)-2]
	}
	s = trimCurrency(s)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = !neg
		s = trimCurrency(s[1 : len(s)-1])
	}
	switch {
	case strings.HasPrefix(s, "-"):
		neg = !neg
		s = trimCurrency(s[1:])
	case strings.HasSuffix(s, "-"):
		neg = !neg
		s = trimCurrency(s[:len(s)-1])
	case strings.HasPrefix(s, "+"):
		s = trimCurrency(s[1:])
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',':
			b.WriteRune(r)
		case r == ' ', r == '\u00a0', r == '\'':
		default:
			return decimal.Zero, invalid
		}
	}
	num := normalizeSeparators(b.String())
	if num == "" {
		return decimal.Zero, invalid
	}
	d, err := decimal.NewFromString(num)
	if err != nil {
		return decimal.Zero, invalid
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// trimCurrency strips surrounding whitespace, currency symbols and a three-letter
// currency code such as USD.
func trimCurrency(s string) string {
	s = strings.Trim(s, " \u00a0$€£¥")
	if len(s) > 3 && isCode(s[:3]) && !isLetter(rune(s[3])) {
		s = s[3:]
	}
	if len(s) > 3 && isCode(s[len(s)-3:]) && !isLetter(rune(s[len(s)-4])) {
		s = s[:len(s)-3]
	}
	return strings.Trim(s, " \u00a0$€£¥")
}

func isCode(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func isLetter(r rune) bool {
	return r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z'
}

// normalizeSeparators rewrites the number to use '.' as the decimal point. With both
// separators present the last one is the decimal point; a lone comma followed by one
// or two digits is a decimal comma.
func normalizeSeparators(s string) string {
	dot, comma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		if strings.Count(s, ",") == 1 && len(s)-comma-1 <= 2 && len(s)-comma-1 > 0 {
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	}
	return s
}
