package csvimport

import (
	"fmt"
	"strings"

	"github.com/jask/finsight/internal/apperr"
)

// Mapping records which column holds each role. Absent roles are -1.
// Either Amount or at least one of Debit/Credit is set.
type Mapping struct {
	Date      int      `json:"date"`
	Merchant  int      `json:"merchant"`
	Amount    int      `json:"amount"`
	Debit     int      `json:"debit"`
	Credit    int      `json:"credit"`
	HasHeader bool     `json:"has_header"`
	Header    []string `json:"header,omitempty"`
}

func (m Mapping) String() string {
	name := func(i int) string {
		if i < 0 {
			return "-"
		}
		if m.HasHeader && i < len(m.Header) {
			return fmt.Sprintf("%d(%s)", i, m.Header[i])
		}
		return fmt.Sprintf("%d", i)
	}
	if m.Amount >= 0 {
		return fmt.Sprintf("date=%s merchant=%s amount=%s", name(m.Date), name(m.Merchant), name(m.Amount))
	}
	return fmt.Sprintf("date=%s merchant=%s debit=%s credit=%s", name(m.Date), name(m.Merchant), name(m.Debit), name(m.Credit))
}

func (m Mapping) complete() bool {
	return m.Date >= 0 && m.Merchant >= 0 && (m.Amount >= 0 || m.Debit >= 0 || m.Credit >= 0)
}

// width is the minimum row length the mapping reads from.
func (m Mapping) width() int {
	w := 0
	for _, i := range []int{m.Date, m.Merchant, m.Amount, m.Debit, m.Credit} {
		if i+1 > w {
			w = i + 1
		}
	}
	return w
}

var (
	dateExact     = []string{"transaction date", "date", "trans date", "posting date", "posted date", "booking date", "value date"}
	merchantExact = []string{"merchant", "description", "payee", "transaction description", "details", "narrative", "name", "memo"}
	amountExact   = []string{"amount", "transaction amount", "amt", "value"}
	debitExact    = []string{"debit", "debit amount", "withdrawal", "withdrawals", "money out", "paid out"}
	creditExact   = []string{"credit", "credit amount", "deposit", "deposits", "money in", "paid in"}

	dateContains     = []string{"date"}
	merchantContains = []string{"merchant", "description", "payee", "detail"}
	amountContains   = []string{"amount"}
	debitContains    = []string{"debit", "withdraw"}
	creditContains   = []string{"credit", "deposit"}
)

const sniffRows = 20

// Detect infers column roles, first from header keywords, then by sniffing cell contents.
func Detect(t Table, dateFormats []string) (Mapping, error) {
	if len(t.Rows) == 0 {
		return Mapping{}, apperr.Validation("csv file has no rows")
	}
	if m, ok := detectHeader(t.Rows[0].Fields); ok {
		return m, nil
	}
	if m, ok := sniffColumns(t, dateFormats); ok {
		return m, nil
	}
	return Mapping{}, apperr.Validation("could not detect date, merchant and amount columns")
}

func detectHeader(header []string) (Mapping, bool) {
	norm := make([]string, len(header))
	for i, h := range header {
		norm[i] = strings.ToLower(strings.TrimSpace(h))
	}
	used := map[int]bool{}
	m := Mapping{HasHeader: true, Header: header}
	m.Date = findColumn(norm, used, dateExact, dateContains)
	m.Amount = findColumn(norm, excludeNotAmount(norm, used), amountExact, amountContains)
	if m.Amount >= 0 {
		used[m.Amount] = true
		m.Debit, m.Credit = -1, -1
	} else {
		m.Debit = findColumn(norm, used, debitExact, debitContains)
		m.Credit = findColumn(norm, used, creditExact, creditContains)
	}
	m.Merchant = findColumn(norm, used, merchantExact, merchantContains)
	return m, m.complete()
}

// notAmount marks headers such as "Debit Amount" or "Balance Amount" that hold
// something other than the signed transaction amount.
var notAmount = []string{"debit", "withdraw", "credit", "deposit", "balance"}

// excludeNotAmount copies used and also marks notAmount headers so the amount
// search cannot claim them.
func excludeNotAmount(header []string, used map[int]bool) map[int]bool {
	out := make(map[int]bool, len(used))
	for i, u := range used {
		out[i] = u
	}
	for i, h := range header {
		for _, k := range notAmount {
			if strings.Contains(h, k) {
				out[i] = true
			}
		}
	}
	return out
}

func findColumn(header []string, used map[int]bool, exact, contains []string) int {
	for _, k := range exact {
		for i, h := range header {
			if !used[i] && h == k {
				used[i] = true
				return i
			}
		}
	}
	for _, k := range contains {
		for i, h := range header {
			if !used[i] && strings.Contains(h, k) {
				used[i] = true
				return i
			}
		}
	}
	return -1
}

type columnProfile struct {
	filled, dates, amounts, text int
	textLen                      int
}

const sniffThreshold = 0.8

// sniffColumns classifies columns by content over the first rows. The first row is a
// header unless its date cell parses as a date.
func sniffColumns(t Table, dateFormats []string) (Mapping, bool) {
	rows := t.Rows
	if len(rows) > sniffRows+1 {
		rows = rows[:sniffRows+1]
	}
	body := rows
	if len(rows) > 1 {
		body = rows[1:]
	}

	width := 0
	for _, r := range body {
		if len(r.Fields) > width {
			width = len(r.Fields)
		}
	}
	profiles := make([]columnProfile, width)
	for _, r := range body {
		for i, f := range r.Fields {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			p := &profiles[i]
			p.filled++
			switch {
			case isDate(f, dateFormats):
				p.dates++
			case isAmount(f):
				p.amounts++
			default:
				p.text++
				p.textLen += len(f)
			}
		}
	}

	m := Mapping{Date: -1, Merchant: -1, Amount: -1, Debit: -1, Credit: -1}
	used := map[int]bool{}
	m.Date = bestColumn(profiles, used, func(p columnProfile) float64 { return ratio(p.dates, p.filled) })
	m.Amount = bestColumn(profiles, used, func(p columnProfile) float64 { return ratio(p.amounts, p.filled) })
	m.Merchant = bestColumn(profiles, used, func(p columnProfile) float64 {
		r := ratio(p.text, p.filled)
		if r < 0.8 {
			return 0
		}
		// longer text breaks ties between descriptive columns
		return r + float64(p.textLen)/float64(p.text)/1000
	})
	if !m.complete() {
		return Mapping{}, false
	}

	first := rows[0].Fields
	m.HasHeader = m.Date >= len(first) || !isDate(strings.TrimSpace(first[m.Date]), dateFormats)
	if m.HasHeader {
		m.Header = first
	}
	return m, true
}

func bestColumn(profiles []columnProfile, used map[int]bool, score func(columnProfile) float64) int {
	best, bestScore := -1, 0.0
	for i, p := range profiles {
		if used[i] || p.filled == 0 {
			continue
		}
		// leftmost wins ties, so a trailing balance column loses to the amount
		if s := score(p); s >= sniffThreshold && s > bestScore {
			best, bestScore = i, s
		}
	}
	if best >= 0 {
		used[best] = true
	}
	return best
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

func isDate(s string, formats []string) bool {
	_, err := ParseDate(s, formats)
	return err == nil
}

func isAmount(s string) bool {
	_, err := ParseAmount(s)
	return err == nil
}
