// Package fixtures generates sample bank statements.
package fixtures

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

// Statement describes a generated CSV statement. The same Seed always yields the
// same rows.
type Statement struct {
	Month string // YYYY-MM
	Rows  int
	Seed  int64
	// Positive writes expenses as positive amounts.
	Positive bool
	// Delimiter defaults to ','.
	Delimiter rune
}

// Row is one generated statement line.
type Row struct {
	Date     string
	Merchant string
	Amount   decimal.Decimal
}

var merchants = []struct {
	name     string
	min, max int64 // cents, expenses negative
}{
	{"UBER EATS* SUSHI", -6500, -1800},
	{"AMAZON.COM*XYZ", -15000, -900},
	{"WOOLWORTHS", -22000, -1500},
	{"SPOTIFY", -1299, -1299},
	{"Shell Service Station", -9000, -3000},
	{"Blue Bottle Coffee", -750, -420},
	{"SALARY ACME", 350000, 350000},
}

// Generate returns the statement rows in date order.
func (s Statement) Generate() ([]Row, error) {
	start, err := time.Parse("2006-01", s.Month)
	if err != nil {
		return nil, fmt.Errorf("fixtures: month %q: %w", s.Month, err)
	}
	days := start.AddDate(0, 1, -1).Day()
	rng := rand.New(rand.NewSource(s.Seed))

	rows := make([]Row, 0, s.Rows)
	for i := 0; i < s.Rows; i++ {
		m := merchants[rng.Intn(len(merchants))]
		cents := m.min
		if m.max > m.min {
			cents += rng.Int63n(m.max - m.min + 1)
		}
		day := 1 + i*days/max(s.Rows, 1)
		rows = append(rows, Row{
			Date:     start.AddDate(0, 0, day-1).Format("2006-01-02"),
			Merchant: m.name,
			Amount:   decimal.New(cents, -2),
		})
	}
	return rows, nil
}

// Write renders the statement as CSV with a Date,Description,Amount header.
func (s Statement) Write(w io.Writer) error {
	rows, err := s.Generate()
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if s.Delimiter != 0 {
		cw.Comma = s.Delimiter
	}
	if err := cw.Write([]string{"Date", "Description", "Amount"}); err != nil {
		return err
	}
	for _, r := range rows {
		amount := r.Amount
		if s.Positive {
			amount = amount.Neg()
		}
		if err := cw.Write([]string{r.Date, r.Merchant, amount.StringFixed(2)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
