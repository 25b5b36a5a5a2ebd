package csvimport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jask/finsight/internal/apperr"
	"github.com/jask/finsight/internal/config"
)

func parse(t *testing.T, data string, sign string) (Mapping, Result) {
	t.Helper()
	table, err := Read(strings.NewReader(data))
	require.NoError(t, err)
	m, err := Detect(table, config.DefaultDateFormats)
	require.NoError(t, err)
	n := Normalizer{DateFormats: config.DefaultDateFormats, SignConvention: sign}
	return m, n.Normalize(table, m)
}

func TestDetectHeaderKeywords(t *testing.T) {
	t.Parallel()

	m, res := parse(t, strings.Join([]string{
		"\ufeffTransaction Date,Description,Amount,Balance",
		"2025-11-01,Acme  Corp,-10.00,90.00",
		"2025-11-02,coffee shop,\"1,234.50\",1324.50",
	}, "\n"), "negative")

	require.True(t, m.HasHeader)
	require.Equal(t, 0, m.Date)
	require.Equal(t, 1, m.Merchant)
	require.Equal(t, 2, m.Amount)
	require.Equal(t, 2, res.Rows)
	require.Len(t, res.Transactions, 2)

	first := res.Transactions[0]
	require.Equal(t, 2, first.Line)
	require.Equal(t, "2025-11-01", first.Date)
	require.Equal(t, "ACME CORP", first.Merchant)
	require.Equal(t, "Acme  Corp", first.MerchantRaw)
	require.True(t, first.Amount.Equal(decimal.RequireFromString("-10")))
	require.True(t, res.Transactions[1].Amount.Equal(decimal.RequireFromString("1234.5")))
}

func TestDetectDebitCreditSemicolon(t *testing.T) {
	t.Parallel()

	m, res := parse(t, strings.Join([]string{
		"Date;Payee;Debit;Credit",
		"05/11/2025;Grocer;12,50;",
		"06/11/2025;Employer;;2.000,00",
	}, "\n"), "negative")

	require.Equal(t, -1, m.Amount)
	require.Equal(t, 2, m.Debit)
	require.Equal(t, 3, m.Credit)
	require.Len(t, res.Transactions, 2)
	require.Equal(t, "2025-05-11", res.Transactions[0].Date)
	require.True(t, res.Transactions[0].Amount.Equal(decimal.RequireFromString("-12.5")))
	require.True(t, res.Transactions[1].Amount.Equal(decimal.RequireFromString("2000")))
}

func TestDetectDebitAmountCreditAmountHeaders(t *testing.T) {
	t.Parallel()

	m, res := parse(t, strings.Join([]string{
		"Date,Description,Debit Amount,Credit Amount,Balance Amount",
		"2025-11-01,COFFEE,4.50,,95.50",
		"2025-11-02,SALARY,,1000.00,1095.50",
	}, "\n"), "negative")

	require.Equal(t, -1, m.Amount)
	require.Equal(t, 2, m.Debit)
	require.Equal(t, 3, m.Credit)
	require.Empty(t, res.FailureCounts)
	require.Len(t, res.Transactions, 2)
	require.True(t, res.Transactions[0].Amount.Equal(decimal.RequireFromString("-4.5")))
	require.True(t, res.Transactions[1].Amount.Equal(decimal.RequireFromString("1000")))

	// a decorated amount header still matches by substring, ahead of the balance
	m, _ = parse(t, strings.Join([]string{
		"Date,Description,Balance Amount,Amount (EUR)",
		"2025-11-01,COFFEE,95.50,-4.50",
	}, "\n"), "negative")
	require.Equal(t, 3, m.Amount)
}

func TestDetectHeaderlessBySniffing(t *testing.T) {
	t.Parallel()

	m, res := parse(t, strings.Join([]string{
		"3/02/2026,203.92,PAYMENT THANKYOU 528417",
		"2/02/2026,-20,DAN MURPHY'S/580 MELBOURN SPOTSWOOD",
		"1/02/2026,-4.5,7-ELEVEN 2231",
	}, "\n"), "negative")

	require.False(t, m.HasHeader)
	require.Equal(t, 0, m.Date)
	require.Equal(t, 1, m.Amount)
	require.Equal(t, 2, m.Merchant)
	require.Len(t, res.Transactions, 3)
	require.Equal(t, "2026-03-02", res.Transactions[0].Date)
	require.Equal(t, "7-ELEVEN 2231", res.Transactions[2].Merchant)
}

func TestDetectUnknownColumns(t *testing.T) {
	t.Parallel()

	table, err := Read(strings.NewReader("a,b\nx,y\n"))
	require.NoError(t, err)
	_, err = Detect(table, config.DefaultDateFormats)
	require.Error(t, err)
	require.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestNormalizeFailureReasons(t *testing.T) {
	t.Parallel()

	_, res := parse(t, strings.Join([]string{
		"date,merchant,amount",
		"2025-11-01,ACME,10.00",
		",,",
		"2025-11-02",
		",ACME,1",
		"yesterday,ACME,1",
		"2025-11-03,,1",
		"2025-11-04,ACME,",
		"2025-11-05,ACME,ten",
		"2025-11-06T10:15:00Z,Late Night,5",
	}, "\n"), "negative")

	require.Equal(t, 9, res.Rows)
	require.Len(t, res.Transactions, 2)
	require.Equal(t, "2025-11-06", res.Transactions[1].Date)
	require.Equal(t, map[string]int{
		ReasonEmptyRow:        1,
		ReasonShortRow:        1,
		ReasonMissingDate:     1,
		ReasonInvalidDate:     1,
		ReasonMissingMerchant: 1,
		ReasonMissingAmount:   1,
		ReasonInvalidAmount:   1,
	}, res.FailureCounts)

	sample := res.Sample(20)
	require.Len(t, sample, 6)
	require.Equal(t, ReasonShortRow, sample[0].Reason)
	require.Equal(t, 4, sample[0].Line)
	require.Len(t, res.Sample(2), 2)
}

func TestNormalizePositiveConvention(t *testing.T) {
	t.Parallel()

	_, res := parse(t, "date,description,amount\n2025-11-01,Rent,1200\n2025-11-02,Refund,-15\n", "positive")
	require.Len(t, res.Transactions, 2)
	require.True(t, res.Transactions[0].Amount.Equal(decimal.RequireFromString("-1200")))
	require.True(t, res.Transactions[1].Amount.Equal(decimal.RequireFromString("15")))
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"10.00":     "10",
		"-10.00":    "-10",
		"$1,234.56": "1234.56",
		"-$4.50":    "-4.5",
		"$-4.50":    "-4.5",
		"(12.00)":   "-12",
		"12.00-":    "-12",
		"1.234,56":  "1234.56",
		"45,5":      "45.5",
		"99.10 DR":  "-99.1",
		"99.10 CR":  "99.1",
		"USD 7.25":  "7.25",
		"€ 3,00":    "3",
		"+8":        "8",
		"1 000.00":  "1000",
		"1,000,000": "1000000",
		"0.005":     "0.005",
		"  -0.01  ": "-0.01",
	}
	for in, want := range cases {
		got, err := ParseAmount(in)
		require.NoError(t, err, in)
		require.True(t, got.Equal(decimal.RequireFromString(want)), "%s: got %s want %s", in, got, want)
	}

	for _, bad := range []string{"ten", "7-ELEVEN", "2025-11-01", "-", "STORE 123"} {
		_, err := ParseAmount(bad)
		require.Error(t, err, bad)
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"2025-11-01":           "2025-11-01",
		"2025-11-01T23:59:59Z": "2025-11-01",
		"2025-11-01 08:00":     "2025-11-01",
		"11/01/2025":           "2025-11-01",
		"2025/11/01":           "2025-11-01",
		"01 Nov 2025":          "2025-11-01",
		"Nov 1, 2025":          "2025-11-01",
		"20251101":             "2025-11-01",
	}
	for in, want := range cases {
		got, err := ParseDate(in, config.DefaultDateFormats)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParseDate("2025-13-01", config.DefaultDateFormats)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	require.True(t, os.IsNotExist(err))
}

func TestLoadTabSeparated(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "stmt.tsv")
	require.NoError(t, os.WriteFile(path, []byte("Date\tMerchant\tAmount\n2025-11-01\tACME\t-1\n"), 0o644))
	table, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, '\t', table.Delimiter)
	require.Len(t, table.Rows, 2)
	require.Equal(t, []string{"2025-11-01", "ACME", "-1"}, table.Rows[1].Fields)
}

func TestReadEmpty(t *testing.T) {
	t.Parallel()

	_, err := Read(strings.NewReader("\ufeff  \n"))
	require.True(t, apperr.Is(err, apperr.KindValidation))
}
