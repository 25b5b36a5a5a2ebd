// Package csvimport turns bank statement CSV exports into normalized transactions.
package csvimport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jask/finsight/internal/apperr"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Row is one CSV record with its 1-based line number.
type Row struct {
	Line   int
	Fields []string
}

// Table is a parsed CSV file. Whether Rows[0] is a header is decided by Detect.
type Table struct {
	Rows      []Row
	Delimiter rune
}

// Load reads a CSV file from disk. A missing file is returned as the os error.
func Load(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()
	t, err := Read(f)
	if err != nil {
		return Table{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Read parses CSV from r, stripping a UTF-8 BOM and sniffing the delimiter.
func Read(r io.Reader) (Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Table{}, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return Table{}, apperr.Validation("csv file is empty")
	}

	delim := sniffDelimiter(data)
	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = delim != '\t'
	cr.LazyQuotes = true

	t := Table{Delimiter: delim}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, apperr.Validation("csv: %v", err)
		}
		line, _ := cr.FieldPos(0)
		t.Rows = append(t.Rows, Row{Line: line, Fields: rec})
	}
	return t, nil
}

// sniffDelimiter picks the candidate appearing most often on the first non-empty line,
// ignoring quoted sections. Comma wins ties.
func sniffDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	var first []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) > 0 {
			first = line
			break
		}
	}
	counts := make(map[rune]int, len(candidates))
	inQuotes := false
	for _, c := range string(first) {
		if c == '"' {
			inQuotes = !inQuotes
			continue
		}
		if !inQuotes {
			counts[c]++
		}
	}
	best := ','
	for _, c := range candidates {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best
}
