// Package statement parses imported bank statement files into the debit
// transactions the reconciliation matcher scores. Transactions are
// transient: they are never persisted.
package statement

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one parsed debit line of an imported statement.
type Transaction struct {
	Date        time.Time
	Description string
	Amount      int64 // absolute debit value in cents
}

// ParseError reports a malformed statement file. The import aborts with
// no partial state.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("statement line %d: %s", e.Line, e.Reason)
	}

	return "statement: " + e.Reason
}

// dateLayouts are tried in order when parsing the date column.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
}

// Parser reads comma-delimited statement exports: a header line followed
// by rows of (date, description, value, kind). Only rows with a negative
// value are retained, as debits, with the value stored absolute.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]Transaction, error) {
	utf8r, err := newUTF8Reader(r)
	if err != nil {
		return nil, &ParseError{Reason: err.Error()}
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("read csv: %v", err)}
	}

	// First line is the header.
	if len(rows) < 2 {
		return nil, &ParseError{Reason: "no data rows after header"}
	}

	var txs []Transaction

	for i, row := range rows[1:] {
		lineNum := i + 2

		if isBlank(row) {
			continue
		}

		if len(row) < 3 {
			return nil, &ParseError{Line: lineNum, Reason: "expected at least date, description and value columns"}
		}

		date, ok := parseDate(row[0])
		if !ok {
			// Footer or summary row.
			continue
		}

		description := strings.TrimSpace(row[1])
		if description == "" {
			return nil, &ParseError{Line: lineNum, Reason: "missing description"}
		}

		cents, err := parseValue(row[2])
		if err != nil {
			return nil, &ParseError{Line: lineNum, Reason: fmt.Sprintf("bad value %q", row[2])}
		}

		// Credits are discarded; only debits feed the matcher.
		if cents >= 0 {
			continue
		}

		txs = append(txs, Transaction{
			Date:        date,
			Description: description,
			Amount:      -cents,
		})
	}

	return txs, nil
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// parseValue parses a decimal value string into signed cents.
func parseValue(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
