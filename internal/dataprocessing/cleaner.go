package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-gota/gota/dataframe"
	"github.com/shopspring/decimal"

	apperrors "housingcli/internal/errors"
	"housingcli/pkg/contracts/domain"
)

// dateLayouts are tried in order when parsing period and rate dates.
var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
	"2006-01-02 15:04:05",
	"2006/01/02",
	time.RFC3339,
}

var (
	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
)

// Table is a cleaned transactions table. Rows keep source order and are not
// modified after cleaning.
type Table struct {
	rows []domain.Transaction
}

// NewTable builds a table from already typed rows. The slice is copied.
func NewTable(rows []domain.Transaction) *Table {
	return &Table{rows: append([]domain.Transaction(nil), rows...)}
}

// Rows returns a copy of the table rows.
func (t *Table) Rows() []domain.Transaction {
	if t == nil {
		return nil
	}
	return append([]domain.Transaction(nil), t.rows...)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Regions returns the distinct regions in order of first appearance.
func (t *Table) Regions() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]bool)
	var regions []string
	for _, r := range t.rows {
		if !seen[r.Region] {
			seen[r.Region] = true
			regions = append(regions, r.Region)
		}
	}
	return regions
}

// each calls fn for every row of region, in source order.
func (t *Table) each(region string, fn func(r *domain.Transaction)) {
	if t == nil {
		return
	}
	for i := range t.rows {
		if t.rows[i].Region == region {
			fn(&t.rows[i])
		}
	}
}

// Clean converts a raw table into a typed Table. input must be a
// dataframe.DataFrame or a pointer to one; anything else, including an
// already cleaned *Table, fails with the input type error.
//
// The median sale price loses its currency symbol, has a trailing K or M
// expanded and grouping commas removed. Period dates are parsed and Month and
// Year are taken from Period Begin.
func Clean(input any) (*Table, error) {
	var df dataframe.DataFrame
	switch v := input.(type) {
	case dataframe.DataFrame:
		df = v
	case *dataframe.DataFrame:
		if v == nil {
			return nil, apperrors.NewInputTypeError(input)
		}
		df = *v
	default:
		return nil, apperrors.NewInputTypeError(input)
	}

	if df.Err != nil {
		return nil, apperrors.NewParsingError("raw table carries a load error", df.Err)
	}
	if err := requireColumns(df, domain.RequiredColumns...); err != nil {
		return nil, err
	}

	regions := df.Col(domain.ColumnRegion).Records()
	begins := df.Col(domain.ColumnPeriodBegin).Records()
	ends := df.Col(domain.ColumnPeriodEnd).Records()
	prices := df.Col(domain.ColumnMedianSalePrice).Records()
	ppsfs := df.Col(domain.ColumnMedianSalePpsf).Records()
	sold := df.Col(domain.ColumnHomesSold).Records()

	rows := make([]domain.Transaction, len(regions))
	for i := range regions {
		row := &rows[i]
		row.Region = regions[i]

		var err error
		if row.PeriodBegin, err = parseDate(begins[i]); err != nil {
			return nil, cellError(i, domain.ColumnPeriodBegin, begins[i], err)
		}
		if row.PeriodEnd, err = parseDate(ends[i]); err != nil {
			return nil, cellError(i, domain.ColumnPeriodEnd, ends[i], err)
		}
		if row.MedianSalePrice, err = ParsePrice(prices[i]); err != nil {
			return nil, cellError(i, domain.ColumnMedianSalePrice, prices[i], err)
		}
		if row.MedianSalePpsf, err = ParsePrice(ppsfs[i]); err != nil {
			return nil, cellError(i, domain.ColumnMedianSalePpsf, ppsfs[i], err)
		}
		if row.HomesSold, err = parseCount(sold[i]); err != nil {
			return nil, cellError(i, domain.ColumnHomesSold, sold[i], err)
		}

		row.Month = int(row.PeriodBegin.Month())
		row.Year = row.PeriodBegin.Year()
	}

	return &Table{rows: rows}, nil
}

// ParsePrice normalizes a money string such as "$245K", "$1.2M",
// "$1,250,000" or "-$5" to a float. Empty and NaN cells parse to NaN.
func ParsePrice(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if isMissing(s) {
		return math.NaN(), nil
	}

	// Sign before the currency symbol ("-$5")
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = strings.TrimSpace(s[1:])
	}

	// Currency symbol
	s = strings.TrimLeftFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '-' && r != '.'
	})

	multiplier := decimal.NewFromInt(1)
	switch {
	case strings.HasSuffix(s, "K"), strings.HasSuffix(s, "k"):
		multiplier = thousand
		s = s[:len(s)-1]
	case strings.HasSuffix(s, "M"), strings.HasSuffix(s, "m"):
		multiplier = million
		s = s[:len(s)-1]
	}
	s = strings.ReplaceAll(s, ",", "")

	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("not a price: %q", raw)
	}
	d = d.Mul(multiplier)
	if negative {
		d = d.Neg()
	}
	return d.InexactFloat64(), nil
}

// parseCount parses a unit count. Empty cells count as zero.
func parseCount(raw string) (int64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if isMissing(s) {
		return 0, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	// Counts exported as floats ("12.0")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("not a count: %q", raw)
	}
	return d.IntPart(), nil
}

func parseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

func isMissing(s string) bool {
	switch s {
	case "", "NaN", "NA", "<nil>":
		return true
	}
	return false
}

// cellError reports a cell that could not be parsed. Row numbers are 1-based
// data rows, header excluded.
func cellError(row int, column, value string, cause error) *apperrors.AppError {
	return apperrors.NewParsingError(
		fmt.Sprintf("invalid value in column %q at row %d", column, row+1), cause).
		WithContext("row", row+1).
		WithContext("column", column).
		WithContext("value", value)
}
