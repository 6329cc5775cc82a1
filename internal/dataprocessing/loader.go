package dataprocessing

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"

	apperrors "housingcli/internal/errors"
	"housingcli/pkg/contracts/domain"
)

// rawOptions keep every column as text. Typing is the cleaner's job.
var rawOptions = []dataframe.LoadOption{
	dataframe.HasHeader(true),
	dataframe.DetectTypes(false),
	dataframe.DefaultType(series.String),
}

// ReadCSV reads a comma separated table with every column kept as a string.
func ReadCSV(r io.Reader) (dataframe.DataFrame, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return dataframe.DataFrame{}, apperrors.NewParsingError("failed to read CSV content", err)
	}

	// Remove BOM if present
	content = bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})

	df := dataframe.ReadCSV(bytes.NewReader(content), rawOptions...)
	if df.Err != nil {
		return df, apperrors.NewParsingError("failed to parse CSV", df.Err)
	}
	return df, nil
}

// ReadCSVFile opens path and reads it with ReadCSV.
func ReadCSVFile(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, apperrors.NewStorageError("failed to open table", err).
			WithContext("path", path)
	}
	defer f.Close()

	df, err := ReadCSV(f)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok {
			appErr.WithContext("path", path)
		}
		return df, err
	}
	return df, nil
}

// ReadXLSXFile reads one sheet of a workbook into a raw table. An empty sheet
// name selects the first sheet. Short rows are padded to the header width.
func ReadXLSXFile(path, sheet string) (dataframe.DataFrame, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return dataframe.DataFrame{}, apperrors.NewStorageError("failed to open workbook", err).
			WithContext("path", path)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return dataframe.DataFrame{}, apperrors.NewParsingError("workbook has no sheets", nil).
				WithContext("path", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return dataframe.DataFrame{}, apperrors.NewParsingError("failed to read sheet", err).
			WithContext("path", path).
			WithContext("sheet", sheet)
	}
	if len(rows) == 0 {
		return dataframe.DataFrame{}, apperrors.NewParsingError("sheet is empty", nil).
			WithContext("path", path).
			WithContext("sheet", sheet)
	}

	width := len(rows[0])
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			row = padded
		}
		records = append(records, row[:width])
	}

	slog.Debug("Read workbook sheet",
		slog.String("path", path),
		slog.String("sheet", sheet),
		slog.Int("rows", len(records)-1))

	df := dataframe.LoadRecords(records, rawOptions...)
	if df.Err != nil {
		return df, apperrors.NewParsingError("failed to load sheet records", df.Err).
			WithContext("path", path)
	}
	return df, nil
}

// LoadTable reads a raw transactions table, choosing the reader by extension.
func LoadTable(path string) (dataframe.DataFrame, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadXLSXFile(path, "")
	case ".csv", ".txt", "":
		return ReadCSVFile(path)
	default:
		return dataframe.DataFrame{}, apperrors.NewParsingError(
			fmt.Sprintf("unsupported table format %q", filepath.Ext(path)), nil).
			WithContext("path", path)
	}
}

// LoadRates reads the mortgage rate file. Observations recorded as "." or
// left empty are skipped.
func LoadRates(path string) ([]domain.RatePoint, error) {
	df, err := ReadCSVFile(path)
	if err != nil {
		return nil, err
	}
	return RatesFromFrame(df)
}

// RatesFromFrame converts a raw rate table into rate points in source order.
func RatesFromFrame(df dataframe.DataFrame) ([]domain.RatePoint, error) {
	if err := requireColumns(df, domain.ColumnRateDate, domain.ColumnRateValue); err != nil {
		return nil, err
	}

	dates := df.Col(domain.ColumnRateDate).Records()
	values := df.Col(domain.ColumnRateValue).Records()

	points := make([]domain.RatePoint, 0, len(dates))
	for i := range dates {
		raw := strings.TrimSpace(values[i])
		if isMissing(raw) || raw == "." {
			continue
		}

		date, err := parseDate(dates[i])
		if err != nil {
			return nil, cellError(i, domain.ColumnRateDate, dates[i], err)
		}
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, cellError(i, domain.ColumnRateValue, values[i], err)
		}
		points = append(points, domain.RatePoint{Date: date, Rate: rate})
	}
	return points, nil
}

// requireColumns fails with a parsing error naming the first absent column.
func requireColumns(df dataframe.DataFrame, columns ...string) error {
	present := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		present[name] = true
	}
	for _, c := range columns {
		if !present[c] {
			return apperrors.NewParsingError(fmt.Sprintf("missing required column %q", c), nil).
				WithContext("column", c)
		}
	}
	return nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
