package exporter

import (
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "housingcli/internal/errors"
	"housingcli/pkg/contracts/domain"
)

// maxSheetName is the Excel limit on sheet name length.
const maxSheetName = 31

// Workbook collects metric tables as sheets of a single xlsx file.
type Workbook struct {
	file        *excelize.File
	sheets      []string
	headerStyle int
}

// NewWorkbook creates an empty workbook
func NewWorkbook() (*Workbook, error) {
	f := excelize.NewFile()
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, apperrors.NewStorageError("failed to create header style", err)
	}
	return &Workbook{file: f, headerStyle: style}, nil
}

// AddSheet appends a sheet holding headers and rows. nil cells stay empty.
func (wb *Workbook) AddSheet(name string, headers []string, rows [][]interface{}) error {
	name = sheetName(name)
	if len(wb.sheets) == 0 {
		if err := wb.file.SetSheetName(wb.file.GetSheetName(0), name); err != nil {
			return apperrors.NewStorageError("failed to name sheet", err).WithContext("sheet", name)
		}
	} else if _, err := wb.file.NewSheet(name); err != nil {
		return apperrors.NewStorageError("failed to add sheet", err).WithContext("sheet", name)
	}
	wb.sheets = append(wb.sheets, name)

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := wb.file.SetSheetRow(name, "A1", &header); err != nil {
		return apperrors.NewStorageError("failed to write header", err).WithContext("sheet", name)
	}
	if len(headers) > 0 {
		last, err := excelize.CoordinatesToCellName(len(headers), 1)
		if err != nil {
			return apperrors.NewStorageError("failed to address header", err).WithContext("sheet", name)
		}
		if err := wb.file.SetCellStyle(name, "A1", last, wb.headerStyle); err != nil {
			return apperrors.NewStorageError("failed to style header", err).WithContext("sheet", name)
		}
		lastCol := strings.TrimRight(last, "0123456789")
		if err := wb.file.SetColWidth(name, "A", lastCol, 18); err != nil {
			return apperrors.NewStorageError("failed to size columns", err).WithContext("sheet", name)
		}
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return apperrors.NewStorageError("failed to address row", err).WithContext("sheet", name)
		}
		if err := wb.file.SetSheetRow(name, cell, &rows[i]); err != nil {
			return apperrors.NewStorageError("failed to write row", err).
				WithContext("sheet", name).
				WithContext("row", i+2)
		}
	}
	return nil
}

// AddRegionSeries adds a sheet with one row per region and key.
func (wb *Workbook) AddRegionSeries(name, keyHeader, valueHeader string, rs domain.RegionSeries) error {
	var rows [][]interface{}
	for _, l := range rs {
		for _, p := range l.Series {
			rows = append(rows, []interface{}{l.Region, p.Key, pointCell(p)})
		}
	}
	return wb.AddSheet(name, []string{domain.ColumnRegion, keyHeader, valueHeader}, rows)
}

// AddSeries adds a sheet with one row per point.
func (wb *Workbook) AddSeries(name, keyHeader, valueHeader string, s domain.Series) error {
	rows := make([][]interface{}, len(s))
	for i, p := range s {
		rows[i] = []interface{}{p.Key, pointCell(p)}
	}
	return wb.AddSheet(name, []string{keyHeader, valueHeader}, rows)
}

// AddShares adds a sheet with one row per labeled share.
func (wb *Workbook) AddShares(name string, labels []string, shares []float64) error {
	if len(labels) != len(shares) {
		return apperrors.NewLengthMismatchError(len(shares), len(labels))
	}
	rows := make([][]interface{}, len(shares))
	for i, s := range shares {
		rows[i] = []interface{}{labels[i], floatCell(s)}
	}
	return wb.AddSheet(name, []string{"Month", "Share"}, rows)
}

// AddSeasonal adds a sheet with the rows of frame.
func (wb *Workbook) AddSeasonal(name string, frame domain.SeasonalFrame) error {
	rows := make([][]interface{}, len(frame.Rows))
	for i, r := range frame.Rows {
		rows[i] = []interface{}{formatDate(r.PeriodEnd), floatCell(r.MedianSalePpsf), r.HomesSold}
	}
	return wb.AddSheet(name, append([]string{domain.ColumnPeriodEnd}, frame.Columns()...), rows)
}

// SheetNames returns the sheet names in insertion order.
func (wb *Workbook) SheetNames() []string {
	return append([]string(nil), wb.sheets...)
}

// SaveAs writes the workbook to path.
func (wb *Workbook) SaveAs(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory", err).WithContext("path", path)
	}
	wb.file.SetActiveSheet(0)
	if err := wb.file.SaveAs(path); err != nil {
		return apperrors.NewStorageError("failed to save workbook", err).WithContext("path", path)
	}

	slog.Info("Workbook saved",
		slog.String("path", path),
		slog.Int("sheets", len(wb.sheets)))
	return nil
}

// Close releases the workbook resources
func (wb *Workbook) Close() error {
	return wb.file.Close()
}

// pointCell returns the cell value of p, nil when missing.
func pointCell(p domain.Point) interface{} {
	if !p.Valid {
		return nil
	}
	return floatCell(p.Value)
}

// floatCell leaves NaN and infinities empty. Excel has no representation
// for them.
func floatCell(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

// sheetName strips characters Excel rejects and truncates to the length limit.
func sheetName(name string) string {
	name = strings.NewReplacer(
		":", "", `\`, "", "/", "", "?", "", "*", "", "[", "", "]", "",
	).Replace(name)
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	if name == "" {
		name = "Sheet"
	}
	return name
}
