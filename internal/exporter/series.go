package exporter

import (
	"fmt"

	apperrors "housingcli/internal/errors"
	"housingcli/pkg/contracts/domain"
)

// ExportRegionSeries writes one row per region and key: Region, keyHeader,
// valueHeader. Missing values are left empty.
func (w *CSVWriter) ExportRegionSeries(filePath, keyHeader, valueHeader string, rs domain.RegionSeries) error {
	var records [][]string
	for _, l := range rs {
		for _, p := range l.Series {
			records = append(records, []string{l.Region, formatInt(int64(p.Key)), formatPoint(p)})
		}
	}
	return w.WriteSimpleCSV(filePath, []string{domain.ColumnRegion, keyHeader, valueHeader}, records)
}

// ExportSeries writes one row per point of s.
func (w *CSVWriter) ExportSeries(filePath, keyHeader, valueHeader string, s domain.Series) error {
	records := make([][]string, len(s))
	for i, p := range s {
		records[i] = []string{formatInt(int64(p.Key)), formatPoint(p)}
	}
	return w.WriteSimpleCSV(filePath, []string{keyHeader, valueHeader}, records)
}

// ExportShares writes one row per labeled share.
func (w *CSVWriter) ExportShares(filePath string, labels []string, shares []float64) error {
	if len(labels) != len(shares) {
		return apperrors.NewLengthMismatchError(len(shares), len(labels))
	}
	records := make([][]string, len(shares))
	for i, s := range shares {
		records[i] = []string{labels[i], formatFloat(s)}
	}
	return w.WriteSimpleCSV(filePath, []string{"Month", "Share"}, records)
}

// ExportSeasonal writes the rows of frame under its period end index.
func (w *CSVWriter) ExportSeasonal(filePath string, frame domain.SeasonalFrame) error {
	headers := append([]string{domain.ColumnPeriodEnd}, frame.Columns()...)
	records := make([][]string, len(frame.Rows))
	for i, r := range frame.Rows {
		records[i] = []string{formatDate(r.PeriodEnd), formatFloat(r.MedianSalePpsf), formatInt(r.HomesSold)}
	}
	return w.WriteSimpleCSV(filePath, headers, records)
}

// transactionHeaders are the columns of the cleaned table export.
var transactionHeaders = []string{
	domain.ColumnRegion,
	domain.ColumnPeriodBegin,
	domain.ColumnPeriodEnd,
	domain.ColumnMedianSalePrice,
	domain.ColumnMedianSalePpsf,
	domain.ColumnHomesSold,
	"Month",
	"Year",
}

// ExportTransactions streams the cleaned rows to filePath and returns the
// number of rows written.
func (w *CSVWriter) ExportTransactions(filePath string, rows []domain.Transaction) (int, error) {
	stream, err := w.CreateStreamWriter(filePath, transactionHeaders)
	if err != nil {
		return 0, err
	}

	for i, r := range rows {
		record := []string{
			r.Region,
			formatDate(r.PeriodBegin),
			formatDate(r.PeriodEnd),
			formatFloat(r.MedianSalePrice),
			formatFloat(r.MedianSalePpsf),
			formatInt(r.HomesSold),
			formatInt(int64(r.Month)),
			formatInt(int64(r.Year)),
		}
		if err := stream.WriteRecord(record); err != nil {
			stream.Close()
			return stream.Count(), apperrors.NewStorageError(fmt.Sprintf("failed to write transaction %d", i), err).
				WithContext("path", stream.Path())
		}
	}

	if err := stream.Close(); err != nil {
		return stream.Count(), apperrors.NewStorageError("failed to close transaction export", err).
			WithContext("path", stream.Path())
	}
	return stream.Count(), nil
}
