package dataprocessing

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "housingcli/internal/errors"
)

const sampleCSV = "Region,Period Begin,Period End,Median Sale Price,Median Sale Ppsf,Homes Sold\n" +
	"\"Chicago, IL\",2014-01-01,2014-01-31,$245K,180,007\n" +
	"\"Chicago, IL - The Loop\",2014-01-01,2014-01-31,\"$1,250,000\",412,37\n"

func TestReadCSV_KeepsStrings(t *testing.T) {
	df, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, 2, df.Nrow())
	assert.Equal(t, testHeader, df.Names())
	assert.Equal(t, []string{"007", "37"}, df.Col("Homes Sold").Records())
	assert.Equal(t, []string{"$245K", "$1,250,000"}, df.Col("Median Sale Price").Records())
}

func TestReadCSV_StripsBOM(t *testing.T) {
	df, err := ReadCSV(strings.NewReader("\xEF\xBB\xBF" + sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, "Region", df.Names()[0])
}

func TestReadCSVFile_Missing(t *testing.T) {
	_, err := ReadCSVFile(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeStorage, appErr.Type)
}

func TestLoadTable_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "housing.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Region", "Period Begin", "Period End", "Median Sale Price", "Median Sale Ppsf", "Homes Sold"},
		{"Chicago, IL", "2014-01-01", "2014-01-31", "$245K", "180", "12"},
		{"Chicago, IL", "2014-02-01", "2014-02-28", "$250K"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	df, err := LoadTable(path)
	require.NoError(t, err)
	assert.Equal(t, 2, df.Nrow())
	assert.Equal(t, []string{"12", ""}, df.Col("Homes Sold").Records())

	table, err := Clean(df)
	require.NoError(t, err)
	assert.Equal(t, int64(0), table.Rows()[1].HomesSold)
}

func TestLoadTable_UnsupportedFormat(t *testing.T) {
	_, err := LoadTable("housing.parquet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported table format")
}

func TestLoadRates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "MORTGAGE30US.csv")
	content := "DATE,MORTGAGE30US\n2012-01-05,3.91\n2012-01-12,.\n2012-01-19,3.88\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	rates, err := LoadRates(path)
	require.NoError(t, err)
	require.Len(t, rates, 2)
	assert.Equal(t, time.Date(2012, 1, 5, 0, 0, 0, 0, time.UTC), rates[0].Date)
	assert.Equal(t, 3.91, rates[0].Rate)
	assert.Equal(t, 3.88, rates[1].Rate)
}

func TestLoadRates_MissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.csv")
	require.NoError(t, os.WriteFile(path, []byte("DATE,RATE\n2012-01-05,3.91\n"), 0644))

	_, err := LoadRates(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MORTGAGE30US")
}
