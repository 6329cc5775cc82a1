package dataprocessing

import (
	"testing"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/require"

	"housingcli/pkg/contracts/domain"
)

var testHeader = []string{
	domain.ColumnRegion,
	domain.ColumnPeriodBegin,
	domain.ColumnPeriodEnd,
	domain.ColumnMedianSalePrice,
	domain.ColumnMedianSalePpsf,
	domain.ColumnHomesSold,
}

// rawFrame builds a raw table from data rows under the standard header.
func rawFrame(t *testing.T, rows ...[]string) dataframe.DataFrame {
	t.Helper()
	records := append([][]string{testHeader}, rows...)
	df := dataframe.LoadRecords(records, rawOptions...)
	require.NoError(t, df.Err)
	return df
}

// tx builds a cleaned transaction for region in year/month.
func tx(region string, year, month int, ppsf float64, sold int64) domain.Transaction {
	begin := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return domain.Transaction{
		Region:         region,
		PeriodBegin:    begin,
		PeriodEnd:      begin.AddDate(0, 1, -1),
		MedianSalePpsf: ppsf,
		HomesSold:      sold,
		Month:          month,
		Year:           year,
	}
}
