package dataprocessing

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "housingcli/internal/errors"
)

func TestClean(t *testing.T) {
	df := rawFrame(t,
		[]string{"Chicago, IL", "2014-01-01", "2014-01-31", "$245K", "180", "1,204"},
		[]string{"Chicago, IL - The Loop", "2/1/2014", "2/28/2014", "$1,250,000", "412.5", "37"},
	)

	table, err := Clean(df)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	rows := table.Rows()
	assert.Equal(t, "Chicago, IL", rows[0].Region)
	assert.Equal(t, 245000.0, rows[0].MedianSalePrice)
	assert.Equal(t, 180.0, rows[0].MedianSalePpsf)
	assert.Equal(t, int64(1204), rows[0].HomesSold)
	assert.Equal(t, time.Date(2014, 1, 31, 0, 0, 0, 0, time.UTC), rows[0].PeriodEnd)
	assert.Equal(t, 1, rows[0].Month)
	assert.Equal(t, 2014, rows[0].Year)

	assert.Equal(t, 1250000.0, rows[1].MedianSalePrice)
	assert.Equal(t, 2, rows[1].Month)
	assert.Equal(t, []string{"Chicago, IL", "Chicago, IL - The Loop"}, table.Regions())
}

func TestClean_AcceptsPointer(t *testing.T) {
	df := rawFrame(t, []string{"Chicago, IL", "2014-01-01", "2014-01-31", "$200K", "150", "10"})

	table, err := Clean(&df)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
}

func TestClean_InputTypeError(t *testing.T) {
	cleaned := NewTable(nil)

	tests := []struct {
		name  string
		input any
	}{
		{"map", map[string]int{"Chicago, IL": 200}},
		{"nil", nil},
		{"string", "chicago.csv"},
		{"cleaned table", cleaned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Clean(tt.input)
			require.Error(t, err)
			assert.Nil(t, table)
			assert.True(t, errors.Is(err, apperrors.ErrInputType))
			assert.Contains(t, err.Error(), "Input must be a dataframe.")
		})
	}
}

func TestClean_ParsingErrors(t *testing.T) {
	tests := []struct {
		name   string
		row    []string
		column string
	}{
		{"bad price", []string{"Chicago, IL", "2014-01-01", "2014-01-31", "$abcK", "150", "10"}, "Median Sale Price"},
		{"bad begin", []string{"Chicago, IL", "January", "2014-01-31", "$200K", "150", "10"}, "Period Begin"},
		{"bad end", []string{"Chicago, IL", "2014-01-01", "soon", "$200K", "150", "10"}, "Period End"},
		{"bad count", []string{"Chicago, IL", "2014-01-01", "2014-01-31", "$200K", "150", "many"}, "Homes Sold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Clean(rawFrame(t, tt.row))
			require.Error(t, err)

			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, apperrors.ErrTypeParsing, appErr.Type)
			assert.Equal(t, tt.column, appErr.Context["column"])
			assert.Equal(t, 1, appErr.Context["row"])
		})
	}
}

func TestClean_MissingColumn(t *testing.T) {
	df := rawFrame(t, []string{"Chicago, IL", "2014-01-01", "2014-01-31", "$200K", "150", "10"})
	df = df.Drop("Homes Sold")

	_, err := Clean(df)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing required column "Homes Sold"`)
}

func TestClean_RowsAreCopies(t *testing.T) {
	table, err := Clean(rawFrame(t, []string{"Chicago, IL", "2014-01-01", "2014-01-31", "$200K", "150", "10"}))
	require.NoError(t, err)

	rows := table.Rows()
	rows[0].Region = "changed"
	assert.Equal(t, "Chicago, IL", table.Rows()[0].Region)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"$245K", 245000},
		{"$245.5K", 245500},
		{"$1.2M", 1200000},
		{"$1,250,000", 1250000},
		{"€310k", 310000},
		{"198000", 198000},
		{" $99 ", 99},
		{"-$5", -5},
		{"$-5", -5},
		{"-$1.5K", -1500},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParsePrice(tt.raw)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	t.Run("missing", func(t *testing.T) {
		got, err := ParsePrice("")
		require.NoError(t, err)
		assert.True(t, math.IsNaN(got))
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := ParsePrice("$twelve")
		assert.Error(t, err)

		_, err = ParsePrice("-")
		assert.Error(t, err)
	})
}
