package domain

import (
	"time"
)

// Column names of the regional housing transactions table.
const (
	ColumnRegion          = "Region"
	ColumnPeriodBegin     = "Period Begin"
	ColumnPeriodEnd       = "Period End"
	ColumnMedianSalePrice = "Median Sale Price"
	ColumnMedianSalePpsf  = "Median Sale Ppsf"
	ColumnHomesSold       = "Homes Sold"
)

// RequiredColumns lists the columns a transactions table must carry.
var RequiredColumns = []string{
	ColumnRegion,
	ColumnPeriodBegin,
	ColumnPeriodEnd,
	ColumnMedianSalePrice,
	ColumnMedianSalePpsf,
	ColumnHomesSold,
}

// Transaction is one cleaned row of the transactions table: the aggregate
// sales figures of a single region over a single reporting period.
type Transaction struct {
	Region          string    `json:"region" validate:"required"`
	PeriodBegin     time.Time `json:"period_begin" validate:"required"`
	PeriodEnd       time.Time `json:"period_end" validate:"required"`
	MedianSalePrice float64   `json:"median_sale_price" validate:"min=0"`
	MedianSalePpsf  float64   `json:"median_sale_ppsf" validate:"min=0"`
	HomesSold       int64     `json:"homes_sold" validate:"min=0"`

	// Derived from PeriodBegin during cleaning.
	Month int `json:"month" validate:"min=1,max=12"`
	Year  int `json:"year" validate:"required"`
}

// RatePoint is one observation of the 30-year fixed mortgage rate series.
type RatePoint struct {
	Date time.Time `json:"date" validate:"required"`
	Rate float64   `json:"rate"`
}

// Rate file column names.
const (
	ColumnRateDate  = "DATE"
	ColumnRateValue = "MORTGAGE30US"
)
