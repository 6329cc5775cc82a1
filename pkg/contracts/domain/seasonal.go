package domain

import "time"

// SeasonalRow is one reporting period of a region, indexed by its period end.
type SeasonalRow struct {
	PeriodEnd      time.Time `json:"period_end"`
	MedianSalePpsf float64   `json:"median_sale_ppsf"`
	HomesSold      int64     `json:"homes_sold"`
}

// SeasonalFrame holds the seasonal activity rows of a single region in source order.
type SeasonalFrame struct {
	Region string        `json:"region"`
	Rows   []SeasonalRow `json:"rows"`
}

// SeasonalColumns names the value columns of a SeasonalFrame, in display order.
var SeasonalColumns = []string{ColumnMedianSalePpsf, ColumnHomesSold}

// Columns returns the value column names of the frame.
func (f SeasonalFrame) Columns() []string {
	return append([]string(nil), SeasonalColumns...)
}

// Column returns the values of the named column, or false if the frame has no such column.
func (f SeasonalFrame) Column(name string) ([]float64, bool) {
	values := make([]float64, len(f.Rows))
	switch name {
	case ColumnMedianSalePpsf:
		for i, r := range f.Rows {
			values[i] = r.MedianSalePpsf
		}
	case ColumnHomesSold:
		for i, r := range f.Rows {
			values[i] = float64(r.HomesSold)
		}
	default:
		return nil, false
	}
	return values, true
}

// Index returns the period end dates of the frame.
func (f SeasonalFrame) Index() []time.Time {
	index := make([]time.Time, len(f.Rows))
	for i, r := range f.Rows {
		index[i] = r.PeriodEnd
	}
	return index
}

// YearSpan returns the first and last period-end years of the frame.
func (f SeasonalFrame) YearSpan() (first, last int, ok bool) {
	if len(f.Rows) == 0 {
		return 0, 0, false
	}
	first, last = f.Rows[0].PeriodEnd.Year(), f.Rows[0].PeriodEnd.Year()
	for _, r := range f.Rows[1:] {
		y := r.PeriodEnd.Year()
		if y < first {
			first = y
		}
		if y > last {
			last = y
		}
	}
	return first, last, true
}
