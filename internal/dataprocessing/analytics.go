package dataprocessing

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	apperrors "housingcli/internal/errors"
	"housingcli/pkg/contracts/domain"
)

// AreaPpsfByYear returns the median sale price per square foot of region for
// each year, ascending by year. Region matching is exact. A region without
// rows yields an empty series.
func AreaPpsfByYear(t *Table, region string) domain.Series {
	byYear := make(map[int][]float64)
	t.each(region, func(r *domain.Transaction) {
		byYear[r.Year] = append(byYear[r.Year], r.MedianSalePpsf)
	})

	out := make(domain.Series, 0, len(byYear))
	for _, year := range sortedKeys(byYear) {
		m, ok := median(byYear[year])
		out = append(out, domain.Point{Key: year, Value: m, Valid: ok})
	}
	return out
}

// MultiAreaPpsfByYear applies AreaPpsfByYear to each region in order. A
// repeated region replaces its earlier entry.
func MultiAreaPpsfByYear(t *Table, regions []string) domain.RegionSeries {
	out := make(domain.RegionSeries, 0, len(regions))
	for _, region := range regions {
		out.Set(region, AreaPpsfByYear(t, region))
	}
	return out
}

// PercentChange returns the period over period change of s in percent. The
// first point has no predecessor and is missing. A point whose predecessor is
// missing or zero is missing as well.
func PercentChange(s domain.Series) domain.Series {
	out := make(domain.Series, len(s))
	for i, p := range s {
		out[i] = domain.Point{Key: p.Key}
		if i == 0 || !p.Valid {
			continue
		}
		prev := s[i-1]
		if !prev.Valid || prev.Value == 0 {
			continue
		}
		out[i].Value = (p.Value - prev.Value) / prev.Value * 100
		out[i].Valid = true
	}
	return out
}

// MultiAreaPercentByYear returns the yearly percentage change of the median
// price per square foot of each region.
func MultiAreaPercentByYear(t *Table, regions []string) domain.RegionSeries {
	out := make(domain.RegionSeries, 0, len(regions))
	for _, region := range regions {
		out.Set(region, PercentChange(AreaPpsfByYear(t, region)))
	}
	return out
}

// SeasonActivity returns the period end, median price per square foot and
// homes sold of every row of region, in source order.
func SeasonActivity(t *Table, region string) domain.SeasonalFrame {
	frame := domain.SeasonalFrame{Region: region}
	t.each(region, func(r *domain.Transaction) {
		frame.Rows = append(frame.Rows, domain.SeasonalRow{
			PeriodEnd:      r.PeriodEnd,
			MedianSalePpsf: r.MedianSalePpsf,
			HomesSold:      r.HomesSold,
		})
	})
	return frame
}

// MonthlySaleShare returns, for each requested month, its share of all homes
// sold in the base region over the years of the share window. Months without
// sales get 0. When nothing was sold in the window every share is 0.
func MonthlySaleShare(t *Table, months []int, opts ShareOptions) ([]float64, error) {
	for _, m := range months {
		if m < 1 || m > 12 {
			return nil, apperrors.NewAppValidationError(fmt.Sprintf("month %d out of range 1-12", m)).
				WithContext("month", m)
		}
	}

	var total int64
	byMonth := make(map[int]int64, 12)
	t.each(opts.BaseRegion, func(r *domain.Transaction) {
		if !opts.includes(r.Year) {
			return
		}
		total += r.HomesSold
		byMonth[r.Month] += r.HomesSold
	})

	shares := make([]float64, len(months))
	if total == 0 {
		slog.Warn("No homes sold in share window, shares reported as zero",
			slog.String("region", opts.BaseRegion),
			slog.Int("year_after", opts.YearAfter),
			slog.Int("year_before", opts.YearBefore))
		return shares, nil
	}

	for i, m := range months {
		shares[i] = float64(byMonth[m]) / float64(total)
	}
	return shares, nil
}

// MonthlyUnitSoldByYear returns the average number of homes sold per
// reporting period of region for each year.
func MonthlyUnitSoldByYear(t *Table, region string) domain.Series {
	type acc struct {
		sum   int64
		count int
	}
	byYear := make(map[int]*acc)
	t.each(region, func(r *domain.Transaction) {
		a := byYear[r.Year]
		if a == nil {
			a = &acc{}
			byYear[r.Year] = a
		}
		a.sum += r.HomesSold
		a.count++
	})

	out := make(domain.Series, 0, len(byYear))
	for _, year := range sortedKeys(byYear) {
		a := byYear[year]
		out = append(out, domain.Point{Key: year, Value: float64(a.sum) / float64(a.count), Valid: true})
	}
	return out
}

// median of the non-NaN values. With an even count it is the mean of the two
// middle values. Returns false when no value is present.
func median(values []float64) (float64, bool) {
	vals := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	n := len(vals)
	if n == 0 {
		return 0, false
	}
	sort.Float64s(vals)
	if n%2 == 1 {
		return vals[n/2], true
	}
	return (vals[n/2-1] + vals[n/2]) / 2, true
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
