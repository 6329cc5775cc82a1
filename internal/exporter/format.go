package exporter

import (
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"housingcli/pkg/contracts/domain"
)

// floatPlaces is the number of decimals kept in exported values.
const floatPlaces = 4

const dateLayout = "2006-01-02"

// formatFloat formats a float64 value for CSV output, rounded to floatPlaces
// with trailing zeros dropped. NaN and infinities become empty cells.
func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return decimal.NewFromFloat(f).Round(floatPlaces).String()
}

// formatPoint formats a series value; missing points become empty cells.
func formatPoint(p domain.Point) string {
	if !p.Valid {
		return ""
	}
	return formatFloat(p.Value)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatDate formats a date for CSV output
func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}
