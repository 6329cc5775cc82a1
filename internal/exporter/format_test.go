package exporter

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"housingcli/pkg/contracts/domain"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "zero value", input: 0.0, expected: "0"},
		{name: "positive integer", input: 123.0, expected: "123"},
		{name: "negative integer", input: -456.0, expected: "-456"},
		{name: "decimal with trailing zeros", input: 123.450000, expected: "123.45"},
		{name: "rounded to four places", input: 0.083333333, expected: "0.0833"},
		{name: "float noise removed", input: 10.000000000000002, expected: "10"},
		{name: "NaN", input: math.NaN(), expected: ""},
		{name: "infinity", input: math.Inf(1), expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatFloat(tt.input))
		})
	}
}

func TestFormatPoint(t *testing.T) {
	assert.Equal(t, "", formatPoint(domain.Point{Key: 2012}))
	assert.Equal(t, "12.5", formatPoint(domain.Point{Key: 2013, Value: 12.5, Valid: true}))
}

func TestFormatInt(t *testing.T) {
	assert.Equal(t, "0", formatInt(0))
	assert.Equal(t, "-42", formatInt(-42))
	assert.Equal(t, "1204", formatInt(1204))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2014-01-31", formatDate(time.Date(2014, 1, 31, 0, 0, 0, 0, time.UTC)))
}
