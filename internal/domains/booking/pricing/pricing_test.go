package pricing_test

import (
	"testing"
	"time"

	"hotel/internal/domains/booking/pricing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNights(t *testing.T) {
	checkIn := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 4, pricing.Nights(checkIn, checkIn.AddDate(0, 0, 4)))
	assert.Equal(t, 0, pricing.Nights(checkIn, checkIn))
	assert.Equal(t, -2, pricing.Nights(checkIn, checkIn.AddDate(0, 0, -2)))
	assert.Equal(t, 366, pricing.Nights(checkIn.AddDate(0, -5, 0), checkIn.AddDate(1, -5, 0)))
	assert.Equal(t, 4, pricing.Nights(checkIn.Add(23*time.Hour), checkIn.AddDate(0, 0, 4).Add(time.Hour)))
}

func TestPrice(t *testing.T) {
	checkIn := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		rate     string
		nights   int
		expected string
		wantErr  error
	}{
		{name: "scenario stay", rate: "100.00", nights: 4, expected: "400.00"},
		{name: "single night", rate: "89.90", nights: 1, expected: "89.90"},
		{name: "year long stay keeps cents", rate: "0.10", nights: 365, expected: "36.50"},
		{name: "year long stay odd rate", rate: "123.45", nights: 365, expected: "45059.25"},
		{name: "free room", rate: "0", nights: 3, expected: "0.00"},
		{name: "zero nights", rate: "100.00", nights: 0, wantErr: pricing.ErrInvalidRange},
		{name: "reversed range", rate: "100.00", nights: -1, wantErr: pricing.ErrInvalidRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, err := pricing.Price(decimal.RequireFromString(tt.rate), checkIn, checkIn.AddDate(0, 0, tt.nights))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, total.StringFixed(2))
		})
	}
}

func TestPrice_MatchesRepeatedAddition(t *testing.T) {
	checkIn := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rate := decimal.RequireFromString("33.33")

	sum := decimal.Zero
	for nights := 1; nights <= 365; nights++ {
		sum = sum.Add(rate)

		total, err := pricing.Price(rate, checkIn, checkIn.AddDate(0, 0, nights))
		assert.NoError(t, err)
		assert.True(t, sum.Equal(total), "nights=%d sum=%s total=%s", nights, sum, total)
	}
}
