package pricing

import (
	"errors"
	"time"

	"hotel/shared/timezone"

	"github.com/shopspring/decimal"
)

var ErrInvalidRange = errors.New("stay must be at least one night")

// Nights counts the nights between two calendar dates.
func Nights(checkIn, checkOut time.Time) int {
	return timezone.DaysBetween(checkIn, checkOut)
}

// Price is nights times the nightly rate, exact in decimal arithmetic.
func Price(pricePerNight decimal.Decimal, checkIn, checkOut time.Time) (decimal.Decimal, error) {
	nights := Nights(checkIn, checkOut)
	if nights < 1 {
		return decimal.Zero, ErrInvalidRange
	}

	return pricePerNight.Mul(decimal.NewFromInt(int64(nights))), nil
}
