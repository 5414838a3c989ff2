package model_test

import (
	"testing"
	"time"

	"hotel/internal/domains/booking/model"

	"github.com/stretchr/testify/assert"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     model.Status
		to       model.Status
		expected bool
	}{
		{from: model.StatusPending, to: model.StatusConfirmed, expected: true},
		{from: model.StatusPending, to: model.StatusCancelled, expected: true},
		{from: model.StatusPending, to: model.StatusCompleted, expected: false},
		{from: model.StatusConfirmed, to: model.StatusCancelled, expected: true},
		{from: model.StatusConfirmed, to: model.StatusCompleted, expected: true},
		{from: model.StatusConfirmed, to: model.StatusPending, expected: false},
		{from: model.StatusCancelled, to: model.StatusConfirmed, expected: false},
		{from: model.StatusCancelled, to: model.StatusCancelled, expected: false},
		{from: model.StatusCompleted, to: model.StatusCancelled, expected: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatus_Flags(t *testing.T) {
	assert.True(t, model.StatusPending.IsBlocking())
	assert.True(t, model.StatusConfirmed.IsBlocking())
	assert.False(t, model.StatusCancelled.IsBlocking())
	assert.False(t, model.StatusCompleted.IsBlocking())

	assert.True(t, model.StatusCancelled.IsTerminal())
	assert.True(t, model.StatusCompleted.IsTerminal())
	assert.False(t, model.StatusConfirmed.IsTerminal())
}

func TestParseStatus(t *testing.T) {
	status, err := model.ParseStatus("confirmed")
	assert.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, status)

	_, err = model.ParseStatus("archived")
	assert.Error(t, err)
}

func TestBooking_Derived(t *testing.T) {
	booking := model.Booking{CheckIn: date(2024, 6, 1), CheckOut: date(2024, 6, 5)}

	assert.Equal(t, 4, booking.Nights())

	// a stored time of day never shortens the stay
	late := model.Booking{CheckIn: date(2024, 6, 1).Add(23 * time.Hour), CheckOut: date(2024, 6, 5).Add(time.Hour)}
	assert.Equal(t, 4, late.Nights())

	tests := []struct {
		name     string
		today    time.Time
		upcoming bool
		active   bool
	}{
		{name: "before stay", today: date(2024, 5, 31), upcoming: true, active: false},
		{name: "check-in day", today: date(2024, 6, 1), upcoming: false, active: true},
		{name: "check-out day", today: date(2024, 6, 5), upcoming: false, active: true},
		{name: "after stay", today: date(2024, 6, 6), upcoming: false, active: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.upcoming, booking.IsUpcoming(tt.today))
			assert.Equal(t, tt.active, booking.IsActive(tt.today))
		})
	}
}
