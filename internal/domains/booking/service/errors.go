package service

import (
	"fmt"
	"net/http"

	"hotel/internal/domains/booking/availability"
	"hotel/internal/domains/booking/model"
	"hotel/shared/failure"
)

const (
	KindPastDate             = "past_date"
	KindDateOrder            = "date_order"
	KindMinimumStay          = "minimum_stay"
	KindGuestCount           = "guest_count"
	KindOverlap              = "overlap"
	KindIdentifierExhaustion = "identifier_exhaustion"
	KindAlreadyCancelled     = "already_cancelled"
	KindInvalidTransition    = "invalid_transition"

	msgBookingNotFound = "booking not found"
)

type fieldDetail struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

type guestRangeDetail struct {
	Field string `json:"field"`
	Value int    `json:"value"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
}

func errPastDate(checkIn string) error {
	return failure.New(http.StatusBadRequest, KindPastDate, "check-in date cannot be in the past",
		fieldDetail{Field: "check_in", Value: checkIn})
}

func errDateOrder(checkIn, checkOut string) error {
	return failure.New(http.StatusBadRequest, KindDateOrder, "check-out date must be after check-in date",
		map[string]string{"check_in": checkIn, "check_out": checkOut})
}

func errMinimumStay(nights int) error {
	return failure.New(http.StatusBadRequest, KindMinimumStay, "stay must be at least one night",
		fieldDetail{Field: "nights", Value: nights})
}

func errGuestCount(guests, minGuests, maxGuests int) error {
	return failure.New(http.StatusBadRequest, KindGuestCount,
		fmt.Sprintf("guests must be between %d and %d", minGuests, maxGuests),
		guestRangeDetail{Field: "guests", Value: guests, Min: minGuests, Max: maxGuests})
}

func errOverlap(conflicts []availability.Conflict) error {
	return failure.New(http.StatusConflict, KindOverlap, "room is not available for the selected dates", conflicts)
}

func errIdentifierExhaustion(attempts int) error {
	return failure.New(http.StatusServiceUnavailable, KindIdentifierExhaustion,
		fmt.Sprintf("could not allocate a unique booking number after %d attempts", attempts), nil)
}

func errAlreadyCancelled(bookingNumber string) error {
	return failure.New(http.StatusBadRequest, KindAlreadyCancelled, "booking is already cancelled",
		fieldDetail{Field: "booking_number", Value: bookingNumber})
}

func errInvalidTransition(from, to string) error {
	return failure.New(http.StatusConflict, KindInvalidTransition,
		fmt.Sprintf("booking cannot move from %s to %s", from, to),
		map[string]string{"from": from, "to": to})
}

func errNotEditable(status model.Status) error {
	return failure.New(http.StatusConflict, KindInvalidTransition,
		fmt.Sprintf("%s bookings cannot be modified", status),
		map[string]string{"status": string(status)})
}
