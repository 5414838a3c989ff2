// Package availability answers whether a room's calendar is free over a range of nights.
//
// Every range is half-open, [checkIn, checkOut): a stay ending on day D does not
// collide with a stay starting on day D.
package availability

import (
	"encoding/json"
	"slices"
	"time"

	"hotel/internal/domains/booking/model"
)

// Conflict is the part of an existing booking a rejected guest may see.
type Conflict struct {
	CheckIn       time.Time `json:"check_in"`
	CheckOut      time.Time `json:"check_out"`
	BookingNumber string    `json:"booking_number"`
}

// MarshalJSON renders both dates as YYYY-MM-DD.
func (c Conflict) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct { //nolint:wrapcheck
		CheckIn       string `json:"check_in"`
		CheckOut      string `json:"check_out"`
		BookingNumber string `json:"booking_number"`
	}{
		CheckIn:       c.CheckIn.Format(time.DateOnly),
		CheckOut:      c.CheckOut.Format(time.DateOnly),
		BookingNumber: c.BookingNumber,
	})
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) share at least one night.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Conflicts returns the blocking bookings overlapping the range, ordered by check-in.
// The booking with excludeID is skipped so an edit never collides with itself.
func Conflicts(bookings []model.Booking, checkIn, checkOut time.Time, excludeID string) []model.Booking {
	var conflicts []model.Booking

	for _, booking := range bookings {
		if excludeID != "" && booking.ID == excludeID {
			continue
		}

		if !booking.Status.IsBlocking() {
			continue
		}

		if Overlaps(booking.CheckIn, booking.CheckOut, checkIn, checkOut) {
			conflicts = append(conflicts, booking)
		}
	}

	sortByCheckIn(conflicts)

	return conflicts
}

func IsFree(bookings []model.Booking, checkIn, checkOut time.Time, excludeID string) bool {
	return len(Conflicts(bookings, checkIn, checkOut, excludeID)) == 0
}

func Summaries(bookings []model.Booking) []Conflict {
	summaries := make([]Conflict, 0, len(bookings))

	for _, booking := range bookings {
		summaries = append(summaries, Conflict{
			CheckIn:       booking.CheckIn,
			CheckOut:      booking.CheckOut,
			BookingNumber: booking.BookingNumber,
		})
	}

	return summaries
}

// UnavailableDates lists every night of each blocking booking intersecting [windowStart, windowEnd),
// sorted and without repeats. A booking straddling a window edge contributes all of its nights.
func UnavailableDates(bookings []model.Booking, windowStart, windowEnd time.Time) []time.Time {
	seen := make(map[time.Time]struct{})
	dates := []time.Time{}

	for _, booking := range bookings {
		if !booking.Status.IsBlocking() || !Overlaps(booking.CheckIn, booking.CheckOut, windowStart, windowEnd) {
			continue
		}

		for day := booking.CheckIn; day.Before(booking.CheckOut); day = day.AddDate(0, 0, 1) {
			if _, ok := seen[day]; ok {
				continue
			}

			seen[day] = struct{}{}
			dates = append(dates, day)
		}
	}

	slices.SortFunc(dates, func(a, b time.Time) int {
		return a.Compare(b)
	})

	return dates
}

func sortByCheckIn(bookings []model.Booking) {
	slices.SortStableFunc(bookings, func(a, b model.Booking) int {
		return a.CheckIn.Compare(b.CheckIn)
	})
}
