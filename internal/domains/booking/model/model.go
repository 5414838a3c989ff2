package model

import (
	"fmt"
	"time"

	"hotel/shared/constant"
	"hotel/shared/model"
	"hotel/shared/timezone"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID                    = "id"
	FieldBookingNumber         = "booking_number"
	FieldRoomID                = "room_id"
	FieldGuestName             = "guest_name"
	FieldGuestEmail            = "guest_email"
	FieldGuestPhone            = "guest_phone"
	FieldGuests                = "guests"
	FieldCheckIn               = "check_in"
	FieldCheckOut              = "check_out"
	FieldStatus                = "status"
	FieldPaymentStatus         = "payment_status"
	FieldTotalPrice            = "total_price"
	FieldSpecialRequests       = "special_requests"
	FieldConfirmationEmailSent = "confirmation_email_sent"
	FieldInvoiceGenerated      = "invoice_generated"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

var validTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
	StatusCancelled: {},
	StatusCompleted: {},
}

// BlockingStatuses are the statuses that occupy a room's calendar.
var BlockingStatuses = []Status{StatusPending, StatusConfirmed}

func ParseStatus(value string) (Status, error) {
	status := Status(value)
	if _, ok := validTransitions[status]; !ok {
		return constant.Empty, fmt.Errorf("invalid booking status %q", value)
	}

	return status, nil
}

func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == target {
			return true
		}
	}

	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

func (s Status) IsBlocking() bool {
	return s == StatusPending || s == StatusConfirmed
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Booking is a reserved stay. CheckIn and CheckOut are calendar dates stored as UTC midnight.
type Booking struct {
	ID                    string          `db:"id"`
	BookingNumber         string          `db:"booking_number"`
	RoomID                string          `db:"room_id"`
	GuestName             string          `db:"guest_name"`
	GuestEmail            string          `db:"guest_email"`
	GuestPhone            string          `db:"guest_phone"`
	Guests                int             `db:"guests"`
	CheckIn               time.Time       `db:"check_in"`
	CheckOut              time.Time       `db:"check_out"`
	Status                Status          `db:"status"`
	PaymentStatus         PaymentStatus   `db:"payment_status"`
	TotalPrice            decimal.Decimal `db:"total_price"`
	SpecialRequests       string          `db:"special_requests"`
	ConfirmationEmailSent bool            `db:"confirmation_email_sent"`
	InvoiceGenerated      bool            `db:"invoice_generated"`
	model.Metadata
}

// Nights is the stay length in whole days.
func (b Booking) Nights() int {
	return timezone.DaysBetween(b.CheckIn, b.CheckOut)
}

func (b Booking) IsUpcoming(today time.Time) bool {
	return b.CheckIn.After(today)
}

func (b Booking) IsActive(today time.Time) bool {
	return !b.CheckIn.After(today) && !today.After(b.CheckOut)
}
