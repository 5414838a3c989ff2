package dto

import (
	"time"

	"hotel/internal/domains/booking/model"
	roomModel "hotel/internal/domains/room/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/timezone"

	"github.com/shopspring/decimal"
)

// CreateBookingRequest is validated for shape only. Guest count and date rules belong to admission.
type CreateBookingRequest struct {
	RoomID          string `json:"room_id"          validate:"required"`
	GuestName       string `json:"guest_name"       validate:"required,max=100"`
	GuestEmail      string `json:"guest_email"      validate:"required,email,max=100"`
	GuestPhone      string `json:"guest_phone"      validate:"omitempty,max=20"`
	Guests          int    `json:"guests"`
	CheckIn         string `json:"check_in"         validate:"required,dateonly"     example:"2024-06-01"`
	CheckOut        string `json:"check_out"        validate:"required,dateonly"     example:"2024-06-05"`
	SpecialRequests string `json:"special_requests" validate:"omitempty,max=2000"`
}

type UpdateBookingRequest struct {
	GuestName       *string `json:"guest_name"       validate:"omitempty,max=100"`
	GuestEmail      *string `json:"guest_email"      validate:"omitempty,email,max=100"`
	GuestPhone      *string `json:"guest_phone"      validate:"omitempty,max=20"`
	Guests          *int    `json:"guests"`
	CheckIn         *string `json:"check_in"         validate:"omitempty,dateonly"`
	CheckOut        *string `json:"check_out"        validate:"omitempty,dateonly"`
	SpecialRequests *string `json:"special_requests" validate:"omitempty,max=2000"`
}

func (u UpdateBookingRequest) IsEmpty() bool {
	return u == UpdateBookingRequest{}
}

// ChangesStay reports whether the update touches the fields admission rules apply to.
func (u UpdateBookingRequest) ChangesStay() bool {
	return u.CheckIn != nil || u.CheckOut != nil || u.Guests != nil
}

// ContactFields maps the non-stay fields to their columns.
func (u UpdateBookingRequest) ContactFields() map[string]any {
	fields := map[string]any{}

	if u.GuestName != nil {
		fields[model.FieldGuestName] = *u.GuestName
	}

	if u.GuestEmail != nil {
		fields[model.FieldGuestEmail] = *u.GuestEmail
	}

	if u.GuestPhone != nil {
		fields[model.FieldGuestPhone] = *u.GuestPhone
	}

	if u.SpecialRequests != nil {
		fields[model.FieldSpecialRequests] = *u.SpecialRequests
	}

	return fields
}

// BookingFilter holds the staff listing filters taken from the query string.
type BookingFilter struct {
	RoomID      string `validate:"omitempty,uuid"`
	Status      string `validate:"omitempty,oneof=pending confirmed cancelled completed"`
	GuestEmail  string `validate:"omitempty,email"`
	CheckInFrom string `validate:"omitempty,dateonly"`
	CheckInTo   string `validate:"omitempty,dateonly"`
}

type RoomSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RoomType string `json:"room_type"`
}

type BookingResponse struct {
	ID                    string          `json:"id"`
	BookingNumber         string          `json:"booking_number"`
	RoomID                string          `json:"room_id"`
	Room                  *RoomSummary    `json:"room,omitempty"`
	GuestName             string          `json:"guest_name"`
	GuestEmail            string          `json:"guest_email"`
	GuestPhone            string          `json:"guest_phone"`
	Guests                int             `json:"guests"`
	CheckIn               string          `json:"check_in"`
	CheckOut              string          `json:"check_out"`
	Nights                int             `json:"nights"`
	Status                string          `json:"status"`
	PaymentStatus         string          `json:"payment_status"`
	TotalPrice            decimal.Decimal `json:"total_price"             swaggertype:"string"`
	SpecialRequests       string          `json:"special_requests"`
	ConfirmationEmailSent bool            `json:"confirmation_email_sent"`
	InvoiceGenerated      bool            `json:"invoice_generated"`
	IsUpcoming            bool            `json:"is_upcoming"`
	IsActive              bool            `json:"is_active"`
	gDto.Metadata
}

// FromModel fills the response, deriving the date flags against today.
func (r *BookingResponse) FromModel(model model.Booking, today time.Time) {
	r.ID = model.ID
	r.BookingNumber = model.BookingNumber
	r.RoomID = model.RoomID
	r.GuestName = model.GuestName
	r.GuestEmail = model.GuestEmail
	r.GuestPhone = model.GuestPhone
	r.Guests = model.Guests
	r.CheckIn = timezone.FormatDate(model.CheckIn)
	r.CheckOut = timezone.FormatDate(model.CheckOut)
	r.Nights = model.Nights()
	r.Status = string(model.Status)
	r.PaymentStatus = string(model.PaymentStatus)
	r.TotalPrice = model.TotalPrice
	r.SpecialRequests = model.SpecialRequests
	r.ConfirmationEmailSent = model.ConfirmationEmailSent
	r.InvoiceGenerated = model.InvoiceGenerated
	r.IsUpcoming = model.IsUpcoming(today)
	r.IsActive = model.IsActive(today)
	r.Metadata.FromModel(model.Metadata)
}

func (r *BookingResponse) WithRoom(room roomModel.Room) {
	if room.ID == constant.Empty {
		return
	}

	r.Room = &RoomSummary{
		ID:       room.ID,
		Name:     room.Name,
		RoomType: string(room.RoomType),
	}
}

func FromModels(models []model.Booking, today time.Time) []BookingResponse {
	res := make([]BookingResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod, today)
	}

	return res
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int, today time.Time) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)
	r.Bookings = FromModels(models, today)
}

type BookedRange struct {
	BookingNumber string `json:"booking_number"`
	CheckIn       string `json:"check_in"`
	CheckOut      string `json:"check_out"`
	Status        string `json:"status"`
}

type AvailabilityResponse struct {
	RoomID               string        `json:"room_id"`
	RoomName             string        `json:"room_name"`
	StartDate            string        `json:"start_date"`
	EndDate              string        `json:"end_date"`
	UnavailableDates     []string      `json:"unavailable_dates"`
	Bookings             []BookedRange `json:"bookings"`
	TotalUnavailableDays int           `json:"total_unavailable_days"`
}

func (r *AvailabilityResponse) FromModels(room roomModel.Room, start, end time.Time, bookings []model.Booking, unavailable []time.Time) {
	r.RoomID = room.ID
	r.RoomName = room.Name
	r.StartDate = timezone.FormatDate(start)
	r.EndDate = timezone.FormatDate(end)

	r.UnavailableDates = make([]string, len(unavailable))
	for i, date := range unavailable {
		r.UnavailableDates[i] = timezone.FormatDate(date)
	}

	r.TotalUnavailableDays = len(unavailable)

	r.Bookings = make([]BookedRange, len(bookings))
	for i, booking := range bookings {
		r.Bookings[i] = BookedRange{
			BookingNumber: booking.BookingNumber,
			CheckIn:       timezone.FormatDate(booking.CheckIn),
			CheckOut:      timezone.FormatDate(booking.CheckOut),
			Status:        string(booking.Status),
		}
	}
}

type InvoiceResponse struct {
	FileName string `json:"file_name"`
	URL      string `json:"url,omitempty"`
	Content  []byte `json:"-"`
}
