// Package notification renders guest facing booking documents and hands them to a mail transport.
package notification

//go:generate go run go.uber.org/mock/mockgen -source=./notification.go -destination=./mocks/notification_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"hotel/config"
	"hotel/infras/otel"
	bookingModel "hotel/internal/domains/booking/model"
	roomModel "hotel/internal/domains/room/model"
	"hotel/shared/constant"
	"hotel/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	otelScopeName = "notification"

	subjectConfirmation = "Confirmação de Reserva - %s #%s"
	guestDateFormat     = "02/01/2006"
)

type Notifier interface {
	SendBookingConfirmation(ctx context.Context, booking bookingModel.Booking, room roomModel.Room) error
	GenerateInvoiceDocument(ctx context.Context, booking bookingModel.Booking, room roomModel.Room) ([]byte, error)
}

type hotel struct {
	Name    string
	Address string
	Phone   string
}

type document struct {
	Hotel    hotel
	Booking  bookingModel.Booking
	Room     roomModel.Room
	CheckIn  string
	CheckOut string
	Nights   int
	Currency string
	Rate     string
	Total    string
	IssuedAt string
}

type notifierImpl struct {
	cfg    *config.Config
	mailer Mailer
	otel   otel.Otel
	clock  timezone.Clock
}

func New(cfg *config.Config, mailer Mailer, otel otel.Otel, clock timezone.Clock) Notifier {
	return &notifierImpl{
		cfg:    cfg,
		mailer: mailer,
		otel:   otel,
		clock:  clock,
	}
}

func (n *notifierImpl) SendBookingConfirmation(ctx context.Context, booking bookingModel.Booking, room roomModel.Room) (err error) {
	ctx, scope := n.otel.NewScope(ctx, otelScopeName, otelScopeName+".SendBookingConfirmation")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if booking.GuestEmail == constant.Empty {
		return fmt.Errorf("booking %s has no guest email", booking.BookingNumber)
	}

	body, err := n.render(confirmationTemplate, booking, room)
	if err != nil {
		return err
	}

	msg := Message{
		From:    n.cfg.Notification.FromEmail,
		To:      booking.GuestEmail,
		Subject: fmt.Sprintf(subjectConfirmation, n.hotelName(), booking.BookingNumber),
		Body:    string(body),
	}

	if err = n.mailer.Send(ctx, msg); err != nil {
		log.Error().Err(err).Str("booking_number", booking.BookingNumber).Msg("failed to send booking confirmation")

		return fmt.Errorf("failed to send booking confirmation: %w", err)
	}

	return nil
}

func (n *notifierImpl) GenerateInvoiceDocument(ctx context.Context, booking bookingModel.Booking, room roomModel.Room) (doc []byte, err error) {
	_, scope := n.otel.NewScope(ctx, otelScopeName, otelScopeName+".GenerateInvoiceDocument")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return n.render(invoiceTemplate, booking, room)
}

func (n *notifierImpl) render(tmpl *template.Template, booking bookingModel.Booking, room roomModel.Room) ([]byte, error) {
	data := document{
		Hotel: hotel{
			Name:    n.hotelName(),
			Address: n.cfg.Notification.HotelAddress,
			Phone:   n.cfg.Notification.HotelPhone,
		},
		Booking:  booking,
		Room:     room,
		CheckIn:  booking.CheckIn.Format(guestDateFormat),
		CheckOut: booking.CheckOut.Format(guestDateFormat),
		Nights:   booking.Nights(),
		Currency: n.cfg.Notification.Currency,
		Rate:     room.PricePerNight.StringFixed(2),
		Total:    booking.TotalPrice.StringFixed(2),
		IssuedAt: timezone.Today(n.clock).Format(guestDateFormat),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		log.Error().Err(err).Str("template", tmpl.Name()).Msg("failed to render booking document")

		return nil, fmt.Errorf("failed to render %s: %w", tmpl.Name(), err)
	}

	return buf.Bytes(), nil
}

func (n *notifierImpl) hotelName() string {
	if n.cfg.Notification.HotelName == constant.Empty {
		return "Hotel Jan"
	}

	return n.cfg.Notification.HotelName
}
