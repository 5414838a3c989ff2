package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel/internal/domains/booking/availability"
	"hotel/internal/domains/booking/events"
	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/booking/model/dto"
	"hotel/internal/domains/booking/pricing"
	"hotel/internal/domains/booking/repository"
	"hotel/shared"
	"hotel/shared/constant"
	"hotel/shared/failure"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// rejectOverlap is the admit step run under the room lock: any blocking booking in range refuses the write.
func rejectOverlap(active []model.Booking) error {
	if len(active) == 0 {
		return nil
	}

	return errOverlap(availability.Summaries(active))
}

// checkStay applies the stay rules in order and stops at the first one broken.
// The past-date rule is skipped for edits that keep the stored check-in.
func (s *serviceImpl) checkStay(today, checkIn, checkOut time.Time, guests int, checkPast bool) error {
	if checkPast && checkIn.Before(today) {
		return errPastDate(timezone.FormatDate(checkIn))
	}

	if !checkIn.Before(checkOut) {
		return errDateOrder(timezone.FormatDate(checkIn), timezone.FormatDate(checkOut))
	}

	if nights := pricing.Nights(checkIn, checkOut); nights < 1 {
		return errMinimumStay(nights)
	}

	if guests < s.policy.minGuests || guests > s.policy.maxGuests {
		return errGuestCount(guests, s.policy.minGuests, s.policy.maxGuests)
	}

	return nil
}

func parseDate(value string) (time.Time, error) {
	date, err := timezone.ParseDate(value)
	if err != nil {
		return date, failure.BadRequestFromString(msgInvalidDateParameter)
	}

	return date, nil
}

func (s *serviceImpl) Admit(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Admit")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		return res, err
	}

	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		return res, err
	}

	today := timezone.Today(s.clock)

	if err = s.checkStay(today, checkIn, checkOut, req.Guests, true); err != nil {
		return res, err
	}

	room, err := s.rooms.Lookup(ctx, req.RoomID)
	if err != nil {
		return res, err
	}

	total, err := pricing.Price(room.PricePerNight, checkIn, checkOut)
	if err != nil {
		return res, errMinimumStay(pricing.Nights(checkIn, checkOut))
	}

	booking := model.Booking{
		ID:              uuid.NewString(),
		RoomID:          room.ID,
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		GuestPhone:      req.GuestPhone,
		Guests:          req.Guests,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Status:          model.StatusConfirmed,
		PaymentStatus:   model.PaymentPending,
		TotalPrice:      total,
		SpecialRequests: req.SpecialRequests,
		Metadata:        gModel.NewMetadata(s.clock.Now(), shared.ActorFromContext(ctx)),
	}

	if booking, err = s.insert(ctx, booking, today); err != nil {
		return res, err
	}

	log.Info().
		Str("booking_number", booking.BookingNumber).
		Str("room_id", booking.RoomID).
		Str("check_in", req.CheckIn).
		Str("check_out", req.CheckOut).
		Msg("booking admitted")

	s.afterWrite(ctx, booking, events.KeyBookingCreated)

	res = s.response(booking)
	res.WithRoom(room)

	return res, nil
}

// insert allocates a booking number and stores the booking, drawing a fresh number each time the store
// reports the previous one as taken.
func (s *serviceImpl) insert(ctx context.Context, booking model.Booking, today time.Time) (model.Booking, error) {
	for attempt := 1; attempt <= s.policy.numberAttempts; attempt++ {
		bookingNumber, err := s.numbers.Next(today)
		if err != nil {
			log.Error().Err(err).Msg("failed to generate booking number")

			return booking, failure.InternalError(fmt.Errorf("failed to generate booking number: %w", err))
		}

		booking.BookingNumber = bookingNumber

		err = s.repo.InsertExclusive(ctx, booking, rejectOverlap)
		if err == nil {
			return booking, nil
		}

		if !errors.Is(err, repository.ErrDuplicateNumber) {
			return booking, storeFailure(err, "create booking")
		}

		log.Warn().Str("booking_number", bookingNumber).Int("attempt", attempt).Msg("booking number collision, retrying")
	}

	return booking, errIdentifierExhaustion(s.policy.numberAttempts)
}

func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.IsEmpty() {
		return res, failure.BadRequestFromString(msgUpdateEmpty)
	}

	current, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if current.Status.IsTerminal() {
		return res, errNotEditable(current.Status)
	}

	target := current
	fields := req.ContactFields()

	if req.ChangesStay() {
		if target, err = s.resultingStay(current, req); err != nil {
			return res, err
		}

		checkPast := !target.CheckIn.Equal(current.CheckIn)
		if err = s.checkStay(timezone.Today(s.clock), target.CheckIn, target.CheckOut, target.Guests, checkPast); err != nil {
			return res, err
		}

		fields[model.FieldCheckIn] = target.CheckIn
		fields[model.FieldCheckOut] = target.CheckOut
		fields[model.FieldGuests] = target.Guests
	}

	now := s.clock.Now()
	actor := shared.ActorFromContext(ctx)
	fields[constant.FieldModifiedAt] = now
	fields[constant.FieldModifiedBy] = actor

	var applied bool
	if req.ChangesStay() {
		applied, err = s.repo.UpdateExclusive(ctx, target, fields, rejectOverlap)
	} else {
		applied, err = s.repo.UpdateFields(ctx, id, current.Status, fields)
	}

	if err != nil {
		return res, storeFailure(err, "update booking")
	}

	if !applied {
		return res, failure.Conflict(msgConcurrentModified)
	}

	updated, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	s.afterWrite(ctx, updated, constant.Empty)

	return s.response(updated), nil
}

// resultingStay overlays the requested stay fields on the stored booking.
func (s *serviceImpl) resultingStay(current model.Booking, req dto.UpdateBookingRequest) (model.Booking, error) {
	target := current

	if req.CheckIn != nil {
		checkIn, err := parseDate(*req.CheckIn)
		if err != nil {
			return target, err
		}

		target.CheckIn = checkIn
	}

	if req.CheckOut != nil {
		checkOut, err := parseDate(*req.CheckOut)
		if err != nil {
			return target, err
		}

		target.CheckOut = checkOut
	}

	if req.Guests != nil {
		target.Guests = *req.Guests
	}

	return target, nil
}
