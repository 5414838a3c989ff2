package service

import (
	"context"
	"fmt"

	"hotel/internal/domains/booking/availability"
	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/booking/model/dto"
	"hotel/internal/domains/booking/number"
	"hotel/internal/domains/booking/repository"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/timezone"

	"github.com/rs/zerolog/log"
)

// Get caches the stored booking rather than the response so is_upcoming and is_active are derived on every read.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	generation, cacheable := s.generation(ctx, id)
	cacheKey := shared.BuildCacheKey(cacheGetBooking, id, generation)

	var booking model.Booking
	if cacheable {
		if err = s.cache.Get(ctx, cacheKey, &booking); err == nil {
			log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for booking")

			return s.withRoom(ctx, s.response(booking)), nil
		}
	}

	if booking, err = s.load(ctx, id); err != nil {
		return res, err
	}

	if cacheable {
		go func() {
			c := context.WithoutCancel(ctx)

			if err := s.cache.Save(c, cacheKey, booking, s.cfg.Cache.TTL); err != nil {
				log.Error().Err(err).Msg("failed to save booking to cache")
			}
		}()
	}

	return s.withRoom(ctx, s.response(booking)), nil
}

func (s *serviceImpl) GetByNumber(ctx context.Context, bookingNumber string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetByNumber")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !number.Valid(bookingNumber) {
		return res, failure.NotFound(msgBookingNotFound)
	}

	booking, err := s.repo.GetByNumber(ctx, bookingNumber)
	if err != nil {
		log.Error().Err(err).Str("booking_number", bookingNumber).Msg("failed to get booking by number")

		return res, failure.Store(fmt.Errorf("failed to get booking by number: %w", err))
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound(msgBookingNotFound)
	}

	return s.withRoom(ctx, s.response(booking)), nil
}

func (s *serviceImpl) FindByEmail(ctx context.Context, email string) (res []dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.FindByEmail")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if email == constant.Empty {
		return res, failure.BadRequestFromString(msgGuestEmailRequired)
	}

	models, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		log.Error().Err(err).Msg("failed to find bookings by email")

		return res, failure.Store(fmt.Errorf("failed to find bookings by email: %w", err))
	}

	return dto.FromModels(models, timezone.Today(s.clock)), nil
}

func (s *serviceImpl) Upcoming(ctx context.Context) (res []dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Upcoming")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	today := timezone.Today(s.clock)

	models, err := s.repo.FindUpcoming(ctx, today)
	if err != nil {
		log.Error().Err(err).Msg("failed to get upcoming bookings")

		return res, failure.Store(fmt.Errorf("failed to get upcoming bookings: %w", err))
	}

	return dto.FromModels(models, today), nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter dto.BookingFilter) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	criteria, err := toCriteria(filter)
	if err != nil {
		return res, err
	}

	total, err := s.repo.Count(ctx, criteria)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, failure.Store(fmt.Errorf("failed to count bookings: %w", err))
	}

	models, err := s.repo.List(ctx, params, criteria)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, failure.Store(fmt.Errorf("failed to get bookings: %w", err))
	}

	res.FromModels(models, total, params.Limit, timezone.Today(s.clock))

	return res, nil
}

func toCriteria(filter dto.BookingFilter) (criteria repository.Criteria, err error) {
	criteria.RoomID = filter.RoomID
	criteria.GuestEmail = filter.GuestEmail

	if filter.Status != constant.Empty {
		if criteria.Status, err = model.ParseStatus(filter.Status); err != nil {
			return criteria, failure.BadRequest(err)
		}
	}

	if filter.CheckInFrom != constant.Empty {
		if criteria.CheckInFrom, err = parseDate(filter.CheckInFrom); err != nil {
			return criteria, err
		}
	}

	if filter.CheckInTo != constant.Empty {
		if criteria.CheckInTo, err = parseDate(filter.CheckInTo); err != nil {
			return criteria, err
		}
	}

	return criteria, nil
}

// RoomAvailability reports the occupied nights of a room inside [start, end). Missing bounds default to
// today and today plus the availability window.
func (s *serviceImpl) RoomAvailability(ctx context.Context, roomID, startDate, endDate string) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.RoomAvailability")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	room, err := s.rooms.Lookup(ctx, roomID)
	if err != nil {
		return res, err
	}

	start := timezone.Today(s.clock)
	if startDate != constant.Empty {
		if start, err = parseDate(startDate); err != nil {
			return res, err
		}
	}

	end := timezone.AddDays(start, s.policy.windowDays)
	if endDate != constant.Empty {
		if end, err = parseDate(endDate); err != nil {
			return res, err
		}
	}

	if !start.Before(end) {
		return res, errDateOrder(timezone.FormatDate(start), timezone.FormatDate(end))
	}

	generation, cacheable := s.generation(ctx, room.ID)
	cacheKey := shared.BuildCacheKey(cacheAvailability, room.ID, generation, timezone.FormatDate(start), timezone.FormatDate(end))

	if cacheable {
		if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
			return res, nil
		}
	}

	bookings, err := s.repo.FindOverlapping(ctx, room.ID, start, end, constant.Empty)
	if err != nil {
		log.Error().Err(err).Str("room_id", room.ID).Msg("failed to get room bookings")

		return res, failure.Store(fmt.Errorf("failed to get room bookings: %w", err))
	}

	res.FromModels(room, start, end, bookings, availability.UnavailableDates(bookings, start, end))

	if cacheable {
		go func() {
			c := context.WithoutCancel(ctx)

			if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
				log.Error().Err(err).Msg("failed to save room availability to cache")
			}
		}()
	}

	return res, nil
}
