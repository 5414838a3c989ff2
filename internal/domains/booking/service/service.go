package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"hotel/config"
	"hotel/infras/otel"
	"hotel/infras/s3"
	"hotel/internal/domains/booking/events"
	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/booking/model/dto"
	"hotel/internal/domains/booking/number"
	"hotel/internal/domains/booking/repository"
	"hotel/internal/domains/notification"
	roomModel "hotel/internal/domains/room/model"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking   = "booking:get"
	cacheAvailability = "booking:availability"
	cacheGeneration   = "booking:generation"

	defaultMinGuests        = 1
	defaultMaxGuests        = 6
	defaultNumberAttempts   = 5
	defaultAvailabilityDays = 90
	flagWriteAttempts       = 3

	invoiceDirectory      = "invoices"
	invoiceFileNameFormat = "invoice_%s.txt"
)

const (
	msgRoomNotFound          = "room not found"
	msgUpdateEmpty           = "update request cannot be empty"
	msgConcurrentModified    = "booking was modified by another request, please retry"
	msgConfirmationNotSent   = "failed to send booking confirmation"
	msgInvoiceNotGenerated   = "failed to generate invoice"
	msgGuestEmailRequired    = "guest email is required"
	msgInvalidDateParameter  = "dates must be formatted as YYYY-MM-DD"
	msgBookingNotInvoiceable = "cancelled bookings cannot be invoiced"
)

// RoomCatalog resolves the room a booking refers to. Unknown rooms are a not_found failure.
type RoomCatalog interface {
	Lookup(ctx context.Context, id string) (roomModel.Room, error)
}

type Booking interface {
	// Admit validates a stay request and stores it as a confirmed booking.
	Admit(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateBookingRequest) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string) (dto.BookingResponse, error)
	Complete(ctx context.Context, id string) (dto.BookingResponse, error)

	MarkConfirmationSent(ctx context.Context, id string) error
	MarkInvoiceGenerated(ctx context.Context, id string) error
	ResendConfirmation(ctx context.Context, id string) error
	// DeliverConfirmation is the event driven variant of ResendConfirmation. It skips bookings already notified.
	DeliverConfirmation(ctx context.Context, id string) error
	GenerateInvoice(ctx context.Context, id string) (dto.InvoiceResponse, error)

	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetByNumber(ctx context.Context, bookingNumber string) (dto.BookingResponse, error)
	FindByEmail(ctx context.Context, email string) ([]dto.BookingResponse, error)
	Upcoming(ctx context.Context) ([]dto.BookingResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter dto.BookingFilter) (dto.GetBookingsResponse, error)
	RoomAvailability(ctx context.Context, roomID, startDate, endDate string) (dto.AvailabilityResponse, error)
}

type policy struct {
	minGuests      int
	maxGuests      int
	numberAttempts int
	windowDays     int
}

func newPolicy(cfg *config.Config) policy {
	p := policy{
		minGuests:      cfg.Booking.MinGuests,
		maxGuests:      cfg.Booking.MaxGuests,
		numberAttempts: cfg.Booking.NumberMaxAttempts,
		windowDays:     cfg.Booking.AvailabilityWindowDays,
	}

	if p.minGuests <= 0 {
		p.minGuests = defaultMinGuests
	}

	if p.maxGuests < p.minGuests {
		p.maxGuests = max(defaultMaxGuests, p.minGuests)
	}

	if p.numberAttempts <= 0 {
		p.numberAttempts = defaultNumberAttempts
	}

	if p.windowDays <= 0 {
		p.windowDays = defaultAvailabilityDays
	}

	return p
}

type serviceImpl struct {
	repo      repository.Booking
	rooms     RoomCatalog
	notifier  notification.Notifier
	publisher events.Publisher
	cfg       *config.Config
	cache     cache.RedisCache
	s3        s3.S3
	otel      otel.Otel
	clock     timezone.Clock
	numbers   number.Generator
	policy    policy
}

func New(
	repo repository.Booking,
	rooms RoomCatalog,
	notifier notification.Notifier,
	publisher events.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	s3 s3.S3,
	otel otel.Otel,
	clock timezone.Clock,
	numbers number.Generator,
) Booking {
	return &serviceImpl{
		repo:      repo,
		rooms:     rooms,
		notifier:  notifier,
		publisher: publisher,
		cfg:       cfg,
		cache:     cache,
		s3:        s3,
		otel:      otel,
		clock:     clock,
		numbers:   numbers,
		policy:    newPolicy(cfg),
	}
}

// load reads a booking by id. Malformed ids and missing rows are both not_found.
func (s *serviceImpl) load(ctx context.Context, id string) (model.Booking, error) {
	if _, err := uuid.Parse(id); err != nil {
		return model.Booking{}, failure.NotFound(msgBookingNotFound)
	}

	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to get booking")

		return booking, failure.Store(fmt.Errorf("failed to get booking: %w", err))
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound(msgBookingNotFound)
	}

	return booking, nil
}

// storeFailure keeps user facing failures raised under the room lock and wraps everything else as a store error.
func storeFailure(err error, action string) error {
	var fail *failure.Failure
	if errors.As(err, &fail) {
		return fail
	}

	if errors.Is(err, repository.ErrRoomMissing) {
		return failure.NotFound(msgRoomNotFound)
	}

	log.Error().Err(err).Msgf("failed to %s", action)

	return failure.Store(fmt.Errorf("failed to %s: %w", action, err))
}

// afterWrite retires the read caches a booking write makes stale and announces the change.
// Neither step can fail the write that already committed.
func (s *serviceImpl) afterWrite(ctx context.Context, booking model.Booking, eventKey string) {
	c := context.WithoutCancel(ctx)

	s.rotateGeneration(c, booking.ID)
	s.rotateGeneration(c, booking.RoomID)

	if eventKey == constant.Empty {
		return
	}

	event := events.NewBookingEvent(eventKey, booking, s.clock.Now())

	go func() {
		if err := s.publisher.Publish(c, event); err != nil {
			log.Error().Err(err).
				Str("event", eventKey).
				Str("booking_number", booking.BookingNumber).
				Msg("failed to publish booking event")
		}
	}()
}

// generation returns the token the read caches of a booking or room are keyed on. A missing token is
// created before the caller reads the store, so an entry filled from a read that raced a write is saved
// under a token the write has already replaced. ok is false when the cache is unreachable.
func (s *serviceImpl) generation(ctx context.Context, id string) (token string, ok bool) {
	key := shared.BuildCacheKey(cacheGeneration, id)

	err := s.cache.Get(ctx, key, &token)
	if err == nil && token != constant.Empty {
		return token, true
	}

	if err != nil && !errors.Is(err, cache.Nil) {
		log.Warn().Err(err).Str("key", key).Msg("cache generation unavailable")

		return constant.Empty, false
	}

	token = uuid.NewString()
	if err = s.cache.Save(ctx, key, token, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to save cache generation")

		return constant.Empty, false
	}

	return token, true
}

// rotateGeneration orphans every cache entry keyed on the previous token of id.
func (s *serviceImpl) rotateGeneration(ctx context.Context, id string) {
	key := shared.BuildCacheKey(cacheGeneration, id)

	if err := s.cache.Save(ctx, key, uuid.NewString(), s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to rotate cache generation")

		if err = s.cache.Delete(ctx, key); err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to drop cache generation")
		}
	}
}

func (s *serviceImpl) response(booking model.Booking) dto.BookingResponse {
	var res dto.BookingResponse
	res.FromModel(booking, timezone.Today(s.clock))

	return res
}

func (s *serviceImpl) withRoom(ctx context.Context, res dto.BookingResponse) dto.BookingResponse {
	room, err := s.rooms.Lookup(ctx, res.RoomID)
	if err != nil {
		log.Warn().Err(err).Str("room_id", res.RoomID).Msg("booking room summary unavailable")

		return res
	}

	res.WithRoom(room)

	return res
}
