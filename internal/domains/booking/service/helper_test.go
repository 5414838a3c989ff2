package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"hotel/config"
	"hotel/infras/otel/mocks"
	s3Mocks "hotel/infras/s3/mocks"
	"hotel/internal/domains/booking/events"
	"hotel/internal/domains/booking/model/dto"
	"hotel/internal/domains/booking/number"
	"hotel/internal/domains/booking/repository"
	"hotel/internal/domains/booking/service"
	notificationMocks "hotel/internal/domains/notification/mocks"
	roomModel "hotel/internal/domains/room/model"
	"hotel/shared/cache"
	cacheMocks "hotel/shared/cache/mocks"
	"hotel/shared/failure"
	"hotel/shared/timezone"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	roomID        = "0b6f4f3e-3f55-4b8a-9d2c-6a1f2b7c9e10"
	suiteRoomID   = "5f0c3e2a-8d4b-4c1e-9a7f-2b6d8e1f3c40"
	missingRoomID = "9d8c7b6a-5e4f-4a3b-8c2d-1e0f9a8b7c6d"
	missingID     = "3c2b1a09-8f7e-4d6c-9b5a-4f3e2d1c0b9a"
)

type roomCatalog map[string]roomModel.Room

func (c roomCatalog) Lookup(_ context.Context, id string) (roomModel.Room, error) {
	room, ok := c[id]
	if !ok {
		return room, failure.NotFound("room not found")
	}

	return room, nil
}

type recordingPublisher struct {
	published chan events.BookingEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event events.BookingEvent) error {
	select {
	case p.published <- event:
	default:
	}

	return nil
}

func (p *recordingPublisher) next(t *testing.T) events.BookingEvent {
	t.Helper()

	select {
	case event := <-p.published:
		return event
	case <-time.After(time.Second):
		t.Fatal("no booking event published")
	}

	return events.BookingEvent{}
}

type bookingSuite struct {
	mu  sync.Mutex
	now time.Time

	cfg       *config.Config
	store     *repository.Memory
	repo      repository.Booking
	numbers   number.Generator
	rooms     roomCatalog
	notifier  *notificationMocks.MockNotifier
	s3        *s3Mocks.MockS3
	publisher *recordingPublisher
	cache     *cacheMocks.MockRedisCache
	redis     cache.RedisCache
	svc       service.Booking
}

// newBookingSuite wires the service on the in-memory store with today fixed at 2024-05-20.
func newBookingSuite(t *testing.T) *bookingSuite {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.External.S3.BucketName = "hotel"

	rooms := roomCatalog{
		roomID: {
			ID:            roomID,
			Name:          "Garden Standard",
			RoomType:      roomModel.RoomTypeStandard,
			PricePerNight: decimal.RequireFromString("100.00"),
			Active:        true,
		},
		suiteRoomID: {
			ID:            suiteRoomID,
			Name:          "Ocean Suite",
			RoomType:      roomModel.RoomTypeSuite,
			PricePerNight: decimal.RequireFromString("250.00"),
			Active:        true,
		},
	}

	roomExists := func(id string) bool {
		_, ok := rooms[id]

		return ok
	}

	s := &bookingSuite{
		now:       time.Date(2024, 5, 20, 10, 30, 0, 0, time.UTC),
		cfg:       cfg,
		store:     repository.NewMemory(roomExists),
		numbers:   number.NewGenerator(number.DefaultPrefix),
		rooms:     rooms,
		notifier:  notificationMocks.NewMockNotifier(ctrl),
		s3:        s3Mocks.NewMockS3(ctrl),
		publisher: &recordingPublisher{published: make(chan events.BookingEvent, 64)},
		cache:     cacheMocks.NewMockRedisCache(ctrl),
	}
	s.repo = s.store
	s.redis = s.cache

	s.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).AnyTimes()
	s.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	s.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	s.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	s.rebuild()

	return s
}

// rebuild recreates the service after a test swapped the store, cache, generator or config.
func (s *bookingSuite) rebuild() {
	s.svc = service.New(s.repo, s.rooms, s.notifier, s.publisher, s.cfg, s.redis, s.s3, mocks.NewOtel(), s.clock(), s.numbers)
}

func (s *bookingSuite) clock() timezone.Clock {
	return timezone.ClockFunc(func() time.Time {
		s.mu.Lock()
		defer s.mu.Unlock()

		return s.now
	})
}

func (s *bookingSuite) setNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.now = now
}

func request(room, checkIn, checkOut string) dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		RoomID:     room,
		GuestName:  "Ana Silva",
		GuestEmail: "ana@example.com",
		GuestPhone: "+244 923 000 000",
		Guests:     2,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
	}
}

func (s *bookingSuite) admit(t *testing.T, room, checkIn, checkOut string) dto.BookingResponse {
	t.Helper()

	res, err := s.svc.Admit(context.Background(), request(room, checkIn, checkOut))
	require.NoError(t, err)

	return res
}
