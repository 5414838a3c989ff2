package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"hotel/internal/domains/booking/model"
	gDto "hotel/shared/dto"
)

var (
	// ErrDuplicateNumber is returned when the booking number is already taken.
	ErrDuplicateNumber = errors.New("booking number already exists")
	// ErrRoomMissing is returned when the room row to lock does not exist.
	ErrRoomMissing = errors.New("room does not exist")
)

// AdmitFunc decides, under the room lock, whether a write may proceed. It receives the
// room's blocking bookings that intersect the requested range.
type AdmitFunc func(active []model.Booking) error

// Criteria narrows staff listings. Zero values are ignored.
type Criteria struct {
	RoomID      string
	Status      model.Status
	GuestEmail  string
	CheckInFrom time.Time
	CheckInTo   time.Time
}

type Booking interface {
	// InsertExclusive stores booking if admit accepts the room's overlapping bookings.
	// The overlap read, admit and insert happen atomically with respect to other writers of the same room.
	InsertExclusive(ctx context.Context, booking model.Booking, admit AdmitFunc) error
	// UpdateExclusive applies fields to the booking described by target, whose RoomID, CheckIn and CheckOut
	// are the resulting stay. target itself is excluded from the overlap read. The write only lands while
	// the stored status still equals target.Status.
	UpdateExclusive(ctx context.Context, target model.Booking, fields map[string]any, admit AdmitFunc) (bool, error)
	// UpdateFields writes fields when the stored status still equals expect.
	UpdateFields(ctx context.Context, id string, expect model.Status, fields map[string]any) (bool, error)

	Get(ctx context.Context, id string) (model.Booking, error)
	GetByNumber(ctx context.Context, number string) (model.Booking, error)
	FindByEmail(ctx context.Context, email string) ([]model.Booking, error)
	FindUpcoming(ctx context.Context, from time.Time) ([]model.Booking, error)
	FindOverlapping(ctx context.Context, roomID string, from, to time.Time, excludeID string) ([]model.Booking, error)
	List(ctx context.Context, params gDto.QueryParams, criteria Criteria) ([]model.Booking, error)
	Count(ctx context.Context, criteria Criteria) (int, error)
}
