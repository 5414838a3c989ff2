package repository

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"hotel/internal/domains/booking/availability"
	"hotel/internal/domains/booking/model"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/timezone"
)

var _ Booking = (*Memory)(nil)

// Memory is a process-local Booking store. Writers of one room are serialised by that
// room's mutex; different rooms proceed in parallel.
type Memory struct {
	mu       sync.RWMutex
	bookings map[string]model.Booking
	numbers  map[string]string
	rooms    map[string]*sync.Mutex

	// roomExists reports whether a room id is known. Nil accepts every room.
	roomExists func(roomID string) bool
}

func NewMemory(roomExists func(roomID string) bool) *Memory {
	return &Memory{
		bookings:   map[string]model.Booking{},
		numbers:    map[string]string{},
		rooms:      map[string]*sync.Mutex{},
		roomExists: roomExists,
	}
}

func (m *Memory) roomLock(roomID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.rooms[roomID]
	if !ok {
		lock = &sync.Mutex{}
		m.rooms[roomID] = lock
	}

	return lock
}

func (m *Memory) InsertExclusive(_ context.Context, booking model.Booking, admit AdmitFunc) error {
	if m.roomExists != nil && !m.roomExists(booking.RoomID) {
		return ErrRoomMissing
	}

	lock := m.roomLock(booking.RoomID)
	lock.Lock()
	defer lock.Unlock()

	if err := admit(m.overlapping(booking.RoomID, booking.CheckIn, booking.CheckOut, constant.Empty)); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.numbers[booking.BookingNumber]; taken {
		return ErrDuplicateNumber
	}

	m.bookings[booking.ID] = booking
	m.numbers[booking.BookingNumber] = booking.ID

	return nil
}

func (m *Memory) UpdateExclusive(_ context.Context, target model.Booking, fields map[string]any, admit AdmitFunc) (bool, error) {
	lock := m.roomLock(target.RoomID)
	lock.Lock()
	defer lock.Unlock()

	if err := admit(m.overlapping(target.RoomID, target.CheckIn, target.CheckOut, target.ID)); err != nil {
		return false, err
	}

	return m.apply(target.ID, target.Status, fields), nil
}

func (m *Memory) UpdateFields(_ context.Context, id string, expect model.Status, fields map[string]any) (bool, error) {
	m.mu.RLock()
	current, ok := m.bookings[id]
	m.mu.RUnlock()

	if !ok {
		return false, nil
	}

	// Status changes free or take calendar space, so they queue behind admissions of the same room.
	lock := m.roomLock(current.RoomID)
	lock.Lock()
	defer lock.Unlock()

	return m.apply(id, expect, fields), nil
}

func (m *Memory) apply(id string, expect model.Status, fields map[string]any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	booking, ok := m.bookings[id]
	if !ok || booking.Status != expect {
		return false
	}

	m.bookings[id] = assign(booking, fields)

	return true
}

func (m *Memory) Get(_ context.Context, id string) (model.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.bookings[id], nil
}

func (m *Memory) GetByNumber(_ context.Context, number string) (model.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.bookings[m.numbers[number]], nil
}

func (m *Memory) FindByEmail(_ context.Context, email string) ([]model.Booking, error) {
	found := m.filter(func(b model.Booking) bool { return b.GuestEmail == email })

	slices.SortStableFunc(found, func(a, b model.Booking) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return found, nil
}

func (m *Memory) FindUpcoming(_ context.Context, from time.Time) ([]model.Booking, error) {
	found := m.filter(func(b model.Booking) bool {
		return b.Status == model.StatusConfirmed && !b.CheckIn.Before(from)
	})

	slices.SortStableFunc(found, func(a, b model.Booking) int {
		return a.CheckIn.Compare(b.CheckIn)
	})

	return found, nil
}

func (m *Memory) FindOverlapping(_ context.Context, roomID string, from, to time.Time, excludeID string) ([]model.Booking, error) {
	return m.overlapping(roomID, from, to, excludeID), nil
}

func (m *Memory) List(_ context.Context, params gDto.QueryParams, criteria Criteria) ([]model.Booking, error) {
	found := m.filter(criteria.matches)

	desc := params.SortDir != gDto.SortDirAsc
	slices.SortStableFunc(found, func(a, b model.Booking) int {
		var order int
		if params.SortBy == model.FieldCheckIn {
			order = a.CheckIn.Compare(b.CheckIn)
		} else {
			order = a.CreatedAt.Compare(b.CreatedAt)
		}

		if desc {
			return -order
		}

		return order
	})

	if params.Limit > 0 {
		start := params.Offset()
		if start >= len(found) {
			return []model.Booking{}, nil
		}

		found = found[start:min(start+params.Limit, len(found))]
	}

	return found, nil
}

func (m *Memory) Count(_ context.Context, criteria Criteria) (int, error) {
	return len(m.filter(criteria.matches)), nil
}

// Snapshot returns every stored booking ordered by room then check-in.
func (m *Memory) Snapshot() []model.Booking {
	all := m.filter(func(model.Booking) bool { return true })

	slices.SortFunc(all, func(a, b model.Booking) int {
		return cmp.Or(cmp.Compare(a.RoomID, b.RoomID), a.CheckIn.Compare(b.CheckIn))
	})

	return all
}

func (m *Memory) overlapping(roomID string, from, to time.Time, excludeID string) []model.Booking {
	return availability.Conflicts(m.filter(func(b model.Booking) bool { return b.RoomID == roomID }), from, to, excludeID)
}

func (m *Memory) filter(keep func(model.Booking) bool) []model.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()

	found := []model.Booking{}
	for _, id := range slices.Sorted(maps.Keys(m.bookings)) {
		if booking := m.bookings[id]; keep(booking) {
			found = append(found, booking)
		}
	}

	return found
}

func (c Criteria) matches(b model.Booking) bool {
	switch {
	case c.RoomID != constant.Empty && b.RoomID != c.RoomID:
		return false
	case c.Status != constant.Empty && b.Status != c.Status:
		return false
	case c.GuestEmail != constant.Empty && b.GuestEmail != c.GuestEmail:
		return false
	case !c.CheckInFrom.IsZero() && b.CheckIn.Before(c.CheckInFrom):
		return false
	case !c.CheckInTo.IsZero() && !b.CheckIn.Before(c.CheckInTo):
		return false
	}

	return true
}

// assign copies column values onto the booking the way an UPDATE would.
func assign(b model.Booking, fields map[string]any) model.Booking {
	for column, value := range fields {
		switch column {
		case model.FieldGuestName:
			b.GuestName, _ = value.(string)
		case model.FieldGuestEmail:
			b.GuestEmail, _ = value.(string)
		case model.FieldGuestPhone:
			b.GuestPhone, _ = value.(string)
		case model.FieldGuests:
			b.Guests = derefInt(value)
		case model.FieldCheckIn:
			b.CheckIn = timezone.DateOf(value.(time.Time))
		case model.FieldCheckOut:
			b.CheckOut = timezone.DateOf(value.(time.Time))
		case model.FieldStatus:
			b.Status, _ = value.(model.Status)
		case model.FieldPaymentStatus:
			b.PaymentStatus, _ = value.(model.PaymentStatus)
		case model.FieldSpecialRequests:
			b.SpecialRequests = derefString(value)
		case model.FieldConfirmationEmailSent:
			b.ConfirmationEmailSent, _ = value.(bool)
		case model.FieldInvoiceGenerated:
			b.InvoiceGenerated, _ = value.(bool)
		case constant.FieldModifiedAt:
			b.ModifiedAt, _ = value.(time.Time)
		case constant.FieldModifiedBy:
			b.ModifiedBy, _ = value.(string)
		}
	}

	return b
}

func derefInt(value any) int {
	switch v := value.(type) {
	case int:
		return v
	case *int:
		return *v
	}

	return 0
}

func derefString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case *string:
		return *v
	}

	return constant.Empty
}
