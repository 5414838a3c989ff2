package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/internal/domains/booking/model"
	roomModel "hotel/internal/domains/room/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	gRepo "hotel/shared/repository"
	"hotel/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	constraintBookingNumber = "bookings_booking_number_key"

	argRangeStart    = "range_start"
	argRangeEnd      = "range_end"
	argExcludeID     = "exclude_id"
	argCurrentStatus = "current_status"
	argCheckInFrom   = "check_in_from"
	argCheckInTo     = "check_in_to"
)

var lockRoomQuery = fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 FOR UPDATE", roomModel.FieldID, roomModel.TableName, roomModel.FieldID)

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) InsertExclusive(ctx context.Context, booking model.Booking, admit AdmitFunc) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.InsertExclusive")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	err = r.db.WithTx(ctx, nil, func(tx *sqlx.Tx) error {
		active, err := r.lockAndReadRange(ctx, tx, booking.RoomID, booking.CheckIn, booking.CheckOut, constant.Empty)
		if err != nil {
			return err
		}

		if err := admit(active); err != nil {
			return err
		}

		return r.InsertTx(ctx, tx, booking) //nolint:wrapcheck
	})

	return translate(err)
}

func (r *repositoryImpl) UpdateExclusive(ctx context.Context, target model.Booking, fields map[string]any, admit AdmitFunc) (applied bool, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.UpdateExclusive")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	err = r.db.WithTx(ctx, nil, func(tx *sqlx.Tx) error {
		active, err := r.lockAndReadRange(ctx, tx, target.RoomID, target.CheckIn, target.CheckOut, target.ID)
		if err != nil {
			return err
		}

		if err := admit(active); err != nil {
			return err
		}

		affected, err := r.UpdateAffectedTx(ctx, tx, fields, guardedByStatus(target.ID, target.Status))
		if err != nil {
			return err //nolint:wrapcheck
		}

		applied = affected > 0

		return nil
	})

	return applied, translate(err)
}

func (r *repositoryImpl) UpdateFields(ctx context.Context, id string, expect model.Status, fields map[string]any) (applied bool, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.UpdateFields")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	affected, err := r.UpdateAffected(ctx, fields, guardedByStatus(id, expect))
	if err != nil {
		return false, err //nolint:wrapcheck
	}

	return affected > 0, nil
}

func (r *repositoryImpl) Get(ctx context.Context, id string) (model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Get")
	defer scope.End()

	booking, err := r.Repository.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))

	return normalize(booking), err //nolint:wrapcheck
}

func (r *repositoryImpl) GetByNumber(ctx context.Context, number string) (model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.GetByNumber")
	defer scope.End()

	booking, err := r.Repository.Get(ctx, shared.FilterByID(number, model.FieldBookingNumber, model.TableName))

	return normalize(booking), err //nolint:wrapcheck
}

func (r *repositoryImpl) FindByEmail(ctx context.Context, email string) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FindByEmail")
	defer scope.End()

	params := gDto.QueryParams{SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirDesc}

	return normalizeAll(r.GetAll(ctx, params, shared.FilterByID(email, model.FieldGuestEmail, model.TableName)))
}

func (r *repositoryImpl) FindUpcoming(ctx context.Context, from time.Time) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FindUpcoming")
	defer scope.End()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldStatus, Value: model.StatusConfirmed, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldCheckIn, Value: timezone.FormatDate(from), Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName},
		},
	}
	params := gDto.QueryParams{SortBy: model.FieldCheckIn, SortDir: gDto.SortDirAsc}

	return normalizeAll(r.GetAll(ctx, params, filter))
}

func (r *repositoryImpl) FindOverlapping(ctx context.Context, roomID string, from, to time.Time, excludeID string) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FindOverlapping")
	defer scope.End()

	return normalizeAll(r.GetAll(ctx, byCheckIn(), overlapFilter(roomID, from, to, excludeID)))
}

func (r *repositoryImpl) List(ctx context.Context, params gDto.QueryParams, criteria Criteria) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.List")
	defer scope.End()

	if params.SortBy == constant.Empty {
		params.SortBy = constant.DefaultValueSortBy
		params.SortDir = constant.DefaultValueSortDir
	}

	return normalizeAll(r.GetAll(ctx, params, criteriaFilter(criteria)))
}

func (r *repositoryImpl) Count(ctx context.Context, criteria Criteria) (int, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Count")
	defer scope.End()

	return r.Repository.Count(ctx, criteriaFilter(criteria)) //nolint:wrapcheck
}

// lockAndReadRange takes the room row lock, which serialises every writer of that room's
// calendar until the transaction ends, then reads the blocking bookings in range.
func (r *repositoryImpl) lockAndReadRange(ctx context.Context, tx *sqlx.Tx, roomID string, from, to time.Time, excludeID string) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.lockAndReadRange")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, lockRoomQuery)

	var lockedID string
	if err := tx.QueryRowxContext(ctx, lockRoomQuery, roomID).Scan(&lockedID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomMissing
		}

		scope.TraceError(err)

		return nil, fmt.Errorf("failed to lock room: %w", err)
	}

	return normalizeAll(r.GetAllTx(ctx, tx, byCheckIn(), overlapFilter(roomID, from, to, excludeID), constant.Empty))
}

func byCheckIn() gDto.QueryParams {
	return gDto.QueryParams{SortBy: model.FieldCheckIn, SortDir: gDto.SortDirAsc}
}

func overlapFilter(roomID string, from, to time.Time, excludeID string) gDto.FilterGroup {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldRoomID, Value: roomID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, Value: model.BlockingStatuses, Operator: gDto.FilterOperatorIn, Table: model.TableName},
			gDto.Filter{ArgName: argRangeEnd, Field: model.FieldCheckIn, Value: timezone.FormatDate(to), Operator: gDto.FilterOperatorLess, Table: model.TableName},
			gDto.Filter{ArgName: argRangeStart, Field: model.FieldCheckOut, Value: timezone.FormatDate(from), Operator: gDto.FilterOperatorGreater, Table: model.TableName},
		},
	}

	if excludeID != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName:  argExcludeID,
			Field:    model.FieldID,
			Value:    excludeID,
			Operator: gDto.FilterOperatorNotEq,
			Table:    model.TableName,
		})
	}

	return filter
}

func guardedByStatus(id string, status model.Status) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Value: id, Operator: gDto.FilterOperatorEq},
			gDto.Filter{ArgName: argCurrentStatus, Field: model.FieldStatus, Value: status, Operator: gDto.FilterOperatorEq},
		},
	}
}

func criteriaFilter(criteria Criteria) gDto.FilterGroup {
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if criteria.RoomID != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{Field: model.FieldRoomID, Value: criteria.RoomID, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if criteria.Status != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{Field: model.FieldStatus, Value: criteria.Status, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if criteria.GuestEmail != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{Field: model.FieldGuestEmail, Value: criteria.GuestEmail, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if !criteria.CheckInFrom.IsZero() {
		filter.Filters = append(filter.Filters, gDto.Filter{ArgName: argCheckInFrom, Field: model.FieldCheckIn, Value: timezone.FormatDate(criteria.CheckInFrom), Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName})
	}

	if !criteria.CheckInTo.IsZero() {
		filter.Filters = append(filter.Filters, gDto.Filter{ArgName: argCheckInTo, Field: model.FieldCheckIn, Value: timezone.FormatDate(criteria.CheckInTo), Operator: gDto.FilterOperatorLess, Table: model.TableName})
	}

	return filter
}

// normalize maps DATE columns, which the driver returns in a fixed zone, onto UTC midnight.
func normalize(booking model.Booking) model.Booking {
	if booking.ID == constant.Empty {
		return booking
	}

	booking.CheckIn = timezone.DateOf(booking.CheckIn)
	booking.CheckOut = timezone.DateOf(booking.CheckOut)

	return booking
}

func normalizeAll(bookings []model.Booking, err error) ([]model.Booking, error) {
	if err != nil {
		return nil, err
	}

	for i := range bookings {
		bookings[i] = normalize(bookings[i])
	}

	return bookings, nil
}

func translate(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == constant.PqErrorCodeUniqueViolation && pqErr.Constraint == constraintBookingNumber {
		return ErrDuplicateNumber
	}

	return err
}
