package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotel/config"
	"hotel/infras/otel/mocks"
	s3Mocks "hotel/infras/s3/mocks"
	roomMocks "hotel/internal/domains/room/mocks"
	"hotel/internal/domains/room/model"
	"hotel/internal/domains/room/model/dto"
	"hotel/internal/domains/room/service"
	"hotel/shared"
	cacheMocks "hotel/shared/cache/mocks"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	gModel "hotel/shared/model"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const roomID = "0b6f4f3e-3f55-4b8a-9d2c-6a1f2b7c9e10"

type roomSuite struct {
	repo  *roomMocks.MockRoom
	cache *cacheMocks.MockRedisCache
	s3    *s3Mocks.MockS3
	svc   service.Room
}

func newRoomSuite(t *testing.T) roomSuite {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.External.S3.BucketName = "hotel"

	suite := roomSuite{
		repo:  roomMocks.NewMockRoom(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
		s3:    s3Mocks.NewMockS3(ctrl),
	}
	suite.svc = service.New(suite.repo, cfg, suite.cache, mocks.NewOtel(), suite.s3)

	suite.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	suite.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	suite.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return suite
}

func deluxe() model.Room {
	return model.Room{
		ID:            roomID,
		Name:          "Garden Deluxe",
		RoomType:      model.RoomTypeDeluxe,
		PricePerNight: decimal.RequireFromString("150.00"),
		Active:        true,
		Metadata:      gModel.NewMetadata(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), constant.ActorStaff),
	}
}

func TestRoomService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateRoomRequest
		setupMock func(s roomSuite)
		wantErr   string
	}{
		{
			name: "successful creation",
			req:  dto.CreateRoomRequest{Name: "Garden Deluxe", RoomType: "deluxe", PricePerNight: "150.456"},
			setupMock: func(s roomSuite) {
				s.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, room model.Room) error {
						assert.Equal(t, "150.46", room.PricePerNight.StringFixed(2))
						assert.Equal(t, constant.ActorStaff, room.CreatedBy)
						assert.True(t, room.Active)

						return nil
					})
			},
		},
		{
			name: "repository error",
			req:  dto.CreateRoomRequest{Name: "Garden Deluxe", RoomType: "deluxe", PricePerNight: "150"},
			setupMock: func(s roomSuite) {
				s.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: failure.KindStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newRoomSuite(t)
			tt.setupMock(s)

			ctx := shared.WithActor(context.Background(), constant.ActorStaff)
			res, err := s.svc.Create(ctx, tt.req)

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr != constant.Empty {
				assert.Error(t, err)
				assert.Equal(t, tt.wantErr, failure.GetKind(err))

				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, res.ID)
			assert.Equal(t, "deluxe", res.RoomType)
		})
	}
}

func TestRoomService_GetAll(t *testing.T) {
	params := gDto.QueryParams{Page: 1, Limit: 10}

	tests := []struct {
		name      string
		setupMock func(s roomSuite)
		wantErr   bool
		wantTotal int
	}{
		{
			name: "cache miss reads repository",
			setupMock: func(s roomSuite) {
				s.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
				s.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
				s.repo.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).Return([]model.Room{deluxe()}, nil)
			},
			wantTotal: 1,
		},
		{
			name: "count error",
			setupMock: func(s roomSuite) {
				s.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
				s.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("database error"))
			},
			wantErr: true,
		},
		{
			name: "list error",
			setupMock: func(s roomSuite) {
				s.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
				s.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
				s.repo.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).Return(nil, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newRoomSuite(t)
			tt.setupMock(s)

			res, err := s.svc.GetAll(context.Background(), params, gDto.FilterGroup{})

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantTotal, res.TotalData)
			assert.Len(t, res.Rooms, tt.wantTotal)
		})
	}
}

func TestRoomService_Lookup(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		setupMock func(s roomSuite)
		wantKind  string
	}{
		{
			name: "found",
			id:   roomID,
			setupMock: func(s roomSuite) {
				s.repo.EXPECT().Get(gomock.Any(), shared.FilterByID(roomID, model.FieldID, model.TableName)).Return(deluxe(), nil)
			},
		},
		{
			name: "missing row",
			id:   roomID,
			setupMock: func(s roomSuite) {
				s.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)
			},
			wantKind: failure.KindNotFound,
		},
		{
			name:      "malformed id never reaches the store",
			id:        "not-a-uuid",
			setupMock: func(roomSuite) {},
			wantKind:  failure.KindNotFound,
		},
		{
			name: "store error",
			id:   roomID,
			setupMock: func(s roomSuite) {
				s.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, errors.New("connection reset"))
			},
			wantKind: failure.KindStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newRoomSuite(t)
			tt.setupMock(s)

			room, err := s.svc.Lookup(context.Background(), tt.id)

			if tt.wantKind != constant.Empty {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, roomID, room.ID)
		})
	}
}

func TestRoomService_Get(t *testing.T) {
	s := newRoomSuite(t)

	s.cache.EXPECT().Get(gomock.Any(), "room:get:"+roomID, gomock.Any()).Return(errors.New("cache miss"))
	s.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxe(), nil)

	res, err := s.svc.Get(context.Background(), roomID)

	time.Sleep(10 * time.Millisecond)

	assert.NoError(t, err)
	assert.Equal(t, "Garden Deluxe", res.Name)
	assert.True(t, decimal.RequireFromString("150").Equal(res.PricePerNight))
}

func TestRoomService_Update(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.UpdateRoomRequest
		setupMock func(s roomSuite)
		wantKind  string
	}{
		{
			name: "price change is rounded",
			req:  dto.UpdateRoomRequest{PricePerNight: "99.999"},
			setupMock: func(s roomSuite) {
				s.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxe(), nil)
				s.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						price, ok := fields[model.FieldPricePerNight].(decimal.Decimal)
						assert.True(t, ok)
						assert.Equal(t, "100.00", price.StringFixed(2))
						assert.Equal(t, constant.ActorStaff, fields[constant.FieldModifiedBy])

						return nil
					})
			},
		},
		{
			name: "room not found",
			req:  dto.UpdateRoomRequest{Name: "Renamed"},
			setupMock: func(s roomSuite) {
				s.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)
			},
			wantKind: failure.KindNotFound,
		},
		{
			name: "store error",
			req:  dto.UpdateRoomRequest{Name: "Renamed"},
			setupMock: func(s roomSuite) {
				s.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxe(), nil)
				s.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantKind: failure.KindStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newRoomSuite(t)
			tt.setupMock(s)

			ctx := shared.WithActor(context.Background(), constant.ActorStaff)
			err := s.svc.Update(ctx, tt.req, roomID)

			time.Sleep(10 * time.Millisecond)

			if tt.wantKind != constant.Empty {
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestRoomService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(s roomSuite)
		wantKind  string
	}{
		{
			name: "successful delete",
			setupMock: func(s roomSuite) {
				s.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxe(), nil)
				s.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "room with bookings",
			setupMock: func(s roomSuite) {
				s.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxe(), nil)
				s.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeFkViolation})
			},
			wantKind: failure.KindConflict,
		},
		{
			name: "room not found",
			setupMock: func(s roomSuite) {
				s.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)
			},
			wantKind: failure.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newRoomSuite(t)
			tt.setupMock(s)

			err := s.svc.Delete(context.Background(), roomID)

			time.Sleep(10 * time.Millisecond)

			if tt.wantKind != constant.Empty {
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}
