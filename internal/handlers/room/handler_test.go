package room_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"hotel/config"
	otelMocks "hotel/infras/otel/mocks"
	bookingDto "hotel/internal/domains/booking/model/dto"
	bookingMocks "hotel/internal/domains/booking/service/mocks"
	"hotel/internal/domains/room/model/dto"
	roomMocks "hotel/internal/domains/room/service/mocks"
	"hotel/internal/handlers/room"
	"hotel/shared/constant"
	"hotel/shared/failure"
	"hotel/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const (
	staffKey = "front-desk"
	roomID   = "0b6f4f3e-3f55-4b8a-9d2c-6a1f2b7c9e10"
)

func TestHandler_Routes(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		target    string
		apiKey    string
		setupMock func(rooms *roomMocks.MockRoom, bookings *bookingMocks.MockBooking)
		wantCode  int
		wantBody  string
	}{
		{
			name:   "availability with window",
			method: http.MethodGet,
			target: "/rooms/" + roomID + "/availability?start_date=2024-06-01&end_date=2024-06-10",
			setupMock: func(_ *roomMocks.MockRoom, bookings *bookingMocks.MockBooking) {
				bookings.EXPECT().RoomAvailability(gomock.Any(), roomID, "2024-06-01", "2024-06-10").
					Return(bookingDto.AvailabilityResponse{RoomID: roomID, UnavailableDates: []string{"2024-06-02"}, TotalUnavailableDays: 1}, nil)
			},
			wantCode: http.StatusOK,
			wantBody: `"unavailable_dates":["2024-06-02"]`,
		},
		{
			name:   "availability defaults are left to the service",
			method: http.MethodGet,
			target: "/rooms/" + roomID + "/availability",
			setupMock: func(_ *roomMocks.MockRoom, bookings *bookingMocks.MockBooking) {
				bookings.EXPECT().RoomAvailability(gomock.Any(), roomID, constant.Empty, constant.Empty).
					Return(bookingDto.AvailabilityResponse{}, failure.NotFound("room not found"))
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:   "room by id",
			method: http.MethodGet,
			target: "/rooms/" + roomID,
			setupMock: func(rooms *roomMocks.MockRoom, _ *bookingMocks.MockBooking) {
				rooms.EXPECT().Get(gomock.Any(), roomID).Return(dto.RoomResponse{ID: roomID, Name: "Ocean Suite"}, nil)
			},
			wantCode: http.StatusOK,
			wantBody: `"name":"Ocean Suite"`,
		},
		{
			name:      "delete as guest",
			method:    http.MethodDelete,
			target:    "/rooms/" + roomID,
			setupMock: func(_ *roomMocks.MockRoom, _ *bookingMocks.MockBooking) {},
			wantCode:  http.StatusForbidden,
		},
		{
			name:   "delete room with bookings",
			method: http.MethodDelete,
			target: "/rooms/" + roomID,
			apiKey: staffKey,
			setupMock: func(rooms *roomMocks.MockRoom, _ *bookingMocks.MockBooking) {
				rooms.EXPECT().Delete(gomock.Any(), roomID).Return(failure.Conflict("room has bookings and cannot be deleted"))
			},
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			rooms := roomMocks.NewMockRoom(ctrl)
			bookings := bookingMocks.NewMockBooking(ctrl)
			tt.setupMock(rooms, bookings)

			cfg := &config.Config{}
			cfg.App.APIKey = staffKey

			auth := middleware.NewAuthMiddleware(otelMocks.NewOtel(), cfg)
			handler := room.New(rooms, bookings, auth, otelMocks.NewOtel())

			router := chi.NewRouter()
			router.Use(auth.APIKey)
			handler.Router(router)

			req := httptest.NewRequest(tt.method, tt.target, nil)
			if tt.apiKey != constant.Empty {
				req.Header.Set(constant.RequestHeaderAPIKey, tt.apiKey)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantBody != constant.Empty {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}
