package booking_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hotel/config"
	otelMocks "hotel/infras/otel/mocks"
	"hotel/internal/domains/booking/model/dto"
	"hotel/internal/domains/booking/service"
	serviceMocks "hotel/internal/domains/booking/service/mocks"
	"hotel/internal/handlers/booking"
	"hotel/shared/constant"
	"hotel/shared/failure"
	"hotel/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	staffKey  = "front-desk"
	bookingID = "3c2b1a09-8f7e-4d6c-9b5a-4f3e2d1c0b9a"
)

func newRouter(t *testing.T, setupMock func(svc *serviceMocks.MockBooking)) http.Handler {
	t.Helper()

	svc := serviceMocks.NewMockBooking(gomock.NewController(t))
	setupMock(svc)

	cfg := &config.Config{}
	cfg.App.APIKey = staffKey

	auth := middleware.NewAuthMiddleware(otelMocks.NewOtel(), cfg)
	handler := booking.New(svc, auth, otelMocks.NewOtel())

	router := chi.NewRouter()
	router.Use(auth.APIKey)
	handler.Router(router)

	return router
}

type errorBody struct {
	Error   string `json:"error"`
	Kind    string `json:"kind"`
	Details []struct {
		BookingNumber string `json:"booking_number"`
	} `json:"details"`
}

func TestHandler_Routes(t *testing.T) {
	overlap := failure.New(http.StatusConflict, service.KindOverlap, "room is not available for the requested dates", []dto.BookedRange{
		{BookingNumber: "HJ-20240520-1A2B", CheckIn: "2024-06-01", CheckOut: "2024-06-05"},
	})

	tests := []struct {
		name      string
		method    string
		target    string
		body      string
		apiKey    string
		setupMock func(svc *serviceMocks.MockBooking)
		wantCode  int
		wantKind  string
		wantBody  string
	}{
		{
			name:   "create booking",
			method: http.MethodPost,
			target: "/bookings",
			body:   `{"room_id":"r1","guest_name":"Ana","guest_email":"ana@example.com","guests":2,"check_in":"2024-06-01","check_out":"2024-06-05"}`,
			setupMock: func(svc *serviceMocks.MockBooking) {
				svc.EXPECT().Admit(gomock.Any(), gomock.Any()).
					Return(dto.BookingResponse{ID: bookingID, BookingNumber: "HJ-20240520-1A2B"}, nil)
			},
			wantCode: http.StatusCreated,
			wantBody: `"booking_number":"HJ-20240520-1A2B"`,
		},
		{
			name:   "create booking overlapping",
			method: http.MethodPost,
			target: "/bookings",
			body:   `{"room_id":"r1","guest_name":"Ana","guest_email":"ana@example.com","guests":2,"check_in":"2024-06-01","check_out":"2024-06-05"}`,
			setupMock: func(svc *serviceMocks.MockBooking) {
				svc.EXPECT().Admit(gomock.Any(), gomock.Any()).Return(dto.BookingResponse{}, overlap)
			},
			wantCode: http.StatusConflict,
			wantKind: service.KindOverlap,
		},
		{
			name:      "create booking with malformed date",
			method:    http.MethodPost,
			target:    "/bookings",
			body:      `{"room_id":"r1","guest_name":"Ana","guest_email":"ana@example.com","check_in":"01/06/2024","check_out":"2024-06-05"}`,
			setupMock: func(_ *serviceMocks.MockBooking) {},
			wantCode:  http.StatusBadRequest,
			wantKind:  failure.KindBadRequest,
		},
		{
			name:      "staff listing without key",
			method:    http.MethodGet,
			target:    "/bookings",
			setupMock: func(_ *serviceMocks.MockBooking) {},
			wantCode:  http.StatusForbidden,
			wantKind:  failure.KindForbidden,
		},
		{
			name:      "wrong key",
			method:    http.MethodGet,
			target:    "/bookings/upcoming",
			apiKey:    "guessed",
			setupMock: func(_ *serviceMocks.MockBooking) {},
			wantCode:  http.StatusForbidden,
			wantKind:  failure.KindForbidden,
		},
		{
			name:   "staff listing with filter",
			method: http.MethodGet,
			target: "/bookings?status=cancelled&check_in_from=2024-06-01",
			apiKey: staffKey,
			setupMock: func(svc *serviceMocks.MockBooking) {
				svc.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), dto.BookingFilter{Status: "cancelled", CheckInFrom: "2024-06-01"}).
					Return(dto.GetBookingsResponse{TotalData: 1, TotalPage: 1}, nil)
			},
			wantCode: http.StatusOK,
			wantBody: `"total_data":1`,
		},
		{
			name:      "staff listing with unknown status",
			method:    http.MethodGet,
			target:    "/bookings?status=archived",
			apiKey:    staffKey,
			setupMock: func(_ *serviceMocks.MockBooking) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:   "mine is not an id",
			method: http.MethodGet,
			target: "/bookings/mine?email=ana@example.com",
			setupMock: func(svc *serviceMocks.MockBooking) {
				svc.EXPECT().FindByEmail(gomock.Any(), "ana@example.com").Return([]dto.BookingResponse{}, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name:   "by number",
			method: http.MethodGet,
			target: "/bookings/number/HJ-20240520-1A2B",
			setupMock: func(svc *serviceMocks.MockBooking) {
				svc.EXPECT().GetByNumber(gomock.Any(), "HJ-20240520-1A2B").Return(dto.BookingResponse{ID: bookingID}, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name:   "cancel twice",
			method: http.MethodPost,
			target: "/bookings/" + bookingID + "/cancel",
			setupMock: func(svc *serviceMocks.MockBooking) {
				svc.EXPECT().Cancel(gomock.Any(), bookingID).
					Return(dto.BookingResponse{}, failure.New(http.StatusBadRequest, service.KindAlreadyCancelled, "booking is already cancelled", nil))
			},
			wantCode: http.StatusBadRequest,
			wantKind: service.KindAlreadyCancelled,
		},
		{
			name:      "complete needs staff",
			method:    http.MethodPost,
			target:    "/bookings/" + bookingID + "/complete",
			setupMock: func(_ *serviceMocks.MockBooking) {},
			wantCode:  http.StatusForbidden,
		},
		{
			name:   "complete as staff",
			method: http.MethodPost,
			target: "/bookings/" + bookingID + "/complete",
			apiKey: staffKey,
			setupMock: func(svc *serviceMocks.MockBooking) {
				svc.EXPECT().Complete(gomock.Any(), bookingID).Return(dto.BookingResponse{ID: bookingID, Status: "completed"}, nil)
			},
			wantCode: http.StatusOK,
			wantBody: `"status":"completed"`,
		},
		{
			name:   "resend confirmation failure",
			method: http.MethodPost,
			target: "/bookings/" + bookingID + "/resend-confirmation",
			setupMock: func(svc *serviceMocks.MockBooking) {
				svc.EXPECT().ResendConfirmation(gomock.Any(), bookingID).Return(failure.InternalError(errors.New("smtp timeout")))
			},
			wantCode: http.StatusInternalServerError,
			wantKind: failure.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(t, tt.setupMock)

			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			req.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)

			if tt.apiKey != constant.Empty {
				req.Header.Set(constant.RequestHeaderAPIKey, tt.apiKey)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantBody != constant.Empty {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}

			if tt.wantKind != constant.Empty {
				var body errorBody
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantKind, body.Kind)
			}
		})
	}
}

func TestHandler_OverlapDetails(t *testing.T) {
	router := newRouter(t, func(svc *serviceMocks.MockBooking) {
		svc.EXPECT().Admit(gomock.Any(), gomock.Any()).Return(dto.BookingResponse{}, failure.New(
			http.StatusConflict, service.KindOverlap, "room is not available for the requested dates",
			[]dto.BookedRange{
				{BookingNumber: "HJ-20240520-1A2B"},
				{BookingNumber: "HJ-20240520-3C4D"},
			},
		))
	})

	body := `{"room_id":"r1","guest_name":"Ana","guest_email":"ana@example.com","guests":2,"check_in":"2024-06-01","check_out":"2024-06-05"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body)))

	require.Equal(t, http.StatusConflict, rec.Code)

	var res errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Details, 2)
	assert.Equal(t, "HJ-20240520-3C4D", res.Details[1].BookingNumber)
}

func TestHandler_Invoice(t *testing.T) {
	router := newRouter(t, func(svc *serviceMocks.MockBooking) {
		svc.EXPECT().GenerateInvoice(gomock.Any(), bookingID).Return(dto.InvoiceResponse{
			FileName: "invoice_HJ-20240520-1A2B.txt",
			Content:  []byte("FATURA"),
		}, nil)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings/"+bookingID+"/invoice", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, constant.ContentTypeText, rec.Header().Get(constant.RequestHeaderContentType))
	assert.Equal(t, `attachment; filename="invoice_HJ-20240520-1A2B.txt"`, rec.Header().Get(constant.RequestHeaderDisposition))
	assert.Equal(t, "FATURA", rec.Body.String())
}
