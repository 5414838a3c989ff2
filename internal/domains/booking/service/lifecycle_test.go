package service_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"hotel/internal/domains/booking/events"
	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/booking/service"
	roomModel "hotel/internal/domains/room/model"
	"hotel/shared/constant"
	"hotel/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func (s *bookingSuite) stored(t *testing.T, id string) model.Booking {
	t.Helper()

	booking, err := s.store.Get(context.Background(), id)
	require.NoError(t, err)
	require.NotEmpty(t, booking.ID)

	return booking
}

func TestBookingService_Cancel(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, s *bookingSuite) string
		wantKind string
		wantCode int
	}{
		{
			name: "confirmed booking",
			setup: func(t *testing.T, s *bookingSuite) string {
				return s.admit(t, roomID, "2024-06-01", "2024-06-05").ID
			},
		},
		{
			name: "already cancelled",
			setup: func(t *testing.T, s *bookingSuite) string {
				id := s.admit(t, roomID, "2024-06-01", "2024-06-05").ID

				_, err := s.svc.Cancel(context.Background(), id)
				require.NoError(t, err)

				return id
			},
			wantKind: service.KindAlreadyCancelled,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "completed booking",
			setup: func(t *testing.T, s *bookingSuite) string {
				id := s.admit(t, roomID, "2024-06-01", "2024-06-05").ID

				_, err := s.svc.Complete(context.Background(), id)
				require.NoError(t, err)

				return id
			},
			wantKind: service.KindInvalidTransition,
			wantCode: http.StatusConflict,
		},
		{
			name: "unknown booking",
			setup: func(_ *testing.T, _ *bookingSuite) string {
				return missingID
			},
			wantKind: failure.KindNotFound,
			wantCode: http.StatusNotFound,
		},
		{
			name: "malformed id",
			setup: func(_ *testing.T, _ *bookingSuite) string {
				return "not-a-uuid"
			},
			wantKind: failure.KindNotFound,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newBookingSuite(t)
			id := tt.setup(t, s)

			res, err := s.svc.Cancel(context.Background(), id)

			if tt.wantKind != constant.Empty {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, string(model.StatusCancelled), res.Status)
			assert.Equal(t, model.StatusCancelled, s.stored(t, id).Status)
		})
	}
}

func TestBookingService_CancelPublishesEvent(t *testing.T) {
	s := newBookingSuite(t)

	res := s.admit(t, roomID, "2024-06-01", "2024-06-05")
	assert.Equal(t, events.KeyBookingCreated, s.publisher.next(t).Type)

	_, err := s.svc.Cancel(context.Background(), res.ID)
	require.NoError(t, err)

	event := s.publisher.next(t)
	assert.Equal(t, events.KeyBookingCancelled, event.Type)
	assert.Equal(t, model.StatusCancelled, event.Status)
}

func TestBookingService_CancelConcurrent(t *testing.T) {
	s := newBookingSuite(t)
	id := s.admit(t, roomID, "2024-06-01", "2024-06-05").ID

	const callers = 6

	var wg sync.WaitGroup
	errs := make([]error, callers)

	for i := range callers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, errs[i] = s.svc.Cancel(context.Background(), id)
		}()
	}

	wg.Wait()

	var cancelled int
	for _, err := range errs {
		if err == nil {
			cancelled++

			continue
		}

		assert.Equal(t, service.KindAlreadyCancelled, failure.GetKind(err))
	}

	assert.Equal(t, 1, cancelled)
}

func TestBookingService_Complete(t *testing.T) {
	s := newBookingSuite(t)
	ctx := context.Background()

	id := s.admit(t, roomID, "2024-06-01", "2024-06-05").ID

	res, err := s.svc.Complete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusCompleted), res.Status)

	_, err = s.svc.Complete(ctx, id)
	assert.Equal(t, service.KindInvalidTransition, failure.GetKind(err))

	// completed stays no longer hold the room
	s.admit(t, roomID, "2024-06-01", "2024-06-05")
}

func TestBookingService_MarkFlags(t *testing.T) {
	s := newBookingSuite(t)
	ctx := context.Background()

	id := s.admit(t, roomID, "2024-06-01", "2024-06-05").ID

	for range 2 {
		require.NoError(t, s.svc.MarkConfirmationSent(ctx, id))
		require.NoError(t, s.svc.MarkInvoiceGenerated(ctx, id))
	}

	booking := s.stored(t, id)
	assert.True(t, booking.ConfirmationEmailSent)
	assert.True(t, booking.InvoiceGenerated)
	assert.Equal(t, model.StatusConfirmed, booking.Status)

	assert.Equal(t, failure.KindNotFound, failure.GetKind(s.svc.MarkConfirmationSent(ctx, missingID)))
}

func TestBookingService_ResendConfirmation(t *testing.T) {
	tests := []struct {
		name       string
		alreadySet bool
		setupMock  func(s *bookingSuite)
		wantKind   string
		wantFlag   bool
	}{
		{
			name: "notifier delivers",
			setupMock: func(s *bookingSuite) {
				s.notifier.EXPECT().
					SendBookingConfirmation(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantFlag: true,
		},
		{
			name:       "flag already set still sends",
			alreadySet: true,
			setupMock: func(s *bookingSuite) {
				s.notifier.EXPECT().
					SendBookingConfirmation(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantFlag: true,
		},
		{
			name: "notifier fails",
			setupMock: func(s *bookingSuite) {
				s.notifier.EXPECT().
					SendBookingConfirmation(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("smtp timeout"))
			},
			wantKind: failure.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newBookingSuite(t)
			ctx := context.Background()
			tt.setupMock(s)

			id := s.admit(t, roomID, "2024-06-01", "2024-06-05").ID
			if tt.alreadySet {
				require.NoError(t, s.svc.MarkConfirmationSent(ctx, id))
			}

			err := s.svc.ResendConfirmation(ctx, id)

			assert.Equal(t, tt.wantFlag, s.stored(t, id).ConfirmationEmailSent)

			if tt.wantKind != constant.Empty {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestBookingService_DeliverConfirmation(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(t *testing.T, s *bookingSuite, id string)
		setupMock func(s *bookingSuite)
		wantFlag  bool
	}{
		{
			name: "first delivery",
			setupMock: func(s *bookingSuite) {
				s.notifier.EXPECT().
					SendBookingConfirmation(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, booking model.Booking, room roomModel.Room) error {
						assert.Equal(t, "ana@example.com", booking.GuestEmail)
						assert.Equal(t, roomID, room.ID)

						return nil
					})
			},
			wantFlag: true,
		},
		{
			name: "redelivered event",
			setup: func(t *testing.T, s *bookingSuite, id string) {
				require.NoError(t, s.svc.MarkConfirmationSent(context.Background(), id))
			},
			setupMock: func(_ *bookingSuite) {},
			wantFlag:  true,
		},
		{
			name: "cancelled before delivery",
			setup: func(t *testing.T, s *bookingSuite, id string) {
				_, err := s.svc.Cancel(context.Background(), id)
				require.NoError(t, err)
			},
			setupMock: func(_ *bookingSuite) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newBookingSuite(t)
			tt.setupMock(s)

			id := s.admit(t, roomID, "2024-06-01", "2024-06-05").ID
			if tt.setup != nil {
				tt.setup(t, s, id)
			}

			assert.NoError(t, s.svc.DeliverConfirmation(context.Background(), id))
			assert.Equal(t, tt.wantFlag, s.stored(t, id).ConfirmationEmailSent)
		})
	}
}

func TestBookingService_GenerateInvoice(t *testing.T) {
	tests := []struct {
		name      string
		cancelled bool
		setupMock func(s *bookingSuite)
		wantKind  string
		wantURL   string
	}{
		{
			name: "archived invoice",
			setupMock: func(s *bookingSuite) {
				s.notifier.EXPECT().
					GenerateInvoiceDocument(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]byte("FATURA"), nil)
				s.s3.EXPECT().
					UploadFileBytes(gomock.Any(), "hotel", "invoices", gomock.Any(), constant.ContentTypeText, []byte("FATURA")).
					Return("https://s3.local/hotel/invoices/invoice.txt", nil)
			},
			wantURL: "https://s3.local/hotel/invoices/invoice.txt",
		},
		{
			name: "archive failure is not fatal",
			setupMock: func(s *bookingSuite) {
				s.notifier.EXPECT().
					GenerateInvoiceDocument(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]byte("FATURA"), nil)
				s.s3.EXPECT().
					UploadFileBytes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(constant.Empty, errors.New("bucket unreachable"))
			},
		},
		{
			name: "render failure",
			setupMock: func(s *bookingSuite) {
				s.notifier.EXPECT().
					GenerateInvoiceDocument(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, errors.New("template error"))
			},
			wantKind: failure.KindInternal,
		},
		{
			name:      "cancelled booking",
			cancelled: true,
			setupMock: func(_ *bookingSuite) {},
			wantKind:  service.KindInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newBookingSuite(t)
			ctx := context.Background()
			tt.setupMock(s)

			booking := s.admit(t, roomID, "2024-06-01", "2024-06-05")
			if tt.cancelled {
				_, err := s.svc.Cancel(ctx, booking.ID)
				require.NoError(t, err)
			}

			res, err := s.svc.GenerateInvoice(ctx, booking.ID)

			if tt.wantKind != constant.Empty {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
				assert.False(t, s.stored(t, booking.ID).InvoiceGenerated)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "invoice_"+booking.BookingNumber+".txt", res.FileName)
			assert.Equal(t, []byte("FATURA"), res.Content)
			assert.Equal(t, tt.wantURL, res.URL)
			assert.True(t, s.stored(t, booking.ID).InvoiceGenerated)
		})
	}
}
