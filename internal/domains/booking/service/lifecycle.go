package service

import (
	"context"
	"fmt"
	"net/http"

	"hotel/internal/domains/booking/events"
	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/booking/model/dto"
	"hotel/shared"
	"hotel/shared/constant"
	"hotel/shared/failure"

	"github.com/rs/zerolog/log"
)

func (s *serviceImpl) Cancel(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.transition(ctx, id, model.StatusCancelled)
	if err != nil {
		return res, err
	}

	log.Info().Str("booking_number", booking.BookingNumber).Msg("booking cancelled")

	s.afterWrite(ctx, booking, events.KeyBookingCancelled)

	return s.response(booking), nil
}

func (s *serviceImpl) Complete(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Complete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.transition(ctx, id, model.StatusCompleted)
	if err != nil {
		return res, err
	}

	s.afterWrite(ctx, booking, constant.Empty)

	return s.response(booking), nil
}

// transition moves a booking to target. The write is conditional on the status read, so of two
// concurrent callers only one applies it and the other is told what it lost to.
func (s *serviceImpl) transition(ctx context.Context, id string, target model.Status) (model.Booking, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return booking, err
	}

	if err = checkTransition(booking, target); err != nil {
		return booking, err
	}

	now := s.clock.Now()
	actor := shared.ActorFromContext(ctx)

	applied, err := s.repo.UpdateFields(ctx, id, booking.Status, map[string]any{
		model.FieldStatus:        target,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: actor,
	})
	if err != nil {
		return booking, storeFailure(err, "update booking status")
	}

	if !applied {
		latest, err := s.load(ctx, id)
		if err != nil {
			return latest, err
		}

		if err = checkTransition(latest, target); err != nil {
			return latest, err
		}

		return latest, failure.Conflict(msgConcurrentModified)
	}

	booking.Status = target
	booking.ModifiedAt = now
	booking.ModifiedBy = actor

	return booking, nil
}

func checkTransition(booking model.Booking, target model.Status) error {
	if target == model.StatusCancelled && booking.Status == model.StatusCancelled {
		return errAlreadyCancelled(booking.BookingNumber)
	}

	if !booking.Status.CanTransitionTo(target) {
		return errInvalidTransition(string(booking.Status), string(target))
	}

	return nil
}

func (s *serviceImpl) MarkConfirmationSent(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.MarkConfirmationSent")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.markFlag(ctx, id, model.FieldConfirmationEmailSent, func(b model.Booking) bool { return b.ConfirmationEmailSent })
}

func (s *serviceImpl) MarkInvoiceGenerated(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.MarkInvoiceGenerated")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.markFlag(ctx, id, model.FieldInvoiceGenerated, func(b model.Booking) bool { return b.InvoiceGenerated })
}

// markFlag sets a side effect flag to true. A flag that is already set is left alone and reported as success.
func (s *serviceImpl) markFlag(ctx context.Context, id, field string, isSet func(model.Booking) bool) error {
	for range flagWriteAttempts {
		booking, err := s.load(ctx, id)
		if err != nil {
			return err
		}

		if isSet(booking) {
			return nil
		}

		applied, err := s.repo.UpdateFields(ctx, id, booking.Status, map[string]any{
			field:                    true,
			constant.FieldModifiedAt: s.clock.Now(),
			constant.FieldModifiedBy: shared.ActorFromContext(ctx),
		})
		if err != nil {
			return storeFailure(err, "update booking flag")
		}

		if applied {
			s.afterWrite(ctx, booking, constant.Empty)

			return nil
		}
	}

	return failure.Conflict(msgConcurrentModified)
}

func (s *serviceImpl) ResendConfirmation(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.ResendConfirmation")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	return s.sendConfirmation(ctx, booking)
}

func (s *serviceImpl) DeliverConfirmation(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.DeliverConfirmation")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if booking.ConfirmationEmailSent || !booking.Status.IsBlocking() {
		log.Debug().Str("booking_number", booking.BookingNumber).Msg("confirmation delivery skipped")

		return nil
	}

	return s.sendConfirmation(ctx, booking)
}

// sendConfirmation invokes the notifier and records success. On failure the flag keeps its value.
func (s *serviceImpl) sendConfirmation(ctx context.Context, booking model.Booking) error {
	room, err := s.rooms.Lookup(ctx, booking.RoomID)
	if err != nil {
		return err
	}

	if err = s.notifier.SendBookingConfirmation(ctx, booking, room); err != nil {
		log.Error().Err(err).Str("booking_number", booking.BookingNumber).Msg(msgConfirmationNotSent)

		return failure.InternalError(fmt.Errorf("%s: %w", msgConfirmationNotSent, err))
	}

	return s.markFlag(ctx, booking.ID, model.FieldConfirmationEmailSent, func(b model.Booking) bool { return b.ConfirmationEmailSent })
}

func (s *serviceImpl) GenerateInvoice(ctx context.Context, id string) (res dto.InvoiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GenerateInvoice")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if booking.Status == model.StatusCancelled {
		return res, failure.New(http.StatusConflict, KindInvalidTransition, msgBookingNotInvoiceable, nil)
	}

	room, err := s.rooms.Lookup(ctx, booking.RoomID)
	if err != nil {
		return res, err
	}

	doc, err := s.notifier.GenerateInvoiceDocument(ctx, booking, room)
	if err != nil {
		log.Error().Err(err).Str("booking_number", booking.BookingNumber).Msg(msgInvoiceNotGenerated)

		return res, failure.InternalError(fmt.Errorf("%s: %w", msgInvoiceNotGenerated, err))
	}

	res.FileName = fmt.Sprintf(invoiceFileNameFormat, booking.BookingNumber)
	res.Content = doc

	url, err := s.s3.UploadFileBytes(ctx, s.cfg.External.S3.BucketName, invoiceDirectory, res.FileName, constant.ContentTypeText, doc)
	if err != nil {
		log.Error().Err(err).Str("booking_number", booking.BookingNumber).Msg("failed to archive invoice")
	} else {
		res.URL = url
	}

	if err = s.markFlag(ctx, booking.ID, model.FieldInvoiceGenerated, func(b model.Booking) bool { return b.InvoiceGenerated }); err != nil {
		return res, err
	}

	return res, nil
}
