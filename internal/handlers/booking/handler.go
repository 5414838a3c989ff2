package booking

import (
	"net/http"

	"hotel/infras/otel"
	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/booking/model/dto"
	"hotel/internal/domains/booking/service"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/validator"
	"hotel/transport/http/middleware"
	"hotel/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	queryCheckInFrom = "check_in_from"
	queryCheckInTo   = "check_in_to"
)

type Handler struct {
	service service.Booking
	auth    middleware.Auth
	otel    otel.Otel
}

func New(service service.Booking, auth middleware.Auth, otel otel.Otel) Handler {
	return Handler{
		service: service,
		auth:    auth,
		otel:    otel,
	}
}

// Router registers the fixed paths before /{id} so chi never reads "mine" or "upcoming" as an id.
func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/mine", handler.GetMyBookings)
		routerGroup.Get("/upcoming", handler.GetUpcomingBookings)
		routerGroup.Get("/number/{number}", handler.GetBookingByNumber)
		routerGroup.Get("/{id}", handler.GetBookingByID)
		routerGroup.Patch("/{id}", handler.UpdateBooking)
		routerGroup.Post("/{id}/cancel", handler.CancelBooking)
		routerGroup.Post("/{id}/resend-confirmation", handler.ResendConfirmation)
		routerGroup.Get("/{id}/invoice", handler.GetInvoice)

		routerGroup.Group(func(staff chi.Router) {
			staff.Use(handler.auth.Staff)

			staff.Get("/", handler.GetBookings)
			staff.Post("/{id}/complete", handler.CompleteBooking)
		})
	})
}

// CreateBooking admits a new stay.
// @Summary Create a new booking
// @Description Admit a stay for a room. Dates are YYYY-MM-DD and check_out is exclusive.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse] "Booking confirmed"
// @Failure 400 {object} response.Error "past_date, date_order, minimum_stay, guest_count or malformed input"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error "overlap, details list the conflicting bookings"
// @Failure 503 {object} response.Error "identifier_exhaustion"
// @Failure 500 {object} response.Error
// @Router /v1/bookings [post]
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	booking, err := handler.service.Admit(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Str("room_id", req.RoomID).Msg("booking not admitted")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking " + booking.BookingNumber + " admitted")

	response.WithJSON(writer, http.StatusCreated, booking)
}

// GetBookings lists bookings for staff.
// @Summary Get all bookings
// @Description Retrieve bookings with optional filtering and pagination. Staff only.
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param room_id query string false "Filter by room ID"
// @Param status query string false "Filter by status" Enums(pending, confirmed, cancelled, completed)
// @Param guest_email query string false "Filter by guest email"
// @Param check_in_from query string false "Earliest check-in (YYYY-MM-DD)"
// @Param check_in_to query string false "Latest check-in (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.GetBookingsResponse] "List of bookings"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [get]
// @Security ApiKeyAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true, model.FieldCheckIn, model.FieldCheckOut, model.FieldTotalPrice, constant.FieldCreatedAt)

	query := r.URL.Query()

	filter := dto.BookingFilter{
		RoomID:      query.Get(model.FieldRoomID),
		Status:      query.Get(model.FieldStatus),
		GuestEmail:  query.Get(model.FieldGuestEmail),
		CheckInFrom: query.Get(queryCheckInFrom),
		CheckInTo:   query.Get(queryCheckInTo),
	}

	if err := validator.ValidateStruct(&filter); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate booking filter")

		response.WithError(w, err)

		return
	}

	bookings, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetMyBookings lists the bookings made with an email address.
// @Summary Get bookings by guest email
// @Tags Booking
// @Produce json
// @Param email query string true "Guest email"
// @Success 200 {object} response.Data[[]dto.BookingResponse] "Guest bookings, newest first"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/mine [get]
func (handler *Handler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyBookings")
	defer scope.End()

	email := r.URL.Query().Get(constant.RequestParamEmail)

	if email != constant.Empty {
		if err := validator.ValidateVar(email, "email"); err != nil {
			scope.TraceError(err)

			response.WithError(w, err)

			return
		}
	}

	bookings, err := handler.service.FindByEmail(ctx, email)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings by email")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetUpcomingBookings lists blocking bookings that have not started yet.
// @Summary Get upcoming bookings
// @Tags Booking
// @Produce json
// @Success 200 {object} response.Data[[]dto.BookingResponse] "Upcoming bookings ordered by check-in"
// @Failure 500 {object} response.Error
// @Router /v1/bookings/upcoming [get]
func (handler *Handler) GetUpcomingBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUpcomingBookings")
	defer scope.End()

	bookings, err := handler.service.Upcoming(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get upcoming bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetBookingByNumber looks a booking up by its public number.
// @Summary Get a booking by number
// @Tags Booking
// @Produce json
// @Param number path string true "Booking number, e.g. HJ-20240520-1A2B"
// @Success 200 {object} response.Data[dto.BookingResponse] "Booking details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/number/{number} [get]
func (handler *Handler) GetBookingByNumber(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByNumber")
	defer scope.End()

	booking, err := handler.service.GetByNumber(ctx, chi.URLParam(r, constant.RequestParamNumber))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking by number")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// GetBookingByID retrieves a booking by its ID.
// @Summary Get a booking by ID
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Booking details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [get]
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	booking, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// UpdateBooking changes guest details or moves a stay.
// @Summary Update a booking
// @Description Partial update. Date or guest changes go through the same checks as a new booking.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.UpdateBookingRequest true "Update Booking Request"
// @Success 200 {object} response.Data[dto.BookingResponse] "Updated booking"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [patch]
func (handler *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBooking")
	defer scope.End()

	req := dto.UpdateBookingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.Update(ctx, chi.URLParam(r, constant.RequestParamID), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update booking")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// CancelBooking releases the room held by a booking.
// @Summary Cancel a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Cancelled booking"
// @Failure 400 {object} response.Error "already_cancelled"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error "invalid_transition"
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/cancel [post]
func (handler *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelBooking")
	defer scope.End()

	booking, err := handler.service.Cancel(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking " + booking.BookingNumber + " cancelled")

	response.WithJSON(w, http.StatusOK, booking)
}

// CompleteBooking closes a stay after checkout.
// @Summary Complete a booking
// @Description Staff only.
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Completed booking"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error "invalid_transition"
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/complete [post]
// @Security ApiKeyAuth
func (handler *Handler) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CompleteBooking")
	defer scope.End()

	booking, err := handler.service.Complete(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to complete booking")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// ResendConfirmation sends the confirmation email again.
// @Summary Resend booking confirmation
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Message "Confirmation sent"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/resend-confirmation [post]
func (handler *Handler) ResendConfirmation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ResendConfirmation")
	defer scope.End()

	if err := handler.service.ResendConfirmation(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to resend confirmation")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Confirmation sent")
}

// GetInvoice renders the invoice of a booking as a text attachment.
// @Summary Download a booking invoice
// @Tags Booking
// @Produce plain
// @Param id path string true "Booking ID"
// @Success 200 {file} file "Invoice document"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error "cancelled bookings have no invoice"
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/invoice [get]
func (handler *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetInvoice")
	defer scope.End()

	invoice, err := handler.service.GenerateInvoice(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to generate invoice")

		response.WithError(w, err)

		return
	}

	response.WithAttachment(w, invoice.FileName, constant.ContentTypeText, invoice.Content)
}
