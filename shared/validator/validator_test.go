package validator_test

import (
	"strings"
	"testing"

	"hotel/shared/failure"
	"hotel/shared/validator"

	"github.com/stretchr/testify/assert"
)

type guestRequest struct {
	GuestName  string `json:"guest_name"  validate:"required"`
	GuestEmail string `json:"guest_email" validate:"required,email"`
	Guests     int    `json:"guests"      validate:"gte=1,lte=6"`
	RoomType   string `json:"room_type"   validate:"oneof=standard deluxe suite"`
}

type priceRequest struct {
	PricePerNight string `json:"price_per_night" validate:"required,decimal_money"`
	CheckIn       string `json:"check_in"        validate:"required,dateonly"`
}

func validGuest() guestRequest {
	return guestRequest{
		GuestName:  "Ana Silva",
		GuestEmail: "ana@example.com",
		Guests:     2,
		RoomType:   "deluxe",
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(req *guestRequest)
		expectError bool
	}{
		{name: "valid struct", mutate: func(*guestRequest) {}},
		{name: "missing required field", mutate: func(req *guestRequest) { req.GuestName = "" }, expectError: true},
		{name: "invalid email", mutate: func(req *guestRequest) { req.GuestEmail = "ana" }, expectError: true},
		{name: "too many guests", mutate: func(req *guestRequest) { req.Guests = 7 }, expectError: true},
		{name: "no guests", mutate: func(req *guestRequest) { req.Guests = 0 }, expectError: true},
		{name: "unknown room type", mutate: func(req *guestRequest) { req.RoomType = "penthouse" }, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validGuest()
			tt.mutate(&req)

			err := validator.ValidateStruct(&req)

			if tt.expectError {
				assert.Error(t, err)
				assert.Equal(t, failure.KindBadRequest, failure.GetKind(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name        string
		field       any
		tag         string
		expectError bool
	}{
		{name: "valid required string", field: "test", tag: "required"},
		{name: "empty required string", field: "", tag: "required", expectError: true},
		{name: "valid email", field: "test@example.com", tag: "email"},
		{name: "invalid email", field: "invalid-email", tag: "email", expectError: true},
		{name: "valid money", field: "150.50", tag: "decimal_money"},
		{name: "whole money", field: "150", tag: "decimal_money"},
		{name: "money with three decimals", field: "150.505", tag: "decimal_money", expectError: true},
		{name: "zero money", field: "0", tag: "decimal_money", expectError: true},
		{name: "negative money", field: "-10", tag: "decimal_money", expectError: true},
		{name: "money not a number", field: "ten", tag: "decimal_money", expectError: true},
		{name: "valid date", field: "2024-06-01", tag: "dateonly"},
		{name: "date with time", field: "2024-06-01T10:00:00Z", tag: "dateonly", expectError: true},
		{name: "impossible date", field: "2024-02-30", tag: "dateonly", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)

			if tt.expectError {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		jsonBody    string
		expectError bool
	}{
		{
			name:     "valid JSON",
			jsonBody: `{"price_per_night":"120.00","check_in":"2024-06-01"}`,
		},
		{
			name:        "invalid price",
			jsonBody:    `{"price_per_night":"abc","check_in":"2024-06-01"}`,
			expectError: true,
		},
		{
			name:        "malformed JSON",
			jsonBody:    `{"price_per_night":}`,
			expectError: true,
		},
		{
			name:        "empty JSON",
			jsonBody:    `{}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data priceRequest

			err := validator.Validate(strings.NewReader(tt.jsonBody), &data)

			if tt.expectError {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "120.00", data.PricePerNight)
		})
	}
}

func TestValidationMessages(t *testing.T) {
	tests := []struct {
		name     string
		data     priceRequest
		expected string
	}{
		{
			name:     "required",
			data:     priceRequest{CheckIn: "2024-06-01"},
			expected: "PricePerNight is required",
		},
		{
			name:     "money",
			data:     priceRequest{PricePerNight: "1.234", CheckIn: "2024-06-01"},
			expected: "PricePerNight must be a positive amount with at most two decimals",
		},
		{
			name:     "date",
			data:     priceRequest{PricePerNight: "10", CheckIn: "06/01/2024"},
			expected: "CheckIn must be a date formatted as YYYY-MM-DD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.data)

			assert.EqualError(t, err, tt.expected)
		})
	}
}
