package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"hotel/shared/failure"

	"github.com/stretchr/testify/assert"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Message: "test error message",
	}

	assert.Equal(t, "test error message", f.Error())
}

func TestConstructors(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantKind string
		wantMsg  string
	}{
		{
			name:     "bad request from error",
			err:      failure.BadRequest(cause),
			wantCode: http.StatusBadRequest,
			wantKind: failure.KindBadRequest,
			wantMsg:  "boom",
		},
		{
			name:     "bad request from string",
			err:      failure.BadRequestFromString("custom bad request"),
			wantCode: http.StatusBadRequest,
			wantKind: failure.KindBadRequest,
			wantMsg:  "custom bad request",
		},
		{
			name:     "unauthorized",
			err:      failure.Unauthorized("missing api key"),
			wantCode: http.StatusUnauthorized,
			wantKind: failure.KindUnauthorized,
			wantMsg:  "missing api key",
		},
		{
			name:     "internal",
			err:      failure.InternalError(cause),
			wantCode: http.StatusInternalServerError,
			wantKind: failure.KindInternal,
			wantMsg:  "boom",
		},
		{
			name:     "store",
			err:      failure.Store(cause),
			wantCode: http.StatusInternalServerError,
			wantKind: failure.KindStore,
			wantMsg:  "boom",
		},
		{
			name:     "not found",
			err:      failure.NotFound("booking not found"),
			wantCode: http.StatusNotFound,
			wantKind: failure.KindNotFound,
			wantMsg:  "booking not found",
		},
		{
			name:     "conflict",
			err:      failure.Conflict("room already taken"),
			wantCode: http.StatusConflict,
			wantKind: failure.KindConflict,
			wantMsg:  "room already taken",
		},
		{
			name:     "forbidden",
			err:      failure.Forbidden("Access denied"),
			wantCode: http.StatusForbidden,
			wantKind: failure.KindForbidden,
			wantMsg:  "Access denied",
		},
		{
			name:     "custom kind",
			err:      failure.New(http.StatusConflict, "overlap", "dates taken", []string{"HJ-20240601-AAAA"}),
			wantCode: http.StatusConflict,
			wantKind: "overlap",
			wantMsg:  "dates taken",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, failure.GetCode(tt.err))
			assert.Equal(t, tt.wantKind, failure.GetKind(tt.err))
			assert.Equal(t, tt.wantMsg, tt.err.Error())
		})
	}
}

func TestNilConstructors(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
	assert.NoError(t, failure.InternalError(nil))
	assert.NoError(t, failure.Store(nil))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := failure.Store(cause)

	assert.ErrorIs(t, err, cause)
}

func TestGetters(t *testing.T) {
	details := map[string]string{"field": "guests"}
	wrapped := fmt.Errorf("failed to admit booking: %w", failure.New(http.StatusBadRequest, "guest_count", "too many guests", details))

	tests := []struct {
		name        string
		input       error
		wantCode    int
		wantKind    string
		wantDetails any
	}{
		{
			name:        "wrapped failure",
			input:       wrapped,
			wantCode:    http.StatusBadRequest,
			wantKind:    "guest_count",
			wantDetails: details,
		},
		{
			name:     "regular error",
			input:    errors.New("regular error"),
			wantCode: http.StatusInternalServerError,
			wantKind: failure.KindInternal,
		},
		{
			name:     "nil error",
			input:    nil,
			wantCode: http.StatusInternalServerError,
			wantKind: failure.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, failure.GetCode(tt.input))
			assert.Equal(t, tt.wantKind, failure.GetKind(tt.input))
			assert.Equal(t, tt.wantDetails, failure.GetDetails(tt.input))
		})
	}
}

func TestPredefinedFailures(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, failure.InvalidPageParam.Code)
	assert.Equal(t, http.StatusBadRequest, failure.InvalidLimitParam.Code)
	assert.Equal(t, http.StatusForbidden, failure.ForbiddenError.Code)
}
