package dto_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"hotel/shared/constant"
	"hotel/shared/dto"
	"hotel/shared/model"
	"hotel/shared/timezone"

	"github.com/stretchr/testify/assert"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt := time.Date(2024, 5, 20, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		metadata model.Metadata
		expected dto.Metadata
	}{
		{
			name:     "created by a guest",
			metadata: model.NewMetadata(createdAt, constant.ActorGuest),
			expected: dto.Metadata{
				CreatedAt:  timezone.Format(createdAt, constant.DateFormat),
				ModifiedAt: timezone.Format(createdAt, constant.DateFormat),
				CreatedBy:  constant.ActorGuest,
				ModifiedBy: constant.ActorGuest,
			},
		},
		{
			name:     "never modified",
			metadata: model.Metadata{CreatedAt: createdAt, CreatedBy: constant.ActorStaff},
			expected: dto.Metadata{
				CreatedAt: timezone.Format(createdAt, constant.DateFormat),
				CreatedBy: constant.ActorStaff,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var metadata dto.Metadata
			metadata.FromModel(tt.metadata)

			assert.Equal(t, tt.expected, metadata)
		})
	}
}

func TestQueryParams_FromRequest(t *testing.T) {
	sortable := []string{"check_in", "created_at"}

	tests := []struct {
		name           string
		query          string
		defaultRequest bool
		expected       dto.QueryParams
		expectedOffset int
	}{
		{
			name:           "all parameters",
			query:          "page=3&limit=20&sort_by=check_in&sort_dir=asc",
			expected:       dto.QueryParams{Page: 3, Limit: 20, SortBy: "check_in", SortDir: dto.SortDirAsc},
			expectedOffset: 40,
		},
		{
			name:           "defaults",
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "no defaults",
			expected: dto.QueryParams{},
		},
		{
			name:           "invalid numbers fall back to defaults",
			query:          "page=-1&limit=ten",
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:           "limit is capped",
			query:          "page=2&limit=5000",
			expected:       dto.QueryParams{Page: 2, Limit: constant.MaxValueLimit},
			expectedOffset: constant.MaxValueLimit,
		},
		{
			name:     "unlisted sort column is ignored",
			query:    "sort_by=guest_email%3BDROP%20TABLE%20bookings&sort_dir=DESC",
			expected: dto.QueryParams{SortDir: dto.SortDirDesc},
		},
		{
			name:     "unknown sort direction is ignored",
			query:    "sort_by=created_at&sort_dir=sideways",
			expected: dto.QueryParams{SortBy: "created_at"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/bookings?"+tt.query, nil)

			var params dto.QueryParams
			params.FromRequest(req, tt.defaultRequest, sortable...)

			assert.Equal(t, tt.expected, params)
			assert.Equal(t, tt.expectedOffset, params.Offset())
		})
	}
}
