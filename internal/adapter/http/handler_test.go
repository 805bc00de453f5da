package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/Abdurahmanit/GroupProject/advert-service/internal/advert/domain"
	"github.com/Abdurahmanit/GroupProject/advert-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) Search(ctx context.Context, params url.Values) (*domain.SearchResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SearchResult), args.Error(1)
}

func (m *MockSearchService) CategoryDescendants(ctx context.Context, categoryID string) ([]string, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func serve(t *testing.T, svc SearchService, target string) *httptest.ResponseRecorder {
	t.Helper()
	log := logger.NewNop()
	router := NewRouter(NewHandler(svc, log), log)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleSearch_OK(t *testing.T) {
	svc := new(MockSearchService)
	result := &domain.SearchResult{
		Data:       []domain.AdvertisementView{{ID: "a1", Title: "Phone repair", Tags: []domain.TagSummary{}}},
		Pagination: domain.Pagination{Page: 1, Limit: 10, Total: 1, Pages: 1},
		Filters:    &domain.FilterSpec{Page: 1, Limit: 10},
		PlanID:     "plan-1",
	}
	svc.On("Search", mock.Anything, url.Values{"type": {"service"}, "tagId": {"t1", "t2"}}).Return(result, nil).Once()

	rec := serve(t, svc, "/api/v1/advertisements?type=service&tagId=t1&tagId=t2")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "plan-1", rec.Header().Get(planIDHeader))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "data")
	assert.Contains(t, body, "pagination")
	assert.Contains(t, body, "filters")
	assert.NotContains(t, body, "PlanID")

	var page domain.Pagination
	require.NoError(t, json.Unmarshal(body["pagination"], &page))
	assert.Equal(t, result.Pagination, page)
	svc.AssertExpectations(t)
}

func TestHandleSearch_ErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  int
		wantField string
	}{
		{"invalid parameter", domain.NewInvalidParameter("minRating", "9", "must be between 0 and 5"), http.StatusBadRequest, "minRating"},
		{"upstream", domain.UpstreamError("find advertisements", errors.New("connection refused")), http.StatusServiceUnavailable, ""},
		{"timeout", fmt.Errorf("search: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, ""},
		{"upstream timeout", domain.UpstreamError("count advertisements", context.DeadlineExceeded), http.StatusGatewayTimeout, ""},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockSearchService)
			svc.On("Search", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			rec := serve(t, svc, "/api/v1/advertisements")

			assert.Equal(t, tt.wantCode, rec.Code)
			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
			assert.Equal(t, tt.wantField, body.Field)
			assert.Empty(t, rec.Header().Get(planIDHeader))
		})
	}
}

func TestHandleSearch_UpstreamDetailsNotLeaked(t *testing.T) {
	svc := new(MockSearchService)
	svc.On("Search", mock.Anything, mock.Anything).
		Return(nil, domain.UpstreamError("find advertisements", errors.New("auth failed for user admin"))).Once()

	rec := serve(t, svc, "/api/v1/advertisements")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "admin")
}

func TestHandleCategoryDescendants(t *testing.T) {
	svc := new(MockSearchService)
	svc.On("CategoryDescendants", mock.Anything, "c1").Return([]string{"c1", "c2", "c3"}, nil).Once()

	rec := serve(t, svc, "/api/v1/categories/c1/descendants")

	require.Equal(t, http.StatusOK, rec.Code)
	var body descendantsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, descendantsResponse{CategoryID: "c1", Descendants: []string{"c1", "c2", "c3"}, Count: 3}, body)
}

func TestHandleCategoryDescendants_NotFound(t *testing.T) {
	svc := new(MockSearchService)
	svc.On("CategoryDescendants", mock.Anything, "missing").Return(nil, domain.ErrCategoryNotFound).Once()

	rec := serve(t, svc, "/api/v1/categories/missing/descendants")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthz(t *testing.T) {
	rec := serve(t, new(MockSearchService), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
