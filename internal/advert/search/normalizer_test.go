package search

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/advert-service/internal/advert/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Defaults(t *testing.T) {
	spec, err := NewNormalizer().Normalize(url.Values{})
	require.NoError(t, err)

	assert.Equal(t, domain.TriTrue, spec.IsActive)
	assert.Equal(t, domain.TriUnset, spec.IsArchived)
	assert.Equal(t, domain.TriUnset, spec.HasPortfolio)
	assert.Equal(t, domain.TagOperatorOr, spec.TagOperator)
	assert.Equal(t, 1, spec.Page)
	assert.Equal(t, 10, spec.Limit)
	assert.Equal(t, domain.SortByCreatedAt, spec.SortBy)
	assert.Equal(t, domain.SortDesc, spec.SortOrder)
	assert.Equal(t, 10000.0, spec.MaxDistance)
	assert.False(t, spec.IncludeSubcategories)
	assert.Nil(t, spec.CategoryIDs)
	assert.False(t, spec.HasGeo())
}

func TestNormalize_ParsesTypedFields(t *testing.T) {
	q := url.Values{
		"search":               {"  guitar lessons "},
		"type":                 {"Service"},
		"categoryId":           {"c1", "c2", "c1"},
		"includeSubcategories": {"true"},
		"tagId[]":              {"t1", "t2"},
		"tagOperator":          {"AND"},
		"isUrgent":             {"false"},
		"isActive":             {"any"},
		"isArchived":           {"false"},
		"minRating":            {"3.5"},
		"maxViews":             {"100"},
		"expiresAfter":         {"2024-01-02T03:04:05Z"},
		"minCreatedAt":         {"2024-01-01"},
		"longitude":            {"-74.0060"},
		"latitude":             {"40.7128"},
		"maxDistance":          {"500"},
		"hasPortfolio":         {"true"},
		"languages":            {"English", " french "},
		"sortBy":               {"rating.average"},
		"sortOrder":            {"asc"},
		"page":                 {"3"},
		"limit":                {"25"},
	}

	spec, err := NewNormalizer().Normalize(q)
	require.NoError(t, err)

	assert.Equal(t, "guitar lessons", spec.Search)
	assert.Equal(t, domain.TypeService, spec.Type)
	assert.Equal(t, []string{"c1", "c2"}, spec.CategoryIDs)
	assert.True(t, spec.IncludeSubcategories)
	assert.Equal(t, []string{"t1", "t2"}, spec.TagIDs)
	assert.Equal(t, domain.TagOperatorAnd, spec.TagOperator)
	require.NotNil(t, spec.IsUrgent)
	assert.False(t, *spec.IsUrgent)
	assert.Equal(t, domain.TriAny, spec.IsActive)
	assert.Equal(t, domain.TriFalse, spec.IsArchived)
	assert.InDelta(t, 3.5, *spec.MinRating, 1e-9)
	assert.InDelta(t, 100, *spec.MaxViews, 1e-9)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), *spec.ExpiresAfter)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *spec.MinCreatedAt)
	assert.True(t, spec.HasGeo())
	assert.Equal(t, 500.0, spec.MaxDistance)
	assert.Equal(t, domain.TriTrue, spec.HasPortfolio)
	assert.Equal(t, []string{"English", "french"}, spec.Languages)
	assert.Equal(t, domain.SortByRating, spec.SortBy)
	assert.Equal(t, domain.SortAsc, spec.SortOrder)
	assert.Equal(t, 3, spec.Page)
	assert.Equal(t, 25, spec.Limit)
}

func TestNormalize_InvalidParameters(t *testing.T) {
	long := make([]byte, 51)
	for i := range long {
		long[i] = 'a'
	}

	cases := []struct {
		name  string
		query url.Values
		field string
	}{
		{"non numeric rating", url.Values{"minRating": {"high"}}, "minRating"},
		{"rating out of range", url.Values{"maxRating": {"7"}}, "maxRating"},
		{"negative views", url.Values{"minViews": {"-1"}}, "minViews"},
		{"nan distance", url.Values{"maxDistance": {"NaN"}}, "maxDistance"},
		{"zero distance", url.Values{"maxDistance": {"0"}}, "maxDistance"},
		{"bad longitude", url.Values{"longitude": {"east"}}, "longitude"},
		{"latitude out of range", url.Values{"latitude": {"91"}}, "latitude"},
		{"bad date", url.Values{"expiresBefore": {"tomorrow"}}, "expiresBefore"},
		{"bad created date", url.Values{"maxCreatedAt": {"2024-13-45"}}, "maxCreatedAt"},
		{"bad tri-state", url.Values{"isActive": {"maybe"}}, "isActive"},
		{"bad portfolio tri-state", url.Values{"hasPortfolio": {"yes"}}, "hasPortfolio"},
		{"bad tag operator", url.Values{"tagOperator": {"xor"}}, "tagOperator"},
		{"unknown sort field", url.Values{"sortBy": {"price"}}, "sortBy"},
		{"bad sort order", url.Values{"sortOrder": {"up"}}, "sortOrder"},
		{"bad type", url.Values{"type": {"vehicle"}}, "type"},
		{"bad boolean", url.Values{"includeSubcategories": {"sometimes"}}, "includeSubcategories"},
		{"language too long", url.Values{"languages": {string(long)}}, "languages"},
		{"inverted author rating", url.Values{"minAuthorRating": {"4"}, "maxAuthorRating": {"2"}}, "minAuthorRating"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec, err := NewNormalizer().Normalize(tc.query)
			require.Error(t, err)
			assert.Nil(t, spec)
			assert.True(t, errors.Is(err, domain.ErrInvalidParameter))

			var ipe *domain.InvalidParameterError
			require.True(t, errors.As(err, &ipe))
			assert.Equal(t, tc.field, ipe.Field)
		})
	}
}

func TestNormalize_PagingIsClampedNotRejected(t *testing.T) {
	cases := []struct {
		page, limit           string
		wantPage, wantLimit int
	}{
		{"0", "0", 1, 1},
		{"-4", "1000", 1, 100},
		{"abc", "xyz", 1, 10},
		{"2", "100", 2, 100},
		{"7", "1", 7, 1},
	}
	for _, tc := range cases {
		spec, err := NewNormalizer().Normalize(url.Values{"page": {tc.page}, "limit": {tc.limit}})
		require.NoError(t, err)
		assert.Equal(t, tc.wantPage, spec.Page, "page=%s", tc.page)
		assert.Equal(t, tc.wantLimit, spec.Limit, "limit=%s", tc.limit)
	}
}

func TestNormalize_MaxDistanceAloneDoesNotEnableGeo(t *testing.T) {
	spec, err := NewNormalizer().Normalize(url.Values{"maxDistance": {"250"}, "longitude": {"10"}})
	require.NoError(t, err)
	assert.False(t, spec.HasGeo())
	assert.Nil(t, BuildGeoCap(spec))
}

func TestNormalize_SingleValuesBecomeLists(t *testing.T) {
	spec, err := NewNormalizer().Normalize(url.Values{"categoryId": {"c1"}, "tagId": {"t1"}, "languages": {"German"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, spec.CategoryIDs)
	assert.Equal(t, []string{"t1"}, spec.TagIDs)
	assert.Equal(t, []string{"German"}, spec.Languages)
}
