package domain

import (
	"encoding/json"
	"time"
)

// TriState is a flag that may be forced true, forced false, or explicitly ignored.
type TriState int

const (
	TriUnset TriState = iota
	TriTrue
	TriFalse
	TriAny
)

func (t TriState) String() string {
	switch t {
	case TriTrue:
		return "true"
	case TriFalse:
		return "false"
	case TriAny:
		return "any"
	}
	return ""
}

func (t TriState) MarshalJSON() ([]byte, error) {
	if t == TriUnset {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

// Bool reports the value to filter on. ok is false when no predicate applies.
func (t TriState) Bool() (value bool, ok bool) {
	switch t {
	case TriTrue:
		return true, true
	case TriFalse:
		return false, true
	}
	return false, false
}

type TagOperator string

const (
	TagOperatorOr  TagOperator = "or"
	TagOperatorAnd TagOperator = "and"
)

type SortField string

const (
	SortByCreatedAt        SortField = "createdAt"
	SortByUpdatedAt        SortField = "updatedAt"
	SortByTitle            SortField = "title"
	SortByViews            SortField = "views"
	SortByExpiresAt        SortField = "expiresAt"
	SortByRating           SortField = "rating.average"
	SortByApplicationCount SortField = "applicationCount"
)

var sortFields = map[SortField]struct{}{
	SortByCreatedAt:        {},
	SortByUpdatedAt:        {},
	SortByTitle:            {},
	SortByViews:            {},
	SortByExpiresAt:        {},
	SortByRating:           {},
	SortByApplicationCount: {},
}

func (f SortField) Allowed() bool {
	_, ok := sortFields[f]
	return ok
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const (
	DefaultPage        = 1
	DefaultLimit       = 10
	MaxLimit           = 100
	DefaultMaxDistance = 10000.0
	MaxLanguageLength  = 50
)

// FilterSpec is the validated form of one request's search parameters.
// It is built once by the normalizer and treated as read-only afterwards.
type FilterSpec struct {
	Search               string      `json:"search,omitempty"`
	Type                 AdvertType  `json:"type,omitempty"`
	CategoryIDs          []string    `json:"categoryId,omitempty"`
	IncludeSubcategories bool        `json:"includeSubcategories"`
	TagIDs               []string    `json:"tagId,omitempty"`
	TagOperator          TagOperator `json:"tagOperator"`
	Location             string      `json:"location,omitempty"`
	IsUrgent             *bool       `json:"isUrgent,omitempty"`
	IsActive             TriState    `json:"isActive,omitempty"`
	IsArchived           TriState    `json:"isArchived,omitempty"`
	OwnerID              string      `json:"ownerId,omitempty"`
	ProfileID            string      `json:"profileId,omitempty"`

	MinRating       *float64 `json:"minRating,omitempty"`
	MaxRating       *float64 `json:"maxRating,omitempty"`
	MinViews        *float64 `json:"minViews,omitempty"`
	MaxViews        *float64 `json:"maxViews,omitempty"`
	MinApplications *float64 `json:"minApplications,omitempty"`
	MaxApplications *float64 `json:"maxApplications,omitempty"`

	ExpiresBefore *time.Time `json:"expiresBefore,omitempty"`
	ExpiresAfter  *time.Time `json:"expiresAfter,omitempty"`
	MinCreatedAt  *time.Time `json:"minCreatedAt,omitempty"`
	MaxCreatedAt  *time.Time `json:"maxCreatedAt,omitempty"`

	MinAuthorRating *float64 `json:"minAuthorRating,omitempty"`
	MaxAuthorRating *float64 `json:"maxAuthorRating,omitempty"`

	Longitude   *float64 `json:"longitude,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	MaxDistance float64  `json:"maxDistance"`

	HasPortfolio TriState `json:"hasPortfolio,omitempty"`
	Languages    []string `json:"languages,omitempty"`

	Page      int       `json:"page"`
	Limit     int       `json:"limit"`
	SortBy    SortField `json:"sortBy"`
	SortOrder SortOrder `json:"sortOrder"`
}

func (f *FilterSpec) HasGeo() bool {
	return f.Longitude != nil && f.Latitude != nil
}

func (f *FilterSpec) HasAuthorRating() bool {
	return f.MinAuthorRating != nil || f.MaxAuthorRating != nil
}

func (f *FilterSpec) HasPortfolioFilter() bool {
	return f.HasPortfolio != TriUnset
}
