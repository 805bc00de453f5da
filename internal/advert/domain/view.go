package domain

import "time"

type OwnerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CategorySummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type TagSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ProfileSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AdvertisementView is the externally visible advertisement.
type AdvertisementView struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Type             AdvertType       `json:"type"`
	Location         string           `json:"location,omitempty"`
	Coordinates      *GeoPoint        `json:"coordinates,omitempty"`
	IsActive         bool             `json:"isActive"`
	IsArchived       bool             `json:"isArchived"`
	IsUrgent         bool             `json:"isUrgent"`
	Views            int64            `json:"views"`
	ApplicationCount int64            `json:"applicationCount"`
	Rating           Rating           `json:"rating"`
	ExpiresAt        *time.Time       `json:"expiresAt,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
	Owner            *OwnerSummary    `json:"owner"`
	Category         *CategorySummary `json:"category"`
	Tags             []TagSummary     `json:"tags"`
	Profile          *ProfileSummary  `json:"profile"`
}

type Pagination struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	Pages   int64 `json:"pages"`
	HasNext bool  `json:"hasNext"`
	HasPrev bool  `json:"hasPrev"`
}

type SearchResult struct {
	Data       []AdvertisementView `json:"data"`
	Pagination Pagination          `json:"pagination"`
	Filters    *FilterSpec         `json:"filters"`
	PlanID     string              `json:"-"`
}
