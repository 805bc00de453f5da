package domain

import "time"

type AdvertType string

const (
	TypeService    AdvertType = "service"
	TypeGoods      AdvertType = "goods"
	TypeSkill      AdvertType = "skill"
	TypeExperience AdvertType = "experience"
)

func (t AdvertType) Valid() bool {
	switch t {
	case TypeService, TypeGoods, TypeSkill, TypeExperience:
		return true
	}
	return false
}

type GeoPoint struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

type Rating struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// Advertisement is the stored record as the engine reads it. The engine never writes it.
type Advertisement struct {
	ID               string
	Title            string
	Description      string
	OwnerID          string
	ProfileID        string
	CategoryID       string
	Tags             []string
	Type             AdvertType
	Location         string
	Coordinates      *GeoPoint
	IsActive         bool
	IsArchived       bool
	IsHidden         bool
	Views            int64
	ApplicationCount int64
	Rating           Rating
	IsUrgent         bool
	ExpiresAt        *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Category struct {
	ID          string
	Name        string
	Description string
	ParentID    string // empty for roots
	Level       int
}

type Tag struct {
	ID       string
	Name     string
	IsActive bool
}

type PortfolioEntry struct {
	Title       string
	Description string
	URL         string
}

type LanguageSkill struct {
	Language string
	Level    string
}

type Profile struct {
	ID        string
	UserID    string
	Name      string
	Portfolio []PortfolioEntry
	Languages []LanguageSkill
	Rating    Rating
}

type UserSummary struct {
	ID    string
	Name  string
	Email string
}

// AdvertRecord is one row of a plan's page. Resolved is set when the executing
// plan already embedded the references, so the projector must not fetch them again.
type AdvertRecord struct {
	Advert   *Advertisement
	Resolved bool
	Owner    *UserSummary
	Category *Category
	Tags     []Tag
	Profile  *Profile
}
