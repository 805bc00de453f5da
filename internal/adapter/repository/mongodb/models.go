package mongodb

import (
	"time"

	"github.com/Abdurahmanit/GroupProject/advert-service/internal/advert/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	advertsCollection    = "advertisements"
	categoriesCollection = "categories"
	tagsCollection       = "tags"
	profilesCollection   = "profiles"
	usersCollection      = "users"
)

// geoPointDocument is a GeoJSON point; coordinates are [longitude, latitude].
type geoPointDocument struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

type ratingDocument struct {
	Average float64 `bson:"average"`
	Count   int64   `bson:"count"`
}

type advertDocument struct {
	ID                  primitive.ObjectID   `bson:"_id,omitempty"`
	Title               string               `bson:"title"`
	Description         string               `bson:"description"`
	OwnerID             primitive.ObjectID   `bson:"ownerId"`
	ProfileID           *primitive.ObjectID  `bson:"profileId,omitempty"`
	CategoryID          primitive.ObjectID   `bson:"categoryId"`
	Tags                []primitive.ObjectID `bson:"tags"`
	Type                string               `bson:"type"`
	Location            string               `bson:"location,omitempty"`
	Coordinates         *geoPointDocument    `bson:"coordinates,omitempty"`
	ExchangePreferences string               `bson:"exchangePreferences,omitempty"`
	SearchVector        string               `bson:"searchVector,omitempty"`
	IsActive            bool                 `bson:"isActive"`
	IsArchived          bool                 `bson:"isArchived"`
	IsHidden            bool                 `bson:"isHidden"`
	ReportedCount       int64                `bson:"reportedCount"`
	Views               int64                `bson:"views"`
	ApplicationCount    int64                `bson:"applicationCount"`
	Rating              ratingDocument       `bson:"rating"`
	IsUrgent            bool                 `bson:"isUrgent"`
	ExpiresAt           *time.Time           `bson:"expiresAt,omitempty"`
	CreatedAt           time.Time            `bson:"createdAt"`
	UpdatedAt           time.Time            `bson:"updatedAt"`
}

// joinedAdvertDocument is one row of the joined page pipeline, references embedded.
type joinedAdvertDocument struct {
	advertDocument `bson:",inline"`
	Owner          []userDocument     `bson:"_owner"`
	Category       []categoryDocument `bson:"_category"`
	TagDocs        []tagDocument      `bson:"_tags"`
	Profile        []profileDocument  `bson:"_profileRef"`
}

type categoryDocument struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty"`
	Name        string              `bson:"name"`
	Description string              `bson:"description,omitempty"`
	ParentID    *primitive.ObjectID `bson:"parentId"`
	Level       int                 `bson:"level"`
}

type tagDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	IsActive bool               `bson:"isActive"`
}

type portfolioDocument struct {
	Title       string `bson:"title"`
	Description string `bson:"description,omitempty"`
	URL         string `bson:"url,omitempty"`
}

type languageDocument struct {
	Language string `bson:"language"`
	Level    string `bson:"level,omitempty"`
}

type profileDocument struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty"`
	UserID    primitive.ObjectID  `bson:"userId"`
	Name      string              `bson:"name"`
	Portfolio []portfolioDocument `bson:"portfolio"`
	Languages []languageDocument  `bson:"languages"`
	Rating    ratingDocument      `bson:"rating"`
}

type userDocument struct {
	ID    primitive.ObjectID `bson:"_id,omitempty"`
	Name  string             `bson:"name"`
	Email string             `bson:"email"`
}

func toDomainAdvert(d *advertDocument) *domain.Advertisement {
	a := &domain.Advertisement{
		ID:               d.ID.Hex(),
		Title:            d.Title,
		Description:      d.Description,
		OwnerID:          hexOrEmpty(d.OwnerID),
		CategoryID:       hexOrEmpty(d.CategoryID),
		Type:             domain.AdvertType(d.Type),
		Location:         d.Location,
		IsActive:         d.IsActive,
		IsArchived:       d.IsArchived,
		IsHidden:         d.IsHidden,
		Views:            d.Views,
		ApplicationCount: d.ApplicationCount,
		Rating:           domain.Rating{Average: d.Rating.Average, Count: d.Rating.Count},
		IsUrgent:         d.IsUrgent,
		ExpiresAt:        d.ExpiresAt,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
	if d.ProfileID != nil {
		a.ProfileID = d.ProfileID.Hex()
	}
	if d.Coordinates != nil && len(d.Coordinates.Coordinates) == 2 {
		a.Coordinates = &domain.GeoPoint{Longitude: d.Coordinates.Coordinates[0], Latitude: d.Coordinates.Coordinates[1]}
	}
	for _, id := range d.Tags {
		a.Tags = append(a.Tags, id.Hex())
	}
	return a
}

func toDomainJoined(d *joinedAdvertDocument) *domain.AdvertRecord {
	rec := &domain.AdvertRecord{Advert: toDomainAdvert(&d.advertDocument), Resolved: true}
	if len(d.Owner) > 0 {
		rec.Owner = toDomainUser(&d.Owner[0])
	}
	if len(d.Category) > 0 {
		rec.Category = toDomainCategory(&d.Category[0])
	}
	if len(d.Profile) > 0 {
		rec.Profile = toDomainProfile(&d.Profile[0])
	}
	for i := range d.TagDocs {
		rec.Tags = append(rec.Tags, *toDomainTag(&d.TagDocs[i]))
	}
	return rec
}

func toDomainCategory(d *categoryDocument) *domain.Category {
	c := &domain.Category{ID: d.ID.Hex(), Name: d.Name, Description: d.Description, Level: d.Level}
	if d.ParentID != nil {
		c.ParentID = d.ParentID.Hex()
	}
	return c
}

func toDomainTag(d *tagDocument) *domain.Tag {
	return &domain.Tag{ID: d.ID.Hex(), Name: d.Name, IsActive: d.IsActive}
}

func toDomainProfile(d *profileDocument) *domain.Profile {
	p := &domain.Profile{
		ID:     d.ID.Hex(),
		UserID: hexOrEmpty(d.UserID),
		Name:   d.Name,
		Rating: domain.Rating{Average: d.Rating.Average, Count: d.Rating.Count},
	}
	for _, e := range d.Portfolio {
		p.Portfolio = append(p.Portfolio, domain.PortfolioEntry{Title: e.Title, Description: e.Description, URL: e.URL})
	}
	for _, l := range d.Languages {
		p.Languages = append(p.Languages, domain.LanguageSkill{Language: l.Language, Level: l.Level})
	}
	return p
}

func toDomainUser(d *userDocument) *domain.UserSummary {
	return &domain.UserSummary{ID: d.ID.Hex(), Name: d.Name, Email: d.Email}
}

func hexOrEmpty(id primitive.ObjectID) string {
	if id.IsZero() {
		return ""
	}
	return id.Hex()
}

// idValue converts a hex id to an ObjectID. Anything else is kept as a string,
// which can never equal a stored ObjectID, so bad ids match nothing instead of failing.
func idValue(id string) interface{} {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}

func idValues(ids []string) []interface{} {
	out := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		out = append(out, idValue(id))
	}
	return out
}

func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}
