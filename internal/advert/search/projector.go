package search

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/advert-service/internal/advert/domain"
	"golang.org/x/sync/errgroup"
)

// Projector turns plan rows into the public advertisement shape. Rows the plan
// left unresolved get their references batch-read first, so both plans end in
// the same mapping.
type Projector struct {
	refs domain.ReferenceReader
}

func NewProjector(refs domain.ReferenceReader) *Projector {
	return &Projector{refs: refs}
}

func (p *Projector) Project(ctx context.Context, records []*domain.AdvertRecord) ([]domain.AdvertisementView, error) {
	if err := p.resolve(ctx, records); err != nil {
		return nil, err
	}
	views := make([]domain.AdvertisementView, 0, len(records))
	for _, rec := range records {
		views = append(views, toView(rec))
	}
	return views, nil
}

func (p *Projector) resolve(ctx context.Context, records []*domain.AdvertRecord) error {
	owners, categories, tags, profiles := newIDSet(0), newIDSet(0), newIDSet(0), newIDSet(0)
	pending := make([]*domain.AdvertRecord, 0, len(records))
	for _, rec := range records {
		if rec.Resolved {
			continue
		}
		pending = append(pending, rec)
		a := rec.Advert
		if a.OwnerID != "" {
			owners.add(a.OwnerID)
		}
		if a.CategoryID != "" {
			categories.add(a.CategoryID)
		}
		if a.ProfileID != "" {
			profiles.add(a.ProfileID)
		}
		tags.addAll(a.Tags)
	}
	if len(pending) == 0 {
		return nil
	}

	var (
		users    map[string]*domain.UserSummary
		cats     map[string]*domain.Category
		tagDocs  map[string]*domain.Tag
		profDocs map[string]*domain.Profile
	)
	g, gctx := errgroup.WithContext(ctx)
	if len(owners.ids) > 0 {
		g.Go(func() (err error) {
			users, err = p.refs.UsersByIDs(gctx, owners.ids)
			return err
		})
	}
	if len(categories.ids) > 0 {
		g.Go(func() (err error) {
			cats, err = p.refs.CategoriesByIDs(gctx, categories.ids)
			return err
		})
	}
	if len(tags.ids) > 0 {
		g.Go(func() (err error) {
			tagDocs, err = p.refs.TagsByIDs(gctx, tags.ids)
			return err
		})
	}
	if len(profiles.ids) > 0 {
		g.Go(func() (err error) {
			profDocs, err = p.refs.ProfilesByIDs(gctx, profiles.ids)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, rec := range pending {
		a := rec.Advert
		rec.Owner = users[a.OwnerID]
		rec.Category = cats[a.CategoryID]
		rec.Profile = profDocs[a.ProfileID]
		rec.Tags = rec.Tags[:0]
		for _, id := range a.Tags {
			if t, ok := tagDocs[id]; ok {
				rec.Tags = append(rec.Tags, *t)
			}
		}
		rec.Resolved = true
	}
	return nil
}

func toView(rec *domain.AdvertRecord) domain.AdvertisementView {
	a := rec.Advert
	v := domain.AdvertisementView{
		ID:               a.ID,
		Title:            a.Title,
		Description:      a.Description,
		Type:             a.Type,
		Location:         a.Location,
		Coordinates:      a.Coordinates,
		IsActive:         a.IsActive,
		IsArchived:       a.IsArchived,
		IsUrgent:         a.IsUrgent,
		Views:            a.Views,
		ApplicationCount: a.ApplicationCount,
		Rating:           a.Rating,
		ExpiresAt:        a.ExpiresAt,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
		Tags:             []domain.TagSummary{},
	}
	if rec.Owner != nil {
		v.Owner = &domain.OwnerSummary{ID: rec.Owner.ID, Name: rec.Owner.Name, Email: rec.Owner.Email}
	}
	if rec.Category != nil {
		v.Category = &domain.CategorySummary{ID: rec.Category.ID, Name: rec.Category.Name, Description: rec.Category.Description}
	}
	if rec.Profile != nil {
		v.Profile = &domain.ProfileSummary{ID: rec.Profile.ID, Name: rec.Profile.Name}
	}

	// Tag order follows the advertisement, not the order the store returned them in.
	byID := make(map[string]domain.Tag, len(rec.Tags))
	for _, t := range rec.Tags {
		byID[t.ID] = t
	}
	for _, id := range a.Tags {
		if t, ok := byID[id]; ok {
			v.Tags = append(v.Tags, domain.TagSummary{ID: t.ID, Name: t.Name})
		}
	}
	return v
}
