package search

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/advert-service/internal/advert/domain"
	"github.com/google/uuid"
)

type CategoryExpander interface {
	Resolve(ctx context.Context, ids []string, includeSubcategories bool) ([]string, error)
}

// SelectPlanKind picks the joined plan whenever a predicate depends on the profile collection.
func SelectPlanKind(spec *domain.FilterSpec) domain.PlanKind {
	if spec.HasPortfolioFilter() || len(spec.Languages) > 0 || spec.HasAuthorRating() {
		return domain.PlanJoined
	}
	return domain.PlanSimple
}

type Planner struct {
	categories CategoryExpander
}

func NewPlanner(categories CategoryExpander) *Planner {
	return &Planner{categories: categories}
}

func (p *Planner) Build(ctx context.Context, spec *domain.FilterSpec) (*domain.QueryPlan, error) {
	categoryIDs, err := p.categories.Resolve(ctx, spec.CategoryIDs, spec.IncludeSubcategories)
	if err != nil {
		return nil, err
	}

	plan := &domain.QueryPlan{
		ID:          uuid.NewString(),
		Kind:        SelectPlanKind(spec),
		Filter:      spec,
		CategoryIDs: categoryIDs,
		Tags:        ResolveTags(spec.TagIDs, spec.TagOperator),
		Geo:         BuildGeoCap(spec),
		Sort:        domain.SortSpec{Field: spec.SortBy, Order: spec.SortOrder},
		Page:        domain.PageRequest{Page: spec.Page, Limit: spec.Limit},
	}
	if plan.Kind == domain.PlanJoined {
		plan.Join = &domain.ProfileJoin{
			Portfolio:       spec.HasPortfolio,
			Languages:       append([]string(nil), spec.Languages...),
			MinAuthorRating: spec.MinAuthorRating,
			MaxAuthorRating: spec.MaxAuthorRating,
		}
	}
	return plan, nil
}

// NewPagination derives the page envelope from one total, whichever plan produced it.
func NewPagination(page, limit int, total int64) domain.Pagination {
	if limit < 1 {
		limit = 1
	}
	if page < 1 {
		page = 1
	}
	l := int64(limit)
	return domain.Pagination{
		Page:    page,
		Limit:   limit,
		Total:   total,
		Pages:   (total + l - 1) / l,
		HasNext: int64(page)*l < total,
		HasPrev: page > 1,
	}
}
