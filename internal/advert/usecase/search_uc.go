package usecase

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/Abdurahmanit/GroupProject/advert-service/internal/advert/domain"
	"github.com/Abdurahmanit/GroupProject/advert-service/internal/advert/search"
	"github.com/Abdurahmanit/GroupProject/advert-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/advert-service/internal/platform/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("advert-service/usecase")

// SearchUsecase is the single entry point every transport goes through, so
// predicate construction exists exactly once.
type SearchUsecase struct {
	normalizer *search.Normalizer
	planner    *search.Planner
	resolver   *search.CategoryResolver
	categories domain.CategoryReader
	repo       domain.AdvertSearchRepository
	projector  *search.Projector
	timeout    time.Duration
	metrics    *metrics.MetricsManager
	logger     *logger.Logger
}

func NewSearchUsecase(
	repo domain.AdvertSearchRepository,
	categories domain.CategoryReader,
	resolver *search.CategoryResolver,
	refs domain.ReferenceReader,
	timeout time.Duration,
	m *metrics.MetricsManager,
	log *logger.Logger,
) *SearchUsecase {
	return &SearchUsecase{
		normalizer: search.NewNormalizer(),
		planner:    search.NewPlanner(resolver),
		resolver:   resolver,
		categories: categories,
		repo:       repo,
		projector:  search.NewProjector(refs),
		timeout:    timeout,
		metrics:    m,
		logger:     log.Named("SearchUsecase"),
	}
}

// Search validates params before touching the store. A search that matches
// nothing returns an empty page, never an error.
func (uc *SearchUsecase) Search(ctx context.Context, params url.Values) (*domain.SearchResult, error) {
	ctx, span := tracer.Start(ctx, "SearchUsecase.Search")
	defer span.End()
	start := time.Now()

	spec, err := uc.normalizer.Normalize(params)
	if err != nil {
		uc.logger.Debug("Rejected search parameters", zap.Error(err))
		return nil, uc.failed(span, err)
	}

	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	plan, err := uc.planner.Build(ctx, spec)
	if err != nil {
		return nil, uc.failed(span, err)
	}
	span.SetAttributes(attribute.String("plan.id", plan.ID), attribute.String("plan.kind", plan.Kind.String()))

	var res *domain.PlanResult
	switch plan.Kind {
	case domain.PlanJoined:
		res, err = uc.repo.ExecuteJoined(ctx, plan)
	default:
		res, err = uc.repo.ExecuteSimple(ctx, plan)
	}
	if err != nil {
		return nil, uc.failed(span, err)
	}

	views, err := uc.projector.Project(ctx, res.Records)
	if err != nil {
		return nil, uc.failed(span, err)
	}

	result := &domain.SearchResult{
		Data:       views,
		Pagination: search.NewPagination(spec.Page, spec.Limit, res.Total),
		Filters:    spec,
		PlanID:     plan.ID,
	}

	elapsed := time.Since(start)
	uc.metrics.ObserveSearch(plan.Kind.String(), elapsed)
	uc.logger.Debug("Search completed",
		zap.String("plan_id", plan.ID),
		zap.Stringer("plan", plan.Kind),
		zap.Int64("total", res.Total),
		zap.Int("returned", len(views)),
		zap.Duration("elapsed", elapsed),
	)
	return result, nil
}

// CategoryDescendants returns the category and all of its descendants.
func (uc *SearchUsecase) CategoryDescendants(ctx context.Context, categoryID string) ([]string, error) {
	ctx, span := tracer.Start(ctx, "SearchUsecase.CategoryDescendants", trace.WithAttributes(attribute.String("category.id", categoryID)))
	defer span.End()

	if _, err := uc.categories.FindByID(ctx, categoryID); err != nil {
		if !errors.Is(err, domain.ErrCategoryNotFound) {
			span.RecordError(err)
		}
		return nil, err
	}
	ids, err := uc.resolver.Descendants(ctx, categoryID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return ids, nil
}

func (uc *SearchUsecase) failed(span trace.Span, err error) error {
	kind := ErrorKind(err)
	uc.metrics.IncSearchError(kind)
	span.SetAttributes(attribute.String("error.kind", kind))
	if kind != "invalid_parameter" {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		uc.logger.Error("Search failed", zap.String("error_kind", kind), zap.Error(err))
	}
	return err
}

// ErrorKind classifies search errors for metrics and transport mapping.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidParameter):
		return "invalid_parameter"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, domain.ErrUpstreamFailure):
		return "upstream"
	case errors.Is(err, domain.ErrCategoryNotFound):
		return "not_found"
	}
	return "internal"
}
