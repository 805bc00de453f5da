package mongodb

import (
	"context"
	"time"

	"github.com/Abdurahmanit/GroupProject/advert-service/internal/advert/domain"
	"github.com/Abdurahmanit/GroupProject/advert-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("advert-service/mongodb")

// AdvertSearchRepository executes query plans. It only ever reads.
type AdvertSearchRepository struct {
	db            *mongo.Database
	collection    *mongo.Collection
	hideThreshold int64
	logger        *logger.Logger
}

// NewAdvertSearchRepository makes sure the indexes the search relies on exist.
// hideThreshold > 0 hides advertisements reported at least that many times.
func NewAdvertSearchRepository(db *mongo.Database, hideThreshold int64, log *logger.Logger) *AdvertSearchRepository {
	repo := &AdvertSearchRepository{
		db:            db,
		collection:    db.Collection(advertsCollection),
		hideThreshold: hideThreshold,
		logger:        log.Named("AdvertSearchRepository"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repo.ensureIndexes(ctx); err != nil {
		repo.logger.Warn("Failed to create search indexes", zap.Error(err))
	} else {
		repo.logger.Info("Search indexes ensured")
	}
	return repo
}

func (r *AdvertSearchRepository) ensureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "coordinates", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "categoryId", Value: 1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
		{Keys: bson.D{{Key: "ownerId", Value: 1}}},
		{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "isArchived", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return err
	}
	if _, err := r.db.Collection(categoriesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "parentId", Value: 1}},
	}); err != nil {
		return err
	}
	_, err = r.db.Collection(profilesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}},
	})
	return err
}

// ExecuteSimple runs one filtered read and one count over the same predicate, concurrently.
func (r *AdvertSearchRepository) ExecuteSimple(ctx context.Context, plan *domain.QueryPlan) (*domain.PlanResult, error) {
	ctx, span := tracer.Start(ctx, "AdvertSearchRepository.ExecuteSimple", planAttributes(plan))
	defer span.End()

	predicate := buildBasePredicate(plan, r.hideThreshold, true)
	findOpts := options.Find().
		SetSort(sortDocument(plan.Sort)).
		SetSkip(plan.Page.Skip()).
		SetLimit(int64(plan.Page.Limit))

	var (
		docs  []advertDocument
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cursor, err := r.collection.Find(gctx, predicate, findOpts)
		if err != nil {
			return domain.UpstreamError("find advertisements", err)
		}
		if err := cursor.All(gctx, &docs); err != nil {
			return domain.UpstreamError("decode advertisements", err)
		}
		return nil
	})
	g.Go(func() error {
		n, err := r.collection.CountDocuments(gctx, predicate)
		if err != nil {
			return domain.UpstreamError("count advertisements", err)
		}
		total = n
		return nil
	})
	if err := g.Wait(); err != nil {
		r.fail(span, plan, err)
		return nil, err
	}

	records := make([]*domain.AdvertRecord, 0, len(docs))
	for i := range docs {
		records = append(records, &domain.AdvertRecord{Advert: toDomainAdvert(&docs[i])})
	}
	span.SetAttributes(attribute.Int64("search.total", total), attribute.Int("search.returned", len(records)))
	r.logger.Debug("Simple plan executed", zap.String("plan_id", plan.ID), zap.Int64("total", total), zap.Int("returned", len(records)))
	return &domain.PlanResult{Records: records, Total: total}, nil
}

// ExecuteJoined runs the page pipeline and its mirror count pipeline concurrently.
func (r *AdvertSearchRepository) ExecuteJoined(ctx context.Context, plan *domain.QueryPlan) (*domain.PlanResult, error) {
	ctx, span := tracer.Start(ctx, "AdvertSearchRepository.ExecuteJoined", planAttributes(plan))
	defer span.End()

	aggOpts := options.Aggregate().SetAllowDiskUse(true)
	var (
		docs  []joinedAdvertDocument
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cursor, err := r.collection.Aggregate(gctx, pagePipeline(plan, r.hideThreshold), aggOpts)
		if err != nil {
			return domain.UpstreamError("aggregate advertisement page", err)
		}
		if err := cursor.All(gctx, &docs); err != nil {
			return domain.UpstreamError("decode advertisement page", err)
		}
		return nil
	})
	g.Go(func() error {
		cursor, err := r.collection.Aggregate(gctx, countPipeline(plan, r.hideThreshold), aggOpts)
		if err != nil {
			return domain.UpstreamError("aggregate advertisement count", err)
		}
		var out []struct {
			Total int64 `bson:"total"`
		}
		if err := cursor.All(gctx, &out); err != nil {
			return domain.UpstreamError("decode advertisement count", err)
		}
		if len(out) > 0 {
			total = out[0].Total
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		r.fail(span, plan, err)
		return nil, err
	}

	records := make([]*domain.AdvertRecord, 0, len(docs))
	for i := range docs {
		records = append(records, toDomainJoined(&docs[i]))
	}
	span.SetAttributes(attribute.Int64("search.total", total), attribute.Int("search.returned", len(records)))
	r.logger.Debug("Joined plan executed", zap.String("plan_id", plan.ID), zap.Int64("total", total), zap.Int("returned", len(records)))
	return &domain.PlanResult{Records: records, Total: total}, nil
}

func (r *AdvertSearchRepository) fail(span trace.Span, plan *domain.QueryPlan, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	r.logger.Error("Search plan failed", zap.String("plan_id", plan.ID), zap.Stringer("plan", plan.Kind), zap.Error(err))
}

func planAttributes(plan *domain.QueryPlan) trace.SpanStartEventOption {
	return trace.WithAttributes(
		attribute.String("plan.id", plan.ID),
		attribute.String("plan.kind", plan.Kind.String()),
		attribute.Int("plan.page", plan.Page.Page),
		attribute.Int("plan.limit", plan.Page.Limit),
	)
}
