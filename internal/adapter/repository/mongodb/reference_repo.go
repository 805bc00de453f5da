package mongodb

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/advert-service/internal/advert/domain"
	"github.com/Abdurahmanit/GroupProject/advert-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ReferenceRepository reads the documents advertisements point at, one query per collection.
type ReferenceRepository struct {
	users      *mongo.Collection
	categories *mongo.Collection
	tags       *mongo.Collection
	profiles   *mongo.Collection
	logger     *logger.Logger
}

func NewReferenceRepository(db *mongo.Database, log *logger.Logger) *ReferenceRepository {
	return &ReferenceRepository{
		users:      db.Collection(usersCollection),
		categories: db.Collection(categoriesCollection),
		tags:       db.Collection(tagsCollection),
		profiles:   db.Collection(profilesCollection),
		logger:     log.Named("ReferenceRepository"),
	}
}

func (r *ReferenceRepository) UsersByIDs(ctx context.Context, ids []string) (map[string]*domain.UserSummary, error) {
	// never load more of a user than the summary needs
	docs, err := findByIDs[userDocument](ctx, r.users, ids, bson.M{"name": 1, "email": 1})
	if err != nil {
		r.logger.Error("Failed to read users", zap.Int("count", len(ids)), zap.Error(err))
		return nil, domain.UpstreamError("find users", err)
	}
	out := make(map[string]*domain.UserSummary, len(docs))
	for i := range docs {
		u := toDomainUser(&docs[i])
		out[u.ID] = u
	}
	return out, nil
}

func (r *ReferenceRepository) CategoriesByIDs(ctx context.Context, ids []string) (map[string]*domain.Category, error) {
	docs, err := findByIDs[categoryDocument](ctx, r.categories, ids, nil)
	if err != nil {
		r.logger.Error("Failed to read categories", zap.Int("count", len(ids)), zap.Error(err))
		return nil, domain.UpstreamError("find categories", err)
	}
	out := make(map[string]*domain.Category, len(docs))
	for i := range docs {
		c := toDomainCategory(&docs[i])
		out[c.ID] = c
	}
	return out, nil
}

func (r *ReferenceRepository) TagsByIDs(ctx context.Context, ids []string) (map[string]*domain.Tag, error) {
	docs, err := findByIDs[tagDocument](ctx, r.tags, ids, nil)
	if err != nil {
		r.logger.Error("Failed to read tags", zap.Int("count", len(ids)), zap.Error(err))
		return nil, domain.UpstreamError("find tags", err)
	}
	out := make(map[string]*domain.Tag, len(docs))
	for i := range docs {
		t := toDomainTag(&docs[i])
		out[t.ID] = t
	}
	return out, nil
}

func (r *ReferenceRepository) ProfilesByIDs(ctx context.Context, ids []string) (map[string]*domain.Profile, error) {
	docs, err := findByIDs[profileDocument](ctx, r.profiles, ids, bson.M{"name": 1, "userId": 1})
	if err != nil {
		r.logger.Error("Failed to read profiles", zap.Int("count", len(ids)), zap.Error(err))
		return nil, domain.UpstreamError("find profiles", err)
	}
	out := make(map[string]*domain.Profile, len(docs))
	for i := range docs {
		p := toDomainProfile(&docs[i])
		out[p.ID] = p
	}
	return out, nil
}

func findByIDs[T any](ctx context.Context, coll *mongo.Collection, ids []string, projection bson.M) ([]T, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return nil, nil
	}
	opts := options.Find()
	if projection != nil {
		opts.SetProjection(projection)
	}
	cursor, err := coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}}, opts)
	if err != nil {
		return nil, err
	}
	var docs []T
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
