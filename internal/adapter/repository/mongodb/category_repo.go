package mongodb

import (
	"context"
	"errors"

	"github.com/Abdurahmanit/GroupProject/advert-service/internal/advert/domain"
	"github.com/Abdurahmanit/GroupProject/advert-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type CategoryRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewCategoryRepository(db *mongo.Database, log *logger.Logger) *CategoryRepository {
	return &CategoryRepository{
		collection: db.Collection(categoriesCollection),
		logger:     log.Named("CategoryRepository"),
	}
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCategoryNotFound
	}
	var doc categoryDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCategoryNotFound
		}
		r.logger.Error("Failed to read category", zap.String("category_id", id), zap.Error(err))
		return nil, domain.UpstreamError("find category", err)
	}
	return toDomainCategory(&doc), nil
}

func (r *CategoryRepository) FindChildIDs(ctx context.Context, parentIDs []string) ([]string, error) {
	oids := objectIDs(parentIDs)
	if len(oids) == 0 {
		return nil, nil
	}

	cursor, err := r.collection.Find(ctx,
		bson.M{"parentId": bson.M{"$in": oids}},
		options.Find().SetProjection(bson.M{"_id": 1}),
	)
	if err != nil {
		return nil, domain.UpstreamError("find child categories", err)
	}
	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, domain.UpstreamError("decode child categories", err)
	}

	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID.Hex())
	}
	return ids, nil
}
