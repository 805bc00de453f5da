package mongodb

import (
	"github.com/Abdurahmanit/GroupProject/advert-service/internal/advert/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	joinedProfileField = "_profile"
	authorProfileField = "_authorProfile"
)

// membershipStages returns every stage that decides which advertisements belong
// to a joined plan's result: base match, profile join, post-join filters and geo.
// Both the page pipeline and the count pipeline are built on top of it.
func membershipStages(plan *domain.QueryPlan, hideThreshold int64) mongo.Pipeline {
	stages := mongo.Pipeline{
		matchStage(buildBasePredicate(plan, hideThreshold, false)),
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: profilesCollection},
			{Key: "localField", Value: "profileId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: joinedProfileField},
		}}},
		unwindStage(joinedProfileField),
	}

	if join := plan.Join; join != nil {
		switch join.Portfolio {
		case domain.TriTrue:
			stages = append(stages, matchStage(bson.D{{Key: joinedProfileField + ".portfolio.0", Value: bson.M{"$exists": true}}}))
		case domain.TriFalse:
			// matches a missing profile as well as an empty portfolio
			stages = append(stages, matchStage(bson.D{{Key: joinedProfileField + ".portfolio.0", Value: bson.M{"$exists": false}}}))
		}

		if len(join.Languages) > 0 {
			patterns := make(bson.A, 0, len(join.Languages))
			for _, lang := range join.Languages {
				patterns = append(patterns, exactRegex(lang))
			}
			stages = append(stages, matchStage(bson.D{{Key: joinedProfileField + ".languages", Value: bson.M{
				"$elemMatch": bson.M{"language": bson.M{"$in": patterns}},
			}}}))
		}

		if join.HasAuthorRating() {
			stages = append(stages,
				lookupOneStage(profilesCollection, "ownerId", "userId", authorProfileField, "rating"),
				unwindStage(authorProfileField),
				matchStage(bson.D{{Key: authorProfileField + ".rating.average", Value: floatRange(join.MinAuthorRating, join.MaxAuthorRating)}}),
			)
		}
	}

	if plan.Geo != nil {
		stages = append(stages, matchStage(bson.D{geoClause(plan.Geo)}))
	}
	return stages
}

func pagePipeline(plan *domain.QueryPlan, hideThreshold int64) mongo.Pipeline {
	stages := membershipStages(plan, hideThreshold)
	return append(stages,
		bson.D{{Key: "$sort", Value: sortDocument(plan.Sort)}},
		bson.D{{Key: "$skip", Value: plan.Page.Skip()}},
		bson.D{{Key: "$limit", Value: int64(plan.Page.Limit)}},
		lookupOneStage(usersCollection, "ownerId", "_id", "_owner", "name", "email"),
		lookupOneStage(categoriesCollection, "categoryId", "_id", "_category", "name", "description", "parentId", "level"),
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: tagsCollection},
			{Key: "localField", Value: "tags"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "_tags"},
		}}},
		lookupOneStage(profilesCollection, "profileId", "_id", "_profileRef", "name", "userId"),
		bson.D{{Key: "$project", Value: bson.D{
			{Key: joinedProfileField, Value: 0},
			{Key: authorProfileField, Value: 0},
		}}},
	)
}

func countPipeline(plan *domain.QueryPlan, hideThreshold int64) mongo.Pipeline {
	stages := membershipStages(plan, hideThreshold)
	return append(stages, bson.D{{Key: "$count", Value: "total"}})
}

func matchStage(predicate bson.D) bson.D {
	return bson.D{{Key: "$match", Value: predicate}}
}

func unwindStage(field string) bson.D {
	return bson.D{{Key: "$unwind", Value: bson.D{
		{Key: "path", Value: "$" + field},
		{Key: "preserveNullAndEmptyArrays", Value: true},
	}}}
}

// lookupOneStage joins at most one foreign document so a join can never
// multiply rows, projecting only the listed fields.
func lookupOneStage(from, localField, foreignField, as string, fields ...string) bson.D {
	project := bson.D{}
	for _, f := range fields {
		project = append(project, bson.E{Key: f, Value: 1})
	}
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: from},
		{Key: "let", Value: bson.D{{Key: "ref", Value: "$" + localField}}},
		{Key: "pipeline", Value: bson.A{
			bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{{Key: "$eq", Value: bson.A{"$" + foreignField, "$$ref"}}}}}}},
			bson.D{{Key: "$limit", Value: 1}},
			bson.D{{Key: "$project", Value: project}},
		}},
		{Key: "as", Value: as},
	}}}
}
