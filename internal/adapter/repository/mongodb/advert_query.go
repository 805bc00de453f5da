package mongodb

import (
	"regexp"
	"time"

	"github.com/Abdurahmanit/GroupProject/advert-service/internal/advert/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fields scanned by the free text search.
var textSearchFields = []string{"title", "description", "exchangePreferences", "location", "searchVector"}

// buildBasePredicate renders every single-document predicate of the plan. Both
// executors call it, so the simple read, the simple count and the first stage
// of the joined pipelines can never disagree. The joined pipelines apply geo
// in a later stage, hence includeGeo.
func buildBasePredicate(plan *domain.QueryPlan, hideThreshold int64, includeGeo bool) bson.D {
	f := plan.Filter
	q := bson.D{}

	if v, ok := f.IsActive.Bool(); ok {
		q = append(q, bson.E{Key: "isActive", Value: v})
	}
	if v, ok := f.IsArchived.Bool(); ok {
		q = append(q, bson.E{Key: "isArchived", Value: v})
	}
	q = append(q, bson.E{Key: "isHidden", Value: bson.M{"$ne": true}})
	if hideThreshold > 0 {
		q = append(q, bson.E{Key: "reportedCount", Value: bson.M{"$not": bson.M{"$gte": hideThreshold}}})
	}

	if f.Type != "" {
		q = append(q, bson.E{Key: "type", Value: string(f.Type)})
	}
	if f.Location != "" {
		q = append(q, bson.E{Key: "location", Value: containsRegex(f.Location)})
	}
	if f.IsUrgent != nil {
		q = append(q, bson.E{Key: "isUrgent", Value: *f.IsUrgent})
	}
	if f.OwnerID != "" {
		q = append(q, bson.E{Key: "ownerId", Value: idValue(f.OwnerID)})
	}
	if f.ProfileID != "" {
		q = append(q, bson.E{Key: "profileId", Value: idValue(f.ProfileID)})
	}

	q = appendFloatRange(q, "rating.average", f.MinRating, f.MaxRating)
	q = appendFloatRange(q, "views", f.MinViews, f.MaxViews)
	q = appendFloatRange(q, "applicationCount", f.MinApplications, f.MaxApplications)
	q = appendTimeRange(q, "expiresAt", "$gt", f.ExpiresAfter, "$lt", f.ExpiresBefore)
	q = appendTimeRange(q, "createdAt", "$gte", f.MinCreatedAt, "$lte", f.MaxCreatedAt)

	if len(plan.CategoryIDs) > 0 {
		q = append(q, bson.E{Key: "categoryId", Value: bson.M{"$in": idValues(plan.CategoryIDs)}})
	}
	if plan.Tags != nil {
		q = append(q, tagClause(plan.Tags))
	}
	if includeGeo && plan.Geo != nil {
		q = append(q, geoClause(plan.Geo))
	}
	if f.Search != "" {
		q = append(q, textSearchClause(f.Search))
	}
	return q
}

func tagClause(t *domain.TagPredicate) bson.E {
	op := "$in"
	if t.Match == domain.TagMatchAll {
		op = "$all"
	}
	return bson.E{Key: "tags", Value: bson.M{op: idValues(t.IDs)}}
}

// geoClause uses $geoWithin rather than $nearSphere because the latter is rejected by count.
func geoClause(g *domain.GeoCap) bson.E {
	return bson.E{Key: "coordinates", Value: bson.M{
		"$geoWithin": bson.M{
			"$centerSphere": bson.A{bson.A{g.Longitude, g.Latitude}, g.RadiusRadians},
		},
	}}
}

func textSearchClause(term string) bson.E {
	rx := containsRegex(term)
	or := make(bson.A, 0, len(textSearchFields))
	for _, field := range textSearchFields {
		or = append(or, bson.M{field: rx})
	}
	return bson.E{Key: "$or", Value: or}
}

func containsRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

// exactRegex matches the whole value case-insensitively.
func exactRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(s) + "$", Options: "i"}
}

func appendFloatRange(q bson.D, field string, min, max *float64) bson.D {
	if r := floatRange(min, max); r != nil {
		q = append(q, bson.E{Key: field, Value: r})
	}
	return q
}

func floatRange(min, max *float64) bson.M {
	if min == nil && max == nil {
		return nil
	}
	r := bson.M{}
	if min != nil {
		r["$gte"] = *min
	}
	if max != nil {
		r["$lte"] = *max
	}
	return r
}

func appendTimeRange(q bson.D, field, lowerOp string, lower *time.Time, upperOp string, upper *time.Time) bson.D {
	if lower == nil && upper == nil {
		return q
	}
	r := bson.M{}
	if lower != nil {
		r[lowerOp] = *lower
	}
	if upper != nil {
		r[upperOp] = *upper
	}
	return append(q, bson.E{Key: field, Value: r})
}

func sortDocument(s domain.SortSpec) bson.D {
	dir := -1
	if s.Order == domain.SortAsc {
		dir = 1
	}
	field := string(s.Field)
	if field == "" {
		field = string(domain.SortByCreatedAt)
	}
	// _id breaks ties so consecutive pages neither repeat nor skip rows.
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}}
}
