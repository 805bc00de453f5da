package mongodb

import (
	"testing"

	"github.com/Abdurahmanit/GroupProject/advert-service/internal/advert/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func joinedPlan() *domain.QueryPlan {
	plan := basePlan(&domain.FilterSpec{IsActive: domain.TriTrue, Page: 3, Limit: 5})
	plan.Kind = domain.PlanJoined
	plan.Join = &domain.ProfileJoin{
		Portfolio:       domain.TriTrue,
		Languages:       []string{"English"},
		MinAuthorRating: floatPtr(4),
	}
	plan.Geo = &domain.GeoCap{Longitude: 1, Latitude: 2, RadiusMeters: 100, RadiusRadians: 100 / 6378137.0}
	return plan
}

func stageNames(p []bson.D) []string {
	names := make([]string, 0, len(p))
	for _, s := range p {
		names = append(names, s[0].Key)
	}
	return names
}

func TestCountPipelineMirrorsPageMembership(t *testing.T) {
	plan := joinedPlan()
	membership := membershipStages(plan, 2)
	page := pagePipeline(plan, 2)
	count := countPipeline(plan, 2)

	require.Greater(t, len(page), len(membership))
	assert.Equal(t, []bson.D(membership), []bson.D(page[:len(membership)]))
	assert.Equal(t, []bson.D(membership), []bson.D(count[:len(membership)]))
	assert.Len(t, count, len(membership)+1)
	assert.Equal(t, bson.D{{Key: "$count", Value: "total"}}, count[len(count)-1])
}

func TestMembershipStages_Order(t *testing.T) {
	names := stageNames(membershipStages(joinedPlan(), 0))
	assert.Equal(t, []string{
		"$match",  // base predicate
		"$lookup", // profile by profileId
		"$unwind",
		"$match",  // portfolio
		"$match",  // languages
		"$lookup", // author profile by ownerId
		"$unwind",
		"$match", // author rating
		"$match", // geo
	}, names)
}

func TestMembershipStages_BaseMatchExcludesGeo(t *testing.T) {
	stages := membershipStages(joinedPlan(), 0)
	base := stages[0][0].Value.(bson.D)
	assert.False(t, hasKey(base, "coordinates"))

	last := stages[len(stages)-1][0].Value.(bson.D)
	assert.True(t, hasKey(last, "coordinates"))
}

func TestMembershipStages_PortfolioVariants(t *testing.T) {
	plan := joinedPlan()
	plan.Join = &domain.ProfileJoin{Portfolio: domain.TriFalse}
	plan.Geo = nil
	stages := membershipStages(plan, 0)
	require.Len(t, stages, 4)
	assert.Equal(t, bson.D{{Key: "_profile.portfolio.0", Value: bson.M{"$exists": false}}}, stages[3][0].Value)

	plan.Join = &domain.ProfileJoin{Portfolio: domain.TriAny}
	assert.Len(t, membershipStages(plan, 0), 3)
}

func TestMembershipStages_LanguagesAreCaseInsensitiveExact(t *testing.T) {
	plan := joinedPlan()
	plan.Join = &domain.ProfileJoin{Languages: []string{"en-US", "French"}}
	plan.Geo = nil
	stages := membershipStages(plan, 0)

	match := stages[3][0].Value.(bson.D)
	assert.Equal(t, "_profile.languages", match[0].Key)
	elem := match[0].Value.(bson.M)["$elemMatch"].(bson.M)
	patterns := elem["language"].(bson.M)["$in"].(bson.A)
	assert.Equal(t, exactRegex("en-US"), patterns[0])
	assert.Equal(t, "^French$", exactRegex("French").Pattern)
	assert.Equal(t, "i", exactRegex("French").Options)
}

func TestPagePipeline_PaginatesThenResolves(t *testing.T) {
	plan := joinedPlan()
	page := pagePipeline(plan, 0)
	tail := stageNames(page[len(membershipStages(plan, 0)):])

	assert.Equal(t, []string{"$sort", "$skip", "$limit", "$lookup", "$lookup", "$lookup", "$lookup", "$project"}, tail)

	skip := page[len(membershipStages(plan, 0))+1]
	assert.Equal(t, int64(10), skip[0].Value)
}
