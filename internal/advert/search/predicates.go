package search

import "github.com/Abdurahmanit/GroupProject/advert-service/internal/advert/domain"

// EarthRadiusMeters is the radius used to turn distances into spherical-cap radians.
const EarthRadiusMeters = 6378137.0

func MetersToRadians(meters float64) float64 {
	return meters / EarthRadiusMeters
}

// ResolveTags builds the tag membership predicate. An empty id list means no predicate.
func ResolveTags(ids []string, op domain.TagOperator) *domain.TagPredicate {
	if len(ids) == 0 {
		return nil
	}
	match := domain.TagMatchAny
	if op == domain.TagOperatorAnd && len(ids) > 1 {
		match = domain.TagMatchAll
	}
	return &domain.TagPredicate{IDs: append([]string(nil), ids...), Match: match}
}

// BuildGeoCap needs both coordinates; maxDistance alone does nothing.
func BuildGeoCap(spec *domain.FilterSpec) *domain.GeoCap {
	if !spec.HasGeo() {
		return nil
	}
	radius := spec.MaxDistance
	if radius <= 0 {
		radius = domain.DefaultMaxDistance
	}
	return &domain.GeoCap{
		Longitude:     *spec.Longitude,
		Latitude:      *spec.Latitude,
		RadiusMeters:  radius,
		RadiusRadians: MetersToRadians(radius),
	}
}
