package domain

type PlanKind int

const (
	PlanSimple PlanKind = iota
	PlanJoined
)

func (k PlanKind) String() string {
	if k == PlanJoined {
		return "joined"
	}
	return "simple"
}

type TagMatch int

const (
	TagMatchAny TagMatch = iota
	TagMatchAll
)

type TagPredicate struct {
	IDs   []string
	Match TagMatch
}

// GeoCap is a spherical cap around a center point.
type GeoCap struct {
	Longitude     float64
	Latitude      float64
	RadiusMeters  float64
	RadiusRadians float64
}

// ProfileJoin carries the predicates that can only be evaluated after joining profiles.
type ProfileJoin struct {
	Portfolio       TriState
	Languages       []string
	MinAuthorRating *float64
	MaxAuthorRating *float64
}

func (j *ProfileJoin) HasAuthorRating() bool {
	return j != nil && (j.MinAuthorRating != nil || j.MaxAuthorRating != nil)
}

type SortSpec struct {
	Field SortField
	Order SortOrder
}

type PageRequest struct {
	Page  int
	Limit int
}

func (p PageRequest) Skip() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

// QueryPlan is built once per request and executed once. CategoryIDs is the
// closed category set, nil when no category predicate applies. Join is nil
// for the simple plan.
type QueryPlan struct {
	ID          string
	Kind        PlanKind
	Filter      *FilterSpec
	CategoryIDs []string
	Tags        *TagPredicate
	Geo         *GeoCap
	Join        *ProfileJoin
	Sort        SortSpec
	Page        PageRequest
}

type PlanResult struct {
	Records []*AdvertRecord
	Total   int64
}
