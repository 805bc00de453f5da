package domain

import "context"

type AdvertSearchRepository interface {
	ExecuteSimple(ctx context.Context, plan *QueryPlan) (*PlanResult, error)
	ExecuteJoined(ctx context.Context, plan *QueryPlan) (*PlanResult, error)
}

type CategoryReader interface {
	FindByID(ctx context.Context, id string) (*Category, error)
	// FindChildIDs returns the ids of categories whose parent is in parentIDs.
	FindChildIDs(ctx context.Context, parentIDs []string) ([]string, error)
}

// ReferenceReader batch-reads the documents an advertisement points at.
// Missing ids are simply absent from the returned maps.
type ReferenceReader interface {
	UsersByIDs(ctx context.Context, ids []string) (map[string]*UserSummary, error)
	CategoriesByIDs(ctx context.Context, ids []string) (map[string]*Category, error)
	TagsByIDs(ctx context.Context, ids []string) (map[string]*Tag, error)
	ProfilesByIDs(ctx context.Context, ids []string) (map[string]*Profile, error)
}

type CategoryTreeCache interface {
	GetDescendants(ctx context.Context, rootID string) ([]string, error)
	SetDescendants(ctx context.Context, rootID string, ids []string) error
	Invalidate(ctx context.Context) error
}
