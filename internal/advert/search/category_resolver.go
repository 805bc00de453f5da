package search

import (
	"context"
	"errors"

	"github.com/Abdurahmanit/GroupProject/advert-service/internal/advert/domain"
	"github.com/Abdurahmanit/GroupProject/advert-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/advert-service/internal/platform/metrics"
	"go.uber.org/zap"
)

const DefaultCategoryMaxDepth = 32

// CategoryResolver expands category ids into closed descendant sets.
// The cache is optional.
type CategoryResolver struct {
	reader   domain.CategoryReader
	cache    domain.CategoryTreeCache
	maxDepth int
	metrics  *metrics.MetricsManager
	logger   *logger.Logger
}

func NewCategoryResolver(
	reader domain.CategoryReader,
	cache domain.CategoryTreeCache,
	maxDepth int,
	m *metrics.MetricsManager,
	log *logger.Logger,
) *CategoryResolver {
	if maxDepth <= 0 {
		maxDepth = DefaultCategoryMaxDepth
	}
	return &CategoryResolver{
		reader:   reader,
		cache:    cache,
		maxDepth: maxDepth,
		metrics:  m,
		logger:   log.Named("CategoryResolver"),
	}
}

// Resolve returns the ids to match against advertisement.categoryId. Without
// includeSubcategories the input is returned unchanged.
func (r *CategoryResolver) Resolve(ctx context.Context, ids []string, includeSubcategories bool) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if !includeSubcategories {
		return append([]string(nil), ids...), nil
	}

	set := newIDSet(len(ids))
	for _, id := range ids {
		descendants, err := r.Descendants(ctx, id)
		if err != nil {
			return nil, err
		}
		set.addAll(descendants)
	}
	r.metrics.ObserveCategoryExpansion(len(set.ids))
	return set.ids, nil
}

// Descendants returns rootID followed by every transitive descendant.
func (r *CategoryResolver) Descendants(ctx context.Context, rootID string) ([]string, error) {
	if r.cache != nil {
		ids, err := r.cache.GetDescendants(ctx, rootID)
		switch {
		case err == nil:
			r.metrics.IncCategoryCache("hit")
			return ids, nil
		case errors.Is(err, domain.ErrCacheMiss):
			r.metrics.IncCategoryCache("miss")
		default:
			r.metrics.IncCategoryCache("error")
			r.logger.Warn("Category cache read failed, expanding from store", zap.String("category_id", rootID), zap.Error(err))
		}
	}

	ids, complete, err := r.expand(ctx, rootID)
	if err != nil {
		return nil, err
	}

	if r.cache != nil && complete {
		if err := r.cache.SetDescendants(ctx, rootID, ids); err != nil {
			r.logger.Warn("Category cache write failed", zap.String("category_id", rootID), zap.Error(err))
		}
	}
	return ids, nil
}

// expand walks the parent graph level by level. The visited set stops cycles;
// maxDepth bounds the number of dependent reads.
func (r *CategoryResolver) expand(ctx context.Context, rootID string) ([]string, bool, error) {
	set := newIDSet(1)
	set.add(rootID)
	frontier := []string{rootID}

	for depth := 0; len(frontier) > 0; depth++ {
		if depth >= r.maxDepth {
			r.logger.Warn("Category expansion hit depth cap, result truncated",
				zap.String("category_id", rootID),
				zap.Int("max_depth", r.maxDepth),
				zap.Int("collected", len(set.ids)),
			)
			return set.ids, false, nil
		}

		children, err := r.reader.FindChildIDs(ctx, frontier)
		if err != nil {
			return nil, false, err
		}

		var next []string
		for _, child := range children {
			if set.add(child) {
				next = append(next, child)
			}
		}
		frontier = next
	}
	return set.ids, true, nil
}

// idSet keeps insertion order.
type idSet struct {
	seen map[string]struct{}
	ids  []string
}

func newIDSet(capacity int) *idSet {
	return &idSet{seen: make(map[string]struct{}, capacity), ids: make([]string, 0, capacity)}
}

func (s *idSet) add(id string) bool {
	if _, ok := s.seen[id]; ok {
		return false
	}
	s.seen[id] = struct{}{}
	s.ids = append(s.ids, id)
	return true
}

func (s *idSet) addAll(ids []string) {
	for _, id := range ids {
		s.add(id)
	}
}
