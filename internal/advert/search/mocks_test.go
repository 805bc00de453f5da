package search

import (
	"context"
	"sync"

	"github.com/Abdurahmanit/GroupProject/advert-service/internal/advert/domain"
	"github.com/stretchr/testify/mock"
)

// treeReader serves FindChildIDs from an in-memory parent map and records each call.
type treeReader struct {
	mu       sync.Mutex
	parents  map[string]string // child -> parent
	calls    [][]string
	failWith error
}

func newTreeReader(edges map[string]string) *treeReader {
	return &treeReader{parents: edges}
}

func (r *treeReader) FindByID(_ context.Context, id string) (*domain.Category, error) {
	if _, ok := r.parents[id]; ok {
		return &domain.Category{ID: id, ParentID: r.parents[id]}, nil
	}
	return nil, domain.ErrCategoryNotFound
}

func (r *treeReader) FindChildIDs(_ context.Context, parentIDs []string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, append([]string(nil), parentIDs...))
	if r.failWith != nil {
		return nil, r.failWith
	}
	in := make(map[string]bool, len(parentIDs))
	for _, id := range parentIDs {
		in[id] = true
	}
	var out []string
	for child, parent := range r.parents {
		if in[parent] {
			out = append(out, child)
		}
	}
	return out, nil
}

type MockCategoryTreeCache struct{ mock.Mock }

func (m *MockCategoryTreeCache) GetDescendants(ctx context.Context, rootID string) ([]string, error) {
	args := m.Called(ctx, rootID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCategoryTreeCache) SetDescendants(ctx context.Context, rootID string, ids []string) error {
	args := m.Called(ctx, rootID, ids)
	return args.Error(0)
}

func (m *MockCategoryTreeCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockReferenceReader struct{ mock.Mock }

func (m *MockReferenceReader) UsersByIDs(ctx context.Context, ids []string) (map[string]*domain.UserSummary, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*domain.UserSummary), args.Error(1)
}

func (m *MockReferenceReader) CategoriesByIDs(ctx context.Context, ids []string) (map[string]*domain.Category, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*domain.Category), args.Error(1)
}

func (m *MockReferenceReader) TagsByIDs(ctx context.Context, ids []string) (map[string]*domain.Tag, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*domain.Tag), args.Error(1)
}

func (m *MockReferenceReader) ProfilesByIDs(ctx context.Context, ids []string) (map[string]*domain.Profile, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*domain.Profile), args.Error(1)
}

type stubExpander struct {
	ids []string
	err error
}

func (s stubExpander) Resolve(_ context.Context, ids []string, _ bool) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.ids != nil {
		return s.ids, nil
	}
	return ids, nil
}
