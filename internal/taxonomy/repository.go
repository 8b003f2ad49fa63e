package taxonomy

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var (
	ErrNotFound    = errors.New("term not found")
	ErrSlugTaken   = errors.New("slug already in use")
	ErrUnknownKind = errors.New("unknown taxonomy kind")
)

type Repository interface {
	List(ctx context.Context, kind Kind) ([]Term, error)
	GetByID(ctx context.Context, kind Kind, id string) (Term, error)
	SlugExists(ctx context.Context, kind Kind, slug, excludeID string) (bool, error)
	Create(ctx context.Context, t Term) (Term, error)
	Update(ctx context.Context, t Term) (Term, error)
	Delete(ctx context.Context, kind Kind, id string) error
}

type InMemoryRepository struct {
	mu    sync.RWMutex
	terms []Term
}

func NewInMemoryRepository(seed []Term) *InMemoryRepository {
	return &InMemoryRepository{terms: append([]Term(nil), seed...)}
}

func (r *InMemoryRepository) List(_ context.Context, kind Kind) ([]Term, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Term, 0)
	for _, t := range r.terms {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OrderIndex != out[j].OrderIndex {
			return out[i].OrderIndex < out[j].OrderIndex
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, kind Kind, id string) (Term, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.terms {
		if t.Kind == kind && t.ID == id {
			return t, nil
		}
	}
	return Term{}, ErrNotFound
}

func (r *InMemoryRepository) SlugExists(_ context.Context, kind Kind, slug, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.terms {
		if t.Kind == kind && t.Slug == slug && t.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *InMemoryRepository) Create(_ context.Context, t Term) (Term, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.terms = append(r.terms, t)
	return t, nil
}

func (r *InMemoryRepository) Update(_ context.Context, t Term) (Term, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.terms {
		if r.terms[i].Kind == t.Kind && r.terms[i].ID == t.ID {
			r.terms[i] = t
			return t, nil
		}
	}
	return Term{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(_ context.Context, kind Kind, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.terms {
		if r.terms[i].Kind == kind && r.terms[i].ID == id {
			r.terms = append(r.terms[:i], r.terms[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
