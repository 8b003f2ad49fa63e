package banner

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var ErrNotFound = errors.New("slider not found")

// Repository provides access to sliders.
type Repository interface {
	List(ctx context.Context, opts ListOptions) ([]Slider, error)
	GetByID(ctx context.Context, id string) (Slider, error)
	Create(ctx context.Context, s Slider) (Slider, error)
	Update(ctx context.Context, s Slider) (Slider, error)
	Delete(ctx context.Context, id string) error
}

type InMemoryRepository struct {
	mu      sync.RWMutex
	sliders []Slider
}

func NewInMemoryRepository(seed []Slider) *InMemoryRepository {
	return &InMemoryRepository{sliders: append([]Slider(nil), seed...)}
}

func (r *InMemoryRepository) List(_ context.Context, opts ListOptions) ([]Slider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Slider, 0, len(r.sliders))
	for _, s := range r.sliders {
		if opts.ActiveOnly && !s.Active {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (Slider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.sliders {
		if s.ID == id {
			return s, nil
		}
	}
	return Slider{}, ErrNotFound
}

func (r *InMemoryRepository) Create(_ context.Context, s Slider) (Slider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sliders = append(r.sliders, s)
	return s, nil
}

func (r *InMemoryRepository) Update(_ context.Context, s Slider) (Slider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.sliders {
		if r.sliders[i].ID == s.ID {
			r.sliders[i] = s
			return s, nil
		}
	}
	return Slider{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.sliders {
		if s.ID == id {
			r.sliders = append(r.sliders[:i], r.sliders[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
