package content

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var (
	ErrNotFound  = errors.New("content not found")
	ErrSlugTaken = errors.New("slug already in use")
)

type Repository[T Record[T]] interface {
	List(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id string) (T, error)
	GetBySlug(ctx context.Context, slug string) (T, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, item T) (T, error)
	Delete(ctx context.Context, id string) error
}

type InMemoryRepository[T Record[T]] struct {
	mu    sync.RWMutex
	items []T
}

func NewInMemoryRepository[T Record[T]](seed ...T) *InMemoryRepository[T] {
	return &InMemoryRepository[T]{items: append([]T(nil), seed...)}
}

func (r *InMemoryRepository[T]) List(_ context.Context) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]T, len(r.items))
	copy(out, r.items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].less(out[j]) })
	return out, nil
}

func (r *InMemoryRepository[T]) GetByID(_ context.Context, id string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, it := range r.items {
		if it.key() == id {
			return it, nil
		}
	}
	var zero T
	return zero, ErrNotFound
}

func (r *InMemoryRepository[T]) GetBySlug(_ context.Context, slug string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, it := range r.items {
		if slug != "" && it.slugOf() == slug {
			return it, nil
		}
	}
	var zero T
	return zero, ErrNotFound
}

func (r *InMemoryRepository[T]) Create(_ context.Context, item T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkSlug(item); err != nil {
		var zero T
		return zero, err
	}
	r.items = append(r.items, item)
	return item, nil
}

func (r *InMemoryRepository[T]) Update(_ context.Context, item T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero T
	if err := r.checkSlug(item); err != nil {
		return zero, err
	}
	for i, it := range r.items {
		if it.key() == item.key() {
			r.items[i] = item
			return item, nil
		}
	}
	return zero, ErrNotFound
}

func (r *InMemoryRepository[T]) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, it := range r.items {
		if it.key() == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository[T]) checkSlug(item T) error {
	s := item.slugOf()
	if s == "" {
		return nil
	}
	for _, it := range r.items {
		if it.key() != item.key() && it.slugOf() == s {
			return ErrSlugTaken
		}
	}
	return nil
}
