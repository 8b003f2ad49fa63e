package category

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var (
	ErrNotFound    = errors.New("category not found")
	ErrSlugTaken   = errors.New("slug already in use")
	ErrHasChildren = errors.New("category has subcategories")
	ErrInUse       = errors.New("category is referenced by products")
)

// Repository provides access to category rows.
type Repository interface {
	List(ctx context.Context) ([]Category, error)
	GetByID(ctx context.Context, id string) (Category, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	CountChildren(ctx context.Context, id string) (int, error)
	CountProducts(ctx context.Context, id string) (int, error)
	Create(ctx context.Context, c Category) (Category, error)
	Update(ctx context.Context, id string, c Category) (Category, error)
	Delete(ctx context.Context, id string) error
}

type InMemoryRepository struct {
	mu       sync.RWMutex
	storage  []Category
	products map[string]int
}

// NewInMemoryRepository seeds categories. productRefs maps category id to the
// number of products pointing at it.
func NewInMemoryRepository(seed []Category, productRefs map[string]int) *InMemoryRepository {
	r := &InMemoryRepository{storage: append([]Category(nil), seed...), products: productRefs}
	if r.products == nil {
		r.products = map[string]int{}
	}
	return r
}

func (r *InMemoryRepository) List(_ context.Context) ([]Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Category, len(r.storage))
	copy(out, r.storage)
	sortCategories(out)
	return out, nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.storage {
		if c.ID == id {
			return c, nil
		}
	}
	return Category{}, ErrNotFound
}

func (r *InMemoryRepository) SlugExists(_ context.Context, slug, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.storage {
		if c.Slug == slug && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *InMemoryRepository) CountChildren(_ context.Context, id string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, c := range r.storage {
		if c.ParentID != nil && *c.ParentID == id {
			n++
		}
	}
	return n, nil
}

func (r *InMemoryRepository) CountProducts(_ context.Context, id string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.products[id], nil
}

func (r *InMemoryRepository) Create(_ context.Context, c Category) (Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	r.storage = append(r.storage, c)
	return c, nil
}

func (r *InMemoryRepository) Update(_ context.Context, id string, c Category) (Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			c.ID = id
			c.CreatedAt = r.storage[i].CreatedAt
			r.storage[i] = c
			return c, nil
		}
	}
	return Category{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			r.storage = append(r.storage[:i], r.storage[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func sortCategories(list []Category) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].OrderIndex != list[j].OrderIndex {
			return list[i].OrderIndex < list[j].OrderIndex
		}
		return list[i].Name < list[j].Name
	})
}
