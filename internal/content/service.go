package content

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Collection is the service for one kind of entry.
type Collection[T Record[T]] struct {
	repo Repository[T]
}

func NewCollection[T Record[T]](repo Repository[T]) *Collection[T] {
	return &Collection[T]{repo: repo}
}

func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	return c.repo.List(ctx)
}

func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	return c.repo.GetByID(ctx, id)
}

// FindBySlugOrID tries the slug first, then the id.
func (c *Collection[T]) FindBySlugOrID(ctx context.Context, key string) (T, error) {
	item, err := c.repo.GetBySlug(ctx, key)
	if err == nil || !errors.Is(err, ErrNotFound) {
		return item, err
	}
	if _, perr := uuid.Parse(key); perr != nil {
		return item, ErrNotFound
	}
	return c.repo.GetByID(ctx, key)
}

func (c *Collection[T]) Create(ctx context.Context, item T) (T, error) {
	item = item.normalized()
	if errs := item.validate(); len(errs) > 0 {
		var zero T
		return zero, errs
	}
	return c.repo.Create(ctx, item.withKey(uuid.NewString()))
}

func (c *Collection[T]) Update(ctx context.Context, id string, item T) (T, error) {
	item = item.normalized().withKey(id)
	if errs := item.validate(); len(errs) > 0 {
		var zero T
		return zero, errs
	}
	return c.repo.Update(ctx, item)
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	return c.repo.Delete(ctx, id)
}

// Service groups the collections of every kind.
type Service struct {
	Posts       *Collection[Post]
	Projects    *Collection[Project]
	WhyChooseUs *Collection[Feature]
	ProBenefits *Collection[Feature]
	ProContent  *Collection[ProSection]
}

func NewPostgresService(db *sqlx.DB) *Service {
	return &Service{
		Posts:       NewCollection[Post](NewPostgresRepository[Post](db, KindBlog)),
		Projects:    NewCollection[Project](NewPostgresRepository[Project](db, KindProjects)),
		WhyChooseUs: NewCollection[Feature](NewPostgresRepository[Feature](db, KindWhyChooseUs)),
		ProBenefits: NewCollection[Feature](NewPostgresRepository[Feature](db, KindProBenefits)),
		ProContent:  NewCollection[ProSection](NewPostgresRepository[ProSection](db, KindProContent)),
	}
}

// NewInMemoryService builds a service with empty in-memory collections.
func NewInMemoryService() *Service {
	return &Service{
		Posts:       NewCollection[Post](NewInMemoryRepository[Post]()),
		Projects:    NewCollection[Project](NewInMemoryRepository[Project]()),
		WhyChooseUs: NewCollection[Feature](NewInMemoryRepository[Feature]()),
		ProBenefits: NewCollection[Feature](NewInMemoryRepository[Feature]()),
		ProContent:  NewCollection[ProSection](NewInMemoryRepository[ProSection]()),
	}
}
