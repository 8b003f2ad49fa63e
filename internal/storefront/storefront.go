// Package storefront serves the public read views of the shop. Lists that
// come back empty are replaced by static sample data so the site renders
// before the catalog is loaded; failed reads are reported, never masked.
package storefront

import (
	"context"

	"github.com/milluces/milluces-backend/internal/banner"
	"github.com/milluces/milluces-backend/internal/category"
	"github.com/milluces/milluces-backend/internal/content"
	"github.com/milluces/milluces-backend/internal/product"
	"github.com/milluces/milluces-backend/internal/taxonomy"
)

// Result is a list view. Fallback is true when Items is the static sample.
type Result[T any] struct {
	Items    []T  `json:"items"`
	Fallback bool `json:"fallback"`
}

// Load runs fetch and applies static only when fetch succeeded with no rows.
func Load[T any](ctx context.Context, fetch func(context.Context) ([]T, error), static []T) (Result[T], error) {
	items, err := fetch(ctx)
	if err != nil {
		return Result[T]{}, err
	}
	if len(items) == 0 {
		if static == nil {
			static = []T{}
		}
		return Result[T]{Items: static, Fallback: len(static) > 0}, nil
	}
	return Result[T]{Items: items}, nil
}

// Section is a home page block; a failing block carries its error instead of items.
type Section[T any] struct {
	Result[T]
	Error string `json:"error,omitempty"`
}

func section[T any](ctx context.Context, fetch func(context.Context) ([]T, error), static []T) Section[T] {
	r, err := Load(ctx, fetch, static)
	if err != nil {
		return Section[T]{Result: Result[T]{Items: []T{}}, Error: errorMessage}
	}
	return Section[T]{Result: r}
}

type Products interface {
	List(ctx context.Context, f product.Filter) ([]product.Product, error)
	FindBySlugOrID(ctx context.Context, key string) (product.Product, error)
}

type Categories interface {
	Tree(ctx context.Context) ([]category.Category, error)
}

type Taxonomy interface {
	List(ctx context.Context, kind taxonomy.Kind) ([]taxonomy.Term, error)
}

type Sliders interface {
	List(ctx context.Context, opts banner.ListOptions) ([]banner.Slider, error)
}

type Lister[T any] interface {
	List(ctx context.Context) ([]T, error)
}

type Posts interface {
	Lister[content.Post]
	FindBySlugOrID(ctx context.Context, key string) (content.Post, error)
}

// Sources are the read sides the views draw from.
type Sources struct {
	Products    Products
	Categories  Categories
	Taxonomy    Taxonomy
	Sliders     Sliders
	Posts       Posts
	Projects    Lister[content.Project]
	WhyChooseUs Lister[content.Feature]
	ProBenefits Lister[content.Feature]
	ProContent  Lister[content.ProSection]
}
