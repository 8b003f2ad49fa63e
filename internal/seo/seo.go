// Package seo resolves page metadata for a storefront path. A per-route
// override wins over the product or blog entry the path names, which wins
// over the global defaults.
package seo

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"github.com/milluces/milluces-backend/internal/content"
	"github.com/milluces/milluces-backend/internal/product"
	"github.com/milluces/milluces-backend/internal/settings"
)

type RouteKind string

const (
	RouteStatic  RouteKind = "static"
	RouteProduct RouteKind = "product"
	RouteBlog    RouteKind = "blog"
)

// Route is a classified storefront path.
type Route struct {
	Kind RouteKind
	Path string // cleaned, leading slash, no query
	Key  string // seo_pages key: path without slashes, "home" for "/"
	Slug string // entity slug or id for product and blog routes
}

// Classify cleans path and recognises the detail routes.
func Classify(raw string) Route {
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	}
	p = "/" + strings.Trim(p, "/")
	key := strings.Trim(p, "/")
	if key == "" {
		key = "home"
	}
	r := Route{Kind: RouteStatic, Path: p, Key: key}

	parts := strings.Split(strings.Trim(p, "/"), "/")
	if len(parts) == 2 && parts[1] != "" {
		switch parts[0] {
		case "producto", "productos":
			r.Kind, r.Slug = RouteProduct, parts[1]
		case "blog":
			r.Kind, r.Slug = RouteBlog, parts[1]
		}
	}
	return r
}

type Source string

const (
	SourcePage   Source = "page"
	SourceEntity Source = "entity"
	SourceGlobal Source = "global"
)

type Metadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	OGImage     string `json:"og_image,omitempty"`
	Canonical   string `json:"canonical"`
	Source      Source `json:"source"`
}

type Store interface {
	SEOGlobal(ctx context.Context) (settings.SEOGlobal, error)
	SEOPages(ctx context.Context) (settings.SEOPages, error)
	Put(ctx context.Context, key settings.Key, value json.RawMessage) (settings.Setting, error)
}

type ProductLookup interface {
	FindBySlugOrID(ctx context.Context, key string) (product.Product, error)
}

type PostLookup interface {
	FindBySlugOrID(ctx context.Context, key string) (content.Post, error)
}

// Resolver reads settings and entities on every call; nothing is cached.
type Resolver struct {
	store    Store
	products ProductLookup
	posts    PostLookup
	siteURL  string
}

func NewResolver(store Store, products ProductLookup, posts PostLookup, siteURL string) *Resolver {
	return &Resolver{store: store, products: products, posts: posts, siteURL: strings.TrimRight(siteURL, "/")}
}

func (r *Resolver) Resolve(ctx context.Context, path string) (Metadata, error) {
	route := Classify(path)
	global, err := r.store.SEOGlobal(ctx)
	if err != nil {
		return Metadata{}, err
	}
	canonical := r.siteURL + route.Path

	pages, err := r.store.SEOPages(ctx)
	if err != nil {
		return Metadata{}, err
	}
	if page, ok := findPage(pages, route); ok {
		return Metadata{
			Title:       first(page.MetaTitle, page.Title, global.SiteName),
			Description: first(page.MetaDescription, page.Description, global.HomeDescription),
			OGImage:     global.OGImage,
			Canonical:   canonical,
			Source:      SourcePage,
		}, nil
	}

	md, ok, err := r.entity(ctx, route, global)
	if err != nil {
		return Metadata{}, err
	}
	if ok {
		md.Canonical = canonical
		return md, nil
	}

	return Metadata{
		Title:       first(global.HomeTitle, global.SiteName),
		Description: global.HomeDescription,
		OGImage:     global.OGImage,
		Canonical:   canonical,
		Source:      SourceGlobal,
	}, nil
}

func findPage(pages settings.SEOPages, route Route) (settings.SEOPage, bool) {
	if p, ok := pages[route.Key]; ok {
		return p, true
	}
	for _, p := range pages {
		if p.Slug == "" {
			continue
		}
		if p.Slug == route.Path || strings.Trim(p.Slug, "/") == route.Key {
			return p, true
		}
	}
	return settings.SEOPage{}, false
}

// entity looks up the product or post a detail route names. A missing entity
// is not an error; the caller falls back to the global block.
func (r *Resolver) entity(ctx context.Context, route Route, global settings.SEOGlobal) (Metadata, bool, error) {
	switch route.Kind {
	case RouteProduct:
		if r.products == nil {
			return Metadata{}, false, nil
		}
		p, err := r.products.FindBySlugOrID(ctx, route.Slug)
		if errors.Is(err, product.ErrNotFound) {
			return Metadata{}, false, nil
		}
		if err != nil {
			return Metadata{}, false, err
		}
		return Metadata{
			Title:       first(deref(p.MetaTitle), p.Name),
			Description: first(deref(p.MetaDescription), summary(p.Description)),
			OGImage:     first(deref(p.ImageURL), global.OGImage),
			Source:      SourceEntity,
		}, true, nil
	case RouteBlog:
		if r.posts == nil {
			return Metadata{}, false, nil
		}
		post, err := r.posts.FindBySlugOrID(ctx, route.Slug)
		if errors.Is(err, content.ErrNotFound) {
			return Metadata{}, false, nil
		}
		if err != nil {
			return Metadata{}, false, err
		}
		return Metadata{
			Title:       first(post.MetaTitle, post.Title),
			Description: first(post.MetaDescription, post.Excerpt, summary(post.Content)),
			OGImage:     first(post.ImageURL, global.OGImage),
			Source:      SourceEntity,
		}, true, nil
	case RouteStatic:
		return Metadata{}, false, nil
	}
	return Metadata{}, false, nil
}

func first(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

const summaryLen = 160

// summary cuts long text at a word boundary for meta descriptions.
func summary(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= summaryLen {
		return s
	}
	cut := string(r[:summaryLen])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}
