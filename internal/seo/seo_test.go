package seo

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milluces/milluces-backend/internal/content"
	"github.com/milluces/milluces-backend/internal/product"
	"github.com/milluces/milluces-backend/internal/settings"
)

const site = "https://milluces.com"

func fixture(t *testing.T, pages settings.SEOPages) (*Resolver, *settings.Service) {
	t.Helper()
	seed := map[settings.Key]any{
		settings.KeySEOGlobal: settings.SEOGlobal{SiteName: "Mil Luces", HomeTitle: "Mil Luces | Iluminación", HomeDescription: "Tienda de iluminación", OGImage: "/og.jpg"},
	}
	if pages != nil {
		seed[settings.KeySEOPages] = pages
	}
	store := settings.NewService(settings.NewInMemoryRepository(seed))

	title := "Foco empotrable para baño"
	products := product.NewService(product.NewInMemoryRepository([]product.Product{
		{ID: "a9c3f1d2-0000-4000-8000-000000000001", Name: "Foco", Slug: "foco-bano", Price: decimal.NewFromInt(10), MetaTitle: &title, Description: "Foco IP44"},
	}))

	posts := content.NewCollection[content.Post](content.NewInMemoryRepository(content.Post{
		ID: "p1", Title: "Luz cálida", Slug: "luz-calida", Excerpt: "Guía rápida", ImageURL: "/uploads/blog/calida.jpg", PublishedAt: time.Now(),
	}))
	return NewResolver(store, products, posts, site+"/"), store
}

func TestClassify(t *testing.T) {
	cases := []struct {
		in   string
		kind RouteKind
		key  string
		slug string
	}{
		{"/", RouteStatic, "home", ""},
		{"", RouteStatic, "home", ""},
		{"/contacto/", RouteStatic, "contacto", ""},
		{"/producto/foco-bano?ref=x", RouteProduct, "producto/foco-bano", "foco-bano"},
		{"/productos/foco-bano", RouteProduct, "productos/foco-bano", "foco-bano"},
		{"/blog/luz-calida", RouteBlog, "blog/luz-calida", "luz-calida"},
		{"/blog", RouteStatic, "blog", ""},
	}
	for _, tc := range cases {
		r := Classify(tc.in)
		assert.Equal(t, tc.kind, r.Kind, tc.in)
		assert.Equal(t, tc.key, r.Key, tc.in)
		assert.Equal(t, tc.slug, r.Slug, tc.in)
	}
}

func TestResolve_Priority(t *testing.T) {
	ctx := context.Background()
	r, _ := fixture(t, settings.SEOPages{
		"contacto":           {Title: "Contacto", Description: "Escríbenos"},
		"producto/foco-bano": {MetaTitle: "Oferta foco"},
	})

	// page override beats the entity
	md, err := r.Resolve(ctx, "/producto/foco-bano")
	require.NoError(t, err)
	assert.Equal(t, SourcePage, md.Source)
	assert.Equal(t, "Oferta foco", md.Title)
	assert.Equal(t, site+"/producto/foco-bano", md.Canonical)

	// entity beats global
	md, err = r.Resolve(ctx, "/blog/luz-calida")
	require.NoError(t, err)
	assert.Equal(t, SourceEntity, md.Source)
	assert.Equal(t, "Luz cálida", md.Title)
	assert.Equal(t, "Guía rápida", md.Description)
	assert.Equal(t, "/uploads/blog/calida.jpg", md.OGImage)

	md, err = r.Resolve(ctx, "/productos/foco-bano")
	require.NoError(t, err)
	assert.Equal(t, SourceEntity, md.Source)
	assert.Equal(t, "Foco empotrable para baño", md.Title)
	assert.Equal(t, "/og.jpg", md.OGImage)

	// unknown entity falls back to global
	md, err = r.Resolve(ctx, "/blog/no-existe")
	require.NoError(t, err)
	assert.Equal(t, SourceGlobal, md.Source)
	assert.Equal(t, "Mil Luces | Iluminación", md.Title)
	assert.Equal(t, site+"/blog/no-existe", md.Canonical)

	md, err = r.Resolve(ctx, "/")
	require.NoError(t, err)
	assert.Equal(t, SourceGlobal, md.Source)
	assert.Equal(t, site+"/", md.Canonical)
}

func TestResolve_PageMatchedBySlug(t *testing.T) {
	r, _ := fixture(t, settings.SEOPages{"pro": {Title: "Profesionales", Slug: "/profesionales"}})
	md, err := r.Resolve(context.Background(), "/profesionales")
	require.NoError(t, err)
	assert.Equal(t, SourcePage, md.Source)
	assert.Equal(t, "Profesionales", md.Title)
}

func TestAdmin_PutPagesIsReadByResolver(t *testing.T) {
	r, store := fixture(t, nil)
	app := fiber.New()
	h := NewHandler(r, store, nil)
	h.RegisterPublicRoutes(app)
	h.RegisterAdminRoutes(app)

	req := httptest.NewRequest("PUT", "/seo/pages", strings.NewReader(`{"contacto":{"title":"Contacta con nosotros"}}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	res, err = app.Test(httptest.NewRequest("GET", "/seo?path=/contacto", nil))
	require.NoError(t, err)
	b, _ := io.ReadAll(res.Body)
	assert.Contains(t, string(b), "Contacta con nosotros")
	assert.Contains(t, string(b), `"source":"page"`)

	req = httptest.NewRequest("PUT", "/seo/global", strings.NewReader(`[1,2]`))
	res, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
}
