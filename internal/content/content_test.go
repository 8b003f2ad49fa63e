package content

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(s *Service) *fiber.App {
	app := fiber.New()
	NewHandler(s).RegisterAdminRoutes(app)
	return app
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("why-choose-us")
	assert.True(t, ok)
	assert.Equal(t, KindWhyChooseUs, k)
	_, ok = ParseKind("faq")
	assert.False(t, ok)
	for _, k := range Kinds {
		assert.NotPanics(t, func() { k.table() }, string(k))
	}
}

func TestHandler_CreatePostDefaultsSlug(t *testing.T) {
	svc := NewInMemoryService()
	app := newApp(svc)

	req := httptest.NewRequest("POST", "/content/blog", strings.NewReader(`{"title":"Cómo elegir tu lámpara"}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, res.StatusCode)

	var p Post
	b, _ := io.ReadAll(res.Body)
	require.NoError(t, json.Unmarshal(b, &p))
	assert.Equal(t, "como-elegir-tu-lampara", p.Slug)
	assert.NotEmpty(t, p.ID)
	assert.False(t, p.PublishedAt.IsZero())

	found, err := svc.Posts.FindBySlugOrID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Slug, found.Slug)
	found, err = svc.Posts.FindBySlugOrID(context.Background(), "como-elegir-tu-lampara")
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)
	_, err = svc.Posts.FindBySlugOrID(context.Background(), "no-existe")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHandler_ValidationAndUnknownKind(t *testing.T) {
	app := newApp(NewInMemoryService())

	req := httptest.NewRequest("POST", "/content/pro-content", strings.NewReader(`{"title":"Sin sección"}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	res, err = app.Test(httptest.NewRequest("GET", "/content/faq", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)

	res, err = app.Test(httptest.NewRequest("DELETE", "/content/projects/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
}

func TestInMemory_OrderingAndSlugConflict(t *testing.T) {
	ctx := context.Background()
	features := NewCollection[Feature](NewInMemoryRepository[Feature]())
	_, _ = features.Create(ctx, Feature{Title: "Envío rápido", OrderIndex: 2})
	_, _ = features.Create(ctx, Feature{Title: "Asesoramiento", OrderIndex: 1})
	list, err := features.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Asesoramiento", list[0].Title)

	projects := NewCollection[Project](NewInMemoryRepository[Project]())
	_, err = projects.Create(ctx, Project{Title: "Hotel Sol"})
	require.NoError(t, err)
	_, err = projects.Create(ctx, Project{Title: "Hotel Sol"})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestPostgresRepository_ListAndNamedInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository[Feature](sqlx.NewDb(db, "pgx"), KindWhyChooseUs)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id::text AS id, title, description, icon_name, order_index FROM why_choose_us ORDER BY order_index, title")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "icon_name", "order_index"}).
			AddRow("f1", "Garantía", "Dos años", "shield", 1))
	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "shield", list[0].IconName)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO why_choose_us (id, title, description, icon_name, order_index) VALUES ($1, $2, $3, $4, $5)")).
		WithArgs("f2", "Stock", "", "", 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	_, err = repo.Create(context.Background(), Feature{ID: "f2", Title: "Stock"})
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE why_choose_us SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	_, err = repo.Update(context.Background(), Feature{ID: "nope", Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_SlugLookupOnlyForSluggedKinds(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	x := sqlx.NewDb(db, "pgx")

	_, err = NewPostgresRepository[ProSection](x, KindProContent).GetBySlug(context.Background(), "algo")
	assert.ErrorIs(t, err, ErrNotFound)

	published := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM blog_posts WHERE slug = $1 LIMIT 1")).
		WithArgs("luz-calida").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "slug", "excerpt", "content", "image_url", "category", "meta_title", "meta_description", "published_at"}).
			AddRow("p1", "Luz cálida", "luz-calida", "", "", "", "", "", "", published))
	p, err := NewPostgresRepository[Post](x, KindBlog).GetBySlug(context.Background(), "luz-calida")
	require.NoError(t, err)
	assert.Equal(t, published, p.PublishedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}
