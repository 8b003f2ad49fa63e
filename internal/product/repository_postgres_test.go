package product

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
)

var productColumns = []string{
	"id", "name", "slug", "price", "image_url", "category_id", "brand_id", "stock",
	"description", "meta_title", "meta_description", "featured", "created_at",
	"category_slug", "parent_category_slug", "brand_slug", "room_ids", "room_slugs",
}

func productRow(id, name, slug string) *sqlmock.Rows {
	return sqlmock.NewRows(productColumns).AddRow(
		id, name, slug, "9.99", "/uploads/products/a.png", "cat-1", nil, 12,
		"desc", nil, "meta", true, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		"bombillas", "iluminacion", "", "{room-1,room-2}", "{cocina,salon}",
	)
}

func TestList_ScansJoinedColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("FROM products p").
		WithArgs("iluminacion", "", "", sqlmock.AnyArg()).
		WillReturnRows(productRow("p-1", "Bombilla LED", "bombilla-led"))

	products, err := repo.List(context.Background(), Filter{CategorySlug: "iluminacion"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
	p := products[0]
	if !p.Price.Equal(decimal.RequireFromString("9.99")) {
		t.Fatalf("unexpected price %s", p.Price)
	}
	if p.BrandID != nil || p.MetaTitle != nil {
		t.Fatalf("expected NULL columns to stay nil: %+v", p)
	}
	if p.MetaDescription == nil || *p.MetaDescription != "meta" {
		t.Fatalf("unexpected meta description %v", p.MetaDescription)
	}
	if len(p.RoomIDs) != 2 || p.RoomSlugs[1] != "salon" {
		t.Fatalf("unexpected rooms %v %v", p.RoomIDs, p.RoomSlugs)
	}
	if p.ParentCategorySlug != "iluminacion" {
		t.Fatalf("unexpected parent slug %q", p.ParentCategorySlug)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetBySlug_NoRowsIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("WHERE p.slug").WithArgs("nope").WillReturnRows(sqlmock.NewRows(productColumns))

	if _, err := repo.GetBySlug(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreate_WritesRowAndRoomsInOneTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO products").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM product_rooms").WithArgs("p-1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO product_rooms").WithArgs("p-1", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()
	mock.ExpectQuery("WHERE p.id").WithArgs("p-1").WillReturnRows(productRow("p-1", "Bombilla LED", "bombilla-led"))

	created, err := repo.Create(context.Background(), Product{
		ID: "p-1", Name: "Bombilla LED", Slug: "bombilla-led", Price: decimal.RequireFromString("9.99"),
		RoomIDs: []string{"room-1", "room-2"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.CategorySlug != "bombillas" {
		t.Fatalf("expected joined fields after create, got %+v", created)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreate_RoomFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO products").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM product_rooms").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO product_rooms").WillReturnError(errors.New("fk violation"))
	mock.ExpectRollback()

	_, err = repo.Create(context.Background(), Product{ID: "p-1", Name: "X", Slug: "x", RoomIDs: []string{"bad"}})
	if err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdate_MissingRowIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE products").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	if _, err := repo.Update(context.Background(), "missing", Product{Name: "X", Slug: "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDelete_MalformedIDIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products WHERE id::text = $1")).
		WithArgs("lampara-42").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "lampara-42"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
