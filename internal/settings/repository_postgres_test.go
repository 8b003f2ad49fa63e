package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPostgresGet_NoRowsIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("SELECT value FROM app_settings").WithArgs("payment_stripe").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	if _, err := repo.Get(context.Background(), KeyPaymentStripe); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO app_settings").WithArgs("seo_global", []byte(`{"site_name":"Mil Luces"}`)).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

	st, err := repo.Upsert(context.Background(), KeySEOGlobal, []byte(`{"site_name":"Mil Luces"}`))
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if st.UpdatedAt != "2026-01-02T03:04:05Z" {
		t.Fatalf("unexpected updatedAt %q", st.UpdatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
