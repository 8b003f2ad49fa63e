package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

type table struct {
	name    string
	columns []string
	orderBy string
	slugged bool
}

// table maps a kind to its storage. Every Kind must have a case.
func (k Kind) table() table {
	switch k {
	case KindBlog:
		return table{
			name:    "blog_posts",
			columns: []string{"id", "title", "slug", "excerpt", "content", "image_url", "category", "meta_title", "meta_description", "published_at"},
			orderBy: "published_at DESC",
			slugged: true,
		}
	case KindProjects:
		return table{
			name:    "projects",
			columns: []string{"id", "title", "slug", "description", "image_url", "category", "order_index"},
			orderBy: "order_index, title",
			slugged: true,
		}
	case KindWhyChooseUs:
		return table{
			name:    "why_choose_us",
			columns: []string{"id", "title", "description", "icon_name", "order_index"},
			orderBy: "order_index, title",
		}
	case KindProBenefits:
		return table{
			name:    "pro_benefits",
			columns: []string{"id", "title", "description", "icon_name", "order_index"},
			orderBy: "order_index, title",
		}
	case KindProContent:
		return table{
			name:    "pro_content",
			columns: []string{"id", "section", "title", "body", "image_url", "order_index"},
			orderBy: "section, order_index",
		}
	}
	panic(fmt.Sprintf("content: no table for kind %q", k))
}

func (t table) selectColumns() string {
	cols := make([]string, len(t.columns))
	for i, c := range t.columns {
		if c == "id" {
			cols[i] = "id::text AS id"
			continue
		}
		cols[i] = c
	}
	return strings.Join(cols, ", ")
}

func (t table) insertQuery() string {
	named := make([]string, len(t.columns))
	for i, c := range t.columns {
		named[i] = ":" + c
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.name, strings.Join(t.columns, ", "), strings.Join(named, ", "))
}

func (t table) updateQuery() string {
	sets := make([]string, 0, len(t.columns)-1)
	for _, c := range t.columns {
		if c == "id" {
			continue
		}
		sets = append(sets, c+" = :"+c)
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE id::text = :id", t.name, strings.Join(sets, ", "))
}

// PostgresRepository stores one kind of entry through sqlx struct scanning.
type PostgresRepository[T Record[T]] struct {
	db *sqlx.DB
	t  table
}

func NewPostgresRepository[T Record[T]](db *sqlx.DB, kind Kind) *PostgresRepository[T] {
	return &PostgresRepository[T]{db: db, t: kind.table()}
}

func (r *PostgresRepository[T]) List(ctx context.Context) ([]T, error) {
	out := make([]T, 0)
	q := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", r.t.selectColumns(), r.t.name, r.t.orderBy)
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRepository[T]) GetByID(ctx context.Context, id string) (T, error) {
	return r.getOne(ctx, "id::text", id)
}

func (r *PostgresRepository[T]) GetBySlug(ctx context.Context, slug string) (T, error) {
	if !r.t.slugged {
		var zero T
		return zero, ErrNotFound
	}
	return r.getOne(ctx, "slug", slug)
}

func (r *PostgresRepository[T]) getOne(ctx context.Context, column, value string) (T, error) {
	var item T
	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 LIMIT 1", r.t.selectColumns(), r.t.name, column)
	err := r.db.GetContext(ctx, &item, q, value)
	if errors.Is(err, sql.ErrNoRows) {
		return item, ErrNotFound
	}
	return item, err
}

func (r *PostgresRepository[T]) Create(ctx context.Context, item T) (T, error) {
	if _, err := r.db.NamedExecContext(ctx, r.t.insertQuery(), item); err != nil {
		var zero T
		return zero, mapError(err)
	}
	return item, nil
}

func (r *PostgresRepository[T]) Update(ctx context.Context, item T) (T, error) {
	var zero T
	result, err := r.db.NamedExecContext(ctx, r.t.updateQuery(), item)
	if err != nil {
		return zero, mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return zero, err
	}
	if affected == 0 {
		return zero, ErrNotFound
	}
	return item, nil
}

func (r *PostgresRepository[T]) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id::text = $1", r.t.name), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrSlugTaken
	}
	return err
}
