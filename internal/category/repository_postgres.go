package category

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresRepository implements Repository using Postgres.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const (
	selectCategory = `SELECT id, name, slug, parent_id, icon_name, image_url, order_index, created_at FROM categories`

	listCategoriesQuery = selectCategory + ` ORDER BY order_index, name`
	getCategoryQuery    = selectCategory + ` WHERE id::text = $1`
	slugExistsQuery     = `SELECT EXISTS (SELECT 1 FROM categories WHERE slug = $1 AND id::text <> $2)`
	countChildrenQuery  = `SELECT count(*) FROM categories WHERE parent_id::text = $1`
	countProductsQuery  = `SELECT count(*) FROM products WHERE category_id::text = $1`
	insertCategoryQuery = `
		INSERT INTO categories (id, name, slug, parent_id, icon_name, image_url, order_index)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at`
	updateCategoryQuery = `
		UPDATE categories
		SET name = $2, slug = $3, parent_id = $4, icon_name = $5, image_url = $6, order_index = $7
		WHERE id::text = $1
		RETURNING created_at`
	deleteCategoryQuery = `DELETE FROM categories WHERE id::text = $1`
)

// List returns every category ordered by order_index, then name.
func (r *PostgresRepository) List(ctx context.Context) ([]Category, error) {
	rows, err := r.db.QueryContext(ctx, listCategoriesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Category, error) {
	c, err := scanCategory(r.db.QueryRowContext(ctx, getCategoryQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Category{}, ErrNotFound
	}
	return c, err
}

func (r *PostgresRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, slugExistsQuery, slug, excludeID).Scan(&exists)
	return exists, err
}

func (r *PostgresRepository) CountChildren(ctx context.Context, id string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, countChildrenQuery, id).Scan(&n)
	return n, err
}

func (r *PostgresRepository) CountProducts(ctx context.Context, id string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, countProductsQuery, id).Scan(&n)
	return n, err
}

func (r *PostgresRepository) Create(ctx context.Context, c Category) (Category, error) {
	err := r.db.QueryRowContext(ctx, insertCategoryQuery, categoryArgs(c)...).Scan(&c.CreatedAt)
	if err != nil {
		return Category{}, err
	}
	return c, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, c Category) (Category, error) {
	c.ID = id
	err := r.db.QueryRowContext(ctx, updateCategoryQuery, categoryArgs(c)...).Scan(&c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Category{}, ErrNotFound
	}
	if err != nil {
		return Category{}, err
	}
	return c, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, deleteCategoryQuery, id)
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

func categoryArgs(c Category) []any {
	var icon sql.NullString
	if c.IconName != "" {
		icon = sql.NullString{String: string(c.IconName), Valid: true}
	}
	return []any{c.ID, c.Name, c.Slug, c.ParentID, icon, c.ImageURL, c.OrderIndex}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(scanner rowScanner) (Category, error) {
	var (
		c        Category
		parentID sql.NullString
		icon     sql.NullString
		imageURL sql.NullString
	)
	if err := scanner.Scan(&c.ID, &c.Name, &c.Slug, &parentID, &icon, &imageURL, &c.OrderIndex, &c.CreatedAt); err != nil {
		return Category{}, err
	}
	c.Kind = KindTop
	if parentID.Valid {
		c.ParentID = &parentID.String
		c.Kind = KindSub
	}
	if icon.Valid {
		c.IconName = Icon(icon.String)
	}
	if imageURL.Valid {
		c.ImageURL = &imageURL.String
	}
	return c, nil
}
